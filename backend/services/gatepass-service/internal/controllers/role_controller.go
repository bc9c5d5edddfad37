package controllers

import (
	"net/http"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	shared_dtos "github.com/noid254/Qaribu-sub000/backend/shared/go-dtos"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type RoleController struct {
	roleService      *services.RoleService
	masterKeyService *services.MasterKeyService
}

func NewRoleController(rs *services.RoleService, mks *services.MasterKeyService) *RoleController {
	return &RoleController{roleService: rs, masterKeyService: mks}
}

// ----------------------------------------------------------------
// POST /api/v1/roles/assign
// With a code, callers redeem a master key for themselves. Without one,
// the caller must be allowed to grant the role directly.
// ----------------------------------------------------------------
func (c *RoleController) AssignRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.AssignRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	if req.Code != "" {
		if req.PersonID != userID {
			utils.RespondErrorWithCode(w, http.StatusForbidden, utils.ErrCodeForbidden, "A master key can only be redeemed for yourself", nil, nil)
			return
		}
		p, err := c.masterKeyService.Redeem(ctx, userID, req.Code)
		if err != nil {
			respondServiceError(w, err, "Could not redeem key")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, shared_dtos.NewPersonFromModel(p))
		return
	}

	if req.Role == models.RoleNone || req.PremiseID == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Either code or role and premise_id are required", nil, nil)
		return
	}
	setup := internal_utils.SetupData{Role: req.Role, PremiseID: req.PremiseID, UnitID: req.UnitID, AdminID: req.AdminID}
	if err := c.roleService.AuthorizeGrant(ctx, userID, setup); err != nil {
		respondServiceError(w, err, "Could not check role access")
		return
	}
	var details *services.AssignDetails
	if req.Floor != "" || req.UnitDetails != nil {
		details = &services.AssignDetails{Floor: req.Floor, UnitDetails: req.UnitDetails}
	}
	p, err := c.roleService.AssignRole(ctx, req.PersonID, setup, details)
	if err != nil {
		respondServiceError(w, err, "Could not assign role")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, shared_dtos.NewPersonFromModel(p))
}

// POST /api/v1/roles/revoke
func (c *RoleController) RevokeRoleHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.RevokeRoleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()
	if err := c.roleService.AuthorizeRevoke(ctx, userID, req.PersonID, req.PremiseID, req.Vacancy != nil); err != nil {
		respondServiceError(w, err, "Could not check role access")
		return
	}
	var vacancy models.Unit
	if req.Vacancy != nil {
		vacancy = req.Vacancy.ToUnit()
	}
	if err := c.roleService.RevokeRole(ctx, req.PersonID, req.PremiseID, vacancy); err != nil {
		respondServiceError(w, err, "Could not revoke role")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
