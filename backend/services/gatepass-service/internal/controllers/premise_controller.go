package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-middleware"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type PremiseController struct {
	premiseService   *services.PremiseService
	masterKeyService *services.MasterKeyService
}

func NewPremiseController(ps *services.PremiseService, mks *services.MasterKeyService) *PremiseController {
	return &PremiseController{premiseService: ps, masterKeyService: mks}
}

// ----------------------------------------------------------------
// POST /api/v1/premises
// ----------------------------------------------------------------
func (c *PremiseController) RegisterPremiseHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.RegisterPremiseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.premiseService.RegisterPremise(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, "Could not register premise")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// ----------------------------------------------------------------
// GET /api/v1/premises[?managed=true]
// Browsing is public; managed=true needs a token.
// ----------------------------------------------------------------
func (c *PremiseController) ListPremisesHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("managed") == "true" {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Sign in to list managed premises", nil, nil)
			return
		}
		ps, err := c.premiseService.ListManagedPremises(r.Context(), userID)
		if err != nil {
			respondServiceError(w, err, "Could not list premises")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, ps)
		return
	}
	ps, err := c.premiseService.ListPremises(r.Context())
	if err != nil {
		respondServiceError(w, err, "Could not list premises")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ps)
}

// GET /api/v1/premises/{premiseId}
func (c *PremiseController) GetPremiseHandler(w http.ResponseWriter, r *http.Request) {
	p, err := c.premiseService.GetPremise(r.Context(), mux.Vars(r)["premiseId"])
	if err != nil {
		respondServiceError(w, err, "Could not load premise")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// managerOnly resolves the caller and checks they manage the premise in the path.
func (c *PremiseController) managerOnly(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return "", false
	}
	premiseID := mux.Vars(r)["premiseId"]
	if err := c.premiseService.RequireManager(r.Context(), premiseID, userID); err != nil {
		respondServiceError(w, err, "Could not check premise access")
		return "", false
	}
	return premiseID, true
}

// POST /api/v1/premises/{premiseId}/units
func (c *PremiseController) AddUnitHandler(w http.ResponseWriter, r *http.Request) {
	premiseID, ok := c.managerOnly(w, r)
	if !ok {
		return
	}
	var req dtos.UnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.premiseService.AddUnit(r.Context(), premiseID, req)
	if err != nil {
		respondServiceError(w, err, "Could not add unit")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, u)
}

// PATCH /api/v1/premises/{premiseId}/units/{unitId}
func (c *PremiseController) UpdateUnitHandler(w http.ResponseWriter, r *http.Request) {
	premiseID, ok := c.managerOnly(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.premiseService.UpdateUnit(r.Context(), premiseID, mux.Vars(r)["unitId"], req)
	if err != nil {
		respondServiceError(w, err, "Could not update unit")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}

// POST /api/v1/premises/{premiseId}/units/{unitId}/occupy
func (c *PremiseController) OccupyUnitHandler(w http.ResponseWriter, r *http.Request) {
	premiseID, ok := c.managerOnly(w, r)
	if !ok {
		return
	}
	var req dtos.OccupyUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.premiseService.MoveUnitToOccupied(r.Context(), premiseID, mux.Vars(r)["unitId"], req.TenantID, req.TenantName)
	if err != nil {
		respondServiceError(w, err, "Could not occupy unit")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// POST /api/v1/premises/{premiseId}/units/{unitId}/vacate
func (c *PremiseController) VacateUnitHandler(w http.ResponseWriter, r *http.Request) {
	premiseID, ok := c.managerOnly(w, r)
	if !ok {
		return
	}
	p, err := c.premiseService.MoveUnitToVacant(r.Context(), premiseID, mux.Vars(r)["unitId"])
	if err != nil {
		respondServiceError(w, err, "Could not vacate unit")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// ----------------------------------------------------------------
// POST /api/v1/premises/{premiseId}/master-keys
// Authorisation is decided by the master key service: managers issue any
// key, tenant admins only co-host keys for their own unit.
// ----------------------------------------------------------------
func (c *PremiseController) IssueMasterKeyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.IssueMasterKeyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	code, expiresAt, err := c.masterKeyService.Issue(r.Context(), userID, req.Role, mux.Vars(r)["premiseId"], req.UnitID, req.AdminID)
	if err != nil {
		respondServiceError(w, err, "Could not issue key")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.IssueMasterKeyResponse{Code: code, ExpiresAt: expiresAt})
}
