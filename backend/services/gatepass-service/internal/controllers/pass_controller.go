package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type PassController struct {
	passService *services.PassService
}

func NewPassController(ps *services.PassService) *PassController {
	return &PassController{passService: ps}
}

// POST /api/v1/passes
func (c *PassController) CreatePassHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.CreatePassRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}
	pass, err := c.passService.CreatePass(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, "Could not create pass")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, pass)
}

// GET /api/v1/passes?premise_id=
func (c *PassController) ListPassesHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	passes, err := c.passService.ListPasses(r.Context(), r.URL.Query().Get("premise_id"))
	if err != nil {
		respondServiceError(w, err, "Could not list passes")
		return
	}
	if passes == nil {
		passes = []*models.AccessRequest{}
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ListPassesResponse{Passes: passes})
}

// GET /api/v1/passes/{passId}
func (c *PassController) GetPassHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	pass, err := c.passService.GetPass(r.Context(), mux.Vars(r)["passId"])
	if err != nil {
		respondServiceError(w, err, "Could not load pass")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pass)
}

// PATCH /api/v1/passes/{passId}/status
func (c *PassController) UpdatePassStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdatePassStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	passID := mux.Vars(r)["passId"]
	if err := c.passService.AuthorizeStatusChange(r.Context(), userID, passID); err != nil {
		respondServiceError(w, err, "Could not check pass access")
		return
	}
	pass, err := c.passService.SetPassStatus(r.Context(), passID, req.Status)
	if err != nil {
		respondServiceError(w, err, "Could not update pass")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pass)
}
