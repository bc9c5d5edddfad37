package controllers

import (
	"net/http"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type AccessController struct {
	verifier    *services.AccessVerificationService
	scanService *services.ScanService
}

func NewAccessController(v *services.AccessVerificationService, s *services.ScanService) *AccessController {
	return &AccessController{verifier: v, scanService: s}
}

// POST /api/v1/access/verify
//
// A denied entry is still a 200; the decision says why.
func (c *AccessController) VerifyHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.VerifyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	decision, err := c.verifier.Verify(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, "Could not verify code")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, decision)
}

// POST /api/v1/scan
func (c *AccessController) ScanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.ScanRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.scanService.HandleScan(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err, "Could not handle scan")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
