package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/services"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type ShiftController struct {
	shiftService *services.ShiftService
}

func NewShiftController(s *services.ShiftService) *ShiftController {
	return &ShiftController{shiftService: s}
}

// gateStaff resolves the caller and checks they work the gate of the
// premise in the path.
func (c *ShiftController) gateStaff(w http.ResponseWriter, r *http.Request) (userID, premiseID string, ok bool) {
	userID, ok = requireUserID(w, r)
	if !ok {
		return "", "", false
	}
	premiseID = mux.Vars(r)["premiseId"]
	if err := c.shiftService.AuthorizeGateStaff(r.Context(), premiseID, userID); err != nil {
		respondServiceError(w, err, "Could not check gate access")
		return "", "", false
	}
	return userID, premiseID, true
}

// POST /api/v1/premises/{premiseId}/activity
func (c *ShiftController) LogActivityHandler(w http.ResponseWriter, r *http.Request) {
	userID, premiseID, ok := c.gateStaff(w, r)
	if !ok {
		return
	}
	var req dtos.LogActivityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	e, err := c.shiftService.LogActivity(r.Context(), premiseID, userID, req.Description)
	if err != nil {
		respondServiceError(w, err, "Could not log activity")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, e)
}

// GET /api/v1/premises/{premiseId}/activity
func (c *ShiftController) RecentActivityHandler(w http.ResponseWriter, r *http.Request) {
	_, premiseID, ok := c.gateStaff(w, r)
	if !ok {
		return
	}
	entries, err := c.shiftService.RecentActivity(r.Context(), premiseID)
	if err != nil {
		respondServiceError(w, err, "Could not load activity")
		return
	}
	if entries == nil {
		entries = []*models.ActivityEntry{}
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ActivityFeedResponse{Entries: entries})
}

// POST /api/v1/premises/{premiseId}/shift-reports
func (c *ShiftController) SubmitShiftReportHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req dtos.ShiftReportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	report, err := c.shiftService.SubmitShiftReport(r.Context(), mux.Vars(r)["premiseId"], userID, req)
	if err != nil {
		respondServiceError(w, err, "Could not submit shift report")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, report)
}
