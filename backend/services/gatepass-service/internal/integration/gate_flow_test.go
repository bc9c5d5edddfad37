package integration

import (
	"net/http"
	"testing"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/routes"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-seeding"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	h := newHarness(t)

	var body dtos.HealthCheckResponse
	h.DecodeJSON(h.DoJSON(http.MethodGet, routes.Health, "", nil), http.StatusOK, &body)
	assert.Equal(t, "OK", body.Status)
}

func TestVerify_Scenarios(t *testing.T) {
	h := newHarness(t)
	gateman := h.CreateJWT(seeding.GatemanID)
	manager := h.CreateJWT(seeding.ManagerID)

	cases := []struct {
		name     string
		jwt      string
		code     string
		premise  string
		allowed  bool
		message  string
		duration string
	}{
		{"TenantProfile", gateman, "PROFILE:3", seeding.PremiseID, true, "Access Granted: Tenant", "Unlimited"},
		{"ScannedPass", gateman, "QARIBU:qrr1:123456", seeding.PremiseID, true, "Access Granted: Visitor One", "2 hours"},
		{"WrongCode", gateman, "QARIBU:qrr1:654321", seeding.PremiseID, false, "Invalid Access Code.", ""},
		{"CodeAtOtherPremise", manager, "123456", seeding.OtherPremiseID, false, "Invalid or Expired Pass.", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d models.AccessDecision
			resp := h.DoJSON(http.MethodPost, routes.AccessVerify, tc.jwt, dtos.VerifyRequest{Code: tc.code, PremiseID: tc.premise})
			h.DecodeJSON(resp, http.StatusOK, &d)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.message, d.Message)
			if tc.allowed {
				require.NotNil(t, d.AccessDetails)
				assert.Equal(t, tc.duration, d.AccessDetails.Duration)
			}
		})
	}
}

// Only the premise's gatemen and manager decide entries at its gate.
func TestVerify_OutsiderIsForbidden(t *testing.T) {
	h := newHarness(t)
	newcomer := h.CreateJWT(seeding.NewcomerID)

	resp := h.DoJSON(http.MethodPost, routes.AccessVerify, newcomer, dtos.VerifyRequest{
		Code: seeding.PassAccessCode, PremiseID: seeding.PremiseID, CheckIn: true,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.DoJSON(http.MethodPost, routes.Scan, newcomer, dtos.ScanRequest{
		Code: seeding.PassAccessCode, PremiseID: seeding.PremiseID, CheckIn: true,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A gateman of p1 has no say at p2.
	resp = h.DoJSON(http.MethodPost, routes.AccessVerify, h.CreateJWT(seeding.GatemanID), dtos.VerifyRequest{
		Code: seeding.PassAccessCode, PremiseID: seeding.OtherPremiseID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	stored, err := h.Passes.GetByID(h.Ctx, seeding.PassID)
	require.NoError(t, err)
	assert.Equal(t, models.PassApproved, stored.Status)

	feed, err := h.Services.Shifts.RecentActivity(h.Ctx, seeding.PremiseID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestVerify_Rejections(t *testing.T) {
	h := newHarness(t)
	gateman := h.CreateJWT(seeding.GatemanID)

	resp := h.DoJSON(http.MethodPost, routes.AccessVerify, "", dtos.VerifyRequest{Code: "123456", PremiseID: seeding.PremiseID})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.DoJSON(http.MethodPost, routes.AccessVerify, h.CreateExpiredJWT(seeding.GatemanID), dtos.VerifyRequest{Code: "123456", PremiseID: seeding.PremiseID})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.DoJSON(http.MethodPost, routes.AccessVerify, gateman, dtos.VerifyRequest{Code: "MASTER:GATEMAN:p1", PremiseID: seeding.PremiseID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "setup_code", h.ErrorCode(resp))

	resp = h.DoJSON(http.MethodPost, routes.AccessVerify, gateman, dtos.VerifyRequest{Code: "PREMISE:p1", PremiseID: seeding.PremiseID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "not_access_code", h.ErrorCode(resp))

	resp = h.DoJSON(http.MethodPost, routes.AccessVerify, gateman, map[string]string{"code": "123456"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, utils.ErrCodeValidation, h.ErrorCode(resp))

	resp = h.DoJSON(http.MethodPost, routes.AccessVerify, gateman, dtos.VerifyRequest{
		Code:      "123456",
		PremiseID: seeding.PremiseID,
		Lat:       utils.Ptr(-0.0917),
		Lng:       utils.Ptr(34.7680),
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "location_out_of_bounds", h.ErrorCode(resp))
}

func TestScan_RoutesByPrefix(t *testing.T) {
	h := newHarness(t)

	var welcome dtos.ScanResponse
	h.DecodeJSON(h.DoJSON(http.MethodPost, routes.Scan, h.CreateJWT(seeding.VisitorID), dtos.ScanRequest{Code: "PREMISE:p1"}), http.StatusOK, &welcome)
	assert.Equal(t, "welcome_back", welcome.Kind)
	assert.True(t, welcome.WelcomeBack)
	require.NotNil(t, welcome.Pass)
	assert.Equal(t, seeding.PassID, welcome.Pass.ID)

	var decision dtos.ScanResponse
	h.DecodeJSON(h.DoJSON(http.MethodPost, routes.Scan, h.CreateJWT(seeding.GatemanID), dtos.ScanRequest{
		Code:      "QARIBU:qrr1:123456",
		PremiseID: seeding.PremiseID,
		CheckIn:   true,
	}), http.StatusOK, &decision)
	assert.Equal(t, "decision", decision.Kind)
	require.NotNil(t, decision.Decision)
	assert.True(t, decision.Decision.Allowed)

	stored, err := h.Passes.GetByID(h.Ctx, seeding.PassID)
	require.NoError(t, err)
	assert.Equal(t, models.PassCheckedIn, stored.Status)

	var joined dtos.ScanResponse
	h.DecodeJSON(h.DoJSON(http.MethodPost, routes.Scan, h.CreateJWT(seeding.NewcomerID), dtos.ScanRequest{Code: "MASTER:GATEMAN:p2"}), http.StatusOK, &joined)
	assert.Equal(t, "role_assigned", joined.Kind)
	assert.Equal(t, models.RoleGateman, joined.Person.Role)
}

func TestActivityFeed(t *testing.T) {
	h := newHarness(t)
	gateman := h.CreateJWT(seeding.GatemanID)
	feedPath := "/api/v1/premises/" + seeding.PremiseID + "/activity"

	for i := 0; i < 3; i++ {
		h.DoJSON(http.MethodPost, routes.AccessVerify, gateman, dtos.VerifyRequest{Code: "PROFILE:3", PremiseID: seeding.PremiseID})
	}
	var logged models.ActivityEntry
	h.DecodeJSON(h.DoJSON(http.MethodPost, feedPath, gateman, dtos.LogActivityRequest{Description: "Delivery van waved through"}), http.StatusCreated, &logged)

	var feed dtos.ActivityFeedResponse
	h.DecodeJSON(h.DoJSON(http.MethodGet, feedPath, gateman, nil), http.StatusOK, &feed)
	require.Len(t, feed.Entries, 4)
	assert.Equal(t, "Delivery van waved through", feed.Entries[0].Description)
	assert.Equal(t, "Scan: Access Granted: Tenant", feed.Entries[1].Description)

	resp := h.DoJSON(http.MethodGet, feedPath, h.CreateJWT(seeding.VisitorID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var report models.ShiftReport
	h.DecodeJSON(h.DoJSON(http.MethodPost, "/api/v1/premises/"+seeding.PremiseID+"/shift-reports", gateman, dtos.ShiftReportRequest{
		Scans:    3,
		Duration: "8h",
	}), http.StatusCreated, &report)
	assert.Equal(t, seeding.GatemanID, report.GatemanID)
}
