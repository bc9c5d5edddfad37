package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-seeding"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActivity_KeepsFiveNewestFirst(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 7; i++ {
		_, err := f.shiftSvc.LogActivity(f.ctx, seeding.PremiseID, seeding.GatemanID, fmt.Sprintf("entry %d", i))
		require.NoError(t, err)
	}

	feed, err := f.shiftSvc.RecentActivity(f.ctx, seeding.PremiseID)
	require.NoError(t, err)
	require.Len(t, feed, 5)
	assert.Equal(t, "entry 6", feed[0].Description)
	assert.Equal(t, "entry 2", feed[4].Description)

	other, err := f.shiftSvc.RecentActivity(f.ctx, seeding.OtherPremiseID)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSubmitShiftReport_StoresAndEmailsManager(t *testing.T) {
	f := newFixture(t)

	r, err := f.shiftSvc.SubmitShiftReport(f.ctx, seeding.PremiseID, seeding.GatemanID, dtos.ShiftReportRequest{
		Scans:     42,
		Incidents: 1,
		Duration:  "8h",
		Notes:     "Water delivery <late>",
	})
	require.NoError(t, err)
	assert.False(t, r.HolidayShift)
	assert.Equal(t, fixedNow, r.CreatedAt)

	stored, err := f.reports.ListByPremiseID(f.ctx, seeding.PremiseID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 42, stored[0].Scans)

	mail := receive(t, f.notifier.emails)
	assert.Equal(t, "amina@qaribu.africa", mail.ToEmail)
	assert.Equal(t, "Amina Wanjiru", mail.ToName)
	assert.Equal(t, "Shift report: Qaribu Heights, Tue Mar 4 09:30", mail.Subject)
	assert.Contains(t, mail.Plain, "Baraka Mutua filed a shift report for Qaribu Heights.")
	assert.Contains(t, mail.Plain, "Scans: 42")
	assert.Contains(t, mail.HTML, "Water delivery &lt;late&gt;")
}

func TestSubmitShiftReport_FlagsPublicHolidays(t *testing.T) {
	f := newFixture(t)
	// Jamhuri Day, mid-morning in Nairobi.
	f.setClock(time.Date(2025, 12, 12, 6, 0, 0, 0, time.UTC))

	r, err := f.shiftSvc.SubmitShiftReport(f.ctx, seeding.PremiseID, seeding.GatemanID, dtos.ShiftReportRequest{Duration: "12h"})
	require.NoError(t, err)
	assert.True(t, r.HolidayShift)

	mail := receive(t, f.notifier.emails)
	assert.Contains(t, mail.Plain, "(public holiday)")
}

func TestSubmitShiftReport_OnlyGateStaff(t *testing.T) {
	f := newFixture(t)
	req := dtos.ShiftReportRequest{Duration: "8h"}

	_, err := f.shiftSvc.SubmitShiftReport(f.ctx, seeding.PremiseID, seeding.VisitorID, req)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = f.shiftSvc.SubmitShiftReport(f.ctx, seeding.PremiseID, "ghost", req)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.shiftSvc.SubmitShiftReport(f.ctx, "nowhere", seeding.GatemanID, req)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// The manager may file on behalf of the gate.
	_, err = f.shiftSvc.SubmitShiftReport(f.ctx, seeding.PremiseID, seeding.ManagerID, req)
	require.NoError(t, err)
	receive(t, f.notifier.emails)
}

func TestAuthorizeGateStaff(t *testing.T) {
	f := newFixture(t)

	assert.NoError(t, f.shiftSvc.AuthorizeGateStaff(f.ctx, seeding.PremiseID, seeding.GatemanID))
	assert.NoError(t, f.shiftSvc.AuthorizeGateStaff(f.ctx, seeding.OtherPremiseID, seeding.ManagerID))
	assert.ErrorIs(t, f.shiftSvc.AuthorizeGateStaff(f.ctx, seeding.OtherPremiseID, seeding.GatemanID), utils.ErrForbidden)
	assert.ErrorIs(t, f.shiftSvc.AuthorizeGateStaff(f.ctx, seeding.PremiseID, seeding.TenantID), utils.ErrForbidden)
	assert.ErrorIs(t, f.shiftSvc.AuthorizeGateStaff(f.ctx, "nowhere", seeding.GatemanID), utils.ErrNotFound)
}
