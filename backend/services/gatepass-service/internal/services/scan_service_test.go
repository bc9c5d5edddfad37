package services

import (
	"testing"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-seeding"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleScan_PremiseWelcomesBackVisitor(t *testing.T) {
	f := newFixture(t)

	resp, err := f.scanSvc.HandleScan(f.ctx, seeding.VisitorID, dtos.ScanRequest{Code: "PREMISE:p1"})
	require.NoError(t, err)
	assert.Equal(t, ScanResultWelcomeBack, resp.Kind)
	assert.True(t, resp.WelcomeBack)
	assert.Equal(t, "Welcome back to Qaribu Heights", resp.Message)
	require.NotNil(t, resp.Pass)
	assert.Equal(t, seeding.PassID, resp.Pass.ID)
	assert.Equal(t, seeding.PremiseID, resp.Premise.ID)
}

func TestHandleScan_PremiseBrowseWithoutPass(t *testing.T) {
	f := newFixture(t)

	resp, err := f.scanSvc.HandleScan(f.ctx, seeding.NewcomerID, dtos.ScanRequest{Code: "PREMISE:p1"})
	require.NoError(t, err)
	assert.Equal(t, ScanResultPremise, resp.Kind)
	assert.False(t, resp.WelcomeBack)
	assert.Nil(t, resp.Pass)
	assert.Equal(t, "Qaribu Heights", resp.Premise.Name)

	// Once the pass has run out the visitor just browses.
	f.setClock(fixedNow.Add(48 * time.Hour))
	resp, err = f.scanSvc.HandleScan(f.ctx, seeding.VisitorID, dtos.ScanRequest{Code: "PREMISE:p1"})
	require.NoError(t, err)
	assert.Equal(t, ScanResultPremise, resp.Kind)

	_, err = f.scanSvc.HandleScan(f.ctx, seeding.VisitorID, dtos.ScanRequest{Code: "PREMISE:nowhere"})
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestHandleScan_MasterKeyAssignsRole(t *testing.T) {
	f := newFixture(t)

	resp, err := f.scanSvc.HandleScan(f.ctx, seeding.NewcomerID, dtos.ScanRequest{Code: "MASTER:GATEMAN:p2"})
	require.NoError(t, err)
	assert.Equal(t, ScanResultRoleAssigned, resp.Kind)
	assert.Equal(t, "You are now Gateman", resp.Message)
	require.NotNil(t, resp.Person)
	assert.Equal(t, models.RoleGateman, resp.Person.Role)
	assert.Equal(t, seeding.OtherPremiseID, f.person(t, seeding.NewcomerID).PremiseID)
}

func TestHandleScan_AccessCodeIsVerified(t *testing.T) {
	f := newFixture(t)

	resp, err := f.scanSvc.HandleScan(f.ctx, seeding.GatemanID, dtos.ScanRequest{Code: "123456", PremiseID: seeding.PremiseID})
	require.NoError(t, err)
	assert.Equal(t, ScanResultDecision, resp.Kind)
	require.NotNil(t, resp.Decision)
	assert.True(t, resp.Decision.Allowed)
	assert.Equal(t, "Access Granted: Visitor One", resp.Message)

	_, err = f.scanSvc.HandleScan(f.ctx, seeding.GatemanID, dtos.ScanRequest{Code: "123456"})
	assert.ErrorIs(t, err, internal_utils.ErrActingPremiseRequired)
}

func TestHandleScan_AccessCodeNeedsGateStaff(t *testing.T) {
	f := newFixture(t)

	_, err := f.scanSvc.HandleScan(f.ctx, seeding.NewcomerID, dtos.ScanRequest{
		Code:      seeding.PassAccessCode,
		PremiseID: seeding.PremiseID,
		CheckIn:   true,
	})
	assert.ErrorIs(t, err, utils.ErrForbidden)
	assert.Equal(t, models.PassApproved, f.pass(t, seeding.PassID).Status)
}
