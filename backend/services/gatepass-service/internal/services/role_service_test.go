package services

import (
	"context"
	"errors"
	"testing"

	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-seeding"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignRole_CoHostLinksBothWays(t *testing.T) {
	f := newFixture(t)

	p, err := f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleStaff,
		PremiseID: seeding.PremiseID,
		UnitID:    "U1",
		AdminID:   seeding.TenantID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, p.Role)
	assert.Equal(t, seeding.PremiseID, p.PremiseID)
	assert.Equal(t, "U1", p.Unit)
	assert.Equal(t, seeding.TenantID, p.TenantID)

	admin := f.person(t, seeding.TenantID)
	assert.Contains(t, admin.CoHosts, seeding.NewcomerID)

	// Assigning again does not duplicate the link.
	_, err = f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleStaff,
		PremiseID: seeding.PremiseID,
		UnitID:    "U1",
		AdminID:   seeding.TenantID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{seeding.NewcomerID}, f.person(t, seeding.TenantID).CoHosts)
}

func TestAssignRole_TenantAdminTakesVacancy(t *testing.T) {
	f := newFixture(t)

	p, err := f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleTenantAdmin,
		PremiseID: seeding.PremiseID,
		UnitID:    seeding.VacantUnitID,
	}, &AssignDetails{Floor: "1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTenantAdmin, p.Role)
	assert.Equal(t, "1", p.Floor)
	require.NotNil(t, p.UnitDetails)
	assert.Equal(t, "Unit 102", p.UnitDetails.UnitNumber)
	assert.Equal(t, models.UnitStatusOccupied, p.UnitDetails.Status)

	premise := f.premise(t, seeding.PremiseID)
	assert.True(t, premise.HasTenant(seeding.NewcomerID))
	assert.Empty(t, premise.Vacancies)
	assert.ElementsMatch(t, []string{"Unit 101", "Unit 102"}, unitNumbers(premise.OccupiedUnits))

	i, ok := premise.FindOccupied("Unit 102")
	require.True(t, ok)
	assert.Equal(t, seeding.NewcomerID, premise.OccupiedUnits[i].TenantID)
	assert.Equal(t, "Njeri Mwangi", premise.OccupiedUnits[i].TenantName)
}

// stuckPersons refuses every person update.
type stuckPersons struct {
	repositories.PersonRepository
	err error
}

func (r *stuckPersons) UpdateWithRetry(context.Context, string, func(*models.Person) error) error {
	return r.err
}

func TestAssignRole_PersonFailureLeavesPremiseUntouched(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("person store down")
	roles := NewRoleService(&stuckPersons{PersonRepository: f.persons, err: boom}, f.premises)
	before := f.premise(t, seeding.PremiseID)

	_, err := roles.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleTenantAdmin,
		PremiseID: seeding.PremiseID,
		UnitID:    seeding.VacantUnitID,
	}, nil)
	assert.ErrorIs(t, err, boom)

	after := f.premise(t, seeding.PremiseID)
	assert.False(t, after.HasTenant(seeding.NewcomerID))
	assert.Equal(t, before.Tenants, after.Tenants)
	assert.Equal(t, before.Vacancies, after.Vacancies)
	assert.Equal(t, before.OccupiedUnits, after.OccupiedUnits)
	assert.Equal(t, models.RoleNone, f.person(t, seeding.NewcomerID).Role)
}

func TestAssignRole_TenantOfOnePremiseOnly(t *testing.T) {
	f := newFixture(t)

	_, err := f.roleSvc.AssignRole(f.ctx, seeding.TenantID, internal_utils.SetupData{
		Role:      models.RoleTenantAdmin,
		PremiseID: seeding.OtherPremiseID,
		UnitID:    "Shop 1",
	}, nil)
	assert.ErrorIs(t, err, utils.ErrConflict)
	assert.False(t, f.premise(t, seeding.OtherPremiseID).HasTenant(seeding.TenantID))
}

func TestAssignRole_Gateman(t *testing.T) {
	f := newFixture(t)

	p, err := f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleGateman,
		PremiseID: seeding.OtherPremiseID,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGateman, p.Role)
	assert.Equal(t, seeding.OtherPremiseID, p.PremiseID)
	assert.Empty(t, p.Unit)
	assert.Empty(t, f.premise(t, seeding.OtherPremiseID).Tenants)
}

func TestAssignRole_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.roleSvc.AssignRole(f.ctx, "ghost", internal_utils.SetupData{Role: models.RoleGateman, PremiseID: seeding.PremiseID}, nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{Role: models.RoleGateman, PremiseID: "nowhere"}, nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role: models.RoleStaff, PremiseID: seeding.PremiseID, UnitID: "U1", AdminID: "ghost",
	}, nil)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role: models.RoleBuildingManager, PremiseID: seeding.PremiseID,
	}, nil)
	assert.ErrorIs(t, err, utils.ErrMalformedCode)
}

func TestRevokeRole_TenantUnitReturnsToVacancies(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.roleSvc.RevokeRole(f.ctx, seeding.TenantID, seeding.PremiseID, models.Unit{}))

	premise := f.premise(t, seeding.PremiseID)
	assert.False(t, premise.HasTenant(seeding.TenantID))
	assert.Empty(t, premise.OccupiedUnits)
	assert.ElementsMatch(t, []string{"Unit 101", "Unit 102"}, unitNumbers(premise.Vacancies))

	i, ok := premise.FindVacancy(seeding.TenantUnitID)
	require.True(t, ok)
	u := premise.Vacancies[i]
	assert.Equal(t, models.UnitStatusVacant, u.Status)
	assert.Empty(t, u.TenantID)
	assert.Empty(t, u.TenantName)

	p := f.person(t, seeding.TenantID)
	assert.Equal(t, models.RoleNone, p.Role)
	assert.Empty(t, p.PremiseID)
}

func TestRevokeRole_VacancyTemplateRelistsUnit(t *testing.T) {
	f := newFixture(t)
	rent := 50000.0

	require.NoError(t, f.roleSvc.RevokeRole(f.ctx, seeding.TenantID, seeding.PremiseID, models.Unit{
		UnitNumber: "Unit 101",
		RentAmount: &rent,
		Type:       models.UnitTypeResidential,
	}))

	premise := f.premise(t, seeding.PremiseID)
	i, ok := premise.FindVacancy("Unit 101")
	require.True(t, ok)
	u := premise.Vacancies[i]
	assert.Equal(t, seeding.TenantUnitID, u.ID, "relisted unit keeps its id")
	require.NotNil(t, u.RentAmount)
	assert.Equal(t, 50000.0, *u.RentAmount)
	assert.Equal(t, models.UnitStatusVacant, u.Status)
}

func TestRevokeRole_CoHostUnlinksFromAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleStaff,
		PremiseID: seeding.PremiseID,
		UnitID:    seeding.TenantUnitNumber,
		AdminID:   seeding.TenantID,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, f.roleSvc.RevokeRole(f.ctx, seeding.NewcomerID, seeding.PremiseID, models.Unit{}))

	assert.NotContains(t, f.person(t, seeding.TenantID).CoHosts, seeding.NewcomerID)
	p := f.person(t, seeding.NewcomerID)
	assert.Equal(t, models.RoleNone, p.Role)
	assert.Empty(t, p.TenantID)

	// The tenant's own unit is untouched.
	_, ok := f.premise(t, seeding.PremiseID).FindOccupied(seeding.TenantUnitID)
	assert.True(t, ok)
}

func TestRevokeRole_DuplicateUnitNumberConflicts(t *testing.T) {
	f := newFixture(t)

	err := f.roleSvc.RevokeRole(f.ctx, seeding.NewcomerID, seeding.PremiseID, models.Unit{UnitNumber: "Unit 102"})
	assert.ErrorIs(t, err, utils.ErrConflict)
	assert.Len(t, f.premise(t, seeding.PremiseID).Vacancies, 1)
}

func TestAuthorizeGrant(t *testing.T) {
	f := newFixture(t)
	coHost := internal_utils.SetupData{
		Role:      models.RoleStaff,
		PremiseID: seeding.PremiseID,
		UnitID:    seeding.TenantUnitNumber,
		AdminID:   seeding.TenantID,
	}
	gateman := internal_utils.SetupData{Role: models.RoleGateman, PremiseID: seeding.PremiseID}

	assert.NoError(t, f.roleSvc.AuthorizeGrant(f.ctx, seeding.ManagerID, gateman))
	assert.NoError(t, f.roleSvc.AuthorizeGrant(f.ctx, seeding.ManagerID, coHost))
	assert.NoError(t, f.roleSvc.AuthorizeGrant(f.ctx, seeding.TenantID, coHost))

	assert.ErrorIs(t, f.roleSvc.AuthorizeGrant(f.ctx, seeding.TenantID, gateman), utils.ErrForbidden)

	otherUnit := coHost
	otherUnit.UnitID = "Unit 102"
	assert.ErrorIs(t, f.roleSvc.AuthorizeGrant(f.ctx, seeding.TenantID, otherUnit), utils.ErrForbidden)

	assert.ErrorIs(t, f.roleSvc.AuthorizeGrant(f.ctx, seeding.GatemanID, gateman), utils.ErrForbidden)

	missing := gateman
	missing.PremiseID = "nowhere"
	assert.ErrorIs(t, f.roleSvc.AuthorizeGrant(f.ctx, seeding.ManagerID, missing), utils.ErrNotFound)
}

func TestAuthorizeRevoke(t *testing.T) {
	f := newFixture(t)
	_, err := f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleStaff,
		PremiseID: seeding.PremiseID,
		UnitID:    seeding.TenantUnitNumber,
		AdminID:   seeding.TenantID,
	}, nil)
	require.NoError(t, err)

	assert.NoError(t, f.roleSvc.AuthorizeRevoke(f.ctx, seeding.NewcomerID, seeding.NewcomerID, seeding.PremiseID, false))
	assert.NoError(t, f.roleSvc.AuthorizeRevoke(f.ctx, seeding.ManagerID, seeding.TenantID, seeding.PremiseID, true))
	assert.NoError(t, f.roleSvc.AuthorizeRevoke(f.ctx, seeding.TenantID, seeding.NewcomerID, seeding.PremiseID, false))
	assert.NoError(t, f.roleSvc.AuthorizeRevoke(f.ctx, seeding.TenantID, seeding.TenantID, seeding.PremiseID, false))

	assert.ErrorIs(t, f.roleSvc.AuthorizeRevoke(f.ctx, seeding.GatemanID, seeding.TenantID, seeding.PremiseID, false), utils.ErrForbidden)
	assert.ErrorIs(t, f.roleSvc.AuthorizeRevoke(f.ctx, seeding.TenantID, seeding.GatemanID, seeding.PremiseID, false), utils.ErrForbidden)
	assert.ErrorIs(t, f.roleSvc.AuthorizeRevoke(f.ctx, seeding.ManagerID, seeding.TenantID, "nowhere", false), utils.ErrNotFound)
}

func TestAuthorizeRevoke_SelfNeedsAffiliation(t *testing.T) {
	f := newFixture(t)

	// The newcomer has no link to the other premise.
	err := f.roleSvc.AuthorizeRevoke(f.ctx, seeding.NewcomerID, seeding.NewcomerID, seeding.OtherPremiseID, false)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	// The tenant belongs to the premise but cannot relist units there.
	err = f.roleSvc.AuthorizeRevoke(f.ctx, seeding.TenantID, seeding.TenantID, seeding.PremiseID, true)
	assert.ErrorIs(t, err, utils.ErrForbidden)

	// A co-host link counts only on the premise it was made on.
	_, err = f.roleSvc.AssignRole(f.ctx, seeding.NewcomerID, internal_utils.SetupData{
		Role:      models.RoleStaff,
		PremiseID: seeding.PremiseID,
		UnitID:    seeding.TenantUnitNumber,
		AdminID:   seeding.TenantID,
	}, nil)
	require.NoError(t, err)
	err = f.roleSvc.AuthorizeRevoke(f.ctx, seeding.TenantID, seeding.NewcomerID, seeding.OtherPremiseID, false)
	assert.ErrorIs(t, err, utils.ErrForbidden)
}
