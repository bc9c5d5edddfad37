package testhelpers

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/require"
)

// UniquePhone generates a unique Kenyan mobile number for testing.
func UniquePhone() string {
	return fmt.Sprintf("+2547%08d", rand.Int63n(1e8))
}

// UniqueEmail generates a unique email for testing.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@qaribu.test", prefix, time.Now().UnixNano())
}

// CreateTestPerson persists a person with no role.
func (h *TestHelper) CreateTestPerson(ctx context.Context, name string) *models.Person {
	p := &models.Person{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     UniquePhone(),
		Email:     UniqueEmail("person"),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(h.T, h.Persons.Create(ctx, p), "Failed to create test person")

	created, err := h.Persons.GetByID(ctx, p.ID)
	require.NoError(h.T, err)
	require.NotNil(h.T, created, "Failed to fetch person immediately after creation")
	return created
}

// CreateTestManager persists a building manager.
func (h *TestHelper) CreateTestManager(ctx context.Context, name string) *models.Person {
	p := h.CreateTestPerson(ctx, name)
	require.NoError(h.T, h.Persons.UpdateWithRetry(ctx, p.ID, func(m *models.Person) error {
		m.Role = models.RoleBuildingManager
		return nil
	}))
	updated, err := h.Persons.GetByID(ctx, p.ID)
	require.NoError(h.T, err)
	return updated
}

// CreateTestPremise persists a premise managed by managerID with one
// vacant unit per unit number.
func (h *TestHelper) CreateTestPremise(ctx context.Context, managerID string, unitNumbers ...string) *models.Premise {
	vacancies := make([]models.Unit, 0, len(unitNumbers))
	for _, n := range unitNumbers {
		vacancies = append(vacancies, models.Unit{
			ID:         uuid.NewString(),
			UnitNumber: n,
			Type:       models.UnitTypeResidential,
			Status:     models.UnitStatusVacant,
		})
	}
	p := &models.Premise{
		ID:                 uuid.NewString(),
		Name:               "Test Premise " + uuid.NewString()[:8],
		BuildingManagerID:  managerID,
		Type:               models.PremiseResidential,
		TimeZone:           "Africa/Nairobi",
		VerificationStatus: models.VerificationVerified,
		Tenants:            []string{},
		Vacancies:          vacancies,
		OccupiedUnits:      []models.Unit{},
		CreatedAt:          time.Now().UTC(),
		UpdatedAt:          time.Now().UTC(),
	}
	require.NoError(h.T, h.Premises.Create(ctx, p), "Failed to create test premise")

	created, err := h.Premises.GetByID(ctx, p.ID)
	require.NoError(h.T, err)
	require.NotNil(h.T, created)
	return created
}

// CreateTestPass persists a pass for visitorPhone with the given status.
func (h *TestHelper) CreateTestPass(ctx context.Context, premise *models.Premise, visitorPhone string, status models.PassStatus) *models.AccessRequest {
	now := time.Now().UTC()
	a := &models.AccessRequest{
		ID:             uuid.NewString(),
		PremiseID:      premise.ID,
		PremiseName:    premise.Name,
		HostID:         premise.BuildingManagerID,
		VisitorName:    "Test Visitor",
		VisitorPhone:   visitorPhone,
		VisitorPurpose: utils.Ptr("Delivery"),
		CreatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
		Status:         status,
		RequestType:    models.RequestDirect,
		PremiseType:    premise.Type,
		AccessCode:     utils.RandomNumericString(6),
	}
	require.NoError(h.T, h.Passes.Create(ctx, a), "Failed to create test pass")
	return a
}
