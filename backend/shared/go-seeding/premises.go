package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

const (
	PremiseID      = "p1"
	OtherPremiseID = "p2"

	TenantUnitID     = "u101"
	TenantUnitNumber = "Unit 101"
	VacantUnitID     = "u102"

	PassID         = "qrr1"
	PassAccessCode = "123456"
)

func demoPremises() []*models.Premise {
	rent := 45000.0
	beds, baths := 2, 1
	return []*models.Premise{
		{
			ID:                 PremiseID,
			Name:               "Qaribu Heights",
			BuildingManagerID:  ManagerID,
			Type:               models.PremiseResidential,
			Address:            "Argwings Kodhek Rd",
			City:               "Nairobi",
			Latitude:           -1.2921,
			Longitude:          36.7826,
			TimeZone:           "Africa/Nairobi",
			VerificationStatus: models.VerificationVerified,
			Tenants:            []string{TenantID},
			OccupiedUnits: []models.Unit{{
				ID:         TenantUnitID,
				UnitNumber: TenantUnitNumber,
				Floor:      "1",
				Type:       models.UnitTypeResidential,
				Status:     models.UnitStatusOccupied,
				TenantID:   TenantID,
				TenantName: "Otieno Kamau",
			}},
			Vacancies: []models.Unit{{
				ID:          VacantUnitID,
				UnitNumber:  "Unit 102",
				Floor:       "1",
				Type:        models.UnitTypeResidential,
				Status:      models.UnitStatusVacant,
				ListingType: models.ListingRent,
				RentAmount:  &rent,
				RentPeriod:  "month",
				Bedrooms:    &beds,
				Bathrooms:   &baths,
			}},
		},
		{
			ID:                 OtherPremiseID,
			Name:               "Kilimani Plaza",
			BuildingManagerID:  ManagerID,
			Type:               models.PremiseCommercial,
			City:               "Nairobi",
			TimeZone:           "Africa/Nairobi",
			VerificationStatus: models.VerificationPending,
			Tenants:            []string{},
			Vacancies:          []models.Unit{},
			OccupiedUnits:      []models.Unit{},
		},
	}
}

// SeedDemoPremises creates premise p1 (one tenant, one vacancy) and an empty p2.
func SeedDemoPremises(ctx context.Context, premiseRepo repositories.PremiseRepository) error {
	for _, p := range demoPremises() {
		if existing, err := premiseRepo.GetByID(ctx, p.ID); err != nil {
			return fmt.Errorf("check existing premise %s: %w", p.ID, err)
		} else if existing != nil {
			utils.Logger.Debugf("seeding: premise id=%s already present; skipping", p.ID)
			continue
		}
		if err := premiseRepo.Create(ctx, p); err != nil {
			if utils.IsUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("create premise %s: %w", p.ID, err)
		}
		utils.Logger.Infof("seeding: created premise id=%s", p.ID)
	}
	return nil
}

// SeedDemoPass creates the approved "Meeting" pass qrr1 for Visitor One at p1.
func SeedDemoPass(ctx context.Context, passRepo repositories.AccessRequestRepository, now time.Time) error {
	if existing, err := passRepo.GetByID(ctx, PassID); err != nil {
		return fmt.Errorf("check existing pass: %w", err)
	} else if existing != nil {
		utils.Logger.Debug("seeding: demo pass already present; skipping")
		return nil
	}

	pass := &models.AccessRequest{
		ID:             PassID,
		PremiseID:      PremiseID,
		PremiseName:    "Qaribu Heights",
		TenantID:       TenantID,
		HostID:         TenantID,
		HostName:       "Otieno Kamau",
		VisitorName:    "Visitor One",
		VisitorPhone:   VisitorPhone,
		VisitorPurpose: utils.Ptr("Meeting"),
		CreatedAt:      now,
		ExpiresAt:      now.Add(24 * time.Hour),
		Status:         models.PassApproved,
		RequestType:    models.RequestDirect,
		PremiseType:    models.PremiseResidential,
		AccessCode:     PassAccessCode,
		TargetUnit:     TenantUnitNumber,
	}
	if err := passRepo.Create(ctx, pass); err != nil {
		if utils.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create demo pass: %w", err)
	}
	utils.Logger.Infof("seeding: created pass id=%s", PassID)
	return nil
}

// SeedAll runs every seeder in dependency order.
func SeedAll(
	ctx context.Context,
	personRepo repositories.PersonRepository,
	premiseRepo repositories.PremiseRepository,
	passRepo repositories.AccessRequestRepository,
	now time.Time,
) error {
	if err := SeedDemoPersons(ctx, personRepo); err != nil {
		return err
	}
	if err := SeedDemoPremises(ctx, premiseRepo); err != nil {
		return err
	}
	return SeedDemoPass(ctx, passRepo, now)
}
