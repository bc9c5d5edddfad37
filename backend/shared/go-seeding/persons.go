package seeding

import (
	"context"
	"fmt"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// Fixed ids so demos and tests can refer to the seeded records.
const (
	ManagerID  = "1"
	TenantID   = "3"
	GatemanID  = "5"
	VisitorID  = "7"
	NewcomerID = "9"

	ManagerPhone  = "+254700000001"
	TenantPhone   = "+254711223344"
	GatemanPhone  = "+254733000005"
	VisitorPhone  = "+254799000111"
	NewcomerPhone = "+254722000009"
)

func demoPersons() []*models.Person {
	return []*models.Person{
		{
			ID:        ManagerID,
			Name:      "Amina Wanjiru",
			Phone:     ManagerPhone,
			Email:     "amina@qaribu.africa",
			Role:      models.RoleBuildingManager,
			PremiseID: PremiseID,
		},
		{
			ID:        TenantID,
			Name:      "Otieno Kamau",
			Phone:     TenantPhone,
			Role:      models.RoleTenantAdmin,
			PremiseID: PremiseID,
			Unit:      TenantUnitNumber,
			Floor:     "1",
		},
		{
			ID:        GatemanID,
			Name:      "Baraka Mutua",
			Phone:     GatemanPhone,
			Role:      models.RoleGateman,
			PremiseID: PremiseID,
		},
		{
			ID:    VisitorID,
			Name:  "Visitor One",
			Phone: VisitorPhone,
		},
		{
			ID:    NewcomerID,
			Name:  "Njeri Mwangi",
			Phone: NewcomerPhone,
		},
	}
}

// SeedDemoPersons creates the demo people if they are not there yet.
func SeedDemoPersons(ctx context.Context, personRepo repositories.PersonRepository) error {
	for _, p := range demoPersons() {
		if existing, err := personRepo.GetByID(ctx, p.ID); err != nil {
			return fmt.Errorf("check existing person %s: %w", p.ID, err)
		} else if existing != nil {
			utils.Logger.Debugf("seeding: person id=%s already present; skipping", p.ID)
			continue
		}
		if err := personRepo.Create(ctx, p); err != nil {
			if utils.IsUniqueViolation(err) {
				utils.Logger.Infof("seeding: person (id=%s) already exists; skipping", p.ID)
				continue
			}
			return fmt.Errorf("create person %s: %w", p.ID, err)
		}
		utils.Logger.Infof("seeding: created person id=%s", p.ID)
	}
	return nil
}
