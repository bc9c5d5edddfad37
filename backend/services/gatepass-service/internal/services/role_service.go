package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// AssignDetails is optional profile detail captured alongside a key.
type AssignDetails struct {
	Floor       string
	UnitDetails *models.Unit
}

type RoleService struct {
	persons  repositories.PersonRepository
	premises repositories.PremiseRepository
	now      func() time.Time
}

func NewRoleService(persons repositories.PersonRepository, premises repositories.PremiseRepository) *RoleService {
	return &RoleService{persons: persons, premises: premises, now: time.Now}
}

func personNotFound(id string) error {
	return fmt.Errorf("person %q: %w", id, utils.ErrNotFound)
}

// AuthorizeGrant fails with ErrForbidden unless actorID may hand out the
// role in setup: a premise's building manager may grant any role there, and
// a tenant admin may add co-hosts to their own unit.
func (s *RoleService) AuthorizeGrant(ctx context.Context, actorID string, setup internal_utils.SetupData) error {
	premise, err := s.premises.GetByID(ctx, setup.PremiseID)
	if err != nil {
		return err
	}
	if premise == nil {
		return premiseNotFound(setup.PremiseID)
	}
	if actorID == premise.BuildingManagerID {
		return nil
	}
	if setup.Role != models.RoleStaff || setup.AdminID != actorID {
		return fmt.Errorf("person %q may not grant %s on premise %q: %w", actorID, setup.Role, setup.PremiseID, utils.ErrForbidden)
	}
	actor, err := s.persons.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor == nil || actor.Role != models.RoleTenantAdmin || actor.PremiseID != setup.PremiseID || actor.Unit != setup.UnitID {
		return fmt.Errorf("person %q is not the tenant admin of unit %q: %w", actorID, setup.UnitID, utils.ErrForbidden)
	}
	return nil
}

// AuthorizeRevoke allows the premise manager, a person affiliated with the
// premise revoking themself, or the tenant admin a co-host is linked to.
// Only the manager may relist a unit from a vacancy template.
func (s *RoleService) AuthorizeRevoke(ctx context.Context, actorID, personID, premiseID string, withVacancy bool) error {
	premise, err := s.premises.GetByID(ctx, premiseID)
	if err != nil {
		return err
	}
	if premise == nil {
		return premiseNotFound(premiseID)
	}
	if actorID == premise.BuildingManagerID {
		return nil
	}
	if withVacancy {
		return fmt.Errorf("person %q may not list vacancies on premise %q: %w", actorID, premiseID, utils.ErrForbidden)
	}
	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return err
	}
	if person == nil {
		return personNotFound(personID)
	}
	if actorID == personID && (person.PremiseID == premiseID || premise.HasTenant(personID)) {
		return nil
	}
	if person.Role == models.RoleStaff && person.TenantID == actorID && person.PremiseID == premiseID {
		return nil
	}
	return fmt.Errorf("person %q may not revoke %q on premise %q: %w", actorID, personID, premiseID, utils.ErrForbidden)
}

/*
AssignRole links personID to a premise as described by setup.

  - TenantAdmin: the person joins the premise tenants and, when UnitID names
    a vacant unit, that unit moves to the occupied list in their name.
  - Staff with an AdminID: the person points back at the admin and the
    admin lists them as a co-host.
  - Gateman: only Role and PremiseID change.

A person may be a tenant of one premise only; assigning a tenancy on a
second premise fails with ErrConflict.
*/
func (s *RoleService) AssignRole(
	ctx context.Context,
	personID string,
	setup internal_utils.SetupData,
	details *AssignDetails,
) (*models.Person, error) {
	switch setup.Role {
	case models.RoleTenantAdmin, models.RoleStaff, models.RoleGateman:
	default:
		return nil, fmt.Errorf("role %q cannot be assigned: %w", setup.Role, utils.ErrMalformedCode)
	}

	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, personNotFound(personID)
	}
	premise, err := s.premises.GetByID(ctx, setup.PremiseID)
	if err != nil {
		return nil, err
	}
	if premise == nil {
		return nil, premiseNotFound(setup.PremiseID)
	}
	linkAdmin := setup.Role == models.RoleStaff && setup.AdminID != ""
	if linkAdmin {
		admin, err := s.persons.GetByID(ctx, setup.AdminID)
		if err != nil {
			return nil, err
		}
		if admin == nil {
			return nil, personNotFound(setup.AdminID)
		}
	}

	now := s.now().UTC()
	var occupied, vacancy *models.Unit
	addedTenant := false

	if setup.Role == models.RoleTenantAdmin {
		other, err := s.premises.FindByTenant(ctx, personID)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != setup.PremiseID {
			return nil, fmt.Errorf("person %q is already a tenant of premise %q: %w", personID, other.ID, utils.ErrConflict)
		}

		err = s.premises.UpdateWithRetry(ctx, setup.PremiseID, func(p *models.Premise) error {
			occupied, vacancy = nil, nil
			addedTenant = p.AddTenant(personID)
			if u, ok := p.TakeVacancy(setup.UnitID); ok {
				v := u.Clone()
				vacancy = &v
				occupy(&u, personID, person.Name)
				p.OccupiedUnits = append(p.OccupiedUnits, u)
				c := u.Clone()
				occupied = &c
			}
			p.UpdatedAt = now
			return nil
		})
		if err != nil {
			return nil, mapPremiseErr(setup.PremiseID, err)
		}
	}

	err = s.persons.UpdateWithRetry(ctx, personID, func(p *models.Person) error {
		p.Role = setup.Role
		p.PremiseID = setup.PremiseID
		if setup.Role == models.RoleTenantAdmin || setup.Role == models.RoleStaff {
			p.Unit = setup.UnitID
		}
		if linkAdmin {
			p.TenantID = setup.AdminID
		}
		if details != nil {
			if details.Floor != "" {
				p.Floor = details.Floor
			}
			if details.UnitDetails != nil {
				u := details.UnitDetails.Clone()
				p.UnitDetails = &u
			}
		}
		if p.UnitDetails == nil && occupied != nil {
			u := occupied.Clone()
			p.UnitDetails = &u
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		if setup.Role == models.RoleTenantAdmin {
			s.undoTenancy(ctx, setup.PremiseID, personID, addedTenant, vacancy)
		}
		return nil, mapMissing(err, personNotFound(personID))
	}

	if linkAdmin {
		err = s.persons.UpdateWithRetry(ctx, setup.AdminID, func(a *models.Person) error {
			a.AddCoHost(personID)
			a.UpdatedAt = now
			return nil
		})
		if err != nil {
			return nil, mapMissing(err, personNotFound(setup.AdminID))
		}
	}

	utils.Logger.WithFields(map[string]any{
		"person_id":  personID,
		"role":       setup.Role,
		"premise_id": setup.PremiseID,
	}).Info("Role assigned")

	updated, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, personNotFound(personID)
	}
	return updated, nil
}

// undoTenancy reverses the premise half of a tenant assignment whose person
// update failed: the tenant entry is dropped if this call added it and the
// unit goes back to the vacancies as it was listed.
func (s *RoleService) undoTenancy(ctx context.Context, premiseID, personID string, addedTenant bool, vacancy *models.Unit) {
	if !addedTenant && vacancy == nil {
		return
	}
	err := s.premises.UpdateWithRetry(ctx, premiseID, func(p *models.Premise) error {
		if addedTenant {
			p.RemoveTenant(personID)
		}
		if vacancy != nil {
			if _, ok := p.TakeOccupied(vacancy.ID); ok {
				p.Vacancies = append(p.Vacancies, vacancy.Clone())
			}
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		utils.Logger.WithError(err).WithFields(map[string]any{
			"person_id":  personID,
			"premise_id": premiseID,
		}).Error("Failed to undo tenancy after person update failed")
	}
}

/*
RevokeRole ends personID's tenancy on premiseID. Every unit the person
occupied goes back to the vacancies; when vacancy carries a unit number it
replaces the first of them as the relisted unit. The person's premise
affiliation is cleared, as is any co-host link they held to an admin.
*/
func (s *RoleService) RevokeRole(ctx context.Context, personID, premiseID string, vacancy models.Unit) error {
	person, err := s.persons.GetByID(ctx, personID)
	if err != nil {
		return err
	}
	if person == nil {
		return personNotFound(personID)
	}
	now := s.now().UTC()

	err = s.premises.UpdateWithRetry(ctx, premiseID, func(p *models.Premise) error {
		p.RemoveTenant(personID)
		taken := p.TakeOccupiedByTenant(personID)

		relisted := make([]models.Unit, 0, len(taken)+1)
		for _, u := range taken {
			vacate(&u)
			relisted = append(relisted, u)
		}
		if vacancy.UnitNumber != "" {
			v := vacancy.Clone()
			vacate(&v)
			if len(relisted) > 0 {
				if v.ID == "" {
					v.ID = relisted[0].ID
				}
				relisted[0] = v
			} else {
				if v.ID == "" {
					v.ID = uuid.NewString()
				}
				relisted = append(relisted, v)
			}
		}
		for _, u := range relisted {
			if p.HasUnitNumber(u.UnitNumber) {
				return fmt.Errorf("unit number %q on premise %q: %w", u.UnitNumber, premiseID, utils.ErrConflict)
			}
			p.Vacancies = append(p.Vacancies, u)
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return mapPremiseErr(premiseID, err)
	}

	adminID := person.TenantID
	err = s.persons.UpdateWithRetry(ctx, personID, func(p *models.Person) error {
		p.ClearRole()
		p.TenantID = ""
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return mapMissing(err, personNotFound(personID))
	}

	if adminID != "" {
		err = s.persons.UpdateWithRetry(ctx, adminID, func(a *models.Person) error {
			a.RemoveCoHost(personID)
			a.UpdatedAt = now
			return nil
		})
		if err != nil && !utils.IsNotFound(err) {
			return err
		}
	}

	utils.Logger.WithFields(map[string]any{
		"person_id":  personID,
		"premise_id": premiseID,
	}).Info("Role revoked")
	return nil
}
