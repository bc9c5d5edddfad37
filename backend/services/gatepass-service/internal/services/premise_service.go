package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/constants"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type PremiseService struct {
	premises repositories.PremiseRepository
	persons  repositories.PersonRepository
	geocoder internal_utils.Geocoder // nil without a Maps API key
	now      func() time.Time
}

func NewPremiseService(
	premises repositories.PremiseRepository,
	persons repositories.PersonRepository,
	geocoder internal_utils.Geocoder,
) *PremiseService {
	return &PremiseService{premises: premises, persons: persons, geocoder: geocoder, now: time.Now}
}

func premiseNotFound(id string) error {
	return fmt.Errorf("premise %q: %w", id, utils.ErrNotFound)
}

// ----------------------------------------------------------------
// Reads
// ----------------------------------------------------------------

func (s *PremiseService) GetPremise(ctx context.Context, id string) (*models.Premise, error) {
	p, err := s.premises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, premiseNotFound(id)
	}
	return p, nil
}

func (s *PremiseService) ListPremises(ctx context.Context) ([]*models.Premise, error) {
	return s.premises.ListAll(ctx)
}

func (s *PremiseService) ListManagedPremises(ctx context.Context, ownerID string) ([]*models.Premise, error) {
	return s.premises.ListByManagerID(ctx, ownerID)
}

// RequireManager fails with ErrForbidden unless actorID manages the premise.
func (s *PremiseService) RequireManager(ctx context.Context, premiseID, actorID string) error {
	p, err := s.GetPremise(ctx, premiseID)
	if err != nil {
		return err
	}
	if p.BuildingManagerID != actorID {
		return fmt.Errorf("person %q does not manage premise %q: %w", actorID, premiseID, utils.ErrForbidden)
	}
	return nil
}

// ----------------------------------------------------------------
// Registration
// ----------------------------------------------------------------

// RegisterPremise creates a premise owned by ownerID with no tenants and
// the requested units as vacancies. The owner becomes its building
// manager if they hold no other role yet.
func (s *PremiseService) RegisterPremise(ctx context.Context, ownerID string, req dtos.RegisterPremiseRequest) (*models.Premise, error) {
	owner, err := s.persons.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("owner %q: %w", ownerID, utils.ErrNotFound)
	}

	vacancies := make([]models.Unit, 0, len(req.Vacancies))
	seen := make(map[string]bool, len(req.Vacancies))
	for _, ur := range req.Vacancies {
		if seen[ur.UnitNumber] {
			return nil, fmt.Errorf("unit number %q listed twice: %w", ur.UnitNumber, utils.ErrConflict)
		}
		seen[ur.UnitNumber] = true
		vacancies = append(vacancies, newVacantUnit(ur))
	}

	now := s.now().UTC()
	p := &models.Premise{
		ID:                 uuid.NewString(),
		Name:               req.Name,
		BuildingManagerID:  ownerID,
		Type:               req.Type,
		Address:            req.Address,
		City:               req.City,
		VerificationStatus: models.VerificationPending,
		Tenants:            []string{},
		Vacancies:          vacancies,
		OccupiedUnits:      []models.Unit{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	s.locate(ctx, p, req)

	if err := s.premises.Create(ctx, p); err != nil {
		return nil, err
	}

	if owner.Role == models.RoleNone {
		err := s.persons.UpdateWithRetry(ctx, ownerID, func(o *models.Person) error {
			if o.Role != models.RoleNone {
				return nil
			}
			o.Role = models.RoleBuildingManager
			o.PremiseID = p.ID
			o.UpdatedAt = now
			return nil
		})
		if err != nil {
			utils.Logger.WithError(err).WithField("person_id", ownerID).Error("Failed to promote premise owner")
			return nil, err
		}
	}

	utils.Logger.WithFields(map[string]any{
		"premise_id": p.ID,
		"owner_id":   ownerID,
		"timezone":   p.TimeZone,
	}).Info("Premise registered")
	return p, nil
}

// locate fills coordinates (geocoding the address when none were given)
// and the premise time zone. A failed geocode leaves the premise without
// coordinates rather than failing registration.
func (s *PremiseService) locate(ctx context.Context, p *models.Premise, req dtos.RegisterPremiseRequest) {
	if req.Latitude != nil && req.Longitude != nil {
		p.Latitude, p.Longitude = *req.Latitude, *req.Longitude
	} else if s.geocoder != nil && strings.TrimSpace(req.Address) != "" {
		addr := req.Address
		if req.City != "" {
			addr += ", " + req.City
		}
		lat, lng, err := s.geocoder.Geocode(ctx, addr)
		if err != nil {
			utils.Logger.WithError(err).WithField("address", addr).Warn("Premise address could not be geocoded")
		} else {
			p.Latitude, p.Longitude = lat, lng
		}
	}

	fallback := req.TimeZone
	if fallback == "" {
		fallback = constants.DefaultTimeZone
	}
	if p.HasCoordinates() {
		p.TimeZone = internal_utils.ZoneForCoordinates(p.Latitude, p.Longitude, fallback)
	} else {
		p.TimeZone = fallback
	}
}

func newVacantUnit(ur dtos.UnitRequest) models.Unit {
	u := ur.ToUnit()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Type == "" {
		u.Type = models.UnitTypeResidential
	}
	return u
}

// ----------------------------------------------------------------
// Units
// ----------------------------------------------------------------

// AddUnit appends a new vacant unit ("Add Key"). Unit numbers are unique
// within a premise across both vacant and occupied units.
func (s *PremiseService) AddUnit(ctx context.Context, premiseID string, req dtos.UnitRequest) (*models.Unit, error) {
	u := newVacantUnit(req)
	err := s.premises.UpdateWithRetry(ctx, premiseID, func(p *models.Premise) error {
		if p.HasUnitNumber(u.UnitNumber) {
			return fmt.Errorf("unit number %q on premise %q: %w", u.UnitNumber, premiseID, utils.ErrConflict)
		}
		if _, ok := p.FindVacancy(u.ID); ok {
			return fmt.Errorf("unit id %q on premise %q: %w", u.ID, premiseID, utils.ErrConflict)
		}
		if _, ok := p.FindOccupied(u.ID); ok {
			return fmt.Errorf("unit id %q on premise %q: %w", u.ID, premiseID, utils.ErrConflict)
		}
		p.Vacancies = append(p.Vacancies, u)
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, mapPremiseErr(premiseID, err)
	}
	return &u, nil
}

// UpdateUnit merges listing fields into the unit, wherever it lives.
func (s *PremiseService) UpdateUnit(ctx context.Context, premiseID, unitRef string, patch dtos.UpdateUnitRequest) (*models.Unit, error) {
	var out models.Unit
	err := s.premises.UpdateWithRetry(ctx, premiseID, func(p *models.Premise) error {
		var u *models.Unit
		if i, ok := p.FindVacancy(unitRef); ok {
			u = &p.Vacancies[i]
		} else if i, ok := p.FindOccupied(unitRef); ok {
			u = &p.OccupiedUnits[i]
		} else {
			return fmt.Errorf("unit %q on premise %q: %w", unitRef, premiseID, utils.ErrNotFound)
		}
		applyUnitPatch(u, patch)
		out = u.Clone()
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, mapPremiseErr(premiseID, err)
	}
	return &out, nil
}

func applyUnitPatch(u *models.Unit, patch dtos.UpdateUnitRequest) {
	if patch.Floor != nil {
		u.Floor = *patch.Floor
	}
	if patch.Type != nil {
		u.Type = *patch.Type
	}
	if patch.Configuration != nil {
		u.Configuration = *patch.Configuration
	}
	if patch.RentAmount != nil {
		u.RentAmount = utils.Ptr(*patch.RentAmount)
	}
	if patch.RentPeriod != nil {
		u.RentPeriod = *patch.RentPeriod
	}
	if patch.ListingType != nil {
		u.ListingType = *patch.ListingType
	}
	if patch.Bedrooms != nil {
		u.Bedrooms = utils.Ptr(*patch.Bedrooms)
	}
	if patch.Bathrooms != nil {
		u.Bathrooms = utils.Ptr(*patch.Bathrooms)
	}
	if patch.Size != nil {
		u.Size = *patch.Size
	}
	if patch.Amenities != nil {
		u.Amenities = patch.Amenities
	}
	if patch.Images != nil {
		u.Images = patch.Images
	}
}

// MoveUnitToOccupied moves a vacant unit into the occupied list. Both
// halves change under one row-version bump.
func (s *PremiseService) MoveUnitToOccupied(ctx context.Context, premiseID, unitRef, tenantID, tenantName string) (*models.Premise, error) {
	err := s.premises.UpdateWithRetry(ctx, premiseID, func(p *models.Premise) error {
		if _, ok := p.FindOccupied(unitRef); ok {
			return fmt.Errorf("unit %q is already occupied: %w", unitRef, utils.ErrInvalidTransition)
		}
		u, ok := p.TakeVacancy(unitRef)
		if !ok {
			return fmt.Errorf("unit %q on premise %q: %w", unitRef, premiseID, utils.ErrNotFound)
		}
		occupy(&u, tenantID, tenantName)
		p.OccupiedUnits = append(p.OccupiedUnits, u)
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, mapPremiseErr(premiseID, err)
	}
	return s.GetPremise(ctx, premiseID)
}

// MoveUnitToVacant is the inverse of MoveUnitToOccupied; tenant fields are cleared.
func (s *PremiseService) MoveUnitToVacant(ctx context.Context, premiseID, unitRef string) (*models.Premise, error) {
	err := s.premises.UpdateWithRetry(ctx, premiseID, func(p *models.Premise) error {
		if _, ok := p.FindVacancy(unitRef); ok {
			return fmt.Errorf("unit %q is already vacant: %w", unitRef, utils.ErrInvalidTransition)
		}
		u, ok := p.TakeOccupied(unitRef)
		if !ok {
			return fmt.Errorf("unit %q on premise %q: %w", unitRef, premiseID, utils.ErrNotFound)
		}
		vacate(&u)
		p.Vacancies = append(p.Vacancies, u)
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, mapPremiseErr(premiseID, err)
	}
	return s.GetPremise(ctx, premiseID)
}

func (s *PremiseService) SetVerificationStatus(ctx context.Context, premiseID string, status models.VerificationStatus) (*models.Premise, error) {
	switch status {
	case models.VerificationPending, models.VerificationVerified, models.VerificationRejected:
	default:
		return nil, fmt.Errorf("verification status %q: %w", status, utils.ErrInvalidTransition)
	}
	err := s.premises.UpdateWithRetry(ctx, premiseID, func(p *models.Premise) error {
		p.VerificationStatus = status
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, mapPremiseErr(premiseID, err)
	}
	return s.GetPremise(ctx, premiseID)
}

func occupy(u *models.Unit, tenantID, tenantName string) {
	u.Status = models.UnitStatusOccupied
	u.TenantID = tenantID
	u.TenantName = tenantName
}

func vacate(u *models.Unit) {
	u.Status = models.UnitStatusVacant
	u.TenantID = ""
	u.TenantName = ""
}

// mapPremiseErr turns the retry loop's missing-row error into ErrNotFound.
func mapPremiseErr(premiseID string, err error) error {
	return mapMissing(err, premiseNotFound(premiseID))
}

// mapMissing replaces a bare missing-row error with notFound, keeping
// errors that already carry ErrNotFound (e.g. a missing unit).
func mapMissing(err, notFound error) error {
	if errors.Is(err, utils.ErrNotFound) || !utils.IsNotFound(err) {
		return err
	}
	return notFound
}
