package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/twilio/twilio-go"
)

type PersonService struct {
	cfg      *config.Config
	persons  repositories.PersonRepository
	twClient *twilio.RestClient
	now      func() time.Time
}

func NewPersonService(cfg *config.Config, persons repositories.PersonRepository, tw *twilio.RestClient) *PersonService {
	return &PersonService{cfg: cfg, persons: persons, twClient: tw, now: time.Now}
}

// validatePhone always checks E.164 syntax; the Twilio lookup only runs
// when the flag is on and a client is configured.
func (s *PersonService) validatePhone(ctx context.Context, phone string) error {
	var tw *twilio.RestClient
	if s.cfg.LDFlag_ValidatePhoneTwilio {
		tw = s.twClient
	}
	ok, err := utils.ValidatePhoneNumber(ctx, phone, tw)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("phone %q: %w", phone, utils.ErrInvalidPhone)
	}
	return nil
}

func (s *PersonService) CreatePerson(ctx context.Context, req dtos.CreatePersonRequest) (*models.Person, error) {
	if err := s.validatePhone(ctx, req.Phone); err != nil {
		return nil, err
	}
	existing, err := s.persons.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("phone %q already registered: %w", req.Phone, utils.ErrConflict)
	}

	now := s.now().UTC()
	p := &models.Person{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.persons.Create(ctx, p); err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, fmt.Errorf("phone %q already registered: %w", req.Phone, utils.ErrConflict)
		}
		return nil, err
	}
	utils.Logger.WithField("person_id", p.ID).Info("Person created")
	return p, nil
}

func (s *PersonService) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	p, err := s.persons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("person %q: %w", id, utils.ErrNotFound)
	}
	return p, nil
}

func (s *PersonService) ListPersons(ctx context.Context) ([]*models.Person, error) {
	return s.persons.ListAll(ctx)
}

// UpdatePerson applies a profile patch under optimistic locking.
func (s *PersonService) UpdatePerson(ctx context.Context, id string, req dtos.UpdatePersonRequest) (*models.Person, error) {
	if req.Phone != nil {
		if err := s.validatePhone(ctx, *req.Phone); err != nil {
			return nil, err
		}
		other, err := s.persons.GetByPhone(ctx, *req.Phone)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("phone %q already registered: %w", *req.Phone, utils.ErrConflict)
		}
	}

	err := s.persons.UpdateWithRetry(ctx, id, func(p *models.Person) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Phone != nil {
			p.Phone = *req.Phone
		}
		if req.Email != nil {
			p.Email = *req.Email
		}
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		if utils.IsNotFound(err) {
			return nil, fmt.Errorf("person %q: %w", id, utils.ErrNotFound)
		}
		if utils.IsUniqueViolation(err) {
			return nil, fmt.Errorf("phone already registered: %w", utils.ErrConflict)
		}
		return nil, err
	}
	return s.GetPerson(ctx, id)
}
