package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/constants"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// passTransitions is the pass lifecycle. Rejected and Expired are terminal.
var passTransitions = map[models.PassStatus][]models.PassStatus{
	models.PassPending:   {models.PassApproved, models.PassRejected},
	models.PassApproved:  {models.PassCheckedIn, models.PassExpired},
	models.PassCheckedIn: {models.PassExpired},
}

// CanTransition reports whether a pass may move from one status to another.
func CanTransition(from, to models.PassStatus) bool {
	for _, s := range passTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// errUnchanged aborts an update loop that has nothing to write.
var errUnchanged = errors.New("unchanged")

type PassService struct {
	cfg      *config.Config
	passes   repositories.AccessRequestRepository
	premises repositories.PremiseRepository
	persons  repositories.PersonRepository
	notifier Notifier
	now      func() time.Time
}

func NewPassService(
	cfg *config.Config,
	passes repositories.AccessRequestRepository,
	premises repositories.PremiseRepository,
	persons repositories.PersonRepository,
	notifier Notifier,
) *PassService {
	return &PassService{
		cfg:      cfg,
		passes:   passes,
		premises: premises,
		persons:  persons,
		notifier: notifier,
		now:      time.Now,
	}
}

func passNotFound(id string) error {
	return fmt.Errorf("pass %q: %w", id, utils.ErrNotFound)
}

// CreatePass issues a Pending pass. A request repeating an earlier
// IdempotencyKey returns the pass that key created.
func (s *PassService) CreatePass(ctx context.Context, actorID string, req dtos.CreatePassRequest) (*models.AccessRequest, error) {
	if req.IdempotencyKey != "" {
		existing, err := s.passes.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			utils.Logger.WithField("pass_id", existing.ID).Debug("Pass create replayed by idempotency key")
			return existing, nil
		}
	}

	premise, err := s.premises.GetByID(ctx, req.PremiseID)
	if err != nil {
		return nil, err
	}
	if premise == nil {
		return nil, premiseNotFound(req.PremiseID)
	}

	now := s.now().UTC()
	expiresAt := now.Add(constants.DefaultPassLifetime)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return nil, fmt.Errorf("expires_at %s is not in the future: %w", req.ExpiresAt.Format(time.RFC3339), internal_utils.ErrInvalidExpiry)
		}
		expiresAt = req.ExpiresAt.UTC()
	}

	hostID := req.HostID
	if hostID == "" {
		hostID = actorID
	}
	hostName, tenantID := req.HostName, req.TenantID
	if hostName == "" || tenantID == "" {
		host, err := s.persons.GetByID(ctx, hostID)
		if err != nil {
			return nil, err
		}
		if host != nil {
			if hostName == "" {
				hostName = host.Name
			}
			if tenantID == "" {
				tenantID = hostTenantID(host)
			}
		}
	}

	code := req.AccessCode
	if code == "" {
		code = utils.RandomNumericString(constants.AccessCodeLength)
	}
	reqType := req.RequestType
	if reqType == "" {
		reqType = models.RequestDirect
	}

	pass := &models.AccessRequest{
		ID:             uuid.NewString(),
		PremiseID:      premise.ID,
		PremiseName:    premise.Name,
		TenantID:       tenantID,
		HostID:         hostID,
		HostName:       hostName,
		VisitorName:    req.VisitorName,
		VisitorPhone:   req.VisitorPhone,
		VisitorPurpose: req.VisitorPurpose,
		CreatedAt:      now,
		ExpiresAt:      expiresAt,
		Status:         models.PassPending,
		RequestType:    reqType,
		PremiseType:    premise.Type,
		AccessCode:     code,
		TargetUnit:     req.TargetUnit,
		IdempotencyKey: req.IdempotencyKey,
	}
	if err := s.passes.Create(ctx, pass); err != nil {
		if req.IdempotencyKey != "" && utils.IsUniqueViolation(err) {
			// Lost a race with a concurrent retry of the same request.
			existing, gErr := s.passes.GetByIdempotencyKey(ctx, req.IdempotencyKey)
			if gErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	utils.Logger.WithFields(map[string]any{
		"pass_id":    pass.ID,
		"premise_id": pass.PremiseID,
		"host_id":    pass.HostID,
	}).Info("Pass created")
	return pass, nil
}

// hostTenantID is the tenant a host's passes are filed under: a tenant
// admin files under themself, a co-host under their admin.
func hostTenantID(host *models.Person) string {
	switch host.Role {
	case models.RoleTenantAdmin:
		return host.ID
	case models.RoleStaff:
		return host.TenantID
	}
	return ""
}

// SetPassStatus moves a pass along the lifecycle. Setting the status it
// already has succeeds without a write so retried calls are harmless.
func (s *PassService) SetPassStatus(ctx context.Context, id string, status models.PassStatus) (*models.AccessRequest, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, utils.ErrInvalidTransition)
	}
	var changed bool
	err := s.passes.UpdateWithRetry(ctx, id, func(a *models.AccessRequest) error {
		changed = false
		if a.Status == status {
			return errUnchanged
		}
		if !CanTransition(a.Status, status) {
			return fmt.Errorf("pass %q %s -> %s: %w", id, a.Status, status, utils.ErrInvalidTransition)
		}
		a.Status = status
		changed = true
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, mapMissing(err, passNotFound(id))
	}

	pass, err := s.GetPass(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		utils.Logger.WithFields(map[string]any{
			"pass_id": id,
			"status":  status,
		}).Info("Pass status changed")
		if status == models.PassApproved {
			go s.notifyApproved(pass.Clone())
		}
	}
	return pass, nil
}

// AuthorizeStatusChange allows the pass's host or tenant, the premise
// manager, and the premise's gatemen to move a pass along.
func (s *PassService) AuthorizeStatusChange(ctx context.Context, actorID, passID string) error {
	pass, err := s.GetPass(ctx, passID)
	if err != nil {
		return err
	}
	if actorID == pass.HostID || actorID == pass.TenantID {
		return nil
	}
	premise, err := s.premises.GetByID(ctx, pass.PremiseID)
	if err != nil {
		return err
	}
	if premise != nil && premise.BuildingManagerID == actorID {
		return nil
	}
	actor, err := s.persons.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor != nil && actor.Role == models.RoleGateman && actor.PremiseID == pass.PremiseID {
		return nil
	}
	return fmt.Errorf("person %q may not update pass %q: %w", actorID, passID, utils.ErrForbidden)
}

// notifyApproved texts the visitor their access code. Failures are only logged.
func (s *PassService) notifyApproved(pass *models.AccessRequest) {
	if s.notifier == nil {
		return
	}
	loc := time.UTC
	if premise, err := s.premises.GetByID(context.Background(), pass.PremiseID); err == nil && premise != nil {
		loc = internal_utils.LocationOrUTC(premise.TimeZone)
	}
	body := fmt.Sprintf(
		"%s: your visit to %s is approved. Gate code %s, valid until %s.",
		s.cfg.OrganizationName,
		pass.PremiseName,
		pass.AccessCode,
		pass.ExpiresAt.In(loc).Format("Jan 2 15:04"),
	)
	if err := s.notifier.SendSMS(context.Background(), pass.VisitorPhone, body); err != nil {
		utils.Logger.WithError(err).WithField("pass_id", pass.ID).Warn("Failed to text visitor their pass")
	}
}

func (s *PassService) GetPass(ctx context.Context, id string) (*models.AccessRequest, error) {
	a, err := s.passes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, passNotFound(id)
	}
	return a, nil
}

// ListPasses returns the passes of one premise, or every pass when premiseID is empty.
func (s *PassService) ListPasses(ctx context.Context, premiseID string) ([]*models.AccessRequest, error) {
	if premiseID == "" {
		return s.passes.ListAll(ctx)
	}
	return s.passes.ListByPremiseID(ctx, premiseID)
}
