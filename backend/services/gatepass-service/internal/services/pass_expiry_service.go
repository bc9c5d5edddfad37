package services

import (
	"context"
	"errors"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// PassExpiryService moves Approved and CheckedIn passes whose time is up
// to Expired. It runs from cron; verification does not depend on it.
type PassExpiryService struct {
	passes repositories.AccessRequestRepository
	now    func() time.Time
}

func NewPassExpiryService(passes repositories.AccessRequestRepository) *PassExpiryService {
	return &PassExpiryService{passes: passes, now: time.Now}
}

// ExpireStalePasses returns how many passes it expired. A pass that fails
// to update is logged and skipped so one bad row does not stall the sweep.
func (s *PassExpiryService) ExpireStalePasses(ctx context.Context) (int, error) {
	now := s.now().UTC()
	stale, err := s.passes.ListExpirable(ctx, now)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to list expirable passes")
		return 0, err
	}

	expired := 0
	for _, a := range stale {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		err := s.passes.UpdateWithRetry(ctx, a.ID, func(cur *models.AccessRequest) error {
			if !cur.Status.GrantsAccess() || now.Before(cur.ExpiresAt) {
				return errUnchanged
			}
			cur.Status = models.PassExpired
			return nil
		})
		switch {
		case err == nil:
			expired++
		case errors.Is(err, errUnchanged), utils.IsNotFound(err):
		default:
			utils.Logger.WithError(err).WithField("pass_id", a.ID).Warn("Failed to expire pass")
		}
	}
	if expired > 0 {
		utils.Logger.Infof("Expired %d stale passes", expired)
	}
	return expired, nil
}
