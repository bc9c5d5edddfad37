package services

import (
	"context"
	"fmt"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/constants"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

/*
MasterKeyService issues and redeems MASTER: setup codes.

Every issued code is recorded in the token registry under its hash. With
single_use_master_keys on, redeeming consumes that entry, so a code works
once and only within its TTL. With the flag off a code is trusted on its
structure alone.
*/
type MasterKeyService struct {
	cfg      *config.Config
	premises repositories.PremiseRepository
	tokens   repositories.MasterKeyTokenRepository
	roles    *RoleService
	now      func() time.Time
}

func NewMasterKeyService(
	cfg *config.Config,
	premises repositories.PremiseRepository,
	tokens repositories.MasterKeyTokenRepository,
	roles *RoleService,
) *MasterKeyService {
	return &MasterKeyService{
		cfg:      cfg,
		premises: premises,
		tokens:   tokens,
		roles:    roles,
		now:      time.Now,
	}
}

// Issue encodes a key for role on premiseID. The premise's building manager
// may issue any key; a tenant admin may only issue co-host keys for their
// own unit.
func (s *MasterKeyService) Issue(
	ctx context.Context,
	actorID string,
	role models.RoleType,
	premiseID, unitID, adminID string,
) (string, time.Time, error) {
	premise, err := s.premises.GetByID(ctx, premiseID)
	if err != nil {
		return "", time.Time{}, err
	}
	if premise == nil {
		return "", time.Time{}, premiseNotFound(premiseID)
	}
	setup := internal_utils.SetupData{Role: role, PremiseID: premiseID, UnitID: unitID, AdminID: adminID}
	if err := s.roles.AuthorizeGrant(ctx, actorID, setup); err != nil {
		return "", time.Time{}, err
	}

	if role == models.RoleTenantAdmin {
		if _, ok := premise.FindVacancy(unitID); !ok {
			if _, occ := premise.FindOccupied(unitID); occ {
				return "", time.Time{}, fmt.Errorf("unit %q is occupied: %w", unitID, utils.ErrInvalidTransition)
			}
			return "", time.Time{}, fmt.Errorf("unit %q on premise %q: %w", unitID, premiseID, utils.ErrNotFound)
		}
	}

	code, err := internal_utils.EncodeMasterKey(role, premiseID, unitID, adminID)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := s.tokens.Save(ctx, utils.HashToken(code), premiseID, constants.MasterKeyTTL); err != nil {
		utils.Logger.WithError(err).Error("Failed to record master key")
		return "", time.Time{}, err
	}

	utils.Logger.WithFields(map[string]any{
		"premise_id": premiseID,
		"role":       role,
		"issuer_id":  actorID,
	}).Info("Master key issued")
	return code, s.now().UTC().Add(constants.MasterKeyTTL), nil
}

// Redeem decodes code and assigns the role it carries to actorID.
func (s *MasterKeyService) Redeem(ctx context.Context, actorID, code string) (*models.Person, error) {
	setup, err := internal_utils.DecodeMasterKey(code)
	if err != nil {
		return nil, err
	}

	hash := utils.HashToken(code)
	consumed := false
	if s.cfg.LDFlag_SingleUseMasterKeys {
		premiseID, ok, err := s.tokens.Consume(ctx, hash)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("master key for premise %q: %w", setup.PremiseID, internal_utils.ErrMasterKeyConsumed)
		}
		if premiseID != setup.PremiseID {
			return nil, fmt.Errorf("master key registered for %q, names %q: %w", premiseID, setup.PremiseID, utils.ErrMismatch)
		}
		consumed = true
	}

	person, err := s.roles.AssignRole(ctx, actorID, setup, nil)
	if err != nil {
		if consumed {
			// Give the key back so a transient failure does not burn it.
			if sErr := s.tokens.Save(ctx, hash, setup.PremiseID, constants.MasterKeyTTL); sErr != nil {
				utils.Logger.WithError(sErr).Error("Failed to restore master key after failed redeem")
			}
		}
		return nil, err
	}
	return person, nil
}
