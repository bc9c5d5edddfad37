package services

import (
	"context"
	"fmt"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
)

// Scan response kinds.
const (
	ScanResultRoleAssigned = "role_assigned"
	ScanResultWelcomeBack  = "welcome_back"
	ScanResultPremise      = "premise"
	ScanResultDecision     = "decision"
)

// ScanService routes any scanned payload: MASTER: keys are redeemed,
// PREMISE: codes open the premise, and everything else is verified.
type ScanService struct {
	cfg       *config.Config
	persons   repositories.PersonRepository
	premises  repositories.PremiseRepository
	passes    repositories.AccessRequestRepository
	masterKey *MasterKeyService
	verifier  *AccessVerificationService
	now       func() time.Time
}

func NewScanService(
	cfg *config.Config,
	persons repositories.PersonRepository,
	premises repositories.PremiseRepository,
	passes repositories.AccessRequestRepository,
	masterKey *MasterKeyService,
	verifier *AccessVerificationService,
) *ScanService {
	return &ScanService{
		cfg:       cfg,
		persons:   persons,
		premises:  premises,
		passes:    passes,
		masterKey: masterKey,
		verifier:  verifier,
		now:       time.Now,
	}
}

func (s *ScanService) HandleScan(ctx context.Context, actorID string, req dtos.ScanRequest) (*dtos.ScanResponse, error) {
	sc := internal_utils.ClassifyScanCode(req.Code, s.cfg.LDFlag_AllowBareDigitCodes)

	switch sc.Kind {
	case internal_utils.ScanKindMasterKey:
		person, err := s.masterKey.Redeem(ctx, actorID, sc.Raw)
		if err != nil {
			return nil, err
		}
		return &dtos.ScanResponse{
			Kind:    ScanResultRoleAssigned,
			Message: fmt.Sprintf("You are now %s", person.Role),
			Person:  person,
		}, nil

	case internal_utils.ScanKindPremise:
		return s.openPremise(ctx, actorID, sc.PremiseID)
	}

	decision, err := s.verifier.Verify(ctx, actorID, dtos.VerifyRequest{
		Code:      req.Code,
		PremiseID: req.PremiseID,
		CheckIn:   req.CheckIn,
		Lat:       req.Lat,
		Lng:       req.Lng,
	})
	if err != nil {
		return nil, err
	}
	return &dtos.ScanResponse{
		Kind:     ScanResultDecision,
		Message:  decision.Message,
		Decision: decision,
	}, nil
}

// openPremise welcomes back a visitor who already holds an active pass for
// the premise and otherwise returns the premise for browsing.
func (s *ScanService) openPremise(ctx context.Context, actorID, premiseID string) (*dtos.ScanResponse, error) {
	premise, err := s.premises.GetByID(ctx, premiseID)
	if err != nil {
		return nil, err
	}
	if premise == nil {
		return nil, premiseNotFound(premiseID)
	}

	actor, err := s.persons.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor != nil && actor.Phone != "" {
		passes, err := s.passes.ListByPremiseID(ctx, premiseID)
		if err != nil {
			return nil, err
		}
		now := s.now()
		for _, a := range passes {
			if a.VisitorPhone == actor.Phone && a.IsActive(now) {
				return &dtos.ScanResponse{
					Kind:        ScanResultWelcomeBack,
					Message:     fmt.Sprintf("Welcome back to %s", premise.Name),
					Premise:     premise,
					Pass:        a,
					WelcomeBack: true,
				}, nil
			}
		}
	}
	return &dtos.ScanResponse{Kind: ScanResultPremise, Premise: premise}, nil
}
