package services

import (
	"context"
	"fmt"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/config"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/constants"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

// VerifyOptions tunes VerifyEntry.
type VerifyOptions struct {
	Now time.Time

	// EnforceExpiry makes a pass past its ExpiresAt count as Expired even
	// while its stored status is still Approved or CheckedIn. Off, only the
	// stored status is consulted.
	EnforceExpiry bool

	// AllowBareDigits accepts the legacy typed forms: 9–12 digits for a
	// phone tail and exactly 6 for an access code.
	AllowBareDigits bool
}

/*
VerifyEntry decides whether the holder of code may enter actingPremise.
It reads persons and passes and never changes them.

Decision paths always return a nil error. The only errors are for codes
that are not access codes at all: ErrSetupCode for MASTER: keys and
ErrNotAccessCode for PREMISE: codes.
*/
func VerifyEntry(
	code string,
	actingPremise *models.Premise,
	persons []*models.Person,
	passes []*models.AccessRequest,
	opts VerifyOptions,
) (models.AccessDecision, error) {
	sc := internal_utils.ClassifyScanCode(code, opts.AllowBareDigits)
	switch sc.Kind {
	case internal_utils.ScanKindMasterKey:
		return models.AccessDecision{}, internal_utils.ErrSetupCode
	case internal_utils.ScanKindPremise:
		return models.AccessDecision{}, internal_utils.ErrNotAccessCode
	case internal_utils.ScanKindProfile, internal_utils.ScanKindPhoneTail:
		return verifyIdentity(sc, actingPremise, persons, passes, opts), nil
	case internal_utils.ScanKindMalformedPass:
		return models.AccessDecision{Message: constants.MsgInvalidCodeFormat}, nil
	case internal_utils.ScanKindPassRef, internal_utils.ScanKindAccessCode:
		return verifyPass(sc, actingPremise, passes, opts), nil
	default:
		return models.AccessDecision{Message: constants.MsgUnknownCodeFormat}, nil
	}
}

func grants(a *models.AccessRequest, opts VerifyOptions) bool {
	if opts.EnforceExpiry {
		return a.IsActive(opts.Now)
	}
	return a.Status.GrantsAccess()
}

func shownStatus(a *models.AccessRequest, opts VerifyOptions) models.PassStatus {
	if opts.EnforceExpiry {
		return a.EffectiveStatus(opts.Now)
	}
	return a.Status
}

func visitorDetails(a *models.AccessRequest) *models.AccessDetails {
	purpose := a.Purpose()
	return &models.AccessDetails{
		Role:     constants.RoleVisitor,
		Purpose:  purpose,
		Duration: internal_utils.DurationForPurpose(purpose),
	}
}

func verifyIdentity(
	sc internal_utils.ScanCode,
	actingPremise *models.Premise,
	persons []*models.Person,
	passes []*models.AccessRequest,
	opts VerifyOptions,
) models.AccessDecision {
	var person *models.Person
	for _, p := range persons {
		if sc.Kind == internal_utils.ScanKindProfile && p.ID == sc.PersonID ||
			sc.Kind == internal_utils.ScanKindPhoneTail && p.Phone != "" && utils.PhoneTail(p.Phone) == sc.PhoneTail {
			person = p
			break
		}
	}
	if person == nil {
		return models.AccessDecision{Message: constants.MsgUserNotFound}
	}

	if actingPremise != nil && actingPremise.HasTenant(person.ID) {
		return models.AccessDecision{
			Allowed:       true,
			Message:       constants.MsgTenantGranted,
			MatchedPerson: person,
			AccessDetails: &models.AccessDetails{
				Role:     constants.RoleResident,
				Purpose:  constants.PurposeHome,
				Duration: constants.DurationUnlimited,
			},
		}
	}

	for _, a := range passes {
		if a.VisitorPhone == person.Phone && actingPremise != nil && a.PremiseID == actingPremise.ID && grants(a, opts) {
			return models.AccessDecision{
				Allowed:       true,
				Message:       constants.MsgGuestGranted,
				MatchedPass:   a,
				MatchedPerson: person,
				AccessDetails: visitorDetails(a),
			}
		}
	}

	return models.AccessDecision{
		Message:       fmt.Sprintf(constants.MsgNoActivePassFmt, person.Name),
		MatchedPerson: person,
	}
}

func verifyPass(
	sc internal_utils.ScanCode,
	actingPremise *models.Premise,
	passes []*models.AccessRequest,
	opts VerifyOptions,
) models.AccessDecision {
	actingID := ""
	if actingPremise != nil {
		actingID = actingPremise.ID
	}

	var pass *models.AccessRequest
	if sc.Kind == internal_utils.ScanKindPassRef {
		for _, a := range passes {
			if a.ID == sc.PassID {
				pass = a
				break
			}
		}
	} else {
		// Typed codes are only looked up on the acting premise. Among
		// colliding codes a pass that grants entry is preferred.
		for _, a := range passes {
			if a.AccessCode != sc.AccessCode || a.PremiseID != actingID {
				continue
			}
			if pass == nil || !grants(pass, opts) && grants(a, opts) {
				pass = a
			}
		}
	}
	if pass == nil {
		return models.AccessDecision{Message: constants.MsgInvalidPass}
	}
	if pass.PremiseID != actingID {
		return models.AccessDecision{Message: constants.MsgWrongPremise}
	}
	if pass.AccessCode != "" && pass.AccessCode != sc.AccessCode {
		return models.AccessDecision{Message: constants.MsgInvalidAccessCode}
	}
	if grants(pass, opts) {
		return models.AccessDecision{
			Allowed:       true,
			Message:       fmt.Sprintf(constants.MsgPassGrantedFmt, pass.VisitorName),
			MatchedPass:   pass,
			AccessDetails: visitorDetails(pass),
		}
	}
	return models.AccessDecision{
		Message:     fmt.Sprintf(constants.MsgPassDeniedFmt, shownStatus(pass, opts)),
		MatchedPass: pass,
	}
}

// ----------------------------------------------------------------
// Service wrapper
// ----------------------------------------------------------------

// AccessVerificationService loads the data VerifyEntry needs, applies the
// scanner-location guard, and records the outcome.
type AccessVerificationService struct {
	cfg      *config.Config
	persons  repositories.PersonRepository
	premises repositories.PremiseRepository
	passes   repositories.AccessRequestRepository
	passSvc  *PassService
	shiftSvc *ShiftService
	now      func() time.Time
}

func NewAccessVerificationService(
	cfg *config.Config,
	persons repositories.PersonRepository,
	premises repositories.PremiseRepository,
	passes repositories.AccessRequestRepository,
	passSvc *PassService,
	shiftSvc *ShiftService,
) *AccessVerificationService {
	return &AccessVerificationService{
		cfg:      cfg,
		persons:  persons,
		premises: premises,
		passes:   passes,
		passSvc:  passSvc,
		shiftSvc: shiftSvc,
		now:      time.Now,
	}
}

func (s *AccessVerificationService) options() VerifyOptions {
	return VerifyOptions{
		Now:             s.now().UTC(),
		EnforceExpiry:   s.cfg.LDFlag_EnforcePassExpiry,
		AllowBareDigits: s.cfg.LDFlag_AllowBareDigitCodes,
	}
}

// Verify runs VerifyEntry for a gate scan made by actorID, who must be a
// gateman of the premise or its manager. With CheckIn set, a granted
// Approved pass moves to CheckedIn.
func (s *AccessVerificationService) Verify(ctx context.Context, actorID string, req dtos.VerifyRequest) (*models.AccessDecision, error) {
	if req.PremiseID == "" {
		return nil, internal_utils.ErrActingPremiseRequired
	}
	premise, err := s.premises.GetByID(ctx, req.PremiseID)
	if err != nil {
		return nil, err
	}
	if premise == nil {
		return nil, premiseNotFound(req.PremiseID)
	}
	if _, err := gateStaff(ctx, s.persons, premise, actorID); err != nil {
		return nil, err
	}
	if req.Lat != nil && req.Lng != nil && premise.HasCoordinates() &&
		!internal_utils.WithinRadius(*req.Lat, *req.Lng, premise.Latitude, premise.Longitude, constants.ScanRadiusMeters) {
		return nil, fmt.Errorf("scanner %.0fm from premise %q: %w",
			internal_utils.DistanceMeters(*req.Lat, *req.Lng, premise.Latitude, premise.Longitude),
			premise.ID, internal_utils.ErrScannerOutOfBounds)
	}

	persons, err := s.persons.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	passes, err := s.passes.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	decision, err := VerifyEntry(req.Code, premise, persons, passes, s.options())
	if err != nil {
		return nil, err
	}

	if req.CheckIn && decision.Allowed && decision.MatchedPass != nil && decision.MatchedPass.Status == models.PassApproved {
		checked, err := s.passSvc.SetPassStatus(ctx, decision.MatchedPass.ID, models.PassCheckedIn)
		if err != nil {
			utils.Logger.WithError(err).WithField("pass_id", decision.MatchedPass.ID).Warn("Check-in after grant failed")
		} else {
			decision.MatchedPass = checked
		}
	}

	if s.shiftSvc != nil {
		line := fmt.Sprintf("Scan: %s", decision.Message)
		if _, err := s.shiftSvc.LogActivity(ctx, premise.ID, actorID, line); err != nil {
			utils.Logger.WithError(err).WithField("premise_id", premise.ID).Warn("Failed to log gate activity")
		}
	}
	return &decision, nil
}
