package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/constants"
	"github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/dtos"
	internal_utils "github.com/noid254/Qaribu-sub000/backend/services/gatepass-service/internal/utils"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-repositories"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
)

type ShiftService struct {
	premises repositories.PremiseRepository
	persons  repositories.PersonRepository
	reports  repositories.ShiftReportRepository
	activity repositories.ActivityFeedRepository
	notifier Notifier
	now      func() time.Time
}

func NewShiftService(
	premises repositories.PremiseRepository,
	persons repositories.PersonRepository,
	reports repositories.ShiftReportRepository,
	activity repositories.ActivityFeedRepository,
	notifier Notifier,
) *ShiftService {
	return &ShiftService{
		premises: premises,
		persons:  persons,
		reports:  reports,
		activity: activity,
		notifier: notifier,
		now:      time.Now,
	}
}

// LogActivity appends a line to the premise feed, which keeps only the
// most recent entries.
func (s *ShiftService) LogActivity(ctx context.Context, premiseID, actorID, description string) (*models.ActivityEntry, error) {
	e := &models.ActivityEntry{
		ID:          uuid.NewString(),
		PremiseID:   premiseID,
		ActorID:     actorID,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.activity.Push(ctx, e, constants.ActivityFeedLimit); err != nil {
		return nil, err
	}
	return e, nil
}

// RecentActivity is newest first.
func (s *ShiftService) RecentActivity(ctx context.Context, premiseID string) ([]*models.ActivityEntry, error) {
	return s.activity.Recent(ctx, premiseID)
}

// AuthorizeGateStaff passes for the premise's gatemen and its manager.
func (s *ShiftService) AuthorizeGateStaff(ctx context.Context, premiseID, actorID string) error {
	premise, err := s.premises.GetByID(ctx, premiseID)
	if err != nil {
		return err
	}
	if premise == nil {
		return premiseNotFound(premiseID)
	}
	_, err = gateStaff(ctx, s.persons, premise, actorID)
	return err
}

// gateStaff returns actorID when they are a gateman of premise or its
// building manager.
func gateStaff(ctx context.Context, persons repositories.PersonRepository, premise *models.Premise, actorID string) (*models.Person, error) {
	actor, err := persons.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, personNotFound(actorID)
	}
	onDuty := actor.Role == models.RoleGateman && actor.PremiseID == premise.ID
	if !onDuty && actorID != premise.BuildingManagerID {
		return nil, fmt.Errorf("person %q is not a gateman of premise %q: %w", actorID, premise.ID, utils.ErrForbidden)
	}
	return actor, nil
}

// SubmitShiftReport stores a gateman's end-of-shift report and emails it
// to the building manager in the background, without retries.
func (s *ShiftService) SubmitShiftReport(ctx context.Context, premiseID, gatemanID string, stats dtos.ShiftReportRequest) (*models.ShiftReport, error) {
	premise, err := s.premises.GetByID(ctx, premiseID)
	if err != nil {
		return nil, err
	}
	if premise == nil {
		return nil, premiseNotFound(premiseID)
	}
	gateman, err := gateStaff(ctx, s.persons, premise, gatemanID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	local := now.In(internal_utils.LocationOrUTC(premise.TimeZone))
	r := &models.ShiftReport{
		ID:           uuid.NewString(),
		PremiseID:    premiseID,
		GatemanID:    gatemanID,
		Scans:        stats.Scans,
		Incidents:    stats.Incidents,
		Duration:     stats.Duration,
		Notes:        stats.Notes,
		HolidayShift: internal_utils.IsKenyanPublicHoliday(local),
		CreatedAt:    now,
	}
	if err := s.reports.Create(ctx, r); err != nil {
		return nil, err
	}

	manager, err := s.persons.GetByID(ctx, premise.BuildingManagerID)
	if err != nil {
		utils.Logger.WithError(err).WithField("premise_id", premiseID).Warn("Could not load building manager for shift report")
	} else if manager != nil && manager.Email != "" && s.notifier != nil {
		go s.emailReport(manager, premise, gateman, r, local)
	}

	utils.Logger.WithFields(map[string]any{
		"premise_id": premiseID,
		"gateman_id": gatemanID,
		"holiday":    r.HolidayShift,
	}).Info("Shift report submitted")
	return r, nil
}

func (s *ShiftService) emailReport(manager *models.Person, premise *models.Premise, gateman *models.Person, r *models.ShiftReport, local time.Time) {
	subject := fmt.Sprintf("Shift report: %s, %s", premise.Name, local.Format("Mon Jan 2 15:04"))
	holiday := ""
	if r.HolidayShift {
		holiday = " (public holiday)"
	}
	plain := fmt.Sprintf(
		"%s filed a shift report for %s%s.\nDuration: %s\nScans: %d\nIncidents: %d\nNotes: %s\n",
		gateman.Name, premise.Name, holiday, r.Duration, r.Scans, r.Incidents, r.Notes,
	)
	body := fmt.Sprintf(
		"<p><strong>%s</strong> filed a shift report for <strong>%s</strong>%s.</p>"+
			"<ul><li>Duration: %s</li><li>Scans: %d</li><li>Incidents: %d</li></ul><p>%s</p>",
		html.EscapeString(gateman.Name), html.EscapeString(premise.Name), holiday,
		html.EscapeString(r.Duration), r.Scans, r.Incidents, html.EscapeString(r.Notes),
	)
	if err := s.notifier.SendEmail(context.Background(), manager.Name, manager.Email, subject, plain, body); err != nil {
		utils.Logger.WithError(err).WithField("report_id", r.ID).Warn("Failed to email shift report")
	}
}
