package repositories

import (
	"context"
	"sync"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
)

// ShiftReportRepository stores end-of-shift reports. Reports are never
// edited, so there is no versioned update path.
type ShiftReportRepository interface {
	Create(ctx context.Context, r *models.ShiftReport) error
	ListByPremiseID(ctx context.Context, premiseID string) ([]*models.ShiftReport, error)
}

type shiftReportRepo struct {
	db DB
}

func NewShiftReportRepository(db DB) ShiftReportRepository {
	return &shiftReportRepo{db: db}
}

func (r *shiftReportRepo) Create(ctx context.Context, rep *models.ShiftReport) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO shift_reports (
			id, premise_id, gateman_id, scans, incidents, duration, notes,
			holiday_shift, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		rep.ID, rep.PremiseID, rep.GatemanID, rep.Scans, rep.Incidents,
		rep.Duration, rep.Notes, rep.HolidayShift, rep.CreatedAt,
	)
	return err
}

func (r *shiftReportRepo) ListByPremiseID(ctx context.Context, premiseID string) ([]*models.ShiftReport, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, premise_id, gateman_id, scans, incidents, duration, notes,
		       holiday_shift, created_at
		FROM shift_reports
		WHERE premise_id=$1
		ORDER BY created_at DESC
	`, premiseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ShiftReport
	for rows.Next() {
		var rep models.ShiftReport
		if err := rows.Scan(
			&rep.ID, &rep.PremiseID, &rep.GatemanID, &rep.Scans, &rep.Incidents,
			&rep.Duration, &rep.Notes, &rep.HolidayShift, &rep.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &rep)
	}
	return out, rows.Err()
}

type memoryShiftReportRepo struct {
	mu      sync.RWMutex
	reports []models.ShiftReport
}

func NewMemoryShiftReportRepository() ShiftReportRepository {
	return &memoryShiftReportRepo{}
}

func (r *memoryShiftReportRepo) Create(_ context.Context, rep *models.ShiftReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, *rep)
	return nil
}

func (r *memoryShiftReportRepo) ListByPremiseID(_ context.Context, premiseID string) ([]*models.ShiftReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.ShiftReport
	for i := len(r.reports) - 1; i >= 0; i-- {
		if r.reports[i].PremiseID == premiseID {
			rep := r.reports[i]
			out = append(out, &rep)
		}
	}
	return out, nil
}
