package repositories

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PremiseRepository interface {
	Create(ctx context.Context, p *models.Premise) error

	GetByID(ctx context.Context, id string) (*models.Premise, error)
	ListByManagerID(ctx context.Context, managerID string) ([]*models.Premise, error)
	FindByTenant(ctx context.Context, personID string) (*models.Premise, error)
	ListAll(ctx context.Context) ([]*models.Premise, error)

	Update(ctx context.Context, p *models.Premise) error
	UpdateIfVersion(ctx context.Context, p *models.Premise, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id string, mutate func(*models.Premise) error) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type premiseRepo struct {
	*BaseVersionedRepo[*models.Premise]
	db DB
}

func NewPremiseRepository(db DB) PremiseRepository {
	r := &premiseRepo{db: db}
	selectStmt := baseSelectPremise() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanPremise)
	return r
}

func (r *premiseRepo) Create(ctx context.Context, p *models.Premise) error {
	vacancies, occupied, err := marshalUnits(p)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
        INSERT INTO premises (
            id, name, building_manager_id, premise_type, address, city,
            latitude, longitude, time_zone, verification_status,
            tenants, vacancies, occupied_units,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW(), 1)
    `,
		p.ID,
		p.Name,
		p.BuildingManagerID,
		string(p.Type),
		p.Address,
		p.City,
		p.Latitude,
		p.Longitude,
		p.TimeZone,
		string(p.VerificationStatus),
		idsOrEmpty(p.Tenants),
		vacancies,
		occupied,
	)
	if err == nil {
		p.RowVersion = 1
	}
	return err
}

func (r *premiseRepo) GetByID(ctx context.Context, id string) (*models.Premise, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id)
}

func (r *premiseRepo) ListByManagerID(ctx context.Context, managerID string) ([]*models.Premise, error) {
	return r.list(ctx, baseSelectPremise()+" WHERE building_manager_id=$1 ORDER BY created_at, id", managerID)
}

func (r *premiseRepo) FindByTenant(ctx context.Context, personID string) (*models.Premise, error) {
	row := r.db.QueryRow(ctx, baseSelectPremise()+" WHERE $1 = ANY(tenants) LIMIT 1", personID)
	return scanPremise(row)
}

func (r *premiseRepo) ListAll(ctx context.Context) ([]*models.Premise, error) {
	return r.list(ctx, baseSelectPremise()+" ORDER BY created_at, id")
}

func (r *premiseRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Premise, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Premise
	for rows.Next() {
		p, err := scanPremise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *premiseRepo) Update(ctx context.Context, p *models.Premise) error {
	_, err := r.update(ctx, p, false, 0)
	return err
}

func (r *premiseRepo) UpdateIfVersion(ctx context.Context, p *models.Premise, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, p, true, expected)
}

func (r *premiseRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*models.Premise) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

// update writes tenants, vacancies and occupied_units in one statement so
// the row version covers the whole occupancy picture.
func (r *premiseRepo) update(ctx context.Context, p *models.Premise, check bool, expected int64) (pgconn.CommandTag, error) {
	vacancies, occupied, err := marshalUnits(p)
	if err != nil {
		return nil, err
	}
	sql := `
        UPDATE premises SET
            name=$1, building_manager_id=$2, premise_type=$3, address=$4, city=$5,
            latitude=$6, longitude=$7, time_zone=$8, verification_status=$9,
            tenants=$10, vacancies=$11, occupied_units=$12, updated_at=NOW()
    `
	args := []any{
		p.Name, p.BuildingManagerID, string(p.Type), p.Address, p.City,
		p.Latitude, p.Longitude, p.TimeZone, string(p.VerificationStatus),
		idsOrEmpty(p.Tenants), vacancies, occupied,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$13 AND row_version=$14`
		args = append(args, p.ID, expected)
	} else {
		sql += `, row_version=row_version+1 WHERE id=$13`
		args = append(args, p.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

func baseSelectPremise() string {
	return `
        SELECT
            id, name, building_manager_id, premise_type, address, city,
            latitude, longitude, time_zone, verification_status,
            tenants, vacancies, occupied_units,
            created_at, updated_at, row_version
        FROM premises
    `
}

func scanPremise(row pgx.Row) (*models.Premise, error) {
	var (
		p                   models.Premise
		premiseType, status string
		vacancies, occupied []byte
	)
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.BuildingManagerID,
		&premiseType,
		&p.Address,
		&p.City,
		&p.Latitude,
		&p.Longitude,
		&p.TimeZone,
		&status,
		&p.Tenants,
		&vacancies,
		&occupied,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Type = models.PremiseType(premiseType)
	p.VerificationStatus = models.VerificationStatus(status)
	if err := unmarshalUnits(vacancies, &p.Vacancies); err != nil {
		return nil, err
	}
	if err := unmarshalUnits(occupied, &p.OccupiedUnits); err != nil {
		return nil, err
	}
	return &p, nil
}

func marshalUnits(p *models.Premise) (vacancies, occupied []byte, err error) {
	if vacancies, err = json.Marshal(unitsOrEmpty(p.Vacancies)); err != nil {
		return nil, nil, err
	}
	if occupied, err = json.Marshal(unitsOrEmpty(p.OccupiedUnits)); err != nil {
		return nil, nil, err
	}
	return vacancies, occupied, nil
}

func unmarshalUnits(raw []byte, dst *[]models.Unit) error {
	if len(raw) == 0 {
		*dst = []models.Unit{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func unitsOrEmpty(u []models.Unit) []models.Unit {
	if u == nil {
		return []models.Unit{}
	}
	return u
}

/* ------------------------------------------------------------------
   In-memory implementation
------------------------------------------------------------------ */

type memoryPremiseRepo struct {
	t *memoryTable[*models.Premise]
}

func NewMemoryPremiseRepository() PremiseRepository {
	return &memoryPremiseRepo{t: newMemoryTable((*models.Premise).Clone)}
}

func (r *memoryPremiseRepo) Create(_ context.Context, p *models.Premise) error {
	return r.t.insert(p)
}

func (r *memoryPremiseRepo) GetByID(ctx context.Context, id string) (*models.Premise, error) {
	return r.t.get(ctx, id)
}

func (r *memoryPremiseRepo) ListByManagerID(_ context.Context, managerID string) ([]*models.Premise, error) {
	return r.t.list(func(p *models.Premise) bool { return p.BuildingManagerID == managerID }), nil
}

func (r *memoryPremiseRepo) FindByTenant(_ context.Context, personID string) (*models.Premise, error) {
	return r.t.find(func(p *models.Premise) bool { return slices.Contains(p.Tenants, personID) }), nil
}

func (r *memoryPremiseRepo) ListAll(_ context.Context) ([]*models.Premise, error) {
	return r.t.list(nil), nil
}

func (r *memoryPremiseRepo) Update(_ context.Context, p *models.Premise) error {
	return r.t.put(p)
}

func (r *memoryPremiseRepo) UpdateIfVersion(ctx context.Context, p *models.Premise, expected int64) (pgconn.CommandTag, error) {
	return r.t.updateIfVersion(ctx, p, expected)
}

func (r *memoryPremiseRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*models.Premise) error) error {
	return WithRetry(ctx, DefaultMaxRetries, id, r.t.get, r.UpdateIfVersion, mutate)
}
