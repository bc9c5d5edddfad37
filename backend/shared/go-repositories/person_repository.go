package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
)

/* ───────────── public interface ───────────── */

type PersonRepository interface {
	Create(ctx context.Context, p *models.Person) error

	GetByID(ctx context.Context, id string) (*models.Person, error)
	GetByPhone(ctx context.Context, phone string) (*models.Person, error)
	ListAll(ctx context.Context) ([]*models.Person, error)

	Update(ctx context.Context, p *models.Person) error
	UpdateIfVersion(ctx context.Context, p *models.Person, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id string, mutate func(*models.Person) error) error
}

/* ───────────── implementation ───────────── */

type personRepo struct {
	*BaseVersionedRepo[*models.Person]
	db DB
}

func NewPersonRepository(db DB) PersonRepository {
	r := &personRepo{db: db}
	selectStmt := baseSelectPerson() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanPerson)
	return r
}

/* ---------- create ---------- */

func (r *personRepo) Create(ctx context.Context, p *models.Person) error {
	details, err := marshalUnitDetails(p.UnitDetails)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO persons (
			id, name, phone, email, role, premise_id, unit, floor,
			unit_details, tenant_id, co_hosts,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, NOW(), NOW(), 1)
	`,
		p.ID, p.Name, p.Phone, p.Email, string(p.Role), p.PremiseID, p.Unit, p.Floor,
		details, p.TenantID, idsOrEmpty(p.CoHosts),
	)
	if err == nil {
		p.RowVersion = 1
	}
	return err
}

/* ---------- reads ---------- */

func (r *personRepo) GetByID(ctx context.Context, id string) (*models.Person, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id)
}

func (r *personRepo) GetByPhone(ctx context.Context, phone string) (*models.Person, error) {
	row := r.db.QueryRow(ctx, baseSelectPerson()+" WHERE phone=$1 LIMIT 1", phone)
	return scanPerson(row)
}

func (r *personRepo) ListAll(ctx context.Context) ([]*models.Person, error) {
	rows, err := r.db.Query(ctx, baseSelectPerson()+" ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

/* ---------- update ---------- */

func (r *personRepo) Update(ctx context.Context, p *models.Person) error {
	_, err := r.update(ctx, p, false, 0)
	return err
}

func (r *personRepo) UpdateIfVersion(ctx context.Context, p *models.Person, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, p, true, expected)
}

func (r *personRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*models.Person) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *personRepo) update(ctx context.Context, p *models.Person, check bool, expected int64) (pgconn.CommandTag, error) {
	details, err := marshalUnitDetails(p.UnitDetails)
	if err != nil {
		return nil, err
	}
	sql := `
		UPDATE persons SET
			name=$1, phone=$2, email=$3, role=$4, premise_id=$5, unit=$6, floor=$7,
			unit_details=$8, tenant_id=$9, co_hosts=$10, updated_at=NOW()
	`
	args := []any{
		p.Name, p.Phone, p.Email, string(p.Role), p.PremiseID, p.Unit, p.Floor,
		details, p.TenantID, idsOrEmpty(p.CoHosts),
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$11 AND row_version=$12`
		args = append(args, p.ID, expected)
	} else {
		sql += `, row_version=row_version+1 WHERE id=$11`
		args = append(args, p.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

/* ---------- internals ---------- */

func baseSelectPerson() string {
	return `
		SELECT id, name, phone, email, role, premise_id, unit, floor,
		       unit_details, tenant_id, co_hosts,
		       created_at, updated_at, row_version
		FROM persons`
}

func scanPerson(row pgx.Row) (*models.Person, error) {
	var (
		p       models.Person
		role    string
		details []byte
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Phone, &p.Email, &role, &p.PremiseID, &p.Unit, &p.Floor,
		&details, &p.TenantID, &p.CoHosts,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	p.Role = models.RoleType(role)
	if len(details) > 0 && string(details) != "null" {
		var u models.Unit
		if err := json.Unmarshal(details, &u); err != nil {
			return nil, err
		}
		p.UnitDetails = &u
	}
	return &p, nil
}

func marshalUnitDetails(u *models.Unit) ([]byte, error) {
	if u == nil {
		return nil, nil
	}
	return json.Marshal(u)
}

func idsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

/* ───────────── in-memory implementation ───────────── */

type memoryPersonRepo struct {
	t *memoryTable[*models.Person]
}

// NewMemoryPersonRepository keeps persons in process memory.
func NewMemoryPersonRepository() PersonRepository {
	return &memoryPersonRepo{t: newMemoryTable((*models.Person).Clone)}
}

func (r *memoryPersonRepo) Create(_ context.Context, p *models.Person) error {
	return r.t.insert(p, func(x *models.Person) bool { return x.Phone == p.Phone })
}

func (r *memoryPersonRepo) GetByID(ctx context.Context, id string) (*models.Person, error) {
	return r.t.get(ctx, id)
}

func (r *memoryPersonRepo) GetByPhone(_ context.Context, phone string) (*models.Person, error) {
	return r.t.find(func(p *models.Person) bool { return p.Phone == phone }), nil
}

func (r *memoryPersonRepo) ListAll(_ context.Context) ([]*models.Person, error) {
	return r.t.list(nil), nil
}

func (r *memoryPersonRepo) Update(_ context.Context, p *models.Person) error {
	return r.t.put(p)
}

func (r *memoryPersonRepo) UpdateIfVersion(ctx context.Context, p *models.Person, expected int64) (pgconn.CommandTag, error) {
	return r.t.updateIfVersion(ctx, p, expected)
}

func (r *memoryPersonRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*models.Person) error) error {
	return WithRetry(ctx, DefaultMaxRetries, id, r.t.get, r.UpdateIfVersion, mutate)
}
