package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
)

/* ───────────── public interface ───────────── */

type AccessRequestRepository interface {
	Create(ctx context.Context, a *models.AccessRequest) error

	GetByID(ctx context.Context, id string) (*models.AccessRequest, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*models.AccessRequest, error)
	ListAll(ctx context.Context) ([]*models.AccessRequest, error)
	ListByPremiseID(ctx context.Context, premiseID string) ([]*models.AccessRequest, error)

	// ListExpirable returns Approved/CheckedIn passes whose expiry is at or before now.
	ListExpirable(ctx context.Context, now time.Time) ([]*models.AccessRequest, error)

	UpdateIfVersion(ctx context.Context, a *models.AccessRequest, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id string, mutate func(*models.AccessRequest) error) error
}

/* ───────────── implementation ───────────── */

type accessRequestRepo struct {
	*BaseVersionedRepo[*models.AccessRequest]
	db DB
}

func NewAccessRequestRepository(db DB) AccessRequestRepository {
	r := &accessRequestRepo{db: db}
	selectStmt := baseSelectAccessRequest() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanAccessRequest)
	return r
}

func (r *accessRequestRepo) Create(ctx context.Context, a *models.AccessRequest) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO access_requests (
			id, premise_id, premise_name, tenant_id, host_id, host_name,
			visitor_name, visitor_phone, visitor_purpose,
			created_at, expires_at, status, request_type, premise_type,
			access_code, target_unit, idempotency_key, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NULLIF($17,''),1)
	`,
		a.ID, a.PremiseID, a.PremiseName, a.TenantID, a.HostID, a.HostName,
		a.VisitorName, a.VisitorPhone, a.VisitorPurpose,
		a.CreatedAt, a.ExpiresAt, string(a.Status), string(a.RequestType), string(a.PremiseType),
		a.AccessCode, a.TargetUnit, a.IdempotencyKey,
	)
	if err == nil {
		a.RowVersion = 1
	}
	return err
}

func (r *accessRequestRepo) GetByID(ctx context.Context, id string) (*models.AccessRequest, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id)
}

func (r *accessRequestRepo) GetByIdempotencyKey(ctx context.Context, key string) (*models.AccessRequest, error) {
	row := r.db.QueryRow(ctx, baseSelectAccessRequest()+" WHERE idempotency_key=$1", key)
	return scanAccessRequest(row)
}

func (r *accessRequestRepo) ListAll(ctx context.Context) ([]*models.AccessRequest, error) {
	return r.list(ctx, baseSelectAccessRequest()+" ORDER BY created_at, id")
}

func (r *accessRequestRepo) ListByPremiseID(ctx context.Context, premiseID string) ([]*models.AccessRequest, error) {
	return r.list(ctx, baseSelectAccessRequest()+" WHERE premise_id=$1 ORDER BY created_at, id", premiseID)
}

func (r *accessRequestRepo) ListExpirable(ctx context.Context, now time.Time) ([]*models.AccessRequest, error) {
	return r.list(ctx, baseSelectAccessRequest()+`
		WHERE status IN ('Approved','CheckedIn') AND expires_at <= $1
		ORDER BY expires_at`, now)
}

func (r *accessRequestRepo) list(ctx context.Context, sql string, args ...any) ([]*models.AccessRequest, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.AccessRequest
	for rows.Next() {
		a, err := scanAccessRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateIfVersion only rewrites the mutable fields of a pass.
func (r *accessRequestRepo) UpdateIfVersion(ctx context.Context, a *models.AccessRequest, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE access_requests SET
			status=$1, expires_at=$2, access_code=$3,
			row_version=row_version+1
		WHERE id=$4 AND row_version=$5
	`, string(a.Status), a.ExpiresAt, a.AccessCode, a.ID, expected)
}

func (r *accessRequestRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*models.AccessRequest) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func baseSelectAccessRequest() string {
	return `
		SELECT id, premise_id, premise_name, tenant_id, host_id, host_name,
		       visitor_name, visitor_phone, visitor_purpose,
		       created_at, expires_at, status, request_type, premise_type,
		       access_code, target_unit, COALESCE(idempotency_key,''), row_version
		FROM access_requests`
}

func scanAccessRequest(row pgx.Row) (*models.AccessRequest, error) {
	var (
		a                              models.AccessRequest
		status, reqType, premiseType string
	)
	err := row.Scan(
		&a.ID, &a.PremiseID, &a.PremiseName, &a.TenantID, &a.HostID, &a.HostName,
		&a.VisitorName, &a.VisitorPhone, &a.VisitorPurpose,
		&a.CreatedAt, &a.ExpiresAt, &status, &reqType, &premiseType,
		&a.AccessCode, &a.TargetUnit, &a.IdempotencyKey, &a.RowVersion,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	a.Status = models.PassStatus(status)
	a.RequestType = models.RequestType(reqType)
	a.PremiseType = models.PremiseType(premiseType)
	return &a, nil
}

/* ───────────── in-memory implementation ───────────── */

type memoryAccessRequestRepo struct {
	t *memoryTable[*models.AccessRequest]
}

func NewMemoryAccessRequestRepository() AccessRequestRepository {
	return &memoryAccessRequestRepo{t: newMemoryTable((*models.AccessRequest).Clone)}
}

func (r *memoryAccessRequestRepo) Create(_ context.Context, a *models.AccessRequest) error {
	if a.IdempotencyKey == "" {
		return r.t.insert(a)
	}
	return r.t.insert(a, func(x *models.AccessRequest) bool { return x.IdempotencyKey == a.IdempotencyKey })
}

func (r *memoryAccessRequestRepo) GetByID(ctx context.Context, id string) (*models.AccessRequest, error) {
	return r.t.get(ctx, id)
}

func (r *memoryAccessRequestRepo) GetByIdempotencyKey(_ context.Context, key string) (*models.AccessRequest, error) {
	if key == "" {
		return nil, nil
	}
	return r.t.find(func(a *models.AccessRequest) bool { return a.IdempotencyKey == key }), nil
}

func (r *memoryAccessRequestRepo) ListAll(_ context.Context) ([]*models.AccessRequest, error) {
	return r.t.list(nil), nil
}

func (r *memoryAccessRequestRepo) ListByPremiseID(_ context.Context, premiseID string) ([]*models.AccessRequest, error) {
	return r.t.list(func(a *models.AccessRequest) bool { return a.PremiseID == premiseID }), nil
}

func (r *memoryAccessRequestRepo) ListExpirable(_ context.Context, now time.Time) ([]*models.AccessRequest, error) {
	return r.t.list(func(a *models.AccessRequest) bool {
		return a.Status.GrantsAccess() && !now.Before(a.ExpiresAt)
	}), nil
}

func (r *memoryAccessRequestRepo) UpdateIfVersion(ctx context.Context, a *models.AccessRequest, expected int64) (pgconn.CommandTag, error) {
	return r.t.updateIfVersion(ctx, a, expected)
}

func (r *memoryAccessRequestRepo) UpdateWithRetry(ctx context.Context, id string, mutate func(*models.AccessRequest) error) error {
	return WithRetry(ctx, DefaultMaxRetries, id, r.t.get, r.UpdateIfVersion, mutate)
}
