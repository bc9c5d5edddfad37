package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-models"
	"github.com/noid254/Qaribu-sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryMissingRow(t *testing.T) {
	get := func(context.Context, string) (*models.Person, error) { return nil, nil }
	update := func(context.Context, *models.Person, int64) (pgconn.CommandTag, error) {
		t.Fatal("update must not run for a missing row")
		return nil, nil
	}
	err := WithRetry(context.Background(), DefaultMaxRetries, "x", get, update, func(*models.Person) error { return nil })
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestWithRetryMutateErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	get := func(context.Context, string) (*models.Person, error) { return &models.Person{ID: "x"}, nil }
	calls := 0
	update := func(context.Context, *models.Person, int64) (pgconn.CommandTag, error) {
		calls++
		return tagUpdated, nil
	}
	err := WithRetry(context.Background(), DefaultMaxRetries, "x", get, update, func(*models.Person) error { return boom })
	assert.Same(t, boom, err)
	assert.Zero(t, calls)
}

func TestWithRetryGivesUpUnderContention(t *testing.T) {
	reads := 0
	get := func(context.Context, string) (*models.Person, error) {
		reads++
		return &models.Person{ID: "x"}, nil
	}
	update := func(context.Context, *models.Person, int64) (pgconn.CommandTag, error) {
		return tagMissed, nil
	}
	err := WithRetry(context.Background(), DefaultMaxRetries, "x", get, update, func(*models.Person) error { return nil })
	assert.ErrorIs(t, err, utils.ErrRowVersionConflict)
	assert.Equal(t, DefaultMaxRetries, reads)
}

func TestMemoryUpdateIfVersionIsCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPersonRepository()
	p := &models.Person{ID: "p1", Name: "Amina", Phone: "+254700000001"}
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, int64(1), p.RowVersion)

	a, _ := repo.GetByID(ctx, "p1")
	b, _ := repo.GetByID(ctx, "p1")

	a.Name = "Amina W."
	tag, err := repo.UpdateIfVersion(ctx, a, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tag.RowsAffected())

	b.Name = "Stale"
	tag, err = repo.UpdateIfVersion(ctx, b, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tag.RowsAffected())

	got, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, "Amina W.", got.Name)
	assert.Equal(t, int64(2), got.RowVersion)
}

func TestMemoryUpdateWithRetryRecoversFromOneConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPremiseRepository()
	require.NoError(t, repo.Create(ctx, &models.Premise{ID: "p1", Name: "Ngong Court"}))

	raced := false
	err := repo.UpdateWithRetry(ctx, "p1", func(p *models.Premise) error {
		if !raced {
			raced = true
			other, _ := repo.GetByID(ctx, "p1")
			other.AddTenant("t0")
			require.NoError(t, repo.Update(ctx, other))
		}
		p.AddTenant("t1")
		return nil
	})
	require.NoError(t, err)

	got, _ := repo.GetByID(ctx, "p1")
	assert.ElementsMatch(t, []string{"t0", "t1"}, got.Tenants)
	assert.Equal(t, int64(3), got.RowVersion)
}

func TestMemoryRowsAreIsolatedFromCallers(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPremiseRepository()
	p := &models.Premise{ID: "p1", Vacancies: []models.Unit{{ID: "u1", UnitNumber: "1"}}}
	require.NoError(t, repo.Create(ctx, p))

	p.Vacancies[0].UnitNumber = "changed"
	got, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, "1", got.Vacancies[0].UnitNumber)

	got.Vacancies[0].UnitNumber = "changed again"
	again, _ := repo.GetByID(ctx, "p1")
	assert.Equal(t, "1", again.Vacancies[0].UnitNumber)
}
