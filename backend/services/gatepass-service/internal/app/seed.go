package app

import (
	"context"
	"time"

	"github.com/noid254/Qaribu-sub000/backend/shared/go-seeding"
)

// SeedTestData loads the demo premise, people and pass.
func (a *App) SeedTestData(ctx context.Context) error {
	return seeding.SeedAll(ctx, a.Repos.Persons, a.Repos.Premises, a.Repos.Passes, time.Now().UTC())
}
