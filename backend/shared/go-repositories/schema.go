package repositories

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates the gate-pass tables when they do not exist yet.
func ApplySchema(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}
