package migrations

import (
	"context"

	"spl-token-creator/internal/storage/postgres"
)

// RunPostgresMigrations applies the embedded run history schema.
// Every statement is idempotent so this runs on each startup.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	return applyFiles(PostgresFS, "postgres", func(_, content string) error {
		_, err := pool.Exec(ctx, content)
		return err
	})
}
