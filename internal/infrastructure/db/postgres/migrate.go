package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

var requiredTables = []string{"users", "transactions"}

// EnsureSchema creates the users and transactions tables when they are missing.
// The statements are idempotent. Only call it for development databases; managed
// deployments apply schema changes out of band.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("postgres: pool is not initialized")
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: apply schema: %w", err)
	}

	ok, err := HasSchema(ctx, pool)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("postgres: schema incomplete after sync")
	}
	return nil
}

// HasSchema reports whether every table the service needs exists.
func HasSchema(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var count int
	err := pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("postgres: check tables: %w", err)
	}
	return count == len(requiredTables), nil
}
