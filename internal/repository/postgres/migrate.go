// internal/repository/postgres/migrate.go
package postgres

import (
	"context"
	"embed"
	"fmt"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// advisory lock key guarding concurrent migrators
const migrationLockKey = 7421001

// Migrate applies any pending SQL files under migrations/ in filename order.
// Applied filenames are tracked in schema_migrations; an advisory lock keeps
// concurrently starting instances from racing each other.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("failed to take migration lock: %w", err)
	}
	defer db.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockKey)

	if _, err := db.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename   TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}

	applied := map[string]bool{}
	rows, err := db.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate migrations: %w", err)
	}

	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if applied[e.Name()] {
			continue
		}
		sqlBytes, err := migrationFS.ReadFile("migrations/" + e.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		if _, err := db.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", e.Name(), err)
		}
		if _, err := db.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", e.Name()); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", e.Name(), err)
		}
	}

	return nil
}
