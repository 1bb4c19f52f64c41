package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	migrationLockID = 4420117
	upSuffix        = ".up.sql"
	downSuffix      = ".down.sql"
)

// MigrateUp applies every pending *.up.sql migration in lexicographic order
// and records it in schema_migrations. q should be a single connection
// (pgxpool.Conn or pgx.Conn) so the session advisory lock is held throughout.
func MigrateUp(ctx context.Context, q Querier) error {
	return withMigrationLock(ctx, q, func() error {
		names, err := migrationNames(upSuffix)
		if err != nil {
			return err
		}
		applied, err := appliedMigrations(ctx, q)
		if err != nil {
			return err
		}

		for _, name := range names {
			version := strings.TrimSuffix(name, upSuffix)
			if applied[version] {
				continue
			}
			if err := execMigration(ctx, q, name); err != nil {
				return err
			}
			if _, err := q.Exec(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES ($1, now())",
				version,
			); err != nil {
				return fmt.Errorf("record migration %s: %w", version, err)
			}
			slog.Info("migration applied", "version", version)
		}
		return nil
	})
}

// MigrateDown reverts the most recently applied migration. It is a no-op
// when nothing has been applied.
func MigrateDown(ctx context.Context, q Querier) error {
	return withMigrationLock(ctx, q, func() error {
		applied, err := appliedMigrations(ctx, q)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			slog.Info("no migrations to revert")
			return nil
		}

		versions := make([]string, 0, len(applied))
		for v := range applied {
			versions = append(versions, v)
		}
		sort.Strings(versions)
		last := versions[len(versions)-1]

		if err := execMigration(ctx, q, last+downSuffix); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, "DELETE FROM schema_migrations WHERE version = $1", last); err != nil {
			return fmt.Errorf("unrecord migration %s: %w", last, err)
		}
		slog.Info("migration reverted", "version", last)
		return nil
	})
}

func withMigrationLock(ctx context.Context, q Querier, fn func() error) error {
	if _, err := q.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if _, err := q.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			slog.Warn("release migration lock", "error", err)
		}
	}()

	if _, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	return fn()
}

func migrationNames(suffix string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func execMigration(ctx context.Context, q Querier, name string) error {
	data, err := migrationFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := q.Exec(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}

func appliedMigrations(ctx context.Context, q Querier) (map[string]bool, error) {
	rows, err := q.Query(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration row: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
