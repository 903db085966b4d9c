package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"slices"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate applies the embedded migrations not yet recorded in
// schema_migrations, in filename order. Each migration runs in its own
// database transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var files []string

	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}

	slices.Sort(files)

	for _, name := range files {
		applied, err := apply(ctx, db, name)
		if err != nil {
			return err
		}

		if applied {
			slog.Info("applied migration", "version", name)
		}
	}

	return nil
}

func apply(ctx context.Context, db *sql.DB, name string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning migration %s: %w", name, err)
	}
	defer tx.Rollback()

	// Serializes concurrent instances starting at the same time.
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext('schema_migrations'))"); err != nil {
		return false, fmt.Errorf("locking migrations: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", name,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking migration %s: %w", name, err)
	}

	if exists {
		return false, nil
	}

	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return false, fmt.Errorf("reading migration %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return false, fmt.Errorf("executing migration %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
		return false, fmt.Errorf("recording migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing migration %s: %w", name, err)
	}

	return true, nil
}
