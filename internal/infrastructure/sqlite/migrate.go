package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/zjrosen/packscheduler/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationSource opens the embedded migrations as a golang-migrate source.
func migrationSource() (source.Driver, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}
	return src, nil
}

// migrateUp applies every up migration newer than the recorded version.
// Each migration runs in its own transaction together with its version bump.
func migrateUp(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		dirty INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	current, err := currentVersion(conn)
	if err != nil {
		return err
	}

	src, err := migrationSource()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	version, err := src.First()
	for err == nil {
		if version > current {
			if err := apply(conn, src, version); err != nil {
				return err
			}
		}
		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading migrations: %w", err)
	}
	return nil
}

func currentVersion(conn *sql.DB) (uint, error) {
	var version sql.NullInt64
	var dirty bool
	err := conn.QueryRow(`SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("schema version %d is dirty", version.Int64)
	}
	return uint(version.Int64), nil
}

func apply(conn *sql.DB, src source.Driver, version uint) error {
	r, identifier, err := src.ReadUp(version)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}
	body, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return fmt.Errorf("reading migration %d: %w", version, err)
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration %d: %w", version, err)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("applying migration %d (%s): %w", version, identifier, err)
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO schema_migrations (version, dirty) VALUES (?, 0)`, version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %d: %w", version, err)
	}
	log.Info(log.CatDB, "Migration applied", "version", version, "name", identifier)
	return nil
}
