// Package sqlite stores a registration term in a SQLite database.
//
// The flat record files stay the source of truth for courses and accounts;
// the database adds what they cannot hold: rosters, waitlists and their order.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/packscheduler/internal/log"
)

// DB owns the SQLite connection pool.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the database at path and migrates it.
// An existing file is copied to path+".bak" before migrations run.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	if err := backup(path); err != nil {
		return nil, err
	}

	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)" +
		"&_pragma=journal_mode(wal)"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}

	if err := migrateUp(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug(log.CatDB, "Database ready", "path", path)
	return &DB{conn: conn, path: path}, nil
}

func backup(path string) error {
	src, err := os.Open(path) //nolint:gosec // G304: path is the configured store
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening database for backup: %w", err)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil || info.Size() == 0 {
		return nil
	}

	dst, err := os.OpenFile(path+".bak", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // G304
	if err != nil {
		return fmt.Errorf("creating database backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("writing database backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing database backup: %w", err)
	}
	log.Debug(log.CatDB, "Database backed up", "path", path+".bak", "bytes", info.Size())
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Connection returns the underlying pool.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// TermStore returns a store over this database.
func (db *DB) TermStore() *TermStore {
	return newTermStore(db.conn)
}
