// Package store persists documentation runs in a SQLite database: the
// package index, the subclass index and the serialized document of every
// class. Each run gets its own identifier so several runs can share one
// database file.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("appclassdoc.store")

// ErrRunNotFound is returned for an unknown run identifier.
var ErrRunNotFound = errors.New("run not found")

const schemaVersion = 1

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		root        TEXT NOT NULL,
		started_at  TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		classes     INTEGER NOT NULL,
		failures    INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS packages (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		name   TEXT NOT NULL,
		level  INTEGER NOT NULL,
		PRIMARY KEY (run_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		fqn         TEXT NOT NULL,
		package     TEXT NOT NULL,
		name        TEXT NOT NULL,
		kind        TEXT NOT NULL,
		abstract    INTEGER NOT NULL,
		source_file TEXT NOT NULL,
		summary     TEXT NOT NULL,
		document    TEXT NOT NULL,
		PRIMARY KEY (run_id, fqn)
	)`,
	`CREATE TABLE IF NOT EXISTS subclasses (
		run_id  TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		parent  TEXT NOT NULL,
		package TEXT NOT NULL,
		name    TEXT NOT NULL,
		kind    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_subclasses_parent ON subclasses(run_id, parent)`,
	`CREATE INDEX IF NOT EXISTS idx_classes_package ON classes(run_id, package)`,
}

type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the database at path and brings its schema up to
// date.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating directory for %s", path)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	conn.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "setting %q", pragma)
		}
	}

	s := &Store{conn: conn, path: path}
	if err := s.initSchema(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	log.Debugf("opened %s", path)
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return errors.Wrap(err, "creating schema")
			}
		}

		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
			return errors.Wrap(err, "reading schema version")
		}
		if count == 0 {
			if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
				return errors.Wrap(err, "writing schema version")
			}
		}
		return nil
	})
}

// SchemaVersion returns the schema version recorded in the database.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := s.conn.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err != nil {
		return 0, errors.Wrap(err, "reading schema version")
	}
	return version, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// WithTx runs fn in a transaction, rolling back when fn fails or panics.
func (s *Store) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Errorf("rollback failed: %s", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}
