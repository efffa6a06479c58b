// kvstore/sqlite_store.go

package kvstore

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key         TEXT PRIMARY KEY,
	value       TEXT NOT NULL,
	updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
`

const sqliteUpsert = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

// SQLiteStore keeps values in a single-file SQLite database, the usual
// durable store for a client-side process.
type SQLiteStore struct {
	db   *sql.DB
	path string
	log  logrus.FieldLogger
}

// NewSQLiteStore opens (creating if needed) the database at path.
// The schema is created by Initialize.
func NewSQLiteStore(path string, log logrus.FieldLogger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("kvstore: sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "kvstore: create sqlite dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "kvstore: open sqlite %s", path)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	return &SQLiteStore{
		db:   db,
		path: path,
		log:  loggerOrDefault(log).WithFields(logrus.Fields{"kvstore": "sqlite", "path": path}),
	}, nil
}

// Initialize creates the kv table.
func (s *SQLiteStore) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return errors.Wrap(err, "kvstore: sqlite busy_timeout")
	}
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return errors.Wrap(err, "kvstore: sqlite schema")
	}
	s.log.Info("SQLiteStore initialized")
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "sqlite get %s", key)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, sqliteUpsert, key, value); err != nil {
		return errors.Wrapf(err, "sqlite set %s", key)
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) bool {
	if err := s.db.PingContext(ctx); err != nil {
		s.log.WithError(err).Debug("SQLiteStore: ping failed")
		return false
	}
	return true
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
