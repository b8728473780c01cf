package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps lists in a SQLite database, one row per name.
type SQLiteStore struct {
	db   *sql.DB
	path string
	name string
}

// OpenSQLite opens the database at path, creating the schema if needed,
// and returns a store for the list called name.
func OpenSQLite(ctx context.Context, path, name string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path, name: name}, nil
}

// Name returns the database path and list name, e.g. "todo.db#default".
func (s *SQLiteStore) Name() string { return s.path + "#" + s.name }

// Read returns the stored payload, or nil if the list has never been
// written.
func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM todolists WHERE name = ?", s.name).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Name(), err)
	}
	return payload, nil
}

// Write stores data, replacing any previous payload.
func (s *SQLiteStore) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO todolists (name, payload, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.name, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("write %s: %w", s.Name(), err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
