package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStorage keeps values in a single key/value table
type SQLiteStorage struct {
	conn *sql.DB
}

var _ StorageInterface = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens the database and creates the table if needed
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single connection serializes writers, which SQLite requires anyway
	conn.SetMaxOpenConns(1)

	s := &SQLiteStorage{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.conn.Close()
}

// Store upserts a value
func (s *SQLiteStorage) Store(ctx context.Context, key string, data []byte) error {
	query := `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
	`
	if data == nil {
		data = []byte{}
	}
	if _, err := s.conn.ExecContext(ctx, query, key, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Retrieve reads a value
func (s *SQLiteStorage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", key, err)
	}
	return data, nil
}

// Delete removes a value
func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
