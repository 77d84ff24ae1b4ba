package repository

import (
	"context"
	"database/sql"
	"errors"
)

// MySQLBackend persists sessions in the session_entries table (see
// database.EnsureSchema).  One row per (session_id, entry_key).
type MySQLBackend struct {
	db *sql.DB
}

func NewMySQLBackend(db *sql.DB) *MySQLBackend { return &MySQLBackend{db: db} }

func (b *MySQLBackend) Scope(sessionID string) Store {
	return &mysqlStore{db: b.db, sid: sessionID}
}

func (b *MySQLBackend) Close() error { return b.db.Close() }

type mysqlStore struct {
	db  *sql.DB
	sid string
}

func (s *mysqlStore) Get(ctx context.Context, key string) (string, bool, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		"SELECT entry_value FROM session_entries WHERE session_id=? AND entry_key=? LIMIT 1",
		s.sid, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *mysqlStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session_entries (session_id, entry_key, entry_value) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE entry_value=VALUES(entry_value), updated_at=UTC_TIMESTAMP()`,
		s.sid, key, value)
	return err
}

func (s *mysqlStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM session_entries WHERE session_id=? AND entry_key=?",
		s.sid, key)
	return err
}
