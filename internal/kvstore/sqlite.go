package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type sqliteStore struct {
	db        *sql.DB
	namespace string
}

// NewSQLiteStore stores values in the kv table created by database.InitDB.
func NewSQLiteStore(db *sql.DB, namespace string) Store {
	return &sqliteStore{db: db, namespace: namespace}
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := namespaced(s.namespace, key)
	if err != nil {
		return nil, false, err
	}

	var value string
	err = s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", k).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("could not read key %q: %w", k, err)
	}
	return []byte(value), true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key string, value []byte) error {
	k, err := namespaced(s.namespace, key)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, k, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("could not write key %q: %w", k, err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	k, err := namespaced(s.namespace, key)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", k); err != nil {
		return fmt.Errorf("could not delete key %q: %w", k, err)
	}
	return nil
}
