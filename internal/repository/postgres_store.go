package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore keeps each namespace blob in a single-row-per-namespace
// table. The whole-collection blob semantics are the same as the other
// backends; Postgres only adds durability.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the blob table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS habit_blobs (
		namespace TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure blob schema: %w", err)
	}
	return nil
}

// Load reads the blob for a namespace. A missing row is not an error.
func (s *PostgresStore) Load(ctx context.Context, namespace string) ([]byte, bool, error) {
	const query = `SELECT payload FROM habit_blobs WHERE namespace = $1`
	var payload []byte
	if err := s.db.GetContext(ctx, &payload, query, namespace); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load blob %s: %w", namespace, err)
	}
	return payload, true, nil
}

// Save upserts the namespace blob.
func (s *PostgresStore) Save(ctx context.Context, namespace string, payload []byte) error {
	const query = `INSERT INTO habit_blobs (namespace, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, namespace, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save blob %s: %w", namespace, err)
	}
	return nil
}

// Delete removes the namespace blob.
func (s *PostgresStore) Delete(ctx context.Context, namespace string) error {
	const query = `DELETE FROM habit_blobs WHERE namespace = $1`
	if _, err := s.db.ExecContext(ctx, query, namespace); err != nil {
		return fmt.Errorf("delete blob %s: %w", namespace, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
