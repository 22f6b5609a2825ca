package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PostgresStore keeps blobs in a JSONB column, so only JSON documents can be stored.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRow(ctx, "SELECT value::text FROM blob_store WHERE key = $1", key).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		log.Errorf("failed to read %s: %v", key, err)
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return blob, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, blob []byte) error {
	query := `INSERT INTO blob_store (key, value, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.Exec(ctx, query, key, string(blob)); err != nil {
		log.Errorf("failed to write %s: %v", key, err)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
