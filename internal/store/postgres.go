package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a DocumentStore backed by a JSONB table in PostgreSQL.
// One store instance maps to one collection (table).
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// NewPostgresStore creates a document store over the named table. The table
// name must be a trusted identifier (it is interpolated into SQL).
func NewPostgresStore(pool *pgxpool.Pool, table string) *PostgresStore {
	return &PostgresStore{pool: pool, table: table}
}

// EnsureSchema creates the backing table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id         TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, s.table))
	if err != nil {
		return fmt.Errorf("failed to ensure schema for %s: %w", s.table, err)
	}
	return nil
}

// Get returns the document with the given ID, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, id string) (map[string]any, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, s.table), id,
	).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return doc, nil
}

// Merge upserts fields into the document. The merge is read-modify-write
// inside a transaction with a row lock, so the nested-map merge semantics
// match the in-memory store and concurrent merges of disjoint fields both
// land.
func (s *PostgresStore) Merge(ctx context.Context, id string, fields map[string]any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin merge for %s: %w", id, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var raw []byte
	doc := map[string]any{}
	err = tx.QueryRow(ctx,
		fmt.Sprintf(`SELECT data FROM %s WHERE id = $1 FOR UPDATE`, s.table), id,
	).Scan(&raw)
	switch err {
	case nil:
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to decode document %s: %w", id, err)
		}
	case pgx.ErrNoRows:
		// Upsert semantics: merge into a fresh document.
	default:
		return fmt.Errorf("failed to read document %s: %w", id, err)
	}

	merged, err := json.Marshal(deepMerge(doc, fields))
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	_, err = tx.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, data, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (id) DO UPDATE SET data = $2, updated_at = NOW()`, s.table),
		id, merged)
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit merge for %s: %w", id, err)
	}
	return nil
}
