package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flowdag/flowdag/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRunStore implements store.RunStore using PostgreSQL.
type PostgresRunStore struct {
	pool      DBPool
	tableName string
}

var _ store.RunStore = (*PostgresRunStore)(nil)

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "pipeline_runs"
}

// NewPostgresRunStore creates a new Postgres run store.
func NewPostgresRunStore(ctx context.Context, opts PostgresOptions) (*PostgresRunStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "pipeline_runs"
	}

	return &PostgresRunStore{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// NewPostgresRunStoreWithPool creates a new Postgres run store with an
// existing pool. Useful for testing with mocks.
func NewPostgresRunStoreWithPool(pool DBPool, tableName string) *PostgresRunStore {
	if tableName == "" {
		tableName = "pipeline_runs"
	}
	return &PostgresRunStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			pipeline TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			record JSONB NOT NULL,
			started_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_pipeline ON %s (pipeline);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresRunStore) Close() {
	s.pool.Close()
}

// Save stores a record, replacing any record with the same ID.
func (s *PostgresRunStore) Save(ctx context.Context, rec *store.RunRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, pipeline, success, record, started_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			pipeline = EXCLUDED.pipeline,
			success = EXCLUDED.success,
			record = EXCLUDED.record,
			started_at = EXCLUDED.started_at
	`, s.tableName)

	if _, err := s.pool.Exec(ctx, query, rec.ID, rec.Pipeline, rec.Success, payload, rec.StartedAt); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *PostgresRunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	query := fmt.Sprintf(`SELECT record FROM %s WHERE id = $1`, s.tableName)

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, id).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run record: %w", err)
	}

	var rec store.RunRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &rec, nil
}

// List returns all records for a pipeline name, ordered by start time.
func (s *PostgresRunStore) List(ctx context.Context, pipeline string) ([]*store.RunRecord, error) {
	query := fmt.Sprintf(`SELECT record FROM %s WHERE pipeline = $1 ORDER BY started_at`, s.tableName)

	rows, err := s.pool.Query(ctx, query, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for pipeline %s: %w", pipeline, err)
	}
	defer rows.Close()

	var records []*store.RunRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		var rec store.RunRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Delete removes a record by run ID.
func (s *PostgresRunStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records for a pipeline name.
func (s *PostgresRunStore) Clear(ctx context.Context, pipeline string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE pipeline = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, pipeline); err != nil {
		return fmt.Errorf("failed to clear runs for pipeline %s: %w", pipeline, err)
	}
	return nil
}
