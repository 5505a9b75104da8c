package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flowdag/flowdag/store"
)

// SqliteRunStore implements store.RunStore using SQLite.
type SqliteRunStore struct {
	db        *sql.DB
	tableName string
}

var _ store.RunStore = (*SqliteRunStore)(nil)

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "pipeline_runs"
}

// NewSqliteRunStore creates a new SQLite run store and initializes its
// schema.
func NewSqliteRunStore(opts SqliteOptions) (*SqliteRunStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "pipeline_runs"
	}

	s := &SqliteRunStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteRunStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			pipeline TEXT NOT NULL,
			success INTEGER NOT NULL,
			record TEXT NOT NULL,
			started_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_pipeline ON %s (pipeline);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteRunStore) Close() error {
	return s.db.Close()
}

// Save stores a record, replacing any record with the same ID.
func (s *SqliteRunStore) Save(ctx context.Context, rec *store.RunRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, pipeline, success, record, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.tableName)

	_, err = s.db.ExecContext(ctx, query, rec.ID, rec.Pipeline, rec.Success, payload, rec.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *SqliteRunStore) Load(ctx context.Context, id string) (*store.RunRecord, error) {
	query := fmt.Sprintf(`SELECT record FROM %s WHERE id = ?`, s.tableName)

	var payload []byte
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
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
func (s *SqliteRunStore) List(ctx context.Context, pipeline string) ([]*store.RunRecord, error) {
	query := fmt.Sprintf(`SELECT record FROM %s WHERE pipeline = ? ORDER BY started_at`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query, pipeline)
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
func (s *SqliteRunStore) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records for a pipeline name.
func (s *SqliteRunStore) Clear(ctx context.Context, pipeline string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE pipeline = ?`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, pipeline); err != nil {
		return fmt.Errorf("failed to clear runs for pipeline %s: %w", pipeline, err)
	}
	return nil
}
