// Package file provides a RunStore that keeps one JSON file per run record
// under a directory. It suits single-host deployments that want records to
// survive restarts without a database.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flowdag/flowdag/store"
)

// FileRunStore implements store.RunStore on the local filesystem.
type FileRunStore struct {
	dir string

	// mu serializes writes so concurrent saves of the same run cannot
	// interleave partial files.
	mu sync.Mutex
}

var _ store.RunStore = (*FileRunStore)(nil)

// NewFileRunStore creates a store rooted at dir, creating it if missing.
func NewFileRunStore(dir string) (*FileRunStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run store directory: %w", err)
	}
	return &FileRunStore{dir: dir}, nil
}

func (s *FileRunStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save stores a record, replacing any record with the same ID.
func (s *FileRunStore) Save(_ context.Context, rec *store.RunRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("run record must have an ID")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write-then-rename so readers never observe a half-written record.
	tmp := s.path(rec.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	if err := os.Rename(tmp, s.path(rec.ID)); err != nil {
		return fmt.Errorf("failed to finalize run record: %w", err)
	}
	return nil
}

// Load retrieves a record by run ID.
func (s *FileRunStore) Load(_ context.Context, id string) (*store.RunRecord, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var rec store.RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record %s: %w", id, err)
	}
	return &rec, nil
}

// List returns all records for a pipeline name, ordered by StartedAt.
func (s *FileRunStore) List(ctx context.Context, pipeline string) ([]*store.RunRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read run store directory: %w", err)
	}

	var records []*store.RunRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := s.Load(ctx, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		if rec.Pipeline == pipeline {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

// Delete removes a record by run ID. Deleting a missing record is a no-op.
func (s *FileRunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Clear removes all records for a pipeline name.
func (s *FileRunStore) Clear(ctx context.Context, pipeline string) error {
	records, err := s.List(ctx, pipeline)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := s.Delete(ctx, rec.ID); err != nil {
			return err
		}
	}
	return nil
}
