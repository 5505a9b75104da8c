// Package memory provides an in-memory RunStore for tests and
// single-process deployments. Records are lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/flowdag/flowdag/store"
)

// MemoryRunStore implements store.RunStore with a mutex-guarded map.
type MemoryRunStore struct {
	mu      sync.RWMutex
	records map[string]*store.RunRecord

	// byPipeline indexes run IDs per pipeline name, in save order.
	byPipeline map[string][]string
}

var _ store.RunStore = (*MemoryRunStore)(nil)

// NewMemoryRunStore creates an empty in-memory run store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		records:    make(map[string]*store.RunRecord),
		byPipeline: make(map[string][]string),
	}
}

// Save stores a record, replacing any record with the same ID.
func (s *MemoryRunStore) Save(_ context.Context, rec *store.RunRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("run record must have an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; !exists {
		s.byPipeline[rec.Pipeline] = append(s.byPipeline[rec.Pipeline], rec.ID)
	}
	s.records[rec.ID] = rec
	return nil
}

// Load retrieves a record by run ID. The returned record is a copy;
// mutating it does not touch the stored one.
func (s *MemoryRunStore) Load(_ context.Context, id string) (*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrRunNotFound, id)
	}
	return copyRecord(rec), nil
}

// List returns all records for a pipeline, in save order. The returned
// records are copies, as with Load.
func (s *MemoryRunStore) List(_ context.Context, pipeline string) ([]*store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byPipeline[pipeline]
	records := make([]*store.RunRecord, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.records[id]; ok {
			records = append(records, copyRecord(rec))
		}
	}
	return records, nil
}

// copyRecord shallow-copies a record so callers cannot mutate stored state
// through a returned pointer. Values inside Outputs and Metadata are shared.
func copyRecord(rec *store.RunRecord) *store.RunRecord {
	c := *rec
	if rec.Outputs != nil {
		c.Outputs = make(map[string]any, len(rec.Outputs))
		for k, v := range rec.Outputs {
			c.Outputs[k] = v
		}
	}
	if rec.NodesExecuted != nil {
		c.NodesExecuted = append([]string(nil), rec.NodesExecuted...)
	}
	if rec.Metadata != nil {
		c.Metadata = make(map[string]any, len(rec.Metadata))
		for k, v := range rec.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// Delete removes a record by run ID. Deleting a missing record is a no-op.
func (s *MemoryRunStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil
	}
	delete(s.records, id)

	ids := s.byPipeline[rec.Pipeline]
	for i, rid := range ids {
		if rid == id {
			s.byPipeline[rec.Pipeline] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all records for a pipeline name.
func (s *MemoryRunStore) Clear(_ context.Context, pipeline string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.byPipeline[pipeline] {
		delete(s.records, id)
	}
	delete(s.byPipeline, pipeline)
	return nil
}
