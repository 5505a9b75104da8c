package store

import (
	"context"
	"errors"
	"time"

	"github.com/flowdag/flowdag/graph"
)

// ErrRunNotFound is returned by Load when no record exists for the ID.
var ErrRunNotFound = errors.New("run record not found")

// RunRecord captures the outcome of one pipeline execution in a form every
// backend can serialize.
type RunRecord struct {
	// ID is the run identifier, normally the engine's RunID.
	ID string `json:"id"`

	// Pipeline is the caller-assigned name of the executed pipeline,
	// used as the listing key.
	Pipeline string `json:"pipeline"`

	// Success reports whether the run finished without a halting failure.
	Success bool `json:"success"`

	// Outputs is the terminal execution state.
	Outputs map[string]any `json:"outputs"`

	// NodesExecuted lists the nodes that ran, in execution order.
	NodesExecuted []string `json:"nodes_executed"`

	// Duration is the wall-clock run time.
	Duration time.Duration `json:"duration_ns"`

	// Error is the structural or halting failure message, empty on success.
	Error string `json:"error,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Metadata carries caller-defined annotations.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RunStore defines the interface for run-record persistence.
type RunStore interface {
	// Save stores a record, replacing any record with the same ID.
	Save(ctx context.Context, rec *RunRecord) error

	// Load retrieves a record by run ID.
	Load(ctx context.Context, id string) (*RunRecord, error)

	// List returns all records for a pipeline name.
	List(ctx context.Context, pipeline string) ([]*RunRecord, error)

	// Delete removes a record by run ID.
	Delete(ctx context.Context, id string) error

	// Clear removes all records for a pipeline name.
	Clear(ctx context.Context, pipeline string) error
}

// RecordOf builds a RunRecord from an engine result.
func RecordOf(pipeline string, res *graph.ExecutionResult) *RunRecord {
	rec := &RunRecord{
		ID:            res.RunID,
		Pipeline:      pipeline,
		Success:       res.Success,
		Outputs:       res.Outputs,
		NodesExecuted: res.NodesExecuted,
		Duration:      res.Duration,
		StartedAt:     res.StartedAt,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}
