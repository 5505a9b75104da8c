package graph

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNode is returned by AddNode when the name is already
	// registered.
	ErrDuplicateNode = errors.New("node already registered")

	// ErrMissingSourceNode is reported when an edge originates from an
	// unregistered node.
	ErrMissingSourceNode = errors.New("non-existent source node")

	// ErrMissingTargetNode is reported when an edge points to an
	// unregistered node.
	ErrMissingTargetNode = errors.New("non-existent target node")

	// ErrCycleDetected is reported when the dependency graph contains a
	// cycle, including a node with an edge to itself.
	ErrCycleDetected = errors.New("dependency cycle detected in graph")
)

// NodeError is a node failure captured as data. In continue-on-error mode
// the executor stores a *NodeError under the failed node's key so downstream
// nodes and callers can inspect it instead of the run halting.
type NodeError struct {
	// Node is the name of the node that failed.
	Node string

	// Message is the underlying failure message.
	Message string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q execution failed: %s", e.Node, e.Message)
}

// MarshalJSON renders the record in the {"error": message} shape the
// surrounding platform expects in serialized outputs.
func (e *NodeError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"error": e.Message})
}

// AsNodeError unwraps a captured node failure from an output value.
// It returns nil when the value is not a failure record.
func AsNodeError(v any) *NodeError {
	if ne, ok := v.(*NodeError); ok {
		return ne
	}
	return nil
}
