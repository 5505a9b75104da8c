package graph

import (
	"context"
	"fmt"
)

// State is the accumulating execution state passed to every compute
// function: the caller-supplied initial inputs plus one entry per finished
// node, keyed by node name.
type State = map[string]any

// Handler is the unit of work a node wraps. The engine treats it as opaque
// beyond its returned value and error.
type Handler interface {
	Compute(ctx context.Context, state State) (any, error)
}

// ComputeFunc is a function adapter for Handler.
type ComputeFunc func(ctx context.Context, state State) (any, error)

// Compute implements the Handler interface.
func (f ComputeFunc) Compute(ctx context.Context, state State) (any, error) {
	return f(ctx, state)
}

// Node represents a registered computation step.
type Node struct {
	// Name is the unique identifier for the node.
	Name string

	// Handler is the computation associated with the node.
	Handler Handler
}

// Edge represents a dependency between two nodes: To depends on From.
type Edge struct {
	// From is the name of the node whose output the edge provides.
	From string

	// To is the name of the node that consumes it.
	To string
}

// Pipeline holds the registered nodes and declared edges of one workflow
// graph. It is pure bookkeeping: edges may name unregistered nodes and the
// graph may be cyclic until Execute validates it.
//
// A Pipeline is read-only during execution, so concurrent Execute calls
// against the same Pipeline are safe. Registration calls are not safe
// concurrently with each other or with Execute.
type Pipeline struct {
	nodes map[string]Node

	// order records registration order; it drives wave ordering and
	// progress-callback ordering so runs are reproducible.
	order []string

	edges []Edge
}

// NewPipeline creates an empty Pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{
		nodes: make(map[string]Node),
	}
}

// AddNode registers a compute function under name. Registering a name twice
// returns an error wrapping ErrDuplicateNode and leaves the pipeline
// unchanged.
func (p *Pipeline) AddNode(name string, fn ComputeFunc) error {
	return p.AddNodeHandler(name, fn)
}

// AddNodeHandler registers a Handler under name. It is the interface-based
// form of AddNode.
func (p *Pipeline) AddNodeHandler(name string, h Handler) error {
	if _, ok := p.nodes[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	p.nodes[name] = Node{Name: name, Handler: h}
	p.order = append(p.order, name)
	return nil
}

// AddEdge declares that to depends on from. Endpoints are not checked here;
// referential integrity is validated lazily when Execute runs. Duplicate
// edges are harmless.
func (p *Pipeline) AddEdge(from, to string) {
	p.edges = append(p.edges, Edge{From: from, To: to})
}

// HasNode reports whether a node is registered under name.
func (p *Pipeline) HasNode(name string) bool {
	_, ok := p.nodes[name]
	return ok
}

// NodeCount returns the number of registered nodes.
func (p *Pipeline) NodeCount() int {
	return len(p.nodes)
}

// EdgeCount returns the number of declared edges, duplicates included.
func (p *Pipeline) EdgeCount() int {
	return len(p.edges)
}

// NodeNames returns the registered node names in registration order.
func (p *Pipeline) NodeNames() []string {
	names := make([]string, len(p.order))
	copy(names, p.order)
	return names
}

// Edges returns a copy of the declared edges in declaration order.
func (p *Pipeline) Edges() []Edge {
	edges := make([]Edge, len(p.edges))
	copy(edges, p.edges)
	return edges
}

// Clear discards all nodes and edges, returning the pipeline to its initial
// state for reuse.
func (p *Pipeline) Clear() {
	p.nodes = make(map[string]Node)
	p.order = nil
	p.edges = nil
}
