// Package graph implements the DAG workflow execution engine at the heart of
// FlowDAG.
//
// Callers register named computation steps on a Pipeline, declare
// data-dependency edges between them, and execute the resulting directed
// acyclic graph. The engine validates referential integrity and acyclicity,
// groups nodes into dependency "waves" with a level-based topological sort,
// runs each wave's nodes concurrently, and merges outputs into a shared
// execution state keyed by node name.
//
// # Building a pipeline
//
//	p := graph.NewPipeline()
//
//	p.AddNode("input", func(ctx context.Context, state graph.State) (any, error) {
//		return map[string]any{"value": 5}, nil
//	})
//	p.AddNode("double", func(ctx context.Context, state graph.State) (any, error) {
//		in := state["input"].(map[string]any)
//		return in["value"].(int) * 2, nil
//	})
//	p.AddEdge("input", "double")
//
// Edges may reference nodes that are not registered yet; validity is checked
// once per Execute call, before any node runs.
//
// # Executing
//
//	res, err := p.Execute(context.Background(), graph.State{"seed": 1})
//
// All nodes of a wave run concurrently against a read-only snapshot of the
// state as of wave start; the engine waits for the whole wave to settle
// before the next wave launches. Each node's output lands under its own name
// in res.Outputs, and res.NodesExecuted is always a valid topological order
// of the declared edges.
//
// # Failure policy
//
// By default the first node failure halts the run. With
// Options.ContinueOnError the failure is captured as a *NodeError under the
// node's key and later waves run as usual:
//
//	res, _ := p.ExecuteWithOptions(ctx, nil, &graph.Options{ContinueOnError: true})
//	if ne := graph.AsNodeError(res.Outputs["flaky"]); ne != nil {
//		// inspect ne.Message
//	}
//
// # Observability
//
// Options accepts a bare progress callback, ExecutionListener
// implementations for lifecycle events, a Tracer for timing spans, and a
// log.Logger for engine debug output. Event ordering is deterministic:
// wave order first, registration order within a wave.
package graph
