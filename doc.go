// FlowDAG - Embeddable DAG Workflow Execution in Go
//
// FlowDAG is the execution engine behind node-editor style workflow tools:
// callers register named computation steps, declare data dependencies between
// them, and execute the resulting directed acyclic graph to completion. The
// engine provides dependency ordering, cycle detection, wave-parallel
// execution, configurable partial-failure semantics, and deterministic
// progress reporting.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/flowdag/flowdag
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/flowdag/flowdag/graph"
//	)
//
//	func main() {
//		p := graph.NewPipeline()
//
//		p.AddNode("fetch", func(ctx context.Context, state graph.State) (any, error) {
//			return map[string]any{"query": "hello"}, nil
//		})
//		p.AddNode("render", func(ctx context.Context, state graph.State) (any, error) {
//			fetched := state["fetch"].(map[string]any)
//			return "rendered: " + fetched["query"].(string), nil
//		})
//		p.AddEdge("fetch", "render")
//
//		res, err := p.Execute(context.Background(), nil)
//		if err != nil {
//			panic(err)
//		}
//		fmt.Println(res.Outputs["render"])
//	}
//
// # Packages
//
//   - graph: the pipeline model, validator, wave scheduler and executor
//   - log: leveled logging with stdlib and golog backends
//   - store: persistence of finished run records (memory, file, redis,
//     sqlite, postgres)
//
// See the examples directory for runnable demonstrations.
package flowdag
