package graph

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_SingleNode(t *testing.T) {
	p := NewPipeline()
	require.NoError(t, p.AddNode("single", constNode(map[string]any{"value": 42})))

	res, err := p.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, map[string]any{"value": 42}, res.Outputs["single"])
	assert.Equal(t, []string{"single"}, res.NodesExecuted)
	assert.NotEmpty(t, res.RunID)
	assert.GreaterOrEqual(t, res.Duration, time.Duration(0))
}

func TestExecute_LinearChain(t *testing.T) {
	p := NewPipeline()

	require.NoError(t, p.AddNode("input", constNode(map[string]any{"query": "hello"})))
	require.NoError(t, p.AddNode("process", func(ctx context.Context, state State) (any, error) {
		in := state["input"].(map[string]any)
		return map[string]any{"result": strings.ToUpper(in["query"].(string))}, nil
	}))
	require.NoError(t, p.AddNode("output", func(ctx context.Context, state State) (any, error) {
		processed := state["process"].(map[string]any)
		return processed["result"], nil
	}))
	p.AddEdge("input", "process")
	p.AddEdge("process", "output")

	res, err := p.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "HELLO", res.Outputs["output"])
	assert.Equal(t, []string{"input", "process", "output"}, res.NodesExecuted)
}

func buildDiamond(t *testing.T) *Pipeline {
	t.Helper()
	p := NewPipeline()

	require.NoError(t, p.AddNode("input", constNode(map[string]any{"value": 5})))
	require.NoError(t, p.AddNode("double", func(ctx context.Context, state State) (any, error) {
		in := state["input"].(map[string]any)
		return in["value"].(int) * 2, nil
	}))
	require.NoError(t, p.AddNode("triple", func(ctx context.Context, state State) (any, error) {
		in := state["input"].(map[string]any)
		return in["value"].(int) * 3, nil
	}))
	require.NoError(t, p.AddNode("sum", func(ctx context.Context, state State) (any, error) {
		return map[string]any{"total": state["double"].(int) + state["triple"].(int)}, nil
	}))
	p.AddEdge("input", "double")
	p.AddEdge("input", "triple")
	p.AddEdge("double", "sum")
	p.AddEdge("triple", "sum")

	return p
}

func TestExecute_Diamond(t *testing.T) {
	p := buildDiamond(t)

	res, err := p.Execute(context.Background(), nil)
	require.NoError(t, err)

	sum := res.Outputs["sum"].(map[string]any)
	assert.Equal(t, 25, sum["total"])
	assert.Equal(t, []string{"input", "double", "triple", "sum"}, res.NodesExecuted)
}

func TestExecute_Cycle(t *testing.T) {
	p := NewPipeline()
	addNodes(t, p, "a", "b", "c")
	p.AddEdge("a", "b")
	p.AddEdge("b", "c")
	p.AddEdge("c", "a")

	res, err := p.Execute(context.Background(), nil)
	require.Error(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Err.Error(), "cycle")
	assert.Empty(t, res.NodesExecuted)
}

func TestExecute_CycleRunsNoNodes(t *testing.T) {
	p := NewPipeline()
	ran := false
	require.NoError(t, p.AddNode("a", func(ctx context.Context, state State) (any, error) {
		ran = true
		return nil, nil
	}))
	p.AddEdge("a", "a")

	_, err := p.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrCycleDetected)
	assert.False(t, ran, "no compute function may run when validation fails")
}

func TestExecute_DanglingEdge(t *testing.T) {
	p := NewPipeline()
	addNodes(t, p, "exists")
	p.AddEdge("exists", "doesNotExist")

	res, err := p.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Err.Error(), "non-existent target node")
}

func TestExecute_InitialInputsVisible(t *testing.T) {
	p := NewPipeline()
	require.NoError(t, p.AddNode("greet", func(ctx context.Context, state State) (any, error) {
		return "hello " + state["name"].(string), nil
	}))

	res, err := p.Execute(context.Background(), State{"name": "world"})
	require.NoError(t, err)

	assert.Equal(t, "hello world", res.Outputs["greet"])
	// Initial inputs survive into the terminal state.
	assert.Equal(t, "world", res.Outputs["name"])
}

func TestExecute_DoesNotMutateCallerInputs(t *testing.T) {
	p := NewPipeline()
	require.NoError(t, p.AddNode("n", constNode(1)))

	inputs := State{"seed": 7}
	_, err := p.Execute(context.Background(), inputs)
	require.NoError(t, err)

	assert.Equal(t, State{"seed": 7}, inputs)
}

func TestExecute_HaltOnError(t *testing.T) {
	p := NewPipeline()

	require.NoError(t, p.AddNode("good", constNode("fine")))
	require.NoError(t, p.AddNode("bad", func(ctx context.Context, state State) (any, error) {
		return nil, errors.New("boom")
	}))
	require.NoError(t, p.AddNode("never", constNode("unreached")))
	p.AddEdge("good", "bad")
	p.AddEdge("bad", "never")

	res, err := p.Execute(context.Background(), nil)
	require.Error(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Err.Error(), `node "bad" execution failed`)
	assert.Contains(t, res.Err.Error(), "boom")

	// The failing node is not counted and later waves never ran.
	assert.Equal(t, []string{"good"}, res.NodesExecuted)
	assert.NotContains(t, res.Outputs, "bad")
	assert.NotContains(t, res.Outputs, "never")
}

func TestExecute_HaltReportsEarliestRegisteredFailure(t *testing.T) {
	p := NewPipeline()

	require.NoError(t, p.AddNode("first", func(ctx context.Context, state State) (any, error) {
		return nil, errors.New("first failure")
	}))
	require.NoError(t, p.AddNode("second", func(ctx context.Context, state State) (any, error) {
		return nil, errors.New("second failure")
	}))

	_, err := p.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `node "first"`)
	assert.NotContains(t, err.Error(), "second failure")
}

func TestExecute_ContinueOnError(t *testing.T) {
	p := NewPipeline()

	require.NoError(t, p.AddNode("good1", constNode(map[string]any{"value": 1})))
	require.NoError(t, p.AddNode("bad", func(ctx context.Context, state State) (any, error) {
		return nil, errors.New("boom")
	}))
	require.NoError(t, p.AddNode("good2", func(ctx context.Context, state State) (any, error) {
		return map[string]any{"value": 2}, nil
	}))
	p.AddEdge("good1", "bad")
	p.AddEdge("bad", "good2")

	res, err := p.ExecuteWithOptions(context.Background(), nil, &Options{ContinueOnError: true})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, []string{"good1", "bad", "good2"}, res.NodesExecuted)

	captured := AsNodeError(res.Outputs["bad"])
	require.NotNil(t, captured)
	assert.Equal(t, "boom", captured.Message)

	good2 := res.Outputs["good2"].(map[string]any)
	assert.Equal(t, 2, good2["value"])
}

func TestExecute_ContinueOnError_StructuralStillFatal(t *testing.T) {
	p := NewPipeline()
	addNodes(t, p, "a")
	p.AddEdge("a", "missing")

	res, err := p.ExecuteWithOptions(context.Background(), nil, &Options{ContinueOnError: true})
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.ErrorIs(t, err, ErrMissingTargetNode)
}

func TestExecute_PanicBecomesNodeFailure(t *testing.T) {
	p := NewPipeline()
	require.NoError(t, p.AddNode("panicky", func(ctx context.Context, state State) (any, error) {
		panic("oops")
	}))

	res, err := p.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Err.Error(), "panic in node panicky")
	assert.Contains(t, res.Err.Error(), "oops")
}

func TestExecute_WaveRunsConcurrently(t *testing.T) {
	p := NewPipeline()

	leftReady := make(chan struct{})
	rightReady := make(chan struct{})
	rendezvous := func(mine, theirs chan struct{}) error {
		close(mine)
		select {
		case <-theirs:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("sibling never started")
		}
	}

	require.NoError(t, p.AddNode("left", func(ctx context.Context, state State) (any, error) {
		return nil, rendezvous(leftReady, rightReady)
	}))
	require.NoError(t, p.AddNode("right", func(ctx context.Context, state State) (any, error) {
		return nil, rendezvous(rightReady, leftReady)
	}))

	// Both nodes only succeed if they overlap in time.
	res, err := p.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestExecute_WaveSeesSnapshotOfPriorWaves(t *testing.T) {
	p := NewPipeline()

	require.NoError(t, p.AddNode("first", constNode("from-first")))
	require.NoError(t, p.AddNode("second", func(ctx context.Context, state State) (any, error) {
		// A node must not see siblings of its own wave, only prior waves.
		_, sawSibling := state["third"]
		return map[string]any{"saw_first": state["first"], "saw_sibling": sawSibling}, nil
	}))
	require.NoError(t, p.AddNode("third", constNode("sibling")))
	p.AddEdge("first", "second")
	p.AddEdge("first", "third")

	res, err := p.Execute(context.Background(), nil)
	require.NoError(t, err)

	out := res.Outputs["second"].(map[string]any)
	assert.Equal(t, "from-first", out["saw_first"])
	assert.Equal(t, false, out["saw_sibling"])
}

func TestExecute_ProgressCallbackOrder(t *testing.T) {
	p := buildDiamond(t)

	var progressed []string
	_, err := p.ExecuteWithOptions(context.Background(), nil, &Options{
		OnProgress: func(name string, output any) {
			progressed = append(progressed, name)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"input", "double", "triple", "sum"}, progressed)
}

func TestExecute_ProgressSkippedAfterHalt(t *testing.T) {
	p := NewPipeline()

	require.NoError(t, p.AddNode("bad", func(ctx context.Context, state State) (any, error) {
		return nil, errors.New("boom")
	}))
	require.NoError(t, p.AddNode("after", constNode("x")))
	p.AddEdge("bad", "after")

	var progressed []string
	_, err := p.ExecuteWithOptions(context.Background(), nil, &Options{
		OnProgress: func(name string, output any) {
			progressed = append(progressed, name)
		},
	})
	require.Error(t, err)
	assert.Empty(t, progressed)
}

func TestExecute_Deterministic(t *testing.T) {
	p := buildDiamond(t)

	first, err := p.Execute(context.Background(), State{"seed": 9})
	require.NoError(t, err)
	second, err := p.Execute(context.Background(), State{"seed": 9})
	require.NoError(t, err)

	assert.Equal(t, first.Outputs, second.Outputs)
	assert.Equal(t, first.NodesExecuted, second.NodesExecuted)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestExecute_TopologicalOrderInvariant(t *testing.T) {
	p := NewPipeline()
	addNodes(t, p, "e", "d", "c", "b", "a")
	p.AddEdge("a", "b")
	p.AddEdge("b", "c")
	p.AddEdge("a", "d")
	p.AddEdge("d", "e")

	res, err := p.Execute(context.Background(), nil)
	require.NoError(t, err)

	position := make(map[string]int, len(res.NodesExecuted))
	for i, name := range res.NodesExecuted {
		position[name] = i
	}
	for _, e := range p.Edges() {
		assert.Less(t, position[e.From], position[e.To], "%s must run before %s", e.From, e.To)
	}
}

func TestExecute_ContextCancelledBetweenWaves(t *testing.T) {
	p := NewPipeline()
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, p.AddNode("first", func(ctx context.Context, state State) (any, error) {
		cancel()
		return "done", nil
	}))
	require.NoError(t, p.AddNode("second", constNode("never")))
	p.AddEdge("first", "second")

	res, err := p.Execute(ctx, nil)
	require.Error(t, err)

	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, context.Canceled)
	// The first wave completed; the second never launched.
	assert.Equal(t, []string{"first"}, res.NodesExecuted)
	assert.NotContains(t, res.Outputs, "second")
}

func TestExecute_ConcurrentRunsAreIndependent(t *testing.T) {
	p := NewPipeline()
	require.NoError(t, p.AddNode("echo", func(ctx context.Context, state State) (any, error) {
		return state["seed"], nil
	}))

	done := make(chan *ExecutionResult, 2)
	for _, seed := range []int{1, 2} {
		go func(seed int) {
			res, err := p.Execute(context.Background(), State{"seed": seed})
			assert.NoError(t, err)
			done <- res
		}(seed)
	}

	seen := map[any]bool{}
	for n := 0; n < 2; n++ {
		res := <-done
		seen[res.Outputs["echo"]] = true
	}
	assert.True(t, seen[1])
	assert.True(t, seen[2])
}
