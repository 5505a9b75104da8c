package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowdag/flowdag/log"
)

// Options configures one Execute call.
type Options struct {
	// ContinueOnError records a node failure in the output map as a
	// *NodeError and keeps executing later waves. The zero value halts the
	// run on the first failure, which is the default policy.
	ContinueOnError bool

	// OnProgress, if set, is called synchronously on the caller's goroutine
	// once per completed node (once per attempted node in continue mode),
	// after the node's wave has settled, in wave-then-registration order.
	// It is never called for nodes skipped because the run halted.
	OnProgress func(name string, output any)

	// Listeners receive run and node lifecycle events. Node start events
	// fire before a wave launches; completion and error events fire after
	// the wave settles, in the same deterministic order as OnProgress.
	Listeners []ExecutionListener

	// Tracer, if set, collects timing spans for the run and each node.
	Tracer *Tracer

	// Logger receives engine debug output. Defaults to the log package's
	// default logger.
	Logger log.Logger
}

// ExecutionResult is the outcome of one Execute call.
type ExecutionResult struct {
	// RunID uniquely identifies this run.
	RunID string

	// Success is true when validation passed and no halting failure
	// occurred. Failures absorbed in continue mode do not clear it.
	Success bool

	// Outputs is the terminal execution state: the initial inputs plus one
	// entry per finished node (a *NodeError for captured failures).
	Outputs State

	// NodesExecuted lists the nodes that ran, in execution order. It is
	// always consistent with a topological order of the declared edges.
	NodesExecuted []string

	// StartedAt is when the run began, before validation.
	StartedAt time.Time

	// Duration is the wall-clock time from the start of validation to the
	// end of the last processed wave.
	Duration time.Duration

	// Err holds the structural or halting failure, nil on success.
	Err error
}

// Execute validates the pipeline and runs it to completion with the default
// options: halt on the first node failure, no progress reporting.
//
// The returned error mirrors ExecutionResult.Err; the result is non-nil
// either way so callers can inspect partial outputs after a failure.
func (p *Pipeline) Execute(ctx context.Context, inputs State) (*ExecutionResult, error) {
	return p.ExecuteWithOptions(ctx, inputs, nil)
}

// ExecuteWithOptions runs the pipeline wave by wave. All nodes of a wave are
// launched concurrently against a snapshot of the state as of wave start;
// the wave is a synchronization barrier, and outputs are merged in
// registration order only after every node in the wave has settled.
//
// The context is checked at each wave boundary: a done context stops the run
// with the context's error before the next wave launches. In-flight nodes
// are never killed; a node that ignores its context stalls its own wave.
func (p *Pipeline) ExecuteWithOptions(ctx context.Context, inputs State, opts *Options) (*ExecutionResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	res := &ExecutionResult{
		RunID:     uuid.NewString(),
		Outputs:   cloneState(inputs),
		StartedAt: time.Now(),
	}

	var runSpan *TraceSpan
	if opts.Tracer != nil {
		runSpan = opts.Tracer.StartSpan(ctx, TraceEventRunStart, "")
	}
	notifyListeners(ctx, opts.Listeners, EventRunStart, "", res.Outputs, nil)

	finish := func(err error) (*ExecutionResult, error) {
		res.Duration = time.Since(res.StartedAt)
		res.Err = err
		res.Success = err == nil
		if opts.Tracer != nil {
			opts.Tracer.EndSpan(ctx, runSpan, res.Outputs, err)
		}
		notifyListeners(ctx, opts.Listeners, EventRunEnd, "", res.Outputs, err)
		if err != nil {
			logger.Error("run %s failed after %v: %v", res.RunID, res.Duration, err)
		} else {
			logger.Debug("run %s finished in %v, %d node(s) executed", res.RunID, res.Duration, len(res.NodesExecuted))
		}
		return res, err
	}

	if err := p.checkEdges(); err != nil {
		return finish(err)
	}
	levels, err := p.waves()
	if err != nil {
		return finish(err)
	}
	logger.Debug("run %s: %d node(s) in %d wave(s)", res.RunID, len(p.order), len(levels))

	for i, wave := range levels {
		if err := ctx.Err(); err != nil {
			return finish(fmt.Errorf("run stopped before wave %d: %w", i, err))
		}
		logger.Debug("run %s: wave %d: %v", res.RunID, i, wave)

		for _, name := range wave {
			notifyListeners(ctx, opts.Listeners, EventNodeStart, name, nil, nil)
		}

		outputs, failures := p.runWave(ctx, wave, res.Outputs, opts)

		// Merge in registration order so output, progress and listener
		// ordering stay reproducible no matter which goroutine won.
		for j, name := range wave {
			if failures[j] != nil {
				notifyListeners(ctx, opts.Listeners, EventNodeError, name, nil, failures[j])
				if !opts.ContinueOnError {
					return finish(fmt.Errorf("node %q execution failed: %w", name, failures[j]))
				}
				captured := &NodeError{Node: name, Message: failures[j].Error()}
				res.Outputs[name] = captured
				res.NodesExecuted = append(res.NodesExecuted, name)
				if opts.OnProgress != nil {
					opts.OnProgress(name, captured)
				}
				continue
			}
			res.Outputs[name] = outputs[j]
			res.NodesExecuted = append(res.NodesExecuted, name)
			notifyListeners(ctx, opts.Listeners, EventNodeComplete, name, outputs[j], nil)
			if opts.OnProgress != nil {
				opts.OnProgress(name, outputs[j])
			}
		}
	}

	return finish(nil)
}

// runWave launches every node of a wave concurrently against a shared
// read-only snapshot of the current state and waits for all of them to
// settle. A panic inside a node is converted into that node's failure.
func (p *Pipeline) runWave(ctx context.Context, wave []string, state State, opts *Options) ([]any, []error) {
	outputs := make([]any, len(wave))
	failures := make([]error, len(wave))
	snapshot := cloneState(state)

	var wg sync.WaitGroup
	for i, name := range wave {
		idx := i
		node := p.nodes[name]

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					failures[idx] = fmt.Errorf("panic in node %s: %v", node.Name, r)
				}
			}()

			var nodeSpan *TraceSpan
			if opts.Tracer != nil {
				nodeSpan = opts.Tracer.StartSpan(ctx, TraceEventNodeStart, node.Name)
			}

			out, err := node.Handler.Compute(ctx, snapshot)

			if opts.Tracer != nil {
				opts.Tracer.EndSpan(ctx, nodeSpan, out, err)
			}
			if err != nil {
				failures[idx] = err
				return
			}
			outputs[idx] = out
		}()
	}
	wg.Wait()

	return outputs, failures
}

// cloneState copies the top level of a state map. Values are shared; nodes
// must treat their input state as read-only.
func cloneState(s State) State {
	cloned := make(State, len(s))
	for k, v := range s {
		cloned[k] = v
	}
	return cloned
}
