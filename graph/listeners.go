package graph

import (
	"context"

	"github.com/flowdag/flowdag/log"
)

// ExecutionEvent identifies the lifecycle events emitted during a run.
type ExecutionEvent string

const (
	// EventRunStart fires once before validation.
	EventRunStart ExecutionEvent = "run_start"

	// EventRunEnd fires once when the run finishes, successfully or not.
	EventRunEnd ExecutionEvent = "run_end"

	// EventNodeStart fires for each node of a wave, in registration order,
	// before the wave launches.
	EventNodeStart ExecutionEvent = "node_start"

	// EventNodeComplete fires after a node's wave settles and its output
	// has been merged.
	EventNodeComplete ExecutionEvent = "node_complete"

	// EventNodeError fires after a node's wave settles when the node
	// failed, whether the failure halts the run or is captured.
	EventNodeError ExecutionEvent = "node_error"
)

// ExecutionListener observes run and node lifecycle events. Events are
// delivered synchronously on the executing goroutine, exactly once per
// completed or attempted node, in wave-then-registration order; nodes
// skipped by a halt produce no events.
type ExecutionListener interface {
	OnExecutionEvent(ctx context.Context, event ExecutionEvent, nodeName string, payload any, err error)
}

// ExecutionListenerFunc is a function adapter for ExecutionListener.
type ExecutionListenerFunc func(ctx context.Context, event ExecutionEvent, nodeName string, payload any, err error)

// OnExecutionEvent implements the ExecutionListener interface.
func (f ExecutionListenerFunc) OnExecutionEvent(ctx context.Context, event ExecutionEvent, nodeName string, payload any, err error) {
	f(ctx, event, nodeName, payload, err)
}

// notifyListeners delivers an event to each listener in order. A panicking
// listener is contained so it cannot take down the run.
func notifyListeners(ctx context.Context, listeners []ExecutionListener, event ExecutionEvent, nodeName string, payload any, err error) {
	for _, l := range listeners {
		func() {
			defer func() {
				_ = recover()
			}()
			l.OnExecutionEvent(ctx, event, nodeName, payload, err)
		}()
	}
}

// LoggingListener forwards execution events to a log.Logger.
type LoggingListener struct {
	logger log.Logger
}

// NewLoggingListener creates a listener that logs node completions at info
// level and failures at error level.
func NewLoggingListener(logger log.Logger) *LoggingListener {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &LoggingListener{logger: logger}
}

// OnExecutionEvent implements the ExecutionListener interface.
func (ll *LoggingListener) OnExecutionEvent(_ context.Context, event ExecutionEvent, nodeName string, _ any, err error) {
	switch event {
	case EventRunStart:
		ll.logger.Info("pipeline run started")
	case EventRunEnd:
		if err != nil {
			ll.logger.Error("pipeline run failed: %v", err)
		} else {
			ll.logger.Info("pipeline run finished")
		}
	case EventNodeStart:
		ll.logger.Debug("node %s started", nodeName)
	case EventNodeComplete:
		ll.logger.Info("node %s completed", nodeName)
	case EventNodeError:
		ll.logger.Error("node %s failed: %v", nodeName, err)
	}
}
