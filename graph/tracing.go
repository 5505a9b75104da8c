package graph

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TraceEvent represents the span kinds recorded during execution.
type TraceEvent string

const (
	// TraceEventRunStart covers a whole pipeline run.
	TraceEventRunStart TraceEvent = "run"

	// TraceEventNodeStart covers a single node invocation.
	TraceEventNodeStart TraceEvent = "node"
)

// TraceSpan records the timing and outcome of one unit of execution.
type TraceSpan struct {
	// ID is a unique identifier for this span.
	ID string

	// Event indicates what the span covers.
	Event TraceEvent

	// NodeName is the node being executed, empty for run spans.
	NodeName string

	// StartTime is when the span began.
	StartTime time.Time

	// EndTime is when the span completed, zero while ongoing.
	EndTime time.Time

	// Duration is EndTime - StartTime, set when the span ends.
	Duration time.Duration

	// Output is the value produced, if any.
	Output any

	// Error holds the failure that ended the span, if any.
	Error error
}

// TraceHook receives spans as they complete.
type TraceHook interface {
	OnSpan(ctx context.Context, span *TraceSpan)
}

// TraceHookFunc is a function adapter for TraceHook.
type TraceHookFunc func(ctx context.Context, span *TraceSpan)

// OnSpan implements the TraceHook interface.
func (f TraceHookFunc) OnSpan(ctx context.Context, span *TraceSpan) {
	f(ctx, span)
}

// Tracer collects execution spans. Node spans start on wave goroutines, so
// all bookkeeping is mutex-guarded; hooks must tolerate concurrent calls.
type Tracer struct {
	mu    sync.Mutex
	hooks []TraceHook
	spans []*TraceSpan
}

// NewTracer creates an empty tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// AddHook registers a hook invoked for every completed span.
func (t *Tracer) AddHook(hook TraceHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook)
}

// StartSpan opens a new span.
func (t *Tracer) StartSpan(_ context.Context, event TraceEvent, nodeName string) *TraceSpan {
	return &TraceSpan{
		ID:        uuid.NewString(),
		Event:     event,
		NodeName:  nodeName,
		StartTime: time.Now(),
	}
}

// EndSpan closes a span, records it, and notifies hooks.
func (t *Tracer) EndSpan(ctx context.Context, span *TraceSpan, output any, err error) {
	if span == nil {
		return
	}
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Output = output
	span.Error = err

	t.mu.Lock()
	t.spans = append(t.spans, span)
	hooks := make([]TraceHook, len(t.hooks))
	copy(hooks, t.hooks)
	t.mu.Unlock()

	for _, h := range hooks {
		h.OnSpan(ctx, span)
	}
}

// Spans returns the completed spans in completion order.
func (t *Tracer) Spans() []*TraceSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	spans := make([]*TraceSpan, len(t.spans))
	copy(spans, t.spans)
	return spans
}
