package runner

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/burstbench/internal/completion"
	"github.com/torosent/burstbench/internal/metrics"
)

// Mode names one execution strategy.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeConcurrent Mode = "concurrent"
)

// Completer sends one prompt and returns the model's reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (completion.Completion, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, prompt string) (completion.Completion, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (completion.Completion, error) {
	return f(ctx, prompt)
}

// Observer is notified as requests start and finish. Calls for a concurrent
// batch come from worker goroutines (RequestStarted) and from the draining
// goroutine (RequestFinished); implementations must be safe for that.
type Observer interface {
	RequestStarted(mode Mode, index, total int)
	RequestFinished(mode Mode, result metrics.RequestResult, total int)
}

type nopObserver struct{}

func (nopObserver) RequestStarted(Mode, int, int)                    {}
func (nopObserver) RequestFinished(Mode, metrics.RequestResult, int) {}

// Options configure the Runner.
type Options struct {
	Prompts   []string     // prompt list; request i uses Prompts[i]
	Requests  int          // requests per mode (0 or more than len(Prompts) means all prompts)
	Workers   int          // concurrent pool size (0 means one worker per request)
	Completer Completer    // request executor (required)
	Observer  Observer     // optional progress sink
	Tracer    trace.Tracer // optional; parent span per mode
}

func (o *Options) normalize() {
	if o.Requests <= 0 || o.Requests > len(o.Prompts) {
		o.Requests = len(o.Prompts)
	}
	if o.Workers <= 0 || o.Workers > o.Requests {
		o.Workers = o.Requests
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	if o.Tracer == nil {
		o.Tracer = noop.NewTracerProvider().Tracer("runner")
	}
}
