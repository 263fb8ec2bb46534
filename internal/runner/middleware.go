package runner

import (
	"context"

	"github.com/torosent/burstbench/internal/completion"
)

// FailureLogger logs failed requests.
type FailureLogger interface {
	LogFailure(prompt string, err error)
}

// loggingCompleter wraps a Completer with failure logging.
type loggingCompleter struct {
	inner  Completer
	logger FailureLogger
}

// WithLogging wraps a Completer to log failures.
func WithLogging(c Completer, logger FailureLogger) Completer {
	if logger == nil {
		return c
	}
	return &loggingCompleter{
		inner:  c,
		logger: logger,
	}
}

func (l *loggingCompleter) Complete(ctx context.Context, prompt string) (completion.Completion, error) {
	out, err := l.inner.Complete(ctx, prompt)
	if err != nil && ctx.Err() == nil {
		l.logger.LogFailure(prompt, err)
	}
	return out, err
}
