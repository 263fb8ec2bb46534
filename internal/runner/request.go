package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/tracing"
)

var errNoCompleter = errors.New("no completer configured")

// Request sends the prompt at index and returns its outcome. Failures are
// classified into the result; Request never returns an error.
// A panicking Completer is reported as an OTHER failure for that index.
func (r *Runner) Request(ctx context.Context, index int) (res metrics.RequestResult) {
	if index < 0 || index >= len(r.opt.Prompts) {
		return metrics.NewFailure(index, "", fmt.Errorf("prompt index %d out of range", index), 0)
	}
	prompt := r.opt.Prompts[index]
	if r.opt.Completer == nil {
		return metrics.NewFailure(index, prompt, errNoCompleter, 0)
	}

	ctx = tracing.WithPromptIndex(ctx, index)
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = metrics.NewFailure(index, prompt, fmt.Errorf("completer panicked: %v", p), time.Since(start))
			res.ErrorKind = metrics.KindOther
			res.ErrorCode = 0
		}
	}()
	out, err := r.opt.Completer.Complete(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		return metrics.NewFailure(index, prompt, err, elapsed)
	}
	return metrics.NewSuccess(index, prompt, strings.TrimSpace(out.Text), elapsed, out.TotalTokens)
}
