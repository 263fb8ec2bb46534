package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/tracing"
)

// ErrInterrupted is returned when the run context is canceled mid-batch.
// Partial results are discarded.
var ErrInterrupted = errors.New("run interrupted")

// Runner executes one batch of requests per mode.
type Runner struct {
	opt Options
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt}
}

// Requests returns the batch size.
func (r *Runner) Requests() int {
	return r.opt.Requests
}

// Workers returns the concurrent pool size.
func (r *Runner) Workers() int {
	return r.opt.Workers
}

// Sequential sends requests 0..N-1 one at a time, in order.
func (r *Runner) Sequential(ctx context.Context) (report ModeReport, err error) {
	n := r.opt.Requests
	ctx, span := tracing.StartModeSpan(ctx, r.opt.Tracer, string(ModeSequential), n, 1)
	defer func() { tracing.EndSpan(span, err) }()

	results := make([]metrics.RequestResult, 0, n)
	start := time.Now()
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			return ModeReport{}, interrupted(ctx)
		}
		r.opt.Observer.RequestStarted(ModeSequential, i, n)
		res := r.Request(ctx, i)
		if ctx.Err() != nil {
			return ModeReport{}, interrupted(ctx)
		}
		r.opt.Observer.RequestFinished(ModeSequential, res, n)
		results = append(results, res)
	}
	elapsed := time.Since(start)

	return newModeReport(ModeSequential, elapsed, 1, results, nil), nil
}

// Concurrent dispatches all N requests to the worker pool at once and collects
// results in completion order. The returned results are sorted by index.
func (r *Runner) Concurrent(ctx context.Context) (report ModeReport, err error) {
	n, workers := r.opt.Requests, r.opt.Workers
	ctx, span := tracing.StartModeSpan(ctx, r.opt.Tracer, string(ModeConcurrent), n, workers)
	defer func() { tracing.EndSpan(span, err) }()

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	done := make(chan metrics.RequestResult, n)
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				r.opt.Observer.RequestStarted(ModeConcurrent, idx, n)
				done <- r.Request(ctx, idx)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	results := make([]metrics.RequestResult, 0, n)
	offsets := make([]time.Duration, 0, n)
	for res := range done {
		offset := time.Since(start)
		res = res.WithCompletion(offset)
		if ctx.Err() == nil {
			r.opt.Observer.RequestFinished(ModeConcurrent, res, n)
		}
		results = append(results, res)
		offsets = append(offsets, offset)
	}
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return ModeReport{}, interrupted(ctx)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return newModeReport(ModeConcurrent, elapsed, workers, results, metrics.NewSpread(offsets)), nil
}

func interrupted(ctx context.Context) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
}
