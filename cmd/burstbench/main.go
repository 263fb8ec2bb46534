package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/torosent/burstbench/internal/auth"
	"github.com/torosent/burstbench/internal/compare"
	"github.com/torosent/burstbench/internal/completion"
	"github.com/torosent/burstbench/internal/config"
	"github.com/torosent/burstbench/internal/httpclient"
	"github.com/torosent/burstbench/internal/output"
	"github.com/torosent/burstbench/internal/runner"
	"github.com/torosent/burstbench/internal/tracing"
)

const (
	artifactLockTimeout = 10 * time.Second
	tracingFlushTimeout = 5 * time.Second

	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, runner.ErrInterrupted) {
			os.Exit(exitInterrupted)
		}
		os.Exit(exitFailure)
	}
}

// run loads configuration and executes one benchmark. Every error it returns
// has already been reported on stdout or stderr.
func run(args []string, stdout, stderr io.Writer) error {
	cfg, err := config.NewLoader().Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return execute(ctx, cfg, stdout, stderr)
}

func execute(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) (err error) {
	logger := newLogger(stderr, cfg.LogLevel)

	// Keep stdout machine-readable when it carries the JSON document.
	consoleOut := stdout
	if cfg.JSONOutput {
		consoleOut = stderr
	}
	console := output.NewConsole(consoleOut)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			console.Failed(err)
			logger.Error("run panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	console.Banner(output.RunInfo{
		Requests:        cfg.Requests,
		Workers:         cfg.Workers,
		Model:           cfg.Model,
		MaxTokens:       cfg.MaxTokens,
		BaseURL:         cfg.BaseURL,
		CredentialFound: cfg.CredentialFound(),
	})
	if err := cfg.RequireCredential(); err != nil {
		console.MissingCredential(cfg.APIKeyEnv)
		return err
	}

	startedAt := time.Now()
	runID := output.NewRunID(startedAt)

	tp, err := tracing.Init(ctx, cfg.Tracing,
		tracing.AttrRunID.String(runID),
		tracing.AttrRequestModel.String(cfg.Model),
	)
	if err != nil {
		return reportFailure(console, logger, err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), tracingFlushTimeout)
		defer cancel()
		if shutdownErr := tp.Shutdown(flushCtx); shutdownErr != nil {
			logger.Warn("tracing shutdown failed", "error", shutdownErr)
		}
	}()

	provider := auth.NewAPIKeyProvider(cfg.APIKey, cfg.AuthHeader)
	defer provider.Close()

	client, err := completion.New(
		httpclient.NewClient(cfg.Timeout, cfg.EffectiveWorkers()),
		cfg.BaseURL,
		completion.Params{
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			SystemPrompt: cfg.SystemPrompt,
		},
		completion.WithAuth(provider),
		completion.WithHeaders(cfg.Headers),
		completion.WithTracing(tp),
	)
	if err != nil {
		return reportFailure(console, logger, err)
	}

	var completer runner.Completer = client
	if cfg.LogErrors {
		completer = runner.WithLogging(completer, &slogFailureLogger{logger: logger})
	}

	r := runner.New(runner.Options{
		Prompts:   cfg.Prompts,
		Requests:  cfg.Requests,
		Workers:   cfg.Workers,
		Completer: completer,
		Observer:  console,
		Tracer:    tp.Tracer(),
	})

	logger.Debug("starting benchmark",
		"run_id", runID,
		"endpoint", client.Endpoint(),
		"api_key", provider.Masked(),
		"requests", r.Requests(),
		"workers", r.Workers(),
		"tracing", tp.Enabled(),
	)

	console.ModeHeader(runner.ModeSequential, r.Requests())
	seq, err := r.Sequential(ctx)
	if err != nil {
		return reportFailure(console, logger, err)
	}
	console.ModeSummary(seq)

	console.ModeHeader(runner.ModeConcurrent, r.Requests())
	conc, err := r.Concurrent(ctx)
	if err != nil {
		return reportFailure(console, logger, err)
	}
	console.ModeSummary(conc)

	cmp := compare.Compare(seq, conc)
	console.Comparison(cmp)

	doc := output.NewDocument(runID, startedAt, output.Configuration{
		NumRequests:  r.Requests(),
		Workers:      r.Workers(),
		Model:        cfg.Model,
		MaxTokens:    cfg.MaxTokens,
		Temperature:  cfg.Temperature,
		BaseURL:      cfg.BaseURL,
		SystemPrompt: cfg.SystemPrompt,
	}, seq, conc, cmp)

	if !cfg.NoArtifacts {
		paths, err := output.Artifacts{Dir: cfg.OutputDir, LockTimeout: artifactLockTimeout}.Write(ctx, startedAt, doc)
		if err != nil {
			return reportFailure(console, logger, err)
		}
		console.Saved(paths.List())
		logger.Debug("artifacts written", "run_id", runID, "dir", cfg.OutputDir)
	}

	if cfg.JSONOutput {
		if err := output.WriteJSON(stdout, doc); err != nil {
			return reportFailure(console, logger, err)
		}
	}

	console.Completed()
	return nil
}

func reportFailure(console *output.Console, logger *slog.Logger, err error) error {
	if errors.Is(err, runner.ErrInterrupted) {
		console.Interrupted()
		return err
	}
	console.Failed(err)
	logger.Error("benchmark failed", "error", err, "stack", string(debug.Stack()))
	return err
}
