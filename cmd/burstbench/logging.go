package main

import (
	"io"
	"log/slog"
	"strings"
)

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// slogFailureLogger reports failed completion requests as warnings.
type slogFailureLogger struct {
	logger *slog.Logger
}

func (l *slogFailureLogger) LogFailure(prompt string, err error) {
	if err == nil {
		return
	}
	l.logger.Warn("request failed", "prompt", prompt, "error", err)
}
