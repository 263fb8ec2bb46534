package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/burstbench/internal/compare"
	"github.com/torosent/burstbench/internal/runner"
)

// Configuration is the run configuration recorded in the results document.
type Configuration struct {
	NumRequests  int     `json:"num_requests"`
	Workers      int     `json:"workers"`
	Model        string  `json:"model"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
	BaseURL      string  `json:"base_url,omitempty"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
}

// Document is the persisted results of one run.
type Document struct {
	RunID         string             `json:"run_id"`
	Timestamp     string             `json:"timestamp"`
	Configuration Configuration      `json:"configuration"`
	Sequential    runner.ModeReport  `json:"sequential"`
	Concurrent    runner.ModeReport  `json:"concurrent"`
	Comparison    compare.Comparison `json:"comparison"`
}

// NewRunID returns a lexically sortable identifier for a run started at t.
func NewRunID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// NewDocument assembles the results document for a run started at startedAt.
func NewDocument(runID string, startedAt time.Time, cfg Configuration, seq, conc runner.ModeReport, cmp compare.Comparison) Document {
	if runID == "" {
		runID = NewRunID(startedAt)
	}
	return Document{
		RunID:         runID,
		Timestamp:     startedAt.Format(time.RFC3339Nano),
		Configuration: cfg,
		Sequential:    seq,
		Concurrent:    conc,
		Comparison:    cmp,
	}
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
