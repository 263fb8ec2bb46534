package output_test

import (
	"context"
	"testing"
	"time"

	"github.com/torosent/burstbench/internal/compare"
	"github.com/torosent/burstbench/internal/completion"
	"github.com/torosent/burstbench/internal/output"
	"github.com/torosent/burstbench/internal/runner"
)

var testPrompts = []string{"What is 2+2?", "Name a color.", "Say hi."}

// fixtureReports runs both passes against a completer where the last prompt
// is rate limited.
func fixtureReports(t *testing.T) (runner.ModeReport, runner.ModeReport) {
	t.Helper()
	completer := runner.CompleterFunc(func(ctx context.Context, prompt string) (completion.Completion, error) {
		if prompt == testPrompts[2] {
			return completion.Completion{}, &completion.APIError{StatusCode: 429, Type: "requests", Message: "Rate limit reached"}
		}
		return completion.Completion{Text: "answer to " + prompt, TotalTokens: 7}, nil
	})
	r := runner.New(runner.Options{Prompts: testPrompts, Completer: completer})

	seq, err := r.Sequential(context.Background())
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	conc, err := r.Concurrent(context.Background())
	if err != nil {
		t.Fatalf("concurrent: %v", err)
	}
	return seq, conc
}

func fixtureDocument(t *testing.T) output.Document {
	t.Helper()
	seq, conc := fixtureReports(t)
	cmp := compare.FromDurations(3*time.Second, time.Second)
	started := time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC)
	cfg := output.Configuration{NumRequests: 3, Workers: 3, Model: "gpt-test", MaxTokens: 100, Temperature: 0.7}
	return output.NewDocument("", started, cfg, seq, conc, cmp)
}
