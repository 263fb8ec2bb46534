package output_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/torosent/burstbench/internal/compare"
	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/output"
	"github.com/torosent/burstbench/internal/runner"
)

func TestConsoleBanner(t *testing.T) {
	tests := []struct {
		name  string
		info  output.RunInfo
		want  []string
		avoid []string
	}{
		{
			name: "credential found",
			info: output.RunInfo{Requests: 10, Model: "gpt-3.5-turbo", MaxTokens: 100, CredentialFound: true},
			want: []string{
				"Chat Completion Concurrency Test",
				"• Number of requests: 10",
				"• Model: gpt-3.5-turbo",
				"• Max tokens per request: 100",
				"• API Key: ✓ Found",
			},
			avoid: []string{"Concurrent workers"},
		},
		{
			name: "bounded workers and missing credential",
			info: output.RunInfo{Requests: 10, Workers: 4, Model: "m", MaxTokens: 5},
			want: []string{"• Concurrent workers: 4", "• API Key: ✗ Not found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.NewConsole(&buf).Banner(tt.info)
			got := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("banner missing %q:\n%s", want, got)
				}
			}
			for _, avoid := range tt.avoid {
				if strings.Contains(got, avoid) {
					t.Errorf("banner should not contain %q:\n%s", avoid, got)
				}
			}
		})
	}
}

func TestConsoleSequentialProgress(t *testing.T) {
	var buf bytes.Buffer
	c := output.NewConsole(&buf)

	c.ModeHeader(runner.ModeSequential, 2)
	c.RequestStarted(runner.ModeSequential, 0, 2)
	c.RequestFinished(runner.ModeSequential, metrics.NewSuccess(0, "p", "ok", 1230*time.Millisecond, 0), 2)
	c.RequestStarted(runner.ModeSequential, 1, 2)
	c.RequestFinished(runner.ModeSequential, metrics.NewFailure(1, "p", errors.New("Connection error."), 500*time.Millisecond), 2)

	got := buf.String()
	for _, want := range []string{
		"TEST 1: SEQUENTIAL REQUESTS (One After Another)",
		"Sending 2 requests sequentially...",
		"Request 1/2: Sending... ✓ Completed in 1.23s\n",
		"Request 2/2: Sending... ✗ Failed in 0.50s - Connection error.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConsoleConcurrentProgress(t *testing.T) {
	var buf bytes.Buffer
	c := output.NewConsole(&buf)

	c.ModeHeader(runner.ModeConcurrent, 3)
	c.RequestStarted(runner.ModeConcurrent, 2, 3)
	c.RequestFinished(runner.ModeConcurrent, metrics.NewSuccess(2, "p", "ok", 400*time.Millisecond, 0), 3)

	got := buf.String()
	if strings.Contains(got, "Sending...") {
		t.Errorf("concurrent mode should not print start lines:\n%s", got)
	}
	for _, want := range []string{
		"TEST 2: CONCURRENT REQUESTS (All At The Same Time)",
		"Sending 3 requests concurrently...",
		"Request 3 ✓ Completed in 0.40s\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConsoleModeSummary(t *testing.T) {
	seq, conc := fixtureReports(t)

	var buf bytes.Buffer
	c := output.NewConsole(&buf)
	c.ModeSummary(seq)
	got := buf.String()
	for _, want := range []string{
		"SEQUENTIAL TEST SUMMARY",
		"Total requests: 3",
		"Successful: 2",
		"Failed: 1",
		"Average individual response time:",
		"Min response time:",
		"Max response time:",
		"RATE_LIMIT (Rate limit exceeded): 1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("sequential summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Completion spread") {
		t.Errorf("sequential summary should not report a spread:\n%s", got)
	}

	buf.Reset()
	c.ModeSummary(conc)
	got = buf.String()
	for _, want := range []string{"CONCURRENT TEST SUMMARY", "First completion:", "Completion spread:"} {
		if !strings.Contains(got, want) {
			t.Errorf("concurrent summary missing %q:\n%s", want, got)
		}
	}
}

func TestConsoleSummaryWithoutSuccesses(t *testing.T) {
	rep := runner.ModeReport{
		Mode:       runner.ModeSequential,
		Requests:   1,
		Failed:     1,
		ErrorKinds: map[metrics.ErrorKind]int{metrics.KindAuthError: 1},
	}
	var buf bytes.Buffer
	output.NewConsole(&buf).ModeSummary(rep)
	if strings.Contains(buf.String(), "Average individual response time") {
		t.Errorf("latency lines printed with no successes:\n%s", buf.String())
	}
}

func TestConsoleComparison(t *testing.T) {
	tests := []struct {
		name string
		seq  time.Duration
		conc time.Duration
		want []string
	}{
		{
			name: "significant",
			seq:  10 * time.Second,
			conc: 2 * time.Second,
			want: []string{
				"Sequential total time:  10.00s",
				"Concurrent total time:  2.00s",
				"Time saved:             8.00s",
				"5.00x faster",
				"80.0% time reduction",
				"✓ Concurrent requests are SIGNIFICANTLY faster (5.00x speedup)",
				"✓ The bottleneck is NOT the API key, but the server architecture",
			},
		},
		{
			name: "inconclusive",
			seq:  10 * time.Second,
			conc: 10 * time.Second,
			want: []string{"1.00x faster", "⚠ Results are similar - may be hitting rate limits or network constraints"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.NewConsole(&buf).Comparison(compare.FromDurations(tt.seq, tt.conc))
			got := buf.String()
			if !strings.Contains(got, "COMPARISON: SEQUENTIAL vs CONCURRENT") || !strings.Contains(got, "CONCLUSION") {
				t.Fatalf("missing section headers:\n%s", got)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("comparison missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestConsoleOutcomes(t *testing.T) {
	tests := []struct {
		name string
		emit func(*output.Console)
		want []string
	}{
		{"completed", func(c *output.Console) { c.Completed() }, []string{"✓ Test completed successfully!"}},
		{"interrupted", func(c *output.Console) { c.Interrupted() }, []string{"⚠ Test interrupted by user"}},
		{"failed", func(c *output.Console) { c.Failed(errors.New("boom")) }, []string{"✗ Test failed with error: boom"}},
		{"missing credential", func(c *output.Console) { c.MissingCredential("OPENAI_API_KEY") }, []string{
			"ERROR: OPENAI_API_KEY environment variable not set",
			"Please set it with: export OPENAI_API_KEY='your-api-key'",
		}},
		{"saved", func(c *output.Console) { c.Saved([]string{"out/a.json", "out/b.txt"}) }, []string{
			"📄 Detailed results saved to: out/a.json",
			"out/b.txt",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(output.NewConsole(&buf))
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestConsoleInterruptClosesOpenLine(t *testing.T) {
	var buf bytes.Buffer
	c := output.NewConsole(&buf)
	c.RequestStarted(runner.ModeSequential, 0, 1)
	c.Interrupted()
	if !strings.Contains(buf.String(), "Request 1/1: Sending... \n") {
		t.Errorf("expected the open progress line to be terminated:\n%q", buf.String())
	}
}
