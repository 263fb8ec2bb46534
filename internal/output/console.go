package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/torosent/burstbench/internal/compare"
	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/runner"
)

const ruleWidth = 80

// RunInfo is the configuration echoed in the banner.
type RunInfo struct {
	Requests        int
	Workers         int
	Model           string
	MaxTokens       int
	BaseURL         string
	CredentialFound bool
}

// Console writes the human-readable report. It also implements runner.Observer
// to print per-request progress lines.
type Console struct {
	mu         sync.Mutex
	w          io.Writer
	st         styles
	lineOpened bool
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = io.Discard
	}
	return &Console{w: w, st: newStyles(w)}
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.w, format, args...)
}

func (c *Console) rule(ch string) string {
	return strings.Repeat(ch, ruleWidth)
}

// Banner prints the title box and configuration.
func (c *Console) Banner(info RunInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n%s\n", c.st.banner.Render(c.st.title.Render("Chat Completion Concurrency Test")))
	c.printf("\nConfiguration:\n")
	c.printf("  • Number of requests: %d\n", info.Requests)
	if info.Workers > 0 && info.Workers < info.Requests {
		c.printf("  • Concurrent workers: %d\n", info.Workers)
	}
	c.printf("  • Model: %s\n", info.Model)
	c.printf("  • Max tokens per request: %d\n", info.MaxTokens)
	if info.BaseURL != "" {
		c.printf("  • Endpoint: %s\n", info.BaseURL)
	}
	if info.CredentialFound {
		c.printf("  • API Key: %s\n\n", c.st.success.Render("✓ Found"))
	} else {
		c.printf("  • API Key: %s\n\n", c.st.failure.Render("✗ Not found"))
	}
}

// ModeHeader announces the start of a pass.
func (c *Console) ModeHeader(mode runner.Mode, requests int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	title, verb := "TEST 1: SEQUENTIAL REQUESTS (One After Another)", "sequentially"
	if mode == runner.ModeConcurrent {
		title, verb = "TEST 2: CONCURRENT REQUESTS (All At The Same Time)", "concurrently"
		c.printf("\n\n")
	}
	c.printf("%s\n%s\n%s\n", c.rule("="), c.st.heading.Render(title), c.rule("="))
	c.printf("Sending %d requests %s...\n\n", requests, verb)
}

// RequestStarted prints the opening half of a sequential progress line.
// Concurrent requests are only reported on completion.
func (c *Console) RequestStarted(mode runner.Mode, index, total int) {
	if mode != runner.ModeSequential {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("Request %d/%d: Sending... ", index+1, total)
	c.lineOpened = true
}

// RequestFinished prints the outcome of one request.
func (c *Console) RequestFinished(mode runner.Mode, res metrics.RequestResult, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var outcome string
	if res.Success {
		outcome = c.st.success.Render(fmt.Sprintf("✓ Completed in %.2fs", res.DurationSeconds))
	} else {
		msg := res.Error
		if msg == "" {
			msg = "Unknown error"
		}
		outcome = c.st.failure.Render(fmt.Sprintf("✗ Failed in %.2fs - %s", res.DurationSeconds, msg))
	}

	if mode == runner.ModeSequential && c.lineOpened {
		c.printf("%s\n", outcome)
		c.lineOpened = false
		return
	}
	c.printf("Request %d %s\n", res.Index+1, outcome)
}

// ModeSummary prints the aggregate block of one pass.
func (c *Console) ModeSummary(rep runner.ModeReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n%s\n%s\n%s\n", c.rule("-"), c.st.heading.Render(strings.ToUpper(string(rep.Mode))+" TEST SUMMARY"), c.rule("-"))
	c.printf("Total requests: %d\n", rep.Requests)
	c.printf("Successful: %d\n", rep.Successful)
	c.printf("Failed: %d\n", rep.Failed)
	c.printf("\nTotal time: %.2fs\n", rep.DurationSeconds)

	if rep.Successful > 0 {
		lat := rep.Latency
		c.printf("Average individual response time: %.2fs\n", lat.MeanLatencySec)
		c.printf("Min response time: %.2fs\n", lat.MinLatencySec)
		c.printf("Max response time: %.2fs\n", lat.MaxLatencySec)
		c.printf("%s\n", c.st.muted.Render(fmt.Sprintf("Percentiles: p50=%.2fs p90=%.2fs p99=%.2fs", lat.P50LatencySec, lat.P90LatencySec, lat.P99LatencySec)))
	}

	if rep.Spread != nil {
		c.printf("\nFirst completion: %.2fs\n", rep.Spread.FirstSeconds)
		c.printf("Last completion: %.2fs\n", rep.Spread.LastSeconds)
		c.printf("Completion spread: %.2fs\n", rep.Spread.WindowSeconds)
	}

	if rows := metrics.SortKindBuckets(rep.ErrorKinds); len(rows) > 0 {
		c.printf("\nError breakdown:\n")
		for _, row := range rows {
			c.printf("  %s\n", c.st.warning.Render(fmt.Sprintf("%s (%s): %d", row.Kind, metrics.FriendlyName(row.Kind), row.Count)))
		}
	}
}

// Comparison prints the comparison and the conclusion.
func (c *Console) Comparison(cmp compare.Comparison) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n\n%s\n%s\n%s\n", c.rule("="), c.st.heading.Render("COMPARISON: SEQUENTIAL vs CONCURRENT"), c.rule("="))
	c.printf("\nSequential total time:  %.2fs\n", cmp.SequentialSeconds)
	c.printf("Concurrent total time:  %.2fs\n", cmp.ConcurrentSeconds)
	c.printf("Time saved:             %.2fs\n", cmp.TimeSavedSeconds)
	c.printf("Speedup:                %s\n", c.st.value.Render(fmt.Sprintf("%.2fx faster", cmp.Speedup)))
	c.printf("\nEfficiency:             %.1f%% time reduction\n", cmp.EfficiencyPercent)

	c.printf("\n%s\n%s\n%s\n", c.rule("-"), c.st.heading.Render("CONCLUSION"), c.rule("-"))
	style := c.st.success
	if cmp.Band == compare.BandInconclusive {
		style = c.st.warning
	}
	for _, line := range cmp.Conclusion() {
		c.printf("%s\n", style.Render(line))
	}
}

// Saved lists the artifact paths written.
func (c *Console) Saved(paths []string) {
	if len(paths) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printf("\n📄 Detailed results saved to: %s\n", paths[0])
	for _, p := range paths[1:] {
		c.printf("   %s\n", c.st.muted.Render(p))
	}
}

// Completed prints the final success line.
func (c *Console) Completed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("\n%s\n\n", c.st.success.Render("✓ Test completed successfully!"))
}

// Interrupted prints the user-interrupt notice.
func (c *Console) Interrupted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lineOpened {
		c.printf("\n")
		c.lineOpened = false
	}
	c.printf("\n\n%s\n", c.st.warning.Render("⚠ Test interrupted by user"))
}

// Failed prints a fatal orchestration error.
func (c *Console) Failed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("\n\n%s\n", c.st.failure.Render(fmt.Sprintf("✗ Test failed with error: %v", err)))
}

// MissingCredential explains how to provide the API key.
func (c *Console) MissingCredential(envName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf("%s\n", c.st.failure.Render(fmt.Sprintf("ERROR: %s environment variable not set", envName)))
	c.printf("Please set it with: export %s='your-api-key'\n", envName)
}
