package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/torosent/burstbench/internal/compare"
	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/runner"
)

// Rating grades the average latency of successful requests.
type Rating string

const (
	RatingExcellent Rating = "EXCELLENT"
	RatingGood      Rating = "GOOD"
	RatingModerate  Rating = "MODERATE"
	RatingPoor      Rating = "POOR"
)

// LatencyRating grades an average latency: under 2s is excellent, under 5s good,
// under 10s moderate and anything slower poor.
func LatencyRating(avg time.Duration) Rating {
	switch {
	case avg < 2*time.Second:
		return RatingExcellent
	case avg < 5*time.Second:
		return RatingGood
	case avg < 10*time.Second:
		return RatingModerate
	default:
		return RatingPoor
	}
}

// Recommendations returns advice for the observed failures.
func Recommendations(seq, conc runner.ModeReport) []string {
	if seq.RateLimited() || conc.RateLimited() {
		return []string{
			"Rate limit errors detected. Consider:",
			"  • Reducing the number of concurrent requests (--workers)",
			"  • Checking the rate limits of your account tier",
			"  • Spacing requests out over a longer window",
		}
	}
	if seq.Failed+conc.Failed > 0 {
		return []string{
			"Requests failed without hitting rate limits. Consider:",
			"  • Checking the error breakdown above for the dominant cause",
			"  • Verifying the endpoint, model name and credentials",
		}
	}
	return []string{
		"No rate limit errors detected.",
		"  • The API key handled all concurrent requests",
		"  • You may be able to increase concurrency further",
	}
}

// WriteDiagnostic writes the diagnostic report of a run.
func WriteDiagnostic(w io.Writer, doc Document) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("-", ruleWidth)

	fmt.Fprintf(&b, "%s\nDIAGNOSTIC REPORT\n%s\n\n", rule, rule)
	fmt.Fprintf(&b, "Run ID: %s\nTimestamp: %s\nModel: %s\nRequests: %d\n\n",
		doc.RunID, doc.Timestamp, doc.Configuration.Model, doc.Configuration.NumRequests)

	for _, rep := range []runner.ModeReport{doc.Sequential, doc.Concurrent} {
		fmt.Fprintf(&b, "%s ERRORS\n%s\n", strings.ToUpper(string(rep.Mode)), thin)
		rows := metrics.SortKindBuckets(rep.ErrorKinds)
		if len(rows) == 0 {
			b.WriteString("No errors\n\n")
			continue
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "%s (%s): %d\n", row.Kind, metrics.FriendlyName(row.Kind), row.Count)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "LATENCY\n%s\n", thin)
	if doc.Concurrent.Successful > 0 {
		avg := doc.Concurrent.Latency.MeanLatency
		fmt.Fprintf(&b, "Average concurrent latency: %.2fs\n", avg.Seconds())
		fmt.Fprintf(&b, "Rating: %s\n\n", LatencyRating(avg))
	} else {
		b.WriteString("No successful concurrent requests to rate\n\n")
	}

	fmt.Fprintf(&b, "CONCURRENCY\n%s\n", thin)
	fmt.Fprintf(&b, "Speedup: %.2fx (%s)\n", doc.Comparison.Speedup, doc.Comparison.Band)
	if doc.Comparison.Band == compare.BandInconclusive {
		b.WriteString("Concurrent requests did not finish meaningfully faster\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "RECOMMENDATIONS\n%s\n", thin)
	for _, line := range Recommendations(doc.Sequential, doc.Concurrent) {
		b.WriteString(line + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
