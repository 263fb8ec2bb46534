package runner

import (
	"time"

	"github.com/torosent/burstbench/internal/metrics"
)

// ModeReport aggregates one batch.
type ModeReport struct {
	Mode            Mode                      `json:"mode"`
	Duration        time.Duration             `json:"-"`
	DurationSeconds float64                   `json:"total_duration"`
	Requests        int                       `json:"total_requests"`
	Workers         int                       `json:"workers"`
	Successful      int                       `json:"successful"`
	Failed          int                       `json:"failed"`
	ErrorKinds      map[metrics.ErrorKind]int `json:"error_breakdown"`
	Latency         metrics.Stats             `json:"latency"`
	Spread          *metrics.Spread           `json:"completion_spread,omitempty"`
	Results         []metrics.RequestResult   `json:"results"`
}

func newModeReport(mode Mode, elapsed time.Duration, workers int, results []metrics.RequestResult, spread *metrics.Spread) ModeReport {
	collector := metrics.NewCollector()
	for _, res := range results {
		collector.RecordResult(res)
	}
	stats := collector.Stats()

	return ModeReport{
		Mode:            mode,
		Duration:        elapsed,
		DurationSeconds: metrics.RoundSeconds(elapsed),
		Requests:        len(results),
		Workers:         workers,
		Successful:      int(stats.Successes),
		Failed:          int(stats.Failures),
		ErrorKinds:      collector.ErrorBreakdown(),
		Latency:         stats,
		Spread:          spread,
		Results:         results,
	}
}

// RateLimited reports whether any request failed with RATE_LIMIT.
func (m ModeReport) RateLimited() bool {
	return m.ErrorKinds[metrics.KindRateLimit] > 0
}

// Failures returns the failed results in index order.
func (m ModeReport) Failures() []metrics.RequestResult {
	var out []metrics.RequestResult
	for _, res := range m.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}
