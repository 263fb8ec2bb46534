package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector aggregates request results in a thread-safe manner.
type Collector struct {
	mu           sync.Mutex
	hist         *hdrhistogram.Histogram
	successes    int64
	failures     int64
	minLatency   time.Duration
	maxLatency   time.Duration
	sumLatency   time.Duration
	tokens       int64
	errorsByKind map[ErrorKind]int64
}

// Stats represents aggregated metrics for one batch.
// Latency fields cover successful requests only.
type Stats struct {
	Total       int64         `json:"-"`
	Successes   int64         `json:"-"`
	Failures    int64         `json:"-"`
	MinLatency  time.Duration `json:"-"`
	MaxLatency  time.Duration `json:"-"`
	MeanLatency time.Duration `json:"-"`
	P50Latency  time.Duration `json:"-"`
	P90Latency  time.Duration `json:"-"`
	P99Latency  time.Duration `json:"-"`
	TotalTokens int64         `json:"total_tokens,omitempty"`

	// JSON-friendly second fields, rounded to two decimals.
	MinLatencySec  float64           `json:"min_latency"`
	MaxLatencySec  float64           `json:"max_latency"`
	MeanLatencySec float64           `json:"avg_latency"`
	P50LatencySec  float64           `json:"p50_latency"`
	P90LatencySec  float64           `json:"p90_latency"`
	P99LatencySec  float64           `json:"p99_latency"`
	Errors         map[ErrorKind]int `json:"-"`
}

func NewCollector() *Collector {
	// Track latencies from 1µs up to 10min with 3 significant figures.
	h := hdrhistogram.New(1, 600_000_000, 3)
	return &Collector{
		hist:         h,
		errorsByKind: make(map[ErrorKind]int64),
	}
}

// RecordResult records a single request's outcome.
func (c *Collector) RecordResult(r RequestResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !r.Success {
		c.failures++
		kind := r.ErrorKind
		if kind == "" {
			kind = KindOther
		}
		c.errorsByKind[kind]++
		return
	}

	c.successes++
	c.tokens += int64(r.TokensUsed)
	latency := r.Duration
	if latency > 0 {
		us := latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	}
	c.sumLatency += latency

	if c.successes == 1 || latency < c.minLatency {
		c.minLatency = latency
	}
	if latency > c.maxLatency {
		c.maxLatency = latency
	}
}

// Stats computes and returns current aggregated statistics.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Total:       c.successes + c.failures,
		Successes:   c.successes,
		Failures:    c.failures,
		MinLatency:  c.minLatency,
		MaxLatency:  c.maxLatency,
		TotalTokens: c.tokens,
	}

	if c.successes > 0 {
		stats.MeanLatency = time.Duration(int64(c.sumLatency) / c.successes)
	}

	if c.hist.TotalCount() > 0 {
		stats.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		stats.P90Latency = time.Duration(c.hist.ValueAtQuantile(90)) * time.Microsecond
		stats.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}

	stats.MinLatencySec = RoundSeconds(stats.MinLatency)
	stats.MaxLatencySec = RoundSeconds(stats.MaxLatency)
	stats.MeanLatencySec = RoundSeconds(stats.MeanLatency)
	stats.P50LatencySec = RoundSeconds(stats.P50Latency)
	stats.P90LatencySec = RoundSeconds(stats.P90Latency)
	stats.P99LatencySec = RoundSeconds(stats.P99Latency)

	if len(c.errorsByKind) > 0 {
		stats.Errors = make(map[ErrorKind]int, len(c.errorsByKind))
		for k, v := range c.errorsByKind {
			stats.Errors[k] = int(v)
		}
	}

	return stats
}

// ErrorBreakdown returns a map of error kinds to their counts.
func (c *Collector) ErrorBreakdown() map[ErrorKind]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[ErrorKind]int, len(c.errorsByKind))
	for k, v := range c.errorsByKind {
		result[k] = int(v)
	}
	return result
}
