// Package compare derives the speedup figures from a sequential and a concurrent pass.
package compare

import (
	"fmt"
	"math"
	"time"

	"github.com/torosent/burstbench/internal/metrics"
	"github.com/torosent/burstbench/internal/runner"
)

// Band is the qualitative verdict on a speedup.
type Band string

const (
	BandSignificant  Band = "significant"
	BandModest       Band = "modest"
	BandInconclusive Band = "inconclusive"
)

const (
	significantThreshold = 1.5
	modestThreshold      = 1.1
)

// Comparison holds the derived metrics of two passes.
type Comparison struct {
	Sequential        time.Duration `json:"-"`
	Concurrent        time.Duration `json:"-"`
	SequentialSeconds float64       `json:"sequential_time"`
	ConcurrentSeconds float64       `json:"concurrent_time"`
	TimeSavedSeconds  float64       `json:"time_saved"`
	Speedup           float64       `json:"speedup"`
	EfficiencyPercent float64       `json:"efficiency_percent"`
	Band              Band          `json:"band"`
}

// Compare compares the total durations of two mode reports.
func Compare(seq, conc runner.ModeReport) Comparison {
	return FromDurations(seq.Duration, conc.Duration)
}

// FromDurations computes speedup = seq/conc, time saved = seq-conc and
// efficiency = saved/seq*100. Speedup is 0 when conc is 0; efficiency is 0
// when seq is 0.
func FromDurations(seq, conc time.Duration) Comparison {
	s, c := seq.Seconds(), conc.Seconds()
	saved := s - c

	var speedup, efficiency float64
	if c > 0 {
		speedup = s / c
	}
	if s > 0 {
		efficiency = saved * 100 / s
	}

	return Comparison{
		Sequential:        seq,
		Concurrent:        conc,
		SequentialSeconds: metrics.RoundSeconds(seq),
		ConcurrentSeconds: metrics.RoundSeconds(conc),
		TimeSavedSeconds:  metrics.RoundSeconds(seq - conc),
		Speedup:           round2(speedup),
		EfficiencyPercent: round2(efficiency),
		Band:              Classify(speedup),
	}
}

// Classify maps a speedup to its band.
func Classify(speedup float64) Band {
	switch {
	case speedup > significantThreshold:
		return BandSignificant
	case speedup > modestThreshold:
		return BandModest
	default:
		return BandInconclusive
	}
}

// TimeSaved returns seq - conc. It is negative when the concurrent pass was slower.
func (c Comparison) TimeSaved() time.Duration {
	return c.Sequential - c.Concurrent
}

// Conclusion returns the narrative lines printed for the band.
func (c Comparison) Conclusion() []string {
	switch c.Band {
	case BandSignificant:
		return []string{
			fmt.Sprintf("✓ Concurrent requests are SIGNIFICANTLY faster (%.2fx speedup)", c.Speedup),
			"✓ One API key CAN handle multiple simultaneous requests",
			"✓ The bottleneck is NOT the API key, but the server architecture",
		}
	case BandModest:
		return []string{
			fmt.Sprintf("✓ Concurrent requests are faster (%.2fx speedup)", c.Speedup),
			"✓ Multiple simultaneous requests are possible with one API key",
		}
	default:
		return []string{
			"⚠ Results are similar - may be hitting rate limits or network constraints",
		}
	}
}

// round2 rounds to two decimals, matching the persisted duration fields.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
