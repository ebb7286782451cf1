// Package scoring converts raw session counters into the normalized index.
package scoring

import (
	"math"

	"github.com/s0u7a/pri-training/internal/model"
)

// Index bounds for reporting.
const (
	IndexMin = 40
	IndexMax = 160
)

// MinMeasurableSeconds is the shortest session that yields a reliable
// measurement; anything shorter gets the Unmeasurable sentinel and is
// excluded from persistence.
const MinMeasurableSeconds = 10

// Unmeasurable is the sentinel index for sessions under
// MinMeasurableSeconds. It is a flag, not a low score.
const Unmeasurable = 0

type norm struct {
	mean float64
	sd   float64
}

// Empirical per-mode baselines for average performance.
var norms = map[model.Mode]norm{
	model.ModeMatch:  {mean: 45, sd: 12},
	model.ModeCoding: {mean: 30, sd: 8},
}

// Measurable reports whether a session of the given length produces a
// meaningful index.
func Measurable(elapsedSeconds int) bool {
	return elapsedSeconds >= MinMeasurableSeconds
}

// RatePerMinute computes mistake-adjusted correct answers per minute.
func RatePerMinute(score, mistakes, elapsedSeconds int) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	raw := score - mistakes
	if raw < 0 {
		raw = 0
	}
	return float64(raw) / float64(elapsedSeconds) * 60
}

// Index maps raw session counters to the standardized index: a
// z-score-like transform centered at 100 with one standard deviation
// of the mode baseline worth 15 points, clamped to [IndexMin, IndexMax].
func Index(score, mistakes, elapsedSeconds int, mode model.Mode) int {
	if !Measurable(elapsedSeconds) {
		return Unmeasurable
	}
	n := norms[mode]
	rate := RatePerMinute(score, mistakes, elapsedSeconds)
	idx := int(math.Round(100 + (rate-n.mean)/n.sd*15))
	if idx < IndexMin {
		return IndexMin
	}
	if idx > IndexMax {
		return IndexMax
	}
	return idx
}
