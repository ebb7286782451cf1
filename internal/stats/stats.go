// Package stats contains history calculations and reporting.
package stats

import (
	"math"
	"strings"

	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/scoring"
)

const sparkChars = " .:-=+*#%@"

// ModeSummary aggregates persisted sessions of one mode.
type ModeSummary struct {
	Mode      model.Mode
	Sessions  int
	AvgIndex  float64
	BestIndex int
	AvgRate   float64
}

// Summarize aggregates summaries per mode, match first.
func Summarize(summaries []model.SessionSummary) []ModeSummary {
	out := make([]ModeSummary, 0, 2)
	for _, mode := range []model.Mode{model.ModeMatch, model.ModeCoding} {
		var ms ModeSummary
		ms.Mode = mode
		var indexSum, rateSum float64
		for _, s := range summaries {
			if s.Mode != mode {
				continue
			}
			ms.Sessions++
			indexSum += float64(s.Index)
			rateSum += scoring.RatePerMinute(s.Score, s.Mistakes, s.ElapsedSeconds)
			if s.Index > ms.BestIndex {
				ms.BestIndex = s.Index
			}
		}
		if ms.Sessions > 0 {
			ms.AvgIndex = indexSum / float64(ms.Sessions)
			ms.AvgRate = rateSum / float64(ms.Sessions)
		}
		out = append(out, ms)
	}
	return out
}

// IndexSeries extracts the index values of one mode in history order.
func IndexSeries(summaries []model.SessionSummary, mode model.Mode) []float64 {
	var values []float64
	for _, s := range summaries {
		if s.Mode == mode {
			values = append(values, float64(s.Index))
		}
	}
	return values
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
