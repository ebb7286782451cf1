// Package stats contains history calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Summaries []model.SessionSummary
	Modes     []ModeSummary
}

// BuildReport loads and prepares history data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	summaries, err := st.ListSummaries(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(summaries) > cfg.Last {
		summaries = summaries[len(summaries)-cfg.Last:]
	}
	return Report{
		Summaries: summaries,
		Modes:     Summarize(summaries),
	}, nil
}

// RenderSummary prints per-mode aggregates for the report.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Summaries) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Summary\nSessions: %d\n\n", len(report.Summaries)); err != nil {
		return err
	}

	headers := []string{"Mode", "Sessions", "Avg Index", "Best Index", "Avg Rate/min"}
	rows := make([][]string, 0, len(report.Modes))
	for _, ms := range report.Modes {
		rows = append(rows, []string{
			string(ms.Mode),
			fmt.Sprintf("%d", ms.Sessions),
			fmt.Sprintf("%.1f", ms.AvgIndex),
			fmt.Sprintf("%d", ms.BestIndex),
			fmt.Sprintf("%.1f", ms.AvgRate),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints per-mode index learning curves.
func RenderCurves(w io.Writer, report Report, window, totalWidth, height int, useColor bool) error {
	if len(report.Summaries) == 0 {
		return nil
	}
	series := make([]Series, 0, 2)
	for _, mode := range []model.Mode{model.ModeMatch, model.ModeCoding} {
		values := IndexSeries(report.Summaries, mode)
		if len(values) == 0 {
			continue
		}
		series = append(series, Series{
			Name:   string(mode),
			Values: MovingAverage(values, window),
		})
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Index Curves", series, width, height, useColor)
}

// RenderRecent prints a table of the most recent sessions plus an
// index sparkline.
func RenderRecent(w io.Writer, report Report, n int) error {
	summaries := report.Summaries
	if len(summaries) == 0 {
		return nil
	}
	if n > 0 && len(summaries) > n {
		summaries = summaries[len(summaries)-n:]
	}

	values := make([]float64, len(summaries))
	headers := []string{"When", "Mode", "Index", "Score", "Mistakes", "Time"}
	rows := make([][]string, 0, len(summaries))
	for i, s := range summaries {
		values[i] = float64(s.Index)
		rows = append(rows, []string{
			s.Timestamp.Format("2006-01-02 15:04"),
			string(s.Mode),
			fmt.Sprintf("%d", s.Index),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Mistakes),
			fmt.Sprintf("%ds", s.ElapsedSeconds),
		})
	}

	if _, err := fmt.Fprintf(w, "Recent Sessions\nIndex: %s\n", Sparkline(values)); err != nil {
		return err
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
