package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/s0u7a/pri-training/internal/model"
	"github.com/s0u7a/pri-training/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "pri.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	indexes := []int{85, 95, 105}
	for i, index := range indexes {
		summary := model.SessionSummary{
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			Mode:           model.ModeMatch,
			Index:          index,
			Score:          20 + i,
			Mistakes:       1,
			TimeLimit:      60,
			ElapsedSeconds: 60,
		}
		if _, err := st.AppendSummary(ctx, summary); err != nil {
			t.Fatalf("append summary: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Last: 2, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(report.Summaries))
	}
	if report.Summaries[0].Index != 95 || report.Summaries[1].Index != 105 {
		t.Fatalf("last filter kept wrong sessions: %+v", report.Summaries)
	}
	if len(report.Modes) != 2 {
		t.Fatalf("expected 2 mode summaries, got %d", len(report.Modes))
	}
	if report.Modes[0].Sessions != 2 || report.Modes[1].Sessions != 0 {
		t.Fatalf("unexpected per-mode counts: %+v", report.Modes)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	report := Report{
		Summaries: summariesFixture(),
		Modes:     Summarize(summariesFixture()),
	}
	if err := RenderSummary(&buf, report); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 3", "Mode", "match", "coding", "Best Index"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, Report{}); err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderRecent(t *testing.T) {
	var buf bytes.Buffer
	report := Report{Summaries: summariesFixture()}
	if err := RenderRecent(&buf, report, 2); err != nil {
		t.Fatalf("render recent: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Recent Sessions") || !strings.Contains(out, "Index:") {
		t.Fatalf("recent output missing headers:\n%s", out)
	}
	if strings.Contains(out, "90") {
		t.Fatalf("recent table should only keep the last 2 sessions:\n%s", out)
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	report := Report{Summaries: summariesFixture()}
	if err := RenderCurves(&buf, report, 1, 80, 8, false); err != nil {
		t.Fatalf("render curves: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Index Curves") || !strings.Contains(out, "Legend:") {
		t.Fatalf("curves output missing plot pieces:\n%s", out)
	}
	if !strings.Contains(out, "match") || !strings.Contains(out, "coding") {
		t.Fatalf("curves output missing series names:\n%s", out)
	}
}
