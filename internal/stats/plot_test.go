package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{
		{Name: "match", Values: []float64{80, 90, 100, 110, 120}},
		{Name: "coding", Values: []float64{95, 96, 97}},
	}
	if err := PlotSeries(&buf, "Index Curves", series, 40, 8, false); err != nil {
		t.Fatalf("plot series: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// Title, 8 plot rows, legend.
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Index Curves" {
		t.Fatalf("missing title: %q", lines[0])
	}
	if !strings.Contains(lines[1], "120") || !strings.Contains(lines[8], "80") {
		t.Fatalf("axis labels missing min/max:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[9], "Legend:") {
		t.Fatalf("missing legend: %q", lines[9])
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Nothing", []Series{{Name: "empty"}}, 40, 8, false); err != nil {
		t.Fatalf("plot series: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-3 {
		t.Fatalf("unexpected width for 80: %d", got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("zero total width should fall back to minimum, got %d", got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("narrow terminals clamp to minimum, got %d", got)
	}
}

func TestFormatTable(t *testing.T) {
	lines := formatTable(
		[]string{"Mode", "Index"},
		[][]string{{"match", "98"}, {"coding", "105"}},
		map[int]bool{1: true},
	)
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(lines))
	}
	if lines[2] != "coding   105" {
		t.Fatalf("unexpected row formatting: %q", lines[2])
	}
	if lines[1] != "match     98" {
		t.Fatalf("right alignment broken: %q", lines[1])
	}
}
