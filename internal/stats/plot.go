// Package stats contains history calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisSeparator       = " │ "
	axisLabelWidth      = 4
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var plotColors = []string{
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
}

// PlotSeries renders a braille line plot. All series share one y-scale,
// which suits index values living on a common [40,160] range.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, useColor bool) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	minVal, maxVal := seriesMinMax(series)
	if math.Abs(maxVal-minVal) < 1e-9 {
		minVal--
		maxVal++
	}

	// One braille cell holds a 2x4 dot grid.
	dotsWide := width * 2
	dotsHigh := height * 4
	cells := make([][]layer, height)
	for y := range cells {
		cells[y] = make([]layer, width)
	}
	for si, s := range series {
		plotOne(cells, s.Values, si, minVal, maxVal, dotsWide, dotsHigh)
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	labels := axisLabels(minVal, maxVal, height)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		for x := 0; x < width; x++ {
			cell := cells[y][x]
			if cell.mask == 0 {
				row.WriteRune(' ')
				continue
			}
			if useColor {
				row.WriteString(plotColors[cell.series%len(plotColors)])
				row.WriteRune(brailleRune(cell.mask))
				row.WriteString(colorReset)
			} else {
				row.WriteRune(brailleRune(cell.mask))
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(series, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

type layer struct {
	mask   uint8
	series int
}

func plotOne(cells [][]layer, values []float64, series int, minVal, maxVal float64, dotsWide, dotsHigh int) {
	if len(values) == 0 {
		return
	}
	values = resample(values, dotsWide)
	prevX, prevY := -1, -1
	for i, v := range values {
		x := i
		if len(values) > 1 && len(values) < dotsWide {
			x = i * (dotsWide - 1) / (len(values) - 1)
		}
		y := dotRow(v, minVal, maxVal, dotsHigh)
		if prevX >= 0 {
			drawLine(prevX, prevY, x, y, func(dx, dy int) {
				setDot(cells, dx, dy, series)
			})
		} else {
			setDot(cells, x, y, series)
		}
		prevX, prevY = x, y
	}
}

// resample bucket-averages a series that is wider than the plot.
func resample(values []float64, dotsWide int) []float64 {
	if len(values) <= dotsWide {
		return values
	}
	out := make([]float64, dotsWide)
	for i := 0; i < dotsWide; i++ {
		start := i * len(values) / dotsWide
		end := (i + 1) * len(values) / dotsWide
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func dotRow(v, minVal, maxVal float64, dotsHigh int) int {
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(dotsHigh-1)))
	if row < 0 {
		row = 0
	}
	if row >= dotsHigh {
		row = dotsHigh - 1
	}
	return row
}

func setDot(cells [][]layer, x, y, series int) {
	if x < 0 || y < 0 {
		return
	}
	cellY := y / 4
	cellX := x / 2
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cell := &cells[cellY][cellX]
	if cell.mask == 0 {
		cell.series = series
	}
	cell.mask |= brailleDotMask(x%2, y%4)
}

func brailleDotMask(x, y int) uint8 {
	masks := [2][4]uint8{
		{0x01, 0x02, 0x04, 0x40},
		{0x08, 0x10, 0x20, 0x80},
	}
	return masks[x][y]
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

// drawLine rasterizes a segment with Bresenham's algorithm.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			if x0 == x1 {
				return
			}
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			if y0 == y1 {
				return
			}
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func axisLabels(minVal, maxVal float64, height int) []string {
	labels := make([]string, height)
	if height == 0 {
		return labels
	}
	labels[0] = fmt.Sprintf("%.0f", maxVal)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.0f", (minVal+maxVal)/2)
	}
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.0f", minVal)
	}
	return labels
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s", brailleRune(0x01), s.Name)
		if useColor {
			label = plotColors[i%len(plotColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func seriesMinMax(series []Series) (float64, float64) {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if math.IsInf(minVal, 1) {
		minVal = 0
	}
	if math.IsInf(maxVal, -1) {
		maxVal = 0
	}
	return minVal, maxVal
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
