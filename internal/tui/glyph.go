package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// padGlyph pads a symbol glyph to a two-column cell so rows of symbols
// stay aligned across single- and double-width glyphs.
func padGlyph(glyph string) string {
	w := runewidth.StringWidth(glyph)
	if w >= 2 {
		return glyph
	}
	return glyph + strings.Repeat(" ", 2-w)
}
