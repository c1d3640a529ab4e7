package widget

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/runner/internal/renderer/backend"
	"github.com/dshills/runner/internal/renderer/core"
)

// DrawString draws s starting at (x, y) using at most maxWidth columns and
// returns the number of columns used. A wide character that would straddle
// the limit is not drawn. Each grapheme cluster occupies one cell, so
// combining marks and emoji sequences stay intact.
func DrawString(b backend.Backend, x, y, maxWidth int, s string, style core.Style) int {
	rest := core.Truncate(s, maxWidth)
	used := 0
	state := -1
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if w == 0 {
			continue
		}
		b.SetCell(x+used, y, core.NewClusterCell(cluster, w, style))
		used += w
	}
	return used
}

// ClearRow fills width cells of row y starting at x with blanks.
func ClearRow(b backend.Backend, x, y, width int, style core.Style) {
	if width <= 0 {
		return
	}
	b.Fill(core.RectFromSize(y, x, 1, width), core.Cell{Rune: ' ', Width: 1, Style: style})
}
