package widget

import (
	"github.com/dshills/runner/internal/renderer/backend"
	"github.com/dshills/runner/internal/renderer/core"
)

// Box border runes.
const (
	boxHorizontal  = '─'
	boxVertical    = '│'
	boxTopLeft     = '┌'
	boxTopRight    = '┐'
	boxBottomLeft  = '└'
	boxBottomRight = '┘'
)

// Box is a bordered rectangle with a title embedded in its top edge.
type Box struct {
	Title       string
	BorderStyle core.Style
	TitleStyle  core.Style
}

// Render draws the box over rect and returns the inner content area. Boxes
// smaller than 2x2 draw nothing and return an empty rectangle.
func (bx Box) Render(b backend.Backend, rect core.ScreenRect) core.ScreenRect {
	if rect.Width() < 2 || rect.Height() < 2 {
		return core.ScreenRect{Top: rect.Top, Left: rect.Left, Bottom: rect.Top, Right: rect.Left}
	}

	top, bottom := rect.Top, rect.Bottom-1
	left, right := rect.Left, rect.Right-1
	border := func(x, y int, r rune) {
		b.SetCell(x, y, core.NewStyledCell(r, bx.BorderStyle))
	}

	for x := left + 1; x < right; x++ {
		border(x, top, boxHorizontal)
		border(x, bottom, boxHorizontal)
	}
	for y := top + 1; y < bottom; y++ {
		border(left, y, boxVertical)
		border(right, y, boxVertical)
	}
	border(left, top, boxTopLeft)
	border(right, top, boxTopRight)
	border(left, bottom, boxBottomLeft)
	border(right, bottom, boxBottomRight)

	if bx.Title != "" {
		DrawString(b, left+1, top, rect.Width()-2, bx.Title, bx.TitleStyle)
	}

	inner := rect.Inset(1)
	b.Fill(inner, core.EmptyCell())
	return inner
}
