package layout

import "github.com/dshills/runner/internal/renderer/core"

// Margin is the number of blank cells kept around the pane stack.
const Margin = 1

// Frame is the screen partition for one frame.
type Frame struct {
	// Panes holds one region per pane, top to bottom.
	Panes []core.ScreenRect

	// Help is the single-row region for the help line.
	Help core.ScreenRect
}

// Compute partitions a width x height screen into n stacked panes inside
// the margin, plus a help row on the last screen line.
func Compute(width, height, n int) Frame {
	screen := core.RectFromSize(0, 0, height, width)
	f := Frame{
		Panes: SplitVertical(screen.Inset(Margin), n),
	}
	if height > 0 {
		f.Help = core.RectFromSize(height-1, 0, 1, width)
	}
	return f
}

// SplitVertical divides area into n regions of equal height, stacked top to
// bottom. Rows left over by the integer division stay unused at the bottom.
func SplitVertical(area core.ScreenRect, n int) []core.ScreenRect {
	if n <= 0 {
		return nil
	}
	each := area.Height() / n
	rects := make([]core.ScreenRect, n)
	for i := range rects {
		top := area.Top + i*each
		rects[i] = core.NewScreenRect(top, area.Left, top+each, area.Left+area.Width())
	}
	return rects
}
