package widget

import (
	"github.com/dshills/runner/internal/renderer/backend"
	"github.com/dshills/runner/internal/renderer/core"
)

// Scrollbar runes.
const (
	scrollBegin = '▲'
	scrollEnd   = '▼'
	scrollTrack = '║'
	scrollThumb = '█'
)

// Scrollbar is a vertical scrollbar drawn in a single column.
type Scrollbar struct {
	// ContentLength is the number of scrollable lines.
	ContentLength int

	// Position is the index of the first visible line.
	Position int

	// Viewport is the number of visible lines. Zero means the track length.
	Viewport int

	Style core.Style
}

// Render draws the scrollbar in column x from row top (inclusive) to bottom
// (exclusive). The first and last rows hold the arrows.
func (s Scrollbar) Render(b backend.Backend, x, top, bottom int) {
	height := bottom - top
	if height < 2 {
		return
	}

	set := func(y int, r rune) {
		b.SetCell(x, y, core.NewStyledCell(r, s.Style))
	}
	set(top, scrollBegin)
	set(bottom-1, scrollEnd)

	track := height - 2
	if track <= 0 {
		return
	}
	start, length := s.Thumb(track)
	for i := 0; i < track; i++ {
		r := scrollTrack
		if i >= start && i < start+length {
			r = scrollThumb
		}
		set(top+1+i, r)
	}
}

// Thumb returns the thumb's offset and length within a track of the given
// length. Empty content yields a zero-length thumb.
func (s Scrollbar) Thumb(track int) (start, length int) {
	if track <= 0 || s.ContentLength <= 0 {
		return 0, 0
	}
	viewport := s.Viewport
	if viewport <= 0 {
		viewport = track
	}

	total := s.ContentLength + viewport
	length = max(1, track*viewport/total)
	length = min(length, track)

	pos := min(max(s.Position, 0), s.ContentLength-1)
	if s.ContentLength > 1 {
		start = pos * (track - length) / (s.ContentLength - 1)
	}
	return start, length
}
