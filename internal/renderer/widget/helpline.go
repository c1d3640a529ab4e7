package widget

import (
	"github.com/dshills/runner/internal/renderer/backend"
	"github.com/dshills/runner/internal/renderer/core"
)

// HelpLine is the one-row key reference at the bottom of the screen. An
// optional notice is appended after the help text.
type HelpLine struct {
	Text        string
	Style       core.Style
	Notice      string
	NoticeStyle core.Style
}

// Render draws the help line across rect's first row.
func (h HelpLine) Render(b backend.Backend, rect core.ScreenRect) {
	if rect.IsEmpty() {
		return
	}
	ClearRow(b, rect.Left, rect.Top, rect.Width(), core.DefaultStyle())

	used := DrawString(b, rect.Left, rect.Top, rect.Width(), h.Text, h.Style)
	if h.Notice == "" || used+2 >= rect.Width() {
		return
	}
	DrawString(b, rect.Left+used+2, rect.Top, rect.Width()-used-2, h.Notice, h.NoticeStyle)
}
