package layout

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// DefaultTabWidth is the tab stop interval used for log lines.
const DefaultTabWidth = 8

// Sanitize prepares a raw output line for cell rendering: tabs expand to
// the next tab stop and other control characters are dropped, so that the
// display width of the result equals what will be drawn.
func Sanitize(s string, tabWidth int) string {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	col := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		switch {
		case cluster == "\t":
			spaces := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", spaces))
			col += spaces
		case strings.ContainsFunc(cluster, unicode.IsControl):
			continue
		default:
			b.WriteString(cluster)
			col += w
		}
	}
	return b.String()
}
