package core

import (
	"slices"

	"github.com/rivo/uniseg"
)

// Cell represents a single terminal cell.
type Cell struct {
	// Rune is the character to display.
	Rune rune

	// Combining holds the remaining runes of a multi-rune grapheme cluster,
	// such as combining accents or the joiners of an emoji sequence.
	Combining []rune

	// Width is the display width of this cell.
	Width int

	// Style is the visual style for this cell.
	Style Style
}

// EmptyCell returns an empty cell with default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// NewStyledCell creates a cell with the given rune and style.
func NewStyledCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: RuneWidth(r), Style: style}
}

// NewClusterCell creates a cell holding one grapheme cluster of the given
// display width. An empty cluster yields a blank.
func NewClusterCell(cluster string, width int, style Style) Cell {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return Cell{Rune: ' ', Width: 1, Style: style}
	}
	c := Cell{Rune: runes[0], Width: width, Style: style}
	if len(runes) > 1 {
		c.Combining = runes[1:]
	}
	return c
}

// String returns the cell's full grapheme cluster.
func (c Cell) String() string {
	return string(c.Rune) + string(c.Combining)
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Rune == other.Rune &&
		slices.Equal(c.Combining, other.Combining) &&
		c.Width == other.Width &&
		c.Style.Equals(other.Style)
}

// RuneWidth returns the display width of a rune. Control characters have
// no width.
func RuneWidth(r rune) int {
	if r < 32 || r == 0x7F {
		return 0
	}
	return uniseg.StringWidth(string(r))
}

// Truncate returns the longest prefix of s that fits in width columns,
// never splitting a grapheme cluster.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	used, end := 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width {
			break
		}
		used += w
		end += len(cluster)
	}
	return s[:end]
}
