// Package core provides the value types shared by the terminal backend and
// the widgets drawn on it: colors, styles, cells and screen rectangles.
package core
