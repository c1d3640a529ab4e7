// Package widget draws the dashboard's building blocks onto a backend:
// bordered titled boxes, vertical scrollbars, single-line text and the help
// line.
//
// Widgets hold no terminal state. Each Render call draws the widget
// completely inside the rectangle it is given and never writes outside it.
package widget
