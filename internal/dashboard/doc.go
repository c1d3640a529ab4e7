// Package dashboard implements the terminal UI: one bordered pane per
// supervised process stacked vertically, a help line, and keyboard control.
//
// The dashboard runs a single loop on the caller's goroutine:
//
//  1. compute the pane layout for the current terminal size
//  2. drain every process's output channel without blocking
//  3. draw all panes, scrollbars and the help line
//  4. wait up to the poll timeout for one input event
//
// Terminal input is read by a separate goroutine because PollEvent blocks;
// events reach the loop over a buffered channel. Output channels are only
// ever read non-blockingly, so a silent process never stalls the UI.
//
// Keys:
//
//	q, Ctrl-C   quit
//	1-9         toggle the matching process between running and stopped
//	Up/Down     scroll every pane by one line
package dashboard
