package dashboard

import "github.com/dshills/runner/internal/renderer/core"

// Pane is the view state of one process: its retained output, the index
// of the first visible line, and whether the last command sent was Start.
type Pane struct {
	Name string

	// Accent, when not default, colors the border.
	Accent core.Color

	lines   *LineBuffer
	offset  int
	running bool
}

// NewPane creates an empty pane retaining at most maxLines lines.
func NewPane(name string, maxLines int) *Pane {
	return &Pane{
		Name:   name,
		Accent: core.ColorDefault,
		lines:  NewLineBuffer(maxLines),
	}
}

// Append adds a line of output.
func (p *Pane) Append(line string) {
	p.lines.Push(line)
}

// Len returns the number of retained lines.
func (p *Pane) Len() int {
	return p.lines.Len()
}

// Offset returns the index of the first visible line.
func (p *Pane) Offset() int {
	return p.offset
}

// Running reports the state the operator last requested.
func (p *Pane) Running() bool {
	return p.running
}

// SetRunning records the state the operator requested.
func (p *Pane) SetRunning(running bool) {
	p.running = running
}

// Title returns the border title. The bracketed word names the action the
// pane's digit key will perform.
func (p *Pane) Title() string {
	if p.running {
		return p.Name + " [Stop]"
	}
	return p.Name + " [Start]"
}

// Autoscroll pins the view to the newest lines when the content is taller
// than visible rows. Shorter content keeps its current offset.
func (p *Pane) Autoscroll(visible int) {
	visible = max(visible, 1)
	if n := p.lines.Len(); n > visible {
		p.offset = n - visible
	}
}

// ScrollUp moves the view one line toward older output.
func (p *Pane) ScrollUp() {
	p.offset = max(p.offset-1, 0)
}

// ScrollDown moves the view one line toward newer output, stopping at the
// last line.
func (p *Pane) ScrollDown() {
	p.offset = min(p.offset+1, max(p.lines.Len()-1, 0))
}

// Window returns up to rows lines starting at the offset.
func (p *Pane) Window(rows int) []string {
	return p.lines.Slice(p.offset, p.offset+rows)
}
