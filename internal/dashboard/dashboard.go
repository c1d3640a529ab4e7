package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/runner/internal/process"
	"github.com/dshills/runner/internal/renderer/backend"
	"github.com/dshills/runner/internal/renderer/core"
	"github.com/dshills/runner/internal/renderer/layout"
	"github.com/dshills/runner/internal/renderer/widget"
)

// HelpText is shown on the last screen row.
const HelpText = "(q: quit, 1-9: toggle process, ↑/↓: scroll)"

// Loop tuning.
const (
	// DefaultPollTimeout bounds how long one iteration waits for input.
	DefaultPollTimeout = 100 * time.Millisecond

	// drainLimit caps the lines taken from one source per iteration so a
	// flooding process cannot starve input handling.
	drainLimit = 1000
)

// Dashboard errors.
var (
	// ErrTerminalInit is returned when the terminal cannot be initialized.
	ErrTerminalInit = errors.New("terminal initialization failed")

	// ErrInputClosed is returned when the terminal stops delivering events
	// while the dashboard is still running.
	ErrInputClosed = errors.New("terminal input closed")
)

// Source is the dashboard's view of one supervised process.
// *process.Handle implements Source.
type Source interface {
	Name() string
	Output() <-chan string
	Send(cmd process.Command) bool
}

// Dashboard renders the panes and routes keys to the process sessions.
type Dashboard struct {
	backend backend.Backend
	sources []Source
	logger  *log.Logger

	pollTimeout time.Duration
	maxLines    int
	accents     map[string]core.Color
	notices     <-chan string

	// mu guards pane state and the notice, which the loop mutates and
	// Snapshot reads.
	mu     sync.Mutex
	panes  []*Pane
	notice string
	frame  layout.Frame

	// inputErr is set when the input poller stops abnormally.
	inputErr error
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithPollTimeout sets how long each iteration waits for input.
func WithPollTimeout(timeout time.Duration) Option {
	return func(d *Dashboard) {
		if timeout > 0 {
			d.pollTimeout = timeout
		}
	}
}

// WithMaxLines caps the lines retained per pane.
func WithMaxLines(n int) Option {
	return func(d *Dashboard) {
		if n > 0 {
			d.maxLines = n
		}
	}
}

// WithAccent colors the border of the named pane.
func WithAccent(name string, c core.Color) Option {
	return func(d *Dashboard) {
		d.accents[name] = c
	}
}

// WithNotices shows each string received on ch after the help text.
func WithNotices(ch <-chan string) Option {
	return func(d *Dashboard) {
		d.notices = ch
	}
}

// New creates a dashboard with one pane per source, in order.
func New(b backend.Backend, sources []Source, opts ...Option) *Dashboard {
	d := &Dashboard{
		backend:     b,
		sources:     sources,
		logger:      log.New(io.Discard),
		pollTimeout: DefaultPollTimeout,
		maxLines:    10000,
		accents:     make(map[string]core.Color),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.panes = make([]*Pane, len(sources))
	for i, src := range sources {
		p := NewPane(src.Name(), d.maxLines)
		if c, ok := d.accents[src.Name()]; ok {
			p.Accent = c
		}
		d.panes[i] = p
	}
	return d
}

// Run initializes the terminal, starts every process and runs the UI loop
// until the operator quits or ctx is cancelled. The terminal is restored on
// every return path. Quitting and cancellation return nil.
//
// Run does not stop the processes; the caller owns their teardown.
func (d *Dashboard) Run(ctx context.Context) error {
	if err := d.backend.Init(); err != nil {
		return fmt.Errorf("%w: %w", ErrTerminalInit, err)
	}
	defer d.backend.Shutdown()

	done := make(chan struct{})
	defer close(done)
	events := d.startInputPolling(done)

	d.mu.Lock()
	for i, p := range d.panes {
		d.send(i, process.CommandStart)
		p.SetRunning(true)
	}
	d.mu.Unlock()

	timer := time.NewTimer(d.pollTimeout)
	defer timer.Stop()

	for {
		d.step()

		timer.Reset(d.pollTimeout)
		select {
		case <-ctx.Done():
			d.logger.Debug("context cancelled", "err", ctx.Err())
			return nil

		case ev, ok := <-events:
			if !ok {
				d.mu.Lock()
				err := d.inputErr
				d.mu.Unlock()
				if err != nil {
					return err
				}
				return ErrInputClosed
			}
			if d.handleEvent(ev) {
				d.logger.Debug("quit requested")
				return nil
			}

		case msg, ok := <-d.notices:
			if !ok {
				d.notices = nil
				continue
			}
			d.mu.Lock()
			d.notice = msg
			d.mu.Unlock()
			d.logger.Info("notice", "msg", msg)

		case <-timer.C:
		}
	}
}

// step runs one layout, drain and draw pass.
func (d *Dashboard) step() {
	d.mu.Lock()
	defer d.mu.Unlock()

	w, h := d.backend.Size()
	d.frame = layout.Compute(w, h, len(d.panes))
	d.drain()
	d.draw()
}

// drain moves pending output from every source into its pane. Panes that
// received lines are scrolled to the bottom.
func (d *Dashboard) drain() {
	for i, src := range d.sources {
		p := d.panes[i]
		n := 0
	read:
		for n < drainLimit {
			select {
			case line := <-src.Output():
				p.Append(line)
				n++
			default:
				break read
			}
		}
		if n > 0 {
			p.Autoscroll(d.visibleRows(i))
		}
	}
}

// visibleRows returns the number of content rows of pane i.
func (d *Dashboard) visibleRows(i int) int {
	if i >= len(d.frame.Panes) {
		return 0
	}
	return max(d.frame.Panes[i].Height()-2, 0)
}

func (d *Dashboard) draw() {
	d.backend.Clear()
	for i, p := range d.panes {
		d.drawPane(p, d.frame.Panes[i])
	}
	widget.HelpLine{
		Text:        HelpText,
		Style:       core.NewStyle(core.ColorYellow),
		Notice:      d.notice,
		NoticeStyle: core.NewStyle(core.ColorCyan),
	}.Render(d.backend, d.frame.Help)
	d.backend.Show()
}

func (d *Dashboard) drawPane(p *Pane, rect core.ScreenRect) {
	border := core.NewStyle(p.Accent)
	if !p.running {
		border = core.NewStyle(p.Accent.Dim(0.5)).Dim()
	}

	inner := widget.Box{
		Title:       p.Title(),
		BorderStyle: border,
		TitleStyle:  border.Bold(),
	}.Render(d.backend, rect)

	for row, line := range p.Window(inner.Height()) {
		text := layout.Sanitize(line, layout.DefaultTabWidth)
		widget.DrawString(d.backend, inner.Left, inner.Top+row, inner.Width(), text, core.DefaultStyle())
	}

	widget.Scrollbar{
		ContentLength: p.Len(),
		Position:      p.Offset(),
		Viewport:      inner.Height(),
		Style:         border,
	}.Render(d.backend, rect.Right-1, rect.Top+1, rect.Bottom-1)
}

// send queues cmd for source i, logging when the inbox is full.
func (d *Dashboard) send(i int, cmd process.Command) {
	if !d.sources[i].Send(cmd) {
		d.logger.Warn("command dropped, inbox full", "name", d.sources[i].Name(), "command", cmd)
	}
}

// PaneState is a point-in-time copy of one pane's view state.
type PaneState struct {
	Name    string
	Lines   int
	Offset  int
	Running bool
	Title   string
}

// Snapshot returns the current state of every pane. It is safe to call
// while Run is active.
func (d *Dashboard) Snapshot() []PaneState {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]PaneState, len(d.panes))
	for i, p := range d.panes {
		out[i] = PaneState{
			Name:    p.Name,
			Lines:   p.Len(),
			Offset:  p.Offset(),
			Running: p.Running(),
			Title:   p.Title(),
		}
	}
	return out
}

// Notice returns the notice currently shown on the help line.
func (d *Dashboard) Notice() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.notice
}
