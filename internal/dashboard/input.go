package dashboard

import (
	"fmt"
	"runtime/debug"

	"github.com/dshills/runner/internal/process"
	"github.com/dshills/runner/internal/renderer/backend"
)

// startInputPolling starts a goroutine that forwards terminal events to the
// returned channel. PollEvent blocks, so the goroutine only notices done
// after the next event; shutting the backend down unblocks it. The channel
// is closed when the backend reports it is closed, or after a panic in the
// backend, which is recorded so Run can report it and the caller can tear
// down.
func (d *Dashboard) startInputPolling(done <-chan struct{}) <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("panic in input poller", "panic", r, "stack", string(debug.Stack()))
				d.mu.Lock()
				d.inputErr = fmt.Errorf("%w: input poller panicked: %v", ErrInputClosed, r)
				d.mu.Unlock()
			}
		}()

		for {
			ev := d.backend.PollEvent()
			if ev.Type == backend.EventClosed {
				return
			}

			select {
			case events <- ev:
			case <-done:
				return
			default:
				d.logger.Debug("input event dropped, queue full", "type", ev.Type)
			}
		}
	}()

	return events
}

// handleEvent applies one input event and reports whether to quit.
func (d *Dashboard) handleEvent(ev backend.Event) bool {
	switch ev.Type {
	case backend.EventKey:
		return d.handleKey(ev)
	case backend.EventResize:
		d.backend.Sync()
	}
	return false
}

func (d *Dashboard) handleKey(ev backend.Event) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Key {
	case backend.KeyCtrlC:
		return true

	case backend.KeyUp:
		for _, p := range d.panes {
			p.ScrollUp()
		}

	case backend.KeyDown:
		for _, p := range d.panes {
			p.ScrollDown()
		}

	case backend.KeyRune:
		switch r := ev.Rune; {
		case r == 'q':
			return true
		case r >= '1' && r <= '9':
			d.toggle(int(r - '1'))
		}
	}
	return false
}

// toggle flips pane i between running and stopped and sends the matching
// command. Digits beyond the pane count are ignored.
func (d *Dashboard) toggle(i int) {
	if i < 0 || i >= len(d.panes) {
		return
	}
	p := d.panes[i]
	cmd := process.CommandStart
	if p.Running() {
		cmd = process.CommandStop
	}
	p.SetRunning(!p.Running())
	d.send(i, cmd)
	d.logger.Debug("toggle", "name", p.Name, "command", cmd)
}
