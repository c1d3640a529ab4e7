package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/runner/internal/config"
)

// Default channel capacities.
const (
	DefaultInboxSize  = 10
	DefaultOutputSize = 100
)

// Session owns one configured process for the whole lifetime of the
// supervisor. At most one child is attached to a session at a time.
type Session struct {
	// ID uniquely identifies the session.
	ID string

	// Name is the configured process name.
	Name string

	proc   config.Process
	term   Terminator
	logger *log.Logger

	inbox  chan Command
	output chan string

	// exited receives runs whose child has been reaped.
	exited chan *run

	// done is closed when the command loop returns.
	done chan struct{}

	state atomic.Int32

	// live counts children spawned but not yet reaped.
	live atomic.Int32

	// current is owned by the command loop.
	current *run
}

// run is one spawned child.
type run struct {
	cmd     *exec.Cmd
	pgid    int
	started time.Time
}

func newSession(proc config.Process, term Terminator, logger *log.Logger, inboxSize, outputSize int) *Session {
	id := uuid.New().String()
	return &Session{
		ID:     id,
		Name:   proc.Name,
		proc:   proc,
		term:   term,
		logger: logger.With("name", proc.Name, "session_id", id),
		inbox:  make(chan Command, inboxSize),
		output: make(chan string, outputSize),
		exited: make(chan *run),
		done:   make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Done returns a channel closed when the session's command loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Live returns the number of children that have not been reaped yet.
func (s *Session) Live() int {
	return int(s.live.Load())
}

// loop applies commands in arrival order until ctx is cancelled. Any child
// still attached at cancellation is killed.
func (s *Session) loop(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			s.stop()
			return

		case cmd := <-s.inbox:
			s.apply(ctx, cmd)

		case r := <-s.exited:
			if r == s.current {
				s.current = nil
				s.state.Store(int32(StateIdle))
			}
		}
	}
}

// apply runs one command. A panic while handling it is reported to the pane
// and the loop keeps serving the inbox.
func (s *Session) apply(ctx context.Context, cmd Command) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic handling command", "command", cmd, "panic", r, "stack", string(debug.Stack()))
			s.emit(ctx, fmt.Sprintf("[runner] %s: internal error on %s: %v", s.Name, cmd, r))
		}
	}()

	switch cmd {
	case CommandStart:
		s.start(ctx)
	case CommandStop:
		s.stop()
	default:
		s.logger.Warn("unknown command", "command", cmd)
	}
}

func (s *Session) start(ctx context.Context) {
	if s.current != nil {
		s.logger.Debug("start ignored, already running")
		return
	}
	if ctx.Err() != nil {
		return
	}

	r, stdout, stderr, err := s.spawn()
	if err != nil {
		s.logger.Error("spawn failed", "command", s.proc.Command, "err", err)
		s.emit(ctx, fmt.Sprintf("[runner] failed to start %s: %v", s.Name, err))
		return
	}

	var readers sync.WaitGroup
	readers.Add(2)
	for _, pipe := range []io.Reader{stdout, stderr} {
		go func() {
			defer readers.Done()
			readLines(ctx, pipe, s.output)
		}()
	}

	s.live.Add(1)
	go s.reap(ctx, r, &readers)

	s.current = r
	s.state.Store(int32(StateRunning))
	s.logger.Info("process started", "pid", r.cmd.Process.Pid, "pgid", r.pgid)
}

// spawn starts the child with both output streams piped.
func (s *Session) spawn() (*run, io.ReadCloser, io.ReadCloser, error) {
	cmd := exec.Command(s.proc.Command, s.proc.Args...)
	cmd.Dir = s.proc.Cwd
	cmd.Stdin = nil
	s.term.Prepare(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		return nil, nil, nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, nil, err
	}

	r := &run{cmd: cmd, started: time.Now()}
	if pgid, ok := s.term.ProcessGroup(cmd.Process.Pid); ok {
		r.pgid = pgid
	}
	return r, stdout, stderr, nil
}

// stop kills the attached child without waiting for it to exit. The reaper
// collects it later.
func (s *Session) stop() {
	r := s.current
	if r == nil {
		return
	}
	s.current = nil
	s.state.Store(int32(StateIdle))

	if err := s.term.Terminate(r.cmd.Process, r.pgid); err != nil {
		s.logger.Warn("kill failed", "pid", r.cmd.Process.Pid, "pgid", r.pgid, "err", err)
		return
	}
	s.logger.Info("process stopped", "pid", r.cmd.Process.Pid, "pgid", r.pgid)
}

// reap waits for both readers to drain, collects the child and reports the
// exit back to the command loop.
func (s *Session) reap(ctx context.Context, r *run, readers *sync.WaitGroup) {
	readers.Wait()
	err := r.cmd.Wait()
	s.live.Add(-1)

	status := exitStatus(err)
	s.logger.Info("process exited", "pid", r.cmd.Process.Pid, "status", status, "runtime", time.Since(r.started))
	s.emit(ctx, fmt.Sprintf("[runner] %s exited: %s", s.Name, status))

	select {
	case s.exited <- r:
	case <-s.done:
	}
}

// emit writes a runner-generated line to the session's output channel.
func (s *Session) emit(ctx context.Context, line string) {
	select {
	case s.output <- line:
	case <-ctx.Done():
	}
}

func exitStatus(err error) string {
	if err == nil {
		return "exit status 0"
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Error()
	}
	return err.Error()
}

// Handle is the dashboard's view of a session: the consumer end of its
// output channel and the producer end of its command inbox.
type Handle struct {
	session *Session
}

// ID returns the session ID.
func (h *Handle) ID() string {
	return h.session.ID
}

// Name returns the configured process name.
func (h *Handle) Name() string {
	return h.session.Name
}

// Output returns the session's output channel. It is never closed.
func (h *Handle) Output() <-chan string {
	return h.session.output
}

// State returns the session's current state.
func (h *Handle) State() State {
	return h.session.State()
}

// Send queues cmd without blocking. It reports false when the inbox is full
// and the command was dropped.
func (h *Handle) Send(cmd Command) bool {
	select {
	case h.session.inbox <- cmd:
		return true
	default:
		return false
	}
}
