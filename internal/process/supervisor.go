package process

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/runner/internal/config"
)

// Supervisor owns one Session per configured process, in configuration
// order, for the lifetime of the program.
//
// Supervisor is safe for concurrent use.
type Supervisor struct {
	sessions []*Session
	handles  []*Handle

	cancel context.CancelFunc

	grace      time.Duration
	term       Terminator
	logger     *log.Logger
	inboxSize  int
	outputSize int

	teardownOnce sync.Once
}

// SupervisorOption configures a Supervisor instance.
type SupervisorOption func(*Supervisor)

// WithGracePeriod bounds how long StopAll and Teardown wait for children.
func WithGracePeriod(d time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		if d > 0 {
			s.grace = d
		}
	}
}

// WithTerminator overrides the platform terminator.
func WithTerminator(t Terminator) SupervisorOption {
	return func(s *Supervisor) {
		if t != nil {
			s.term = t
		}
	}
}

// WithLogger sets the logger. Sessions log through child loggers.
func WithLogger(l *log.Logger) SupervisorOption {
	return func(s *Supervisor) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChannelSizes overrides the inbox and output channel capacities.
func WithChannelSizes(inbox, output int) SupervisorOption {
	return func(s *Supervisor) {
		if inbox > 0 {
			s.inboxSize = inbox
		}
		if output > 0 {
			s.outputSize = output
		}
	}
}

// SpawnAll creates one idle session per process and starts their command
// loops. No child is started until a Start command is sent.
func SpawnAll(ctx context.Context, procs []config.Process, opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		grace:      config.DefaultGracePeriod,
		term:       DefaultTerminator(),
		logger:     log.New(io.Discard),
		inboxSize:  DefaultInboxSize,
		outputSize: DefaultOutputSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.sessions = make([]*Session, len(procs))
	s.handles = make([]*Handle, len(procs))
	for i, p := range procs {
		sess := newSession(p, s.term, s.logger, s.inboxSize, s.outputSize)
		s.sessions[i] = sess
		s.handles[i] = &Handle{session: sess}
		go sess.loop(ctx)
	}

	s.logger.Debug("sessions created", "count", len(procs))
	return s
}

// Handles returns the session handles in configuration order.
func (s *Supervisor) Handles() []*Handle {
	out := make([]*Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// Sessions returns the sessions in configuration order.
func (s *Supervisor) Sessions() []*Session {
	out := make([]*Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// StopAll sends Stop to every session and waits up to the grace period for
// every child to be reaped. A Stop dropped on a full inbox is logged.
func (s *Supervisor) StopAll() error {
	for _, h := range s.handles {
		if !h.Send(CommandStop) {
			s.logger.Warn("stop dropped, inbox full", "name", h.Name())
		}
	}

	ok := s.waitFor(func(sess *Session) bool {
		return sess.State() == StateIdle && sess.Live() == 0
	})
	if !ok {
		return ErrGraceExpired
	}
	return nil
}

// Teardown stops every child, cancels all session goroutines and waits up
// to the grace period for them to finish. It is safe to call more than once;
// only the first call has any effect.
func (s *Supervisor) Teardown() {
	s.teardownOnce.Do(func() {
		if err := s.StopAll(); err != nil {
			s.logger.Warn("children still alive after stop", "grace", s.grace)
		}

		// Cancelled loops kill whatever a dropped Stop left running.
		s.cancel()

		ok := s.waitFor(func(sess *Session) bool {
			select {
			case <-sess.Done():
				return sess.Live() == 0
			default:
				return false
			}
		})
		if !ok {
			s.logger.Warn("teardown grace period expired", "grace", s.grace)
			return
		}
		s.logger.Debug("teardown complete")
	})
}

// waitFor polls until done holds for every session or the grace period
// expires.
func (s *Supervisor) waitFor(done func(*Session) bool) bool {
	deadline := time.Now().Add(s.grace)
	for {
		all := true
		for _, sess := range s.sessions {
			if !done(sess) {
				all = false
				break
			}
		}
		if all {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Sentinel errors.
var (
	// ErrGraceExpired is returned when children outlive the grace period.
	ErrGraceExpired = errors.New("grace period expired before all children were reaped")
)
