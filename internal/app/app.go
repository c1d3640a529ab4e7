package app

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/dshills/runner/internal/config"
	"github.com/dshills/runner/internal/dashboard"
	"github.com/dshills/runner/internal/process"
	"github.com/dshills/runner/internal/renderer/backend"
	"github.com/dshills/runner/internal/renderer/core"
)

// Application runs one dashboard session over a validated configuration.
type Application struct {
	cfg     *config.Config
	logger  *log.Logger
	backend backend.Backend

	isTerminal  func() bool
	watchConfig bool

	running atomic.Bool
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the application logger.
func WithLogger(l *log.Logger) Option {
	return func(app *Application) {
		if l != nil {
			app.logger = l
		}
	}
}

// WithBackend sets the terminal backend. Without it Run opens the
// controlling terminal.
func WithBackend(b backend.Backend) Option {
	return func(app *Application) {
		app.backend = b
	}
}

// WithTerminalCheck replaces the check that stdin and stdout are terminals.
func WithTerminalCheck(fn func() bool) Option {
	return func(app *Application) {
		if fn != nil {
			app.isTerminal = fn
		}
	}
}

// WithConfigWatch enables the notice shown when the config file changes.
func WithConfigWatch(enabled bool) Option {
	return func(app *Application) {
		app.watchConfig = enabled
	}
}

// New creates an application for cfg, which must already be validated.
func New(cfg *config.Config, opts ...Option) *Application {
	app := &Application{
		cfg:        cfg,
		logger:     log.New(io.Discard),
		isTerminal: stdioIsTerminal,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run starts the supervisor and the dashboard and blocks until the operator
// quits or ctx is cancelled. All children are killed and the terminal is
// restored before Run returns, including when the dashboard panics; the
// panic is then propagated.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.backend == nil {
		if !app.isTerminal() {
			return ErrNotTerminal
		}
		t, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		app.backend = t
	}

	sup := process.SpawnAll(ctx, app.cfg.Processes,
		process.WithGracePeriod(app.cfg.Grace()),
		process.WithLogger(app.logger.With("component", "process")),
	)
	defer sup.Teardown()

	defer func() {
		if r := recover(); r != nil {
			app.logger.Error("panic in dashboard", "panic", r, "stack", string(debug.Stack()))
			app.backend.Shutdown()
			sup.Teardown()
			panic(r)
		}
	}()

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	d := dashboard.New(app.backend, app.sources(sup), app.dashboardOptions(watchCtx)...)

	app.logger.Info("dashboard starting", "config", app.cfg.Path, "processes", app.cfg.Names())
	err := d.Run(ctx)
	if errors.Is(err, dashboard.ErrTerminalInit) {
		return &InitError{Component: "terminal", Err: err}
	}
	if err != nil {
		return err
	}
	app.logger.Info("dashboard stopped")
	return nil
}

func (app *Application) sources(sup *process.Supervisor) []dashboard.Source {
	handles := sup.Handles()
	sources := make([]dashboard.Source, len(handles))
	for i, h := range handles {
		sources[i] = h
	}
	return sources
}

func (app *Application) dashboardOptions(watchCtx context.Context) []dashboard.Option {
	opts := []dashboard.Option{
		dashboard.WithLogger(app.logger.With("component", "dashboard")),
		dashboard.WithMaxLines(app.cfg.MaxLines),
	}

	for _, p := range app.cfg.Processes {
		if c, ok := p.Accent(); ok {
			opts = append(opts, dashboard.WithAccent(p.Name, core.ColorFromColorful(c)))
		}
	}

	if app.watchConfig && app.cfg.Path != "" {
		notices, err := config.Watch(watchCtx, app.cfg.Path)
		if err != nil {
			app.logger.Warn("config watch disabled", "path", app.cfg.Path, "err", err)
		} else {
			opts = append(opts, dashboard.WithNotices(notices))
		}
	}
	return opts
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
