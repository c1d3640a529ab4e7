//go:build unix

package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/dshills/runner/internal/config"
	"github.com/dshills/runner/internal/dashboard"
	"github.com/dshills/runner/internal/renderer/backend"
)

func testConfig(t *testing.T, procs ...config.Process) *config.Config {
	t.Helper()
	cfg := &config.Config{Processes: procs, GracePeriod: "2s"}
	require.NoError(t, cfg.Validate())
	return cfg
}

func shellProcess(name, script string) config.Process {
	return config.Process{Name: name, Command: "sh", Args: []string{"-c", script}}
}

func readPid(t *testing.T, path string) int {
	t.Helper()
	var pid int
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	return pid
}

func runAsync(app *Application, ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- app.Run(ctx) }()
	return errc
}

func waitRun(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRunQuitKillsChildren(t *testing.T) {
	pidfile := filepath.Join(t.TempDir(), "pid")
	cfg := testConfig(t,
		shellProcess("sleeper", "echo $$ > "+pidfile+"; exec sleep 30"),
		shellProcess("ticker", "while true; do echo tick; sleep 0.05; done"),
	)

	b := backend.NewNullBackend(80, 24)
	app := New(cfg, WithBackend(b))
	errc := runAsync(app, context.Background())

	pid := readPid(t, pidfile)
	assert.ErrorIs(t, app.Run(context.Background()), ErrAlreadyRunning)

	b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: 'q'})
	require.NoError(t, waitRun(t, errc))

	assert.True(t, b.Closed())
	assert.ErrorIs(t, unix.Kill(pid, 0), unix.ESRCH)
}

// gone reports whether pid no longer runs. Zombies count as gone since a
// reparented grandchild may wait for init to reap it.
func gone(pid int) bool {
	if err := unix.Kill(pid, 0); errors.Is(err, unix.ESRCH) {
		return true
	}
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return false
	}
	if i := bytes.LastIndexByte(stat, ')'); i >= 0 && i+2 < len(stat) {
		return stat[i+2] == 'Z'
	}
	return false
}

func TestRunContextCancelKillsProcessGroup(t *testing.T) {
	pidfile := filepath.Join(t.TempDir(), "pid")
	cfg := testConfig(t, shellProcess("tree", "sleep 30 & echo $! > "+pidfile+"; wait"))

	var logs bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	b := backend.NewNullBackend(40, 10)
	errc := runAsync(New(cfg, WithBackend(b), WithLogger(log.New(&logs))), ctx)

	grandchild := readPid(t, pidfile)
	cancel()
	require.NoError(t, waitRun(t, errc))

	assert.True(t, b.Closed())
	assert.Eventually(t, func() bool { return gone(grandchild) },
		2*time.Second, 10*time.Millisecond, "process group survived cancellation")
	assert.Contains(t, logs.String(), "dashboard starting")
	assert.Contains(t, logs.String(), "tree")
}

func TestRunRequiresTerminal(t *testing.T) {
	cfg := testConfig(t, shellProcess("a", "true"))
	app := New(cfg, WithTerminalCheck(func() bool { return false }))
	assert.ErrorIs(t, app.Run(context.Background()), ErrNotTerminal)
}

type failingBackend struct {
	*backend.NullBackend
}

func (failingBackend) Init() error { return errors.New("no tty") }

func TestRunTerminalInitError(t *testing.T) {
	cfg := testConfig(t, shellProcess("a", "true"))
	app := New(cfg, WithBackend(failingBackend{backend.NewNullBackend(10, 10)}))

	err := app.Run(context.Background())
	var initErr *InitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, "terminal", initErr.Component)
	assert.ErrorIs(t, err, dashboard.ErrTerminalInit)
	assert.Contains(t, err.Error(), "init terminal: ")
	assert.Contains(t, err.Error(), "no tty")
}

type panickingBackend struct {
	*backend.NullBackend
}

func (panickingBackend) Size() (int, int) { panic("boom") }

func TestRunRestoresTerminalOnPanic(t *testing.T) {
	cfg := testConfig(t, shellProcess("a", "sleep 30"))
	b := backend.NewNullBackend(10, 10)
	app := New(cfg, WithBackend(panickingBackend{b}))

	assert.PanicsWithValue(t, "boom", func() {
		_ = app.Run(context.Background())
	})
	assert.True(t, b.Closed())
}

type panickingPollBackend struct {
	*backend.NullBackend
}

func (panickingPollBackend) PollEvent() backend.Event { panic("poll failed") }

func TestRunInputPanicTearsDown(t *testing.T) {
	cfg := testConfig(t, shellProcess("a", "sleep 30"))
	b := backend.NewNullBackend(40, 10)
	app := New(cfg, WithBackend(panickingPollBackend{b}))

	errc := runAsync(app, context.Background())
	err := waitRun(t, errc)
	require.ErrorIs(t, err, dashboard.ErrInputClosed)
	assert.Contains(t, err.Error(), "poll failed")
	assert.True(t, b.Closed())
}

func TestRunShowsConfigChangeNotice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("processes: []\n"), 0o644))

	cfg := testConfig(t, shellProcess("a", "sleep 30"))
	cfg.Path = path

	b := backend.NewNullBackend(100, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := runAsync(New(cfg, WithBackend(b), WithConfigWatch(true)), ctx)

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("processes: []\n"), 0o644)
		return strings.Contains(b.Row(9), "runner.yaml changed on disk")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, waitRun(t, errc))
}

func TestInitErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &InitError{Component: "terminal", Err: inner}
	assert.Equal(t, "init terminal: inner", err.Error())
	assert.ErrorIs(t, err, inner)
}
