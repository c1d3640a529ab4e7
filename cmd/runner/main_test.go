package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/runner/internal/app"
	"github.com/dshills/runner/internal/config"
)

const sampleConfig = `processes:
  - name: web
    command: python3
    args: ["-m", "http.server", "8000"]
  - name: ticker
    command: sh
    args: ["-c", "while true; do date; sleep 1; done"]
    cwd: /tmp
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidateListsProcesses(t *testing.T) {
	path := writeConfig(t, "runner.yaml", sampleConfig)

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 process(es), max_lines=10000, grace_period=200ms")
	assert.Contains(t, out, `1. web: python3 "-m" "http.server" "8000"`)
	assert.Contains(t, out, "2. ticker: sh")
	assert.Contains(t, out, "(cwd /tmp)")
}

func TestValidateRejectsTooManyProcesses(t *testing.T) {
	body := "processes:\n"
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		body += "  - {name: " + n + ", command: sh}\n"
	}
	path := writeConfig(t, "runner.yaml", body)

	_, err := execute(t, "validate", path)
	var bounds *config.BoundsError
	require.ErrorAs(t, err, &bounds)
	assert.Equal(t, 7, bounds.Count)
}

func TestValidateMissingFile(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestRootRejectsExtraArgs(t *testing.T) {
	_, err := execute(t, "a.yaml", "b.yaml")
	assert.Error(t, err)
}

func TestRootRunsDashboard(t *testing.T) {
	path := writeConfig(t, "runner.yaml", sampleConfig)

	var got *config.Config
	var gotOpts int
	cmd := newRootCommand(func(_ context.Context, cfg *config.Config, opts ...app.Option) error {
		got = cfg
		gotOpts = len(opts)
		return nil
	})
	cmd.SetArgs([]string{path, "--log-level", "debug", "--log-file", filepath.Join(t.TempDir(), "runner.log")})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.NotNil(t, got)
	assert.Equal(t, []string{"web", "ticker"}, got.Names())
	assert.Equal(t, path, got.Path)
	assert.Equal(t, 2, gotOpts)
}

func TestRootInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, "runner.yaml", sampleConfig)

	called := false
	cmd := newRootCommand(func(context.Context, *config.Config, ...app.Option) error {
		called = true
		return nil
	})
	cmd.SetArgs([]string{path, "--log-level", "loud"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "invalid log level")
	assert.False(t, called)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev (commit unknown, built unknown)")
}

func TestConfigPathDefault(t *testing.T) {
	assert.Equal(t, config.DefaultPath, configPath(nil))
	assert.Equal(t, "x.toml", configPath([]string{"x.toml"}))
}
