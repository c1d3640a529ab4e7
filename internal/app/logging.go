package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// LogConfig configures the application logger.
type LogConfig struct {
	// Path is the log file. Empty discards all log output, since the
	// terminal is owned by the dashboard.
	Path string

	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// JSON selects the JSON formatter instead of logfmt-style text.
	JSON bool
}

// NewLogger builds a logger from cfg. The returned close function releases
// the log file and must be called once logging is finished.
func NewLogger(cfg LogConfig) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		l, err := log.ParseLevel(strings.ToLower(s))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = l
	}

	var (
		out     io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05.000",
		Level:           level,
		Prefix:          "runner",
	})
	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	} else {
		logger.SetFormatter(log.TextFormatter)
	}
	return logger, closeFn, nil
}
