// Package main is the entry point for runner, a terminal dashboard that
// supervises a small set of child processes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/runner/internal/app"
	"github.com/dshills/runner/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

// shutdownSignals end the dashboard through its normal teardown path.
// SIGHUP arrives when the controlling terminal goes away. The children lead
// their own process groups, so the hangup never reaches them directly.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}

func run() int {
	ctx, stop := notifyShutdown(context.Background())
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// notifyShutdown returns a context cancelled by the first shutdown signal.
func notifyShutdown(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

type rootOptions struct {
	logFile  string
	logLevel string
	logJSON  bool
	watch    bool
}

// runFunc runs the dashboard for a loaded configuration.
type runFunc func(ctx context.Context, cfg *config.Config, opts ...app.Option) error

func newRootCmd() *cobra.Command {
	return newRootCommand(runDashboard)
}

func newRootCommand(runApp runFunc) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "runner [config]",
		Short: "Run and watch a handful of processes side by side",
		Long: `runner starts the processes listed in a YAML (or .toml) file, shows
their merged output in stacked panes and lets you stop and restart each one.

Keys: q quit, 1-9 toggle a process, Up/Down scroll.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(args))
			if err != nil {
				return err
			}

			logger, closeLog, err := app.NewLogger(app.LogConfig{
				Path:  opts.logFile,
				Level: opts.logLevel,
				JSON:  opts.logJSON,
			})
			if err != nil {
				return err
			}
			defer closeLog()

			return runApp(cmd.Context(), cfg,
				app.WithLogger(logger),
				app.WithConfigWatch(opts.watch),
			)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file (discarded when empty)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")
	flags.BoolVar(&opts.watch, "watch-config", true, "show a notice when the config file changes")

	root.AddCommand(newValidateCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config]",
		Short: "Check a config file and list its processes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(args))
			if err != nil {
				return err
			}
			printProcesses(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func runDashboard(ctx context.Context, cfg *config.Config, opts ...app.Option) error {
	return app.New(cfg, opts...).Run(ctx)
}

func configPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return config.DefaultPath
}

func printProcesses(w io.Writer, cfg *config.Config) {
	fmt.Fprintf(w, "%s: %d process(es), max_lines=%d, grace_period=%s\n",
		cfg.Path, len(cfg.Processes), cfg.MaxLines, cfg.Grace())
	for i, p := range cfg.Processes {
		fmt.Fprintf(w, "  %d. %s: %s", i+1, p.Name, p.Command)
		for _, a := range p.Args {
			fmt.Fprintf(w, " %q", a)
		}
		if p.Cwd != "" {
			fmt.Fprintf(w, " (cwd %s)", p.Cwd)
		}
		fmt.Fprintln(w)
	}
}
