package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"focusbar/internal/command"
	"focusbar/internal/core/clock"
	"focusbar/internal/ipc"
	"focusbar/internal/platform"
	"focusbar/internal/storage"

	"github.com/spf13/cobra"
)

const appName = "FocusBar"

const (
	settingsFile    = "settings.yaml"
	stateYAMLFile   = "state.yaml"
	stateSQLiteFile = "state.sqlite"
)

type options struct {
	headless   bool
	store      string
	socketPath string
	dbus       bool
	verbose    bool
	configDir  string

	clock clock.Clock
}

func (opts options) path(fileName string) (string, error) {
	if opts.configDir != "" {
		return filepath.Join(opts.configDir, fileName), nil
	}
	return storage.ResolvePath(appName, fileName)
}

func newRootCommand() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "focusbar [command-url]",
		Short: "FocusBar is a focus timer that lives in the system tray",
		Long: `FocusBar counts down focus sessions from the system tray.

A running instance can be driven with command URLs such as focusbar://start/15,
through focusctl, or over D-Bus.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rawURL := ""
			if len(args) == 1 {
				rawURL = args[0]
			}
			if opts.store != "yaml" && opts.store != "sqlite" {
				return fmt.Errorf("unknown store %q: use yaml or sqlite", opts.store)
			}
			if opts.socketPath == "" {
				opts.socketPath = ipc.DefaultSocketPath(appName)
			}
			return run(cmd.Context(), opts, rawURL, newLogger(cmd.ErrOrStderr(), opts.verbose))
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.headless, "headless", false, "run without a tray icon")
	flags.StringVar(&opts.store, "store", "yaml", "state backend: yaml or sqlite")
	flags.StringVar(&opts.socketPath, "socket", "", "control socket path")
	flags.BoolVar(&opts.dbus, "dbus", false, "export the timer on the D-Bus session bus")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.configDir, "config-dir", "", "directory for settings and state")

	return cmd
}

func newLogger(output io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
}

func run(ctx context.Context, opts options, rawURL string, logger *slog.Logger) error {
	lock, err := platform.AcquireInstanceLock(appName)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		return forward(opts.socketPath, rawURL, logger)
	}
	if err != nil {
		return fmt.Errorf("single instance: %w", err)
	}
	defer func() {
		_ = lock.Release()
	}()

	if opts.headless {
		return runHeadless(ctx, opts, rawURL, logger)
	}
	return runGUI(ctx, opts, rawURL, logger)
}

// forward hands rawURL to the instance that already holds the lock.
func forward(socketPath, rawURL string, logger *slog.Logger) error {
	if rawURL == "" {
		logger.Info("already running")
		return nil
	}

	name, param, ok := command.ParseURL(rawURL)
	if !ok {
		return fmt.Errorf("unrecognized command url %q", rawURL)
	}
	response, err := ipc.SendOnce(socketPath, ipc.Request{Cmd: name, Arg: param})
	if err != nil {
		return fmt.Errorf("forward to running instance: %w", err)
	}
	logger.Info("forwarded command", "cmd", name, "state", response.State, "remaining", response.Display)
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
