package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"focusbar/internal/core/timer"
	"focusbar/internal/notify"
)

// runHeadless serves the timer over the control socket until interrupted.
func runHeadless(parent context.Context, opts options, rawURL string, logger *slog.Logger) error {
	desktopNotifier := notify.NewDBus(appName)
	defer func() {
		_ = desktopNotifier.Close()
	}()

	rt, err := newRuntime(opts, notify.Fallback{desktopNotifier, notify.NewLog(logger)}, logger)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.start(ctx)
	defer rt.close()

	go logTransitions(rt.service.Subscribe(1), logger)

	if rawURL != "" && !rt.router.HandleURL(rawURL) {
		logger.Warn("ignored command url", "url", rawURL)
	}
	logger.Info("focusbar running", "socket", rt.server.SocketPath(), "store", opts.store)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

func logTransitions(updates <-chan timer.Snapshot, logger *slog.Logger) {
	var last timer.State
	for snapshot := range updates {
		if snapshot.State == last {
			continue
		}
		last = snapshot.State
		logger.Debug("timer state", "state", snapshot.State, "remaining", snapshot.RemainingSeconds, "sessions", snapshot.SessionsToday)
	}
}
