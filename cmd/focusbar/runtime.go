package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"focusbar/internal/command"
	"focusbar/internal/core/clock"
	"focusbar/internal/core/model"
	"focusbar/internal/core/session"
	"focusbar/internal/core/timer"
	"focusbar/internal/ipc"
	"focusbar/internal/notify"
	"focusbar/internal/platform"
	"focusbar/internal/storage"
	"focusbar/internal/ui/preferences"
)

// runtime is everything both front ends share: persisted state, the timer
// loop and its command ingress.
type runtime struct {
	options      options
	logger       *slog.Logger
	clock        clock.Clock
	settingsPath string

	mu       sync.Mutex
	settings preferences.Settings

	store     *storage.Buffered
	tracker   *session.Tracker
	chime     *platform.Chime
	notices   *notify.Toggle
	autostart platform.Autostart
	service   *timer.Service
	router    *command.Router
	server    *ipc.Server
	bus       *ipc.DBusExport

	cancel context.CancelFunc
	done   chan struct{}
}

func newRuntime(opts options, notifier timer.Notifier, logger *slog.Logger) (*runtime, error) {
	settingsPath, err := opts.path(settingsFile)
	if err != nil {
		return nil, err
	}
	settings, err := storage.LoadSettingsFile(settingsPath)
	if err != nil {
		logger.Warn("load settings, using defaults", "path", settingsPath, "error", err)
	}

	source := opts.clock
	if source == nil {
		source = clock.Real()
	}

	store := storage.NewBuffered(openStore(opts, logger), logger)
	tracker := session.NewTracker(store, source, logger)

	chime := platform.NewChime(logger)
	chime.SetEnabled(settings.ChimeEnabled)
	notices := notify.NewToggle(notifier, settings.NotificationsEnabled)

	service := timer.NewService(
		model.ServiceConfig{TickInterval: time.Second},
		settings.TimerConfig(),
		source,
		timer.Dependencies{
			Sessions:  tracker,
			Notifier:  notices,
			Chime:     chime,
			Durations: storage.NewDurations(store, timer.DefaultMinutes),
			Logger:    logger,
		},
	)
	router := command.NewRouter(service, logger)

	return &runtime{
		options:      opts,
		logger:       logger,
		clock:        source,
		settingsPath: settingsPath,
		settings:     settings,
		store:        store,
		tracker:      tracker,
		chime:        chime,
		notices:      notices,
		autostart:    platform.NewAutostart(appName),
		service:      service,
		router:       router,
		server:       ipc.NewServer(opts.socketPath, ipc.NewController(router, service), logger),
	}, nil
}

// openStore opens the configured state backend. Any failure falls back to
// memory so the timer still runs with defaults.
func openStore(opts options, logger *slog.Logger) storage.Store {
	var (
		store storage.Store
		path  string
		err   error
	)
	fileName := stateYAMLFile
	if opts.store == "sqlite" {
		fileName = stateSQLiteFile
	}
	if path, err = opts.path(fileName); err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o700)
	}
	if err == nil {
		if opts.store == "sqlite" {
			store, err = storage.OpenSQLite(path)
		} else {
			store, err = storage.OpenYAML(path)
		}
	}
	if err != nil {
		logger.Warn("open state store, keeping state in memory", "store", opts.store, "path", path, "error", err)
		return storage.NewMemory()
	}
	logger.Debug("state store opened", "store", opts.store, "path", path)
	return store
}

func (rt *runtime) start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	rt.cancel = cancel
	rt.done = make(chan struct{})
	go func() {
		defer close(rt.done)
		if err := rt.service.Run(ctx); err != nil && ctx.Err() == nil {
			rt.logger.Error("timer loop stopped", "error", err)
		}
	}()

	if err := rt.server.Start(); err != nil {
		rt.logger.Warn("control socket unavailable", "error", err)
	}
	if rt.options.dbus {
		bus, err := ipc.ExportDBus(ipc.NewDBusController(ipc.NewController(rt.router, rt.service)))
		if err != nil {
			rt.logger.Warn("d-bus controller unavailable", "error", err)
		} else {
			rt.bus = bus
		}
	}
}

func (rt *runtime) close() {
	rt.server.Stop()
	if err := rt.bus.Close(); err != nil {
		rt.logger.Debug("close d-bus connection", "error", err)
	}
	if rt.cancel != nil {
		rt.cancel()
		<-rt.done
	}
	if err := rt.store.Close(); err != nil {
		rt.logger.Warn("close state store", "error", err)
	}
}

// currentSettings returns a copy of the live settings.
func (rt *runtime) currentSettings() preferences.Settings {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.settings
}

// applySettings makes updated live and writes it to disk.
func (rt *runtime) applySettings(updated preferences.Settings) error {
	rt.mu.Lock()
	previous := rt.settings
	rt.settings = updated
	rt.mu.Unlock()

	rt.chime.SetEnabled(updated.ChimeEnabled)
	rt.notices.SetEnabled(updated.NotificationsEnabled)
	if updated.TickCueSeconds != previous.TickCueSeconds {
		if err := rt.service.SetTickCue(updated.TickCueSeconds); err != nil {
			rt.logger.Debug("apply tick cue", "error", err)
		}
	}
	if updated.LaunchAtLogin != previous.LaunchAtLogin {
		if err := platform.Sync(rt.autostart, updated.LaunchAtLogin); err != nil {
			rt.logger.Warn("update launch at login", "error", err)
		}
	}

	if err := storage.SaveSettingsFile(rt.settingsPath, updated); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (rt *runtime) dispatch(cmd timer.Command) {
	if err := rt.service.Dispatch(cmd); err != nil {
		rt.logger.Debug("dispatch", "kind", cmd.Kind, "error", err)
	}
}
