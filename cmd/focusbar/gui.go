package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"focusbar/internal/core/timer"
	"focusbar/internal/core/view"
	"focusbar/internal/notify"
	"focusbar/internal/ui/animation"
	"focusbar/internal/ui/popover"
	"focusbar/internal/ui/preferences"
	"focusbar/internal/ui/tray"
	"focusbar/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appID = "io.github.focusbar"

func runGUI(parent context.Context, opts options, rawURL string, logger *slog.Logger) error {
	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Warn("system tray unsupported on this platform, running headless")
		return runHeadless(parent, opts, rawURL, logger)
	}

	rt, err := newRuntime(opts, notify.NewFyne(fyneApp), logger)
	if err != nil {
		return fmt.Errorf("build runtime: %w", err)
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	rt.start(ctx)

	popoverWindow := popover.New(fyneApp, popover.Callbacks{
		OnToggle:      func() { rt.dispatch(timer.Toggle()) },
		OnReset:       func() { rt.dispatch(timer.Reset()) },
		OnAddMinute:   func() { rt.dispatch(timer.AddMinute()) },
		OnSetDuration: func(minutes int) { rt.dispatch(timer.SetDuration(minutes)) },
	})
	desktopApp.SetSystemTrayWindow(popoverWindow.FyneWindow())

	var trayManager *tray.Manager
	prefsWindow := preferences.New(fyneApp, rt.currentSettings(), func(updated preferences.Settings) {
		if err := rt.applySettings(updated); err != nil {
			logger.Warn("apply settings", "error", err)
		}
		trayManager.SetQuickStarts(updated.QuickStartPrimary, updated.QuickStartSecondary)
	})

	trayManager = tray.New(desktopApp, tray.Callbacks{
		OnToggle:     func() { rt.dispatch(timer.Toggle()) },
		OnReset:      func() { rt.dispatch(timer.Reset()) },
		OnAddMinute:  func() { rt.dispatch(timer.AddMinute()) },
		OnQuickStart: func(minutes int) { rt.dispatch(timer.SetCustomTime(minutes)) },
		OnCustom: func() {
			popoverWindow.Show()
			showCustomTime(popoverWindow.FyneWindow(), rt.currentSettings().CustomMinutes, func(minutes int) {
				updated := rt.currentSettings()
				updated.CustomMinutes = minutes
				if err := rt.applySettings(updated); err != nil {
					logger.Warn("save custom time", "error", err)
				}
				prefsWindow.UpdateSettings(updated)
				rt.dispatch(timer.SetCustomTime(minutes))
			})
		},
		OnShowTimer:   popoverWindow.Show,
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	}, func(projected view.View) fyne.Resource {
		return resources.TrayIcon(projected.Icon, projected.Tone)
	})
	settings := rt.currentSettings()
	trayManager.SetQuickStarts(settings.QuickStartPrimary, settings.QuickStartSecondary)

	pulse := animation.New(animation.DefaultConfig(), rt.clock, func(frame fyne.Resource) {
		fyne.Do(func() {
			trayManager.SetIconOverride(frame)
		})
	})
	go render(ctx, rt.service.Subscribe(1), pulse, trayManager, popoverWindow)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		select {
		case <-signals:
			fyne.Do(fyneApp.Quit)
		case <-stopped:
		}
	}()

	if rawURL != "" && !rt.router.HandleURL(rawURL) {
		logger.Warn("ignored command url", "url", rawURL)
	}

	fyneApp.Run()

	signal.Stop(signals)
	close(stopped)
	cancel()
	pulse.Stop()
	rt.close()
	return nil
}

// render projects every snapshot onto the tray and popover. The pulse
// engine runs while the timer sits in completed.
func render(ctx context.Context, updates <-chan timer.Snapshot, pulse *animation.Engine, trayManager *tray.Manager, popoverWindow *popover.Window) {
	pulsing := false
	for snapshot := range updates {
		projected := view.FromSnapshot(snapshot)
		completed := snapshot.State == timer.StateCompleted
		switch {
		case completed && !pulsing:
			pulse.Start(ctx, resources.PulseFrames())
			pulsing = true
		case !completed && pulsing:
			pulse.Stop()
			pulsing = false
		}

		fyne.Do(func() {
			if !completed {
				trayManager.SetIconOverride(nil)
			}
			trayManager.Render(projected)
			popoverWindow.Render(projected)
		})
	}
	pulse.Stop()
}

func showCustomTime(parent fyne.Window, current int, onConfirm func(minutes int)) {
	entry := widget.NewEntry()
	entry.SetText(fmt.Sprintf("%d", current))
	entry.Validator = func(value string) error {
		_, err := preferences.ParseMinutes(value)
		return err
	}

	form := dialog.NewForm("Custom time", "Start", "Cancel", []*widget.FormItem{
		widget.NewFormItem("Minutes", entry),
	}, func(confirmed bool) {
		if !confirmed {
			return
		}
		minutes, err := preferences.ParseMinutes(entry.Text)
		if err != nil {
			return
		}
		onConfirm(minutes)
	}, parent)
	form.Show()
}
