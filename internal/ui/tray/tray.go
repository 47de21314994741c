package tray

import (
	"fmt"

	"fyne.io/fyne/v2"

	"focusbar/internal/core/timer"
	"focusbar/internal/core/view"
)

const menuTitle = "FocusBar"

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnAddMinute   func()
	OnQuickStart  func(minutes int)
	OnCustom      func()
	OnShowTimer   func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app       App
	callbacks Callbacks
	icon      func(view.View) fyne.Resource

	statusItem   *fyne.MenuItem
	sessionsItem *fyne.MenuItem
	toggleItem   *fyne.MenuItem
	resetItem    *fyne.MenuItem
	addItem      *fyne.MenuItem
	quickItems   [2]*fyne.MenuItem
	quickMinutes [2]int

	current  view.View
	menu     *fyne.Menu
	override fyne.Resource
}

// New creates a tray manager. icon picks the tray image for a view.
func New(app App, callbacks Callbacks, icon func(view.View) fyne.Resource) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		icon:      icon,
	}

	manager.statusItem = fyne.NewMenuItem("Ready", nil)
	manager.statusItem.Disabled = true
	manager.sessionsItem = fyne.NewMenuItem(SessionsLabel(0), nil)
	manager.sessionsItem.Disabled = true

	manager.toggleItem = fyne.NewMenuItem("Start", call(&manager.callbacks.OnToggle))
	manager.resetItem = fyne.NewMenuItem("Reset", call(&manager.callbacks.OnReset))
	manager.addItem = fyne.NewMenuItem("+1 minute", call(&manager.callbacks.OnAddMinute))

	for index := range manager.quickItems {
		slot := index
		manager.quickItems[slot] = fyne.NewMenuItem("", func() {
			if manager.callbacks.OnQuickStart != nil {
				manager.callbacks.OnQuickStart(manager.quickMinutes[slot])
			}
		})
	}
	manager.SetQuickStarts(25, 5)

	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		manager.sessionsItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		manager.addItem,
		fyne.NewMenuItemSeparator(),
		manager.quickItems[0],
		manager.quickItems[1],
		fyne.NewMenuItem("Custom time...", call(&manager.callbacks.OnCustom)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show timer", call(&manager.callbacks.OnShowTimer)),
		fyne.NewMenuItem("Preferences...", call(&manager.callbacks.OnPreferences)),
		fyne.NewMenuItem("Quit", call(&manager.callbacks.OnQuit)),
	)

	manager.Render(view.Project(timer.StateIdle, 0, 0, 0))
	return manager
}

// Menu returns the tray menu.
func (manager *Manager) Menu() *fyne.Menu { return manager.menu }

// SetQuickStarts sets the two quick-start durations.
func (manager *Manager) SetQuickStarts(primary, secondary int) {
	manager.quickMinutes = [2]int{primary, secondary}
	for index, item := range manager.quickItems {
		item.Label = fmt.Sprintf("Start %s", view.DurationLabel(manager.quickMinutes[index]))
	}
	manager.refreshMenu()
}

// Render updates labels, enabled items and the icon for projected.
func (manager *Manager) Render(projected view.View) {
	manager.current = projected

	manager.statusItem.Label = StatusLabel(projected)
	manager.sessionsItem.Label = SessionsLabel(projected.SessionsToday)
	manager.toggleItem.Label = ToggleLabel(projected.State)
	manager.resetItem.Disabled = projected.State == timer.StateIdle
	manager.addItem.Disabled = !projected.State.Active()

	manager.refreshMenu()
	manager.refreshIcon()
}

// SetIconOverride shows resource instead of the state icon; nil clears it.
func (manager *Manager) SetIconOverride(resource fyne.Resource) {
	manager.override = resource
	manager.refreshIcon()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil && manager.menu != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func (manager *Manager) refreshIcon() {
	if manager.app == nil {
		return
	}
	if manager.override != nil {
		manager.app.SetSystemTrayIcon(manager.override)
		return
	}
	if manager.icon != nil {
		manager.app.SetSystemTrayIcon(manager.icon(manager.current))
	}
}

// StatusLabel is the first, read-only menu line.
func StatusLabel(projected view.View) string {
	switch projected.State {
	case timer.StateRunning:
		return fmt.Sprintf("Focusing: %s left", projected.MenuLabel)
	case timer.StatePaused:
		return fmt.Sprintf("Paused: %s left", projected.MenuLabel)
	case timer.StateCompleted:
		return "Time's up!"
	default:
		return fmt.Sprintf("Ready: %s", view.DurationLabel(projected.TotalSeconds/60))
	}
}

// SessionsLabel describes today's completed sessions.
func SessionsLabel(count int) string {
	switch count {
	case 0:
		return "No sessions yet"
	case 1:
		return "1 session today"
	default:
		return fmt.Sprintf("%d sessions today", count)
	}
}

// ToggleLabel names what the primary action does in state.
func ToggleLabel(state timer.State) string {
	switch state {
	case timer.StateRunning:
		return "Pause"
	case timer.StatePaused:
		return "Resume"
	case timer.StateCompleted:
		return "Dismiss"
	default:
		return "Start"
	}
}

func call(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}
