package preferences

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focusbar/internal/core/timer"
)

var tickCueOptions = []string{"Off", "3 seconds", "5 seconds", "10 seconds"}

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	primary       *widget.Entry
	secondary     *widget.Entry
	custom        *widget.Entry
	tickCue       *widget.Select
	chime         *widget.Check
	notifications *widget.Check
	launch        *widget.Check
	errorLabel    *widget.Label
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("FocusBar Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		primary:       widget.NewEntry(),
		secondary:     widget.NewEntry(),
		custom:        widget.NewEntry(),
		tickCue:       widget.NewSelect(append([]string(nil), tickCueOptions...), nil),
		chime:         widget.NewCheck("Play a sound when a session ends", nil),
		notifications: widget.NewCheck("Show a notification when a session ends", nil),
		launch:        widget.NewCheck("Launch at login", nil),
		errorLabel:    widget.NewLabel(""),
	}
	prefs.errorLabel.Importance = widget.DangerImportance
	prefs.errorLabel.Hide()

	minutesHint := fmt.Sprintf("min (%d-%d)", timer.MinMinutes, timer.MaxMinutes)
	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("First quick start"), prefs.primary, widget.NewLabel(minutesHint)),
		container.NewHBox(widget.NewLabel("Second quick start"), prefs.secondary, widget.NewLabel(minutesHint)),
		container.NewHBox(widget.NewLabel("Custom time"), prefs.custom, widget.NewLabel(minutesHint)),
		widget.NewLabelWithStyle("Alerts", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.chime,
		container.NewHBox(widget.NewLabel("Tick during the final"), prefs.tickCue),
		prefs.notifications,
		widget.NewLabelWithStyle("System", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		prefs.launch,
		prefs.errorLabel,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(440, 380))

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.primary.SetText(strconv.Itoa(settings.QuickStartPrimary))
	prefs.secondary.SetText(strconv.Itoa(settings.QuickStartSecondary))
	prefs.custom.SetText(strconv.Itoa(settings.CustomMinutes))
	label := tickCueLabel(settings.TickCueSeconds)
	if !slices.Contains(prefs.tickCue.Options, label) {
		prefs.tickCue.Options = append(prefs.tickCue.Options, label)
	}
	prefs.tickCue.SetSelected(label)
	prefs.chime.SetChecked(settings.ChimeEnabled)
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
	prefs.launch.SetChecked(settings.LaunchAtLogin)
	prefs.errorLabel.Hide()
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		prefs.errorLabel.Show()
		return
	}
	prefs.errorLabel.Hide()

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *Window) collect() (Settings, error) {
	settings := prefs.settings

	fields := []struct {
		name   string
		text   string
		target *int
	}{
		{"First quick start", prefs.primary.Text, &settings.QuickStartPrimary},
		{"Second quick start", prefs.secondary.Text, &settings.QuickStartSecondary},
		{"Custom time", prefs.custom.Text, &settings.CustomMinutes},
	}
	for _, field := range fields {
		minutes, err := ParseMinutes(field.text)
		if err != nil {
			return prefs.settings, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.target = minutes
	}

	settings.TickCueSeconds = tickCueSeconds(prefs.tickCue.Selected)
	settings.ChimeEnabled = prefs.chime.Checked
	settings.NotificationsEnabled = prefs.notifications.Checked
	settings.LaunchAtLogin = prefs.launch.Checked
	return settings, nil
}

// ParseMinutes parses a run length typed by the user.
func ParseMinutes(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("enter a whole number of minutes")
	}
	if !timer.ValidMinutes(parsed) {
		return 0, fmt.Errorf("must be between %d and %d minutes", timer.MinMinutes, timer.MaxMinutes)
	}
	return parsed, nil
}

func tickCueLabel(seconds int) string {
	if seconds <= 0 {
		return tickCueOptions[0]
	}
	return fmt.Sprintf("%d seconds", seconds)
}

func tickCueSeconds(label string) int {
	var seconds int
	if _, err := fmt.Sscanf(label, "%d seconds", &seconds); err != nil {
		return 0
	}
	return seconds
}
