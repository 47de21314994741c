package popover

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focusbar/internal/core/timer"
	"focusbar/internal/core/view"
)

const maxDots = 8

var (
	primaryDurations = []int{5, 10, 15, 20, 25, 30, 45, 60}
	moreDurations    = []int{1, 2, 3, 90, 120}
)

var (
	dotFilled = color.NRGBA{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF}
	dotEmpty  = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x4D}
)

// Callbacks defines popover action handlers.
type Callbacks struct {
	OnToggle      func()
	OnReset       func()
	OnAddMinute   func()
	OnSetDuration func(minutes int)
}

// Controls describes which controls are usable in a state.
type Controls struct {
	ResetEnabled    bool
	AddEnabled      bool
	DurationEnabled bool
	Playing         bool
}

// Window is the timer panel opened from the tray.
type Window struct {
	window    fyne.Window
	callbacks Callbacks

	timeText     *canvas.Text
	stateLabel   *widget.Label
	progress     *widget.ProgressBar
	resetButton  *widget.Button
	toggleButton *widget.Button
	addButton    *widget.Button
	duration     *widget.Select
	durationHint *widget.Label
	dots         []*canvas.Circle
	overflow     *widget.Label
	caption      *widget.Label

	rendering bool
}

// New creates the popover window. It starts hidden.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("FocusBar")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	popover := &Window{
		window:       window,
		callbacks:    callbacks,
		timeText:     canvas.NewText("25:00", theme.Color(theme.ColorNameForeground)),
		stateLabel:   widget.NewLabel(""),
		progress:     widget.NewProgressBar(),
		durationHint: widget.NewLabel("Reset to change"),
		overflow:     widget.NewLabel(""),
		caption:      widget.NewLabel(SessionCaption(0)),
	}
	popover.timeText.TextSize = 44
	popover.timeText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	popover.timeText.Alignment = fyne.TextAlignCenter
	popover.stateLabel.Alignment = fyne.TextAlignCenter
	popover.progress.TextFormatter = func() string { return "" }

	popover.resetButton = widget.NewButtonWithIcon("", theme.MediaReplayIcon(), func() { invoke(popover.callbacks.OnReset) })
	popover.toggleButton = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), func() { invoke(popover.callbacks.OnToggle) })
	popover.toggleButton.Importance = widget.HighImportance
	popover.addButton = widget.NewButton("+1m", func() { invoke(popover.callbacks.OnAddMinute) })

	options := make([]string, 0, len(primaryDurations)+len(moreDurations))
	for _, minutes := range DurationOptions() {
		options = append(options, view.DurationLabel(minutes))
	}
	popover.duration = widget.NewSelect(options, popover.handleDuration)

	dotObjects := make([]fyne.CanvasObject, 0, maxDots)
	for index := 0; index < maxDots; index++ {
		dot := canvas.NewCircle(dotEmpty)
		popover.dots = append(popover.dots, dot)
		dotObjects = append(dotObjects, dot)
	}

	controls := container.NewHBox(layout.NewSpacer(), popover.resetButton, popover.toggleButton, popover.addButton, layout.NewSpacer())
	durationRow := container.NewBorder(nil, nil, widget.NewLabel("Duration"), popover.durationHint)
	sessions := container.NewHBox(
		container.NewGridWrap(fyne.NewSize(8, 8), dotObjects...),
		popover.overflow,
		popover.caption,
	)

	window.SetContent(container.NewVBox(
		popover.timeText,
		popover.stateLabel,
		popover.progress,
		controls,
		widget.NewSeparator(),
		durationRow,
		popover.duration,
		widget.NewSeparator(),
		sessions,
	))
	window.Resize(fyne.NewSize(280, 0))
	window.SetFixedSize(true)
	window.SetCloseIntercept(window.Hide)

	window.Canvas().SetOnTypedKey(func(event *fyne.KeyEvent) {
		if event.Name == fyne.KeySpace {
			invoke(popover.callbacks.OnToggle)
		}
	})
	window.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierShortcutDefault}, func(fyne.Shortcut) {
		invoke(popover.callbacks.OnReset)
	})

	return popover
}

// FyneWindow returns the underlying window.
func (popover *Window) FyneWindow() fyne.Window { return popover.window }

// Show displays the popover.
func (popover *Window) Show() {
	popover.window.Show()
	popover.window.RequestFocus()
}

// Hide hides the popover.
func (popover *Window) Hide() {
	popover.window.Hide()
}

// Render updates every widget for projected. Call it on the fyne goroutine.
func (popover *Window) Render(projected view.View) {
	popover.rendering = true
	defer func() { popover.rendering = false }()

	popover.timeText.Text = projected.Display
	popover.timeText.Color = ToneColor(projected.Tone)
	popover.timeText.Refresh()
	popover.stateLabel.SetText(StateCaption(projected.State))
	popover.progress.SetValue(projected.ElapsedFraction)

	controls := ControlsFor(projected.State)
	setEnabled(popover.resetButton, controls.ResetEnabled)
	setEnabled(popover.addButton, controls.AddEnabled)
	if controls.Playing {
		popover.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		popover.toggleButton.SetIcon(theme.MediaPlayIcon())
	}

	if controls.DurationEnabled {
		popover.duration.Enable()
		popover.durationHint.Hide()
	} else {
		popover.duration.Disable()
		popover.durationHint.Show()
	}
	popover.duration.SetSelected(view.DurationLabel(projected.TotalSeconds / 60))

	visible, filled, overflow := SessionDots(projected.SessionsToday)
	for index, dot := range popover.dots {
		if index >= visible {
			dot.Hide()
			continue
		}
		dot.Show()
		if index < filled {
			dot.FillColor = dotFilled
		} else {
			dot.FillColor = dotEmpty
		}
		dot.Refresh()
	}
	popover.overflow.SetText(overflow)
	popover.caption.SetText(SessionCaption(projected.SessionsToday))
}

func (popover *Window) handleDuration(label string) {
	if popover.rendering || popover.callbacks.OnSetDuration == nil {
		return
	}
	for _, minutes := range DurationOptions() {
		if view.DurationLabel(minutes) == label {
			popover.callbacks.OnSetDuration(minutes)
			return
		}
	}
}

// DurationOptions lists the durations offered in the picker.
func DurationOptions() []int {
	return append(append([]int(nil), primaryDurations...), moreDurations...)
}

// ControlsFor returns the control availability for state.
func ControlsFor(state timer.State) Controls {
	return Controls{
		ResetEnabled:    state != timer.StateIdle,
		AddEnabled:      state.Active(),
		DurationEnabled: state == timer.StateIdle,
		Playing:         state == timer.StateRunning,
	}
}

// SessionDots returns how many dots to draw, how many of them are filled and
// the overflow text beyond the dot limit.
func SessionDots(count int) (visible, filled int, overflow string) {
	visible = min(max(count, 1), maxDots)
	filled = min(count, maxDots)
	if count > maxDots {
		overflow = fmt.Sprintf("+%d", count-maxDots)
	}
	return visible, filled, overflow
}

// SessionCaption labels the session counter.
func SessionCaption(count int) string {
	if count <= 0 {
		return "No sessions yet"
	}
	return fmt.Sprintf("Session #%d", count)
}

// StateCaption is the short line under the clock.
func StateCaption(state timer.State) string {
	switch state {
	case timer.StateRunning:
		return "Focusing"
	case timer.StatePaused:
		return "Paused"
	case timer.StateCompleted:
		return "Time's up!"
	default:
		return "Ready"
	}
}

// ToneColor maps a tone to its display color.
func ToneColor(tone view.Tone) color.Color {
	switch tone {
	case view.ToneWarning:
		return color.NRGBA{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF}
	case view.ToneUrgent:
		return color.NRGBA{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF}
	case view.TonePaused:
		return color.NRGBA{R: 0xF9, G: 0x73, B: 0x16, A: 0xFF}
	case view.ToneCompleted:
		return dotFilled
	default:
		return color.NRGBA{R: 0x0D, G: 0x94, B: 0x88, A: 0xFF}
	}
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}
