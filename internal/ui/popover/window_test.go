package popover

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"focusbar/internal/core/timer"
	"focusbar/internal/core/view"
)

func TestSessionDots(t *testing.T) {
	visible, filled, overflow := SessionDots(0)
	assert.Equal(t, 1, visible)
	assert.Zero(t, filled)
	assert.Empty(t, overflow)

	visible, filled, overflow = SessionDots(3)
	assert.Equal(t, 3, visible)
	assert.Equal(t, 3, filled)
	assert.Empty(t, overflow)

	visible, filled, overflow = SessionDots(11)
	assert.Equal(t, 8, visible)
	assert.Equal(t, 8, filled)
	assert.Equal(t, "+3", overflow)
}

func TestSessionCaption(t *testing.T) {
	assert.Equal(t, "No sessions yet", SessionCaption(0))
	assert.Equal(t, "Session #4", SessionCaption(4))
}

func TestControlsFor(t *testing.T) {
	assert.Equal(t, Controls{DurationEnabled: true}, ControlsFor(timer.StateIdle))
	assert.Equal(t, Controls{ResetEnabled: true, AddEnabled: true, Playing: true}, ControlsFor(timer.StateRunning))
	assert.Equal(t, Controls{ResetEnabled: true, AddEnabled: true}, ControlsFor(timer.StatePaused))
	assert.Equal(t, Controls{ResetEnabled: true}, ControlsFor(timer.StateCompleted))
}

func TestDurationOptions(t *testing.T) {
	options := DurationOptions()
	assert.Len(t, options, 13)
	assert.Contains(t, options, 25)
	assert.Contains(t, options, 120)
}

func TestRenderAndButtons(t *testing.T) {
	app := test.NewTempApp(t)

	var toggles, resets, adds int
	var durations []int
	popover := New(app, Callbacks{
		OnToggle:      func() { toggles++ },
		OnReset:       func() { resets++ },
		OnAddMinute:   func() { adds++ },
		OnSetDuration: func(minutes int) { durations = append(durations, minutes) },
	})

	popover.Render(view.Project(timer.StateIdle, 1500, 1500, 0))
	assert.Equal(t, "25:00", popover.timeText.Text)
	assert.True(t, popover.resetButton.Disabled())
	assert.False(t, popover.duration.Disabled())
	assert.Empty(t, durations, "rendering must not echo a duration change")

	popover.duration.SetSelected("45 min")
	assert.Equal(t, []int{45}, durations)

	test.Tap(popover.toggleButton)
	assert.Equal(t, 1, toggles)

	popover.Render(view.Project(timer.StateRunning, 2700, 2600, 2))
	assert.Equal(t, "43:20", popover.timeText.Text)
	assert.Equal(t, ToneColor(view.ToneNominal), popover.timeText.Color)
	assert.True(t, popover.duration.Disabled())
	assert.Equal(t, "Session #2", popover.caption.Text)

	test.Tap(popover.addButton)
	test.Tap(popover.resetButton)
	assert.Equal(t, 1, adds)
	assert.Equal(t, 1, resets)
}
