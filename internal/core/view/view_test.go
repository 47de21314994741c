package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"focusbar/internal/core/timer"
)

func TestFractions(t *testing.T) {
	assert.InDelta(t, 0.25, ElapsedFraction(1200, 900), 1e-9)
	assert.InDelta(t, 0.75, RemainingFraction(1200, 900), 1e-9)

	assert.Zero(t, ElapsedFraction(0, 0))
	assert.Equal(t, 1.0, RemainingFraction(0, 0))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "25:00", Display(1500))
	assert.Equal(t, "04:05", Display(245))
	assert.Equal(t, "00:00", Display(0))
	assert.Equal(t, "120:00", Display(7200))
}

func TestMenuLabel(t *testing.T) {
	cases := map[int]string{
		1500: "25m",
		245:  "4:05",
		60:   "1m",
		59:   "59s",
		0:    "0s",
	}
	for seconds, want := range cases {
		assert.Equal(t, want, MenuLabel(seconds), "seconds=%d", seconds)
	}
}

func TestToneThresholds(t *testing.T) {
	assert.Equal(t, ToneNominal, ToneFor(timer.StateRunning, 100, 41))
	assert.Equal(t, ToneWarning, ToneFor(timer.StateRunning, 100, 40))
	assert.Equal(t, ToneWarning, ToneFor(timer.StateRunning, 100, 21))
	assert.Equal(t, ToneUrgent, ToneFor(timer.StateRunning, 100, 20))
	assert.Equal(t, ToneNominal, ToneFor(timer.StateIdle, 1500, 1500))
}

func TestToneStateOverrides(t *testing.T) {
	assert.Equal(t, TonePaused, ToneFor(timer.StatePaused, 100, 5))
	assert.Equal(t, ToneCompleted, ToneFor(timer.StateCompleted, 100, 0))
}

func TestProjectFromSnapshot(t *testing.T) {
	projected := FromSnapshot(timer.Snapshot{
		State:            timer.StatePaused,
		TotalSeconds:     1500,
		RemainingSeconds: 600,
		SessionsToday:    3,
	})

	assert.Equal(t, "10:00", projected.Display)
	assert.Equal(t, "10m", projected.MenuLabel)
	assert.Equal(t, TonePaused, projected.Tone)
	assert.Equal(t, IconPaused, projected.Icon)
	assert.Equal(t, 3, projected.SessionsToday)
	assert.InDelta(t, 0.6, projected.ElapsedFraction, 1e-9)
	assert.Equal(t, projected, Project(timer.StatePaused, 1500, 600, 3))
}

func TestDurationLabel(t *testing.T) {
	assert.Equal(t, "5 min", DurationLabel(5))
	assert.Equal(t, "1 hour", DurationLabel(60))
	assert.Equal(t, "1h 30m", DurationLabel(90))
	assert.Equal(t, "2 hours", DurationLabel(120))
}
