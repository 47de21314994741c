package notify

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"

	"focusbar/internal/core/timer"
)

func TestFyneSendsNotification(t *testing.T) {
	app := test.NewTempApp(t)
	notifier := NewFyne(app)

	test.AssertNotificationSent(t, fyne.NewNotification("Time's Up!", "Session #1 complete. Great work!"), func() {
		assert.NoError(t, notifier.Notify(timer.Notice{Title: "Time's Up!", Body: "Session #1 complete. Great work!"}))
	})
}
