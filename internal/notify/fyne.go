package notify

import (
	"fyne.io/fyne/v2"

	"focusbar/internal/core/timer"
)

// Fyne posts notices through the running fyne application.
type Fyne struct {
	app fyne.App
}

// NewFyne returns a notifier bound to app.
func NewFyne(app fyne.App) *Fyne {
	return &Fyne{app: app}
}

// Notify queues notice on the fyne goroutine.
func (notifier *Fyne) Notify(notice timer.Notice) error {
	fyne.Do(func() {
		notifier.app.SendNotification(fyne.NewNotification(notice.Title, notice.Body))
	})
	return nil
}
