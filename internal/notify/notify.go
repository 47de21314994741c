// Package notify delivers completion notices to the desktop.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"focusbar/internal/core/timer"
)

const (
	notificationsService   = "org.freedesktop.Notifications"
	notificationsPath      = "/org/freedesktop/Notifications"
	notificationsInterface = "org.freedesktop.Notifications"

	defaultExpireMillis = 10000
	defaultCallTimeout  = 2 * time.Second
)

// BusObject is the subset of a D-Bus object used to post notifications.
type BusObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DBus posts notices through org.freedesktop.Notifications on the session
// bus. The connection is opened on first use and reused after that.
type DBus struct {
	appName string
	timeout time.Duration

	mu     sync.Mutex
	conn   *dbus.Conn
	object BusObject
	lastID uint32
}

// NewDBus returns a notifier that labels notices with appName.
func NewDBus(appName string) *DBus {
	return &DBus{appName: appName, timeout: defaultCallTimeout}
}

// NewDBusWithObject returns a notifier that posts to object directly.
func NewDBusWithObject(appName string, object BusObject) *DBus {
	return &DBus{appName: appName, timeout: defaultCallTimeout, object: object}
}

// Notify posts notice, replacing the previous notice from this process. The
// call gives up after the notifier's timeout when no daemon answers.
func (notifier *DBus) Notify(notice timer.Notice) error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()

	object, err := notifier.objectLocked()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifier.timeout)
	defer cancel()

	call := object.CallWithContext(ctx, notificationsInterface+".Notify", 0,
		notifier.appName,
		notifier.lastID,
		"alarm-symbolic",
		notice.Title,
		notice.Body,
		[]string{},
		map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(byte(1)),
		},
		int32(defaultExpireMillis),
	)
	if call.Err != nil {
		return fmt.Errorf("send notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err == nil {
		notifier.lastID = id
	}
	return nil
}

// Close releases the bus connection.
func (notifier *DBus) Close() error {
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.conn == nil {
		return nil
	}
	err := notifier.conn.Close()
	notifier.conn = nil
	notifier.object = nil
	return err
}

func (notifier *DBus) objectLocked() (BusObject, error) {
	if notifier.object != nil {
		return notifier.object, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	notifier.conn = conn
	notifier.object = conn.Object(notificationsService, notificationsPath)
	return notifier.object, nil
}

// Log writes notices to a logger. It stands in when no desktop is reachable.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a Log notifier.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify logs notice.
func (notifier *Log) Notify(notice timer.Notice) error {
	notifier.logger.Info(notice.Title, "body", notice.Body)
	return nil
}

// Fallback tries each notifier in order until one succeeds.
type Fallback []timer.Notifier

// Notify delivers notice through the first notifier that accepts it.
func (chain Fallback) Notify(notice timer.Notice) error {
	var lastErr error
	for _, notifier := range chain {
		if err := notifier.Notify(notice); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// Toggle drops notices while disabled.
type Toggle struct {
	next timer.Notifier

	mu      sync.Mutex
	enabled bool
}

// NewToggle wraps next; it starts enabled as given.
func NewToggle(next timer.Notifier, enabled bool) *Toggle {
	return &Toggle{next: next, enabled: enabled}
}

// SetEnabled turns delivery on or off.
func (toggle *Toggle) SetEnabled(enabled bool) {
	toggle.mu.Lock()
	toggle.enabled = enabled
	toggle.mu.Unlock()
}

// Notify forwards notice when enabled.
func (toggle *Toggle) Notify(notice timer.Notice) error {
	toggle.mu.Lock()
	enabled := toggle.enabled
	toggle.mu.Unlock()
	if !enabled {
		return nil
	}
	return toggle.next.Notify(notice)
}
