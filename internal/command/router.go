// Package command maps named external commands onto timer commands.
package command

import (
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"focusbar/internal/core/timer"
)

// Command names accepted by the router.
const (
	NameStart       = "start"
	NameToggle      = "toggle"
	NamePause       = "pause"
	NameResume      = "resume"
	NameReset       = "reset"
	NameAddMinute   = "add-minute"
	NameSetDuration = "set-duration"
)

// URL schemes accepted by HandleURL. "pomo" is kept for older launchers.
var schemes = map[string]bool{
	"focusbar": true,
	"pomo":     true,
}

// Named start presets.
var presets = map[string]int{
	"focus":       25,
	"deep-work":   45,
	"deepwork":    45,
	"short-break": 5,
	"shortbreak":  5,
	"long-break":  15,
	"longbreak":   15,
}

// Dispatcher receives resolved timer commands.
type Dispatcher interface {
	Dispatch(command timer.Command) error
}

// Router translates ingress commands. It holds no timer state and is safe
// for concurrent use.
type Router struct {
	target Dispatcher
	logger *slog.Logger
}

// NewRouter returns a Router that dispatches to target.
func NewRouter(target Dispatcher, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{target: target, logger: logger}
}

// Handle resolves name and param and dispatches the result. It reports
// whether a command was dispatched; unknown or malformed input is dropped.
func (router *Router) Handle(name, param string) bool {
	command, ok := Resolve(name, param)
	if !ok {
		router.logger.Debug("drop command", "name", name, "param", param)
		return false
	}
	if err := router.target.Dispatch(command); err != nil {
		router.logger.Debug("dispatch command", "name", name, "error", err)
		return false
	}
	return true
}

// HandleURL handles focusbar://<command>[/<param>] URLs.
func (router *Router) HandleURL(raw string) bool {
	name, param, ok := ParseURL(raw)
	if !ok {
		router.logger.Debug("drop url", "url", raw)
		return false
	}
	return router.Handle(name, param)
}

// ParseURL splits a command URL into its name and optional parameter.
func ParseURL(raw string) (string, string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", "", false
	}
	if !schemes[strings.ToLower(parsed.Scheme)] || parsed.Host == "" {
		return "", "", false
	}

	param := ""
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segments) > 0 {
		param = segments[0]
	}
	return parsed.Host, param, true
}

// Resolve maps a command name and parameter to a timer command.
func Resolve(name, param string) (timer.Command, bool) {
	param = strings.TrimSpace(param)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameStart:
		return resolveStart(param)
	case NameToggle:
		return timer.Toggle(), true
	case NamePause:
		return timer.Pause(), true
	case NameResume:
		return timer.Resume(), true
	case NameReset:
		return timer.Reset(), true
	case NameAddMinute, "addminute":
		return timer.AddMinute(), true
	case NameSetDuration, "setduration":
		minutes, err := strconv.Atoi(param)
		if err != nil || !timer.ValidMinutes(minutes) {
			return timer.Command{}, false
		}
		return timer.SetDuration(minutes), true
	default:
		return timer.Command{}, false
	}
}

// Preset returns the minutes for a named preset.
func Preset(name string) (int, bool) {
	minutes, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	return minutes, ok
}

func resolveStart(param string) (timer.Command, bool) {
	if param == "" {
		return timer.Start(timer.UseLastDuration()), true
	}
	if minutes, err := strconv.Atoi(param); err == nil {
		if !timer.ValidMinutes(minutes) {
			return timer.Command{}, false
		}
		return timer.SetCustomTime(minutes), true
	}
	if minutes, ok := Preset(param); ok {
		return timer.SetCustomTime(minutes), true
	}
	return timer.Start(timer.UseLastDuration()), true
}
