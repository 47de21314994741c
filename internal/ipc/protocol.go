// Package ipc carries timer commands between processes: newline-delimited
// JSON over a Unix socket, and an exported object on the D-Bus session bus.
package ipc

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"focusbar/internal/command"
	"focusbar/internal/core/timer"
	"focusbar/internal/core/view"
)

// CommandStatus reads the timer without changing it.
const CommandStatus = "status"

const socketFileName = "focusbar.sock"

const defaultRequestTimeout = 2 * time.Second

// Request is one line sent by a client.
type Request struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

// Response is one line sent back for every request. Status fields always
// describe the timer after the request was applied.
type Response struct {
	OK        bool   `json:"ok"`
	Ignored   bool   `json:"ignored,omitempty"`
	State     string `json:"state,omitempty"`
	Remaining int    `json:"remaining"`
	Total     int    `json:"total"`
	Sessions  int    `json:"sessions"`
	Display   string `json:"display,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Handler executes a request and builds its response.
type Handler interface {
	Execute(ctx context.Context, request Request) Response
}

// Snapshotter reads the current timer snapshot.
type Snapshotter interface {
	Snapshot(ctx context.Context) (timer.Snapshot, error)
}

// Controller routes requests into the timer and reports the resulting status.
type Controller struct {
	router    *command.Router
	snapshots Snapshotter
}

// NewController returns a Controller.
func NewController(router *command.Router, snapshots Snapshotter) *Controller {
	return &Controller{router: router, snapshots: snapshots}
}

// Execute applies request and returns the post-command status.
func (controller *Controller) Execute(ctx context.Context, request Request) Response {
	ignored := false
	if request.Cmd != CommandStatus {
		ignored = !controller.router.Handle(request.Cmd, request.Arg)
	}

	snapshot, err := controller.snapshots.Snapshot(ctx)
	if err != nil {
		return Response{Error: err.Error()}
	}
	response := StatusResponse(snapshot)
	response.Ignored = ignored
	return response
}

// StatusResponse converts a snapshot into a successful response.
func StatusResponse(snapshot timer.Snapshot) Response {
	projected := view.FromSnapshot(snapshot)
	return Response{
		OK:        true,
		State:     string(snapshot.State),
		Remaining: snapshot.RemainingSeconds,
		Total:     snapshot.TotalSeconds,
		Sessions:  snapshot.SessionsToday,
		Display:   projected.Display,
	}
}

// DefaultSocketPath returns the per-user socket path, preferring
// XDG_RUNTIME_DIR.
func DefaultSocketPath(appName string) string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, appName, socketFileName)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, appName, socketFileName)
	}
	return filepath.Join(os.TempDir(), appName+"-"+socketFileName)
}
