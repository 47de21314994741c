package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"focusbar/internal/command"
)

// Bus names of the exported timer object.
const (
	ObjectPath    = "/io/github/focusbar/Timer"
	InterfaceName = "io.github.focusbar.Timer"
	ServiceName   = "io.github.focusbar"
)

// DBusController is the object exported on the session bus. Each method
// applies one command and returns nothing on the bus but errors.
type DBusController struct {
	handler Handler
}

// NewDBusController wraps handler.
func NewDBusController(handler Handler) *DBusController {
	return &DBusController{handler: handler}
}

// Start starts the timer; arg is minutes, a preset name or empty.
func (controller *DBusController) Start(arg string) *dbus.Error {
	return controller.run(command.NameStart, arg)
}

// Toggle performs the primary action for the current state.
func (controller *DBusController) Toggle() *dbus.Error {
	return controller.run(command.NameToggle, "")
}

// Pause freezes a running timer.
func (controller *DBusController) Pause() *dbus.Error {
	return controller.run(command.NamePause, "")
}

// Resume continues a paused timer.
func (controller *DBusController) Resume() *dbus.Error {
	return controller.run(command.NameResume, "")
}

// Reset stops the timer and restores its full length.
func (controller *DBusController) Reset() *dbus.Error {
	return controller.run(command.NameReset, "")
}

// AddMinute extends an active run by one minute.
func (controller *DBusController) AddMinute() *dbus.Error {
	return controller.run(command.NameAddMinute, "")
}

// SetDuration changes the length of an idle timer.
func (controller *DBusController) SetDuration(minutes int32) *dbus.Error {
	return controller.run(command.NameSetDuration, strconv.Itoa(int(minutes)))
}

// Status returns the timer status as a JSON Response.
func (controller *DBusController) Status() (string, *dbus.Error) {
	response := controller.execute(CommandStatus, "")
	if !response.OK {
		return "", dbus.MakeFailedError(fmt.Errorf("status: %s", response.Error))
	}
	data, err := json.Marshal(response)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

func (controller *DBusController) run(name, arg string) *dbus.Error {
	response := controller.execute(name, arg)
	if !response.OK {
		return dbus.MakeFailedError(fmt.Errorf("%s: %s", name, response.Error))
	}
	if response.Ignored {
		return dbus.MakeFailedError(fmt.Errorf("%s %q: command not recognized", name, arg))
	}
	return nil
}

func (controller *DBusController) execute(name, arg string) Response {
	ctx, cancel := context.WithTimeout(context.Background(), defaultRequestTimeout)
	defer cancel()
	return controller.handler.Execute(ctx, Request{Cmd: name, Arg: arg})
}

// DBusExport holds the session bus connection that serves a controller.
type DBusExport struct {
	conn *dbus.Conn
}

// ExportDBus claims ServiceName on the session bus and exports controller.
func ExportDBus(controller *DBusController) (*DBusExport, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}

	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("bus name %s already taken", ServiceName)
	}

	if err := conn.Export(controller, dbus.ObjectPath(ObjectPath), InterfaceName); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export interface: %w", err)
	}

	node := &introspect.Node{
		Name: ObjectPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{Name: InterfaceName, Methods: introspect.Methods(controller)},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), dbus.ObjectPath(ObjectPath), "org.freedesktop.DBus.Introspectable"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	return &DBusExport{conn: conn}, nil
}

// Close releases the bus name and connection.
func (export *DBusExport) Close() error {
	if export == nil || export.conn == nil {
		return nil
	}
	export.conn.ReleaseName(ServiceName)
	return export.conn.Close()
}
