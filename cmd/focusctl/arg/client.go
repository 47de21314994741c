package arg

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/godbus/dbus/v5"
	"github.com/spf13/cobra"

	"focusbar/internal/command"
	"focusbar/internal/ipc"
)

var dbusMethods = map[string]string{
	command.NameStart:       "Start",
	command.NameToggle:      "Toggle",
	command.NamePause:       "Pause",
	command.NameResume:      "Resume",
	command.NameReset:       "Reset",
	command.NameAddMinute:   "AddMinute",
	command.NameSetDuration: "SetDuration",
}

// send delivers one command and prints the resulting status.
func send(cmd *cobra.Command, name, arg string) error {
	var (
		response ipc.Response
		err      error
	)
	if useDBus {
		response, err = sendDBus(name, arg)
	} else {
		path := socketPath
		if path == "" {
			path = ipc.DefaultSocketPath(appName)
		}
		response, err = ipc.SendOnce(path, ipc.Request{Cmd: name, Arg: arg})
	}
	if err != nil {
		return fmt.Errorf("contact focusbar: %w", err)
	}
	return printResponse(cmd, response)
}

func sendDBus(name, arg string) (ipc.Response, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return ipc.Response{}, fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(ipc.ServiceName, dbus.ObjectPath(ipc.ObjectPath))

	if name != ipc.CommandStatus {
		method, ok := dbusMethods[name]
		if !ok {
			return ipc.Response{}, fmt.Errorf("unknown command %q", name)
		}
		var args []interface{}
		switch name {
		case command.NameStart:
			args = append(args, arg)
		case command.NameSetDuration:
			minutes, err := strconv.Atoi(arg)
			if err != nil {
				return ipc.Response{}, fmt.Errorf("parse minutes: %w", err)
			}
			args = append(args, int32(minutes))
		}
		if err := obj.Call(ipc.InterfaceName+"."+method, 0, args...).Store(); err != nil {
			return ipc.Response{}, fmt.Errorf("call %s: %w", method, err)
		}
	}

	var raw string
	if err := obj.Call(ipc.InterfaceName+".Status", 0).Store(&raw); err != nil {
		return ipc.Response{}, fmt.Errorf("call Status: %w", err)
	}
	var response ipc.Response
	if err := json.Unmarshal([]byte(raw), &response); err != nil {
		return ipc.Response{}, fmt.Errorf("decode status: %w", err)
	}
	return response, nil
}

func printResponse(cmd *cobra.Command, response ipc.Response) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		encoder := json.NewEncoder(out)
		if err := encoder.Encode(response); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	} else {
		if response.Ignored {
			fmt.Fprintln(out, "command ignored")
		}
		if response.OK {
			fmt.Fprintln(out, FormatStatus(response))
		}
	}

	if !response.OK {
		return fmt.Errorf("focusbar: %s", response.Error)
	}
	return nil
}

// FormatStatus renders a response as "running 14:59 (sessions today: 2)".
func FormatStatus(response ipc.Response) string {
	return fmt.Sprintf("%s %s (sessions today: %d)", response.State, response.Display, response.Sessions)
}
