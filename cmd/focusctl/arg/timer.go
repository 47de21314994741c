package arg

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"focusbar/internal/command"
	"focusbar/internal/core/timer"
	"focusbar/internal/ipc"
)

var startCmd = &cobra.Command{
	Use:   "start [minutes|preset]",
	Short: "Start a session, optionally with a length or preset name",
	Long: `Start a session. With no argument an idle timer reloads the last used
length and a paused one continues. Presets are focus, deep-work, short-break
and long-break.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		return send(cmd, command.NameStart, arg)
	},
}

var setDurationCmd = &cobra.Command{
	Use:     "set-duration <minutes>",
	Aliases: []string{"duration"},
	Short:   "Change the length of an idle timer",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[0])
		if err != nil || !timer.ValidMinutes(minutes) {
			return fmt.Errorf("minutes must be a whole number between %d and %d", timer.MinMinutes, timer.MaxMinutes)
		}
		return send(cmd, command.NameSetDuration, args[0])
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the timer state without changing it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return send(cmd, ipc.CommandStatus, "")
	},
}

func simpleCommand(use, short, name string, aliases ...string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return send(cmd, name, "")
		},
	}
}

func init() {
	rootCmd.AddCommand(
		startCmd,
		setDurationCmd,
		statusCmd,
		simpleCommand("toggle", "Start, pause, resume or dismiss depending on state", command.NameToggle, "t"),
		simpleCommand("pause", "Pause a running session", command.NamePause, "p"),
		simpleCommand("resume", "Resume a paused session", command.NameResume),
		simpleCommand("reset", "Stop and rewind the current session", command.NameReset),
		simpleCommand("add-minute", "Add one minute to the current session", command.NameAddMinute, "plus"),
	)
}
