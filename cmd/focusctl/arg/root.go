package arg

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "FocusBar"

var (
	socketPath string
	jsonOutput bool
	useDBus    bool
)

var rootCmd = &cobra.Command{
	Use:   "focusctl",
	Short: "focusctl is the command line tool for FocusBar",
	Long: `focusctl drives a running FocusBar over its control socket or D-Bus.
	You can use it to start, pause and reset the timer and to read its status.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&socketPath, "socket", "", "control socket path")
	flags.BoolVar(&jsonOutput, "json", false, "print the raw response as JSON")
	flags.BoolVar(&useDBus, "dbus", false, "talk to FocusBar over the D-Bus session bus")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
