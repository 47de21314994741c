//go:build windows

package platform

func soundPlayers(cue Cue) []player {
	sound := "Asterisk"
	if cue == CueTick {
		sound = "Beep"
	}
	script := "[System.Media.SystemSounds]::" + sound + ".Play()"
	return []player{{name: "powershell", args: []string{"-NoProfile", "-NonInteractive", "-Command", script}}}
}
