//go:build darwin

package platform

func soundPlayers(cue Cue) []player {
	sound := "/System/Library/Sounds/Glass.aiff"
	if cue == CueTick {
		sound = "/System/Library/Sounds/Tink.aiff"
	}
	return []player{{name: "afplay", args: []string{sound}}}
}
