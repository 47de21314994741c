//go:build linux

package platform

const freedesktopSounds = "/usr/share/sounds/freedesktop/stereo/"

func soundPlayers(cue Cue) []player {
	event, file := "complete", "complete.oga"
	if cue == CueTick {
		event, file = "audio-volume-change", "audio-volume-change.oga"
	}
	return []player{
		{name: "canberra-gtk-play", args: []string{"-i", event, "-d", "FocusBar"}},
		{name: "paplay", args: []string{freedesktopSounds + file}},
		{name: "pw-play", args: []string{freedesktopSounds + file}},
	}
}
