package platform

import (
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"
)

// Cue identifies a sound.
type Cue int

const (
	CueCompletion Cue = iota
	CueTick
)

// player is one command line able to play a cue.
type player struct {
	name string
	args []string
}

// Chime plays system sounds through whatever player the OS provides.
// Playback runs in the background; a missing player is a silent no-op.
type Chime struct {
	logger  *slog.Logger
	enabled atomic.Bool

	lookPath func(name string) (string, error)
	start    func(path string, args []string) error

	once     sync.Once
	resolved map[Cue]*player
}

// NewChime returns an enabled Chime.
func NewChime(logger *slog.Logger) *Chime {
	if logger == nil {
		logger = slog.Default()
	}
	chime := &Chime{
		logger:   logger,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
	chime.enabled.Store(true)
	return chime
}

// SetEnabled turns sounds on or off.
func (chime *Chime) SetEnabled(enabled bool) {
	chime.enabled.Store(enabled)
}

// PlayCompletion plays the end-of-run sound.
func (chime *Chime) PlayCompletion() error {
	return chime.Play(CueCompletion)
}

// PlayTick plays the short final-seconds sound.
func (chime *Chime) PlayTick() error {
	return chime.Play(CueTick)
}

// Play starts cue without waiting for it to finish.
func (chime *Chime) Play(cue Cue) error {
	if !chime.enabled.Load() {
		return nil
	}
	chime.once.Do(chime.resolve)

	selected := chime.resolved[cue]
	if selected == nil {
		return nil
	}
	return chime.start(selected.name, selected.args)
}

func (chime *Chime) resolve() {
	chime.resolved = make(map[Cue]*player)
	for _, cue := range []Cue{CueCompletion, CueTick} {
		for _, candidate := range soundPlayers(cue) {
			path, err := chime.lookPath(candidate.name)
			if err != nil {
				continue
			}
			chime.resolved[cue] = &player{name: path, args: candidate.args}
			break
		}
		if chime.resolved[cue] == nil {
			chime.logger.Debug("no sound player found", "cue", cue)
		}
	}
}

func startDetached(path string, args []string) error {
	command := exec.Command(path, args...)
	if err := command.Start(); err != nil {
		return err
	}
	go func() { _ = command.Wait() }()
	return nil
}
