package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type startedCommand struct {
	path string
	args []string
}

func stubChime(available bool) (*Chime, *[]startedCommand) {
	var started []startedCommand
	chime := NewChime(nil)
	chime.lookPath = func(name string) (string, error) {
		if !available {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	chime.start = func(path string, args []string) error {
		started = append(started, startedCommand{path: path, args: args})
		return nil
	}
	return chime, &started
}

func TestChimeStartsFirstAvailablePlayer(t *testing.T) {
	chime, started := stubChime(true)

	require.NoError(t, chime.PlayCompletion())
	require.NoError(t, chime.PlayTick())

	require.Len(t, *started, 2)
	first := soundPlayers(CueCompletion)[0]
	assert.Equal(t, "/usr/bin/"+first.name, (*started)[0].path)
	assert.Equal(t, first.args, (*started)[0].args)
}

func TestChimeWithoutPlayerIsSilent(t *testing.T) {
	chime, started := stubChime(false)

	assert.NoError(t, chime.PlayCompletion())
	assert.Empty(t, *started)
}

func TestChimeDisabled(t *testing.T) {
	chime, started := stubChime(true)
	chime.SetEnabled(false)

	assert.NoError(t, chime.PlayCompletion())
	assert.Empty(t, *started)

	chime.SetEnabled(true)
	assert.NoError(t, chime.PlayTick())
	assert.Len(t, *started, 1)
}
