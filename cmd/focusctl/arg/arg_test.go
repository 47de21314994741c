package arg

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusbar/internal/command"
	"focusbar/internal/core/clock"
	"focusbar/internal/core/model"
	"focusbar/internal/core/timer"
	"focusbar/internal/ipc"
)

func startFocusbar(t *testing.T) string {
	t.Helper()

	fake := clock.Fake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local))
	service := timer.NewService(model.ServiceConfig{}, model.TimerConfig{}, fake, timer.Dependencies{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = service.Run(ctx)
	}()

	path := filepath.Join(t.TempDir(), "focusbar.sock")
	server := ipc.NewServer(path, ipc.NewController(command.NewRouter(service, nil), service), nil)
	require.NoError(t, server.Start())
	t.Cleanup(func() {
		server.Stop()
		cancel()
		<-done
	})
	return path
}

func runCtl(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--json=false", "--dbus=false"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStartAndStatus(t *testing.T) {
	path := startFocusbar(t)

	out, err := runCtl(t, "--socket", path, "start", "15")
	require.NoError(t, err)
	assert.Equal(t, "running 15:00 (sessions today: 0)\n", out)

	out, err = runCtl(t, "--socket", path, "pause")
	require.NoError(t, err)
	assert.Equal(t, "paused 15:00 (sessions today: 0)\n", out)

	out, err = runCtl(t, "--socket", path, "add-minute")
	require.NoError(t, err)
	assert.Equal(t, "paused 16:00 (sessions today: 0)\n", out)
}

func TestPresetStart(t *testing.T) {
	path := startFocusbar(t)

	out, err := runCtl(t, "--socket", path, "start", "short-break")
	require.NoError(t, err)
	assert.Contains(t, out, "running 05:00")
}

func TestJSONOutput(t *testing.T) {
	path := startFocusbar(t)

	out, err := runCtl(t, "--socket", path, "--json", "status")
	require.NoError(t, err)

	var response ipc.Response
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.True(t, response.OK)
	assert.Equal(t, "idle", response.State)
	assert.Equal(t, 1500, response.Total)
}

func TestSetDurationValidatesLocally(t *testing.T) {
	path := startFocusbar(t)

	_, err := runCtl(t, "--socket", path, "set-duration", "121")
	require.Error(t, err)

	out, err := runCtl(t, "--socket", path, "set-duration", "45")
	require.NoError(t, err)
	assert.Equal(t, "idle 45:00 (sessions today: 0)\n", out)
}

func TestIgnoredCommandIsReported(t *testing.T) {
	path := startFocusbar(t)

	out, err := runCtl(t, "--socket", path, "start", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "command ignored")
	assert.Contains(t, out, "idle 25:00")
}

func TestMissingSocketFails(t *testing.T) {
	_, err := runCtl(t, "--socket", filepath.Join(t.TempDir(), "none.sock"), "status")
	assert.Error(t, err)
}

func TestSetDurationSticksForToggle(t *testing.T) {
	path := startFocusbar(t)

	_, err := runCtl(t, "--socket", path, "set-duration", "45")
	require.NoError(t, err)

	out, err := runCtl(t, "--socket", path, "toggle")
	require.NoError(t, err)
	assert.Equal(t, "running 45:00 (sessions today: 0)\n", out)

	var response ipc.Response
	out, err = runCtl(t, "--socket", path, "--json", "status")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &response))
	assert.Equal(t, 2700, response.Total)
}
