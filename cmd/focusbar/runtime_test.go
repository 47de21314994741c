package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"focusbar/internal/core/clock"
	"focusbar/internal/ipc"
	"focusbar/internal/notify"
	"focusbar/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T, store string) options {
	t.Helper()

	dir := t.TempDir()
	return options{
		headless:   true,
		store:      store,
		socketPath: filepath.Join(dir, "focusbar.sock"),
		configDir:  dir,
		clock:      clock.Fake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)),
	}
}

func startRuntime(t *testing.T, opts options, logger *slog.Logger) *runtime {
	t.Helper()

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	}
	rt, err := newRuntime(opts, notify.NewLog(logger), logger)
	require.NoError(t, err)
	rt.start(context.Background())
	return rt
}

func TestRuntimeServesControlSocket(t *testing.T) {
	for _, store := range []string{"yaml", "sqlite"} {
		t.Run(store, func(t *testing.T) {
			opts := testOptions(t, store)
			rt := startRuntime(t, opts, nil)
			defer rt.close()

			response, err := ipc.SendOnce(opts.socketPath, ipc.Request{Cmd: "start", Arg: "15"})
			require.NoError(t, err)
			assert.True(t, response.OK)
			assert.Equal(t, "running", response.State)
			assert.Equal(t, 900, response.Total)
			assert.Equal(t, "15:00", response.Display)
		})
	}
}

func TestRuntimeRestoresLastUsedDuration(t *testing.T) {
	opts := testOptions(t, "yaml")

	first := startRuntime(t, opts, nil)
	_, err := ipc.SendOnce(opts.socketPath, ipc.Request{Cmd: "start", Arg: "40"})
	require.NoError(t, err)
	first.close()

	second := startRuntime(t, opts, nil)
	defer second.close()

	response, err := ipc.SendOnce(opts.socketPath, ipc.Request{Cmd: "start"})
	require.NoError(t, err)
	assert.Equal(t, 2400, response.Total)
}

func TestRuntimeFallsBackToMemoryOnCorruptState(t *testing.T) {
	opts := testOptions(t, "yaml")
	require.NoError(t, os.WriteFile(filepath.Join(opts.configDir, stateYAMLFile), []byte("[unterminated"), 0o600))

	var logs bytes.Buffer
	rt := startRuntime(t, opts, slog.New(slog.NewTextHandler(&logs, nil)))
	defer rt.close()

	assert.Contains(t, logs.String(), "keeping state in memory")

	response, err := ipc.SendOnce(opts.socketPath, ipc.Request{Cmd: "status"})
	require.NoError(t, err)
	assert.Equal(t, "idle", response.State)
	assert.Equal(t, 1500, response.Total)
}

func TestRuntimeApplySettingsPersists(t *testing.T) {
	opts := testOptions(t, "yaml")
	rt := startRuntime(t, opts, nil)
	defer rt.close()

	updated := rt.currentSettings()
	updated.QuickStartPrimary = 50
	updated.ChimeEnabled = false
	updated.TickCueSeconds = 10
	require.NoError(t, rt.applySettings(updated))

	assert.Equal(t, updated, rt.currentSettings())

	loaded, err := storage.LoadSettingsFile(filepath.Join(opts.configDir, settingsFile))
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)
}

func TestForwardToRunningInstance(t *testing.T) {
	opts := testOptions(t, "yaml")
	rt := startRuntime(t, opts, nil)
	defer rt.close()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	require.NoError(t, forward(opts.socketPath, "focusbar://start/deep-work", logger))
	require.NoError(t, forward(opts.socketPath, "", logger))
	assert.Error(t, forward(opts.socketPath, "https://example.com/start", logger))

	response, err := ipc.SendOnce(opts.socketPath, ipc.Request{Cmd: "status"})
	require.NoError(t, err)
	assert.Equal(t, "running", response.State)
	assert.Equal(t, 2700, response.Total)
}

func TestRootCommandRejectsUnknownStore(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"--store", "redis", "--headless"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}
