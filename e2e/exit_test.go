//go:build e2e && unix

package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQuitKeyExits(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(10, nil)
	require.True(t, app.see("Discover"))

	app.press(keyQuit)
	require.True(t, app.exited(2*time.Second), "q should exit")
}

func TestQuitWritesLogFile(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(10, nil)
	require.True(t, app.see("You've seen everything"))

	app.press(keyQuit)
	require.True(t, app.exited(2*time.Second), "q should exit")

	data, err := os.ReadFile(app.path("projectfeed.log"))
	require.NoError(t, err, "log file")
	require.Contains(t, string(data), "PageLoaded", "loaded page logged")
}

func TestLogsStayOffTheTerminal(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(10, nil)
	require.True(t, app.see("You've seen everything"))

	app.press(keyQuit)
	require.True(t, app.exited(2*time.Second))
	require.NotContains(t, app.plain(), `"component"`, "structured logs belong in the log file")
}

func TestCtrlCExitsFromFilterScreen(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(10, nil)
	require.True(t, app.see("Project 001"))

	app.press(keyFilter)
	require.True(t, app.see("Explore"))

	app.press(keyCtrlC)
	require.True(t, app.exited(2*time.Second), "ctrl+c should exit from the filter screen")
}
