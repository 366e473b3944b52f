//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeedShowsFirstPage(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(50, nil)

	require.True(t, app.see("Discover"), "toolbar")
	require.True(t, app.see("Everything · sorted by newest"), "params description")
	require.True(t, app.see("Project 001"), "first project")
	require.True(t, app.see("20 projects · page 1"), "page counter")
}

func TestScrollingNearBottomLoadsNextPage(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(50, nil)
	require.True(t, app.see("20 projects · page 1"))

	// 11 rows are visible; the threshold sits two rows above the end
	app.pressN(keyDown, 17)

	require.True(t, app.see("40 projects · page 2"), "scrolling near the bottom loads page 2")
}

func TestScrollingToTheEndShowsEverything(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(30, nil)
	require.True(t, app.see("20 projects · page 1"))

	app.pressN(keyDown, 29)

	require.True(t, app.see("Project 030"), "last project")
	require.True(t, app.see("You've seen everything"), "end of feed")
}

func TestManualLoadMore(t *testing.T) {
	t.Parallel()
	app := newFeedApp(t)
	app.start(50, nil)
	require.True(t, app.see("20 projects · page 1"))

	app.press(keyMore)
	require.True(t, app.see("40 projects · page 2"))
}
