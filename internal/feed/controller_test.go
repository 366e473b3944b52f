package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projectfeed/internal/cache"
	"projectfeed/internal/catalog"
	"projectfeed/internal/domain"
	"projectfeed/internal/eventbus"
)

// flakySource fails while failing is set.
type flakySource struct {
	catalog.Source
	failing bool
	calls   int
}

func (s *flakySource) FetchPage(ctx context.Context, p domain.DiscoveryParams) (domain.Page, error) {
	s.calls++
	if s.failing {
		return domain.Page{}, errors.New("backend unavailable")
	}
	return s.Source.FetchPage(ctx, p)
}

func demo(n int) *flakySource {
	return &flakySource{Source: catalog.Demo(n, 42, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}
}

func run(t *testing.T, c *Controller, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	require.True(t, c.Apply(msg))
	return msg
}

func TestTakeParamsLoadsFirstPage(t *testing.T) {
	c := NewController(demo(25))

	cmd := c.TakeParams(domain.DiscoveryParams{PerPage: 10})
	assert.True(t, c.Loading())
	run(t, c, cmd)

	assert.False(t, c.Loading())
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, 1, c.Params().Page)
	assert.True(t, c.More())
	assert.NoError(t, c.Err())
}

func TestTakeNextPageAppendsUntilExhausted(t *testing.T) {
	c := NewController(demo(25))
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))

	run(t, c, c.TakeNextPage())
	assert.Equal(t, 20, c.Len())
	assert.Equal(t, 2, c.Params().Page)

	run(t, c, c.TakeNextPage())
	assert.Equal(t, 25, c.Len())
	assert.False(t, c.More())

	assert.Nil(t, c.TakeNextPage(), "exhausted feed does not fetch")

	seen := map[int64]bool{}
	for _, p := range c.Projects() {
		assert.False(t, seen[p.ID], "duplicate project %d", p.ID)
		seen[p.ID] = true
	}
}

func TestTakeNextPageWhileLoadingIsIgnored(t *testing.T) {
	src := demo(40)
	c := NewController(src)
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))

	cmd := c.TakeNextPage()
	require.NotNil(t, cmd)
	assert.Nil(t, c.TakeNextPage())
	assert.Nil(t, c.TakeNextPage())

	run(t, c, cmd)
	assert.Equal(t, 20, c.Len())
	assert.Equal(t, 2, src.calls)
}

func TestFailureIsNotRetried(t *testing.T) {
	src := demo(40)
	c := NewController(src)
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))

	src.failing = true
	msg := run(t, c, c.TakeNextPage())
	failed, ok := msg.(PageFailedMsg)
	require.True(t, ok)
	assert.Equal(t, 2, failed.Params.Page)
	assert.EqualError(t, c.Err(), "backend unavailable")
	assert.False(t, c.Loading())
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, 2, src.calls)

	// the next advance asks for the same page again
	src.failing = false
	run(t, c, c.TakeNextPage())
	assert.Equal(t, 20, c.Len())
	assert.NoError(t, c.Err())
}

func TestStaleResultsAreDiscarded(t *testing.T) {
	c := NewController(demo(40))
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))

	stale := c.TakeNextPage()
	fresh := c.TakeParams(domain.DiscoveryParams{PerPage: 10, Sort: domain.SortNewest})

	require.True(t, c.Apply(stale()))
	assert.Equal(t, 0, c.Len())
	assert.True(t, c.Loading(), "fresh fetch still pending")

	run(t, c, fresh)
	assert.Equal(t, 10, c.Len())
	assert.Equal(t, domain.SortNewest, c.Params().Sort)
}

func TestClear(t *testing.T) {
	c := NewController(demo(40))
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.More())
	assert.Nil(t, c.TakeNextPage())
}

func TestRefreshKeepsParams(t *testing.T) {
	// the seeded demo of 40 holds 8 staff picks, two pages of 4
	c := NewController(demo(40))
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 4, StaffPicks: true}))
	require.True(t, c.More())
	run(t, c, c.TakeNextPage())
	require.Equal(t, 2, c.Params().Page)

	run(t, c, c.Refresh())
	assert.Equal(t, 1, c.Params().Page)
	assert.True(t, c.Params().StaffPicks)
	assert.Equal(t, 4, c.Len())
}

func TestRefreshBypassesPageCache(t *testing.T) {
	src := demo(40)
	mem, err := cache.NewMemoryCache(8, time.Hour)
	require.NoError(t, err)
	c := NewController(cache.NewCachedSource(src, mem, zerolog.Nop()))

	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))
	require.Equal(t, 1, src.calls, "second load is served by the cache")

	run(t, c, c.Refresh())
	run(t, c, c.TakeNextPage())
	assert.Equal(t, 3, src.calls)
	assert.Equal(t, 20, c.Len())
}

func TestApplyIgnoresForeignMessages(t *testing.T) {
	c := NewController(demo(1))
	assert.False(t, c.Apply(tea.WindowSizeMsg{}))
}

func TestControllerPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	loaded := make(chan eventbus.DomainEvent, 4)
	bus.Subscribe(eventbus.EventPageLoaded, func(e eventbus.DomainEvent) { loaded <- e })

	c := NewController(demo(12), WithBus(bus), WithTimeout(time.Second))
	run(t, c, c.TakeParams(domain.DiscoveryParams{PerPage: 10}))

	select {
	case e := <-loaded:
		ev := e.(eventbus.PageLoadedEvent)
		assert.Equal(t, 10, ev.Count)
		assert.Equal(t, 10, ev.Total)
		assert.True(t, ev.More)
	case <-time.After(time.Second):
		t.Fatal("no PageLoadedEvent")
	}
}
