// Package feed owns the list of projects shown on the discovery screen and
// fetches further pages on request.
package feed

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"projectfeed/internal/catalog"
	"projectfeed/internal/domain"
	"projectfeed/internal/eventbus"
	"projectfeed/internal/metrics"
)

// PageLoadedMsg carries a fetched page back to the update loop
type PageLoadedMsg struct {
	Generation uint64
	Page       domain.Page
	Elapsed    time.Duration
}

// PageFailedMsg reports a failed fetch
type PageFailedMsg struct {
	Generation uint64
	Params     domain.DiscoveryParams
	Err        error
}

// Controller holds the loaded projects for one set of params at a time.
// Everything except the in-flight flag is touched only from the update loop.
type Controller struct {
	source  catalog.Source
	bus     eventbus.EventBus
	logger  zerolog.Logger
	timeout time.Duration

	params     domain.DiscoveryParams // Page is the last page appended
	projects   []domain.Project
	more       bool
	generation uint64
	loading    *atomic.Bool
	lastErr    error
	fresh      bool // set by Refresh until the next TakeParams
}

// Option configures a Controller
type Option func(*Controller)

// WithBus publishes feed events on bus
func WithBus(bus eventbus.EventBus) Option {
	return func(c *Controller) {
		c.bus = bus
	}
}

// WithLogger sets the controller's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithTimeout bounds each page fetch
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// NewController creates an empty feed backed by source
func NewController(source catalog.Source, opts ...Option) *Controller {
	c := &Controller{
		source:  source,
		logger:  zerolog.Nop(),
		timeout: 10 * time.Second,
		loading: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TakeParams switches the feed to params: the list is cleared and page 1 is
// fetched. Results still in flight for earlier params are discarded.
func (c *Controller) TakeParams(params domain.DiscoveryParams) tea.Cmd {
	return c.takeParams(params, false)
}

// Refresh reloads the feed from page 1 with the current params. Pages are
// read from the catalog itself, not from a page cache.
func (c *Controller) Refresh() tea.Cmd {
	return c.takeParams(c.params, true)
}

func (c *Controller) takeParams(params domain.DiscoveryParams, fresh bool) tea.Cmd {
	params = params.FirstPage()
	c.clear()
	c.fresh = fresh
	c.params = params
	c.params.Page = 0
	c.more = true
	c.publish(eventbus.ParamsChangedEvent{Params: params})
	c.logger.Info().Str("sort", string(params.Sort)).Int64("category", params.Category).Msg("params changed")
	return c.fetch(params)
}

// TakeNextPage fetches the page after the last one appended. It returns nil
// when a fetch is already in flight or the feed is exhausted.
func (c *Controller) TakeNextPage() tea.Cmd {
	if c.loading.Load() {
		c.logger.Debug().Msg("next page ignored, fetch in flight")
		return nil
	}
	if !c.more {
		c.logger.Debug().Msg("next page ignored, feed exhausted")
		return nil
	}
	return c.fetch(c.params.NextPage())
}

// Clear drops every loaded project and abandons in-flight fetches
func (c *Controller) Clear() {
	c.clear()
	c.more = false
}

func (c *Controller) clear() {
	c.generation++
	c.projects = nil
	c.lastErr = nil
	c.loading.Store(false)
	metrics.FeedItems.Set(0)
	c.publish(eventbus.FeedClearedEvent{})
}

// Apply consumes PageLoadedMsg and PageFailedMsg; it reports whether msg
// belonged to the feed.
func (c *Controller) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		if msg.Generation != c.generation {
			metrics.PageFetches.WithLabelValues("stale").Inc()
			return true
		}
		c.loading.Store(false)
		c.lastErr = nil
		c.params = msg.Page.Params
		c.projects = append(c.projects, msg.Page.Projects...)
		c.more = msg.Page.More && len(msg.Page.Projects) > 0

		metrics.PageFetches.WithLabelValues("ok").Inc()
		metrics.PageFetchDuration.Observe(msg.Elapsed.Seconds())
		metrics.FeedItems.Set(float64(len(c.projects)))
		c.logger.Info().
			Int("page", msg.Page.Params.Page).
			Int("count", len(msg.Page.Projects)).
			Int("total", len(c.projects)).
			Bool("more", c.more).
			Msg("page loaded")
		c.publish(eventbus.PageLoadedEvent{
			Params: msg.Page.Params,
			Count:  len(msg.Page.Projects),
			Total:  len(c.projects),
			More:   c.more,
		})
		return true

	case PageFailedMsg:
		if msg.Generation != c.generation {
			metrics.PageFetches.WithLabelValues("stale").Inc()
			return true
		}
		c.loading.Store(false)
		c.lastErr = msg.Err

		metrics.PageFetches.WithLabelValues("error").Inc()
		c.logger.Warn().Err(msg.Err).Int("page", msg.Params.Page).Msg("page fetch failed")
		c.publish(eventbus.PageFailedEvent{Params: msg.Params, Err: msg.Err})
		return true
	}
	return false
}

// Projects returns the loaded projects; callers must not modify the slice
func (c *Controller) Projects() []domain.Project { return c.projects }

// Len returns the number of loaded projects
func (c *Controller) Len() int { return len(c.projects) }

// Params returns the current params; Page is the last page appended
func (c *Controller) Params() domain.DiscoveryParams { return c.params }

// Loading reports whether a fetch is in flight
func (c *Controller) Loading() bool { return c.loading.Load() }

// More reports whether another page may exist
func (c *Controller) More() bool { return c.more }

// Err returns the error of the last failed fetch, cleared by the next success
func (c *Controller) Err() error { return c.lastErr }

// Source returns the catalog the controller reads from
func (c *Controller) Source() catalog.Source { return c.source }

func (c *Controller) fetch(params domain.DiscoveryParams) tea.Cmd {
	c.loading.Store(true)
	gen := c.generation
	source, timeout, fresh := c.source, c.timeout, c.fresh
	c.publish(eventbus.PageRequestedEvent{Params: params})

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if fresh {
			ctx = catalog.WithoutCache(ctx)
		}

		start := time.Now()
		page, err := source.FetchPage(ctx, params)
		if err != nil {
			return PageFailedMsg{Generation: gen, Params: params, Err: err}
		}
		page.Params = params
		return PageLoadedMsg{Generation: gen, Page: page, Elapsed: time.Since(start)}
	}
}

func (c *Controller) publish(e eventbus.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
