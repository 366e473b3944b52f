// Package cache keeps recently fetched feed pages so revisiting a filter does
// not hit the catalog again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"projectfeed/internal/catalog"
	"projectfeed/internal/domain"
	"projectfeed/internal/metrics"
)

// ErrCacheMiss indicates the requested page is not cached
var ErrCacheMiss = errors.New("cache miss")

// PageCache stores pages keyed by DiscoveryParams.CacheKey
type PageCache interface {
	Get(ctx context.Context, key string) (domain.Page, error)
	Set(ctx context.Context, key string, page domain.Page) error
	Layer() string
}

// CachedSource decorates a catalog.Source with a PageCache
type CachedSource struct {
	catalog.Source
	cache  PageCache
	logger zerolog.Logger
}

// NewCachedSource wraps src; a nil cache returns src unchanged
func NewCachedSource(src catalog.Source, c PageCache, logger zerolog.Logger) catalog.Source {
	if c == nil {
		return src
	}
	return &CachedSource{Source: src, cache: c, logger: logger}
}

// FetchPage serves from the cache, falling back to the source on miss or
// error. A ctx marked by catalog.WithoutCache skips the lookup.
func (s *CachedSource) FetchPage(ctx context.Context, params domain.DiscoveryParams) (domain.Page, error) {
	key := params.CacheKey()
	layer := s.cache.Layer()

	var page domain.Page
	err := ErrCacheMiss
	if !catalog.CacheBypassed(ctx) {
		page, err = s.cache.Get(ctx, key)
	}
	switch {
	case err == nil:
		metrics.CacheHits.WithLabelValues(layer).Inc()
		s.logger.Debug().Str("key", key).Msg("cache hit")
		return page, nil
	case errors.Is(err, ErrCacheMiss):
		metrics.CacheMisses.WithLabelValues(layer).Inc()
	default:
		metrics.CacheErrors.WithLabelValues(layer, "get").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("cache get failed, using source")
	}

	page, err = s.Source.FetchPage(ctx, params)
	if err != nil {
		return domain.Page{}, err
	}

	if err := s.cache.Set(ctx, key, page); err != nil {
		metrics.CacheErrors.WithLabelValues(layer, "set").Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
	return page, nil
}

// Settings selects and sizes a cache backend
type Settings struct {
	Kind      string // memory, redis or none
	Size      int
	RedisAddr string
	TTL       time.Duration
}

// New builds the cache described by settings; "none" returns nil
func New(ctx context.Context, s Settings) (PageCache, error) {
	switch s.Kind {
	case "", "memory":
		c, err := NewMemoryCache(s.Size, s.TTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "redis":
		c, err := DialRedis(ctx, s.RedisAddr, s.TTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache kind %q", s.Kind)
	}
}
