package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"projectfeed/internal/domain"
)

type memoryEntry struct {
	page    domain.Page
	expires time.Time
}

// MemoryCache is an in-process LRU of pages
type MemoryCache struct {
	lru *lru.Cache[string, memoryEntry]
	ttl time.Duration
	now func() time.Time
}

// NewMemoryCache creates an LRU holding up to size pages for ttl (0 = forever)
func NewMemoryCache(size int, ttl time.Duration) (*MemoryCache, error) {
	if size <= 0 {
		size = 64
	}
	l, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &MemoryCache{lru: l, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryCache) Layer() string { return "memory" }

func (c *MemoryCache) Get(_ context.Context, key string) (domain.Page, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return domain.Page{}, ErrCacheMiss
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		c.lru.Remove(key)
		return domain.Page{}, ErrCacheMiss
	}
	return e.page, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, page domain.Page) error {
	e := memoryEntry{page: page}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.lru.Add(key, e)
	return nil
}

// Len returns the number of cached pages
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}
