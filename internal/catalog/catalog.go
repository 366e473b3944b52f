// Package catalog serves pages of projects for a set of discovery params.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"projectfeed/internal/domain"
)

// ErrInvalidPage is returned for params positioned before page 1
var ErrInvalidPage = errors.New("page must be >= 1")

type noCacheKey struct{}

// WithoutCache marks ctx so caching sources fetch from the backend, storing
// the fresh page for later reads
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, noCacheKey{}, true)
}

// CacheBypassed reports whether ctx was marked by WithoutCache
func CacheBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(noCacheKey{}).(bool)
	return v
}

// Source fetches projects for the discovery feed
type Source interface {
	FetchPage(ctx context.Context, params domain.DiscoveryParams) (domain.Page, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	LatestBuild(ctx context.Context) (*domain.BuildEnvelope, error)
}

// Catalog is an in-memory Source
type Catalog struct {
	categories []domain.Category
	projects   []domain.Project
	build      *domain.BuildEnvelope
	latency    time.Duration
}

// file is the on-disk JSON layout
type file struct {
	Categories  []domain.Category     `json:"categories"`
	Projects    []domain.Project      `json:"projects"`
	LatestBuild *domain.BuildEnvelope `json:"latest_build,omitempty"`
}

// Option configures a Catalog
type Option func(*Catalog)

// WithLatency delays every FetchPage, simulating a slow backend
func WithLatency(d time.Duration) Option {
	return func(c *Catalog) {
		c.latency = d
	}
}

// WithBuild sets the build the catalog advertises
func WithBuild(b *domain.BuildEnvelope) Option {
	return func(c *Catalog) {
		c.build = b
	}
}

// New creates a catalog from already loaded data
func New(categories []domain.Category, projects []domain.Project, opts ...Option) *Catalog {
	c := &Catalog{
		categories: categories,
		projects:   projects,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads a JSON catalog file
func Load(path string, opts ...Option) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	c := New(f.Categories, f.Projects, WithBuild(f.LatestBuild))
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Save writes the catalog as JSON, in the format Load reads
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(file{
		Categories:  c.categories,
		Projects:    c.projects,
		LatestBuild: c.build,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// Len returns the number of projects in the catalog
func (c *Catalog) Len() int {
	return len(c.projects)
}

// FetchPage returns the projects matching params on params.Page
func (c *Catalog) FetchPage(ctx context.Context, params domain.DiscoveryParams) (domain.Page, error) {
	if params.Page < 1 {
		return domain.Page{}, ErrInvalidPage
	}
	if params.PerPage <= 0 {
		params.PerPage = domain.DefaultPerPage
	}

	if c.latency > 0 {
		timer := time.NewTimer(c.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return domain.Page{}, ctx.Err()
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Page{}, err
	}

	matches := c.filter(params)
	sortProjects(matches, params.Sort)

	start := (params.Page - 1) * params.PerPage
	if start >= len(matches) {
		return domain.Page{Params: params}, nil
	}
	end := start + params.PerPage
	if end > len(matches) {
		end = len(matches)
	}

	out := make([]domain.Project, end-start)
	copy(out, matches[start:end])
	return domain.Page{
		Params:   params,
		Projects: out,
		More:     end < len(matches),
	}, nil
}

// Categories returns all categories, roots first then by name
func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsRoot() != out[j].IsRoot() {
			return out[i].IsRoot()
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// LatestBuild returns the advertised build, or nil
func (c *Catalog) LatestBuild(ctx context.Context) (*domain.BuildEnvelope, error) {
	return c.build, nil
}

func (c *Catalog) filter(params domain.DiscoveryParams) []domain.Project {
	parents := make(map[int64]int64, len(c.categories))
	for _, cat := range c.categories {
		parents[cat.ID] = cat.ParentID
	}

	var out []domain.Project
	for _, p := range c.projects {
		if params.Category != 0 && p.Category != params.Category && parents[p.Category] != params.Category {
			continue
		}
		if params.StaffPicks && !p.StaffPick {
			continue
		}
		if params.Starred && !p.Starred {
			continue
		}
		if params.Social && len(p.Friends) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProjects(projects []domain.Project, by domain.Sort) {
	less := func(a, b domain.Project) bool {
		switch by {
		case domain.SortPopular:
			if a.Backers != b.Backers {
				return a.Backers > b.Backers
			}
		case domain.SortNewest:
			if !a.Launched.Equal(b.Launched) {
				return a.Launched.After(b.Launched)
			}
		case domain.SortEndDate:
			if !a.Deadline.Equal(b.Deadline) {
				return a.Deadline.Before(b.Deadline)
			}
		case domain.SortMostFunded:
			if a.Pledged != b.Pledged {
				return a.Pledged > b.Pledged
			}
		default:
			if a.StaffPick != b.StaffPick {
				return a.StaffPick
			}
		}
		return a.ID < b.ID
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return less(projects[i], projects[j])
	})
}
