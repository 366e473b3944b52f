package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Project represents a single project shown in the discovery feed
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Blurb     string    `json:"blurb"`
	Creator   string    `json:"creator"`
	Category  int64     `json:"category_id"`
	Location  string    `json:"location"`
	Goal      float64   `json:"goal"`
	Pledged   float64   `json:"pledged"`
	Backers   int       `json:"backers_count"`
	Launched  time.Time `json:"launched_at"`
	Deadline  time.Time `json:"deadline"`
	URL       string    `json:"url"`
	StaffPick bool      `json:"staff_pick"`
	Starred   bool      `json:"is_starred"`
	Friends   []string  `json:"friends,omitempty"` // backers the user follows
}

// PercentFunded returns pledged/goal as a percentage
func (p Project) PercentFunded() float64 {
	if p.Goal <= 0 {
		return 0
	}
	return p.Pledged / p.Goal * 100
}

// DaysLeft returns the whole days remaining until the deadline, never negative
func (p Project) DaysLeft(now time.Time) int {
	if p.Deadline.IsZero() || !p.Deadline.After(now) {
		return 0
	}
	return int(p.Deadline.Sub(now).Hours() / 24)
}

// Category represents a project category; root categories have ParentID 0
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id,omitempty"`
}

// IsRoot reports whether the category has no parent
func (c Category) IsRoot() bool {
	return c.ParentID == 0
}

// Sort is the ordering requested for a discovery feed
type Sort string

const (
	SortMagic      Sort = "magic"
	SortPopular    Sort = "popular"
	SortNewest     Sort = "newest"
	SortEndDate    Sort = "end_date"
	SortMostFunded Sort = "most_funded"
)

// Sorts lists every supported sort in display order
var Sorts = []Sort{SortMagic, SortPopular, SortNewest, SortEndDate, SortMostFunded}

// Label returns a human readable name for the sort
func (s Sort) Label() string {
	switch s {
	case SortPopular:
		return "Popularity"
	case SortNewest:
		return "Newest"
	case SortEndDate:
		return "End date"
	case SortMostFunded:
		return "Most funded"
	default:
		return "Magic"
	}
}

// DefaultPerPage is used when params carry no page size. A page must be
// taller than the screen by at least two rows for the scroll threshold to
// be reachable.
const DefaultPerPage = 30

// DiscoveryParams describes which slice of the catalog the feed shows
type DiscoveryParams struct {
	Sort       Sort  `json:"sort" toml:"sort"`
	Category   int64 `json:"category_id,omitempty" toml:"category_id"`
	StaffPicks bool  `json:"staff_picks,omitempty" toml:"staff_picks"`
	Starred    bool  `json:"starred,omitempty" toml:"starred"`
	Social     bool  `json:"social,omitempty" toml:"social"`
	Page       int   `json:"page" toml:"-"`
	PerPage    int   `json:"per_page" toml:"-"`
}

// FirstPage returns a copy of the params positioned on page 1
func (p DiscoveryParams) FirstPage() DiscoveryParams {
	p.Page = 1
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.Sort == "" {
		p.Sort = SortMagic
	}
	return p
}

// NextPage returns a copy of the params positioned on the following page
func (p DiscoveryParams) NextPage() DiscoveryParams {
	if p.Page < 1 {
		return p.FirstPage()
	}
	p.Page++
	return p
}

// SameFilter reports whether both params select the same feed, ignoring paging
func (p DiscoveryParams) SameFilter(o DiscoveryParams) bool {
	return p.Sort == o.Sort &&
		p.Category == o.Category &&
		p.StaffPicks == o.StaffPicks &&
		p.Starred == o.Starred &&
		p.Social == o.Social
}

// CacheKey identifies one page of one feed
func (p DiscoveryParams) CacheKey() string {
	return fmt.Sprintf("discover:%s:c%d:sp%t:st%t:so%t:p%d:n%d",
		p.Sort, p.Category, p.StaffPicks, p.Starred, p.Social, p.Page, p.PerPage)
}

// Description renders the params the way the toolbar shows them
func (p DiscoveryParams) Description(categoryName string) string {
	var parts []string
	switch {
	case p.Starred:
		parts = append(parts, "Starred")
	case p.Social:
		parts = append(parts, "Backed by friends")
	case p.StaffPicks:
		parts = append(parts, "Staff picks")
	case categoryName != "":
		parts = append(parts, categoryName)
	default:
		parts = append(parts, "Everything")
	}
	sort := p.Sort
	if sort == "" {
		sort = SortMagic
	}
	parts = append(parts, "sorted by "+strings.ToLower(sort.Label()))
	return strings.Join(parts, " · ")
}

// Page is one batch of projects returned for a set of params
type Page struct {
	Params   DiscoveryParams
	Projects []Project
	More     bool // whether a following page exists
}

// BuildEnvelope describes an installable build newer than the running one
type BuildEnvelope struct {
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
	Notes       string `json:"notes,omitempty"`
}

// NewerThan reports whether the envelope's version is above current.
// Versions compare as dot separated numbers; a leading "v" is ignored.
func (b BuildEnvelope) NewerThan(current string) bool {
	return CompareVersions(b.Version, current) > 0
}

// CompareVersions returns -1, 0 or 1. Missing or non-numeric parts count as 0.
func CompareVersions(a, b string) int {
	pa := versionParts(a)
	pb := versionParts(b)
	for len(pa) < len(pb) {
		pa = append(pa, 0)
	}
	for len(pb) < len(pa) {
		pb = append(pb, 0)
	}
	for i := range pa {
		switch {
		case pa[i] < pb[i]:
			return -1
		case pa[i] > pb[i]:
			return 1
		}
	}
	return 0
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil
	}
	fields := strings.Split(v, ".")
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}
