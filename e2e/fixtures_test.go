//go:build e2e && unix

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/stretchr/testify/require"
)

type fixtureCategory struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID int64  `json:"parent_id,omitempty"`
}

type fixtureProject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Blurb     string    `json:"blurb"`
	Creator   string    `json:"creator"`
	Category  int64     `json:"category_id"`
	Goal      float64   `json:"goal"`
	Pledged   float64   `json:"pledged"`
	Backers   int       `json:"backers_count"`
	Launched  time.Time `json:"launched_at"`
	Deadline  time.Time `json:"deadline"`
	URL       string    `json:"url"`
	StaffPick bool      `json:"staff_pick"`
}

type fixtureBuild struct {
	Version     string `json:"version"`
	DownloadURL string `json:"download_url"`
}

type fixtureCatalog struct {
	Categories  []fixtureCategory `json:"categories"`
	Projects    []fixtureProject  `json:"projects"`
	LatestBuild *fixtureBuild     `json:"latest_build,omitempty"`
}

// writeCatalog writes n projects named "Project 001".. into the workspace.
// Lower numbers launched later, so sorting by newest keeps them in order.
// Every fifth project is a staff pick.
func (a *feedApp) writeCatalog(n int, build *fixtureBuild) string {
	a.t.Helper()
	now := time.Now().UTC()
	c := fixtureCatalog{
		Categories: []fixtureCategory{
			{ID: 1, Name: "Art"},
			{ID: 12, Name: "Games"},
		},
		LatestBuild: build,
	}
	for i := 1; i <= n; i++ {
		cat := int64(1)
		if i%2 == 0 {
			cat = 12
		}
		c.Projects = append(c.Projects, fixtureProject{
			ID:        int64(i),
			Name:      fmt.Sprintf("Project %03d", i),
			Blurb:     fmt.Sprintf("Blurb for project %d", i),
			Creator:   fmt.Sprintf("Creator %d", i),
			Category:  cat,
			Goal:      1000,
			Pledged:   float64(10 * i),
			Backers:   i,
			Launched:  now.Add(-time.Duration(i) * time.Hour),
			Deadline:  now.Add(30 * 24 * time.Hour),
			URL:       fmt.Sprintf("https://example.com/projects/%d", i),
			StaffPick: i%5 == 0,
		})
	}

	data, err := json.MarshalIndent(c, "", "  ")
	require.NoError(a.t, err)
	path := a.path("catalog.json")
	require.NoError(a.t, os.WriteFile(path, data, 0644))
	return path
}

// writeConfig writes a config with 20 projects per page sorted by newest
func (a *feedApp) writeConfig() string {
	a.t.Helper()
	cfg := fmt.Sprintf(`version = 1
per_page = 20

[params]
sort = "newest"

[ui]
show_blurb = false
autosave_params = true
language = "en"
toolbar_color = "#2ecc71"

[log]
level = "debug"
file = %q

[cache]
kind = "memory"
size = 16

[build]
current = "1.0.0"
`, a.path("projectfeed.log"))

	path := a.path("config.toml")
	require.NoError(a.t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

// start writes a catalog of n projects and a config, then launches the app
// and waits for it to come up
func (a *feedApp) start(n int, build *fixtureBuild) {
	a.t.Helper()
	catalogPath := a.writeCatalog(n, build)
	configPath := a.writeConfig()
	a.launch("-config", configPath, "-catalog", catalogPath)
	require.True(a.t, a.ready(), "projectfeed should start")
}
