package catalog

import (
	"fmt"
	"math/rand"
	"time"

	"projectfeed/internal/domain"
)

var demoCategories = []domain.Category{
	{ID: 1, Name: "Art"},
	{ID: 3, Name: "Comics"},
	{ID: 7, Name: "Design"},
	{ID: 11, Name: "Film & Video"},
	{ID: 12, Name: "Games"},
	{ID: 14, Name: "Music"},
	{ID: 16, Name: "Technology"},
	{ID: 34, Name: "Tabletop Games", ParentID: 12},
	{ID: 35, Name: "Video Games", ParentID: 12},
	{ID: 52, Name: "Hardware", ParentID: 16},
	{ID: 331, Name: "3D Printing", ParentID: 16},
}

var (
	demoAdjectives = []string{"Tiny", "Brave", "Modular", "Open", "Quiet", "Electric", "Folding", "Lunar", "Analog", "Pocket"}
	demoNouns      = []string{"Synth", "Atlas", "Lantern", "Deck", "Garden", "Press", "Robot", "Kitchen", "Odyssey", "Camera"}
	demoCities     = []string{"Brooklyn, NY", "Portland, OR", "Berlin, DE", "Austin, TX", "Kyoto, JP", "Lisbon, PT"}
	demoFriends    = []string{"ada", "grace", "linus", "ken", "barbara"}
)

// Demo builds a deterministic catalog of n projects for the given seed
func Demo(n int, seed int64, now time.Time, opts ...Option) *Catalog {
	r := rand.New(rand.NewSource(seed))

	projects := make([]domain.Project, 0, n)
	for i := 0; i < n; i++ {
		cat := demoCategories[r.Intn(len(demoCategories))]
		goal := float64(1000 * (1 + r.Intn(50)))
		launched := now.Add(-time.Duration(r.Intn(40*24)) * time.Hour)

		p := domain.Project{
			ID:        int64(i + 1),
			Name:      fmt.Sprintf("%s %s %d", demoAdjectives[r.Intn(len(demoAdjectives))], demoNouns[r.Intn(len(demoNouns))], i+1),
			Blurb:     fmt.Sprintf("A %s project looking for %d backers.", cat.Name, 10+r.Intn(500)),
			Creator:   fmt.Sprintf("Studio %c%c", 'A'+rune(r.Intn(26)), 'A'+rune(r.Intn(26))),
			Category:  cat.ID,
			Location:  demoCities[r.Intn(len(demoCities))],
			Goal:      goal,
			Pledged:   goal * r.Float64() * 2,
			Backers:   r.Intn(4000),
			Launched:  launched,
			Deadline:  launched.Add(time.Duration(30+r.Intn(30)) * 24 * time.Hour),
			URL:       fmt.Sprintf("https://example.com/projects/%d", i+1),
			StaffPick: r.Intn(5) == 0,
			Starred:   r.Intn(8) == 0,
		}
		if r.Intn(6) == 0 {
			p.Friends = []string{demoFriends[r.Intn(len(demoFriends))]}
		}
		projects = append(projects, p)
	}

	return New(demoCategories, projects, opts...)
}
