package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"projectfeed/internal/domain"
	"projectfeed/internal/i18n"
)

// ChromeHeight is the number of lines the feed screen uses around the rows:
// toolbar, status strip, blank line, footer, help and a trailing blank.
const ChromeHeight = 6

// RowHeight returns the lines one project row takes, separator included
func RowHeight(showBlurb bool) int {
	if showBlurb {
		return 4
	}
	return 3
}

// RowsFor returns how many project rows fit in a terminal of the given height
func RowsFor(height int, showBlurb bool) int {
	rows := (height - ChromeHeight) / RowHeight(showBlurb)
	if rows < 1 {
		return 1
	}
	return rows
}

// FeedState is everything the discovery screen needs to draw itself
type FeedState struct {
	Params     domain.DiscoveryParams
	Categories map[int64]string
	Projects   []domain.Project
	Cursor     int
	Offset     int
	Rows       int
	Loading    bool
	More       bool
	Err        error
	Spinner    string
	Status     string
	Help       string
	Width      int
	Height     int
	ShowBlurb  bool
	Now        time.Time
}

// Renderer draws the discovery feed
type Renderer struct {
	styles *Styles
	tr     *i18n.Translator
}

// NewRenderer creates a new feed renderer
func NewRenderer(styles *Styles, tr *i18n.Translator) *Renderer {
	return &Renderer{styles: styles, tr: tr}
}

// Styles returns the styles the renderer draws with
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render draws the whole discovery screen
func (r *Renderer) Render(state FeedState) string {
	var content strings.Builder

	width := state.Width
	if width <= 0 {
		width = 80
	}

	content.WriteString(r.styles.Toolbar.Width(width).Render(r.tr.T("Discover")))
	content.WriteString("\n")
	content.WriteString(r.styles.StatusStrip.Width(width).Render(r.Describe(state.Params, state.Categories)))
	content.WriteString("\n\n")

	switch {
	case len(state.Projects) == 0 && state.Loading:
		content.WriteString(r.styles.StatusLoading.Render(state.Spinner + " " + r.tr.T("Loading")))
		content.WriteString("\n")
	case len(state.Projects) == 0 && state.Err != nil:
		content.WriteString(r.styles.StatusError.Render(r.tr.T("LoadFailed", map[string]any{"Error": state.Err.Error()})))
		content.WriteString("\n")
	case len(state.Projects) == 0:
		content.WriteString(r.styles.Dim.Render(r.tr.T("Empty")))
		content.WriteString("\n")
	default:
		content.WriteString(r.renderRows(state, width))
	}

	// Pad so footer and help sit at the bottom
	used := strings.Count(content.String(), "\n")
	if pad := state.Height - used - 3; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}

	content.WriteString(r.renderFooter(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.Help))

	return content.String()
}

// Describe renders the params the way the status strip shows them
func (r *Renderer) Describe(params domain.DiscoveryParams, categories map[int64]string) string {
	var what string
	switch {
	case params.Starred:
		what = r.tr.T("Starred")
	case params.Social:
		what = r.tr.T("Social")
	case params.StaffPicks:
		what = r.tr.T("StaffPicks")
	case params.Category != 0 && categories[params.Category] != "":
		what = categories[params.Category]
	default:
		what = r.tr.T("Everything")
	}
	sort := params.Sort
	if sort == "" {
		sort = domain.SortMagic
	}
	return what + " · " + r.tr.T("SortedBy", map[string]any{"Sort": strings.ToLower(sort.Label())})
}

func (r *Renderer) renderRows(state FeedState, width int) string {
	rows := state.Rows
	if rows < 1 {
		rows = 1
	}
	start := state.Offset
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > len(state.Projects) {
		end = len(state.Projects)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(r.RenderProject(state.Projects[i], state.Categories, i == state.Cursor, state.ShowBlurb, state.Now, width))
		b.WriteString("\n\n")
	}
	return b.String()
}

// RenderProject draws one project row
func (r *Renderer) RenderProject(p domain.Project, categories map[int64]string, selected, showBlurb bool, now time.Time, width int) string {
	name := r.styles.Name.Render(p.Name)
	if p.StaffPick {
		name += " " + r.styles.StaffPick.Render("★")
	}
	funded := r.styles.Funded.Render(r.tr.T("Funded", map[string]any{"Percent": fmt.Sprintf("%.0f", p.PercentFunded())}))

	meta := []string{r.tr.T("ProjectBy", map[string]any{"Creator": p.Creator})}
	if c := categories[p.Category]; c != "" {
		meta = append(meta, c)
	}
	meta = append(meta,
		r.tr.T("Backers", map[string]any{"Count": p.Backers}),
		r.tr.T("DaysLeft", map[string]any{"Days": p.DaysLeft(now)}),
	)

	lines := []string{
		name + "  " + funded,
		r.styles.Meta.Render(strings.Join(meta, " · ")),
	}
	if showBlurb {
		lines = append(lines, r.styles.Blurb.Render(truncate(p.Blurb, width-4)))
	}

	marker := "  "
	if selected {
		marker = "> "
	}
	for i := range lines {
		if i == 0 {
			lines[i] = marker + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}
	row := strings.Join(lines, "\n")
	if selected {
		row = r.styles.SelectionBg.Width(width).Render(row)
	}
	return row
}

func (r *Renderer) renderFooter(state FeedState) string {
	switch {
	case state.Status != "":
		return r.styles.Status.Render(state.Status)
	case state.Err != nil && len(state.Projects) > 0:
		return r.styles.StatusError.Render(r.tr.T("LoadFailed", map[string]any{"Error": state.Err.Error()}))
	case state.Loading && len(state.Projects) > 0:
		return r.styles.StatusLoading.Render(state.Spinner + " " + r.tr.T("LoadingMore"))
	case !state.More && len(state.Projects) > 0:
		return r.styles.Dim.Render(r.tr.T("EndOfFeed"))
	case len(state.Projects) > 0:
		return r.styles.Status.Render(r.tr.T("FeedCount", map[string]any{
			"Count": len(state.Projects),
			"Page":  state.Params.Page,
		}))
	}
	return ""
}

func truncate(s string, n int) string {
	if n <= 1 || lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) > n-1 {
		runes = runes[:n-1]
	}
	return string(runes) + "…"
}
