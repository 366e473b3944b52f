// Package project is the detail screen opened from a feed row.
package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"projectfeed/internal/domain"
	"projectfeed/internal/i18n"
)

// ClosedMsg is sent when the user leaves the detail screen
type ClosedMsg struct{}

// OpenPagerMsg asks the root model to show the text in the external pager
type OpenPagerMsg struct {
	Content string
}

type keyMap struct {
	Back  key.Binding
	Pager key.Binding
}

var keys = keyMap{
	Back:  key.NewBinding(key.WithKeys("esc", "q", "backspace"), key.WithHelp("esc", "back")),
	Pager: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in pager")),
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// Model is the project detail screen
type Model struct {
	project  domain.Project
	category string
	viewport viewport.Model
	content  string
}

// New builds the detail screen for a project
func New(p domain.Project, category string, tr *i18n.Translator, now time.Time, width, height int) Model {
	content := Describe(p, category, tr, now)
	vp := viewport.New(width, viewportHeight(height))
	vp.SetContent(content)
	return Model{project: p, category: category, viewport: vp, content: content}
}

func viewportHeight(height int) int {
	if height > 2 {
		return height - 2
	}
	return 1
}

// Describe renders everything known about a project as plain paragraphs
func Describe(p domain.Project, category string, tr *i18n.Translator, now time.Time) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(tr.T("ProjectBy", map[string]any{"Creator": p.Creator}))
	b.WriteString("\n\n")
	if p.Blurb != "" {
		b.WriteString(p.Blurb)
		b.WriteString("\n\n")
	}

	field := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(label+":"), value))
	}
	field("Category", category)
	field("Location", p.Location)
	field("Goal", fmt.Sprintf("%.0f", p.Goal))
	field("Pledged", fmt.Sprintf("%.0f (%s)", p.Pledged, tr.T("Funded", map[string]any{"Percent": fmt.Sprintf("%.0f", p.PercentFunded())})))
	field("Backers", fmt.Sprintf("%d", p.Backers))
	if !p.Launched.IsZero() {
		field("Launched", p.Launched.Format("2006-01-02"))
	}
	if !p.Deadline.IsZero() {
		field("Deadline", fmt.Sprintf("%s (%s)", p.Deadline.Format("2006-01-02"), tr.T("DaysLeft", map[string]any{"Days": p.DaysLeft(now)})))
	}
	if len(p.Friends) > 0 {
		field("Friends", strings.Join(p.Friends, ", "))
	}
	field("URL", p.URL)
	return b.String()
}

// Project returns the project shown
func (m Model) Project() domain.Project {
	return m.project
}

// SetSize resizes the viewport
func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = viewportHeight(height)
}

// Update handles scrolling and leaving the screen
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Back):
			return m, func() tea.Msg { return ClosedMsg{} }
		case key.Matches(msg, keys.Pager):
			content := m.content
			return m, func() tea.Msg { return OpenPagerMsg{Content: content} }
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewport and a help line
func (m Model) View() string {
	help := fmt.Sprintf("%s · %s · %3.f%%", keys.Back.Help().Desc, keys.Pager.Help().Desc, m.viewport.ScrollPercent()*100)
	return m.viewport.View() + "\n" + helpStyle.Render(help)
}
