// Package filter is the screen where the user picks which slice of the
// catalog the discovery feed shows.
package filter

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"projectfeed/internal/domain"
	"projectfeed/internal/i18n"
	"projectfeed/internal/ui/results"
)

// row is one selectable filter
type row struct {
	title  string
	desc   string
	params domain.DiscoveryParams // sort and paging are filled in on select
}

func (r row) Title() string       { return r.title }
func (r row) Description() string { return r.desc }
func (r row) FilterValue() string { return r.title }

type keyMap struct {
	Select key.Binding
	Sort   key.Binding
	Back   key.Binding
}

var keys = keyMap{
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	Back:   key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
}

// Model is the filter screen
type Model struct {
	req  results.Request
	list list.Model
	sort domain.Sort
	tr   *i18n.Translator
}

// New builds the filter screen for a pending result request
func New(req results.Request, categories []domain.Category, tr *i18n.Translator, width, height int) Model {
	items := Rows(categories, tr)

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = tr.T("FilterTitle")
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select, keys.Sort, keys.Back}
	}
	l.Select(indexOf(items, req.Params))

	sort := req.Params.Sort
	if sort == "" {
		sort = domain.SortMagic
	}
	return Model{req: req, list: l, sort: sort, tr: tr}
}

// Rows lists the selectable filters: the fixed rows, then every category
// with its subcategories right after it.
func Rows(categories []domain.Category, tr *i18n.Translator) []list.Item {
	items := []list.Item{
		row{title: tr.T("Everything")},
		row{title: tr.T("StaffPicks"), params: domain.DiscoveryParams{StaffPicks: true}},
		row{title: tr.T("Starred"), params: domain.DiscoveryParams{Starred: true}},
		row{title: tr.T("Social"), params: domain.DiscoveryParams{Social: true}},
	}
	children := make(map[int64][]domain.Category)
	for _, c := range categories {
		if !c.IsRoot() {
			children[c.ParentID] = append(children[c.ParentID], c)
		}
	}
	for _, c := range categories {
		if !c.IsRoot() {
			continue
		}
		items = append(items, row{title: c.Name, params: domain.DiscoveryParams{Category: c.ID}})
		for _, child := range children[c.ID] {
			items = append(items, row{title: "  " + child.Name, desc: c.Name, params: domain.DiscoveryParams{Category: child.ID}})
		}
	}
	return items
}

func indexOf(items []list.Item, p domain.DiscoveryParams) int {
	for i, it := range items {
		r := it.(row)
		r.params.Sort = p.Sort
		if r.params.SameFilter(p) {
			return i
		}
	}
	return 0
}

// Request returns the request this screen answers
func (m Model) Request() results.Request {
	return m.req
}

// Sort returns the sort the result will carry
func (m Model) Sort() domain.Sort {
	return m.sort
}

// SetSize resizes the list
func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Update handles keys; choosing or leaving replies with a results.Result
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Back):
			return m, reply(m.req.Cancel())
		case key.Matches(msg, keys.Sort):
			m.sort = nextSort(m.sort)
			return m, nil
		case key.Matches(msg, keys.Select):
			r, ok := m.list.SelectedItem().(row)
			if !ok {
				return m, reply(m.req.Cancel())
			}
			params := r.params
			params.Sort = m.sort
			params.PerPage = m.req.Params.PerPage
			return m, reply(m.req.OK(params))
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list with the active sort under it
func (m Model) View() string {
	return m.list.View() + "\n" + m.tr.T("FilterSortHint", map[string]any{"Sort": m.sort.Label()})
}

func reply(r results.Result) tea.Cmd {
	return func() tea.Msg { return r }
}

func nextSort(s domain.Sort) domain.Sort {
	for i, candidate := range domain.Sorts {
		if candidate == s {
			return domain.Sorts[(i+1)%len(domain.Sorts)]
		}
	}
	return domain.Sorts[0]
}
