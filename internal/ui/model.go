package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"projectfeed/internal/config"
	"projectfeed/internal/domain"
	"projectfeed/internal/eventbus"
	"projectfeed/internal/feed"
	"projectfeed/internal/i18n"
	"projectfeed/internal/metrics"
	"projectfeed/internal/pagination"
	"projectfeed/internal/ui/results"
	"projectfeed/internal/ui/screens/filter"
	"projectfeed/internal/ui/screens/project"
	"projectfeed/internal/ui/services/navigation"
	"projectfeed/internal/ui/views"
)

// screen identifies what currently owns the terminal
type screen int

const (
	screenDiscovery screen = iota
	screenFilter
	screenProject
)

func (s screen) String() string {
	switch s {
	case screenFilter:
		return "filter"
	case screenProject:
		return "project"
	default:
		return "discovery"
	}
}

// Deps are the collaborators the UI needs
type Deps struct {
	Bus        eventbus.EventBus
	Config     *config.Config
	ConfigSvc  config.ConfigService // nil disables saving
	Feed       *feed.Controller
	Translator *i18n.Translator
	Logger     zerolog.Logger
	Clipboard  func(string) error // defaults to the system clipboard
	Now        func() time.Time
}

// Model represents the UI state
type Model struct {
	bus       eventbus.EventBus
	config    *config.Config
	configSvc config.ConfigService
	feed      *feed.Controller
	tr        *i18n.Translator
	logger    zerolog.Logger
	copy      func(string) error
	now       func() time.Time

	trigger  *pagination.Trigger
	nav      *navigation.Service
	broker   *results.Broker
	renderer *views.Renderer
	popup    *views.PopupRenderer
	pager    *Pager

	width   int
	height  int
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	screen  screen
	filter  filter.Model
	project project.Model

	categories    []domain.Category
	categoryNames map[int64]string
	buildAlert    *domain.BuildEnvelope
	status        string

	// commands produced by the trigger during the current Update
	pending []tea.Cmd
}

// NewModel creates a new UI model
func NewModel(deps Deps) *Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	tr := deps.Translator
	if tr == nil {
		tr = i18n.MustNew(cfg.UISettings.Language)
	}
	copyFn := deps.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	styles := views.NewStyles(cfg.UISettings.ToolbarColor)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.StatusLoading

	m := &Model{
		bus:           deps.Bus,
		config:        cfg,
		configSvc:     deps.ConfigSvc,
		feed:          deps.Feed,
		tr:            tr,
		logger:        deps.Logger,
		copy:          copyFn,
		now:           now,
		nav:           navigation.NewService(),
		broker:        results.NewBroker(),
		renderer:      views.NewRenderer(styles, tr),
		popup:         views.NewPopupRenderer(styles),
		pager:         NewPager(nil),
		keys:          newKeyMap(),
		help:          help.New(),
		spinner:       sp,
		categoryNames: make(map[int64]string),
	}

	m.trigger = pagination.New(m.advance, pagination.WithLogger(m.logger))
	m.nav.OnScroll(func(sig pagination.ScrollSignal) {
		m.trigger.Observe(sig)
	})
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// advance is the trigger's sink; it runs under the trigger's lock
func (m *Model) advance() {
	metrics.PaginationAdvances.Inc()
	if cmd := m.feed.TakeNextPage(); cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

// Init starts the discovery screen and its first fetch
func (m *Model) Init() tea.Cmd {
	m.showDiscovery()
	return tea.Batch(
		m.feed.TakeParams(m.config.InitialParams()),
		m.loadCategories(),
		m.checkBuild(),
		m.spinner.Tick,
	)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(append(m.drainPending(), cmd)...)
}

func (m *Model) drainPending() []tea.Cmd {
	cmds := m.pending
	m.pending = nil
	return cmds
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		switch m.screen {
		case screenFilter:
			m.filter.SetSize(msg.Width, msg.Height-1)
		case screenProject:
			m.project.SetSize(msg.Width, msg.Height)
		}
		m.nav.SetViewportHeight(views.RowsFor(msg.Height, m.config.UISettings.ShowBlurb))
		return nil

	case feed.PageLoadedMsg, feed.PageFailedMsg:
		if m.feed.Apply(msg) {
			m.nav.SetTotal(m.feed.Len())
		}
		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case categoriesMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("Failed to load categories")
			return nil
		}
		m.setCategories(msg.categories)
		return nil

	case buildCheckMsg:
		if msg.err != nil {
			m.logger.Debug().Err(msg.err).Msg("Build check failed")
			return nil
		}
		if msg.envelope != nil && msg.envelope.NewerThan(m.config.Build.Current) {
			m.buildAlert = msg.envelope
			m.publish(domain.BuildAvailableEvent{Envelope: *msg.envelope})
		}
		return nil

	case results.Result:
		return m.handleResult(msg)

	case project.ClosedMsg:
		m.showDiscovery()
		return nil

	case project.OpenPagerMsg:
		return m.openPager(msg.Content)

	case pagerClosedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("Pager failed")
		}
		return nil

	case configSavedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("Failed to save params")
		}
		return nil

	case EventMsg:
		if e, ok := msg.Event.(domain.ErrorEvent); ok {
			m.status = e.Message
		}
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

// forward passes unhandled messages to the active sub-screen
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.screen {
	case screenFilter:
		m.filter, cmd = m.filter.Update(msg)
	case screenProject:
		m.project, cmd = m.project.Update(msg)
	}
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.buildAlert != nil {
		return m.handleBuildAlertKey(msg)
	}
	if m.screen != screenDiscovery {
		return m.forward(msg)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.nav.Navigate(navigation.DirectionUp)
	case key.Matches(msg, m.keys.Down):
		m.nav.Navigate(navigation.DirectionDown)
	case key.Matches(msg, m.keys.PageUp):
		m.nav.Navigate(navigation.DirectionPageUp)
	case key.Matches(msg, m.keys.PageDown):
		m.nav.Navigate(navigation.DirectionPageDown)
	case key.Matches(msg, m.keys.Home):
		m.nav.Navigate(navigation.DirectionHome)
	case key.Matches(msg, m.keys.End):
		m.nav.Navigate(navigation.DirectionEnd)
	case key.Matches(msg, m.keys.Open):
		m.openProject()
	case key.Matches(msg, m.keys.Filter):
		m.openFilter()
	case key.Matches(msg, m.keys.Refresh):
		m.nav.Reset()
		return m.feed.Refresh()
	case key.Matches(msg, m.keys.More):
		return m.feed.TakeNextPage()
	case key.Matches(msg, m.keys.Blurb):
		m.config.UISettings.ShowBlurb = !m.config.UISettings.ShowBlurb
		m.nav.SetViewportHeight(views.RowsFor(m.height, m.config.UISettings.ShowBlurb))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) handleBuildAlertKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "enter":
		envelope := m.buildAlert
		m.buildAlert = nil
		if err := m.copy(envelope.DownloadURL); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to copy download link")
			m.status = m.tr.T("CopyFailed", map[string]any{"Error": err.Error()})
			return nil
		}
		m.status = m.tr.T("LinkCopied")
	case "n", "esc", "q":
		m.buildAlert = nil
	}
	return nil
}

// showDiscovery makes the feed the visible screen and resumes paging
func (m *Model) showDiscovery() {
	m.screen = screenDiscovery
	m.trigger.Start()
	m.nav.Emit()
}

// hideDiscovery pauses paging while another screen covers the feed
func (m *Model) hideDiscovery(next screen) {
	m.trigger.Stop()
	m.screen = next
	m.logger.Debug().Stringer("screen", next).Msg("Discovery hidden")
}

func (m *Model) openProject() {
	projects := m.feed.Projects()
	cursor := m.nav.GetCursor()
	if cursor < 0 || cursor >= len(projects) {
		return
	}
	p := projects[cursor]
	m.project = project.New(p, m.categoryNames[p.Category], m.tr, m.now(), m.width, m.height)
	m.hideDiscovery(screenProject)
	m.publish(domain.ProjectOpenedEvent{ProjectID: p.ID})
}

func (m *Model) openFilter() {
	req := m.broker.Request(m.feed.Params())
	m.filter = filter.New(req, m.categories, m.tr, m.width, m.height-1)
	m.hideDiscovery(screenFilter)
}

// handleResult applies the filter screen's answer
func (m *Model) handleResult(r results.Result) tea.Cmd {
	params, ok, err := m.broker.Resolve(r)
	if err != nil {
		m.logger.Warn().Err(err).Stringer("request", r.RequestID).Msg("Dropping result")
		return nil
	}
	if !ok || params.SameFilter(m.feed.Params()) {
		m.showDiscovery()
		return nil
	}

	// Switch feeds before paging resumes so the old layout cannot advance it
	m.nav.Reset()
	cmds := []tea.Cmd{m.feed.TakeParams(params)}
	if m.config.UISettings.AutosaveParams {
		cmds = append(cmds, m.saveParams(params))
	}
	m.showDiscovery()
	return tea.Batch(cmds...)
}

func (m *Model) quit() tea.Cmd {
	m.trigger.Stop()
	m.logger.Info().Int64("advances", m.trigger.Advances()).Msg("Quitting")
	return tea.Quit
}

func (m *Model) setCategories(categories []domain.Category) {
	m.categories = categories
	m.categoryNames = make(map[int64]string, len(categories))
	for _, c := range categories {
		m.categoryNames[c.ID] = c.Name
	}
}

func (m *Model) loadCategories() tea.Cmd {
	src := m.feed.Source()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		categories, err := src.Categories(ctx)
		return categoriesMsg{categories: categories, err: err}
	}
}

func (m *Model) checkBuild() tea.Cmd {
	src := m.feed.Source()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		envelope, err := src.LatestBuild(ctx)
		return buildCheckMsg{envelope: envelope, err: err}
	}
}

func (m *Model) saveParams(params domain.DiscoveryParams) tea.Cmd {
	if m.configSvc == nil {
		return nil
	}
	params.Page = 0
	m.config.Params = params
	cfg := *m.config
	svc := m.configSvc
	return func() tea.Msg {
		return configSavedMsg{err: svc.Save(&cfg)}
	}
}

func (m *Model) openPager(content string) tea.Cmd {
	pager := m.pager
	return func() tea.Msg {
		return pagerClosedMsg{err: pager.Show(content)}
	}
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.screen {
	case screenFilter:
		return m.filter.View()
	case screenProject:
		return m.project.View()
	}

	out := m.renderer.Render(views.FeedState{
		Params:     m.feed.Params(),
		Categories: m.categoryNames,
		Projects:   m.feed.Projects(),
		Cursor:     m.nav.GetCursor(),
		Offset:     m.nav.GetViewportOffset(),
		Rows:       m.nav.GetViewportHeight(),
		Loading:    m.feed.Loading(),
		More:       m.feed.More(),
		Err:        m.feed.Err(),
		Spinner:    m.spinner.View(),
		Status:     m.status,
		Help:       m.help.View(m.keys),
		Width:      m.width,
		Height:     m.height,
		ShowBlurb:  m.config.UISettings.ShowBlurb,
		Now:        m.now(),
	})

	if m.buildAlert != nil {
		body := m.tr.T("UpgradeTitle") + "\n\n" +
			m.tr.T("UpgradeBody", map[string]any{"Version": m.buildAlert.Version}) + "\n" +
			m.buildAlert.DownloadURL + "\n\n" +
			m.tr.T("UpgradePrompt")
		out = m.popup.RenderPopupOverlay(out, body, m.width, m.height)
	}
	return out
}

var _ tea.Model = (*Model)(nil)
