package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/nav"
	"github.com/teamized/teamized/internal/syncer"
)

// helpBarHeight is the number of lines reserved for the help bar.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the teamized dashboard.
// It renders the current page from the cache and requests missing
// categories as asynchronous effects after each render pass.
type Model struct {
	store    *cache.Store
	navState *nav.State
	sync     Syncer

	keys    dashboardKeys
	help    help.Model
	spinner spinner.Model

	width   int
	height  int
	loading bool
	err     error
}

// NewModel creates a dashboard Model. The initial team list load is issued
// from Init.
func NewModel(store *cache.Store, navState *nav.State, sync Syncer) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		store:    store,
		navState: navState,
		sync:     sync,
		keys:     DashboardKeyMap(),
		help:     help.New(),
		spinner:  sp,
		loading:  true,
	}
}

// Init starts the spinner and the initial bulk team sync.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadTeams())
}

// loadTeams returns a tea.Cmd performing the bulk sync asynchronously.
func (m Model) loadTeams() tea.Cmd {
	sync := m.sync
	return func() tea.Msg {
		teams, err := sync.LoadTeams(context.Background())
		return TeamsSyncedMsg{Teams: teams, Err: err}
	}
}

// refreshCmds returns one command per category the current page needs that
// has never been fetched for the selected team. This is the lazy-fetch
// effect: it runs after the page rendered, never during the render itself.
func (m Model) refreshCmds() tea.Cmd {
	teamID := m.store.SelectedTeamID()
	if teamID == "" {
		return nil
	}
	var cmds []tea.Cmd
	for _, cat := range pageCategories[m.navState.CurrentPage()] {
		if !m.sync.NeedsRefresh(teamID, cat) {
			continue
		}
		cmds = append(cmds, m.refreshCategory(teamID, cat))
	}
	return tea.Batch(cmds...)
}

// forceRefreshCmds refreshes every category of the current page regardless
// of state. Duplicate triggers for in-flight categories are coalesced by
// the synchronizer.
func (m Model) forceRefreshCmds() tea.Cmd {
	teamID := m.store.SelectedTeamID()
	if teamID == "" {
		return nil
	}
	var cmds []tea.Cmd
	for _, cat := range pageCategories[m.navState.CurrentPage()] {
		cmds = append(cmds, m.refreshCategory(teamID, cat))
	}
	return tea.Batch(cmds...)
}

func (m Model) refreshCategory(teamID string, cat cache.Category) tea.Cmd {
	sync := m.sync
	return func() tea.Msg {
		_, err := sync.RefreshCategory(context.Background(), teamID, cat)
		return CategoryRefreshedMsg{TeamID: teamID, Category: cat, Err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TeamsSyncedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.navState.MarkLoaded()
		return m, m.refreshCmds()

	case CategoryRefreshedMsg:
		if msg.Err != nil && !errors.Is(msg.Err, syncer.ErrRefreshInFlight) {
			m.err = msg.Err
			return m, nil
		}
		return m, nil

	case RenderMsg, PageRenderMsg:
		// The cache or selection changed underneath us; re-rendering is
		// implicit, but a new page or team may need categories fetched.
		return m, m.refreshCmds()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		return m.selectPage(-1)

	case "down", "j":
		return m.selectPage(1)

	case "left", "[":
		return m.cycleTeam(-1)

	case "right", "]":
		return m.cycleTeam(1)

	case "r":
		m.err = nil
		if m.navState.CurrentPage() == nav.PageTeamlist {
			m.loading = true
			return m, m.loadTeams()
		}
		return m, m.forceRefreshCmds()

	case "b":
		if entry, ok := m.navState.Back(); ok {
			// The entry's team may have been evicted since it was
			// recorded; repair the selection after restoring it.
			m.sync.SwitchTeam(entry.TeamID)
			m.sync.EnsureExistingTeam()
			return m, m.refreshCmds()
		}
		return m, nil
	}

	return m, nil
}

// selectPage moves the current page delta steps through the page list,
// wrapping at both ends, and exports the new position to the link.
func (m Model) selectPage(delta int) (tea.Model, tea.Cmd) {
	pages := nav.Pages()
	cur := 0
	for i, p := range pages {
		if p == m.navState.CurrentPage() {
			cur = i
			break
		}
	}
	next := (cur + delta + len(pages)) % len(pages)
	if err := m.navState.SelectPage(pages[next]); err != nil {
		m.err = err
		return m, nil
	}
	m.navState.ExportToLink(m.store.SelectedTeamID(), nil)
	return m, m.refreshCmds()
}

// cycleTeam switches the selection delta steps through the team list.
func (m Model) cycleTeam(delta int) (tea.Model, tea.Cmd) {
	teams := m.store.TeamsList()
	if len(teams) == 0 {
		return m, nil
	}
	cur := 0
	for i, t := range teams {
		if t.ID == m.store.SelectedTeamID() {
			cur = i
			break
		}
	}
	next := (cur + delta + len(teams)) % len(teams)
	m.sync.SwitchTeam(teams[next].ID)
	return m, m.refreshCmds()
}

// View renders the header, page body and help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.loading {
		return m.spinner.View() + " Loading teams..."
	}

	header := m.viewHeader()
	body := m.viewBody()
	helpView := m.help.View(m.keys)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, helpView)
}

// viewHeader renders the team name and the page tab row.
func (m Model) viewHeader() string {
	teamName := "(no team)"
	if d := m.store.CurrentTeamData(); d != nil {
		teamName = d.Team.Name
	}

	tabs := make([]string, 0, len(nav.Pages()))
	for _, p := range nav.Pages() {
		title := pageTitles[p]
		if p == m.navState.CurrentPage() {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}

	return titleStyle.Render(teamName) + "  " + strings.Join(tabs, " · ")
}

func (m Model) viewBody() string {
	bodyWidth := m.width - borderChrome
	if bodyWidth < 1 {
		bodyWidth = 1
	}
	bodyHeight := m.height - borderChrome - helpBarHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var content string
	if m.err != nil {
		content = errorText.Render("Error: "+m.err.Error()) + "\n\n" +
			mutedText.Render("Press r to retry")
	} else {
		content = m.viewPage(m.navState.CurrentPage(), m.store.CurrentTeamData())
	}

	return ContentBorder().
		Width(bodyWidth).
		Height(bodyHeight).
		Render(content)
}
