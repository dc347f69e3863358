package dashboard

import "github.com/charmbracelet/bubbles/key"

// dashboardKeys holds the key bindings for the dashboard.
type dashboardKeys struct {
	PrevPage key.Binding
	NextPage key.Binding
	PrevTeam key.Binding
	NextTeam key.Binding
	Refresh  key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k dashboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevPage, k.NextPage, k.PrevTeam, k.NextTeam, k.Refresh, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k dashboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevPage, k.NextPage, k.Back},
		{k.PrevTeam, k.NextTeam},
		{k.Refresh, k.Quit},
	}
}

// DashboardKeyMap returns the dashboard key bindings.
func DashboardKeyMap() dashboardKeys {
	return dashboardKeys{
		PrevPage: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next page"),
		),
		PrevTeam: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←/[", "prev team"),
		),
		NextTeam: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→/]", "next team"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
