package dashboard

import "github.com/charmbracelet/lipgloss"

var (
	// titleStyle renders the team name in the header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})

	// activeTabStyle highlights the current page in the page tab row.
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"}).
			Underline(true)

	// inactiveTabStyle renders the other pages in the tab row.
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	// mutedText renders secondary detail lines.
	mutedText = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})

	// errorText renders error lines.
	errorText = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})

	// adminBadge marks members that hold an admin role.
	adminBadge = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "3", Dark: "11"})
)

// ContentBorder returns the style framing the page body.
func ContentBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}
