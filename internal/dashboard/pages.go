package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/nav"
)

// pageCategories maps each page to the cache categories it reads. The
// model requests a refresh for any of these still in the initial state
// after the page rendered.
var pageCategories = map[nav.Page][]cache.Category{
	nav.PageTeam:        {cache.CategoryMembers, cache.CategoryInvites},
	nav.PageCalendars:   {cache.CategoryCalendars},
	nav.PageTodo:        {cache.CategoryTodolists},
	nav.PageWorkingtime: {cache.CategoryWorksessions},
	nav.PageClub:        {cache.CategoryClubMembers, cache.CategoryClubGroups},
}

// pageTitles maps pages to their display names in the tab row.
var pageTitles = map[nav.Page]string{
	nav.PageHome:        "Home",
	nav.PageTeamlist:    "Teams",
	nav.PageTeam:        "Team",
	nav.PageCalendars:   "Calendars",
	nav.PageTodo:        "To-do",
	nav.PageWorkingtime: "Working time",
	nav.PageClub:        "Club",
}

// viewPage renders the body of the given page from the cached team data.
// d may be nil while the team list is still loading.
func (m Model) viewPage(page nav.Page, d *cache.TeamData) string {
	if d == nil && page != nav.PageTeamlist {
		return mutedText.Render("No team selected")
	}

	switch page {
	case nav.PageHome:
		return m.viewHome(d)
	case nav.PageTeamlist:
		return m.viewTeamlist()
	case nav.PageTeam:
		return m.viewTeam(d)
	case nav.PageCalendars:
		return m.viewCalendars(d)
	case nav.PageTodo:
		return m.viewTodo(d)
	case nav.PageWorkingtime:
		return m.viewWorkingtime(d)
	case nav.PageClub:
		return m.viewClub(d)
	}
	return ""
}

func (m Model) viewHome(d *cache.TeamData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Team.Name))
	b.WriteByte('\n')
	if d.Team.Description != "" {
		b.WriteString(d.Team.Description)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d members", d.Team.MemberCount)
	if d.Team.Club != nil {
		b.WriteByte('\n')
		b.WriteString(mutedText.Render("Linked club: " + d.Team.Club.Name))
	}
	return b.String()
}

func (m Model) viewTeamlist() string {
	teams := m.store.TeamsList()
	if len(teams) == 0 {
		return mutedText.Render("No teams")
	}
	selected := m.store.SelectedTeamID()
	defaultID := m.store.DefaultTeamID()

	var b strings.Builder
	for i, t := range teams {
		if i > 0 {
			b.WriteByte('\n')
		}
		if t.ID == selected {
			b.WriteString("▸ ")
		} else {
			b.WriteString("  ")
		}
		b.WriteString(t.Name)
		if t.ID == defaultID {
			b.WriteString(mutedText.Render(" (default)"))
		}
	}
	return b.String()
}

func (m Model) viewTeam(d *cache.TeamData) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Members"))
	b.WriteByte('\n')
	b.WriteString(m.categorySection(d, cache.CategoryMembers, func() string {
		members := sortedByName(d.Members, func(mb model.Member) string { return mb.User.Username })
		lines := make([]string, 0, len(members))
		for _, mb := range members {
			line := "  " + mb.User.Username
			if mb.IsAdmin {
				line += " " + adminBadge.Render("["+mb.RoleText+"]")
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			return mutedText.Render("  no members")
		}
		return strings.Join(lines, "\n")
	}))

	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Invites"))
	b.WriteByte('\n')
	b.WriteString(m.categorySection(d, cache.CategoryInvites, func() string {
		invites := sortedByName(d.Invites, func(in model.Invite) string { return in.Note })
		lines := make([]string, 0, len(invites))
		for _, in := range invites {
			status := "valid"
			if !in.IsValid {
				status = "expired"
			}
			lines = append(lines, fmt.Sprintf("  %s (%s, %d uses left)", in.Note, status, in.UsesLeft))
		}
		if len(lines) == 0 {
			return mutedText.Render("  no open invites")
		}
		return strings.Join(lines, "\n")
	}))
	return b.String()
}

func (m Model) viewCalendars(d *cache.TeamData) string {
	return m.categorySection(d, cache.CategoryCalendars, func() string {
		calendars := sortedByName(d.Calendars, func(c model.Calendar) string { return c.Name })
		if len(calendars) == 0 {
			return mutedText.Render("No calendars")
		}
		var b strings.Builder
		for i, c := range calendars {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s (%d events)", c.Name, len(c.Events))
			if c.IsPublic {
				b.WriteString(mutedText.Render(" public"))
			}
		}
		return b.String()
	})
}

func (m Model) viewTodo(d *cache.TeamData) string {
	return m.categorySection(d, cache.CategoryTodolists, func() string {
		lists := sortedByName(d.Todolists, func(l model.Todolist) string { return l.Name })
		if len(lists) == 0 {
			return mutedText.Render("No to-do lists")
		}
		var b strings.Builder
		for i, l := range lists {
			if i > 0 {
				b.WriteByte('\n')
			}
			done := 0
			for _, it := range l.Items {
				if it.Done {
					done++
				}
			}
			fmt.Fprintf(&b, "%s (%d/%d done)", l.Name, done, len(l.Items))
		}
		return b.String()
	})
}

func (m Model) viewWorkingtime(d *cache.TeamData) string {
	return m.categorySection(d, cache.CategoryWorksessions, func() string {
		sessions := sortedByName(d.Worksessions, func(w model.Worksession) string { return w.TimeStart })
		if len(sessions) == 0 {
			return mutedText.Render("No work sessions")
		}
		var b strings.Builder
		var total float64
		for i, w := range sessions {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s  %s", w.TimeStart, formatDuration(w.Duration))
			if !w.IsEnded {
				b.WriteString(adminBadge.Render(" (running)"))
			}
			if w.Note != "" {
				b.WriteString(mutedText.Render("  " + w.Note))
			}
			total += w.Duration
		}
		b.WriteByte('\n')
		b.WriteString(mutedText.Render("Total: " + formatDuration(total)))
		return b.String()
	})
}

func (m Model) viewClub(d *cache.TeamData) string {
	if d.Team.Club == nil {
		return mutedText.Render("This team has no linked club")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Team.Club.Name))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Club members"))
	b.WriteByte('\n')
	b.WriteString(m.categorySection(d, cache.CategoryClubMembers, func() string {
		members := sortedByName(d.ClubMembers, func(cm model.ClubMember) string {
			return cm.LastName + " " + cm.FirstName
		})
		lines := make([]string, 0, len(members))
		for _, cm := range members {
			lines = append(lines, fmt.Sprintf("  %s %s <%s>", cm.FirstName, cm.LastName, cm.Email))
		}
		if len(lines) == 0 {
			return mutedText.Render("  no club members")
		}
		return strings.Join(lines, "\n")
	}))

	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Groups"))
	b.WriteByte('\n')
	b.WriteString(m.categorySection(d, cache.CategoryClubGroups, func() string {
		groups := sortedByName(d.ClubGroups, func(g model.ClubGroup) string { return g.Name })
		lines := make([]string, 0, len(groups))
		for _, g := range groups {
			lines = append(lines, fmt.Sprintf("  %s (%d members)", g.Name, len(g.MemberIDs)))
		}
		if len(lines) == 0 {
			return mutedText.Render("  no groups")
		}
		return strings.Join(lines, "\n")
	}))
	return b.String()
}

// categorySection renders content for one category, showing a loading line
// while the category's first fetch is still outstanding.
func (m Model) categorySection(d *cache.TeamData, cat cache.Category, render func() string) string {
	st := d.State(cat)
	if st.Initial {
		if st.Refreshing {
			return m.spinner.View() + " Loading..."
		}
		return mutedText.Render("Not loaded yet")
	}
	return render()
}

// sortedByName returns map values ordered by the given key function, with
// the entity id as tiebreaker so the order is stable between redraws.
func sortedByName[T model.Entity](items map[string]T, name func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := name(out[i]), name(out[j])
		if ni != nj {
			return ni < nj
		}
		return out[i].EntityID() < out[j].EntityID()
	})
	return out
}

// formatDuration renders a duration in seconds as "3h20m".
func formatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	mins := (total % 3600) / 60
	if h == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh%02dm", h, mins)
}
