// Package nav tracks the current page and team selection as navigation
// state: a history stack with push/replace semantics and shareable links
// carrying the "p" (page) and "t" (team) query parameters.
package nav

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Page is one of the client's top-level pages.
type Page string

const (
	PageHome        Page = "home"
	PageTeamlist    Page = "teamlist"
	PageTeam        Page = "team"
	PageCalendars   Page = "calendars"
	PageTodo        Page = "todo"
	PageWorkingtime Page = "workingtime"
	PageClub        Page = "club"
)

// ErrUnknownPage indicates a page name outside the fixed set.
var ErrUnknownPage = errors.New("nav: unknown page")

// Pages returns all pages in display order. The first entry is the
// fallback for invalid page names.
func Pages() []Page {
	return []Page{
		PageHome,
		PageTeamlist,
		PageTeam,
		PageCalendars,
		PageTodo,
		PageWorkingtime,
		PageClub,
	}
}

// Valid reports whether p is a known page.
func (p Page) Valid() bool {
	for _, known := range Pages() {
		if p == known {
			return true
		}
	}
	return false
}

// Entry is one history record: the page and team selection at the time it
// was exported.
type Entry struct {
	Page   Page
	TeamID string
}

// LinkOptions adjusts link export: extra query parameters to set and
// parameter names to drop.
type LinkOptions struct {
	AdditionalParams map[string]string
	RemoveParams     []string
}

// State holds the current page and the navigation history. It is confined
// to the UI goroutine and performs no locking.
type State struct {
	current  Page
	history  []Entry
	pos      int
	loaded   bool
	lastLink string
	logger   *zap.Logger
}

// NewState creates navigation state starting on the first page.
func NewState(logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &State{
		current: Pages()[0],
		pos:     -1,
		logger:  logger,
	}
}

// CurrentPage returns the active page.
func (s *State) CurrentPage() Page { return s.current }

// SelectPage switches to the given page. Unknown pages are rejected.
func (s *State) SelectPage(p Page) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPage, string(p))
	}
	s.current = p
	return nil
}

// EnsureExistingPage falls back to the first page when the current page
// name is not in the page list.
func (s *State) EnsureExistingPage() {
	if !s.current.Valid() {
		s.current = Pages()[0]
	}
}

// MarkLoaded records that the initial load is complete. Before that, link
// exports replace the current history entry instead of pushing a new one,
// so the back button cannot loop on the entry created during startup.
func (s *State) MarkLoaded() { s.loaded = true }

// ExportToLink reflects the current page and team selection into a
// shareable link ("?p=<page>&t=<team>") and records a history entry when
// the link changed.
func (s *State) ExportToLink(teamID string, opts *LinkOptions) string {
	s.EnsureExistingPage()

	params := url.Values{}
	params.Set("p", string(s.current))
	params.Set("t", teamID)
	if opts != nil {
		for k, v := range opts.AdditionalParams {
			params.Set(k, v)
		}
		for _, k := range opts.RemoveParams {
			params.Del(k)
		}
	}
	link := "?" + params.Encode()

	if link != s.lastLink {
		entry := Entry{Page: s.current, TeamID: teamID}
		if s.loaded {
			s.push(entry)
		} else {
			s.replace(entry)
		}
		s.lastLink = link
	}
	return link
}

// ImportFromLink restores page and team selection from a link produced by
// ExportToLink (a bare query string, with or without the leading "?").
// It returns the team id for the caller to select; selection repair is the
// synchronizer's job.
func (s *State) ImportFromLink(link string) (teamID string, err error) {
	params, err := url.ParseQuery(strings.TrimPrefix(link, "?"))
	if err != nil {
		return "", fmt.Errorf("nav: parsing link %q: %w", link, err)
	}
	s.current = Page(params.Get("p"))
	s.EnsureExistingPage()
	return params.Get("t"), nil
}

// Back moves one entry back in history, restoring that entry's page.
// It returns false when there is nothing to go back to.
func (s *State) Back() (Entry, bool) {
	if s.pos <= 0 {
		return Entry{}, false
	}
	s.pos--
	entry := s.history[s.pos]
	s.current = entry.Page
	s.logger.Debug("history navigation", zap.String("page", string(entry.Page)))
	return entry, true
}

// Forward moves one entry forward in history, restoring that entry's page.
func (s *State) Forward() (Entry, bool) {
	if s.pos < 0 || s.pos >= len(s.history)-1 {
		return Entry{}, false
	}
	s.pos++
	entry := s.history[s.pos]
	s.current = entry.Page
	return entry, true
}

// push appends a history entry, truncating any forward entries.
func (s *State) push(entry Entry) {
	s.history = append(s.history[:s.pos+1], entry)
	s.pos = len(s.history) - 1
}

// replace overwrites the current history entry (or pushes the first one).
func (s *State) replace(entry Entry) {
	if s.pos < 0 {
		s.push(entry)
		return
	}
	s.history[s.pos] = entry
}
