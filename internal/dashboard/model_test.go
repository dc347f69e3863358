package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/nav"
	"github.com/teamized/teamized/internal/syncer"
)

// fakeSyncer drives a real cache.Store so the model's reads see the same
// data the real synchronizer would install.
type fakeSyncer struct {
	mu            sync.Mutex
	store         *cache.Store
	teams         []model.TeamEnvelope
	defaultTeamID string
	items         map[cache.Category][]model.Entity
	refreshCalls  []cache.Category
	switchCalls   []string
}

func (f *fakeSyncer) LoadTeams(context.Context) ([]model.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store.UpdateTeamsCache(f.teams, f.defaultTeamID)
	if f.store.SelectedTeamID() == "" {
		f.store.SelectTeam(f.defaultTeamID)
	}
	return f.store.TeamsList(), nil
}

func (f *fakeSyncer) RefreshCategory(_ context.Context, teamID string, cat cache.Category) ([]model.Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls = append(f.refreshCalls, cat)
	items := f.items[cat]
	if _, err := f.store.BeginRefresh(teamID, cat); err != nil {
		return nil, err
	}
	if err := f.store.CompleteRefresh(teamID, cat, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (f *fakeSyncer) NeedsRefresh(teamID string, cat cache.Category) bool {
	d := f.store.TeamData(teamID)
	return d != nil && d.State(cat).Initial
}

func (f *fakeSyncer) SwitchTeam(teamID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switchCalls = append(f.switchCalls, teamID)
	f.store.SelectTeam(teamID)
}

func (f *fakeSyncer) EnsureExistingTeam() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id := f.store.SelectedTeamID(); id != "" && f.store.HasTeam(id) {
		return
	}
	f.store.SelectTeam(f.store.DefaultTeamID())
}

func newTestModel(t *testing.T) (Model, *fakeSyncer, *cache.Store) {
	t.Helper()
	store := cache.NewStore(nil)
	fake := &fakeSyncer{
		store: store,
		teams: []model.TeamEnvelope{
			{Team: model.Team{ID: "t1", Name: "Alpha", MemberCount: 2}},
			{Team: model.Team{ID: "t2", Name: "Beta"}},
		},
		defaultTeamID: "t1",
		items: map[cache.Category][]model.Entity{
			cache.CategoryMembers: {model.Member{ID: "m1", User: model.User{Username: "ada"}}},
		},
	}
	m := NewModel(store, nav.NewState(nil), fake)
	return m, fake, store
}

// syncTeams runs the initial load synchronously and applies the result.
func syncTeams(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.loadTeams()()
	synced, ok := msg.(TeamsSyncedMsg)
	if !ok {
		t.Fatalf("loadTeams() produced %T, want TeamsSyncedMsg", msg)
	}
	updated, _ := m.Update(synced)
	return updated.(Model)
}

func TestModel_TeamsSynced(t *testing.T) {
	m, _, store := newTestModel(t)

	m = syncTeams(t, m)

	if m.loading {
		t.Error("loading should be false after sync")
	}
	if m.err != nil {
		t.Errorf("err = %v", m.err)
	}
	if store.SelectedTeamID() != "t1" {
		t.Errorf("SelectedTeamID() = %q, want t1", store.SelectedTeamID())
	}
}

func TestModel_TeamsSynced_Error(t *testing.T) {
	m, _, _ := newTestModel(t)

	updated, _ := m.Update(TeamsSyncedMsg{Err: errors.New("offline")})
	m = updated.(Model)

	if m.err == nil {
		t.Error("sync error should be surfaced")
	}
	if m.loading {
		t.Error("loading should clear even on error")
	}
}

func TestModel_PageChangeTriggersLazyFetch(t *testing.T) {
	m, fake, _ := newTestModel(t)
	m = syncTeams(t, m)

	// Moving from home to teamlist to team lands on a page needing members.
	for i := 0; i < 2; i++ {
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
		m = updated.(Model)
		if cmd != nil {
			drainCmd(t, m, cmd)
		}
	}

	if m.navState.CurrentPage() != nav.PageTeam {
		t.Fatalf("CurrentPage() = %q, want team", m.navState.CurrentPage())
	}
	found := false
	for _, cat := range fake.refreshCalls {
		if cat == cache.CategoryMembers {
			found = true
		}
	}
	if !found {
		t.Error("navigating to the team page should fetch members")
	}
}

// drainCmd executes a command tree and feeds resulting messages back once.
func drainCmd(t *testing.T, m Model, cmd tea.Cmd) {
	t.Helper()
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				_, _ = m.Update(c())
			}
		}
	default:
		_, _ = m.Update(msg)
	}
}

func TestModel_LazyFetchSkipsFreshCategories(t *testing.T) {
	m, fake, store := newTestModel(t)
	m = syncTeams(t, m)
	if err := store.CompleteRefresh("t1", cache.CategoryMembers, nil); err != nil {
		t.Fatal(err)
	}
	if err := store.CompleteRefresh("t1", cache.CategoryInvites, nil); err != nil {
		t.Fatal(err)
	}
	if err := m.navState.SelectPage(nav.PageTeam); err != nil {
		t.Fatal(err)
	}

	if cmd := m.refreshCmds(); cmd != nil {
		drainCmd(t, m, cmd)
	}

	if len(fake.refreshCalls) != 0 {
		t.Errorf("refreshCalls = %v, want none for fresh categories", fake.refreshCalls)
	}
}

func TestModel_CoalescedRefreshIsNotAnError(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = syncTeams(t, m)

	updated, _ := m.Update(CategoryRefreshedMsg{
		TeamID:   "t1",
		Category: cache.CategoryMembers,
		Err:      syncer.ErrRefreshInFlight,
	})
	m = updated.(Model)

	if m.err != nil {
		t.Errorf("err = %v, coalesced refresh must not surface", m.err)
	}
}

func TestModel_CategoryRefreshError(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = syncTeams(t, m)

	updated, _ := m.Update(CategoryRefreshedMsg{
		TeamID:   "t1",
		Category: cache.CategoryMembers,
		Err:      errors.New("boom"),
	})
	m = updated.(Model)

	if m.err == nil {
		t.Error("refresh failure should be surfaced")
	}
}

func TestModel_CycleTeam(t *testing.T) {
	m, fake, store := newTestModel(t)
	m = syncTeams(t, m)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	m = updated.(Model)

	if len(fake.switchCalls) != 1 || fake.switchCalls[0] != "t2" {
		t.Errorf("switchCalls = %v, want [t2]", fake.switchCalls)
	}

	// Cycling backwards wraps around to the previous team.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	_ = updated.(Model)
	if store.SelectedTeamID() != "t1" {
		t.Errorf("SelectedTeamID() = %q, want t1", store.SelectedTeamID())
	}
}

func TestModel_BackToEvictedTeam(t *testing.T) {
	m, _, store := newTestModel(t)
	m = syncTeams(t, m)

	// Record a history entry while t2 is selected, move on, then drop t2
	// from the cache as a delete elsewhere would.
	store.SelectTeam("t2")
	m.navState.ExportToLink("t2", nil)
	store.SelectTeam("t1")
	m.navState.ExportToLink("t1", nil)
	store.DeleteTeam("t2")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	_ = updated.(Model)

	if store.SelectedTeamID() != "t1" {
		t.Errorf("SelectedTeamID() = %q, want repaired to t1", store.SelectedTeamID())
	}
	if store.CurrentTeamData() == nil {
		t.Error("selection must point at a cached team after history navigation")
	}
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = syncTeams(t, m)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "Alpha") {
		t.Errorf("view should show the selected team name:\n%s", view)
	}

	if err := m.navState.SelectPage(nav.PageTeamlist); err != nil {
		t.Fatal(err)
	}
	view = m.View()
	if !strings.Contains(view, "Beta") {
		t.Errorf("teamlist view should show all teams:\n%s", view)
	}
	if !strings.Contains(view, "(default)") {
		t.Errorf("teamlist view should mark the default team:\n%s", view)
	}
}

func TestModel_View_Loading(t *testing.T) {
	m, _, _ := newTestModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	if !strings.Contains(m.View(), "Loading teams") {
		t.Error("initial view should show the loading indicator")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0m"},
		{90, "1m"},
		{3600, "1h00m"},
		{12000, "3h20m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.seconds); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

// TestModel_Teatest_StartupAndQuit runs the full program loop: initial
// sync, first render, quit.
func TestModel_Teatest_StartupAndQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return strings.Contains(string(bts), "Alpha")
	}, teatest.WithDuration(2*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	if final.loading {
		t.Error("final model should have finished loading")
	}
}
