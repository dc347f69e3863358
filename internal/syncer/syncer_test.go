package syncer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
)

// fakeFetcher is a controllable Fetcher. When block is non-nil, Category
// calls wait on it before returning, so tests can hold a refresh in flight.
type fakeFetcher struct {
	mu            sync.Mutex
	teams         []model.TeamEnvelope
	defaultTeamID string
	teamsErr      error
	items         []model.Entity
	categoryErr   error
	block         chan struct{}

	teamsCalls    atomic.Int32
	categoryCalls atomic.Int32
}

func (f *fakeFetcher) Teams(context.Context) ([]model.TeamEnvelope, string, error) {
	f.teamsCalls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.teams, f.defaultTeamID, f.teamsErr
}

func (f *fakeFetcher) Category(context.Context, string, cache.Category) ([]model.Entity, error) {
	f.categoryCalls.Add(1)
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items, f.categoryErr
}

// fakeNavigator records render and export calls.
type fakeNavigator struct {
	mu          sync.Mutex
	exports     int
	renders     int
	pageRenders int
}

func (n *fakeNavigator) ExportToLink() { n.mu.Lock(); n.exports++; n.mu.Unlock() }
func (n *fakeNavigator) Render()       { n.mu.Lock(); n.renders++; n.mu.Unlock() }
func (n *fakeNavigator) RenderPage()   { n.mu.Lock(); n.pageRenders++; n.mu.Unlock() }

func (n *fakeNavigator) counts() (exports, renders, pageRenders int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.exports, n.renders, n.pageRenders
}

func envelope(id, name string) model.TeamEnvelope {
	return model.TeamEnvelope{Team: model.Team{ID: id, Name: name}}
}

func newSynced(t *testing.T, fetcher *fakeFetcher) (*Synchronizer, *cache.Store, *fakeNavigator) {
	t.Helper()
	store := cache.NewStore(nil)
	navigator := &fakeNavigator{}
	s := New(fetcher, store, navigator, nil)
	if _, err := s.LoadTeams(context.Background()); err != nil {
		t.Fatalf("LoadTeams() error = %v", err)
	}
	return s, store, navigator
}

func TestSynchronizer_LoadTeams(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha"), envelope("t2", "Beta")},
		defaultTeamID: "t1",
	}
	s, store, navigator := newSynced(t, fetcher)

	if got := store.SelectedTeamID(); got != "t1" {
		t.Errorf("SelectedTeamID() = %q, want default t1", got)
	}
	if len(store.TeamsList()) != 2 {
		t.Errorf("len(TeamsList()) = %d, want 2", len(store.TeamsList()))
	}
	_, renders, _ := navigator.counts()
	if renders == 0 {
		t.Error("LoadTeams should trigger a full render")
	}

	// Second sync with the same payload leaves the selection alone.
	if _, err := s.LoadTeams(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := store.SelectedTeamID(); got != "t1" {
		t.Errorf("SelectedTeamID() after resync = %q, want t1", got)
	}
}

func TestSynchronizer_RefreshCategory(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha")},
		defaultTeamID: "t1",
		items:         []model.Entity{model.Member{ID: "m1"}},
	}
	s, store, navigator := newSynced(t, fetcher)

	items, err := s.RefreshCategory(context.Background(), "t1", cache.CategoryMembers)
	if err != nil {
		t.Fatalf("RefreshCategory() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	d := store.TeamData("t1")
	if d.State(cache.CategoryMembers).Initial {
		t.Error("category should be fresh after refresh")
	}
	if len(d.Members) != 1 {
		t.Error("refresh result not installed")
	}
	_, _, pageRenders := navigator.counts()
	if pageRenders != 1 {
		t.Errorf("pageRenders = %d, want 1", pageRenders)
	}
	if s.NeedsRefresh("t1", cache.CategoryMembers) {
		t.Error("NeedsRefresh should be false after a successful refresh")
	}
}

func TestSynchronizer_RefreshCategory_Coalesced(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha")},
		defaultTeamID: "t1",
		items:         []model.Entity{model.Member{ID: "m1"}},
		block:         make(chan struct{}),
	}
	s, store, _ := newSynced(t, fetcher)

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.RefreshCategory(context.Background(), "t1", cache.CategoryMembers)
		firstDone <- err
	}()

	// Wait for the first refresh to be in flight.
	deadline := time.After(2 * time.Second)
	for !store.TeamData("t1").State(cache.CategoryMembers).Refreshing {
		select {
		case <-deadline:
			t.Fatal("first refresh never started")
		case <-time.After(time.Millisecond):
		}
	}

	// A second trigger must coalesce without a second request.
	_, err := s.RefreshCategory(context.Background(), "t1", cache.CategoryMembers)
	if !errors.Is(err, ErrRefreshInFlight) {
		t.Fatalf("second refresh error = %v, want ErrRefreshInFlight", err)
	}

	close(fetcher.block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first refresh error = %v", err)
	}

	if got := fetcher.categoryCalls.Load(); got != 1 {
		t.Errorf("category fetch count = %d, want 1", got)
	}
	if store.TeamData("t1").State(cache.CategoryMembers).Initial {
		t.Error("category should be fresh after the in-flight refresh completed")
	}
}

func TestSynchronizer_RefreshCategory_FailureRetriable(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha")},
		defaultTeamID: "t1",
		categoryErr:   errors.New("boom"),
	}
	s, store, navigator := newSynced(t, fetcher)
	_, _, pageRendersBefore := navigator.counts()

	_, err := s.RefreshCategory(context.Background(), "t1", cache.CategoryMembers)
	if err == nil {
		t.Fatal("RefreshCategory should propagate the fetch error")
	}

	st := store.TeamData("t1").State(cache.CategoryMembers)
	if !st.Initial {
		t.Error("failed refresh must leave the category initial")
	}
	if st.Refreshing {
		t.Error("failed refresh must clear the refreshing flag")
	}
	_, _, pageRendersAfter := navigator.counts()
	if pageRendersAfter != pageRendersBefore {
		t.Error("failed refresh must not trigger a page render")
	}

	// The pair is retriable immediately.
	fetcher.mu.Lock()
	fetcher.categoryErr = nil
	fetcher.items = []model.Entity{model.Member{ID: "m1"}}
	fetcher.mu.Unlock()
	if _, err := s.RefreshCategory(context.Background(), "t1", cache.CategoryMembers); err != nil {
		t.Fatalf("retry error = %v", err)
	}
}

func TestSynchronizer_RefreshCategory_UnknownTeam(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha")},
		defaultTeamID: "t1",
	}
	s, _, _ := newSynced(t, fetcher)

	_, err := s.RefreshCategory(context.Background(), "missing", cache.CategoryMembers)
	if !errors.Is(err, cache.ErrUnknownTeam) {
		t.Fatalf("RefreshCategory(unknown team) error = %v, want ErrUnknownTeam", err)
	}
}

func TestSynchronizer_SwitchTeam(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha"), envelope("t2", "Beta")},
		defaultTeamID: "t1",
	}
	s, store, navigator := newSynced(t, fetcher)
	exportsBefore, rendersBefore, _ := navigator.counts()

	s.SwitchTeam("t2")

	if store.SelectedTeamID() != "t2" {
		t.Errorf("SelectedTeamID() = %q, want t2", store.SelectedTeamID())
	}
	exports, renders, _ := navigator.counts()
	if exports != exportsBefore+1 {
		t.Error("switch should export the selection to the link")
	}
	if renders != rendersBefore+1 {
		t.Error("switch should trigger a full render")
	}

	// Switching to the already selected team is a no-op.
	s.SwitchTeam("t2")
	exports2, renders2, _ := navigator.counts()
	if exports2 != exports || renders2 != renders {
		t.Error("no-op switch must not export or render")
	}
}

func TestSynchronizer_EnsureExistingTeam_RepairsSelection(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha"), envelope("t2", "Beta")},
		defaultTeamID: "t2",
	}
	s, store, _ := newSynced(t, fetcher)

	store.SelectTeam("gone")
	s.EnsureExistingTeam()

	if got := store.SelectedTeamID(); got != "t2" {
		t.Errorf("SelectedTeamID() = %q, want default t2", got)
	}
}

func TestSynchronizer_Evict_RepairsSelection(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha"), envelope("t2", "Beta")},
		defaultTeamID: "t1",
	}
	s, store, _ := newSynced(t, fetcher)
	s.SwitchTeam("t2")
	teamsCallsBefore := fetcher.teamsCalls.Load()

	if err := s.Evict(context.Background(), "t2"); err != nil {
		t.Fatal(err)
	}

	if store.HasTeam("t2") {
		t.Error("evicted team still cached")
	}
	if got := store.SelectedTeamID(); got != "t1" {
		t.Errorf("SelectedTeamID() = %q, want t1", got)
	}
	if fetcher.teamsCalls.Load() != teamsCallsBefore {
		t.Error("evicting a non-last team must not refetch the team list")
	}
}

func TestSynchronizer_Evict_LastTeamRefetches(t *testing.T) {
	fetcher := &fakeFetcher{
		teams:         []model.TeamEnvelope{envelope("t1", "Alpha")},
		defaultTeamID: "t1",
	}
	s, store, _ := newSynced(t, fetcher)

	// The server auto-provisions a replacement team.
	fetcher.mu.Lock()
	fetcher.teams = []model.TeamEnvelope{envelope("t-new", "Fresh")}
	fetcher.defaultTeamID = "t-new"
	fetcher.mu.Unlock()
	teamsCallsBefore := fetcher.teamsCalls.Load()

	if err := s.Evict(context.Background(), "t1"); err != nil {
		t.Fatal(err)
	}

	if fetcher.teamsCalls.Load() != teamsCallsBefore+1 {
		t.Error("evicting the last team must refetch the team list")
	}
	if !store.HasTeam("t-new") {
		t.Error("replacement team not cached")
	}
	if got := store.SelectedTeamID(); got != "t-new" {
		t.Errorf("SelectedTeamID() = %q, want t-new", got)
	}
}
