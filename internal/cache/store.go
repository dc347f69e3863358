// Package cache implements the client-side mirror of per-team server state.
// A Store holds one TeamData record per known team; each record carries the
// team's scalar fields, seven category maps keyed by entity id, and a
// per-category loading state driving the lazy-fetch protocol in syncer.
package cache

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/teamized/teamized/internal/model"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrUnknownTeam = errors.New("cache: unknown team")
	ErrMissingID   = errors.New("cache: entity has no id")
)

// CategoryState tracks the fetch lifecycle of one category.
// Initial means never successfully fetched since the TeamData was created;
// Refreshing means a fetch is currently in flight.
type CategoryState struct {
	Initial    bool
	Refreshing bool
}

// TeamData is the cached record for a single team.
// Category maps are wholesale-replaced on refresh, never merged.
type TeamData struct {
	Team         model.Team
	Calendars    map[string]model.Calendar
	Invites      map[string]model.Invite
	Members      map[string]model.Member
	Todolists    map[string]model.Todolist
	Worksessions map[string]model.Worksession
	ClubMembers  map[string]model.ClubMember
	ClubGroups   map[string]model.ClubGroup

	state map[Category]*CategoryState
}

func newTeamData() *TeamData {
	d := &TeamData{
		Calendars:    map[string]model.Calendar{},
		Invites:      map[string]model.Invite{},
		Members:      map[string]model.Member{},
		Todolists:    map[string]model.Todolist{},
		Worksessions: map[string]model.Worksession{},
		ClubMembers:  map[string]model.ClubMember{},
		ClubGroups:   map[string]model.ClubGroup{},
		state:        map[Category]*CategoryState{},
	}
	for _, cat := range Categories() {
		d.state[cat] = &CategoryState{Initial: true}
	}
	return d
}

// State returns a snapshot of the category's loading state.
func (d *TeamData) State(cat Category) CategoryState {
	if s, ok := d.state[cat]; ok {
		return *s
	}
	return CategoryState{}
}

// Store is the process-wide mirror of the signed-in user's teams.
// Mutations are serialized internally; readers that hold on to a *TeamData
// should confine themselves to a single goroutine (the UI update loop).
type Store struct {
	mu     sync.Mutex
	order  []string
	teams  map[string]*TeamData
	logger *zap.Logger

	selectedTeamID string
	defaultTeamID  string
}

// NewStore creates an empty store.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		teams:  map[string]*TeamData{},
		logger: logger,
	}
}

// TeamData returns the cached record for teamID, or nil if unknown.
// Rapid consecutive reloads can evict teams mid-flight, so callers must
// check for nil.
func (s *Store) TeamData(teamID string) *TeamData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams[teamID]
}

// CurrentTeamData returns the record for the selected team, or nil when no
// valid team is selected.
func (s *Store) CurrentTeamData() *TeamData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams[s.selectedTeamID]
}

// HasTeam reports whether teamID is present in the store.
func (s *Store) HasTeam(teamID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.teams[teamID]
	return ok
}

// TeamsList returns a snapshot of every cached team's scalar record, in
// insertion order.
func (s *Store) TeamsList() []model.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	teams := make([]model.Team, 0, len(s.order))
	for _, id := range s.order {
		teams = append(teams, s.teams[id].Team)
	}
	return teams
}

// SelectedTeamID returns the currently selected team id ("" when none).
func (s *Store) SelectedTeamID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTeamID
}

// SelectTeam sets the current team selection. The caller is responsible for
// ensuring the id is valid; EnsureExistingTeam repairs invalid selections.
func (s *Store) SelectTeam(teamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTeamID = teamID
}

// DefaultTeamID returns the server-designated fallback team id.
func (s *Store) DefaultTeamID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultTeamID
}

// AddTeam creates a fresh TeamData for the envelope's team and folds any
// inline collections into their category maps. Adding an id that already
// exists replaces the old record (upsert).
func (s *Store) AddTeam(env model.TeamEnvelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(env)
}

func (s *Store) addLocked(env model.TeamEnvelope) {
	if _, exists := s.teams[env.ID]; !exists {
		s.order = append(s.order, env.ID)
	}
	s.teams[env.ID] = newTeamData()
	s.applyEnvelopeLocked(s.teams[env.ID], env)
}

// UpdateTeam overwrites an existing team's scalar record and folds any
// inline collections, leaving the category fetch states untouched.
func (s *Store) UpdateTeam(env model.TeamEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[env.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, env.ID)
	}
	s.applyEnvelopeLocked(d, env)
	return nil
}

// applyEnvelopeLocked stores the envelope's bare team record and replaces
// the category maps for every collection the envelope embedded. Folding a
// collection does not mark its category as fetched: only a successful
// category refresh clears Initial.
func (s *Store) applyEnvelopeLocked(d *TeamData, env model.TeamEnvelope) {
	team, cols := env.Split()
	d.Team = team
	if cols.Members != nil {
		d.Members = indexByID(cols.Members)
	}
	if cols.Invites != nil {
		d.Invites = indexByID(cols.Invites)
	}
	if cols.Calendars != nil {
		d.Calendars = indexByID(cols.Calendars)
	}
	if cols.Todolists != nil {
		d.Todolists = indexByID(cols.Todolists)
	}
}

// DeleteTeam removes a team from the store. When the removed team was the
// default, the first remaining team (in insertion order) becomes the new
// default. The returned flag is true when the store is now empty: the
// server auto-provisions a replacement team in that case and the caller
// must refetch the full team list.
func (s *Store) DeleteTeam(teamID string) (empty bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(teamID)
	if len(s.order) == 0 {
		return true
	}
	if s.defaultTeamID == teamID {
		s.defaultTeamID = s.order[0]
	}
	return false
}

func (s *Store) deleteLocked(teamID string) {
	if _, ok := s.teams[teamID]; !ok {
		return
	}
	delete(s.teams, teamID)
	for i, id := range s.order {
		if id == teamID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// UpdateTeamsCache reconciles the store against an authoritative team list:
// every listed team is updated or added, every cached team missing from the
// list is dropped, and the default team id is replaced. Calling it twice
// with the same input leaves the store observably unchanged.
func (s *Store) UpdateTeamsCache(envs []model.TeamEnvelope, defaultTeamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaultTeamID = defaultTeamID

	listed := make(map[string]bool, len(envs))
	for _, env := range envs {
		listed[env.ID] = true
		if d, ok := s.teams[env.ID]; ok {
			s.applyEnvelopeLocked(d, env)
		} else {
			s.addLocked(env)
		}
	}

	for _, id := range append([]string(nil), s.order...) {
		if !listed[id] {
			s.deleteLocked(id)
		}
	}
}

// ReplaceCategory discards the team's current category map and rebuilds it
// from items, indexed by entity id. Entities absent from items are dropped:
// the server is the sole source of truth for a category and sparse
// responses are not supported. An unknown team id is tolerated (it happens
// when a refresh resolves just after the team was evicted) and logged.
func (s *Store) ReplaceCategory(teamID string, cat Category, items []model.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		s.logger.Warn("team not found in cache, dropping category refresh result",
			zap.String("team_id", teamID),
			zap.String("category", string(cat)))
		return nil
	}
	return s.replaceCategoryLocked(d, cat, items)
}

func (s *Store) replaceCategoryLocked(d *TeamData, cat Category, items []model.Entity) error {
	switch cat {
	case CategoryCalendars:
		m, err := indexEntities[model.Calendar](cat, items)
		if err != nil {
			return err
		}
		d.Calendars = m
	case CategoryInvites:
		m, err := indexEntities[model.Invite](cat, items)
		if err != nil {
			return err
		}
		d.Invites = m
	case CategoryMembers:
		m, err := indexEntities[model.Member](cat, items)
		if err != nil {
			return err
		}
		d.Members = m
	case CategoryTodolists:
		m, err := indexEntities[model.Todolist](cat, items)
		if err != nil {
			return err
		}
		d.Todolists = m
	case CategoryWorksessions:
		m, err := indexEntities[model.Worksession](cat, items)
		if err != nil {
			return err
		}
		d.Worksessions = m
	case CategoryClubMembers:
		m, err := indexEntities[model.ClubMember](cat, items)
		if err != nil {
			return err
		}
		d.ClubMembers = m
	case CategoryClubGroups:
		m, err := indexEntities[model.ClubGroup](cat, items)
		if err != nil {
			return err
		}
		d.ClubGroups = m
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(cat))
	}
	return nil
}

// BeginRefresh atomically marks a category as refreshing. It returns false
// without side effects when a refresh for the pair is already in flight,
// which is how concurrent refresh triggers are coalesced.
func (s *Store) BeginRefresh(teamID string, cat Category) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.stateLocked(teamID, cat)
	if err != nil {
		return false, err
	}
	if st.Refreshing {
		return false, nil
	}
	st.Refreshing = true
	return true, nil
}

// CompleteRefresh installs a successful fetch result: the category map is
// wholesale-replaced and the state moves to fresh (Initial=false,
// Refreshing=false).
func (s *Store) CompleteRefresh(teamID string, cat Category, items []model.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		s.logger.Warn("team evicted while category refresh was in flight",
			zap.String("team_id", teamID),
			zap.String("category", string(cat)))
		return nil
	}
	if err := s.replaceCategoryLocked(d, cat, items); err != nil {
		return err
	}
	st := d.state[cat]
	st.Initial = false
	st.Refreshing = false
	return nil
}

// AbortRefresh clears the refreshing flag after a failed fetch, leaving
// Initial untouched so the next render pass retries.
func (s *Store) AbortRefresh(teamID string, cat Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.stateLocked(teamID, cat)
	if err != nil {
		return
	}
	st.Refreshing = false
}

func (s *Store) stateLocked(teamID string, cat Category) (*CategoryState, error) {
	d, ok := s.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	st, ok := d.state[cat]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(cat))
	}
	return st, nil
}

// indexByID builds an id-keyed map from a typed entity slice.
func indexByID[T model.Entity](items []T) map[string]T {
	m := make(map[string]T, len(items))
	for _, it := range items {
		m[it.EntityID()] = it
	}
	return m
}

// indexEntities narrows a []model.Entity to the category's concrete type
// and indexes it by id, failing fast on type mismatches or missing ids so
// malformed payloads never corrupt the cache.
func indexEntities[T model.Entity](cat Category, items []model.Entity) (map[string]T, error) {
	m := make(map[string]T, len(items))
	for _, it := range items {
		v, ok := it.(T)
		if !ok {
			return nil, fmt.Errorf("cache: wrong entity type %T for category %q", it, string(cat))
		}
		id := v.EntityID()
		if id == "" {
			return nil, fmt.Errorf("%w: category %q", ErrMissingID, string(cat))
		}
		m[id] = v
	}
	return m, nil
}
