// Package syncer implements the synchronization protocol between the team
// cache and the rendering layer: it decides when a category must be
// fetched, coalesces concurrent fetch attempts per (team, category) pair,
// and asks the navigation collaborator to re-render after state changes.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
)

// ErrRefreshInFlight is returned when a category refresh is requested
// while one is already running for the same (team, category) pair. The
// duplicate trigger is coalesced: no second request is issued and the
// in-flight request's completion drives the eventual re-render.
var ErrRefreshInFlight = errors.New("syncer: category refresh already in flight")

// Fetcher is the API collaborator the synchronizer drives.
type Fetcher interface {
	Teams(ctx context.Context) ([]model.TeamEnvelope, string, error)
	Category(ctx context.Context, teamID string, cat cache.Category) ([]model.Entity, error)
}

// Navigator is the navigation/rendering collaborator. Render redraws
// everything (menubar, sidebar, page); RenderPage redraws the page only;
// ExportToLink reflects the current selection into the navigation state.
type Navigator interface {
	ExportToLink()
	Render()
	RenderPage()
}

// Synchronizer keeps the cache consistent with the server and the UI
// consistent with the cache.
type Synchronizer struct {
	fetcher Fetcher
	store   *cache.Store
	nav     Navigator
	logger  *zap.Logger
}

// New creates a Synchronizer.
func New(fetcher Fetcher, store *cache.Store, nav Navigator, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{fetcher: fetcher, store: store, nav: nav, logger: logger}
}

// RefreshCategory fetches one category for one team and installs the
// result. State machine per (team, category) pair:
//
//	Initial -> Refreshing -> Fresh, then Fresh <-> Refreshing forever.
//
// A call while Refreshing returns ErrRefreshInFlight without issuing a
// request. On success the category map is wholesale-replaced, the state
// becomes fresh and the page is re-rendered. On failure only the
// refreshing flag is reset, so the next render pass retries.
func (s *Synchronizer) RefreshCategory(ctx context.Context, teamID string, cat cache.Category) ([]model.Entity, error) {
	begun, err := s.store.BeginRefresh(teamID, cat)
	if err != nil {
		return nil, err
	}
	if !begun {
		s.logger.Info("category already being refreshed",
			zap.String("team_id", teamID),
			zap.String("category", string(cat)))
		return nil, ErrRefreshInFlight
	}

	items, err := s.fetcher.Category(ctx, teamID, cat)
	if err != nil {
		s.store.AbortRefresh(teamID, cat)
		return nil, fmt.Errorf("syncer: refreshing %s for team %s: %w", cat, teamID, err)
	}

	if err := s.store.CompleteRefresh(teamID, cat, items); err != nil {
		return nil, err
	}
	s.nav.RenderPage()
	return items, nil
}

// NeedsRefresh reports whether a category has never been fetched for the
// team. Rendering components call this before reading a category and
// trigger RefreshCategory as an effect when it returns true.
func (s *Synchronizer) NeedsRefresh(teamID string, cat cache.Category) bool {
	d := s.store.TeamData(teamID)
	if d == nil {
		return false
	}
	return d.State(cat).Initial
}

// LoadTeams performs the authoritative bulk sync: fetch the team list,
// reconcile the cache, repair the team selection and redraw everything.
func (s *Synchronizer) LoadTeams(ctx context.Context) ([]model.Team, error) {
	envs, defaultID, err := s.fetcher.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("syncer: loading teams: %w", err)
	}
	s.store.UpdateTeamsCache(envs, defaultID)
	s.EnsureExistingTeam()
	s.nav.Render()
	return s.store.TeamsList(), nil
}

// EnsureExistingTeam repairs the team selection: when no team is selected,
// or the selected id is no longer cached, it switches to the default team.
// Invoked after every bulk sync and after history navigation so a non-empty
// selection is always a valid cache key.
func (s *Synchronizer) EnsureExistingTeam() {
	if id := s.store.SelectedTeamID(); id != "" && s.store.HasTeam(id) {
		return
	}
	s.logger.Debug("no valid team selected, falling back to default",
		zap.String("default_team_id", s.store.DefaultTeamID()))
	s.SwitchTeam(s.store.DefaultTeamID())
}

// SwitchTeam changes the team selection and redraws. Selecting the already
// selected team is a no-op.
func (s *Synchronizer) SwitchTeam(teamID string) {
	if s.store.SelectedTeamID() == teamID {
		return
	}
	s.logger.Debug("switching team", zap.String("team_id", teamID))
	s.store.SelectTeam(teamID)
	s.nav.ExportToLink()
	s.nav.Render()
}

// Evict removes a team from the cache after the server confirmed a delete
// or leave. When the last team goes away the server auto-provisions a
// replacement, so the full list is refetched; otherwise the selection is
// repaired locally.
func (s *Synchronizer) Evict(ctx context.Context, teamID string) error {
	if empty := s.store.DeleteTeam(teamID); empty {
		if _, err := s.LoadTeams(ctx); err != nil {
			return err
		}
		return nil
	}
	s.EnsureExistingTeam()
	return nil
}
