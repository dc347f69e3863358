// Package dashboard implements the interactive terminal UI: a page-based
// view over the team cache, driven by the synchronizer's lazy-fetch
// protocol. Pages render whatever the cache currently holds; categories a
// page needs that were never fetched are requested as asynchronous effects
// after the render.
package dashboard

import (
	"context"

	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
)

// Syncer is the synchronization collaborator the dashboard drives.
type Syncer interface {
	LoadTeams(ctx context.Context) ([]model.Team, error)
	RefreshCategory(ctx context.Context, teamID string, cat cache.Category) ([]model.Entity, error)
	NeedsRefresh(teamID string, cat cache.Category) bool
	SwitchTeam(teamID string)
	EnsureExistingTeam()
}

// --- tea.Msg types ---

// TeamsSyncedMsg carries the result of a bulk team sync.
type TeamsSyncedMsg struct {
	Teams []model.Team
	Err   error
}

// CategoryRefreshedMsg carries the result of one category refresh.
// A coalesced duplicate trigger arrives with Err == ErrRefreshInFlight and
// is not an error condition for the UI.
type CategoryRefreshedMsg struct {
	TeamID   string
	Category cache.Category
	Err      error
}

// RenderMsg asks for a full redraw after the cache or selection changed.
type RenderMsg struct{}

// PageRenderMsg asks for a redraw of the current page only.
type PageRenderMsg struct{}
