// Package workingtime implements work-session tracking over the API and
// cache. Sessions live in the me_worksessions category: only the caller's
// own sessions for the team.
package workingtime

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/api"
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/syncer"
)

// Service wires the working-time API to the cache and synchronizer.
type Service struct {
	api   *api.Client
	store *cache.Store
	sync  *syncer.Synchronizer
}

// NewService creates a working-time service.
func NewService(client *api.Client, store *cache.Store, sync *syncer.Synchronizer) *Service {
	return &Service{api: client, store: store, sync: sync}
}

// Sessions refreshes the caller's work sessions for the team.
func (s *Service) Sessions(ctx context.Context, teamID string) ([]model.Worksession, error) {
	items, err := s.sync.RefreshCategory(ctx, teamID, cache.CategoryWorksessions)
	if err != nil {
		return nil, err
	}
	sessions := make([]model.Worksession, 0, len(items))
	for _, it := range items {
		ws, ok := it.(model.Worksession)
		if !ok {
			return nil, fmt.Errorf("workingtime: unexpected entity type %T in worksessions", it)
		}
		sessions = append(sessions, ws)
	}
	return sessions, nil
}

// Create records a manually entered session and caches it.
func (s *Service) Create(ctx context.Context, teamID string, req api.WorksessionRequest) (model.Worksession, error) {
	session, err := s.api.CreateWorksession(ctx, teamID, req)
	if err != nil {
		return model.Worksession{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryWorksessions, session); err != nil {
		return model.Worksession{}, err
	}
	return session, nil
}

// Edit updates a session and caches the new record.
func (s *Service) Edit(ctx context.Context, teamID, sessionID string, req api.WorksessionRequest) (model.Worksession, error) {
	session, err := s.api.UpdateWorksession(ctx, teamID, sessionID, req)
	if err != nil {
		return model.Worksession{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryWorksessions, session); err != nil {
		return model.Worksession{}, err
	}
	return session, nil
}

// Delete deletes a session and drops it from the cache.
func (s *Service) Delete(ctx context.Context, teamID, sessionID string) error {
	if err := s.api.DeleteWorksession(ctx, teamID, sessionID); err != nil {
		return err
	}
	return s.store.RemoveEntity(teamID, cache.CategoryWorksessions, sessionID)
}

// StartTracking begins a live tracking session on the team.
func (s *Service) StartTracking(ctx context.Context, teamID string) (model.Worksession, error) {
	return s.api.StartTracking(ctx, teamID)
}

// LiveTracking returns the currently running tracking session, if any.
func (s *Service) LiveTracking(ctx context.Context) (model.Worksession, bool, error) {
	return s.api.LiveTracking(ctx)
}

// StopTracking ends the running tracking session and caches the finished
// session under its team.
func (s *Service) StopTracking(ctx context.Context) (model.Worksession, error) {
	session, err := s.api.StopTracking(ctx)
	if err != nil {
		return model.Worksession{}, err
	}
	if session.TeamID != "" && s.store.HasTeam(session.TeamID) {
		if err := s.store.UpsertEntity(session.TeamID, cache.CategoryWorksessions, session); err != nil {
			return model.Worksession{}, err
		}
	}
	return session, nil
}
