// Package club implements the club sub-module: the club record linked to
// a team plus its member and group collections.
package club

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/api"
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/syncer"
)

// Service wires the club API to the cache and synchronizer.
type Service struct {
	api   *api.Client
	store *cache.Store
	sync  *syncer.Synchronizer
}

// NewService creates a club service.
func NewService(client *api.Client, store *cache.Store, sync *syncer.Synchronizer) *Service {
	return &Service{api: client, store: store, sync: sync}
}

// Create links a new club to the team and stores the reference on the
// cached team record.
func (s *Service) Create(ctx context.Context, teamID string, req api.ClubRequest) (model.Club, error) {
	clb, err := s.api.CreateClub(ctx, teamID, req)
	if err != nil {
		return model.Club{}, err
	}
	if err := s.store.SetClub(teamID, &clb); err != nil {
		return model.Club{}, err
	}
	return clb, nil
}

// Edit updates the team's club and the cached reference.
func (s *Service) Edit(ctx context.Context, teamID string, req api.ClubRequest) (model.Club, error) {
	clb, err := s.api.UpdateClub(ctx, teamID, req)
	if err != nil {
		return model.Club{}, err
	}
	if err := s.store.SetClub(teamID, &clb); err != nil {
		return model.Club{}, err
	}
	return clb, nil
}

// Delete removes the team's club and clears the cached reference.
func (s *Service) Delete(ctx context.Context, teamID string) error {
	if err := s.api.DeleteClub(ctx, teamID); err != nil {
		return err
	}
	return s.store.SetClub(teamID, nil)
}

// Members refreshes the club member list.
func (s *Service) Members(ctx context.Context, teamID string) ([]model.ClubMember, error) {
	items, err := s.sync.RefreshCategory(ctx, teamID, cache.CategoryClubMembers)
	if err != nil {
		return nil, err
	}
	members := make([]model.ClubMember, 0, len(items))
	for _, it := range items {
		m, ok := it.(model.ClubMember)
		if !ok {
			return nil, fmt.Errorf("club: unexpected entity type %T in club members", it)
		}
		members = append(members, m)
	}
	return members, nil
}

// CreateMember adds a club member and caches it.
func (s *Service) CreateMember(ctx context.Context, teamID string, req api.ClubMemberRequest) (model.ClubMember, error) {
	member, err := s.api.CreateClubMember(ctx, teamID, req)
	if err != nil {
		return model.ClubMember{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryClubMembers, member); err != nil {
		return model.ClubMember{}, err
	}
	return member, nil
}

// EditMember updates a club member and caches the new record.
func (s *Service) EditMember(ctx context.Context, teamID, memberID string, req api.ClubMemberRequest) (model.ClubMember, error) {
	member, err := s.api.UpdateClubMember(ctx, teamID, memberID, req)
	if err != nil {
		return model.ClubMember{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryClubMembers, member); err != nil {
		return model.ClubMember{}, err
	}
	return member, nil
}

// DeleteMember removes a club member and drops it from the cache.
func (s *Service) DeleteMember(ctx context.Context, teamID, memberID string) error {
	if err := s.api.DeleteClubMember(ctx, teamID, memberID); err != nil {
		return err
	}
	return s.store.RemoveEntity(teamID, cache.CategoryClubMembers, memberID)
}

// Groups refreshes the club group list.
func (s *Service) Groups(ctx context.Context, teamID string) ([]model.ClubGroup, error) {
	items, err := s.sync.RefreshCategory(ctx, teamID, cache.CategoryClubGroups)
	if err != nil {
		return nil, err
	}
	groups := make([]model.ClubGroup, 0, len(items))
	for _, it := range items {
		g, ok := it.(model.ClubGroup)
		if !ok {
			return nil, fmt.Errorf("club: unexpected entity type %T in club groups", it)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// CreateGroup creates a club group and caches it.
func (s *Service) CreateGroup(ctx context.Context, teamID string, req api.ClubGroupRequest) (model.ClubGroup, error) {
	group, err := s.api.CreateClubGroup(ctx, teamID, req)
	if err != nil {
		return model.ClubGroup{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryClubGroups, group); err != nil {
		return model.ClubGroup{}, err
	}
	return group, nil
}

// EditGroup updates a club group and caches the new record.
func (s *Service) EditGroup(ctx context.Context, teamID, groupID string, req api.ClubGroupRequest) (model.ClubGroup, error) {
	group, err := s.api.UpdateClubGroup(ctx, teamID, groupID, req)
	if err != nil {
		return model.ClubGroup{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryClubGroups, group); err != nil {
		return model.ClubGroup{}, err
	}
	return group, nil
}

// DeleteGroup deletes a club group and drops it from the cache.
func (s *Service) DeleteGroup(ctx context.Context, teamID, groupID string) error {
	if err := s.api.DeleteClubGroup(ctx, teamID, groupID); err != nil {
		return err
	}
	return s.store.RemoveEntity(teamID, cache.CategoryClubGroups, groupID)
}
