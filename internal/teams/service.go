// Package teams implements the base team features: team CRUD, membership,
// and invites. Every operation talks to the API and writes the result
// through to the team cache.
package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamized/teamized/internal/api"
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/syncer"
)

// ErrInvalidInviteToken indicates an invite token that is not a UUID.
var ErrInvalidInviteToken = errors.New("teams: invite token is not a valid UUID")

// adminRoles are the membership roles with admin rights.
var adminRoles = map[string]bool{"owner": true, "admin": true}

// Service wires the teams API to the cache and synchronizer.
type Service struct {
	api    *api.Client
	store  *cache.Store
	sync   *syncer.Synchronizer
	logger *zap.Logger
}

// NewService creates a teams service.
func NewService(client *api.Client, store *cache.Store, sync *syncer.Synchronizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: client, store: store, sync: sync, logger: logger}
}

// Refresh performs the authoritative bulk team sync.
func (s *Service) Refresh(ctx context.Context) ([]model.Team, error) {
	return s.sync.LoadTeams(ctx)
}

// Create creates a team, caches it and switches to it.
func (s *Service) Create(ctx context.Context, name, description string) (model.Team, error) {
	env, err := s.api.CreateTeam(ctx, api.TeamRequest{Name: name, Description: description})
	if err != nil {
		return model.Team{}, err
	}
	s.store.AddTeam(env)
	s.sync.SwitchTeam(env.ID)
	return env.Team, nil
}

// Edit updates a team's name and description.
func (s *Service) Edit(ctx context.Context, teamID, name, description string) (model.Team, error) {
	env, err := s.api.UpdateTeam(ctx, teamID, api.TeamRequest{Name: name, Description: description})
	if err != nil {
		return model.Team{}, err
	}
	if err := s.store.UpdateTeam(env); err != nil {
		return model.Team{}, err
	}
	return env.Team, nil
}

// Delete deletes a team and evicts it from the cache.
func (s *Service) Delete(ctx context.Context, teamID string) error {
	if err := s.api.DeleteTeam(ctx, teamID); err != nil {
		return err
	}
	return s.sync.Evict(ctx, teamID)
}

// Leave removes the caller from a team and evicts it from the cache.
func (s *Service) Leave(ctx context.Context, teamID string) error {
	if err := s.api.LeaveTeam(ctx, teamID); err != nil {
		return err
	}
	return s.sync.Evict(ctx, teamID)
}

// Members refreshes the member list and keeps the cached member count in
// step with it.
func (s *Service) Members(ctx context.Context, teamID string) ([]model.Member, error) {
	items, err := s.sync.RefreshCategory(ctx, teamID, cache.CategoryMembers)
	if err != nil {
		return nil, err
	}
	members := make([]model.Member, 0, len(items))
	for _, it := range items {
		m, ok := it.(model.Member)
		if !ok {
			return nil, fmt.Errorf("teams: unexpected entity type %T in members", it)
		}
		members = append(members, m)
	}
	if err := s.store.SetMemberCount(teamID, len(members)); err != nil {
		return nil, err
	}
	return members, nil
}

// EditMember changes a member's role and updates the cached record.
func (s *Service) EditMember(ctx context.Context, teamID, memberID, role string) (model.Member, error) {
	member, err := s.api.UpdateMember(ctx, teamID, memberID, api.MemberRequest{Role: role})
	if err != nil {
		return model.Member{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryMembers, member); err != nil {
		return model.Member{}, err
	}
	return member, nil
}

// DeleteMember removes a member and adjusts the cached member count.
func (s *Service) DeleteMember(ctx context.Context, teamID, memberID string) error {
	if err := s.api.DeleteMember(ctx, teamID, memberID); err != nil {
		return err
	}
	if err := s.store.RemoveEntity(teamID, cache.CategoryMembers, memberID); err != nil {
		return err
	}
	return s.store.AddMemberCount(teamID, -1)
}

// Invites refreshes the invite list.
func (s *Service) Invites(ctx context.Context, teamID string) ([]model.Invite, error) {
	items, err := s.sync.RefreshCategory(ctx, teamID, cache.CategoryInvites)
	if err != nil {
		return nil, err
	}
	invites := make([]model.Invite, 0, len(items))
	for _, it := range items {
		inv, ok := it.(model.Invite)
		if !ok {
			return nil, fmt.Errorf("teams: unexpected entity type %T in invites", it)
		}
		invites = append(invites, inv)
	}
	return invites, nil
}

// CreateInvite creates an invite and caches it.
func (s *Service) CreateInvite(ctx context.Context, teamID string, req api.InviteRequest) (model.Invite, error) {
	invite, err := s.api.CreateInvite(ctx, teamID, req)
	if err != nil {
		return model.Invite{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryInvites, invite); err != nil {
		return model.Invite{}, err
	}
	return invite, nil
}

// EditInvite updates an invite and caches the new record.
func (s *Service) EditInvite(ctx context.Context, teamID, inviteID string, req api.InviteRequest) (model.Invite, error) {
	invite, err := s.api.UpdateInvite(ctx, teamID, inviteID, req)
	if err != nil {
		return model.Invite{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryInvites, invite); err != nil {
		return model.Invite{}, err
	}
	return invite, nil
}

// DeleteInvite deletes an invite and drops it from the cache.
func (s *Service) DeleteInvite(ctx context.Context, teamID, inviteID string) error {
	if err := s.api.DeleteInvite(ctx, teamID, inviteID); err != nil {
		return err
	}
	return s.store.RemoveEntity(teamID, cache.CategoryInvites, inviteID)
}

// CheckInvite looks up an invite token. Tokens that are not UUIDs are
// rejected locally; a server-side lookup failure is reported as an
// invalid invite rather than an error, matching the join flow's
// tolerance for stale links.
func (s *Service) CheckInvite(ctx context.Context, token string) (api.InviteInfo, error) {
	if uuid.Validate(token) != nil {
		return api.InviteInfo{}, ErrInvalidInviteToken
	}
	info, err := s.api.CheckInvite(ctx, token)
	if err != nil {
		s.logger.Debug("invite check failed", zap.Error(err))
		return api.InviteInfo{Status: "invite-invalid"}, nil
	}
	return info, nil
}

// AcceptInvite joins the team behind an invite token, caches it, switches
// to it and eagerly loads its member list.
func (s *Service) AcceptInvite(ctx context.Context, token string) (model.Team, error) {
	if uuid.Validate(token) != nil {
		return model.Team{}, ErrInvalidInviteToken
	}
	env, err := s.api.AcceptInvite(ctx, token)
	if err != nil {
		return model.Team{}, err
	}
	s.store.AddTeam(env)
	s.sync.SwitchTeam(env.ID)
	if _, err := s.Members(ctx, env.ID); err != nil && !errors.Is(err, syncer.ErrRefreshInFlight) {
		return model.Team{}, err
	}
	return env.Team, nil
}

// IsCurrentTeamAdmin reports whether the caller administers the currently
// selected team.
func (s *Service) IsCurrentTeamAdmin() bool {
	d := s.store.CurrentTeamData()
	if d == nil || d.Team.Member == nil {
		return false
	}
	return adminRoles[d.Team.Member.Role]
}

// HasCurrentTeamLinkedClub reports whether the selected team has a club.
func (s *Service) HasCurrentTeamLinkedClub() bool {
	d := s.store.CurrentTeamData()
	return d != nil && d.Team.Club != nil
}
