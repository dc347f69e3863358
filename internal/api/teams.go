package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
)

// TeamsResponse is the bulk team-list envelope.
type TeamsResponse struct {
	Teams         []model.TeamEnvelope `json:"teams"`
	DefaultTeamID string               `json:"defaultTeamId"`
}

// TeamRequest is the create/update payload for a team.
type TeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MemberRequest is the update payload for a team member.
type MemberRequest struct {
	Role string `json:"role"`
}

// InviteRequest is the create/update payload for an invite.
type InviteRequest struct {
	Note       string  `json:"note"`
	UsesLeft   int     `json:"uses_left,omitempty"`
	ValidUntil *string `json:"valid_until,omitempty"`
}

// InviteInfo is the response of the invite pre-check endpoint. Status is
// "invite-valid" or "invite-invalid"; Team is set only for valid invites.
type InviteInfo struct {
	Status string              `json:"status"`
	Team   *model.TeamEnvelope `json:"team,omitempty"`
}

const inviteStatusValid = "invite-valid"

// Valid reports whether the invite can be accepted.
func (i InviteInfo) Valid() bool { return i.Status == inviteStatusValid }

// Teams fetches the authoritative team list and the default team id.
func (c *Client) Teams(ctx context.Context) ([]model.TeamEnvelope, string, error) {
	var resp TeamsResponse
	if err := c.Get(ctx, "teams", &resp); err != nil {
		return nil, "", err
	}
	return resp.Teams, resp.DefaultTeamID, nil
}

// CreateTeam creates a team and returns its envelope.
func (c *Client) CreateTeam(ctx context.Context, req TeamRequest) (model.TeamEnvelope, error) {
	var resp struct {
		Team model.TeamEnvelope `json:"team"`
	}
	if err := c.Post(ctx, "teams", req, &resp); err != nil {
		return model.TeamEnvelope{}, err
	}
	return resp.Team, nil
}

// UpdateTeam updates a team's scalar fields.
func (c *Client) UpdateTeam(ctx context.Context, teamID string, req TeamRequest) (model.TeamEnvelope, error) {
	var resp struct {
		Team model.TeamEnvelope `json:"team"`
	}
	if err := c.Put(ctx, "teams/"+teamID, req, &resp); err != nil {
		return model.TeamEnvelope{}, err
	}
	return resp.Team, nil
}

// DeleteTeam deletes a team.
func (c *Client) DeleteTeam(ctx context.Context, teamID string) error {
	return c.Delete(ctx, "teams/"+teamID, nil)
}

// LeaveTeam removes the caller's membership from a team.
func (c *Client) LeaveTeam(ctx context.Context, teamID string) error {
	return c.Post(ctx, "teams/"+teamID+"/leave", nil, nil)
}

// UpdateMember changes a member's role.
func (c *Client) UpdateMember(ctx context.Context, teamID, memberID string, req MemberRequest) (model.Member, error) {
	var resp struct {
		Member model.Member `json:"member"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/members/%s", teamID, memberID), req, &resp); err != nil {
		return model.Member{}, err
	}
	return resp.Member, nil
}

// DeleteMember removes a member from a team.
func (c *Client) DeleteMember(ctx context.Context, teamID, memberID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/members/%s", teamID, memberID), nil)
}

// CreateInvite creates an invite for a team.
func (c *Client) CreateInvite(ctx context.Context, teamID string, req InviteRequest) (model.Invite, error) {
	var resp struct {
		Invite model.Invite `json:"invite"`
	}
	if err := c.Post(ctx, "teams/"+teamID+"/invites", req, &resp); err != nil {
		return model.Invite{}, err
	}
	return resp.Invite, nil
}

// UpdateInvite updates an invite.
func (c *Client) UpdateInvite(ctx context.Context, teamID, inviteID string, req InviteRequest) (model.Invite, error) {
	var resp struct {
		Invite model.Invite `json:"invite"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/invites/%s", teamID, inviteID), req, &resp); err != nil {
		return model.Invite{}, err
	}
	return resp.Invite, nil
}

// DeleteInvite deletes an invite.
func (c *Client) DeleteInvite(ctx context.Context, teamID, inviteID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/invites/%s", teamID, inviteID), nil)
}

// CheckInvite looks up an invite token without accepting it.
func (c *Client) CheckInvite(ctx context.Context, token string) (InviteInfo, error) {
	var resp InviteInfo
	if err := c.Get(ctx, "invites/"+token+"/info", &resp); err != nil {
		return InviteInfo{}, err
	}
	return resp, nil
}

// AcceptInvite accepts an invite and returns the joined team.
func (c *Client) AcceptInvite(ctx context.Context, token string) (model.TeamEnvelope, error) {
	var resp struct {
		Team model.TeamEnvelope `json:"team"`
	}
	if err := c.Post(ctx, "invites/"+token+"/accept", nil, &resp); err != nil {
		return model.TeamEnvelope{}, err
	}
	return resp.Team, nil
}

// Category fetches one category collection for a team and decodes it via
// the category table. A response missing the category's plural key is a
// structural mismatch and fails instead of caching malformed data.
func (c *Client) Category(ctx context.Context, teamID string, cat cache.Category) ([]model.Entity, error) {
	endpoint, err := cat.Endpoint(teamID)
	if err != nil {
		return nil, err
	}
	var payload map[string]json.RawMessage
	if err := c.Get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	raw, ok := payload[cat.PluralKey()]
	if !ok {
		return nil, fmt.Errorf("api: %s response is missing the %q collection", endpoint, cat.PluralKey())
	}
	return cat.DecodeList(raw)
}
