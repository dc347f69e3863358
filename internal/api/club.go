package api

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/model"
)

// ClubRequest is the create/update payload for a club.
type ClubRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug,omitempty"`
}

// ClubMemberRequest is the create/update payload for a club member.
type ClubMemberRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
}

// ClubGroupRequest is the create/update payload for a club group.
type ClubGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateClub links a new club to a team.
func (c *Client) CreateClub(ctx context.Context, teamID string, req ClubRequest) (model.Club, error) {
	var resp struct {
		Club model.Club `json:"club"`
	}
	if err := c.Post(ctx, "teams/"+teamID+"/create-club", req, &resp); err != nil {
		return model.Club{}, err
	}
	return resp.Club, nil
}

// UpdateClub updates a team's linked club.
func (c *Client) UpdateClub(ctx context.Context, teamID string, req ClubRequest) (model.Club, error) {
	var resp struct {
		Club model.Club `json:"club"`
	}
	if err := c.Put(ctx, "teams/"+teamID+"/club", req, &resp); err != nil {
		return model.Club{}, err
	}
	return resp.Club, nil
}

// DeleteClub unlinks and deletes a team's club.
func (c *Client) DeleteClub(ctx context.Context, teamID string) error {
	return c.Delete(ctx, "teams/"+teamID+"/club", nil)
}

// CreateClubMember adds a member to a team's club.
func (c *Client) CreateClubMember(ctx context.Context, teamID string, req ClubMemberRequest) (model.ClubMember, error) {
	var resp struct {
		Member model.ClubMember `json:"member"`
	}
	if err := c.Post(ctx, "teams/"+teamID+"/club/members", req, &resp); err != nil {
		return model.ClubMember{}, err
	}
	return resp.Member, nil
}

// UpdateClubMember updates a club member.
func (c *Client) UpdateClubMember(ctx context.Context, teamID, memberID string, req ClubMemberRequest) (model.ClubMember, error) {
	var resp struct {
		Member model.ClubMember `json:"member"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/club/members/%s", teamID, memberID), req, &resp); err != nil {
		return model.ClubMember{}, err
	}
	return resp.Member, nil
}

// DeleteClubMember removes a member from a team's club.
func (c *Client) DeleteClubMember(ctx context.Context, teamID, memberID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/club/members/%s", teamID, memberID), nil)
}

// CreateClubGroup creates a group in a team's club.
func (c *Client) CreateClubGroup(ctx context.Context, teamID string, req ClubGroupRequest) (model.ClubGroup, error) {
	var resp struct {
		Group model.ClubGroup `json:"group"`
	}
	if err := c.Post(ctx, "teams/"+teamID+"/club/groups", req, &resp); err != nil {
		return model.ClubGroup{}, err
	}
	return resp.Group, nil
}

// UpdateClubGroup updates a club group.
func (c *Client) UpdateClubGroup(ctx context.Context, teamID, groupID string, req ClubGroupRequest) (model.ClubGroup, error) {
	var resp struct {
		Group model.ClubGroup `json:"group"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/club/groups/%s", teamID, groupID), req, &resp); err != nil {
		return model.ClubGroup{}, err
	}
	return resp.Group, nil
}

// DeleteClubGroup deletes a club group.
func (c *Client) DeleteClubGroup(ctx context.Context, teamID, groupID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/club/groups/%s", teamID, groupID), nil)
}
