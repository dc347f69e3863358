package api

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/model"
)

// WorksessionRequest is the create/update payload for a work session.
type WorksessionRequest struct {
	TimeStart string  `json:"time_start"`
	TimeEnd   *string `json:"time_end"`
	Note      string  `json:"note"`
}

// ErrNoActiveTracking is the server's error code when no tracking session
// is running.
const ErrNoActiveTracking = "no_active_tracking_session_exists"

// CreateWorksession records a manually entered work session.
func (c *Client) CreateWorksession(ctx context.Context, teamID string, req WorksessionRequest) (model.Worksession, error) {
	var resp struct {
		Session model.Worksession `json:"session"`
	}
	if err := c.Post(ctx, "teams/"+teamID+"/me/worksessions", req, &resp); err != nil {
		return model.Worksession{}, err
	}
	return resp.Session, nil
}

// UpdateWorksession updates a work session.
func (c *Client) UpdateWorksession(ctx context.Context, teamID, sessionID string, req WorksessionRequest) (model.Worksession, error) {
	var resp struct {
		Session model.Worksession `json:"session"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/me/worksessions/%s", teamID, sessionID), req, &resp); err != nil {
		return model.Worksession{}, err
	}
	return resp.Session, nil
}

// DeleteWorksession deletes a work session.
func (c *Client) DeleteWorksession(ctx context.Context, teamID, sessionID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/me/worksessions/%s", teamID, sessionID), nil)
}

// StartTracking begins a live tracking session on the given team.
func (c *Client) StartTracking(ctx context.Context, teamID string) (model.Worksession, error) {
	var resp struct {
		Session model.Worksession `json:"session"`
	}
	if err := c.Post(ctx, "me/worksessions/tracking/start/t="+teamID, nil, &resp); err != nil {
		return model.Worksession{}, err
	}
	return resp.Session, nil
}

// LiveTracking returns the currently running tracking session, if any.
// The second return value is false when no session is being tracked.
func (c *Client) LiveTracking(ctx context.Context) (model.Worksession, bool, error) {
	var resp struct {
		Session *model.Worksession `json:"session"`
		Error   string             `json:"error"`
	}
	if err := c.Get(ctx, "me/worksessions/tracking/live", &resp); err != nil {
		return model.Worksession{}, false, err
	}
	if resp.Session == nil || resp.Error == ErrNoActiveTracking {
		return model.Worksession{}, false, nil
	}
	return *resp.Session, true, nil
}

// StopTracking ends the currently running tracking session.
func (c *Client) StopTracking(ctx context.Context) (model.Worksession, error) {
	var resp struct {
		Session model.Worksession `json:"session"`
	}
	if err := c.Post(ctx, "me/worksessions/tracking/stop", nil, &resp); err != nil {
		return model.Worksession{}, err
	}
	return resp.Session, nil
}
