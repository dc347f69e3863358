package api

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/model"
)

// CalendarRequest is the create/update payload for a calendar.
type CalendarRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// CalendarEventRequest is the create/update payload for a calendar event.
// Exactly one of the date pair (full-day) or datetime pair (timed) is set.
type CalendarEventRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	FullDay     bool    `json:"fullday"`
	DStart      *string `json:"dstart"`
	DEnd        *string `json:"dend"`
	DTStart     *string `json:"dtstart"`
	DTEnd       *string `json:"dtend"`
}

// CreateCalendar creates a calendar on a team.
func (c *Client) CreateCalendar(ctx context.Context, teamID string, req CalendarRequest) (model.Calendar, error) {
	var resp struct {
		Calendar model.Calendar `json:"calendar"`
	}
	if err := c.Post(ctx, "teams/"+teamID+"/calendars", req, &resp); err != nil {
		return model.Calendar{}, err
	}
	return resp.Calendar, nil
}

// UpdateCalendar updates a calendar.
func (c *Client) UpdateCalendar(ctx context.Context, teamID, calendarID string, req CalendarRequest) (model.Calendar, error) {
	var resp struct {
		Calendar model.Calendar `json:"calendar"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/calendars/%s", teamID, calendarID), req, &resp); err != nil {
		return model.Calendar{}, err
	}
	return resp.Calendar, nil
}

// DeleteCalendar deletes a calendar.
func (c *Client) DeleteCalendar(ctx context.Context, teamID, calendarID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/calendars/%s", teamID, calendarID), nil)
}

// CreateEvent adds an event to a calendar.
func (c *Client) CreateEvent(ctx context.Context, teamID, calendarID string, req CalendarEventRequest) (model.CalendarEvent, error) {
	var resp struct {
		Event model.CalendarEvent `json:"event"`
	}
	if err := c.Post(ctx, fmt.Sprintf("teams/%s/calendars/%s/events", teamID, calendarID), req, &resp); err != nil {
		return model.CalendarEvent{}, err
	}
	return resp.Event, nil
}

// UpdateEvent updates a calendar event.
func (c *Client) UpdateEvent(ctx context.Context, teamID, calendarID, eventID string, req CalendarEventRequest) (model.CalendarEvent, error) {
	var resp struct {
		Event model.CalendarEvent `json:"event"`
	}
	if err := c.Put(ctx, fmt.Sprintf("teams/%s/calendars/%s/events/%s", teamID, calendarID, eventID), req, &resp); err != nil {
		return model.CalendarEvent{}, err
	}
	return resp.Event, nil
}

// DeleteEvent removes an event from a calendar.
func (c *Client) DeleteEvent(ctx context.Context, teamID, calendarID, eventID string) error {
	return c.Delete(ctx, fmt.Sprintf("teams/%s/calendars/%s/events/%s", teamID, calendarID, eventID), nil)
}
