// Package calendar implements the shared-calendar features over the API
// and cache.
package calendar

import (
	"context"
	"fmt"

	"github.com/teamized/teamized/internal/api"
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/model"
	"github.com/teamized/teamized/internal/syncer"
)

// Service wires the calendar API to the cache and synchronizer.
type Service struct {
	api   *api.Client
	store *cache.Store
	sync  *syncer.Synchronizer
}

// NewService creates a calendar service.
func NewService(client *api.Client, store *cache.Store, sync *syncer.Synchronizer) *Service {
	return &Service{api: client, store: store, sync: sync}
}

// Calendars refreshes the team's calendars.
func (s *Service) Calendars(ctx context.Context, teamID string) ([]model.Calendar, error) {
	items, err := s.sync.RefreshCategory(ctx, teamID, cache.CategoryCalendars)
	if err != nil {
		return nil, err
	}
	calendars := make([]model.Calendar, 0, len(items))
	for _, it := range items {
		c, ok := it.(model.Calendar)
		if !ok {
			return nil, fmt.Errorf("calendar: unexpected entity type %T in calendars", it)
		}
		calendars = append(calendars, c)
	}
	return calendars, nil
}

// Create creates a calendar and caches it.
func (s *Service) Create(ctx context.Context, teamID string, req api.CalendarRequest) (model.Calendar, error) {
	cal, err := s.api.CreateCalendar(ctx, teamID, req)
	if err != nil {
		return model.Calendar{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryCalendars, cal); err != nil {
		return model.Calendar{}, err
	}
	return cal, nil
}

// Edit updates a calendar and caches the new record.
func (s *Service) Edit(ctx context.Context, teamID, calendarID string, req api.CalendarRequest) (model.Calendar, error) {
	cal, err := s.api.UpdateCalendar(ctx, teamID, calendarID, req)
	if err != nil {
		return model.Calendar{}, err
	}
	if err := s.store.UpsertEntity(teamID, cache.CategoryCalendars, cal); err != nil {
		return model.Calendar{}, err
	}
	return cal, nil
}

// Delete deletes a calendar and drops it from the cache.
func (s *Service) Delete(ctx context.Context, teamID, calendarID string) error {
	if err := s.api.DeleteCalendar(ctx, teamID, calendarID); err != nil {
		return err
	}
	return s.store.RemoveEntity(teamID, cache.CategoryCalendars, calendarID)
}

// CreateEvent adds an event and stores it in the cached calendar.
func (s *Service) CreateEvent(ctx context.Context, teamID, calendarID string, req api.CalendarEventRequest) (model.CalendarEvent, error) {
	event, err := s.api.CreateEvent(ctx, teamID, calendarID, req)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	if err := s.store.PutCalendarEvent(teamID, calendarID, event); err != nil {
		return model.CalendarEvent{}, err
	}
	return event, nil
}

// EditEvent updates an event and stores the new record in the cached
// calendar.
func (s *Service) EditEvent(ctx context.Context, teamID, calendarID, eventID string, req api.CalendarEventRequest) (model.CalendarEvent, error) {
	event, err := s.api.UpdateEvent(ctx, teamID, calendarID, eventID, req)
	if err != nil {
		return model.CalendarEvent{}, err
	}
	if err := s.store.PutCalendarEvent(teamID, calendarID, event); err != nil {
		return model.CalendarEvent{}, err
	}
	return event, nil
}

// DeleteEvent removes an event from the calendar and the cache.
func (s *Service) DeleteEvent(ctx context.Context, teamID, calendarID, eventID string) error {
	if err := s.api.DeleteEvent(ctx, teamID, calendarID, eventID); err != nil {
		return err
	}
	return s.store.RemoveCalendarEvent(teamID, calendarID, eventID)
}
