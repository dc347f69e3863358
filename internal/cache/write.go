package cache

import (
	"fmt"

	"github.com/teamized/teamized/internal/model"
)

// Single-entity write-through operations. The services call these after a
// successful mutating request so the cache mirrors the server without a
// full category refresh.

// UpsertEntity stores one entity in the team's category map.
func (s *Store) UpsertEntity(teamID string, cat Category, e model.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	if e.EntityID() == "" {
		return fmt.Errorf("%w: category %q", ErrMissingID, string(cat))
	}
	switch v := e.(type) {
	case model.Calendar:
		d.Calendars[v.ID] = v
	case model.Invite:
		d.Invites[v.ID] = v
	case model.Member:
		d.Members[v.ID] = v
	case model.Todolist:
		d.Todolists[v.ID] = v
	case model.Worksession:
		d.Worksessions[v.ID] = v
	case model.ClubMember:
		d.ClubMembers[v.ID] = v
	case model.ClubGroup:
		d.ClubGroups[v.ID] = v
	default:
		return fmt.Errorf("cache: wrong entity type %T for category %q", e, string(cat))
	}
	return nil
}

// RemoveEntity drops one entity from the team's category map. Removing an
// id that is not present is a no-op.
func (s *Store) RemoveEntity(teamID string, cat Category, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	switch cat {
	case CategoryCalendars:
		delete(d.Calendars, entityID)
	case CategoryInvites:
		delete(d.Invites, entityID)
	case CategoryMembers:
		delete(d.Members, entityID)
	case CategoryTodolists:
		delete(d.Todolists, entityID)
	case CategoryWorksessions:
		delete(d.Worksessions, entityID)
	case CategoryClubMembers:
		delete(d.ClubMembers, entityID)
	case CategoryClubGroups:
		delete(d.ClubGroups, entityID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCategory, string(cat))
	}
	return nil
}

// SetTeam overwrites the team's scalar record, leaving categories alone.
func (s *Store) SetTeam(teamID string, team model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	d.Team = team
	return nil
}

// SetMemberCount sets the team's cached member count.
func (s *Store) SetMemberCount(teamID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	d.Team.MemberCount = n
	return nil
}

// AddMemberCount adjusts the team's cached member count by delta.
func (s *Store) AddMemberCount(teamID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	d.Team.MemberCount += delta
	return nil
}

// SetClub sets or clears the club reference on the team's scalar record.
func (s *Store) SetClub(teamID string, club *model.Club) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	d.Team.Club = club
	return nil
}

// PutTodolistItem stores an item inside a cached to-do list.
func (s *Store) PutTodolistItem(teamID, listID string, item model.TodolistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	list, ok := d.Todolists[listID]
	if !ok {
		return fmt.Errorf("cache: unknown todolist %s in team %s", listID, teamID)
	}
	if list.Items == nil {
		list.Items = map[string]model.TodolistItem{}
		d.Todolists[listID] = list
	}
	list.Items[item.ID] = item
	return nil
}

// RemoveTodolistItem drops an item from a cached to-do list.
func (s *Store) RemoveTodolistItem(teamID, listID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	if list, ok := d.Todolists[listID]; ok {
		delete(list.Items, itemID)
	}
	return nil
}

// PutCalendarEvent stores an event inside a cached calendar.
func (s *Store) PutCalendarEvent(teamID, calendarID string, event model.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	cal, ok := d.Calendars[calendarID]
	if !ok {
		return fmt.Errorf("cache: unknown calendar %s in team %s", calendarID, teamID)
	}
	if cal.Events == nil {
		cal.Events = map[string]model.CalendarEvent{}
		d.Calendars[calendarID] = cal
	}
	cal.Events[event.ID] = event
	return nil
}

// RemoveCalendarEvent drops an event from a cached calendar.
func (s *Store) RemoveCalendarEvent(teamID, calendarID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, teamID)
	}
	if cal, ok := d.Calendars[calendarID]; ok {
		delete(cal.Events, eventID)
	}
	return nil
}
