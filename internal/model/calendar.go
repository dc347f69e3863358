package model

// Calendar is a shared team calendar. Events are keyed by event id.
type Calendar struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Color       string                   `json:"color"`
	IsPublic    bool                     `json:"is_public"`
	ICSURL      string                   `json:"ics_url"`
	Events      map[string]CalendarEvent `json:"events"`
}

func (c Calendar) EntityID() string { return c.ID }

// CalendarEvent is a single calendar entry. Full-day events carry date-only
// DStart/DEnd; timed events carry DTStart/DTEnd instead.
type CalendarEvent struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	FullDay     bool    `json:"fullday"`
	DStart      *string `json:"dstart"`
	DEnd        *string `json:"dend"`
	DTStart     *string `json:"dtstart"`
	DTEnd       *string `json:"dtend"`
}

func (e CalendarEvent) EntityID() string { return e.ID }
