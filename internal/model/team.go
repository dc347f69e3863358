// Package model defines the entity types exchanged with the Teamized API.
// Field names follow the server's JSON payloads.
package model

// Entity is implemented by every object that carries a server-assigned id
// and can be stored in a team cache category.
type Entity interface {
	EntityID() string
}

// User is the account behind a team member.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
}

// Team holds a team's own scalar fields. The caller's membership record is
// embedded as Member; Club is nil when the team has no linked club.
type Team struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Club        *Club   `json:"club"`
	MemberCount int     `json:"membercount"`
	Member      *Member `json:"member,omitempty"`
}

func (t Team) EntityID() string { return t.ID }

// Member is a user's membership in a team.
type Member struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	RoleText string `json:"role_text"`
	IsAdmin  bool   `json:"is_admin"`
	IsOwner  bool   `json:"is_owner"`
	User     User   `json:"user"`
}

func (m Member) EntityID() string { return m.ID }

// Invite is a shareable team invitation.
type Invite struct {
	ID         string  `json:"id"`
	Token      string  `json:"token"`
	Note       string  `json:"note"`
	IsValid    bool    `json:"is_valid"`
	UsesLeft   int     `json:"uses_left"`
	UsesUsed   int     `json:"uses_used"`
	ValidUntil *string `json:"valid_until"`
	URL        string  `json:"url"`
}

func (i Invite) EntityID() string { return i.ID }

// TeamEnvelope is a team payload as the server sends it: the team's scalar
// fields plus any inline category collections the endpoint chose to embed.
// Split separates the two before anything reaches the cache, so the same
// entities are never stored in two places.
type TeamEnvelope struct {
	Team
	Members   []Member   `json:"members,omitempty"`
	Invites   []Invite   `json:"invites,omitempty"`
	Calendars []Calendar `json:"calendars,omitempty"`
	Todolists []Todolist `json:"todolists,omitempty"`
}

// Collections holds the inline category collections stripped from a
// TeamEnvelope. A nil slice means the envelope did not embed that category.
type Collections struct {
	Members   []Member
	Invites   []Invite
	Calendars []Calendar
	Todolists []Todolist
}

// Split returns the bare team record and its embedded collections.
func (e TeamEnvelope) Split() (Team, Collections) {
	return e.Team, Collections{
		Members:   e.Members,
		Invites:   e.Invites,
		Calendars: e.Calendars,
		Todolists: e.Todolists,
	}
}

// Alert is the server's presentation hint attached to mutating responses.
// The client is free to ignore it; the cache layer never interprets it.
type Alert struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}
