package model

// Club is the club sub-module linked to a team.
type Club struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	MemberCount int    `json:"membercount"`
}

func (c Club) EntityID() string { return c.ID }

// ClubMember is a member of a team's linked club. Club members are plain
// contact records, not user accounts.
type ClubMember struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	Street    string `json:"street,omitempty"`
	ZipCode   string `json:"zip_code,omitempty"`
	City      string `json:"city,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

func (m ClubMember) EntityID() string { return m.ID }

// ClubGroup is a named grouping of club members.
type ClubGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberids"`
	SharedURL   string   `json:"shared_url,omitempty"`
}

func (g ClubGroup) EntityID() string { return g.ID }
