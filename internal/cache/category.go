package cache

import (
	"encoding/json"
	"fmt"

	"github.com/teamized/teamized/internal/model"
)

// Category identifies one of the per-team entity collections the server
// exposes under teams/{teamID}/...
type Category string

const (
	CategoryCalendars    Category = "calendars"
	CategoryInvites      Category = "invites"
	CategoryMembers      Category = "members"
	CategoryTodolists    Category = "todolists"
	CategoryWorksessions Category = "me_worksessions"
	CategoryClubMembers  Category = "club_members"
	CategoryClubGroups   Category = "club_groups"
)

// ErrUnknownCategory indicates a category name outside the fixed set.
var ErrUnknownCategory = fmt.Errorf("cache: unknown category")

// categoryInfo carries a category's REST path segment (below teams/{id}/),
// the plural JSON key its collection responses use, and the typed decoder
// for that collection.
type categoryInfo struct {
	pathSuffix string
	pluralKey  string
	decode     func(json.RawMessage) ([]model.Entity, error)
}

var categoryTable = map[Category]categoryInfo{
	CategoryCalendars:    {"calendars", "calendars", decodeList[model.Calendar]},
	CategoryInvites:      {"invites", "invites", decodeList[model.Invite]},
	CategoryMembers:      {"members", "members", decodeList[model.Member]},
	CategoryTodolists:    {"todolists", "todolists", decodeList[model.Todolist]},
	CategoryWorksessions: {"me/worksessions", "worksessions", decodeList[model.Worksession]},
	CategoryClubMembers:  {"club/members", "members", decodeList[model.ClubMember]},
	CategoryClubGroups:   {"club/groups", "groups", decodeList[model.ClubGroup]},
}

// Categories returns all categories in their canonical order.
func Categories() []Category {
	return []Category{
		CategoryCalendars,
		CategoryInvites,
		CategoryMembers,
		CategoryTodolists,
		CategoryWorksessions,
		CategoryClubMembers,
		CategoryClubGroups,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Endpoint returns the REST endpoint for this category on the given team,
// e.g. teams/{teamID}/club/members for CategoryClubMembers.
func (c Category) Endpoint(teamID string) (string, error) {
	info, ok := categoryTable[c]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	return fmt.Sprintf("teams/%s/%s", teamID, info.pathSuffix), nil
}

// PluralKey returns the JSON field under which collection responses carry
// this category's entity array.
func (c Category) PluralKey() string {
	return categoryTable[c].pluralKey
}

// DecodeList decodes a raw JSON array into this category's entity type.
func (c Category) DecodeList(raw json.RawMessage) ([]model.Entity, error) {
	info, ok := categoryTable[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
	}
	return info.decode(raw)
}

// decodeList unmarshals raw into []T and widens the result to []model.Entity.
func decodeList[T model.Entity](raw json.RawMessage) ([]model.Entity, error) {
	var typed []T
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, fmt.Errorf("cache: decoding category list: %w", err)
	}
	out := make([]model.Entity, len(typed))
	for i, v := range typed {
		out[i] = v
	}
	return out, nil
}
