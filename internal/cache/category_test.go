package cache

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/teamized/teamized/internal/model"
)

func TestCategory_Endpoint(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryCalendars, "teams/t1/calendars"},
		{CategoryInvites, "teams/t1/invites"},
		{CategoryMembers, "teams/t1/members"},
		{CategoryTodolists, "teams/t1/todolists"},
		{CategoryWorksessions, "teams/t1/me/worksessions"},
		{CategoryClubMembers, "teams/t1/club/members"},
		{CategoryClubGroups, "teams/t1/club/groups"},
	}
	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			got, err := tt.cat.Endpoint("t1")
			if err != nil {
				t.Fatalf("Endpoint() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategory_Endpoint_Unknown(t *testing.T) {
	_, err := Category("worksessions").Endpoint("t1")
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("Endpoint(unknown) error = %v, want ErrUnknownCategory", err)
	}
}

func TestCategory_PluralKey(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryWorksessions, "worksessions"},
		{CategoryClubMembers, "members"},
		{CategoryClubGroups, "groups"},
		{CategoryCalendars, "calendars"},
	}
	for _, tt := range tests {
		if got := tt.cat.PluralKey(); got != tt.want {
			t.Errorf("PluralKey(%s) = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestCategory_DecodeList(t *testing.T) {
	raw := json.RawMessage(`[{"id":"m1","role":"admin"},{"id":"m2","role":"member"}]`)

	items, err := CategoryMembers.DecodeList(raw)
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	member, ok := items[0].(model.Member)
	if !ok {
		t.Fatalf("items[0] type = %T, want model.Member", items[0])
	}
	if member.ID != "m1" || member.Role != "admin" {
		t.Errorf("decoded member = %+v", member)
	}
}

func TestCategory_DecodeList_MalformedJSON(t *testing.T) {
	_, err := CategoryMembers.DecodeList(json.RawMessage(`{"not":"an array"}`))
	if err == nil {
		t.Fatal("DecodeList(object) should return error")
	}
}

func TestCategory_Valid(t *testing.T) {
	for _, cat := range Categories() {
		if !cat.Valid() {
			t.Errorf("Valid(%s) = false, want true", cat)
		}
	}
	if Category("club").Valid() {
		t.Error("Valid(club) = true, want false")
	}
}
