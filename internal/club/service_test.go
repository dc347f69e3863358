package club

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teamized/teamized/internal/api"
	"github.com/teamized/teamized/internal/cache"
	"github.com/teamized/teamized/internal/syncer"
)

// newTestService wires a Service against an httptest server and seeds the
// cache with team t1 via a bulk sync.
func newTestService(t *testing.T, mux *http.ServeMux) (*Service, *cache.Store) {
	t.Helper()
	mux.HandleFunc("GET /teams", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"teams": [{"id": "t1", "name": "Alpha", "club": {"id": "c1", "name": "FC Alpha"}}], "defaultTeamId": "t1"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "tok")
	store := cache.NewStore(nil)
	sync := syncer.New(client, store, fakeNavigator{}, nil)
	if _, err := sync.LoadTeams(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewService(client, store, sync), store
}

type fakeNavigator struct{}

func (fakeNavigator) ExportToLink() {}
func (fakeNavigator) Render()       {}
func (fakeNavigator) RenderPage()   {}

func TestService_Create_SetsClubOnTeam(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /teams/t1/create-club", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"club": {"id": "c-new", "name": "SV Neu"}}`))
	})
	svc, store := newTestService(t, mux)

	clb, err := svc.Create(context.Background(), "t1", api.ClubRequest{Name: "SV Neu"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if clb.ID != "c-new" {
		t.Errorf("ID = %q, want c-new", clb.ID)
	}
	cached := store.TeamData("t1").Team.Club
	if cached == nil || cached.ID != "c-new" {
		t.Errorf("cached club = %+v, want c-new on the team record", cached)
	}
}

func TestService_Delete_ClearsClub(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /teams/t1/club", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	svc, store := newTestService(t, mux)

	if err := svc.Delete(context.Background(), "t1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if store.TeamData("t1").Team.Club != nil {
		t.Error("club reference still on the team record after delete")
	}
}

func TestService_Members(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams/t1/club/members", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"members": [{"id": "cm1", "first_name": "Ada", "last_name": "Lovelace"}]}`))
	})
	mux.HandleFunc("POST /teams/t1/club/members", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"member": {"id": "cm2", "first_name": "Grace", "last_name": "Hopper"}}`))
	})
	mux.HandleFunc("DELETE /teams/t1/club/members/cm1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	svc, store := newTestService(t, mux)

	members, err := svc.Members(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}
	if len(members) != 1 || members[0].FirstName != "Ada" {
		t.Fatalf("Members() = %+v, want one member named Ada", members)
	}

	if _, err := svc.CreateMember(context.Background(), "t1", api.ClubMemberRequest{FirstName: "Grace", LastName: "Hopper"}); err != nil {
		t.Fatalf("CreateMember() error = %v", err)
	}
	if _, ok := store.TeamData("t1").ClubMembers["cm2"]; !ok {
		t.Error("created club member not cached")
	}

	if err := svc.DeleteMember(context.Background(), "t1", "cm1"); err != nil {
		t.Fatalf("DeleteMember() error = %v", err)
	}
	if _, ok := store.TeamData("t1").ClubMembers["cm1"]; ok {
		t.Error("deleted club member still cached")
	}
}

func TestService_Groups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams/t1/club/groups", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"groups": [{"id": "g1", "name": "Juniors", "memberids": ["cm1"]}]}`))
	})
	mux.HandleFunc("POST /teams/t1/club/groups", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"group": {"id": "g2", "name": "Seniors"}}`))
	})
	mux.HandleFunc("PUT /teams/t1/club/groups/g1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"group": {"id": "g1", "name": "Youth"}}`))
	})
	svc, store := newTestService(t, mux)

	groups, err := svc.Groups(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Juniors" {
		t.Fatalf("Groups() = %+v, want one group named Juniors", groups)
	}

	if _, err := svc.CreateGroup(context.Background(), "t1", api.ClubGroupRequest{Name: "Seniors"}); err != nil {
		t.Fatalf("CreateGroup() error = %v", err)
	}
	if _, ok := store.TeamData("t1").ClubGroups["g2"]; !ok {
		t.Error("created group not cached")
	}

	if _, err := svc.EditGroup(context.Background(), "t1", "g1", api.ClubGroupRequest{Name: "Youth"}); err != nil {
		t.Fatalf("EditGroup() error = %v", err)
	}
	if store.TeamData("t1").ClubGroups["g1"].Name != "Youth" {
		t.Error("edit not written through to the cached group")
	}
}
