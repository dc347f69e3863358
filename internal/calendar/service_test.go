package calendar

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
		_, _ = w.Write([]byte(`{"teams": [{"id": "t1", "name": "Alpha"}], "defaultTeamId": "t1"}`))
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

func TestService_Calendars(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams/t1/calendars", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"calendars": [{"id": "c1", "name": "Matches", "events": {"e1": {"id": "e1", "name": "Kickoff"}}}]}`))
	})
	svc, store := newTestService(t, mux)

	calendars, err := svc.Calendars(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Calendars() error = %v", err)
	}

	if len(calendars) != 1 || calendars[0].Name != "Matches" {
		t.Fatalf("Calendars() = %+v, want one calendar named Matches", calendars)
	}
	if store.TeamData("t1").Calendars["c1"].Events["e1"].Name != "Kickoff" {
		t.Error("calendar events not cached with the calendar")
	}
}

func TestService_Create_CachesResult(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /teams/t1/calendars", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"calendar": {"id": "c-new", "name": "Training"}}`))
	})
	svc, store := newTestService(t, mux)

	cal, err := svc.Create(context.Background(), "t1", api.CalendarRequest{Name: "Training"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if cal.ID != "c-new" {
		t.Errorf("ID = %q, want c-new", cal.ID)
	}
	if _, ok := store.TeamData("t1").Calendars["c-new"]; !ok {
		t.Error("created calendar not cached")
	}
}

func TestService_Delete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams/t1/calendars", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"calendars": [{"id": "c1", "name": "Matches"}]}`))
	})
	mux.HandleFunc("DELETE /teams/t1/calendars/c1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	svc, store := newTestService(t, mux)
	if _, err := svc.Calendars(context.Background(), "t1"); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(context.Background(), "t1", "c1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, ok := store.TeamData("t1").Calendars["c1"]; ok {
		t.Error("deleted calendar still cached")
	}
}

func TestService_Events(t *testing.T) {
	start := "2026-09-01"
	end := "2026-09-02"
	mux := http.NewServeMux()
	mux.HandleFunc("GET /teams/t1/calendars", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"calendars": [{"id": "c1", "name": "Matches"}]}`))
	})
	mux.HandleFunc("POST /teams/t1/calendars/c1/events", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"event": {"id": "e1", "name": "Cup final", "fullday": true, "dstart": "2026-09-01", "dend": "2026-09-02"}}`))
	})
	mux.HandleFunc("PUT /teams/t1/calendars/c1/events/e1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"event": {"id": "e1", "name": "Cup final (moved)", "fullday": true, "dstart": "2026-09-01", "dend": "2026-09-02"}}`))
	})
	mux.HandleFunc("DELETE /teams/t1/calendars/c1/events/e1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	svc, store := newTestService(t, mux)
	if _, err := svc.Calendars(context.Background(), "t1"); err != nil {
		t.Fatal(err)
	}

	req := api.CalendarEventRequest{Name: "Cup final", FullDay: true, DStart: &start, DEnd: &end}
	event, err := svc.CreateEvent(context.Background(), "t1", "c1", req)
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if event.ID != "e1" {
		t.Errorf("ID = %q, want e1", event.ID)
	}
	if store.TeamData("t1").Calendars["c1"].Events["e1"].Name != "Cup final" {
		t.Error("created event not stored in the cached calendar")
	}

	if _, err := svc.EditEvent(context.Background(), "t1", "c1", "e1", req); err != nil {
		t.Fatalf("EditEvent() error = %v", err)
	}
	if store.TeamData("t1").Calendars["c1"].Events["e1"].Name != "Cup final (moved)" {
		t.Error("edit not written through to the cached event")
	}

	if err := svc.DeleteEvent(context.Background(), "t1", "c1", "e1"); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}
	if len(store.TeamData("t1").Calendars["c1"].Events) != 0 {
		t.Error("deleted event still cached")
	}
}
