package announcementhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"timesheet/internal/domain/announcement"
	"timesheet/internal/domain/auth"
	"timesheet/internal/transport/http/middleware"
)

type fakeService struct {
	items  map[string]announcement.Announcement
	author string
}

func (f *fakeService) List(_ context.Context, limit int) ([]announcement.Announcement, error) {
	out := make([]announcement.Announcement, 0, len(f.items))
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeService) Create(_ context.Context, authorID string, in announcement.Input) (announcement.Announcement, error) {
	f.author = authorID
	item := announcement.Announcement{ID: "n2", Title: in.Title, Body: in.Body, Pinned: in.Pinned, AuthorID: authorID}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeService) Update(_ context.Context, id string, in announcement.Input) (announcement.Announcement, error) {
	item, ok := f.items[id]
	if !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	item.Title = in.Title
	f.items[id] = item
	return item, nil
}

func (f *fakeService) Delete(_ context.Context, id string) (announcement.Announcement, error) {
	item, ok := f.items[id]
	if !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	delete(f.items, id)
	return item, nil
}

func serve(svc *fakeService, role, method, path, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, auth.StaticPermissions{}, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{EmployeeID: "u1", Role: role})))
		})
	})
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestAnnouncementsReadableByEveryone(t *testing.T) {
	svc := &fakeService{items: map[string]announcement.Announcement{"n1": {ID: "n1", Title: "Payday moved"}}}
	rec := serve(svc, auth.RoleEmployee, http.MethodGet, "/announcements/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Payday moved") {
		t.Fatalf("expected announcement in body: %s", rec.Body.String())
	}
}

func TestAnnouncementWritesNeedAdmin(t *testing.T) {
	svc := &fakeService{items: map[string]announcement.Announcement{}}
	rec := serve(svc, auth.RoleEmployee, http.MethodPost, "/announcements/", `{"title":"x"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	rec = serve(svc, auth.RoleAdmin, http.MethodPost, "/announcements/", `{"title":" "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank title, got %d", rec.Code)
	}

	rec = serve(svc, auth.RoleAdmin, http.MethodPost, "/announcements/", `{"title":"Office closed","pinned":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.author != "u1" {
		t.Fatalf("expected author u1, got %q", svc.author)
	}

	rec = serve(svc, auth.RoleAdmin, http.MethodPut, "/announcements/missing", `{"title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = serve(svc, auth.RoleAdmin, http.MethodDelete, "/announcements/n2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.items) != 0 {
		t.Fatalf("expected announcement removed, got %d", len(svc.items))
	}
}
