package announcementhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timesheet/internal/domain/announcement"
	"timesheet/internal/domain/audit"
	"timesheet/internal/domain/auth"
	"timesheet/internal/transport/http/api"
	"timesheet/internal/transport/http/middleware"
	"timesheet/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, limit int) ([]announcement.Announcement, error)
	Create(ctx context.Context, authorID string, in announcement.Input) (announcement.Announcement, error)
	Update(ctx context.Context, id string, in announcement.Input) (announcement.Announcement, error)
	Delete(ctx context.Context, id string) (announcement.Announcement, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service Service, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

type announcementRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Pinned bool   `json:"pinned"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	write := middleware.RequirePermission(auth.PermAnnouncementsWrite, h.Perms)
	r.Route("/announcements", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAnnouncementsRead, h.Perms)).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.With(write).Put("/{id}", h.handleUpdate)
		r.With(write).Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	items, err := h.Service.List(r.Context(), page.Limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []announcement.Announcement{}
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	in, ok := decode(w, r)
	if !ok {
		return
	}
	item, err := h.Service.Create(r.Context(), user.EmployeeID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "announcement.create", item.ID, nil, item)
	api.Created(w, item, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	in, ok := decode(w, r)
	if !ok {
		return
	}
	item, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "announcement.update", item.ID, nil, item)
	api.Success(w, item, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	item, err := h.Service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "announcement.delete", item.ID, item, nil)
	api.Success(w, map[string]string{"id": item.ID}, middleware.GetRequestID(r.Context()))
}

func decode(w http.ResponseWriter, r *http.Request) (announcement.Input, bool) {
	reqID := middleware.GetRequestID(r.Context())
	var payload announcementRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return announcement.Input{}, false
	}
	v := shared.NewValidator()
	v.Required("title", payload.Title, "is required")
	if v.Reject(w, reqID) {
		return announcement.Input{}, false
	}
	return announcement.Input{Title: payload.Title, Body: payload.Body, Pinned: payload.Pinned}, true
}

func (h *Handler) record(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.EmployeeID, action, "announcement", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, announcement.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, announcement.ErrTitleRequired):
		api.Fail(w, http.StatusBadRequest, "invalid_announcement", err.Error(), reqID)
	default:
		slog.Error("announcement request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "announcement_failed", "announcement request failed", reqID)
	}
}
