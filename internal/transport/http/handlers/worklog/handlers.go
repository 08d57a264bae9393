package workloghandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"timesheet/internal/domain/audit"
	"timesheet/internal/domain/auth"
	"timesheet/internal/domain/worklog"
	"timesheet/internal/transport/http/api"
	"timesheet/internal/transport/http/middleware"
	"timesheet/internal/transport/http/shared"
)

type Service interface {
	ClockIn(ctx context.Context, actor auth.UserContext, now time.Time) (worklog.Entry, error)
	ClockOut(ctx context.Context, actor auth.UserContext, now time.Time) (worklog.Entry, error)
	Create(ctx context.Context, actor auth.UserContext, in worklog.Input) (worklog.Entry, error)
	RequestDayOff(ctx context.Context, actor auth.UserContext, employeeID string, date time.Time, reason string) (worklog.Entry, error)
	Update(ctx context.Context, actor auth.UserContext, id string, in worklog.Input) (worklog.Entry, error)
	Approve(ctx context.Context, actor auth.UserContext, id string) (worklog.Entry, error)
	Reject(ctx context.Context, actor auth.UserContext, id, reason string) (worklog.Entry, error)
	Delete(ctx context.Context, actor auth.UserContext, id string) (worklog.Entry, error)
	List(ctx context.Context, actor auth.UserContext, filter worklog.Filter) ([]worklog.Entry, int, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
	Now     func() time.Time
}

func NewHandler(service Service, perms middleware.PermissionStore, recorder audit.Recorder, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Service: service,
		Perms:   perms,
		Audit:   recorder,
		Now:     func() time.Time { return time.Now().In(loc) },
	}
}

type entryRequest struct {
	EmployeeID   string  `json:"employeeId"`
	Date         string  `json:"date"`
	ClockIn      *string `json:"clockIn"`
	ClockOut     *string `json:"clockOut"`
	Kind         string  `json:"kind"`
	DayOffReason string  `json:"dayOffReason"`
	Approved     bool    `json:"approved"`
}

type dayOffRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	self := middleware.RequirePermission(auth.PermWorklogSelf, h.Perms)
	approve := middleware.RequirePermission(auth.PermWorklogApprove, h.Perms)
	r.Route("/worklogs", func(r chi.Router) {
		r.With(self).Post("/clock-in", h.handleClockIn)
		r.With(self).Post("/clock-out", h.handleClockOut)
		r.With(self).Get("/", h.handleList)
		r.With(self).Post("/", h.handleCreate)
		r.With(self).Post("/day-off", h.handleDayOff)
		r.With(self).Put("/{id}", h.handleUpdate)
		r.With(self).Delete("/{id}", h.handleDelete)
		r.With(approve).Post("/{id}/approve", h.handleApprove)
		r.With(approve).Post("/{id}/reject", h.handleReject)
	})
}

func (h *Handler) handleClockIn(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	entry, err := h.Service.ClockIn(r.Context(), user, h.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.clock_in", entry.ID, nil, entry)
	api.Created(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleClockOut(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	entry, err := h.Service.ClockOut(r.Context(), user, h.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.clock_out", entry.ID, nil, entry)
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)
	query := r.URL.Query()
	filter := worklog.Filter{
		EmployeeID: strings.TrimSpace(query.Get("employeeId")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}

	v := shared.NewValidator()
	if month := strings.TrimSpace(query.Get("month")); month != "" {
		start, err := time.Parse("2006-01", month)
		if err != nil {
			v.Add("month", "must be YYYY-MM")
		} else {
			filter.From = start
			filter.To = start.AddDate(0, 1, -1)
		}
	} else {
		filter.From = shared.QueryDate(r, "from", v)
		filter.To = shared.QueryDate(r, "to", v)
		v.DateOrder("from", filter.From, "to", filter.To)
	}
	if raw := strings.TrimSpace(query.Get("state")); raw != "" {
		state, err := worklog.ParseState(raw)
		if err != nil {
			v.Add("state", err.Error())
		}
		filter.State = state
	}
	if v.Reject(w, reqID) {
		return
	}

	entries, total, err := h.Service.List(r.Context(), user, filter)
	if err != nil {
		slog.Error("list work logs failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "worklog_list_failed", "failed to list work logs", reqID)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	api.Success(w, shared.NewPage(entries, total, page), reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(r.Context())
	var payload entryRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	in, ok := payload.input(w, reqID)
	if !ok {
		return
	}

	entry, err := h.Service.Create(r.Context(), user, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.create", entry.ID, nil, entry)
	api.Created(w, entry, reqID)
}

func (h *Handler) handleDayOff(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(r.Context())
	var payload dayOffRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("date", payload.Date, "is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, reqID) {
		return
	}

	entry, err := h.Service.RequestDayOff(r.Context(), user, payload.EmployeeID, date, payload.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.day_off", entry.ID, nil, entry)
	api.Created(w, entry, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(r.Context())
	var payload entryRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	in, ok := payload.input(w, reqID)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	entry, err := h.Service.Update(r.Context(), user, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.update", entry.ID, payload, entry)
	api.Success(w, entry, reqID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	entry, err := h.Service.Delete(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.delete", entry.ID, entry, nil)
	api.Success(w, map[string]string{"id": entry.ID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	entry, err := h.Service.Approve(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.approve", entry.ID, nil, entry)
	api.Success(w, entry, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	reqID := middleware.GetRequestID(r.Context())
	var payload rejectRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	entry, err := h.Service.Reject(r.Context(), user, chi.URLParam(r, "id"), payload.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, user, "worklog.reject", entry.ID, nil, entry)
	api.Success(w, entry, reqID)
}

func (p entryRequest) input(w http.ResponseWriter, reqID string) (worklog.Input, bool) {
	v := shared.NewValidator()
	v.Required("date", p.Date, "is required")
	date, _ := v.Date("date", p.Date)
	kind, err := worklog.ParseKind(p.Kind)
	if err != nil {
		v.Add("kind", err.Error())
	}
	for field, value := range map[string]*string{"clockIn": p.ClockIn, "clockOut": p.ClockOut} {
		if value == nil || strings.TrimSpace(*value) == "" {
			continue
		}
		if _, err := worklog.NormalizeClock(*value); err != nil {
			v.Add(field, err.Error())
		}
	}
	if v.Reject(w, reqID) {
		return worklog.Input{}, false
	}
	return worklog.Input{
		EmployeeID:   strings.TrimSpace(p.EmployeeID),
		Date:         date,
		ClockIn:      p.ClockIn,
		ClockOut:     p.ClockOut,
		Kind:         kind,
		DayOffReason: p.DayOffReason,
		Approved:     p.Approved,
	}, true
}

func (h *Handler) record(r *http.Request, user auth.UserContext, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), user.EmployeeID, action, "work_log", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (auth.UserContext, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
	}
	return user, ok
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, worklog.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, worklog.ErrUnknownEmployee):
		api.Fail(w, http.StatusNotFound, "employee_not_found", err.Error(), reqID)
	case errors.Is(err, worklog.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
	case errors.Is(err, worklog.ErrDuplicateEntry),
		errors.Is(err, worklog.ErrAlreadyClockedIn),
		errors.Is(err, worklog.ErrNoOpenEntry),
		errors.Is(err, worklog.ErrNotPending):
		api.Fail(w, http.StatusConflict, "conflict", err.Error(), reqID)
	case errors.Is(err, worklog.ErrInvalidKind),
		errors.Is(err, worklog.ErrInvalidState),
		errors.Is(err, worklog.ErrInvalidClock),
		errors.Is(err, worklog.ErrClockRequired),
		errors.Is(err, worklog.ErrDayOffClock),
		errors.Is(err, worklog.ErrReasonRequired),
		errors.Is(err, worklog.ErrDateRequired):
		api.Fail(w, http.StatusBadRequest, "invalid_worklog", err.Error(), reqID)
	default:
		slog.Error("work log request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "worklog_failed", "work log request failed", reqID)
	}
}
