package reportshandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timesheet/internal/domain/auth"
	"timesheet/internal/domain/payroll"
	"timesheet/internal/domain/reports"
	"timesheet/internal/transport/http/api"
	"timesheet/internal/transport/http/middleware"
	"timesheet/internal/transport/http/shared"
)

type Service interface {
	Dashboard(ctx context.Context, ref, today time.Time) (reports.Dashboard, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Now     func() time.Time
}

func NewHandler(service Service, perms middleware.PermissionStore, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		Service: service,
		Perms:   perms,
		Now:     func() time.Time { return time.Now().In(loc) },
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/dashboard", h.handleDashboard)
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	now := h.Now()
	period, err := payroll.ParseMonth(r.URL.Query().Get("month"), now)
	if err != nil {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "month", Reason: err.Error()}})
		return
	}

	dashboard, err := h.Service.Dashboard(r.Context(), period.Start, now)
	if err != nil {
		slog.Error("dashboard failed", "month", period.Label, "err", err)
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", reqID)
		return
	}
	api.Success(w, dashboard, reqID)
}
