package employeehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"timesheet/internal/domain/audit"
	"timesheet/internal/domain/auth"
	"timesheet/internal/domain/employee"
	"timesheet/internal/transport/http/api"
	"timesheet/internal/transport/http/middleware"
	"timesheet/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, includeHidden bool) ([]employee.Profile, error)
	Create(ctx context.Context, actor auth.UserContext, in employee.CreateInput) (employee.Profile, error)
	Update(ctx context.Context, id string, in employee.UpdateInput) (employee.Profile, error)
	AssignRole(ctx context.Context, actor auth.UserContext, id, role string) (employee.Profile, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service Service, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

type createRequest struct {
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Password   string        `json:"password"`
	Role       string        `json:"role"`
	HourlyWage shared.Number `json:"hourlyWage"`
}

type updateRequest struct {
	Name       *string        `json:"name"`
	HourlyWage *shared.Number `json:"hourlyWage"`
	Hidden     *bool          `json:"hidden"`
}

type roleRequest struct {
	Role string `json:"role"`
}

var roles = []string{auth.RoleEmployee, auth.RoleAdmin, auth.RoleSuper}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermRolesAssign, h.Perms)).Put("/{id}/role", h.handleAssignRole)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	includeHidden := r.URL.Query().Get("includeHidden") == "true"
	profiles, err := h.Service.List(r.Context(), includeHidden)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []employee.Profile{}
	}
	api.Success(w, profiles, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload createRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "is required")
	v.Required("email", payload.Email, "is required")
	if payload.Email != "" && !strings.Contains(payload.Email, "@") {
		v.Add("email", "must be an email address")
	}
	v.Enum("role", payload.Role, roles, "must be employee, admin or super")
	wage := decimal.Zero
	if payload.HourlyWage != "" {
		wage, _ = v.Decimal("hourlyWage", string(payload.HourlyWage))
		if wage.IsNegative() {
			v.Add("hourlyWage", "must not be negative")
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	profile, err := h.Service.Create(r.Context(), user, employee.CreateInput{
		Name:       payload.Name,
		Email:      payload.Email,
		Password:   payload.Password,
		Role:       payload.Role,
		HourlyWage: wage,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "employee.create", profile.ID, nil, profile)
	api.Created(w, profile, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload updateRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	in := employee.UpdateInput{Name: payload.Name, Hidden: payload.Hidden}
	v := shared.NewValidator()
	if payload.Name != nil {
		v.Required("name", *payload.Name, "must not be blank")
	}
	if payload.HourlyWage != nil {
		if wage, ok := v.Decimal("hourlyWage", string(*payload.HourlyWage)); ok {
			if wage.IsNegative() {
				v.Add("hourlyWage", "must not be negative")
			}
			in.HourlyWage = &wage
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	profile, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "employee.update", profile.ID, nil, profile)
	api.Success(w, profile, reqID)
}

func (h *Handler) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	var payload roleRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	v := shared.NewValidator()
	v.Required("role", payload.Role, "is required")
	v.Enum("role", payload.Role, roles, "must be employee, admin or super")
	if v.Reject(w, reqID) {
		return
	}

	profile, err := h.Service.AssignRole(r.Context(), user, chi.URLParam(r, "id"), payload.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "employee.role", profile.ID, nil, map[string]string{"role": profile.Role})
	api.Success(w, profile, reqID)
}

func (h *Handler) record(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.EmployeeID, action, "employee", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, employee.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", err.Error(), reqID)
	case errors.Is(err, employee.ErrForbidden), errors.Is(err, employee.ErrSelfRoleChange):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), reqID)
	case errors.Is(err, employee.ErrNameRequired),
		errors.Is(err, employee.ErrEmailRequired),
		errors.Is(err, employee.ErrPasswordTooShort),
		errors.Is(err, employee.ErrNegativeWage),
		errors.Is(err, auth.ErrInvalidRole):
		api.Fail(w, http.StatusBadRequest, "invalid_employee", err.Error(), reqID)
	default:
		slog.Error("employee request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_failed", "employee request failed", reqID)
	}
}
