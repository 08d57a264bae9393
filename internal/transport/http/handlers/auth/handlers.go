package authhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timesheet/internal/domain/audit"
	"timesheet/internal/domain/auth"
	"timesheet/internal/domain/employee"
	"timesheet/internal/transport/http/api"
	"timesheet/internal/transport/http/middleware"
	"timesheet/internal/transport/http/shared"
)

type LoginService interface {
	Login(ctx context.Context, email, password string) (auth.LoginResult, error)
}

type ProfileSource interface {
	Get(ctx context.Context, id string) (employee.Profile, error)
}

type Handler struct {
	Auth     LoginService
	Profiles ProfileSource
	Audit    audit.Recorder
}

func NewHandler(service LoginService, profiles ProfileSource, recorder audit.Recorder) *Handler {
	return &Handler{Auth: service, Profiles: profiles, Audit: recorder}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	employee.Profile
	Landing     string   `json:"landing"`
	Permissions []string `json:"permissions"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.With(middleware.RequireAuth).Get("/me", h.handleMe)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	result, err := h.Auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", reqID)
			return
		}
		slog.Error("login failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", reqID)
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), result.User.ID, "auth.login", "employee", result.User.ID, reqID, shared.ClientIP(r), nil, nil); err != nil {
			slog.Warn("audit auth.login failed", "err", err)
		}
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	profile, err := h.Profiles.Get(r.Context(), user.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "profile_failed", "failed to load profile", reqID)
		return
	}

	api.Success(w, meResponse{
		Profile:     profile,
		Landing:     auth.LandingPath(profile.Role),
		Permissions: auth.PermissionsFor(profile.Role),
	}, reqID)
}
