package deductionhandler

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
	"timesheet/internal/domain/deduction"
	"timesheet/internal/transport/http/api"
	"timesheet/internal/transport/http/middleware"
	"timesheet/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, employeeID string) ([]deduction.Rule, error)
	Create(ctx context.Context, in deduction.Input) (deduction.Rule, error)
	Update(ctx context.Context, id string, in deduction.Input) (deduction.Rule, error)
	Toggle(ctx context.Context, id string) (deduction.Rule, error)
	Delete(ctx context.Context, id string) (deduction.Rule, error)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Audit   audit.Recorder
}

func NewHandler(service Service, perms middleware.PermissionStore, recorder audit.Recorder) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: recorder}
}

type ruleRequest struct {
	EmployeeID string        `json:"employeeId"`
	Name       string        `json:"name"`
	Amount     shared.Number `json:"amount"`
	Kind       string        `json:"kind"`
	Active     *bool         `json:"active"`
}

var (
	maxPercent = decimal.NewFromInt(100)
	kinds      = []string{string(deduction.KindFixed), string(deduction.KindPercentage)}
)

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermDeductionsRead, h.Perms)
	write := middleware.RequirePermission(auth.PermDeductionsWrite, h.Perms)
	r.Route("/deductions", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(write).Post("/", h.handleCreate)
		r.With(write).Put("/{id}", h.handleUpdate)
		r.With(write).Delete("/{id}", h.handleDelete)
		r.With(write).Post("/{id}/toggle", h.handleToggle)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if employeeID == "" {
		shared.FailValidation(w, reqID, []shared.ValidationIssue{{Field: "employeeId", Reason: "is required"}})
		return
	}
	rules, err := h.Service.List(r.Context(), employeeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, rules, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload ruleRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	in, ok := payload.input(w, reqID, true)
	if !ok {
		return
	}
	rule, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "deduction.create", rule.ID, nil, rule)
	api.Created(w, rule, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload ruleRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}
	in, ok := payload.input(w, reqID, false)
	if !ok {
		return
	}
	rule, err := h.Service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "deduction.update", rule.ID, nil, rule)
	api.Success(w, rule, reqID)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	rule, err := h.Service.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "deduction.toggle", rule.ID, nil, map[string]bool{"active": rule.Active})
	api.Success(w, rule, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rule, err := h.Service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "deduction.delete", rule.ID, rule, nil)
	api.Success(w, map[string]string{"id": rule.ID}, middleware.GetRequestID(r.Context()))
}

// input rejects non-numeric amounts and out-of-range percentages before the
// service sees them.
func (p ruleRequest) input(w http.ResponseWriter, reqID string, create bool) (deduction.Input, bool) {
	v := shared.NewValidator()
	if create {
		v.Required("employeeId", p.EmployeeID, "is required")
	}
	v.Required("name", p.Name, "is required")
	v.Required("kind", p.Kind, "is required")
	v.Enum("kind", p.Kind, kinds, "must be fixed or percentage")

	amount, ok := v.Decimal("amount", string(p.Amount))
	if ok {
		if amount.IsNegative() {
			v.Add("amount", "must not be negative")
		} else if strings.EqualFold(strings.TrimSpace(p.Kind), string(deduction.KindPercentage)) {
			v.DecimalRange("amount", amount, decimal.Zero, maxPercent)
		}
	}
	if v.Reject(w, reqID) {
		return deduction.Input{}, false
	}

	kind, _ := deduction.ParseKind(p.Kind)
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return deduction.Input{
		EmployeeID: strings.TrimSpace(p.EmployeeID),
		Name:       p.Name,
		Amount:     amount,
		Kind:       kind,
		Active:     active,
	}, true
}

func (h *Handler) record(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), user.EmployeeID, action, "deduction", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, deduction.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, deduction.ErrUnknownEmployee):
		api.Fail(w, http.StatusNotFound, "employee_not_found", err.Error(), reqID)
	case errors.Is(err, deduction.ErrInvalidKind),
		errors.Is(err, deduction.ErrNameRequired),
		errors.Is(err, deduction.ErrNegativeAmount),
		errors.Is(err, deduction.ErrPercentageRange),
		errors.Is(err, deduction.ErrEmployeeMissing):
		api.Fail(w, http.StatusBadRequest, "invalid_deduction", err.Error(), reqID)
	default:
		slog.Error("deduction request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "deduction_failed", "deduction request failed", reqID)
	}
}
