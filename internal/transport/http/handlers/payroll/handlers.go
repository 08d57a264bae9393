package payrollhandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"timesheet/internal/domain/auth"
	"timesheet/internal/domain/deduction"
	"timesheet/internal/domain/employee"
	"timesheet/internal/domain/payroll"
	"timesheet/internal/domain/worklog"
	"timesheet/internal/transport/http/api"
	"timesheet/internal/transport/http/middleware"
	"timesheet/internal/transport/http/shared"
)

type Service interface {
	MonthlySummary(ctx context.Context, employeeID string, ref time.Time) (payroll.Summary, error)
	DayDetail(ctx context.Context, employeeID string, date time.Time) (payroll.DayDetail, error)
	Payslip(ctx context.Context, employeeID string, ref time.Time) (payroll.Document, error)
	Register(ctx context.Context, ref time.Time) (payroll.Document, error)
	Preview(entries []worklog.Entry, wage decimal.Decimal, rules []deduction.Rule, ref time.Time) payroll.Result
}

// Counter receives named events for generated documents and previews.
type Counter interface {
	Incr(name string)
}

type Handler struct {
	Service Service
	Perms   middleware.PermissionStore
	Events  Counter
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

type previewEntry struct {
	Date     string  `json:"date"`
	ClockIn  *string `json:"clockIn"`
	ClockOut *string `json:"clockOut"`
	Kind     string  `json:"kind"`
	State    string  `json:"state"`
}

type previewRule struct {
	Name   string        `json:"name"`
	Amount shared.Number `json:"amount"`
	Kind   string        `json:"kind"`
	Active *bool         `json:"active"`
}

type previewRequest struct {
	Month      string         `json:"month"`
	HourlyWage shared.Number  `json:"hourlyWage"`
	Entries    []previewEntry `json:"entries"`
	Deductions []previewRule  `json:"deductions"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	self := middleware.RequirePermission(auth.PermPayrollSelf, h.Perms)
	r.Route("/payroll", func(r chi.Router) {
		r.With(self).Get("/summary", h.handleSummary)
		r.With(self).Get("/day", h.handleDay)
		r.With(self).Get("/payslip", h.handlePayslip)
		r.With(self).Post("/preview", h.handlePreview)
		r.With(middleware.RequirePermission(auth.PermPayrollRead, h.Perms)).Get("/register", h.handleRegister)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	employeeID, period, ok := h.scope(w, r)
	if !ok {
		return
	}
	summary, err := h.Service.MonthlySummary(r.Context(), employeeID, period.Start)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDay(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	employeeID, ok := h.employee(w, r)
	if !ok {
		return
	}
	v := shared.NewValidator()
	v.Required("date", r.URL.Query().Get("date"), "is required")
	date := shared.QueryDate(r, "date", v)
	if v.Reject(w, reqID) {
		return
	}

	detail, err := h.Service.DayDetail(r.Context(), employeeID, date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, detail, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	employeeID, period, ok := h.scope(w, r)
	if !ok {
		return
	}
	doc, err := h.Service.Payslip(r.Context(), employeeID, period.Start)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.count("payslip_generated")
	api.Attachment(w, doc.ContentType, doc.Filename, doc.Content)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	period, ok := h.month(w, r)
	if !ok {
		return
	}
	doc, err := h.Service.Register(r.Context(), period.Start)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.count("register_generated")
	api.Attachment(w, doc.ContentType, doc.Filename, doc.Content)
}

// handlePreview computes pay over posted records without reading or writing storage.
func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	var payload previewRequest
	if !shared.DecodeJSON(w, r, &payload, reqID) {
		return
	}

	v := shared.NewValidator()
	period, err := payroll.ParseMonth(payload.Month, h.Now())
	if err != nil {
		v.Add("month", err.Error())
	}
	wage, _ := v.Decimal("hourlyWage", string(payload.HourlyWage))
	if wage.IsNegative() {
		v.Add("hourlyWage", "must not be negative")
	}

	entries := make([]worklog.Entry, 0, len(payload.Entries))
	for i, item := range payload.Entries {
		field := fmt.Sprintf("entries[%d]", i)
		entry, ok := item.entry(v, field)
		if ok {
			entries = append(entries, entry)
		}
	}
	rules := make([]deduction.Rule, 0, len(payload.Deductions))
	for i, item := range payload.Deductions {
		field := fmt.Sprintf("deductions[%d]", i)
		rule, ok := item.rule(v, field)
		if ok {
			rules = append(rules, rule)
		}
	}
	if v.Reject(w, reqID) {
		return
	}

	h.count("preview_computed")
	api.Success(w, h.Service.Preview(entries, wage, rules, period.Start), reqID)
}

func (h *Handler) count(name string) {
	if h.Events != nil {
		h.Events.Incr(name)
	}
}

func (p previewEntry) entry(v *shared.Validator, field string) (worklog.Entry, bool) {
	date, ok := v.Date(field+".date", p.Date)
	kind, err := worklog.ParseKind(p.Kind)
	if err != nil {
		v.Add(field+".kind", err.Error())
		ok = false
	}
	state := worklog.StateApproved
	if strings.TrimSpace(p.State) != "" {
		if state, err = worklog.ParseState(p.State); err != nil {
			v.Add(field+".state", err.Error())
			ok = false
		}
	}
	clockIn, inOK := normalize(v, field+".clockIn", p.ClockIn)
	clockOut, outOK := normalize(v, field+".clockOut", p.ClockOut)
	if !ok || !inOK || !outOK {
		return worklog.Entry{}, false
	}
	return worklog.Entry{Date: worklog.DateOf(date), ClockIn: clockIn, ClockOut: clockOut, Kind: kind, State: state}, true
}

func (p previewRule) rule(v *shared.Validator, field string) (deduction.Rule, bool) {
	amount, ok := v.Decimal(field+".amount", string(p.Amount))
	kind, err := deduction.ParseKind(p.Kind)
	if err != nil {
		v.Add(field+".kind", err.Error())
		return deduction.Rule{}, false
	}
	if !ok {
		return deduction.Rule{}, false
	}
	rule := deduction.Rule{Name: strings.TrimSpace(p.Name), Amount: amount, Kind: kind, Active: p.Active == nil || *p.Active}
	if err := rule.Validate(); err != nil {
		v.Add(field, err.Error())
		return deduction.Rule{}, false
	}
	return rule, true
}

func normalize(v *shared.Validator, field string, value *string) (*string, bool) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, true
	}
	clock, err := worklog.NormalizeClock(*value)
	if err != nil {
		v.Add(field, err.Error())
		return nil, false
	}
	return &clock, true
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (string, payroll.Period, bool) {
	employeeID, ok := h.employee(w, r)
	if !ok {
		return "", payroll.Period{}, false
	}
	period, ok := h.month(w, r)
	return employeeID, period, ok
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request) (payroll.Period, bool) {
	period, err := payroll.ParseMonth(r.URL.Query().Get("month"), h.Now())
	if err != nil {
		shared.FailValidation(w, middleware.GetRequestID(r.Context()), []shared.ValidationIssue{{Field: "month", Reason: err.Error()}})
		return payroll.Period{}, false
	}
	return period, true
}

// employee resolves whose pay is requested. Without payroll.read the caller
// only ever sees their own.
func (h *Handler) employee(w http.ResponseWriter, r *http.Request) (string, bool) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return "", false
	}
	requested := strings.TrimSpace(r.URL.Query().Get("employeeId"))
	if requested == "" || requested == user.EmployeeID {
		return user.EmployeeID, true
	}
	allowed, err := h.Perms.HasPermission(r.Context(), user.Role, auth.PermPayrollRead)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", reqID)
		return "", false
	}
	if !allowed {
		writeError(w, r, payroll.ErrForbidden)
		return "", false
	}
	return requested, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", err.Error(), reqID)
	case errors.Is(err, payroll.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", reqID)
	case errors.Is(err, payroll.ErrInvalidMonth):
		api.Fail(w, http.StatusBadRequest, "invalid_month", err.Error(), reqID)
	default:
		slog.Error("payroll request failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "payroll_failed", "payroll request failed", reqID)
	}
}
