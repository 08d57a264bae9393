package deductionhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain/auth"
	"timesheet/internal/domain/deduction"
	"timesheet/internal/transport/http/middleware"
)

type fakeService struct {
	rules  map[string]deduction.Rule
	inputs []deduction.Input
}

func newFake() *fakeService {
	return &fakeService{rules: map[string]deduction.Rule{
		"d1": {ID: "d1", EmployeeID: "e1", Name: "Meal", Amount: decimal.NewFromInt(30000), Kind: deduction.KindFixed, Active: true},
	}}
}

func (f *fakeService) List(_ context.Context, employeeID string) ([]deduction.Rule, error) {
	var out []deduction.Rule
	for _, rule := range f.rules {
		if rule.EmployeeID == employeeID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (f *fakeService) Create(_ context.Context, in deduction.Input) (deduction.Rule, error) {
	f.inputs = append(f.inputs, in)
	if in.EmployeeID == "ghost" {
		return deduction.Rule{}, deduction.ErrUnknownEmployee
	}
	rule := deduction.Rule{ID: "d2", EmployeeID: in.EmployeeID, Name: in.Name, Amount: in.Amount, Kind: in.Kind, Active: in.Active}
	f.rules[rule.ID] = rule
	return rule, nil
}

func (f *fakeService) Update(_ context.Context, id string, in deduction.Input) (deduction.Rule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return deduction.Rule{}, deduction.ErrNotFound
	}
	rule.Name, rule.Amount, rule.Kind, rule.Active = in.Name, in.Amount, in.Kind, in.Active
	f.rules[id] = rule
	return rule, nil
}

func (f *fakeService) Toggle(_ context.Context, id string) (deduction.Rule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return deduction.Rule{}, deduction.ErrNotFound
	}
	rule.Active = !rule.Active
	f.rules[id] = rule
	return rule, nil
}

func (f *fakeService) Delete(_ context.Context, id string) (deduction.Rule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return deduction.Rule{}, deduction.ErrNotFound
	}
	delete(f.rules, id)
	return rule, nil
}

func serve(svc Service, role, method, path, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, auth.StaticPermissions{}, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), auth.UserContext{EmployeeID: "admin", Role: role})))
		})
	})
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCreateAcceptsQuotedAndBareAmounts(t *testing.T) {
	svc := newFake()
	rec := serve(svc, auth.RoleAdmin, http.MethodPost, "/deductions/", `{"employeeId":"e1","name":"Pension","amount":"4.5","kind":"percentage"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(svc, auth.RoleAdmin, http.MethodPost, "/deductions/", `{"employeeId":"e1","name":"Union","amount":10000,"kind":"fixed","active":false}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.Len(t, svc.inputs, 2)
	assert.True(t, svc.inputs[0].Amount.Equal(decimal.RequireFromString("4.5")))
	assert.True(t, svc.inputs[0].Active)
	assert.False(t, svc.inputs[1].Active)
}

func TestCreateRejectsBadAmounts(t *testing.T) {
	cases := map[string]string{
		"non numeric":     `{"employeeId":"e1","name":"X","amount":"abc","kind":"fixed"}`,
		"negative":        `{"employeeId":"e1","name":"X","amount":-5,"kind":"fixed"}`,
		"percent too big": `{"employeeId":"e1","name":"X","amount":150,"kind":"percentage"}`,
		"unknown kind":    `{"employeeId":"e1","name":"X","amount":5,"kind":"weekly"}`,
		"missing name":    `{"employeeId":"e1","amount":5,"kind":"fixed"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newFake()
			rec := serve(svc, auth.RoleAdmin, http.MethodPost, "/deductions/", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "validation_error")
			assert.Empty(t, svc.inputs)
		})
	}
}

func TestToggleAndDelete(t *testing.T) {
	svc := newFake()
	rec := serve(svc, auth.RoleAdmin, http.MethodPost, "/deductions/d1/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.rules["d1"].Active)

	rec = serve(svc, auth.RoleAdmin, http.MethodDelete, "/deductions/d1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, svc.rules, "d1")

	rec = serve(svc, auth.RoleAdmin, http.MethodDelete, "/deductions/d1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeductionsForbiddenForEmployees(t *testing.T) {
	rec := serve(newFake(), auth.RoleEmployee, http.MethodGet, "/deductions/?employeeId=e1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(newFake(), auth.RoleAdmin, http.MethodGet, "/deductions/?employeeId=e1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Meal"`)
}

func TestCreateForUnknownEmployee(t *testing.T) {
	rec := serve(newFake(), auth.RoleAdmin, http.MethodPost, "/deductions/", `{"employeeId":"ghost","name":"Meal","amount":1000,"kind":"fixed"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "employee_not_found")
}
