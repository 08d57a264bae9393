package employeehandler

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
	"timesheet/internal/domain/employee"
	"timesheet/internal/transport/http/middleware"
)

type fakeService struct {
	created []employee.CreateInput
	updates []employee.UpdateInput
	hidden  bool
}

func (f *fakeService) List(_ context.Context, includeHidden bool) ([]employee.Profile, error) {
	f.hidden = includeHidden
	return []employee.Profile{{ID: "e1", Name: "Kim"}}, nil
}

func (f *fakeService) Create(_ context.Context, actor auth.UserContext, in employee.CreateInput) (employee.Profile, error) {
	if in.Role != "" && in.Role != auth.RoleEmployee && actor.Role != auth.RoleSuper {
		return employee.Profile{}, employee.ErrForbidden
	}
	if in.Email == "taken@x.io" {
		return employee.Profile{}, employee.ErrEmailTaken
	}
	f.created = append(f.created, in)
	return employee.Profile{ID: "e2", Name: in.Name, Email: in.Email, HourlyWage: in.HourlyWage, Role: auth.RoleEmployee}, nil
}

func (f *fakeService) Update(_ context.Context, id string, in employee.UpdateInput) (employee.Profile, error) {
	f.updates = append(f.updates, in)
	return employee.Profile{ID: id}, nil
}

func (f *fakeService) AssignRole(_ context.Context, actor auth.UserContext, id, role string) (employee.Profile, error) {
	if actor.EmployeeID == id {
		return employee.Profile{}, employee.ErrSelfRoleChange
	}
	return employee.Profile{ID: id, Role: role}, nil
}

func serve(svc Service, actor auth.UserContext, method, path, body string) *httptest.ResponseRecorder {
	h := NewHandler(svc, auth.StaticPermissions{}, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUser(req.Context(), actor)))
		})
	})
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

var (
	admin = auth.UserContext{EmployeeID: "a1", Role: auth.RoleAdmin}
	super = auth.UserContext{EmployeeID: "s1", Role: auth.RoleSuper}
)

func TestListHonoursIncludeHidden(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, admin, http.MethodGet, "/employees/?includeHidden=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.hidden)

	rec = serve(svc, auth.UserContext{EmployeeID: "e1", Role: auth.RoleEmployee}, http.MethodGet, "/employees/", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateEmployee(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, admin, http.MethodPost, "/employees/", `{"name":"Lee","email":"lee@x.io","password":"longenough","hourlyWage":"9860"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.created, 1)
	assert.True(t, svc.created[0].HourlyWage.Equal(decimal.NewFromInt(9860)))

	rec = serve(svc, admin, http.MethodPost, "/employees/", `{"name":"Lee","email":"not-an-email","hourlyWage":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"email"`)
	assert.Contains(t, rec.Body.String(), `"field":"hourlyWage"`)

	rec = serve(svc, admin, http.MethodPost, "/employees/", `{"name":"Dup","email":"taken@x.io","password":"longenough"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateElevatedRoleForbiddenForAdmin(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, admin, http.MethodPost, "/employees/", `{"name":"Root","email":"root@x.io","password":"longenough","role":"super"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = serve(svc, admin, http.MethodPost, "/employees/", `{"name":"Boss","email":"boss@x.io","password":"longenough","role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, svc.created)

	rec = serve(svc, super, http.MethodPost, "/employees/", `{"name":"Boss","email":"boss@x.io","password":"longenough","role":"admin"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.created, 1)
	assert.Equal(t, auth.RoleAdmin, svc.created[0].Role)
}

func TestUpdateEmployeeWage(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, admin, http.MethodPut, "/employees/e1", `{"hourlyWage":12000,"hidden":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, svc.updates, 1)
	require.NotNil(t, svc.updates[0].HourlyWage)
	assert.True(t, svc.updates[0].HourlyWage.Equal(decimal.NewFromInt(12000)))
	assert.Nil(t, svc.updates[0].Name)
}

func TestAssignRole(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, admin, http.MethodPut, "/employees/e1/role", `{"role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(svc, super, http.MethodPut, "/employees/e1/role", `{"role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"admin"`)

	rec = serve(svc, super, http.MethodPut, "/employees/s1/role", `{"role":"employee"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(svc, super, http.MethodPut, "/employees/e1/role", `{"role":"owner"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
