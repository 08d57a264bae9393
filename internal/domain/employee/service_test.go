package employee

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet/internal/domain/auth"
)

type memStore struct {
	profiles map[string]Profile
	hashes   map[string]string
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]Profile{}, hashes: map[string]string{}}
}

func (m *memStore) List(_ context.Context, includeHidden bool) ([]Profile, error) {
	var out []Profile
	for _, p := range m.profiles {
		if includeHidden || !p.Hidden {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (m *memStore) Create(_ context.Context, profile Profile, passwordHash string) (Profile, error) {
	for _, p := range m.profiles {
		if p.Email == profile.Email {
			return Profile{}, ErrEmailTaken
		}
	}
	profile.ID = fmt.Sprintf("emp-%d", len(m.profiles)+1)
	m.profiles[profile.ID] = profile
	m.hashes[profile.ID] = passwordHash
	return profile, nil
}

func (m *memStore) Update(_ context.Context, profile Profile) (Profile, error) {
	m.profiles[profile.ID] = profile
	return profile, nil
}

func (m *memStore) SetRole(_ context.Context, id, role string) (Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	p.Role = role
	m.profiles[id] = p
	return p, nil
}

var owner = auth.UserContext{EmployeeID: "s1", Role: auth.RoleSuper}

func TestCreateElevatedRoleRequiresSuper(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)
	admin := auth.UserContext{EmployeeID: "a1", Role: auth.RoleAdmin}

	_, err := svc.Create(ctx, admin, CreateInput{Name: "X", Email: "x@example.com", Password: "password1", Role: auth.RoleSuper})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Create(ctx, admin, CreateInput{Name: "Y", Email: "y@example.com", Password: "password1", Role: auth.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, store.profiles)

	profile, err := svc.Create(ctx, admin, CreateInput{Name: "Z", Email: "z@example.com", Password: "password1", Role: auth.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleEmployee, profile.Role)

	profile, err = svc.Create(ctx, owner, CreateInput{Name: "W", Email: "w@example.com", Password: "password1", Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, profile.Role)
}

func TestCreateHashesPassword(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)

	profile, err := svc.Create(context.Background(), owner, CreateInput{
		Name: "Kim", Email: " Kim@Example.com ", Password: "s3cret-pass", HourlyWage: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", profile.Email)
	assert.Equal(t, auth.RoleEmployee, profile.Role)
	assert.NotEqual(t, "s3cret-pass", store.hashes[profile.ID])
	assert.NoError(t, auth.CheckPassword(store.hashes[profile.ID], "s3cret-pass"))

	_, err = svc.Create(context.Background(), owner, CreateInput{Name: "Kim", Email: "kim@example.com", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, owner, CreateInput{Email: "a@b.c", Password: "password1"})
	assert.ErrorIs(t, err, ErrNameRequired)
	_, err = svc.Create(ctx, owner, CreateInput{Name: "A", Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	_, err = svc.Create(ctx, owner, CreateInput{Name: "A", Email: "a@b.c", Password: "password1", HourlyWage: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrNegativeWage)
	_, err = svc.Create(ctx, owner, CreateInput{Name: "A", Email: "a@b.c", Password: "password1", Role: "owner"})
	assert.ErrorIs(t, err, auth.ErrInvalidRole)
}

func TestUpdateAndHidden(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	profile, err := svc.Create(ctx, owner, CreateInput{Name: "Lee", Email: "lee@example.com", Password: "password1"})
	require.NoError(t, err)

	wage := decimal.NewFromInt(12000)
	hidden := true
	updated, err := svc.Update(ctx, profile.ID, UpdateInput{HourlyWage: &wage, Hidden: &hidden})
	require.NoError(t, err)
	assert.True(t, updated.HourlyWage.Equal(wage))
	assert.Equal(t, "Lee", updated.Name)

	visible, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAssignRole(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	profile, err := svc.Create(ctx, owner, CreateInput{Name: "Park", Email: "park@example.com", Password: "password1"})
	require.NoError(t, err)

	admin := auth.UserContext{EmployeeID: "root", Role: auth.RoleAdmin}
	_, err = svc.AssignRole(ctx, admin, profile.ID, auth.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	super := auth.UserContext{EmployeeID: "root", Role: auth.RoleSuper}
	_, err = svc.AssignRole(ctx, super, "root", auth.RoleEmployee)
	assert.ErrorIs(t, err, ErrSelfRoleChange)

	promoted, err := svc.AssignRole(ctx, super, profile.ID, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, promoted.Role)

	role, err := svc.CurrentRole(ctx, profile.ID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, role)
	_, err = svc.CurrentRole(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
