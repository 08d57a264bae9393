package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "secret-pass"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("s3cret", Claims{EmployeeID: "e1", Email: "a@example.com", Role: RoleAdmin}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "e1", claims.EmployeeID)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("s3cret", Claims{EmployeeID: "e1", Role: RoleEmployee}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("s3cret", token)
	assert.Error(t, err)
}

func TestRolePermissions(t *testing.T) {
	assert.True(t, Can(RoleEmployee, PermWorklogSelf))
	assert.False(t, Can(RoleEmployee, PermWorklogApprove))
	assert.True(t, Can(RoleAdmin, PermWorklogApprove))
	assert.False(t, Can(RoleAdmin, PermRolesAssign))
	assert.True(t, Can(RoleSuper, PermRolesAssign))
	assert.True(t, Can(RoleSuper, PermDeductionsWrite))
	assert.False(t, Can("intruder", PermWorklogSelf))
}

func TestIsAdminFollowsWorklogManage(t *testing.T) {
	for role := range RolePermissions {
		assert.Equal(t, Can(role, PermWorklogManage), IsAdmin(role), role)
	}
	assert.False(t, IsAdmin(RoleEmployee))
	assert.True(t, IsAdmin(RoleAdmin))
	assert.True(t, IsAdmin(RoleSuper))
	assert.False(t, UserContext{Role: "intruder"}.IsAdmin())
}

func TestParseRoleAndLanding(t *testing.T) {
	role, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)

	assert.Equal(t, "/timesheet", LandingPath(RoleEmployee))
	assert.Equal(t, "/admin", LandingPath(RoleAdmin))
	assert.Equal(t, "/super", LandingPath(RoleSuper))
	assert.Equal(t, "/login", LandingPath(""))
}

type fakeStore struct {
	users     map[string]AuthUser
	lastLogin []string
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (AuthUser, error) {
	user, ok := f.users[email]
	if !ok {
		return AuthUser{}, errors.New("no rows")
	}
	return user, nil
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, employeeID string) error {
	f.lastLogin = append(f.lastLogin, employeeID)
	return nil
}

func TestLogin(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	store := &fakeStore{users: map[string]AuthUser{
		"boss@example.com": {ID: "e9", Name: "Boss", Email: "boss@example.com", Role: RoleSuper, Password: hash},
	}}
	svc := NewService(store, "secret", time.Hour)

	result, err := svc.Login(context.Background(), "boss@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "/super", result.Landing)
	assert.Equal(t, []string{"e9"}, store.lastLogin)

	claims, err := ParseToken("secret", result.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleSuper, claims.Role)

	_, err = svc.Login(context.Background(), "boss@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
