package auth

import (
	"errors"
	"strings"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
	RoleSuper    = "super"
)

var ErrInvalidRole = errors.New("invalid role")

var landingPaths = map[string]string{
	RoleEmployee: "/timesheet",
	RoleAdmin:    "/admin",
	RoleSuper:    "/super",
}

func ParseRole(value string) (string, error) {
	role := strings.ToLower(strings.TrimSpace(value))
	if _, ok := landingPaths[role]; !ok {
		return "", ErrInvalidRole
	}
	return role, nil
}

// IsAdmin reports whether role may act on other employees' records.
func IsAdmin(role string) bool {
	return Can(role, PermWorklogManage)
}

// LandingPath is where the front-end sends a user after sign-in.
func LandingPath(role string) string {
	if path, ok := landingPaths[role]; ok {
		return path
	}
	return "/login"
}

// UserContext is the authenticated actor carried on the request context.
type UserContext struct {
	EmployeeID string
	Email      string
	Role       string
}

func (u UserContext) IsAdmin() bool {
	return IsAdmin(u.Role)
}
