package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"timesheet/internal/domain/auth"
	"timesheet/internal/transport/http/api"
)

// RoleSource resolves an employee's current role from storage.
type RoleSource interface {
	CurrentRole(ctx context.Context, employeeID string) (string, error)
}

type AuthOption func(*authConfig)

type authConfig struct {
	roles RoleSource
}

// WithRoleSource makes Auth trust the stored role over the token claim, so a
// role change applies to tokens already issued.
func WithRoleSource(src RoleSource) AuthOption {
	return func(c *authConfig) {
		c.roles = src
	}
}

// Auth attaches the bearer token's actor to the request when the token is
// valid. Requests without a usable token pass through anonymously.
func Auth(secret string, opts ...AuthOption) func(http.Handler) http.Handler {
	cfg := authConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			role := claims.Role
			if cfg.roles != nil {
				current, err := cfg.roles.CurrentRole(r.Context(), claims.EmployeeID)
				if err != nil {
					slog.Warn("token subject rejected", "employeeId", claims.EmployeeID, "err", err)
					next.ServeHTTP(w, r)
					return
				}
				role = current
			}

			ctx := WithUser(r.Context(), auth.UserContext{
				EmployeeID: claims.EmployeeID,
				Email:      claims.Email,
				Role:       role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
