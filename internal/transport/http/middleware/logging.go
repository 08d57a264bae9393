package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/httplog/v3"
)

// LogContext enriches the request log line written by httplog with the
// request id and, once Auth has run, the acting employee.
func LogContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		attrs := []slog.Attr{slog.String("requestId", GetRequestID(ctx))}
		if user, ok := GetUser(ctx); ok {
			attrs = append(attrs, slog.String("employeeId", user.EmployeeID), slog.String("role", user.Role))
		}
		httplog.SetAttrs(ctx, attrs...)
		next.ServeHTTP(w, r)
	})
}
