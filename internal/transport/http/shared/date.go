package shared

import (
	"net/http"
	"strings"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// QueryDate reads an optional date query parameter; absent yields the zero time.
func QueryDate(r *http.Request, key string, v *Validator) time.Time {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return time.Time{}
	}
	parsed, ok := v.Date(key, raw)
	if !ok {
		return time.Time{}
	}
	return parsed
}
