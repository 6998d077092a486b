package middleware

// identity.go holds helpers for reading claims that JWTAuth stored in
// the request context. JWT numeric claims decode as float64, and some
// issuers encode the subject as a string, so both shapes are handled.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// UserIDFromContext extracts the authenticated user's id from the
// context. The second return value is false when no usable subject
// claim is present.
func UserIDFromContext(c echo.Context) (uint64, bool) {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case string:
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
