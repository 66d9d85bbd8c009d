package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CallerIDKey is where the authenticated caller identity lands in the echo
// context. The identity provider in front of this service verifies the
// token and forwards the opaque user id in X-User-ID; the core trusts that
// header, nothing else.
const CallerIDKey = "caller_id"

const identityHeader = "X-User-ID"

func CallerIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		callerID := c.Request().Header.Get(identityHeader)
		if callerID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing caller identity"})
		}
		c.Set(CallerIDKey, callerID)
		return next(c)
	}
}

// CallerID extracts the identity set by CallerIdentity.
func CallerID(c echo.Context) string {
	id, _ := c.Get(CallerIDKey).(string)
	return id
}
