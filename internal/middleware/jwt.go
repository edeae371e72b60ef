package middleware // middleware provides reusable HTTP middleware for protected routes

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing/internal/token"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// via the signer (signature, expiry, issuer and audience) and injects the
// subject and role claims into the request context.  Handlers read them
// with c.Get("subject") and c.Get("roles").
func JWTAuth(signer *token.Signer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := signer.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("subject", claims["sub"])
			c.Set("roles", roleValues(claims[token.RoleClaim]))
			return next(c)
		}
	}
}

// roleValues normalizes the role claim: a single role arrives as a string,
// several as a JSON array.
func roleValues(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
