package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-listing/internal/token"
)

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func run(mw echo.MiddlewareFunc, req *http.Request) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(okHandler)(c)
	return rec
}

func TestJWTAuthMissingHeader(t *testing.T) {
	signer := token.NewSigner("s", "iss", "aud", 2*24*60)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := run(JWTAuth(signer), req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidTokenInjectsClaims(t *testing.T) {
	signer := token.NewSigner("s", "iss", "aud", 2*24*60)
	raw, err := signer.Issue("a@x.com", nil, []string{"User", "Administrator"})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var subject any
	var roles []string
	next := func(c echo.Context) error {
		subject = c.Get("subject")
		roles, _ = c.Get("roles").([]string)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(signer)(next)(c))
	require.Equal(t, "a@x.com", subject)
	require.Equal(t, []string{"User", "Administrator"}, roles)
}

func TestJWTAuthRejectsForeignSignature(t *testing.T) {
	signer := token.NewSigner("s", "iss", "aud", 2*24*60)
	other := token.NewSigner("different", "iss", "aud", 2*24*60)
	raw, err := other.Issue("a@x.com", nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := run(JWTAuth(signer), req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleAllows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("roles", []string{"User", "Administrator"})

	require.NoError(t, RequireRole("Administrator")(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbids(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("roles", []string{"User"})

	require.NoError(t, RequireRole("Administrator")(okHandler)(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleMissingRoles(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, RequireRole("Administrator")(okHandler)(c))
	require.Equal(t, http.StatusForbidden, rec.Code)
}
