package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-listing/internal/auth"
	"github.com/iliyamo/hotel-listing/internal/queue"
	"github.com/iliyamo/hotel-listing/internal/service/audit"
)

// AuthHandler exposes registration, login and the refresh exchange.  The
// manager owns all decisions; this layer only binds payloads and maps the
// nil-means-rejected results onto HTTP statuses.
type AuthHandler struct {
	Manager *auth.Manager
}

func NewAuthHandler(m *auth.Manager) *AuthHandler {
	return &AuthHandler{Manager: m}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user account.  Policy violations (weak password,
// duplicate email) come back as a 400 with the full error list.
func (h *AuthHandler) Register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	verrs, err := h.Manager.Register(ctx, req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	if len(verrs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": verrs})
	}

	// Best effort; registration does not depend on the broker.
	_ = audit.Publish(ctx, queue.AuthEvent{
		Action: queue.ActionRegistered,
		Email:  req.Email,
		At:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusCreated)
}

// Login exchanges credentials for a token pair.  Unknown email and wrong
// password produce the same 401.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.Manager.Login(ctx, req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if resp == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	_ = audit.Publish(ctx, queue.AuthEvent{
		Action: queue.ActionLoggedIn,
		UserID: resp.UserID,
		Email:  req.Email,
		At:     time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new token pair.  Every rejection
// reason collapses into the same 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req auth.RefreshRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.Manager.VerifyRefreshToken(ctx, req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}
	if resp == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	return c.JSON(http.StatusOK, resp)
}
