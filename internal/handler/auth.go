package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/domain"
	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/token"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth   *service.Auth
	Tokens *token.Engine
	Log    *slog.Logger
}

func NewAuthHandler(auth *service.Auth, tokens *token.Engine, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Tokens: tokens, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type revokeReq struct {
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
}

type sessionPart struct {
	ID        string `json:"id"`
	Device    string `json:"device"`
	CreatedAt string `json:"created_at"`
}

// Signup: create the account, open a session and return a token pair.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Signup(ctx, req.Username, req.Email, req.Password, deviceFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	return respondTokens(c, http.StatusCreated, pair, h.Tokens)
}

// Login: verify credentials, open a session and return a token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Username, req.Email, req.Password, deviceFrom(c))
	if err != nil {
		return h.fail(c, err)
	}
	return respondTokens(c, http.StatusOK, pair, h.Tokens)
}

// Logout: close the session the refresh token is bound to.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := refreshTokenFrom(c)
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Logout(ctx, raw); err != nil {
		return h.fail(c, err)
	}
	clearTokenCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// Refresh: exchange a refresh token for a new access token, rotating the
// session. A new refresh token is included only when the old one is close to
// expiring.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := refreshTokenFrom(c)
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, err := h.Auth.Rotate(ctx, raw)
	if err != nil {
		return h.fail(c, err)
	}
	return respondTokens(c, http.StatusOK, pair, h.Tokens)
}

// Revoke: close an arbitrary session owned by the caller, identified by its
// session id. Used to remotely log out another device.
func (h *AuthHandler) Revoke(c echo.Context) error {
	var req revokeReq
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		if ck, err := c.Cookie(refreshCookie); err == nil {
			raw = ck.Value
		}
	}
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Auth.Revoke(ctx, raw, req.SessionID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Sessions: list the caller's active sessions (protected).
func (h *AuthHandler) Sessions(c echo.Context) error {
	userID, err := contextUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sessions, err := h.Auth.Sessions(ctx, userID)
	if err != nil {
		return h.fail(c, err)
	}
	out := make([]sessionPart, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionPart{
			ID:        s.ID.Value(),
			Device:    s.Device.Value(),
			CreatedAt: s.CreatedAt.String(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": out})
}

// Me: return the authenticated user's account (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := contextUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Auth.Profile(ctx, userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":       user.ID.Value(),
		"username": user.Username.Value(),
		"email":    user.Email.Value(),
	})
}

// fail maps service errors onto HTTP responses. Authentication failures all
// collapse to the same 401 body so callers cannot probe which part of the
// credentials was wrong.
func (h *AuthHandler) fail(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
	case errors.Is(err, domain.ErrAuthenticationFailed),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrSessionDoesNotExist):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	default:
		h.Log.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// refreshTokenFrom pulls the refresh token from the JSON body, falling back
// to the refresh cookie set for browser clients.
func refreshTokenFrom(c echo.Context) string {
	var req refreshReq
	_ = c.Bind(&req)
	if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
		return raw
	}
	if ck, err := c.Cookie(refreshCookie); err == nil {
		return ck.Value
	}
	return ""
}

// deviceFrom labels the session with the client's User-Agent.
func deviceFrom(c echo.Context) string {
	if ua := strings.TrimSpace(c.Request().UserAgent()); ua != "" {
		return ua
	}
	return "unknown"
}

// contextUserID reads the user id stored in context by the JWT middleware.
func contextUserID(c echo.Context) (domain.ID, error) {
	raw, _ := c.Get("user_id").(string)
	return domain.ParseID(raw)
}
