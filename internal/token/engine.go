// Package token mints and validates the access/refresh JWT pair. Tokens are
// opaque bearer credentials everywhere else; only this package and the
// orchestration services look at claims.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/auth-service/internal/domain"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Engine signs and verifies HS256 tokens with a process-wide shared secret.
type Engine struct {
	secret          []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	rotateThreshold time.Duration
	now             func() time.Time
}

// NewEngine builds an engine from the configured lifetimes.
func NewEngine(secret string, accessTTLMin, refreshTTLDays, rotateThresholdDays int) *Engine {
	return &Engine{
		secret:          []byte(secret),
		accessTTL:       time.Duration(accessTTLMin) * time.Minute,
		refreshTTL:      time.Duration(refreshTTLDays) * 24 * time.Hour,
		rotateThreshold: time.Duration(rotateThresholdDays) * 24 * time.Hour,
		now:             time.Now,
	}
}

// RefreshTTL is the refresh-token lifetime; the session store TTL tracks it.
func (e *Engine) RefreshTTL() time.Duration { return e.refreshTTL }

// AccessTTL is the access-token lifetime.
func (e *Engine) AccessTTL() time.Duration { return e.accessTTL }

// CreateAccessToken signs a short-lived token carrying the user identity.
func (e *Engine) CreateAccessToken(userID domain.ID, username domain.Username) (string, error) {
	exp := e.now().UTC().Add(e.accessTTL)
	claims := jwt.MapClaims{
		"sub":      userID.Value(),
		"username": username.Value(),
		"exp":      exp.Unix(),
		"type":     TypeAccess,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// CreateRefreshToken signs a long-lived token bound to a session id.
func (e *Engine) CreateRefreshToken(userID domain.ID, username domain.Username, sessionID domain.ID) (string, error) {
	exp := e.now().UTC().Add(e.refreshTTL)
	claims := jwt.MapClaims{
		"sub":      userID.Value(),
		"username": username.Value(),
		"sid":      sessionID.Value(),
		"exp":      exp.Unix(),
		"type":     TypeRefresh,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.secret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and returns the raw claims. An
// expired token yields domain.ErrExpiredToken; every other malformation
// (bad signature, wrong algorithm, garbage input) yields domain.ErrInvalidToken.
func (e *Engine) Decode(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return e.secret, nil
	}, jwt.WithTimeFunc(e.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// ShouldRotate reports whether a refresh token whose expiry is exp is close
// enough to expiring that a replacement must be issued. It is a pure
// function of the expiry timestamp; no token decoding is involved. The
// boundary case (exactly the threshold away) rotates.
func (e *Engine) ShouldRotate(exp domain.DateTime) bool {
	return exp.Value().Sub(e.now().UTC()) <= e.rotateThreshold
}
