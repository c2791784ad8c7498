// Package service composes the stores, token engine, hasher and event
// publisher into the five auth flows: signup, login, logout, rotate and
// revoke. Services are stateless between calls; all state lives in the
// stores and the tokens themselves.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/iliyamo/auth-service/internal/domain"
	"github.com/iliyamo/auth-service/internal/token"
)

// UserStore is the durable user repository contract.
type UserStore interface {
	Add(ctx context.Context, user *domain.User) error
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id domain.ID) error
	GetByID(ctx context.Context, id domain.ID) (*domain.User, error)
	GetByEmail(ctx context.Context, email domain.Email) (*domain.User, error)
	ExistsByID(ctx context.Context, id domain.ID) (bool, error)
	ExistsByEmail(ctx context.Context, email domain.Email) (bool, error)
}

// SessionStore is the cache-backed session repository contract.
type SessionStore interface {
	Add(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id, userID domain.ID) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Session, error)
	GetByUserID(ctx context.Context, userID domain.ID) ([]*domain.Session, error)
}

// Hasher is the opaque password-hashing capability.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// EventPublisher is the opaque, best-effort message-bus capability.
type EventPublisher interface {
	Publish(ctx context.Context, event string, data map[string]string) error
}

// TokenPair is what every credential-issuing flow returns. Refresh is empty
// when rotation decided no new refresh token was due.
type TokenPair struct {
	Access  string
	Refresh string
}

// Auth bundles the collaborators for the auth flows. Everything is injected;
// there are no package-level singletons.
type Auth struct {
	users    UserStore
	sessions SessionStore
	tokens   *token.Engine
	hasher   Hasher
	events   EventPublisher
	log      *slog.Logger
}

func NewAuth(users UserStore, sessions SessionStore, tokens *token.Engine, hasher Hasher, events EventPublisher, log *slog.Logger) *Auth {
	return &Auth{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		events:   events,
		log:      log,
	}
}

// publish fires an event and swallows the outcome. Event delivery is
// at-most-once; a broker failure never aborts the primary operation.
func (a *Auth) publish(ctx context.Context, event string, data map[string]string) {
	if a.events == nil {
		return
	}
	if err := a.events.Publish(ctx, event, data); err != nil {
		a.log.Warn("event publish failed", "event", event, "err", err)
	}
}

// refreshClaims holds the validated claim set of a presented refresh token.
type refreshClaims struct {
	userID    domain.ID
	sessionID domain.ID
	expiresAt domain.DateTime
}

// decodeRefresh decodes a refresh token and enforces the claim shape:
// sub, sid and type="refresh" must all be present. Expired tokens propagate
// domain.ErrExpiredToken; every other defect is domain.ErrInvalidToken.
func (a *Auth) decodeRefresh(raw string) (refreshClaims, error) {
	payload, err := a.tokens.Decode(raw)
	if err != nil {
		return refreshClaims{}, err
	}

	typ, _ := payload["type"].(string)
	sub, _ := payload["sub"].(string)
	sid, _ := payload["sid"].(string)
	exp, _ := payload["exp"].(float64)
	if typ != token.TypeRefresh || sub == "" || sid == "" || exp <= 0 {
		return refreshClaims{}, domain.ErrInvalidToken
	}

	userID, err := domain.ParseID(sub)
	if err != nil {
		return refreshClaims{}, domain.ErrInvalidToken
	}
	sessionID, err := domain.ParseID(sid)
	if err != nil {
		return refreshClaims{}, domain.ErrInvalidToken
	}
	expiresAt, err := domain.DateTimeFromUnix(exp)
	if err != nil {
		return refreshClaims{}, domain.ErrInvalidToken
	}
	return refreshClaims{userID: userID, sessionID: sessionID, expiresAt: expiresAt}, nil
}

// resolveOwnedSession loads the user named by the token's sub and a session,
// and verifies the session belongs to that user. Any mismatch — unknown
// user, unknown session, foreign session — collapses into
// domain.ErrInvalidToken so a caller cannot probe which part failed.
// Storage failures keep their own error type.
func (a *Auth) resolveOwnedSession(ctx context.Context, userID, sessionID domain.ID) (*domain.User, *domain.Session, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidToken
		}
		return nil, nil, err
	}

	session, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionDoesNotExist) {
			return nil, nil, domain.ErrInvalidToken
		}
		return nil, nil, err
	}

	if session.UserID != user.ID {
		return nil, nil, domain.ErrInvalidToken
	}
	return user, session, nil
}
