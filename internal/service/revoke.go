package service

import (
	"context"
	"errors"

	"github.com/iliyamo/auth-service/internal/domain"
)

// Revoke force-terminates one explicitly named session, for "kill this
// session" flows. The presented refresh token authenticates the caller; the
// target session id is an independent input and must belong to the same
// user, so a valid token can never revoke someone else's session. Any
// mismatch reports domain.ErrInvalidToken without revealing which side
// failed.
func (a *Auth) Revoke(ctx context.Context, refreshToken, sessionID string) error {
	claims, err := a.decodeRefresh(refreshToken)
	if err != nil {
		return err
	}

	targetID, err := domain.ParseID(sessionID)
	if err != nil {
		return &domain.ValidationError{Field: "session_id", Reason: "must be a non-empty string"}
	}

	user, err := a.users.GetByID(ctx, claims.userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return err
	}

	target, err := a.sessions.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionDoesNotExist) {
			return domain.ErrInvalidToken
		}
		return err
	}
	if target.UserID != user.ID {
		return domain.ErrInvalidToken
	}

	if err := a.sessions.Delete(ctx, target.ID, target.UserID); err != nil {
		return err
	}

	a.log.Info("session revoked", "user_id", user.ID.Value(), "session_id", target.ID.Value())
	return nil
}
