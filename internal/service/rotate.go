package service

import (
	"context"

	"github.com/iliyamo/auth-service/internal/domain"
)

// Rotate exchanges a refresh token for a fresh access token and, when the
// presented token is inside the rotation threshold, a fresh refresh token.
//
// The session is replaced unconditionally: the old record is deleted and a
// new one (new id, fresh created_at) is created for the same user and
// device. The presented token stops resolving either way; a replacement
// refresh token is only minted once the old one is close to expiry.
func (a *Auth) Rotate(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := a.decodeRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	user, oldSession, err := a.resolveOwnedSession(ctx, claims.userID, claims.sessionID)
	if err != nil {
		return TokenPair{}, err
	}

	if err := a.sessions.Delete(ctx, oldSession.ID, oldSession.UserID); err != nil {
		return TokenPair{}, err
	}
	newSession := domain.NewSession(user.ID, oldSession.Device)
	if err := a.sessions.Add(ctx, newSession); err != nil {
		return TokenPair{}, err
	}

	access, err := a.tokens.CreateAccessToken(user.ID, user.Username)
	if err != nil {
		return TokenPair{}, err
	}

	pair := TokenPair{Access: access}
	if a.tokens.ShouldRotate(claims.expiresAt) {
		refresh, err := a.tokens.CreateRefreshToken(user.ID, user.Username, newSession.ID)
		if err != nil {
			return TokenPair{}, err
		}
		pair.Refresh = refresh
	}

	a.log.Info("rotation completed",
		"user_id", user.ID.Value(),
		"old_session_id", oldSession.ID.Value(),
		"new_session_id", newSession.ID.Value(),
		"refresh_rotated", pair.Refresh != "")
	return pair, nil
}
