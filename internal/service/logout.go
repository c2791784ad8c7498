package service

import (
	"context"

	"github.com/iliyamo/auth-service/internal/queue"
)

// Logout ends the session embedded in the presented refresh token. The
// token must decode, carry the refresh claim set, and reference a session
// owned by the token's subject.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	claims, err := a.decodeRefresh(refreshToken)
	if err != nil {
		return err
	}

	user, session, err := a.resolveOwnedSession(ctx, claims.userID, claims.sessionID)
	if err != nil {
		return err
	}

	if err := a.sessions.Delete(ctx, session.ID, session.UserID); err != nil {
		return err
	}

	a.publish(ctx, queue.EventUserLoggedOut, map[string]string{
		"id":         user.ID.Value(),
		"username":   user.Username.Value(),
		"device":     session.Device.Value(),
		"session_id": session.ID.Value(),
	})

	a.log.Info("logout completed", "user_id", user.ID.Value(), "session_id", session.ID.Value())
	return nil
}
