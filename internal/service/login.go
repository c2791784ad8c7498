package service

import (
	"context"
	"errors"

	"github.com/iliyamo/auth-service/internal/domain"
	"github.com/iliyamo/auth-service/internal/queue"
)

// Login authenticates by email + password + username and opens a new
// session. Every mismatch is reported as domain.ErrAuthenticationFailed;
// the caller cannot tell which check rejected it.
func (a *Auth) Login(ctx context.Context, username, email, password, device string) (TokenPair, error) {
	addr, err := domain.NewEmail(email)
	if err != nil {
		return TokenPair{}, err
	}
	dev, err := domain.NewDevice(device)
	if err != nil {
		return TokenPair{}, err
	}

	user, err := a.users.GetByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return TokenPair{}, domain.ErrAuthenticationFailed
		}
		return TokenPair{}, err
	}
	if !a.hasher.Verify(password, user.Password.Value()) {
		return TokenPair{}, domain.ErrAuthenticationFailed
	}
	// A stolen-but-valid password presented with the wrong username still fails.
	if user.Username.Value() != username {
		return TokenPair{}, domain.ErrAuthenticationFailed
	}

	session := domain.NewSession(user.ID, dev)
	if err := a.sessions.Add(ctx, session); err != nil {
		return TokenPair{}, err
	}

	a.publish(ctx, queue.EventUserLoggedIn, map[string]string{
		"id":         user.ID.Value(),
		"username":   user.Username.Value(),
		"device":     session.Device.Value(),
		"session_id": session.ID.Value(),
	})

	pair, err := a.mintPair(user, session.ID)
	if err != nil {
		return TokenPair{}, err
	}

	a.log.Info("login completed", "user_id", user.ID.Value(), "session_id", session.ID.Value())
	return pair, nil
}
