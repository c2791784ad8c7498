package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/auth-service/internal/domain"
	"github.com/iliyamo/auth-service/internal/queue"
)

// Signup validates the inputs, creates the user, opens their first session
// and returns a full token pair. The username/email pre-checks live in the
// user store; a collision surfaces as domain.ErrUserAlreadyExists.
func (a *Auth) Signup(ctx context.Context, username, email, password, device string) (TokenPair, error) {
	name, err := domain.NewUsername(username)
	if err != nil {
		return TokenPair{}, err
	}
	addr, err := domain.NewEmail(email)
	if err != nil {
		return TokenPair{}, err
	}
	dev, err := domain.NewDevice(device)
	if err != nil {
		return TokenPair{}, err
	}
	if password == "" {
		return TokenPair{}, &domain.ValidationError{Field: "password", Reason: "must be a non-empty string"}
	}

	hashed, err := a.hasher.Hash(password)
	if err != nil {
		return TokenPair{}, fmt.Errorf("hash password: %w", err)
	}
	credential, err := domain.NewPassword(hashed)
	if err != nil {
		return TokenPair{}, err
	}

	user := domain.NewUser(name, addr, credential)
	if err := a.users.Add(ctx, user); err != nil {
		return TokenPair{}, err
	}

	a.publish(ctx, queue.EventUserCreated, map[string]string{
		"id":       user.ID.Value(),
		"username": user.Username.Value(),
		"email":    user.Email.Value(),
	})

	session := domain.NewSession(user.ID, dev)
	if err := a.sessions.Add(ctx, session); err != nil {
		return TokenPair{}, err
	}

	pair, err := a.mintPair(user, session.ID)
	if err != nil {
		return TokenPair{}, err
	}

	a.log.Info("signup completed", "user_id", user.ID.Value(), "session_id", session.ID.Value())
	return pair, nil
}

func (a *Auth) mintPair(user *domain.User, sessionID domain.ID) (TokenPair, error) {
	access, err := a.tokens.CreateAccessToken(user.ID, user.Username)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := a.tokens.CreateRefreshToken(user.ID, user.Username, sessionID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
