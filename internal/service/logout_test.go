package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/domain"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/token"
)

func sessionIDOf(t *testing.T, f *fixture, refresh string) domain.ID {
	t.Helper()
	claims, err := f.engine.Decode(refresh)
	require.NoError(t, err)
	id, err := domain.ParseID(claims["sid"].(string))
	require.NoError(t, err)
	return id
}

func TestLogout_DeletesSession(t *testing.T) {
	f := newFixture(t)
	pair := f.signup(t, "alice", "alice@test.com", "pw")
	sid := sessionIDOf(t, f, pair.Refresh)

	require.NoError(t, f.auth.Logout(context.Background(), pair.Refresh))

	_, err := f.sessions.GetByID(context.Background(), sid)
	assert.ErrorIs(t, err, domain.ErrSessionDoesNotExist)
	assert.Contains(t, f.events.names(), queue.EventUserLoggedOut)
}

func TestLogout_InvalidToken(t *testing.T) {
	f := newFixture(t)
	err := f.auth.Logout(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_AccessTokenRejected(t *testing.T) {
	f := newFixture(t)
	pair := f.signup(t, "alice", "alice@test.com", "pw")

	// An access token has no sid and the wrong type claim.
	err := f.auth.Logout(context.Background(), pair.Access)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, 1, f.sessions.count())
}

func TestLogout_UnknownSession(t *testing.T) {
	f := newFixture(t)
	pair := f.signup(t, "alice", "alice@test.com", "pw")
	require.NoError(t, f.auth.Logout(context.Background(), pair.Refresh))

	// Replaying the same token finds no session; the caller just sees an
	// invalid token, not a hint that the session was revoked.
	err := f.auth.Logout(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestLogout_ForeignSessionRejected(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice", "alice@test.com", "pw")
	f.signup(t, "mallory", "mallory@test.com", "pw")

	// Forge a refresh token: mallory's identity, alice's session id.
	email, _ := domain.NewEmail("mallory@test.com")
	mallory, err := f.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	aliceSid := sessionIDOf(t, f, alice.Refresh)
	forged, err := f.engine.CreateRefreshToken(mallory.ID, mallory.Username, aliceSid)
	require.NoError(t, err)

	err = f.auth.Logout(context.Background(), forged)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	// Alice's session survives.
	_, err = f.sessions.GetByID(context.Background(), aliceSid)
	assert.NoError(t, err)
}

func TestLogout_ForeignSignature(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", "alice@test.com", "pw")

	otherSecret := token.NewEngine("other-secret", 15, 30, 2)
	bad, err := otherSecret.CreateRefreshToken(domain.NewID(), mustUsername(t, "alice"), domain.NewID())
	require.NoError(t, err)

	err = f.auth.Logout(context.Background(), bad)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.Equal(t, 1, f.sessions.count())
}

func mustUsername(t *testing.T, raw string) domain.Username {
	t.Helper()
	u, err := domain.NewUsername(raw)
	require.NoError(t, err)
	return u
}
