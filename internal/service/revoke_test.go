package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/domain"
)

func TestRevoke_OwnSession(t *testing.T) {
	f := newFixture(t)
	first := f.signup(t, "alice", "alice@test.com", "pw")

	// A second login; revoke it using the first session's refresh token.
	second, err := f.auth.Login(context.Background(), "alice", "alice@test.com", "pw", "tablet")
	require.NoError(t, err)
	target := sessionIDOf(t, f, second.Refresh)

	require.NoError(t, f.auth.Revoke(context.Background(), first.Refresh, target.Value()))

	_, err = f.sessions.GetByID(context.Background(), target)
	assert.ErrorIs(t, err, domain.ErrSessionDoesNotExist)
	// The authenticating session is untouched.
	_, err = f.sessions.GetByID(context.Background(), sessionIDOf(t, f, first.Refresh))
	assert.NoError(t, err)
}

func TestRevoke_ForeignSessionRejected(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice", "alice@test.com", "pw")
	mallory := f.signup(t, "mallory", "mallory@test.com", "pw")

	aliceSid := sessionIDOf(t, f, alice.Refresh)
	err := f.auth.Revoke(context.Background(), mallory.Refresh, aliceSid.Value())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = f.sessions.GetByID(context.Background(), aliceSid)
	assert.NoError(t, err)
}

func TestRevoke_UnknownTargetSession(t *testing.T) {
	f := newFixture(t)
	pair := f.signup(t, "alice", "alice@test.com", "pw")

	err := f.auth.Revoke(context.Background(), pair.Refresh, domain.NewID().Value())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRevoke_BadInputs(t *testing.T) {
	f := newFixture(t)
	pair := f.signup(t, "alice", "alice@test.com", "pw")

	err := f.auth.Revoke(context.Background(), "garbage", domain.NewID().Value())
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	err = f.auth.Revoke(context.Background(), pair.Refresh, "   ")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSessions_ListsLiveSessions(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "alice", "alice@test.com", "pw")
	_, err := f.auth.Login(context.Background(), "alice", "alice@test.com", "pw", "tablet")
	require.NoError(t, err)

	email, _ := domain.NewEmail("alice@test.com")
	user, err := f.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)

	sessions, err := f.auth.Sessions(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}
