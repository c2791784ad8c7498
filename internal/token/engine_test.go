package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/auth-service/internal/domain"
)

const testSecret = "unit-test-secret"

func testEngine() *Engine {
	// 15 min access, 30 day refresh, 2 day rotation threshold.
	return NewEngine(testSecret, 15, 30, 2)
}

func testIdentity(t *testing.T) (domain.ID, domain.Username) {
	t.Helper()
	username, err := domain.NewUsername("alice")
	require.NoError(t, err)
	return domain.NewID(), username
}

func TestAccessToken_RoundTrip(t *testing.T) {
	e := testEngine()
	userID, username := testIdentity(t)

	raw, err := e.CreateAccessToken(userID, username)
	require.NoError(t, err)

	claims, err := e.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, userID.Value(), claims["sub"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, TypeAccess, claims["type"])
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Greater(t, exp, float64(time.Now().Unix()))
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	e := testEngine()
	userID, username := testIdentity(t)
	sessionID := domain.NewID()

	raw, err := e.CreateRefreshToken(userID, username, sessionID)
	require.NoError(t, err)

	claims, err := e.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, userID.Value(), claims["sub"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, sessionID.Value(), claims["sid"])
	assert.Equal(t, TypeRefresh, claims["type"])
}

func TestDecode_Expired(t *testing.T) {
	e := testEngine()
	userID, username := testIdentity(t)

	issued := time.Now().UTC()
	e.now = func() time.Time { return issued.Add(-time.Hour) }
	raw, err := e.CreateAccessToken(userID, username)
	require.NoError(t, err)

	e.now = time.Now
	_, err = e.Decode(raw)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)
}

func TestDecode_WrongSecret(t *testing.T) {
	userID, username := testIdentity(t)
	raw, err := testEngine().CreateAccessToken(userID, username)
	require.NoError(t, err)

	other := NewEngine("different-secret", 15, 30, 2)
	_, err = other.Decode(raw)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestDecode_Malformed(t *testing.T) {
	e := testEngine()
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := e.Decode(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, raw)
	}
}

func TestShouldRotate(t *testing.T) {
	e := testEngine()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }

	threshold := 2 * 24 * time.Hour
	cases := []struct {
		name  string
		until time.Duration
		want  bool
	}{
		{"far from expiry", 30 * 24 * time.Hour, false},
		{"just outside threshold", threshold + time.Second, false},
		{"exactly at threshold", threshold, true},
		{"inside threshold", 24 * time.Hour, true},
		{"already expired", -time.Hour, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp, err := domain.DateTimeFromUnix(float64(fixed.Add(tc.until).Unix()))
			require.NoError(t, err)
			assert.Equal(t, tc.want, e.ShouldRotate(exp))
		})
	}
}
