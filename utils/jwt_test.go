package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.GenerateToken(42, "manager")
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, err := NewTokenManager("one", time.Hour).GenerateToken(1, "admin")
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := tm.GenerateToken(1, "staff")
	require.NoError(t, err)

	tm.now = time.Now
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBlacklist(t *testing.T) {
	b := NewBlacklist(time.Hour)
	now := time.Now()

	b.Add("live", now.Add(time.Hour))
	b.Add("dead", now.Add(-time.Minute))

	assert.True(t, b.Contains("live"))
	assert.False(t, b.Contains("dead"))
	assert.False(t, b.Contains("unknown"))

	assert.Equal(t, 1, b.Purge(now))
	assert.True(t, b.Contains("live"))

	b.Start()
	b.Stop()
	b.Stop()
}
