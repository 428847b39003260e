package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("secret", "u1", "alice", "ADMIN", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, "u1", claims.Subject)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("secret", "u1", "alice", "USER", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "other-secret")
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	token, err := GenerateSessionToken("secret", "u1", "alice", "USER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.Error(t, err)
}

func TestParseSessionClaimsUnverified(t *testing.T) {
	token, err := GenerateSessionToken("secret", "u1", "alice", "USER", time.Hour)
	require.NoError(t, err)

	// No secret needed: only the claims are read.
	claims, err := ParseSessionClaimsUnverified(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = ParseSessionClaimsUnverified("garbage")
	assert.Error(t, err)
}
