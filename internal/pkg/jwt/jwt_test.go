package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("user-1", RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	userID, ok := token.Get("user_id")
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)

	role, ok := token.Get("role")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	tokenType, ok := token.Get("type")
	require.True(t, ok)
	assert.Equal(t, "access", tokenType)
}

func TestDecodeRejectsForeignSignature(t *testing.T) {
	issuer := NewJWTService("secret-a", "1h")
	verifier := NewJWTService("secret-b", "1h")

	tokenString, _, err := issuer.GenerateAccessToken("user-1", RoleUser)
	require.NoError(t, err)

	_, err = verifier.JWTAuth().Decode(tokenString)
	assert.Error(t, err)
}

func TestGenerateAccessTokenBadExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")

	_, _, err := svc.GenerateAccessToken("user-1", RoleUser)
	assert.Error(t, err)
}
