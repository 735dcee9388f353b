package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("a3f1c2d4", "editor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a3f1c2d4", claims.UserID)
	assert.Equal(t, "editor", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken("a3f1c2d4", "user")
	require.NoError(t, err)

	_, err = VerifyToken(token + "x")
	assert.Error(t, err)
}
