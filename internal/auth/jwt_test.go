package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crm-backend/internal/auth"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.GenerateToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := auth.ParseToken("not-a-token")
	require.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.GenerateToken("user-1")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = auth.ParseToken(token)
	require.Error(t, err)
}

func TestGenerateTokenHonorsTTLOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL_HOURS", "1")

	token, err := auth.GenerateToken("user-1")
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	require.Equal(t, time.Hour, ttl)
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := auth.GenerateToken("user-1")
	require.Error(t, err)
}
