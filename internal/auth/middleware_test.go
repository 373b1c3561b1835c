package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"crm-backend/internal/auth"
)

func TestUserIDFromContext(t *testing.T) {
	_, ok := auth.UserIDFromContext(context.Background())
	require.False(t, ok)

	userID, ok := auth.UserIDFromContext(auth.WithUserID(context.Background(), "u-1"))
	require.True(t, ok)
	require.Equal(t, "u-1", userID)
}

func echoUserID(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(userID))
	})
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/orgs", nil)

	auth.Middleware(echoUserID(t)).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/orgs", nil)
	req.Header.Set("Authorization", "Token abc")

	auth.Middleware(echoUserID(t)).ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewarePassesValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := auth.GenerateToken("user-42")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/orgs", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	auth.Middleware(echoUserID(t)).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-42", rec.Body.String())
}
