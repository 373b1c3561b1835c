package services_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm-backend/internal/services"
)

func TestSendInvitationPostsToRelay(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	t.Setenv("MAIL_WEBHOOK_URL", srv.URL)
	t.Setenv("MAIL_FROM", "crm@example.com")

	client := services.NewMailClient(zap.NewNop())
	err := client.SendInvitation("Acme", "http://localhost:8080/v1/join/tok", "ann@example.com")
	require.NoError(t, err)

	require.Equal(t, "crm@example.com", got["from"])
	require.Equal(t, []any{"ann@example.com"}, got["to"])
	require.Equal(t, "Organization Acme invites you to join it", got["subject"])
	require.Contains(t, got["body"], "http://localhost:8080/v1/join/tok")
}

func TestSendSkipsWhenRelayUnset(t *testing.T) {
	t.Setenv("MAIL_WEBHOOK_URL", "")

	client := services.NewMailClient(zap.NewNop())
	err := client.Send("subject", "body", []string{"ann@example.com"})
	require.NoError(t, err)
}

func TestSendReportsRelayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "relay exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("MAIL_WEBHOOK_URL", srv.URL)

	client := services.NewMailClient(zap.NewNop())
	err := client.Send("subject", "body", []string{"ann@example.com"})
	require.ErrorContains(t, err, "relay exploded")
}
