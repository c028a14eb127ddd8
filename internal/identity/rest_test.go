package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(identityURL, tokenURL string) *restClient {
	return &restClient{
		apiKey:      "test-key",
		identityURL: identityURL,
		tokenURL:    tokenURL,
		httpClient:  &http.Client{Timeout: 2 * time.Second},
	}
}

func TestSendOobCode(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:sendOobCode", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"email":"a@b.co"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	err := c.sendOobCode(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Equal(t, "PASSWORD_RESET", got["requestType"])
	assert.Equal(t, "a@b.co", got["email"])
}

func TestResetPasswordRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:resetPassword", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"INVALID_OOB_CODE"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	err := c.resetPassword(context.Background(), "bad-code", "NewPass1!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_OOB_CODE")
}

func TestRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))
		w.Write([]byte(`{"id_token":"new-id","refresh_token":"new-refresh","expires_in":"3600","user_id":"uid-1"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	pair, err := c.refreshToken(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-id", pair.IDToken)
	assert.Equal(t, "new-refresh", pair.RefreshToken)
	assert.Equal(t, "uid-1", pair.UID)
}

func TestRefreshTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"TOKEN_EXPIRED"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.URL)
	_, err := c.refreshToken(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
