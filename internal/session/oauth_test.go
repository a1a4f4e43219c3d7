package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestOAuth_AuthorizeURL(t *testing.T) {
	store := NewMemoryStore()
	flow := NewOAuth("client-123", "secret", "http://localhost:8080/auth-callback", store)

	raw, err := flow.AuthorizeURL()
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "/login/oauth/authorize", u.Path)

	state, ok := store.Get(KeyState)
	require.True(t, ok)
	q := u.Query()
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "http://localhost:8080/auth-callback", q.Get("redirect_uri"))
	assert.Equal(t, "repo user", q.Get("scope"))
	assert.Equal(t, state, q.Get("state"))
}

func TestOAuth_Exchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "gho_abc", "token_type": "bearer", "scope": "repo,user"}`)
	}))
	t.Cleanup(server.Close)

	store := NewMemoryStore()
	state, err := EnsureState(store)
	require.NoError(t, err)
	flow := NewOAuth("client-123", "secret", "http://localhost:8080/auth-callback", store).
		WithEndpoint(oauth2.Endpoint{AuthURL: server.URL + "/authorize", TokenURL: server.URL + "/access_token"})

	t.Run("state mismatch is rejected before calling GitHub", func(t *testing.T) {
		err := flow.Exchange(context.Background(), "the-code", "forged")
		assert.ErrorIs(t, err, ErrStateMismatch)
		_, err = Token(store)
		assert.Error(t, err)
	})

	t.Run("matching state stores the token", func(t *testing.T) {
		require.NoError(t, flow.Exchange(context.Background(), "the-code", state))
		token, err := Token(store)
		require.NoError(t, err)
		assert.Equal(t, "gho_abc", token)
	})
}
