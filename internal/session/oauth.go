package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// ErrStateMismatch means the state returned by GitHub is not the one we sent.
var ErrStateMismatch = errors.New("oauth state does not match the session")

// OAuth drives the GitHub web application flow.
type OAuth struct {
	config *oauth2.Config
	store  Store
}

// NewOAuth returns an OAuth flow for the given app, requesting the repo and user scopes.
func NewOAuth(clientID, clientSecret, redirectURL string, store Store) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"repo", "user"},
			Endpoint:     github.Endpoint,
		},
		store: store,
	}
}

// WithEndpoint replaces the GitHub endpoints, e.g. for an enterprise server.
func (o *OAuth) WithEndpoint(endpoint oauth2.Endpoint) *OAuth {
	o.config.Endpoint = endpoint
	return o
}

// AuthorizeURL returns the URL the user opens to grant access.
func (o *OAuth) AuthorizeURL() (string, error) {
	state, err := EnsureState(o.store)
	if err != nil {
		return "", err
	}
	return o.config.AuthCodeURL(state), nil
}

// Exchange trades the code from the callback for a token and saves it.
func (o *OAuth) Exchange(ctx context.Context, code, state string) error {
	expected, ok := o.store.Get(KeyState)
	if !ok || expected == "" || state != expected {
		return ErrStateMismatch
	}
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange oauth code: %w", err)
	}
	return SaveToken(o.store, token.AccessToken)
}
