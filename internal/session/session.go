package session

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// Keys of the session store.
const (
	KeyToken       = "github"
	KeyLegacyToken = "githubToken"
	KeyState       = "githubState"
)

type storedToken struct {
	AccessToken string `json:"access_token"`
}

// Token returns the access token saved by the login flow.
func Token(store Store) (string, error) {
	for _, key := range []string{KeyToken, KeyLegacyToken} {
		raw, ok := store.Get(key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		var t storedToken
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return "", fmt.Errorf("decode %s session value: %w", key, err)
		}
		if t.AccessToken != "" {
			return t.AccessToken, nil
		}
	}
	return "", domain.ErrNotLoggedIn
}

// SaveToken stores token as {"access_token": token}.
func SaveToken(store Store, token string) error {
	raw, err := json.Marshal(storedToken{AccessToken: token})
	if err != nil {
		return err
	}
	return store.Set(KeyToken, string(raw))
}

// Logout removes every saved token. The state nonce is kept.
func Logout(store Store) error {
	for _, key := range []string{KeyToken, KeyLegacyToken} {
		if err := store.Clear(key); err != nil {
			return err
		}
	}
	return nil
}

// EnsureState returns the state nonce, generating and saving one when absent.
func EnsureState(store Store) (string, error) {
	if state, ok := store.Get(KeyState); ok && state != "" {
		return state, nil
	}
	state := uuid.NewString()
	if err := store.Set(KeyState, state); err != nil {
		return "", fmt.Errorf("save state nonce: %w", err)
	}
	return state, nil
}
