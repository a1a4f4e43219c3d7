// Package config loads the application settings from the environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const appName = "github-release-stats"

// Config holds every setting that can come from the environment.
// Command-line flags take precedence over these values.
type Config struct {
	// Token authenticates API calls; when empty the session token is used.
	Token string `env:"GITHUB_TOKEN"`
	// Owner is the default organization or user.
	Owner string `env:"GITHUB_OWNER"`
	// ClientID and ClientSecret identify the OAuth app used by the login command.
	ClientID     string `env:"GITHUB_CLIENT_ID"`
	ClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	// RedirectURL is where GitHub sends the user after authorizing.
	RedirectURL string `env:"GITHUB_REDIRECT_URL" envDefault:"http://localhost:8080/auth-callback"`
	// APIURL targets a GitHub Enterprise server instead of github.com.
	APIURL string `env:"GITHUB_API_URL"`
	// WaitOnRateLimit sleeps through secondary rate limits instead of failing.
	WaitOnRateLimit bool `env:"GITHUB_WAIT_ON_RATE_LIMIT"`
	// TargetBranch is the branch new releases are created from.
	TargetBranch string `env:"RELEASE_TARGET_BRANCH" envDefault:"master"`
	// SessionFile stores the OAuth token and state nonce.
	SessionFile string `env:"GITHUB_SESSION_FILE"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the given .env files (missing files are skipped) and parses the environment.
// Variables already present in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	for _, path := range envFiles {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("load env file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.SessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config directory: %w", err)
		}
		cfg.SessionFile = filepath.Join(dir, appName, "session.yaml")
	}
	return cfg, nil
}
