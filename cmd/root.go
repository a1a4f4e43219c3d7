// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-release-stats/internal/config"
	"github.com/naka-gawa/github-release-stats/internal/domain"
	"github.com/naka-gawa/github-release-stats/internal/gateway"
	"github.com/naka-gawa/github-release-stats/internal/logging"
	"github.com/naka-gawa/github-release-stats/internal/session"
	"github.com/naka-gawa/github-release-stats/internal/ui"
)

var (
	cfg    config.Config
	logger = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "github-release-stats",
	Short: "A CLI tool for GitHub commit statistics and release notes.",
	Long: `github-release-stats lists the repositories of a GitHub organization or user,
aggregates the commits of every author per year, and assembles release notes
from the pull requests merged between two refs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		loaded, err := config.Load(envFile)
		if err != nil {
			return err
		}
		cfg = loaded

		if owner, _ := cmd.Flags().GetString("owner"); owner != "" {
			cfg.Owner = owner
		}
		level := logging.ParseLevel(cfg.LogLevel)
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			level = slog.LevelDebug
		}
		logger = logging.NewLogger(cmd.ErrOrStderr(), level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, ui.ErrSelectionCancelled) {
			stop()
			os.Exit(130)
		}
		logging.NewLogger(os.Stderr, slog.LevelInfo).Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("owner", "o", "", "GitHub organization or user (default $GITHUB_OWNER)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Load environment variables from this file if it exists")
}

// githubGateway is created on first use and shared by every command of the process.
var githubGateway = sync.OnceValues(func() (*gateway.GitHubGateway, error) {
	token := cfg.Token
	if token == "" {
		store, err := openSessionStore()
		if err != nil {
			return nil, err
		}
		token, err = session.Token(store)
		if errors.Is(err, domain.ErrNotLoggedIn) {
			return nil, fmt.Errorf("%w: run `github-release-stats login` or set GITHUB_TOKEN", err)
		}
		if err != nil {
			return nil, err
		}
	}
	return gateway.NewGitHubGateway(token, gateway.Options{
		BaseURL:         cfg.APIURL,
		WaitOnRateLimit: cfg.WaitOnRateLimit,
	}, logger)
})

func openSessionStore() (*session.FileStore, error) {
	return session.OpenFileStore(cfg.SessionFile)
}

func requireOwner() (string, error) {
	if cfg.Owner == "" {
		return "", errors.New("owner is not set: pass --owner or set GITHUB_OWNER")
	}
	return cfg.Owner, nil
}

type repositoryLister interface {
	ListRepositories(ctx context.Context, owner string) ([]string, error)
}

// selectRepository returns repo, or lets the user pick one of the owner's repositories.
func selectRepository(ctx context.Context, gw repositoryLister, owner, repo string) (string, error) {
	if repo != "" {
		return repo, nil
	}
	repos, err := gw.ListRepositories(ctx, owner)
	if err != nil {
		return "", err
	}
	return ui.SelectOne("repository", repos)
}
