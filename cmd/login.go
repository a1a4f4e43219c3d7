package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-release-stats/internal/session"
	"github.com/naka-gawa/github-release-stats/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticates with GitHub and saves the token in the session file",
	Long: `Without flags, prints the URL to authorize the OAuth app. After authorizing,
GitHub redirects to the callback URL with a code and a state; pass both with
--code and --state to finish the login. A personal access token can be saved
directly with --token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if token, _ := cmd.Flags().GetString("token"); token != "" {
			if err := session.SaveToken(store, token); err != nil {
				return err
			}
			logger.Debug("token saved", "session", cfg.SessionFile)
			fmt.Fprintln(out, ui.SuccessStyle.Render("Logged in."))
			return nil
		}

		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required for the OAuth login")
		}
		flow := session.NewOAuth(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURL, store)
		if cfg.APIURL != "" {
			host := strings.TrimSuffix(cfg.APIURL, "/")
			flow = flow.WithEndpoint(oauth2.Endpoint{
				AuthURL:  host + "/login/oauth/authorize",
				TokenURL: host + "/login/oauth/access_token",
			})
		}

		code, _ := cmd.Flags().GetString("code")
		if code == "" {
			url, err := flow.AuthorizeURL()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Open the following URL and authorize the app:")
			fmt.Fprintln(out, url)
			fmt.Fprintln(out, ui.MutedStyle.Render("Then run: github-release-stats login --code <code> --state <state>"))
			return nil
		}

		state, _ := cmd.Flags().GetString("state")
		if err := flow.Exchange(cmd.Context(), code, state); err != nil {
			return err
		}
		fmt.Fprintln(out, ui.SuccessStyle.Render("Logged in."))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Removes the saved GitHub token",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openSessionStore()
		if err != nil {
			return err
		}
		if err := session.Logout(store); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().String("token", "", "Save this personal access token instead of running the OAuth flow")
	loginCmd.Flags().String("code", "", "Authorization code from the OAuth callback")
	loginCmd.Flags().String("state", "", "State from the OAuth callback")
	loginCmd.MarkFlagsMutuallyExclusive("token", "code")
	loginCmd.MarkFlagsRequiredTogether("code", "state")
}
