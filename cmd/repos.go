package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Lists the repositories of the owner, excluding forks",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := requireOwner()
		if err != nil {
			return err
		}
		gw, err := githubGateway()
		if err != nil {
			return err
		}
		repos, err := gw.ListRepositories(cmd.Context(), owner)
		if err != nil {
			return err
		}
		for _, repo := range repos {
			fmt.Fprintln(cmd.OutOrStdout(), repo)
		}
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Lists the tags of a repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := requireOwner()
		if err != nil {
			return err
		}
		gw, err := githubGateway()
		if err != nil {
			return err
		}
		repoFlag, _ := cmd.Flags().GetString("repo")
		repo, err := selectRepository(cmd.Context(), gw, owner, repoFlag)
		if err != nil {
			return err
		}
		tags, err := gw.ListTags(cmd.Context(), owner, repo)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Fprintln(cmd.OutOrStdout(), tag)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(tagsCmd)
	tagsCmd.Flags().StringP("repo", "r", "", "Repository name (picked interactively when omitted)")
}
