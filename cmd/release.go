package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-release-stats/internal/domain"
	"github.com/naka-gawa/github-release-stats/internal/ui"
	"github.com/naka-gawa/github-release-stats/internal/usecase"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Lists, shows and creates releases",
}

var releaseListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the releases of a repository",
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

		current, err := usecase.NewReleaseBrowser(gw, owner).Select(cmd.Context(), repo)
		if err != nil {
			return err
		}
		if len(current.Releases) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), ui.MutedStyle.Render("No releases in "+owner+"/"+repo))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderReleases(current.Releases))
		return nil
	},
}

var releaseShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows the notes of a release",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		owner, err := requireOwner()
		if err != nil {
			return err
		}
		gw, err := githubGateway()
		if err != nil {
			return err
		}
		repoFlag, _ := cmd.Flags().GetString("repo")
		repo, err := selectRepository(ctx, gw, owner, repoFlag)
		if err != nil {
			return err
		}

		browser := usecase.NewReleaseBrowser(gw, owner)
		current, err := browser.Select(ctx, repo)
		if err != nil {
			return err
		}
		tag, _ := cmd.Flags().GetString("tag")
		if tag == "" {
			tag, err = ui.SelectOne("release", browser.TagNames())
			if err != nil {
				return err
			}
		}

		var found *domain.Release
		for i := range current.Releases {
			if current.Releases[i].TagName == tag {
				found = &current.Releases[i]
				break
			}
		}
		if found == nil {
			return fmt.Errorf("no release tagged %q in %s/%s", tag, owner, repo)
		}
		release, err := gw.GetRelease(ctx, owner, repo, found.ID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		title := release.Name
		if title == "" {
			title = release.TagName
		}
		fmt.Fprintln(out, ui.TitleStyle.Render(title))
		fmt.Fprintln(out, ui.MutedStyle.Render(release.HTMLURL))
		fmt.Fprintln(out)
		fmt.Fprintln(out, release.Body)
		return nil
	},
}

var releaseCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Assembles release notes from merged pull requests and publishes them",
	Long: `Collects the pull requests merged between --base and --head, asks for the
category of each one, prints the resulting release notes and, after
confirmation, creates a release tagged --tag (default: --head) on --target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		owner, err := requireOwner()
		if err != nil {
			return err
		}
		gw, err := githubGateway()
		if err != nil {
			return err
		}
		repoFlag, _ := cmd.Flags().GetString("repo")
		repo, err := selectRepository(ctx, gw, owner, repoFlag)
		if err != nil {
			return err
		}

		base, _ := cmd.Flags().GetString("base")
		head, _ := cmd.Flags().GetString("head")
		if base == "" || head == "" {
			tags, err := gw.ListTags(ctx, owner, repo)
			if err != nil {
				return err
			}
			if base == "" {
				if base, err = ui.SelectOne("base", tags); err != nil {
					return err
				}
			}
			if head == "" {
				if head, err = ui.SelectOne("head", tags); err != nil {
					return err
				}
			}
		}
		tag, _ := cmd.Flags().GetString("tag")
		if tag == "" {
			tag = head
		}
		target, _ := cmd.Flags().GetString("target")
		if target == "" {
			target = cfg.TargetBranch
		}

		workflow := usecase.NewReleaseWorkflow(gw, logger)
		prs, warnings, err := workflow.CollectPullRequests(ctx, owner, repo, base, head)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			logger.Warn("skipping merge commit", "error", w)
		}
		if len(prs) == 0 {
			return fmt.Errorf("no pull requests merged between %s and %s", base, head)
		}
		if suggest, _ := cmd.Flags().GetBool("suggest"); suggest {
			prs = workflow.SuggestCategories(ctx, owner, repo, prs)
		}

		prompter := ui.NewCategoryPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		categorization, err := workflow.Categorize(prs, prompter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, workflow.Notes(categorization))
		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			return nil
		}

		question := fmt.Sprintf("Create release %s of %s/%s on %s?", tag, owner, repo, target)
		for {
			ok, err := prompter.Confirm(question)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("release not created")
			}
			release, err := workflow.Publish(ctx, owner, repo, tag, target, categorization)
			if err == nil {
				fmt.Fprintln(out, ui.SuccessStyle.Render("Created "+release.HTMLURL))
				return nil
			}
			logger.Error("failed to create release", "tag", tag, "error", err)
			question = "Retry?"
		}
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.AddCommand(releaseListCmd, releaseShowCmd, releaseCreateCmd)
	releaseCmd.PersistentFlags().StringP("repo", "r", "", "Repository name (picked interactively when omitted)")

	releaseShowCmd.Flags().StringP("tag", "t", "", "Tag of the release (picked interactively when omitted)")

	releaseCreateCmd.Flags().String("base", "", "Older ref; picked from the tags when omitted")
	releaseCreateCmd.Flags().String("head", "", "Newer ref; picked from the tags when omitted")
	releaseCreateCmd.Flags().StringP("tag", "t", "", "Tag of the new release (default --head)")
	releaseCreateCmd.Flags().String("target", "", "Branch the release is created from (default $RELEASE_TARGET_BRANCH)")
	releaseCreateCmd.Flags().Bool("suggest", false, "Pre-select categories from the pull request labels")
	releaseCreateCmd.Flags().Bool("dry-run", false, "Only print the release notes")
}
