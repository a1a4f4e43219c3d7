package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/github-release-stats/internal/domain"
	"github.com/naka-gawa/github-release-stats/internal/ui"
	"github.com/naka-gawa/github-release-stats/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates commits per author and year",
	Long: `Aggregates the contributor statistics of every repository of the owner
(or of a single repository with --repo) into commits per author and calendar
year, for the years in [--from-year, --to-year). Repositories whose statistics
cannot be fetched are reported individually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		owner, err := requireOwner()
		if err != nil {
			return err
		}
		repo, _ := cmd.Flags().GetString("repo")
		fromYear, _ := cmd.Flags().GetInt("from-year")
		toYear, _ := cmd.Flags().GetInt("to-year")
		format, _ := cmd.Flags().GetString("format")
		if toYear == 0 {
			toYear = time.Now().UTC().Year() + 1
		}
		if toYear <= fromYear {
			return fmt.Errorf("--to-year (%d) must be after --from-year (%d)", toYear, fromYear)
		}
		if format != "json" && format != "table" {
			return fmt.Errorf("unknown format %q, want json or table", format)
		}

		// Inject dependencies and run the main business logic.
		gw, err := githubGateway()
		if err != nil {
			return err
		}
		aggregator := usecase.NewAggregator(gw, logger)

		var results *domain.OwnerStats
		if repo != "" {
			results = aggregator.AggregateRepository(ctx, owner, repo, fromYear, toYear)
		} else {
			results, err = aggregator.Aggregate(ctx, owner, fromYear, toYear)
			if err != nil {
				return fmt.Errorf("failed to aggregate stats: %w", err)
			}
		}

		if format == "table" {
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderOwnerStats(results))
			return nil
		}
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("repo", "r", "", "Only aggregate this repository")
	statsCmd.Flags().Int("from-year", 2013, "First year to aggregate")
	statsCmd.Flags().Int("to-year", 0, "Year after the last one to aggregate (default next year)")
	statsCmd.Flags().StringP("format", "f", "json", "Output format: json or table")
}
