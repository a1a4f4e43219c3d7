// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// StatsFetcher is the part of the gateway the Aggregator needs.
type StatsFetcher interface {
	ListRepositories(ctx context.Context, owner string) ([]string, error)
	FetchContributorStats(ctx context.Context, owner, repo string) ([]domain.AuthorCommitSeries, error)
}

// Aggregator is the use case for aggregating GitHub commit stats.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher StatsFetcher
	logger  *slog.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher StatsFetcher, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches the contributor statistics of every own repository of owner
// concurrently and buckets them per year in [startYear, endYear).
// A repository whose statistics cannot be fetched is reported in its Error field
// and does not stop the others; only failing to list the repositories is fatal.
func (a *Aggregator) Aggregate(ctx context.Context, owner string, startYear, endYear int) (*domain.OwnerStats, error) {
	a.logger.Debug("starting data aggregation", "owner", owner)

	repos, err := a.fetcher.ListRepositories(ctx, owner)
	if err != nil {
		return nil, err
	}
	return a.aggregateRepositories(ctx, owner, repos, startYear, endYear), nil
}

// AggregateRepository does the same as Aggregate for a single repository.
func (a *Aggregator) AggregateRepository(ctx context.Context, owner, repo string, startYear, endYear int) *domain.OwnerStats {
	return a.aggregateRepositories(ctx, owner, []string{repo}, startYear, endYear)
}

func (a *Aggregator) aggregateRepositories(ctx context.Context, owner string, repos []string, startYear, endYear int) *domain.OwnerStats {
	results := make([]*domain.RepoStats, len(repos))

	// Failures are recorded per repository, so the group never cancels its siblings.
	var eg errgroup.Group
	for i, repo := range repos {
		eg.Go(func() error {
			results[i] = a.repoStats(ctx, owner, repo, startYear, endYear)
			return nil
		})
	}
	_ = eg.Wait()
	a.logger.Debug("all repository stats fetched", "owner", owner, "repositories", len(repos))

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	yearly := make([][]domain.YearlyBucket, 0, len(results))
	totals := make([]map[string]int, 0, len(results))
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		yearly = append(yearly, r.Yearly)
		totals = append(totals, r.Totals)
	}

	return &domain.OwnerStats{
		Owner:        owner,
		Repositories: results,
		Yearly:       SumBuckets(yearly...),
		Totals:       SumByAuthor(totals...),
	}
}

func (a *Aggregator) repoStats(ctx context.Context, owner, repo string, startYear, endYear int) *domain.RepoStats {
	series, err := a.fetcher.FetchContributorStats(ctx, owner, repo)
	if err != nil {
		a.logger.Warn("failed to fetch contributor stats", "repo", owner+"/"+repo, "error", err)
		return &domain.RepoStats{Name: repo, Error: err.Error()}
	}
	return &domain.RepoStats{
		Name:      repo,
		Yearly:    YearlyBuckets(series, startYear, endYear),
		Totals:    TotalCommitsPerAuthor(series),
		Summaries: Summarize(series),
	}
}
