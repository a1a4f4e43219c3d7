package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) ListRepositories(ctx context.Context, owner string) ([]string, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) FetchContributorStats(ctx context.Context, owner, repo string) ([]domain.AuthorCommitSeries, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuthorCommitSeries), args.Error(1)
}

func (m *mockFetcher) CompareRefs(ctx context.Context, owner, repo, base, head string) ([]domain.Commit, error) {
	args := m.Called(ctx, owner, repo, base, head)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockFetcher) CreateRelease(ctx context.Context, owner, repo string, req domain.ReleaseRequest) (domain.Release, error) {
	args := m.Called(ctx, owner, repo, req)
	return args.Get(0).(domain.Release), args.Error(1)
}

func (m *mockFetcher) FetchPullRequestLabels(ctx context.Context, owner, repo string, number int) ([]string, error) {
	args := m.Called(ctx, owner, repo, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) ListReleases(ctx context.Context, owner, repo string) ([]domain.Release, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Release), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestAggregator_Aggregate uses a table-driven approach to test the aggregator.
func TestAggregator_Aggregate(t *testing.T) {
	repoA := []domain.AuthorCommitSeries{
		{Author: "alice", Weeks: []domain.WeeklyCount{week(2017, 3, 5, 2), week(2018, 3, 4, 1)}},
	}
	repoB := []domain.AuthorCommitSeries{
		{Author: "alice", Weeks: []domain.WeeklyCount{week(2017, 6, 4, 3)}},
		{Author: "bob", Weeks: []domain.WeeklyCount{week(2018, 6, 3, 4)}},
	}

	testCases := []struct {
		name           string
		repos          []string
		listErr        error
		stats          map[string][]domain.AuthorCommitSeries
		statsErr       map[string]error
		expectError    bool
		expectedNames  []string
		expectedErrors map[string]bool
		expectedYearly []domain.YearlyBucket
		expectedTotals map[string]int
	}{
		{
			name:          "happy path - sums repositories per year and author",
			repos:         []string{"repo-b", "repo-a"},
			stats:         map[string][]domain.AuthorCommitSeries{"repo-a": repoA, "repo-b": repoB},
			expectedNames: []string{"repo-a", "repo-b"},
			expectedYearly: []domain.YearlyBucket{
				{Year: 2017, Commits: map[string]int{"alice": 5, "bob": 0}},
				{Year: 2018, Commits: map[string]int{"alice": 1, "bob": 4}},
			},
			expectedTotals: map[string]int{"alice": 6, "bob": 4},
		},
		{
			name:           "one repository failing is reported and the rest is aggregated",
			repos:          []string{"repo-a", "repo-b"},
			stats:          map[string][]domain.AuthorCommitSeries{"repo-a": repoA},
			statsErr:       map[string]error{"repo-b": domain.ErrStatsPending},
			expectedNames:  []string{"repo-a", "repo-b"},
			expectedErrors: map[string]bool{"repo-b": true},
			expectedYearly: []domain.YearlyBucket{
				{Year: 2017, Commits: map[string]int{"alice": 2}},
				{Year: 2018, Commits: map[string]int{"alice": 1}},
			},
			expectedTotals: map[string]int{"alice": 3},
		},
		{
			name:        "error case - listing repositories fails",
			listErr:     errors.New("github api error"),
			expectError: true,
		},
		{
			name:           "empty case - owner without repositories",
			repos:          []string{},
			expectedNames:  []string{},
			expectedYearly: []domain.YearlyBucket{},
			expectedTotals: map[string]int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			fetcher := new(mockFetcher)
			fetcher.On("ListRepositories", mock.Anything, "any-org").Return(tc.repos, tc.listErr)
			for _, repo := range tc.repos {
				if err, ok := tc.statsErr[repo]; ok {
					fetcher.On("FetchContributorStats", mock.Anything, "any-org", repo).Return(nil, err)
					continue
				}
				fetcher.On("FetchContributorStats", mock.Anything, "any-org", repo).Return(tc.stats[repo], nil)
			}
			aggregator := NewAggregator(fetcher, discardLogger())

			// --- Act ---
			result, err := aggregator.Aggregate(context.Background(), "any-org", 2017, 2019)

			// --- Assert ---
			if tc.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				fetcher.AssertExpectations(t)
				return
			}
			require.NoError(t, err)
			names := make([]string, 0, len(result.Repositories))
			for _, r := range result.Repositories {
				names = append(names, r.Name)
				assert.Equal(t, tc.expectedErrors[r.Name], r.Error != "", "error flag of %s", r.Name)
			}
			assert.Equal(t, tc.expectedNames, names)
			assert.Equal(t, tc.expectedYearly, result.Yearly)
			assert.Equal(t, tc.expectedTotals, result.Totals)

			// Verify that the mock methods were called as expected
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_AggregateRepository(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("FetchContributorStats", mock.Anything, "octocat", "hello-world").Return([]domain.AuthorCommitSeries{
		{Author: "octocat", Weeks: []domain.WeeklyCount{{WeekStart: 0, Commits: 5}, {WeekStart: 604800, Commits: 3}}},
	}, nil)

	result := NewAggregator(fetcher, discardLogger()).AggregateRepository(context.Background(), "octocat", "hello-world", 1970, 1971)

	require.Len(t, result.Repositories, 1)
	assert.Equal(t, map[string]int{"octocat": 8}, result.Totals)
	assert.Equal(t, []domain.YearlyBucket{{Year: 1970, Commits: map[string]int{"octocat": 8}}}, result.Yearly)
	require.Len(t, result.Repositories[0].Summaries, 1)
	fetcher.AssertNotCalled(t, "ListRepositories", mock.Anything, mock.Anything)
}
