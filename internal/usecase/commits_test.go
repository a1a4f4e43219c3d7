package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

func week(year int, month time.Month, day int, commits int) domain.WeeklyCount {
	return domain.WeeklyCount{
		WeekStart: time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix(),
		Commits:   commits,
	}
}

func TestCommitsPerAuthorInRange(t *testing.T) {
	series := []domain.AuthorCommitSeries{
		{Author: "octocat", Weeks: []domain.WeeklyCount{{WeekStart: 0, Commits: 5}, {WeekStart: 604800, Commits: 3}}},
		{Author: "hubot", Weeks: []domain.WeeklyCount{{WeekStart: 1209600, Commits: 7}}},
	}

	testCases := []struct {
		name     string
		start    int64
		end      int64
		expected map[string]int
	}{
		{
			name:     "end is exclusive",
			start:    0,
			end:      604800,
			expected: map[string]int{"octocat": 5, "hubot": 0},
		},
		{
			name:     "two weeks",
			start:    0,
			end:      1209600,
			expected: map[string]int{"octocat": 8, "hubot": 0},
		},
		{
			name:     "start is inclusive",
			start:    604800,
			end:      1209601,
			expected: map[string]int{"octocat": 3, "hubot": 7},
		},
		{
			name:     "empty range",
			start:    604800,
			end:      604800,
			expected: map[string]int{"octocat": 0, "hubot": 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CommitsPerAuthorInRange(series, time.Unix(tc.start, 0), time.Unix(tc.end, 0))
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestYearlyBuckets(t *testing.T) {
	series := []domain.AuthorCommitSeries{
		{Author: "octocat", Weeks: []domain.WeeklyCount{
			week(2016, time.December, 25, 1),
			week(2017, time.January, 1, 2),
			week(2017, time.December, 31, 4),
			week(2018, time.January, 1, 8),
		}},
		{Author: "hubot", Weeks: []domain.WeeklyCount{week(2018, time.June, 3, 16)}},
	}

	buckets := YearlyBuckets(series, 2016, 2019)

	require.Len(t, buckets, 3)
	assert.Equal(t, domain.YearlyBucket{Year: 2016, Commits: map[string]int{"octocat": 1, "hubot": 0}}, buckets[0])
	assert.Equal(t, domain.YearlyBucket{Year: 2017, Commits: map[string]int{"octocat": 6, "hubot": 0}}, buckets[1])
	assert.Equal(t, domain.YearlyBucket{Year: 2018, Commits: map[string]int{"octocat": 8, "hubot": 16}}, buckets[2])

	// Buckets covering every week add up to the unbounded total.
	totals := TotalCommitsPerAuthor(series)
	summed := SumBuckets(buckets)
	require.Len(t, summed, 3)
	perAuthor := SumByAuthor(buckets[0].Commits, buckets[1].Commits, buckets[2].Commits)
	assert.Equal(t, totals, perAuthor)
	assert.Equal(t, map[string]int{"octocat": 15, "hubot": 16}, totals)

	assert.Empty(t, YearlyBuckets(series, 2019, 2019))
}

func TestSumByAuthorAndBuckets(t *testing.T) {
	assert.Equal(t,
		map[string]int{"a": 3, "b": 2, "c": 4},
		SumByAuthor(map[string]int{"a": 1, "b": 2}, map[string]int{"a": 2, "c": 4}, nil),
	)

	merged := SumBuckets(
		[]domain.YearlyBucket{{Year: 2018, Commits: map[string]int{"a": 1}}, {Year: 2017, Commits: map[string]int{"a": 2}}},
		[]domain.YearlyBucket{{Year: 2017, Commits: map[string]int{"b": 5}}},
	)
	assert.Equal(t, []domain.YearlyBucket{
		{Year: 2017, Commits: map[string]int{"a": 2, "b": 5}},
		{Year: 2018, Commits: map[string]int{"a": 1}},
	}, merged)
}

func TestSummarize(t *testing.T) {
	series := []domain.AuthorCommitSeries{
		{Author: "quiet", Weeks: []domain.WeeklyCount{{WeekStart: 0, Commits: 0}, {WeekStart: 604800, Commits: 2}}},
		{Author: "busy", Weeks: []domain.WeeklyCount{{WeekStart: 0, Commits: 5}, {WeekStart: 604800, Commits: 3}}},
		{Author: "new"},
	}

	summaries := Summarize(series)

	require.Len(t, summaries, 3)
	assert.Equal(t, "busy", summaries[0].Author)
	assert.Equal(t, 8, summaries[0].Total)
	assert.Equal(t, 2, summaries[0].ActiveWeeks)
	assert.InDelta(t, 4.0, summaries[0].Mean, 1e-9)
	assert.InDelta(t, 4.0, summaries[0].Median, 1e-9)
	assert.Equal(t, int64(0), summaries[0].BusiestWeek)

	assert.Equal(t, "quiet", summaries[1].Author)
	assert.Equal(t, 1, summaries[1].ActiveWeeks)
	assert.Equal(t, int64(604800), summaries[1].BusiestWeek)

	assert.Equal(t, domain.AuthorSummary{Author: "new"}, summaries[2])
}
