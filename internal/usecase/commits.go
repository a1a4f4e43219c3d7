package usecase

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// CommitsPerAuthorInRange sums, per author, the commits of every week starting in [start, end).
// Authors without commits in the range are present with 0.
func CommitsPerAuthorInRange(series []domain.AuthorCommitSeries, start, end time.Time) map[string]int {
	from, to := start.Unix(), end.Unix()
	result := make(map[string]int, len(series))
	for _, s := range series {
		total := result[s.Author]
		for _, w := range s.Weeks {
			if w.WeekStart >= from && w.WeekStart < to {
				total += w.Commits
			}
		}
		result[s.Author] = total
	}
	return result
}

// YearlyBuckets returns one bucket per calendar year in [startYear, endYear).
// Year boundaries are UTC; week timestamps are used as supplied.
func YearlyBuckets(series []domain.AuthorCommitSeries, startYear, endYear int) []domain.YearlyBucket {
	if endYear <= startYear {
		return []domain.YearlyBucket{}
	}
	buckets := make([]domain.YearlyBucket, 0, endYear-startYear)
	for year := startYear; year < endYear; year++ {
		buckets = append(buckets, domain.YearlyBucket{
			Year:    year,
			Commits: CommitsPerAuthorInRange(series, yearStart(year), yearStart(year+1)),
		})
	}
	return buckets
}

// TotalCommitsPerAuthor sums every week of every author.
func TotalCommitsPerAuthor(series []domain.AuthorCommitSeries) map[string]int {
	result := make(map[string]int, len(series))
	for _, s := range series {
		total := result[s.Author]
		for _, w := range s.Weeks {
			total += w.Commits
		}
		result[s.Author] = total
	}
	return result
}

// SumByAuthor merges per-repository counts into one map.
func SumByAuthor(counts ...map[string]int) map[string]int {
	result := make(map[string]int)
	for _, m := range counts {
		for author, n := range m {
			result[author] += n
		}
	}
	return result
}

// SumBuckets merges yearly buckets of several repositories year by year.
func SumBuckets(perRepo ...[]domain.YearlyBucket) []domain.YearlyBucket {
	byYear := make(map[int][]map[string]int)
	for _, buckets := range perRepo {
		for _, b := range buckets {
			byYear[b.Year] = append(byYear[b.Year], b.Commits)
		}
	}
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	result := make([]domain.YearlyBucket, 0, len(years))
	for _, year := range years {
		result = append(result, domain.YearlyBucket{Year: year, Commits: SumByAuthor(byYear[year]...)})
	}
	return result
}

// Summarize computes the weekly commit distribution of every author, sorted by total descending.
func Summarize(series []domain.AuthorCommitSeries) []domain.AuthorSummary {
	summaries := make([]domain.AuthorSummary, 0, len(series))
	for _, s := range series {
		summary := domain.AuthorSummary{Author: s.Author}
		if len(s.Weeks) == 0 {
			summaries = append(summaries, summary)
			continue
		}

		data := make(stats.Float64Data, 0, len(s.Weeks))
		busiest := s.Weeks[0]
		for _, w := range s.Weeks {
			data = append(data, float64(w.Commits))
			summary.Total += w.Commits
			if w.Commits > 0 {
				summary.ActiveWeeks++
			}
			if w.Commits > busiest.Commits {
				busiest = w
			}
		}
		summary.BusiestWeek = busiest.WeekStart
		// Errors only occur for empty input, which is excluded above.
		summary.Mean, _ = data.Mean()
		summary.Median, _ = data.Median()
		summary.P90, _ = data.Percentile(90)
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Total != summaries[j].Total {
			return summaries[i].Total > summaries[j].Total
		}
		return summaries[i].Author < summaries[j].Author
	})
	return summaries
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
