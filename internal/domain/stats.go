// Package domain contains the core data structures and domain logic for the application.
package domain

// WeeklyCount is one bucket of the contributor statistics time series.
// WeekStart is the unix time (seconds, UTC) of the start of the week.
type WeeklyCount struct {
	WeekStart int64 `json:"w"`
	Commits   int   `json:"c"`
}

// AuthorCommitSeries holds the weekly commit counts of a single author,
// exactly as reported by the contributor statistics endpoint.
type AuthorCommitSeries struct {
	Author string        `json:"author"`
	Weeks  []WeeklyCount `json:"weeks"`
}

// YearlyBucket maps each author to the number of commits within one calendar year.
type YearlyBucket struct {
	Year    int            `json:"year"`
	Commits map[string]int `json:"commits"`
}

// AuthorSummary describes the weekly commit distribution of an author.
type AuthorSummary struct {
	Author      string  `json:"author"`
	Total       int     `json:"total"`
	ActiveWeeks int     `json:"active_weeks"`
	Mean        float64 `json:"mean_per_week"`
	Median      float64 `json:"median_per_week"`
	P90         float64 `json:"p90_per_week"`
	BusiestWeek int64   `json:"busiest_week"`
}

// RepoStats holds the aggregated commit statistics for a single repository.
// It is the core domain entity of the stats command.
type RepoStats struct {
	Name      string          `json:"name"`
	Yearly    []YearlyBucket  `json:"yearly,omitempty"`
	Totals    map[string]int  `json:"totals,omitempty"`
	Summaries []AuthorSummary `json:"summaries,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// OwnerStats is the result of aggregating every repository of an owner.
type OwnerStats struct {
	Owner        string         `json:"owner"`
	Repositories []*RepoStats   `json:"repositories"`
	Yearly       []YearlyBucket `json:"yearly"`
	Totals       map[string]int `json:"totals"`
}
