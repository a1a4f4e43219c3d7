package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// newTable creates a bordered table; columns after the first are right aligned.
func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == 0:
				return TableCellStyle
			default:
				return TableNumberStyle
			}
		})
}

// RenderYearlyTable renders one row per author and one column per year, plus the total.
// Authors are sorted by total descending.
func RenderYearlyTable(buckets []domain.YearlyBucket, totals map[string]int) string {
	headers := []string{"Author"}
	for _, b := range buckets {
		headers = append(headers, strconv.Itoa(b.Year))
	}
	headers = append(headers, "Total")

	t := newTable().Headers(headers...)
	for _, author := range authorsByTotal(totals) {
		row := []string{author}
		for _, b := range buckets {
			row = append(row, strconv.Itoa(b.Commits[author]))
		}
		row = append(row, strconv.Itoa(totals[author]))
		t.Row(row...)
	}
	return t.Render()
}

// RenderSummaryTable renders the weekly distribution of every author.
func RenderSummaryTable(summaries []domain.AuthorSummary) string {
	t := newTable().Headers("Author", "Total", "Active weeks", "Mean/week", "Median/week", "P90/week", "Busiest week")
	for _, s := range summaries {
		busiest := "-"
		if s.Total > 0 {
			busiest = time.Unix(s.BusiestWeek, 0).UTC().Format(time.DateOnly)
		}
		t.Row(
			s.Author,
			strconv.Itoa(s.Total),
			strconv.Itoa(s.ActiveWeeks),
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.1f", s.Median),
			fmt.Sprintf("%.1f", s.P90),
			busiest,
		)
	}
	return t.Render()
}

// RenderOwnerStats renders the per-repository tables followed by the overall table.
func RenderOwnerStats(stats *domain.OwnerStats) string {
	var b strings.Builder
	for _, repo := range stats.Repositories {
		b.WriteString(TitleStyle.Render(repo.Name))
		b.WriteString("\n")
		if repo.Error != "" {
			b.WriteString(ErrorStyle.Render(repo.Error))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(RenderYearlyTable(repo.Yearly, repo.Totals))
		b.WriteString("\n")
		if len(repo.Summaries) > 0 {
			b.WriteString(RenderSummaryTable(repo.Summaries))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if len(stats.Repositories) > 1 {
		b.WriteString(TitleStyle.Render("Overall " + stats.Owner))
		b.WriteString("\n")
		b.WriteString(RenderYearlyTable(stats.Yearly, stats.Totals))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderReleases renders the releases of a repository.
func RenderReleases(releases []domain.Release) string {
	t := newTable().Headers("Tag", "Name", "Created", "Flags")
	for _, r := range releases {
		var flags []string
		if r.Draft {
			flags = append(flags, "draft")
		}
		if r.Prerelease {
			flags = append(flags, "prerelease")
		}
		created := "-"
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.UTC().Format(time.DateOnly)
		}
		t.Row(r.TagName, r.Name, created, strings.Join(flags, ","))
	}
	return t.Render()
}

func authorsByTotal(totals map[string]int) []string {
	authors := make([]string, 0, len(totals))
	for author := range totals {
		authors = append(authors, author)
	}
	sort.Slice(authors, func(i, j int) bool {
		if totals[authors[i]] != totals[authors[j]] {
			return totals[authors[i]] > totals[authors[j]]
		}
		return authors[i] < authors[j]
	})
	return authors
}
