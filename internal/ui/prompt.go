package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// CategoryPrompter asks for the category of each pull request on a line-based terminal.
// An empty answer keeps the suggested category; end of input keeps it for every remaining one.
type CategoryPrompter struct {
	in     *bufio.Scanner
	out    io.Writer
	legend bool
	eof    bool
}

// NewCategoryPrompter reads answers from in and writes questions to out.
func NewCategoryPrompter(in io.Reader, out io.Writer) *CategoryPrompter {
	return &CategoryPrompter{in: bufio.NewScanner(in), out: out}
}

// Categorize implements usecase.Categorizer. Unknown answers are asked again.
func (p *CategoryPrompter) Categorize(pr domain.PullRequest, suggested domain.Category) (domain.Category, error) {
	if !p.legend {
		p.printLegend()
		p.legend = true
	}
	for {
		if p.eof {
			return suggested, nil
		}
		fmt.Fprintf(p.out, "Category for '%s' [%s]? ", pr.Line(), suggested.Label())
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return suggested, fmt.Errorf("read answer: %w", err)
			}
			fmt.Fprintln(p.out)
			p.eof = true
			return suggested, nil
		}
		answer := strings.TrimSpace(p.in.Text())
		if answer == "" {
			return suggested, nil
		}
		if c, ok := domain.ParseCategory(answer); ok {
			return c, nil
		}
		fmt.Fprintln(p.out, ErrorStyle.Render(fmt.Sprintf("unknown category %q", answer)))
	}
}

func (p *CategoryPrompter) printLegend() {
	fmt.Fprintln(p.out, "Assign PRs to category:")
	for _, c := range domain.DefaultSectionOrder {
		if c.Shorthand() == "" {
			continue
		}
		fmt.Fprintln(p.out, "  "+c.LegendLine())
	}
	fmt.Fprintln(p.out, "  "+MutedStyle.Render("<enter>: keep the suggestion, full names are accepted too"))
}

// Confirm asks a yes/no question on the same input as the category questions.
// Anything but y or yes, including end of input, is a no.
func (p *CategoryPrompter) Confirm(question string) (bool, error) {
	if p.eof {
		return false, nil
	}
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	if !p.in.Scan() {
		p.eof = true
		fmt.Fprintln(p.out)
		return false, p.in.Err()
	}
	switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
