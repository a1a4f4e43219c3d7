package domain

import (
	"strings"
	"time"
)

// Release is a GitHub release.
type Release struct {
	ID         int64     `json:"id"`
	TagName    string    `json:"tag_name"`
	Name       string    `json:"name"`
	Body       string    `json:"body,omitempty"`
	HTMLURL    string    `json:"html_url,omitempty"`
	Draft      bool      `json:"draft"`
	Prerelease bool      `json:"prerelease"`
	CreatedAt  time.Time `json:"created_at"`
}

// ReleaseRequest is the payload used to create a release.
type ReleaseRequest struct {
	TagName      string
	TargetBranch string
	Name         string
	Body         string
	Draft        bool
	Prerelease   bool
}

// Section is one category block of the release notes.
type Section struct {
	Category     Category
	PullRequests []PullRequest
}

// String renders the header followed by one line per pull request.
// A section without pull requests renders as the empty string.
func (s Section) String() string {
	if len(s.PullRequests) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(s.Category.Header())
	b.WriteString("\n")
	for _, pr := range s.PullRequests {
		b.WriteString(pr.Line())
		b.WriteString("\n")
	}
	return b.String()
}

// ReleaseNoteDocument is the ordered list of non-empty sections.
type ReleaseNoteDocument struct {
	Sections []Section
}

// String serializes the document, separating sections by a blank line.
func (d ReleaseNoteDocument) String() string {
	parts := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		if out := s.String(); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n")
}

// Categorization tracks which category each pull request belongs to.
// Pull requests are identified by ID and keep their insertion order.
type Categorization struct {
	order []string
	prs   map[string]PullRequest
}

// NewCategorization returns a categorization holding prs with their current categories.
func NewCategorization(prs []PullRequest) *Categorization {
	c := &Categorization{prs: make(map[string]PullRequest, len(prs))}
	for _, pr := range prs {
		c.Assign(pr, pr.Category)
	}
	return c
}

// Assign puts pr into category, removing it from the category it was in before.
// Assigning the same category twice has no further effect.
func (c *Categorization) Assign(pr PullRequest, category Category) {
	if c.prs == nil {
		c.prs = make(map[string]PullRequest)
	}
	if _, ok := c.prs[pr.ID]; !ok {
		c.order = append(c.order, pr.ID)
	}
	c.prs[pr.ID] = pr.WithCategory(category)
}

// CategoryOf returns the category pr is assigned to.
func (c *Categorization) CategoryOf(id string) (Category, bool) {
	pr, ok := c.prs[id]
	return pr.Category, ok
}

// Members returns the pull requests of category in insertion order.
func (c *Categorization) Members(category Category) []PullRequest {
	var out []PullRequest
	for _, id := range c.order {
		if pr := c.prs[id]; pr.Category == category {
			out = append(out, pr)
		}
	}
	return out
}

// PullRequests returns every pull request with its assigned category.
func (c *Categorization) PullRequests() []PullRequest {
	out := make([]PullRequest, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.prs[id])
	}
	return out
}

// Section renders the members of category, or "" when it has none.
func (c *Categorization) Section(category Category) string {
	return Section{Category: category, PullRequests: c.Members(category)}.String()
}

// Len returns the number of pull requests.
func (c *Categorization) Len() int {
	return len(c.order)
}
