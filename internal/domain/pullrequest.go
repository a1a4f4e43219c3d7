package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// MergeCommitPrefix starts every commit message created by merging a pull request.
const MergeCommitPrefix = "Merge pull request"

var pullRequestNumberPattern = regexp.MustCompile(`#(\d+)`)

// PullRequest is a merged pull request as it appears in the release notes.
type PullRequest struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// WithCategory returns a copy of the pull request assigned to c.
func (pr PullRequest) WithCategory(c Category) PullRequest {
	pr.Category = c
	return pr
}

// Line renders the pull request as a release-note bullet.
func (pr PullRequest) Line() string {
	return fmt.Sprintf("- %s (#%s)", pr.Description, pr.ID)
}

// Commit is a commit returned by the compare endpoint.
type Commit struct {
	SHA     string `json:"sha"`
	Author  string `json:"author"`
	Message string `json:"message"`
}

// IsPullRequestMerge reports whether the commit was created by merging a pull request.
func (c Commit) IsPullRequestMerge() bool {
	return strings.HasPrefix(strings.TrimSpace(c.Message), MergeCommitPrefix)
}

// ParsePullRequest extracts a pull request from a merge-commit message.
// The first non-blank line must reference the pull request number as #<digits>
// and the second non-blank line is used as the description.
func ParsePullRequest(message string) (PullRequest, error) {
	var lines []string
	for _, line := range strings.Split(message, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) == 0 {
		return PullRequest{}, fmt.Errorf("%w: empty message", ErrParseFailure)
	}

	match := pullRequestNumberPattern.FindStringSubmatch(lines[0])
	if match == nil {
		return PullRequest{}, fmt.Errorf("%w: no pull request number in %q", ErrParseFailure, lines[0])
	}
	if len(lines) < 2 {
		return PullRequest{}, fmt.Errorf("%w: no description after %q", ErrParseFailure, lines[0])
	}

	return PullRequest{
		ID:          match[1],
		Description: lines[1],
		Category:    Basic,
	}, nil
}

// ExtractPullRequests parses every pull request merge among commits.
// Merges that cannot be parsed are reported in the returned errors and skipped.
func ExtractPullRequests(commits []Commit) ([]PullRequest, []error) {
	var prs []PullRequest
	var errs []error
	for _, c := range commits {
		if !c.IsPullRequestMerge() {
			continue
		}
		pr, err := ParsePullRequest(c.Message)
		if err != nil {
			errs = append(errs, fmt.Errorf("commit %s: %w", shortSHA(c.SHA), err))
			continue
		}
		prs = append(prs, pr)
	}
	return prs, errs
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
