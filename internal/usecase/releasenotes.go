package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// labelLookupLimit bounds the concurrent GraphQL label lookups.
const labelLookupLimit = 4

// BuildReleaseNotes groups prs into one section per category of order.
// Categories without pull requests are left out.
func BuildReleaseNotes(prs []domain.PullRequest, order []domain.Category) domain.ReleaseNoteDocument {
	var doc domain.ReleaseNoteDocument
	for _, c := range order {
		var members []domain.PullRequest
		for _, pr := range prs {
			if pr.Category == c {
				members = append(members, pr)
			}
		}
		if len(members) > 0 {
			doc.Sections = append(doc.Sections, domain.Section{Category: c, PullRequests: members})
		}
	}
	return doc
}

// AssembleReleaseNotes renders the release notes text of prs in the given category order.
func AssembleReleaseNotes(prs []domain.PullRequest, order []domain.Category) string {
	return BuildReleaseNotes(prs, order).String()
}

// ReleaseClient is the part of the gateway the release workflow needs.
type ReleaseClient interface {
	CompareRefs(ctx context.Context, owner, repo, base, head string) ([]domain.Commit, error)
	CreateRelease(ctx context.Context, owner, repo string, req domain.ReleaseRequest) (domain.Release, error)
	FetchPullRequestLabels(ctx context.Context, owner, repo string, number int) ([]string, error)
}

// Categorizer decides the category of a pull request, typically by asking the user.
// suggested is the category the pull request currently has.
type Categorizer interface {
	Categorize(pr domain.PullRequest, suggested domain.Category) (domain.Category, error)
}

// ReleaseWorkflow turns the pull requests merged between two refs into a release.
type ReleaseWorkflow struct {
	client ReleaseClient
	logger *slog.Logger
	order  []domain.Category
}

// NewReleaseWorkflow creates a workflow using the default section order.
func NewReleaseWorkflow(client ReleaseClient, logger *slog.Logger) *ReleaseWorkflow {
	return &ReleaseWorkflow{
		client: client,
		logger: logger,
		order:  domain.DefaultSectionOrder,
	}
}

// CollectPullRequests returns the pull requests merged between base and head.
// Merge commits that cannot be parsed are returned as warnings.
func (w *ReleaseWorkflow) CollectPullRequests(ctx context.Context, owner, repo, base, head string) ([]domain.PullRequest, []error, error) {
	commits, err := w.client.CompareRefs(ctx, owner, repo, base, head)
	if err != nil {
		return nil, nil, err
	}
	prs, warnings := domain.ExtractPullRequests(commits)
	w.logger.Debug("collected pull requests", "commits", len(commits), "pull_requests", len(prs), "skipped", len(warnings))
	return prs, warnings, nil
}

// SuggestCategories pre-assigns categories from the pull request labels.
// A failed lookup is logged and leaves that pull request unchanged.
func (w *ReleaseWorkflow) SuggestCategories(ctx context.Context, owner, repo string, prs []domain.PullRequest) []domain.PullRequest {
	out := make([]domain.PullRequest, len(prs))
	copy(out, prs)

	var eg errgroup.Group
	eg.SetLimit(labelLookupLimit)
	for i, pr := range prs {
		eg.Go(func() error {
			number, err := strconv.Atoi(pr.ID)
			if err != nil {
				return nil
			}
			labels, err := w.client.FetchPullRequestLabels(ctx, owner, repo, number)
			if err != nil {
				w.logger.Warn("failed to look up labels", "pull_request", pr.ID, "error", err)
				return nil
			}
			if c, ok := domain.CategoryForLabels(labels); ok {
				out[i] = pr.WithCategory(c)
			}
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// Categorize asks categorizer for the category of every pull request in order.
func (w *ReleaseWorkflow) Categorize(prs []domain.PullRequest, categorizer Categorizer) (*domain.Categorization, error) {
	categorization := domain.NewCategorization(prs)
	for _, pr := range prs {
		c, err := categorizer.Categorize(pr, pr.Category)
		if err != nil {
			return nil, fmt.Errorf("categorize #%s: %w", pr.ID, err)
		}
		categorization.Assign(pr, c)
	}
	return categorization, nil
}

// Notes renders the release notes of the current categorization.
func (w *ReleaseWorkflow) Notes(categorization *domain.Categorization) string {
	return AssembleReleaseNotes(categorization.PullRequests(), w.order)
}

// NewReleaseRequest builds the request publishing the notes under tag.
func (w *ReleaseWorkflow) NewReleaseRequest(tag, targetBranch string, categorization *domain.Categorization) domain.ReleaseRequest {
	return domain.ReleaseRequest{
		TagName:      tag,
		TargetBranch: targetBranch,
		Name:         tag,
		Body:         w.Notes(categorization),
		Draft:        false,
		Prerelease:   false,
	}
}

// Publish creates the release. The categorization is only read, so a failed
// call can be retried with the same value.
func (w *ReleaseWorkflow) Publish(ctx context.Context, owner, repo, tag, targetBranch string, categorization *domain.Categorization) (domain.Release, error) {
	if tag == "" {
		return domain.Release{}, errors.New("release tag is empty")
	}
	release, err := w.client.CreateRelease(ctx, owner, repo, w.NewReleaseRequest(tag, targetBranch, categorization))
	if err != nil {
		return domain.Release{}, err
	}
	w.logger.Info("release created", "url", release.HTMLURL)
	return release, nil
}

// ReleaseLister lists the releases of a repository.
type ReleaseLister interface {
	ListReleases(ctx context.Context, owner, repo string) ([]domain.Release, error)
}

// RepositoryReleases are the releases loaded for one repository.
type RepositoryReleases struct {
	Repo     string
	Releases []domain.Release
}

// ReleaseBrowser holds the releases of the most recently selected repository.
// Each selection gets a generation number; a response arriving for an older
// generation is discarded so it cannot overwrite a newer selection.
type ReleaseBrowser struct {
	lister ReleaseLister
	owner  string

	mu         sync.Mutex
	generation uint64
	current    *RepositoryReleases
}

// NewReleaseBrowser creates a browser for the repositories of owner.
func NewReleaseBrowser(lister ReleaseLister, owner string) *ReleaseBrowser {
	return &ReleaseBrowser{lister: lister, owner: owner}
}

// ErrSuperseded is returned by Select when another selection happened meanwhile.
var ErrSuperseded = errors.New("selection superseded by a newer one")

// Select loads the releases of repo and makes them current unless a newer
// selection started while loading.
func (b *ReleaseBrowser) Select(ctx context.Context, repo string) (*RepositoryReleases, error) {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	releases, err := b.lister.ListReleases(ctx, b.owner, repo)

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen != b.generation {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	b.current = &RepositoryReleases{Repo: repo, Releases: releases}
	return b.current, nil
}

// Current returns the releases of the latest completed selection, or nil.
func (b *ReleaseBrowser) Current() *RepositoryReleases {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// TagNames returns the tag names of the current releases.
func (b *ReleaseBrowser) TagNames() []string {
	current := b.Current()
	if current == nil {
		return nil
	}
	names := make([]string, 0, len(current.Releases))
	for _, r := range current.Releases {
		names = append(names, r.TagName)
	}
	return names
}
