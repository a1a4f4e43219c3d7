// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-release-stats/internal/domain"
)

// ghostLogin is the login GitHub shows for deleted accounts.
const ghostLogin = "ghost"

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	ListRepositories(ctx context.Context, owner string) ([]string, error)
	CompareRefs(ctx context.Context, owner, repo, base, head string) ([]domain.Commit, error)
	ListTags(ctx context.Context, owner, repo string) ([]string, error)
	ListReleases(ctx context.Context, owner, repo string) ([]domain.Release, error)
	GetRelease(ctx context.Context, owner, repo string, id int64) (domain.Release, error)
	CreateRelease(ctx context.Context, owner, repo string, req domain.ReleaseRequest) (domain.Release, error)
	FetchContributorStats(ctx context.Context, owner, repo string) ([]domain.AuthorCommitSeries, error)
	FetchPullRequestLabels(ctx context.Context, owner, repo string, number int) ([]string, error)
}

// Options tune how the gateway talks to GitHub.
type Options struct {
	// BaseURL points the gateway at a GitHub Enterprise server, e.g. https://github.example.com/.
	BaseURL string
	// WaitOnRateLimit sleeps through secondary rate limits instead of failing.
	WaitOnRateLimit bool
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *slog.Logger
}

var _ Fetcher = (*GitHubGateway)(nil)

// pullRequestLabelsQuery fetches the labels of a single pull request.
type pullRequestLabelsQuery struct {
	Repository struct {
		PullRequest struct {
			Number githubv4.Int
			Labels struct {
				Nodes []struct {
					Name string
				}
			} `graphql:"labels(first: 20)"`
		} `graphql:"pullRequest(number: $number)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// Requests carry the header "Authorization: token <token>".
func NewGitHubGateway(token string, opts Options, logger *slog.Logger) (*GitHubGateway, error) {
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}
	var base http.RoundTripper = http.DefaultTransport
	if opts.WaitOnRateLimit {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		base = rateLimitWaiter
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "token"})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   base,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.BaseURL != "" {
		baseURL := strings.TrimSuffix(opts.BaseURL, "/")
		var err error
		restClient, err = restClient.WithEnterpriseURLs(baseURL+"/", baseURL+"/")
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(baseURL+"/api/graphql", httpClient)
	}

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		logger:        logger,
	}, nil
}

// ListRepositories returns the names of the owner's repositories that are not forks.
// The owner is looked up as an organization first and as a user when that is not found.
func (g *GitHubGateway) ListRepositories(ctx context.Context, owner string) ([]string, error) {
	g.logger.Debug("listing organization repositories", "owner", owner)
	repos, err := g.listOrgRepositories(ctx, owner)
	if isNotFound(err) {
		g.logger.Debug("organization not found, listing user repositories", "owner", owner)
		repos, err = g.listUserRepositories(ctx, owner)
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		if repo.GetFork() {
			continue
		}
		names = append(names, repo.GetName())
	}
	g.logger.Debug("listed repositories", "owner", owner, "total", len(repos), "own", len(names))
	return names, nil
}

func (g *GitHubGateway) listOrgRepositories(ctx context.Context, owner string) ([]*github.Repository, error) {
	opts := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var all []*github.Repository
	for {
		repos, resp, err := g.restClient.Repositories.ListByOrg(ctx, owner, opts)
		if err != nil {
			return nil, requestError("list organization repositories", resp, err)
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func (g *GitHubGateway) listUserRepositories(ctx context.Context, owner string) ([]*github.Repository, error) {
	opts := &github.RepositoryListByUserOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var all []*github.Repository
	for {
		repos, resp, err := g.restClient.Repositories.ListByUser(ctx, owner, opts)
		if err != nil {
			return nil, requestError("list user repositories", resp, err)
		}
		all = append(all, repos...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CompareRefs returns the commits reachable from head but not from base.
func (g *GitHubGateway) CompareRefs(ctx context.Context, owner, repo, base, head string) ([]domain.Commit, error) {
	g.logger.Debug("comparing refs", "repo", owner+"/"+repo, "base", base, "head", head)
	opts := &github.ListOptions{PerPage: 100}
	var commits []domain.Commit
	for {
		comparison, resp, err := g.restClient.Repositories.CompareCommits(ctx, owner, repo, base, head, opts)
		if err != nil {
			return nil, requestError("compare refs", resp, err)
		}
		for _, c := range comparison.Commits {
			commits = append(commits, domain.Commit{
				SHA:     c.GetSHA(),
				Author:  c.GetAuthor().GetLogin(),
				Message: c.GetCommit().GetMessage(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	g.logger.Debug("compared refs", "commits", len(commits))
	return commits, nil
}

// ListTags returns the tag names of the repository, newest first as GitHub orders them.
func (g *GitHubGateway) ListTags(ctx context.Context, owner, repo string) ([]string, error) {
	opts := &github.ListOptions{PerPage: 100}
	var names []string
	for {
		tags, resp, err := g.restClient.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, requestError("list tags", resp, err)
		}
		for _, tag := range tags {
			names = append(names, tag.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return names, nil
}

// ListReleases returns the releases of the repository.
func (g *GitHubGateway) ListReleases(ctx context.Context, owner, repo string) ([]domain.Release, error) {
	opts := &github.ListOptions{PerPage: 100}
	var releases []domain.Release
	for {
		page, resp, err := g.restClient.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, requestError("list releases", resp, err)
		}
		for _, r := range page {
			releases = append(releases, toRelease(r))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return releases, nil
}

// GetRelease returns a single release including its body.
func (g *GitHubGateway) GetRelease(ctx context.Context, owner, repo string, id int64) (domain.Release, error) {
	r, resp, err := g.restClient.Repositories.GetRelease(ctx, owner, repo, id)
	if err != nil {
		return domain.Release{}, requestError("get release", resp, err)
	}
	return toRelease(r), nil
}

// CreateRelease posts a new release and returns what GitHub created.
func (g *GitHubGateway) CreateRelease(ctx context.Context, owner, repo string, req domain.ReleaseRequest) (domain.Release, error) {
	g.logger.Info("creating release", "repo", owner+"/"+repo, "tag", req.TagName)
	r, resp, err := g.restClient.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:         github.String(req.TagName),
		TargetCommitish: github.String(req.TargetBranch),
		Name:            github.String(req.Name),
		Body:            github.String(req.Body),
		Draft:           github.Bool(req.Draft),
		Prerelease:      github.Bool(req.Prerelease),
	})
	if err != nil {
		return domain.Release{}, requestError("create release", resp, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return domain.Release{}, &RequestError{Op: "create release", StatusCode: resp.StatusCode, Message: "unexpected status"}
	}
	return toRelease(r), nil
}

// FetchContributorStats returns the weekly commit series of every contributor.
func (g *GitHubGateway) FetchContributorStats(ctx context.Context, owner, repo string) ([]domain.AuthorCommitSeries, error) {
	g.logger.Debug("fetching contributor stats", "repo", owner+"/"+repo)
	contributors, resp, err := g.restClient.Repositories.ListContributorsStats(ctx, owner, repo)
	if err != nil {
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			return nil, fmt.Errorf("%s/%s: %w", owner, repo, domain.ErrStatsPending)
		}
		return nil, requestError("fetch contributor stats", resp, err)
	}

	series := make([]domain.AuthorCommitSeries, 0, len(contributors))
	for _, c := range contributors {
		author := c.GetAuthor().GetLogin()
		if author == "" {
			author = ghostLogin
		}
		if c.Weeks == nil {
			return nil, fmt.Errorf("%w: contributor %s of %s/%s has no weeks", domain.ErrMalformedResponse, author, owner, repo)
		}
		weeks := make([]domain.WeeklyCount, 0, len(c.Weeks))
		for _, w := range c.Weeks {
			weeks = append(weeks, domain.WeeklyCount{
				WeekStart: w.GetWeek().Unix(),
				Commits:   w.GetCommits(),
			})
		}
		series = append(series, domain.AuthorCommitSeries{Author: author, Weeks: weeks})
	}
	g.logger.Debug("fetched contributor stats", "repo", owner+"/"+repo, "contributors", len(series))
	return series, nil
}

// FetchPullRequestLabels returns the label names of a pull request using the GraphQL API.
func (g *GitHubGateway) FetchPullRequestLabels(ctx context.Context, owner, repo string, number int) ([]string, error) {
	variables := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	var q pullRequestLabelsQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for labels of #%d: %w", number, err)
	}
	labels := make([]string, 0, len(q.Repository.PullRequest.Labels.Nodes))
	for _, node := range q.Repository.PullRequest.Labels.Nodes {
		labels = append(labels, node.Name)
	}
	return labels, nil
}

func toRelease(r *github.RepositoryRelease) domain.Release {
	return domain.Release{
		ID:         r.GetID(),
		TagName:    r.GetTagName(),
		Name:       r.GetName(),
		Body:       r.GetBody(),
		HTMLURL:    r.GetHTMLURL(),
		Draft:      r.GetDraft(),
		Prerelease: r.GetPrerelease(),
		CreatedAt:  r.GetCreatedAt().Time,
	}
}
