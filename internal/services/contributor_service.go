package services

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/gitcred/gitcred/pkg/logger"
)

// ContributorService fetches the repository's contributor directory from
// GitHub.
type ContributorService struct {
	client *github.Client
}

// NewContributorService creates a service around an authenticated client
// when a token is supplied, or an anonymous client bound by the much lower
// unauthenticated rate limit otherwise.
func NewContributorService(token string) *ContributorService {
	if token == "" {
		logger.Warn("No GitHub token provided, API rate limit is 60 requests/hour")
		return &ContributorService{client: github.NewClient(nil)}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	logger.Info("Using GitHub token, API rate limit is 5000 requests/hour")
	return &ContributorService{client: github.NewClient(tc)}
}

// Client returns the underlying API client for per-commit and per-user
// lookups.
func (s *ContributorService) Client() *github.Client {
	return s.client
}

// FetchContributors returns every contributor login mapped to its profile
// URL. The listing is paginated through in full, exactly once per run.
func (s *ContributorService) FetchContributors(ctx context.Context, owner, repo string) (map[string]string, error) {
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	loginToProfile := make(map[string]string)

	for {
		contributors, resp, err := s.client.Repositories.ListContributors(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list contributors for %s/%s: %w", owner, repo, err)
		}

		for _, contributor := range contributors {
			loginToProfile[contributor.GetLogin()] = contributor.GetHTMLURL()
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	logger.Infof("Found %d GitHub contributors for %s/%s", len(loginToProfile), owner, repo)
	return loginToProfile, nil
}
