package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/go-github/v57/github"

	"github.com/gitcred/gitcred/internal/cache"
	"github.com/gitcred/gitcred/internal/models"
	"github.com/gitcred/gitcred/pkg/logger"
)

const (
	// maxLookupAttempts bounds retries of a rate-limited API call.
	maxLookupAttempts = 4
	baseBackoff       = time.Second
)

// ResolverService matches aggregated email records to GitHub identities,
// spending as few API calls as possible. Cheap checks run first: a
// contributor-login match costs nothing, the commit-author lookup costs one
// call, and the full profile lookup costs one more. Every API result goes
// through the persistent profile cache, misses included.
type ResolverService struct {
	client       *github.Client
	cache        *cache.ProfileCache
	contributors map[string]string
	owner        string
	repo         string
	details      bool
}

// NewResolverService creates a new resolver service. contributors maps
// login to profile URL as returned by ContributorService. details enables
// the full-profile tier.
func NewResolverService(client *github.Client, profileCache *cache.ProfileCache, contributors map[string]string, owner, repo string, details bool) *ResolverService {
	return &ResolverService{
		client:       client,
		cache:        profileCache,
		contributors: contributors,
		owner:        owner,
		repo:         repo,
		details:      details,
	}
}

// Resolve determines the best-known GitHub identity for one email record.
func (s *ResolverService) Resolve(ctx context.Context, record *models.EmailRecord) (models.Identity, error) {
	// Tier 1: the email's local part matches a contributor login.
	if login, profileURL, ok := s.matchContributor(record.Email); ok {
		if !s.details {
			return models.Identity{
				Source:     models.SourceContributorMatch,
				ProfileURL: profileURL,
			}, nil
		}
		return s.resolveUser(ctx, login)
	}

	// Tier 2: ask the API who authored the sample commit.
	profile, err := s.lookupCommitAuthor(ctx, record.SampleSHA)
	if err != nil {
		return models.Identity{}, err
	}

	if profile.ProfileURL == "" {
		return models.Identity{Source: models.SourceUnresolved}, nil
	}

	// Tier 3: escalate to the full profile when details are requested.
	if s.details {
		if login := loginFromProfileURL(profile.ProfileURL); login != "" {
			return s.resolveUser(ctx, login)
		}
	}

	return models.Identity{
		Source:     models.SourceCommitAuthor,
		ProfileURL: profile.ProfileURL,
		Name:       profile.Name,
	}, nil
}

// matchContributor scans the contributor directory for a login equal to the
// email's local part, ignoring case.
func (s *ResolverService) matchContributor(email string) (login, profileURL string, ok bool) {
	guess := strings.ToLower(localPart(email))
	if guess == "" {
		return "", "", false
	}

	for l, url := range s.contributors {
		if strings.ToLower(l) == guess {
			return l, url, true
		}
	}

	return "", "", false
}

// lookupCommitAuthor finds the GitHub account linked to a commit, if any.
// Results are cached per SHA; a commit with no linked account is cached as
// an empty profile so it is never fetched twice.
func (s *ResolverService) lookupCommitAuthor(ctx context.Context, sha string) (models.CachedProfile, error) {
	if profile, ok := s.cache.GetCommit(sha); ok {
		logger.Debugf("Cache hit for commit %s", shortSHA(sha))
		return profile, nil
	}

	logger.Infof("Looking up author of commit %s", shortSHA(sha))

	var commit *github.RepositoryCommit
	err := s.withRetry(ctx, "commit lookup", func() error {
		var err error
		commit, _, err = s.client.Repositories.GetCommit(ctx, s.owner, s.repo, sha, nil)
		return err
	})
	if err != nil {
		return models.CachedProfile{}, fmt.Errorf("failed to fetch commit %s: %w", shortSHA(sha), err)
	}

	var profile models.CachedProfile
	if commit.Author != nil {
		profile.ProfileURL = commit.Author.GetHTMLURL()
	}
	if commit.Commit != nil && commit.Commit.Author != nil {
		profile.Name = commit.Commit.Author.GetName()
	}

	s.cache.PutCommit(sha, profile)
	return profile, nil
}

// resolveUser fetches the full profile for a login. The blog field is split
// into either a LinkedIn link or a personal website, never both.
func (s *ResolverService) resolveUser(ctx context.Context, login string) (models.Identity, error) {
	profile, ok := s.cache.GetUser(login)
	if ok {
		logger.Debugf("Cache hit for user %s", login)
	} else {
		logger.Infof("Looking up profile of user %s", login)

		var user *github.User
		err := s.withRetry(ctx, "user lookup", func() error {
			var err error
			user, _, err = s.client.Users.Get(ctx, login)
			return err
		})
		if err != nil {
			return models.Identity{}, fmt.Errorf("failed to fetch user %s: %w", login, err)
		}

		linkedin, website := splitBlog(user.GetBlog())
		profile = models.CachedProfile{
			ProfileURL: user.GetHTMLURL(),
			Name:       user.GetName(),
			LinkedIn:   linkedin,
			Website:    website,
			Company:    user.GetCompany(),
		}
		s.cache.PutUser(login, profile)
	}

	return models.Identity{
		Source:     models.SourceFullDetail,
		ProfileURL: profile.ProfileURL,
		Name:       profile.Name,
		LinkedIn:   profile.LinkedIn,
		Website:    profile.Website,
		Company:    profile.Company,
	}, nil
}

// withRetry runs call, retrying only rate-limit failures and giving up once
// the attempt bound is reached. Cancelling ctx aborts the wait.
func (s *ResolverService) withRetry(ctx context.Context, op string, call func() error) error {
	return retry.Do(call,
		retry.Attempts(maxLookupAttempts),
		retry.Delay(baseBackoff),
		retry.DelayType(rateLimitDelay),
		retry.RetryIf(isRateLimited),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnf("GitHub rate limit hit during %s, attempt %d of %d", op, n+1, maxLookupAttempts)
		}),
	)
}

// isRateLimited reports whether err is a primary or secondary rate-limit
// response. Any other failure is surfaced on the first attempt.
func isRateLimited(err error) bool {
	var limitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &limitErr) || errors.As(err, &abuseErr)
}

// rateLimitDelay doubles the base delay per attempt, capped by a
// server-provided Retry-After when that is shorter.
func rateLimitDelay(n uint, err error, config *retry.Config) time.Duration {
	return capToRetryAfter(retry.BackOffDelay(n, err, config), err)
}

// capToRetryAfter prefers the server's Retry-After over the computed backoff
// when the server asks for less.
func capToRetryAfter(backoff time.Duration, err error) time.Duration {
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) && abuseErr.RetryAfter != nil && *abuseErr.RetryAfter < backoff {
		return *abuseErr.RetryAfter
	}
	return backoff
}

// splitBlog classifies a profile's blog field as either a LinkedIn URL or a
// generic personal website. Exactly one side is set for a non-empty value.
func splitBlog(blog string) (linkedin, website string) {
	if blog == "" {
		return "", ""
	}
	if strings.Contains(strings.ToLower(blog), "linkedin.com") {
		return blog, ""
	}
	return "", blog
}

// loginFromProfileURL extracts the login from a profile URL such as
// https://github.com/octocat.
func loginFromProfileURL(profileURL string) string {
	trimmed := strings.TrimRight(profileURL, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return ""
}

// localPart returns everything before the first @, or the whole string when
// there is none.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// shortSHA truncates a commit hash for display
func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
