// Package github fetches pull requests from the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client is a rate-limited GitHub API client.
type Client struct {
	client     *gh.Client
	limiter    *rate.Limiter
	attempts   uint
	retryDelay time.Duration
}

// NewClient creates a Client authenticated with cfg.Token.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrUnauthorized
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}))
	client := gh.NewClient(httpClient)

	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github: invalid base url %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = u
	}

	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Client{
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// GetPullRequest fetches pull request number from owner/repo.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequest, error) {
	var pr *gh.PullRequest

	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}

			var resp *gh.Response
			var err error
			pr, resp, err = c.client.PullRequests.Get(ctx, owner, repo, number)
			if err == nil {
				return nil
			}
			return classify(resp, err)
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return PullRequest{}, fmt.Errorf("github: get pull request %s/%s#%d: %w", owner, repo, number, err)
	}

	return convertPullRequest(pr, owner, repo), nil
}

// classify marks client errors as unrecoverable; server errors and network
// failures are retried.
func classify(resp *gh.Response, err error) error {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return retry.Unrecoverable(err)
	}

	if resp == nil || resp.Response == nil {
		return err
	}

	switch code := resp.StatusCode; {
	case code == http.StatusNotFound:
		return retry.Unrecoverable(fmt.Errorf("%w: %v", ErrNotFound, err))
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return retry.Unrecoverable(fmt.Errorf("%w: %v", ErrUnauthorized, err))
	case code >= http.StatusInternalServerError:
		return err
	default:
		return retry.Unrecoverable(err)
	}
}

func convertPullRequest(pr *gh.PullRequest, owner, repo string) PullRequest {
	out := PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		State:      pr.GetState(),
		Merged:     pr.GetMerged() || pr.MergedAt != nil,
		OwnerLogin: owner,
		RepoName:   repo,
	}

	if pr.Head != nil {
		out.HeadRef = pr.Head.GetRef()
	}
	if pr.Base != nil {
		out.BaseRef = pr.Base.GetRef()
		if r := pr.Base.Repo; r != nil {
			out.RepoName = r.GetName()
			if r.Owner != nil {
				out.OwnerLogin = r.Owner.GetLogin()
			}
		}
	}

	return out
}
