// Package gitlab fetches merge requests from the GitLab REST API (v4).
package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/time/rate"
)

// Client is a rate-limited GitLab API client.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
	limiter    *rate.Limiter
	attempts   uint
	retryDelay time.Duration
}

// NewClient creates a Client. A nil httpClient uses a default client with a
// request timeout.
func NewClient(cfg Config, httpClient HTTPClient) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
	}
}

// GetMergeRequest fetches merge request iid of the project at path
// ("namespace/project").
func (c *Client) GetMergeRequest(ctx context.Context, path string, iid int) (MergeRequest, error) {
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d", c.baseURL, url.PathEscape(path), iid)

	var mr MergeRequest
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			return c.doRequest(ctx, endpoint, &mr)
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return MergeRequest{}, fmt.Errorf("gitlab: get merge request %s!%d: %w", path, iid, err)
	}

	return mr, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("PRIVATE-TOKEN", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.Unmarshal(body, result); err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return retry.Unrecoverable(ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return retry.Unrecoverable(ErrUnauthorized)
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	default:
		return retry.Unrecoverable(fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}
}
