package gitlab

import (
	"errors"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://gitlab.com"

	defaultTimeout    = 10 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = 200 * time.Millisecond
	maxBodyBytes      = 1 << 20
)

var (
	ErrNotFound     = errors.New("gitlab: merge request not found")
	ErrUnauthorized = errors.New("gitlab: token rejected")
)

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures the GitLab REST client.
type Config struct {
	Token   string
	BaseURL string // instance root, e.g. https://gitlab.com

	RatePerSecond float64
	Burst         int
	Attempts      uint
	RetryDelay    time.Duration
}

// MergeRequest is the subset of a GitLab merge request the gateway consumes.
type MergeRequest struct {
	IID          int    `json:"iid"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	State        string `json:"state"` // opened, closed, locked, merged
	SourceBranch string `json:"source_branch"`
	TargetBranch string `json:"target_branch"`
}
