package github

import (
	"errors"
	"time"
)

const (
	defaultRatePerSecond = 10
	defaultBurst         = 20
	defaultAttempts      = 3
	defaultRetryDelay    = 200 * time.Millisecond
)

var (
	ErrNotFound     = errors.New("github: pull request not found")
	ErrUnauthorized = errors.New("github: token rejected")
)

// Config configures the GitHub REST client.
type Config struct {
	Token   string
	BaseURL string // API root; empty means https://api.github.com/

	RatePerSecond float64 // outbound request budget shared by all callers
	Burst         int
	Attempts      uint // total tries for transient failures
	RetryDelay    time.Duration
}

// PullRequest is the subset of a GitHub pull request the gateway consumes.
type PullRequest struct {
	Number     int
	Title      string
	Body       string
	State      string // open, closed
	Merged     bool
	HeadRef    string
	BaseRef    string
	OwnerLogin string
	RepoName   string
}
