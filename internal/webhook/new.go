package webhook

import (
	"context"
	"sync"
	"time"

	"staticman-gateway/internal/completion"
	pkgLog "staticman-gateway/pkg/log"
)

const (
	defaultProcessTimeout = 30 * time.Second
	// GitHub and GitLab give up on a delivery after 10s.
	defaultAckTimeout = 8 * time.Second
)

type Handler struct {
	completionUC   completion.UseCase
	security       *SecurityValidator
	githubParser   *GitHubWebhookParser
	gitlabParser   *GitLabWebhookParser
	processTimeout time.Duration
	ackTimeout     time.Duration
	maxPayload     int64
	wg             sync.WaitGroup
	l              pkgLog.Logger
}

func NewHandler(
	completionUC completion.UseCase,
	cfg Config,
	l pkgLog.Logger,
) *Handler {
	if cfg.ProcessTimeout <= 0 {
		cfg.ProcessTimeout = defaultProcessTimeout
	}
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = defaultAckTimeout
	}
	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = defaultMaxPayloadBytes
	}
	return &Handler{
		completionUC:   completionUC,
		security:       NewSecurityValidator(cfg.Security),
		githubParser:   NewGitHubParser(),
		gitlabParser:   NewGitLabParser(),
		processTimeout: cfg.ProcessTimeout,
		ackTimeout:     cfg.AckTimeout,
		maxPayload:     cfg.MaxPayloadBytes,
		l:              l,
	}
}

// Wait blocks until every detection started by the handler has finished or
// ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
