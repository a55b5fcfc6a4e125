package usecase

import (
	"time"

	"staticman-gateway/internal/completion"
	"staticman-gateway/internal/completion/repository"
	"staticman-gateway/internal/model"
	"staticman-gateway/internal/notification"
	pkgLog "staticman-gateway/pkg/log"
)

const defaultFetchTimeout = 10 * time.Second

type implUseCase struct {
	l            pkgLog.Logger
	repos        map[model.Service]repository.PullRequestRepository
	notifier     notification.Notifier
	fetchTimeout time.Duration
}

// New creates the completion detector. repos maps each origin platform to
// its authoritative pull request source; a non-positive fetchTimeout falls
// back to 10s.
func New(
	l pkgLog.Logger,
	repos map[model.Service]repository.PullRequestRepository,
	notifier notification.Notifier,
	fetchTimeout time.Duration,
) completion.UseCase {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &implUseCase{
		l:            l,
		repos:        repos,
		notifier:     notifier,
		fetchTimeout: fetchTimeout,
	}
}
