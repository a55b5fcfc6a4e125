package repository

import (
	"context"

	"staticman-gateway/internal/model"
)

// PullRequestRepository reads the authoritative state of a pull request from
// its origin platform.
type PullRequestRepository interface {
	FetchPullRequest(ctx context.Context, ref model.PullRequestRef) (model.PullRequestRecord, error)
}
