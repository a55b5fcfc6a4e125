package gitlab

import (
	"context"
	"fmt"

	"staticman-gateway/internal/completion/repository"
	"staticman-gateway/internal/model"
	pkgGitLab "staticman-gateway/pkg/gitlab"
)

// Client is the subset of pkg/gitlab the repository needs.
type Client interface {
	GetMergeRequest(ctx context.Context, path string, iid int) (pkgGitLab.MergeRequest, error)
}

var _ Client = (*pkgGitLab.Client)(nil)

type implRepository struct {
	client Client
}

// New returns a repository backed by the GitLab REST API.
func New(client Client) repository.PullRequestRepository {
	return &implRepository{client: client}
}

func (r *implRepository) FetchPullRequest(ctx context.Context, ref model.PullRequestRef) (model.PullRequestRecord, error) {
	path := ref.Owner + "/" + ref.Repository
	mr, err := r.client.GetMergeRequest(ctx, path, ref.Number)
	if err != nil {
		return model.PullRequestRecord{}, fmt.Errorf("gitlab.FetchPullRequest %s: %w", ref, err)
	}

	return model.PullRequestRecord{
		Number:         mr.IID,
		Title:          mr.Title,
		Description:    mr.Description,
		SourceBranch:   mr.SourceBranch,
		TargetBranch:   mr.TargetBranch,
		State:          normalizeState(mr.State),
		OwnerLogin:     ref.Owner,
		RepositoryName: ref.Repository,
	}, nil
}

func normalizeState(state string) model.PRState {
	switch state {
	case "merged":
		return model.PRStateMerged
	case "opened", "locked":
		return model.PRStateOpen
	default:
		return model.PRStateClosed
	}
}
