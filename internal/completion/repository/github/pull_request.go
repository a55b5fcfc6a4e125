package github

import (
	"context"
	"fmt"

	"staticman-gateway/internal/completion/repository"
	"staticman-gateway/internal/model"
	pkgGitHub "staticman-gateway/pkg/github"
)

// Client is the subset of pkg/github the repository needs.
type Client interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (pkgGitHub.PullRequest, error)
}

var _ Client = (*pkgGitHub.Client)(nil)

type implRepository struct {
	client Client
}

// New returns a repository backed by the GitHub REST API.
func New(client Client) repository.PullRequestRepository {
	return &implRepository{client: client}
}

func (r *implRepository) FetchPullRequest(ctx context.Context, ref model.PullRequestRef) (model.PullRequestRecord, error) {
	pr, err := r.client.GetPullRequest(ctx, ref.Owner, ref.Repository, ref.Number)
	if err != nil {
		return model.PullRequestRecord{}, fmt.Errorf("github.FetchPullRequest %s: %w", ref, err)
	}
	return toRecord(pr), nil
}

func toRecord(pr pkgGitHub.PullRequest) model.PullRequestRecord {
	return model.PullRequestRecord{
		Number:         pr.Number,
		Title:          pr.Title,
		Description:    pr.Body,
		SourceBranch:   pr.HeadRef,
		TargetBranch:   pr.BaseRef,
		State:          normalizeState(pr.State, pr.Merged),
		OwnerLogin:     pr.OwnerLogin,
		RepositoryName: pr.RepoName,
	}
}

// GitHub reports a merged pull request as state "closed" with merged=true.
func normalizeState(state string, merged bool) model.PRState {
	switch {
	case merged, state == "merged":
		return model.PRStateMerged
	case state == "open":
		return model.PRStateOpen
	default:
		return model.PRStateClosed
	}
}
