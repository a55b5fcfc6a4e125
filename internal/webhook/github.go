package webhook

import (
	"encoding/json"
	"fmt"

	"staticman-gateway/internal/model"
)

// GitHubWebhookParser parses GitHub webhook payloads
type GitHubWebhookParser struct{}

func NewGitHubParser() *GitHubWebhookParser {
	return &GitHubWebhookParser{}
}

// ParsePullRequestEvent extracts the pull request identity from a
// pull_request delivery. Every other field, state included, is ignored:
// the detector re-fetches the pull request.
func (p *GitHubWebhookParser) ParsePullRequestEvent(payload []byte) (model.PullRequestRef, error) {
	var event struct {
		Number      int `json:"number"`
		PullRequest struct {
			Number int `json:"number"`
		} `json:"pull_request"`
		Repository struct {
			Name  string `json:"name"`
			Owner struct {
				Login string `json:"login"`
			} `json:"owner"`
		} `json:"repository"`
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return model.PullRequestRef{}, fmt.Errorf("failed to parse pull request event: %w", err)
	}

	number := event.Number
	if number == 0 {
		number = event.PullRequest.Number
	}

	return model.PullRequestRef{
		Service:    model.ServiceGitHub,
		Owner:      event.Repository.Owner.Login,
		Repository: event.Repository.Name,
		Number:     number,
	}, nil
}
