package webhook

import (
	"encoding/json"
	"fmt"
	"strings"

	"staticman-gateway/internal/model"
)

// GitLabWebhookParser parses GitLab webhook payloads
type GitLabWebhookParser struct{}

func NewGitLabParser() *GitLabWebhookParser {
	return &GitLabWebhookParser{}
}

// ParseMergeRequestEvent extracts the merge request identity from a
// Merge Request Hook delivery. The namespace becomes the owner.
func (p *GitLabWebhookParser) ParseMergeRequestEvent(payload []byte) (model.PullRequestRef, error) {
	var event struct {
		ObjectAttributes struct {
			IID int `json:"iid"`
		} `json:"object_attributes"`
		Project struct {
			PathWithNamespace string `json:"path_with_namespace"`
		} `json:"project"`
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return model.PullRequestRef{}, fmt.Errorf("failed to parse merge request event: %w", err)
	}

	ref := model.PullRequestRef{
		Service: model.ServiceGitLab,
		Number:  event.ObjectAttributes.IID,
	}
	if i := strings.LastIndex(event.Project.PathWithNamespace, "/"); i > 0 {
		ref.Owner = event.Project.PathWithNamespace[:i]
		ref.Repository = event.Project.PathWithNamespace[i+1:]
	}

	return ref, nil
}
