package model

// WebhookDelivery is a single inbound webhook call. It is built per request,
// consumed synchronously and never persisted.
type WebhookDelivery struct {
	Service    Service // Platform that sent the delivery
	EventType  string  // X-GitHub-Event / X-Gitlab-Event
	DeliveryID string  // X-GitHub-Delivery, or a generated id
	Payload    []byte  // Raw body
}

// GitHub and GitLab event identifiers the ingress forwards.
const (
	GitHubEventPullRequest  = "pull_request"
	GitLabEventMergeRequest = "Merge Request Hook"
)
