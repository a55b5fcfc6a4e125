package notification

import "staticman-gateway/internal/model"

// NotifyInput carries the recovered payload together with the pull request
// that completed.
type NotifyInput struct {
	Ref         model.PullRequestRef
	PullRequest model.PullRequestRecord
	Payload     model.NotificationPayload
}
