package notification

import "context"

// Notifier delivers the notification for a merged pull request.
type Notifier interface {
	Notify(ctx context.Context, input NotifyInput) error
}
