package notification

import (
	"context"

	pkgLog "staticman-gateway/pkg/log"
)

type logNotifier struct {
	l pkgLog.Logger
}

// NewLogNotifier returns a Notifier that only records the notification.
func NewLogNotifier(l pkgLog.Logger) Notifier {
	return &logNotifier{l: l}
}

func (n *logNotifier) Notify(ctx context.Context, input NotifyInput) error {
	p := input.Payload.Parameters
	n.l.Infof(ctx, "notification.Notify: %s merged: site=%s/%s branch=%s version=%s fields=%d options=%v",
		input.Ref, p.Username, p.Repository, p.Branch, p.Version, len(input.Payload.Fields), input.Payload.Options)
	return nil
}
