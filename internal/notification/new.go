package notification

import (
	"context"
	"errors"
)

type multiNotifier struct {
	channels []Notifier
}

// New fans a notification out to every channel. All channels are attempted;
// their errors are joined.
func New(channels ...Notifier) (Notifier, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if len(channels) == 1 {
		return channels[0], nil
	}
	return &multiNotifier{channels: channels}, nil
}

func (m *multiNotifier) Notify(ctx context.Context, input NotifyInput) error {
	var errs []error
	for _, ch := range m.channels {
		if err := ch.Notify(ctx, input); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
