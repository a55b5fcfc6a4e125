package notification

import "errors"

var ErrNoChannels = errors.New("notification: no channels configured")
