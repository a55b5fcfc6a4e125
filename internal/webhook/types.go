package webhook

import "time"

const (
	headerGitHubEvent     = "X-GitHub-Event"
	headerGitHubDelivery  = "X-GitHub-Delivery"
	headerGitHubSignature = "X-Hub-Signature-256"
	headerGitLabEvent     = "X-Gitlab-Event"
	headerGitLabDelivery  = "X-Gitlab-Event-UUID"
	headerGitLabToken     = "X-Gitlab-Token"

	// GitHub drops deliveries over 25MB, GitLab stays well below.
	defaultMaxPayloadBytes = 25 << 20

	statusAccepted  = "accepted"
	statusIgnored   = "ignored"
	statusDiscarded = "discarded"
	statusProcessed = "processed"
)

// SecurityConfig holds webhook security settings.
type SecurityConfig struct {
	Secret string // Shared secret; empty disables verification
}

// Config configures the webhook handler.
type Config struct {
	Security SecurityConfig
	// ProcessTimeout bounds the whole detection of one delivery.
	ProcessTimeout time.Duration
	// AckTimeout bounds how long the origin waits for its response. It must
	// stay under the origin's own delivery timeout.
	AckTimeout time.Duration
	// MaxPayloadBytes caps the delivery body; larger bodies are discarded.
	MaxPayloadBytes int64
}

// ackResponse is the body returned to the webhook origin.
type ackResponse struct {
	Status     string `json:"status"`
	DeliveryID string `json:"delivery_id,omitempty"`
	Outcome    string `json:"outcome,omitempty"`
}
