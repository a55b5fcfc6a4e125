package completion

import "context"

// UseCase classifies pull request webhook deliveries and notifies when a
// gateway-created pull request has been merged.
type UseCase interface {
	// Detect re-fetches the referenced pull request and runs it through
	// classification. The returned error is set for the failure outcomes
	// (fetch-failed, parse-failed, notify-failed) and is informational only.
	Detect(ctx context.Context, input DetectInput) (DetectOutput, error)
}
