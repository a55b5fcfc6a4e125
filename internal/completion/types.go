package completion

import "staticman-gateway/internal/model"

// Outcome is the terminal state reached by one delivery.
type Outcome string

const (
	OutcomeMissingIdentity Outcome = "missing-identity"
	OutcomeFetchFailed     Outcome = "fetch-failed"
	OutcomeNotOurs         Outcome = "not-ours"
	OutcomeNotYetMerged    Outcome = "not-yet-merged"
	OutcomeParseFailed     Outcome = "parse-failed"
	OutcomeNotified        Outcome = "notified"
	OutcomeNotifyFailed    Outcome = "notify-failed"
)

// Notified reports whether the notifier was invoked.
func (o Outcome) Notified() bool {
	return o == OutcomeNotified || o == OutcomeNotifyFailed
}

type DetectInput struct {
	DeliveryID string
	Ref        model.PullRequestRef
}

type DetectOutput struct {
	Outcome Outcome
	Record  *model.PullRequestRecord   // set once the fetch succeeded
	Payload *model.NotificationPayload // set once the marker decoded
}
