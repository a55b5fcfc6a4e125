package usecase

import (
	"context"
	"fmt"

	"staticman-gateway/internal/completion"
	"staticman-gateway/internal/model"
	"staticman-gateway/internal/notification"
	"staticman-gateway/pkg/marker"
)

// Detect walks one delivery through Received -> Fetched -> Classified and
// either notifies or discards it.
func (uc *implUseCase) Detect(ctx context.Context, input completion.DetectInput) (completion.DetectOutput, error) {
	ref := input.Ref

	// Received
	if !ref.IsComplete() {
		uc.l.Infof(ctx, "completion.Detect: delivery=%s discarded: %v", input.DeliveryID, completion.ErrMissingIdentity)
		return completion.DetectOutput{Outcome: completion.OutcomeMissingIdentity}, nil
	}

	// Fetched
	record, err := uc.fetch(ctx, ref)
	if err != nil {
		uc.l.Warnf(ctx, "completion.Detect: delivery=%s ref=%s fetch: %v", input.DeliveryID, ref, err)
		return completion.DetectOutput{Outcome: completion.OutcomeFetchFailed}, fmt.Errorf("%w: %w", completion.ErrFetchFailed, err)
	}
	out := completion.DetectOutput{Record: &record}

	// Classified
	raw, ok := marker.Extract(record.Description)
	if !ok {
		uc.l.Debugf(ctx, "completion.Detect: delivery=%s ref=%s has no notification marker", input.DeliveryID, ref)
		out.Outcome = completion.OutcomeNotOurs
		return out, nil
	}
	if record.State != model.PRStateMerged {
		uc.l.Infof(ctx, "completion.Detect: delivery=%s ref=%s state=%s, waiting for merge", input.DeliveryID, ref, record.State)
		out.Outcome = completion.OutcomeNotYetMerged
		return out, nil
	}

	payload, err := marker.Decode(raw)
	if err != nil {
		uc.l.Warnf(ctx, "completion.Detect: delivery=%s ref=%s decode marker: %v", input.DeliveryID, ref, err)
		out.Outcome = completion.OutcomeParseFailed
		return out, fmt.Errorf("%w: %w", completion.ErrMalformedMarker, err)
	}
	out.Payload = &payload

	// Notify
	err = uc.notifier.Notify(ctx, notification.NotifyInput{
		Ref:         ref,
		PullRequest: record,
		Payload:     payload,
	})
	if err != nil {
		uc.l.Warnf(ctx, "completion.Detect: delivery=%s ref=%s notify: %v", input.DeliveryID, ref, err)
		out.Outcome = completion.OutcomeNotifyFailed
		return out, fmt.Errorf("%w: %w", completion.ErrNotifyFailed, err)
	}

	uc.l.Infof(ctx, "completion.Detect: delivery=%s ref=%s merged, notification sent", input.DeliveryID, ref)
	out.Outcome = completion.OutcomeNotified
	return out, nil
}

func (uc *implUseCase) fetch(ctx context.Context, ref model.PullRequestRef) (model.PullRequestRecord, error) {
	repo, ok := uc.repos[ref.Service]
	if !ok {
		return model.PullRequestRecord{}, fmt.Errorf("%w: %s", completion.ErrNoFetcher, ref.Service)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.fetchTimeout)
	defer cancel()

	return repo.FetchPullRequest(ctx, ref)
}
