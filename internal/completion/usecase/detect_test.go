package usecase_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"staticman-gateway/internal/completion"
	"staticman-gateway/internal/completion/repository"
	"staticman-gateway/internal/completion/usecase"
	"staticman-gateway/internal/model"
	"staticman-gateway/internal/notification"
	"staticman-gateway/pkg/log"
)

type mockRepo struct {
	record model.PullRequestRecord
	err    error
	calls  int
	sleep  time.Duration
}

func (m *mockRepo) FetchPullRequest(ctx context.Context, ref model.PullRequestRef) (model.PullRequestRecord, error) {
	m.calls++
	if m.sleep > 0 {
		select {
		case <-time.After(m.sleep):
		case <-ctx.Done():
			return model.PullRequestRecord{}, ctx.Err()
		}
	}
	return m.record, m.err
}

type mockNotifier struct {
	inputs []notification.NotifyInput
	err    error
}

func (m *mockNotifier) Notify(ctx context.Context, input notification.NotifyInput) error {
	m.inputs = append(m.inputs, input)
	return m.err
}

const johndoeBody = `Dear human,

Here's a new entry for your approval. :tada:

<!--staticman_notification:{"fields":{"name":"John Doe"},"options":{"subscribe":"email"},"parameters":{"branch":"master","repository":"foobar","username":"johndoe","version":"1"}}-->`

func johndoeRef() model.PullRequestRef {
	return model.PullRequestRef{Service: model.ServiceGitHub, Owner: "johndoe", Repository: "foobar", Number: 1}
}

func newUseCase(repo *mockRepo, n *mockNotifier) completion.UseCase {
	return usecase.New(
		log.NewNop(),
		map[model.Service]repository.PullRequestRepository{model.ServiceGitHub: repo},
		n,
		time.Second,
	)
}

func TestDetect_MergedNotifiesOnce(t *testing.T) {
	repo := &mockRepo{record: model.PullRequestRecord{
		Number:       1,
		Description:  johndoeBody,
		State:        model.PRStateMerged,
		SourceBranch: "staticman_1234567",
		TargetBranch: "master",
	}}
	n := &mockNotifier{}

	out, err := newUseCase(repo, n).Detect(context.Background(), completion.DetectInput{DeliveryID: "d-1", Ref: johndoeRef()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Outcome != completion.OutcomeNotified {
		t.Fatalf("outcome = %s, want %s", out.Outcome, completion.OutcomeNotified)
	}
	if len(n.inputs) != 1 {
		t.Fatalf("notifier called %d times, want 1", len(n.inputs))
	}

	want := model.NotificationPayload{
		Parameters: model.NotificationParameters{Branch: "master", Repository: "foobar", Username: "johndoe", Version: "1"},
		Fields:     map[string]any{"name": "John Doe"},
		Options:    map[string]any{"subscribe": "email"},
	}
	if !reflect.DeepEqual(n.inputs[0].Payload, want) {
		t.Errorf("payload = %+v, want %+v", n.inputs[0].Payload, want)
	}
	if n.inputs[0].Ref != johndoeRef() {
		t.Errorf("ref = %v", n.inputs[0].Ref)
	}
	if n.inputs[0].PullRequest.SourceBranch != "staticman_1234567" {
		t.Errorf("pull request not forwarded: %+v", n.inputs[0].PullRequest)
	}
}

func TestDetect_Discards(t *testing.T) {
	tcs := map[string]struct {
		ref     model.PullRequestRef
		repo    *mockRepo
		outcome completion.Outcome
		wantErr error
		fetches int
	}{
		"open with marker": {
			ref:     johndoeRef(),
			repo:    &mockRepo{record: model.PullRequestRecord{Description: johndoeBody, State: model.PRStateOpen}},
			outcome: completion.OutcomeNotYetMerged,
			fetches: 1,
		},
		"closed without merge": {
			ref:     johndoeRef(),
			repo:    &mockRepo{record: model.PullRequestRecord{Description: johndoeBody, State: model.PRStateClosed}},
			outcome: completion.OutcomeNotYetMerged,
			fetches: 1,
		},
		"merged without marker": {
			ref:     johndoeRef(),
			repo:    &mockRepo{record: model.PullRequestRecord{Description: "Bump deps", State: model.PRStateMerged}},
			outcome: completion.OutcomeNotOurs,
			fetches: 1,
		},
		"merged with malformed marker": {
			ref:     johndoeRef(),
			repo:    &mockRepo{record: model.PullRequestRecord{Description: "<!--staticman_notification:[object Object]-->", State: model.PRStateMerged}},
			outcome: completion.OutcomeParseFailed,
			wantErr: completion.ErrMalformedMarker,
			fetches: 1,
		},
		"fetch failure": {
			ref:     johndoeRef(),
			repo:    &mockRepo{err: errors.New("502 bad gateway")},
			outcome: completion.OutcomeFetchFailed,
			wantErr: completion.ErrFetchFailed,
			fetches: 1,
		},
		"missing number": {
			ref:     model.PullRequestRef{Service: model.ServiceGitHub, Owner: "johndoe", Repository: "foobar"},
			repo:    &mockRepo{},
			outcome: completion.OutcomeMissingIdentity,
		},
		"missing owner": {
			ref:     model.PullRequestRef{Service: model.ServiceGitHub, Repository: "foobar", Number: 1},
			repo:    &mockRepo{},
			outcome: completion.OutcomeMissingIdentity,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			n := &mockNotifier{}
			out, err := newUseCase(tc.repo, n).Detect(context.Background(), completion.DetectInput{Ref: tc.ref})

			if out.Outcome != tc.outcome {
				t.Errorf("outcome = %s, want %s", out.Outcome, tc.outcome)
			}
			if tc.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
			if tc.repo.calls != tc.fetches {
				t.Errorf("fetches = %d, want %d", tc.repo.calls, tc.fetches)
			}
			if len(n.inputs) != 0 {
				t.Errorf("notifier must not be called, got %d calls", len(n.inputs))
			}
		})
	}
}

func TestDetect_NotifyFailure(t *testing.T) {
	repo := &mockRepo{record: model.PullRequestRecord{Description: johndoeBody, State: model.PRStateMerged}}
	n := &mockNotifier{err: errors.New("telegram down")}

	out, err := newUseCase(repo, n).Detect(context.Background(), completion.DetectInput{Ref: johndoeRef()})
	if out.Outcome != completion.OutcomeNotifyFailed {
		t.Errorf("outcome = %s", out.Outcome)
	}
	if !errors.Is(err, completion.ErrNotifyFailed) {
		t.Errorf("error = %v", err)
	}
	if !out.Outcome.Notified() || len(n.inputs) != 1 {
		t.Errorf("notifier should have been called exactly once")
	}
}

func TestDetect_UnknownService(t *testing.T) {
	repo := &mockRepo{}
	ref := johndoeRef()
	ref.Service = model.ServiceGitLab

	out, err := newUseCase(repo, &mockNotifier{}).Detect(context.Background(), completion.DetectInput{Ref: ref})
	if out.Outcome != completion.OutcomeFetchFailed {
		t.Errorf("outcome = %s", out.Outcome)
	}
	if !errors.Is(err, completion.ErrNoFetcher) {
		t.Errorf("error = %v, want ErrNoFetcher", err)
	}
	if repo.calls != 0 {
		t.Error("github repo must not serve gitlab refs")
	}
}

func TestDetect_FetchTimeout(t *testing.T) {
	repo := &mockRepo{sleep: time.Second}
	uc := usecase.New(
		log.NewNop(),
		map[model.Service]repository.PullRequestRepository{model.ServiceGitHub: repo},
		&mockNotifier{},
		20*time.Millisecond,
	)

	start := time.Now()
	out, err := uc.Detect(context.Background(), completion.DetectInput{Ref: johndoeRef()})
	if out.Outcome != completion.OutcomeFetchFailed {
		t.Errorf("outcome = %s", out.Outcome)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("fetch timeout not enforced")
	}
}
