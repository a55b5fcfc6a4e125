package github

import (
	"context"
	"errors"
	"testing"

	"staticman-gateway/internal/model"
	pkgGitHub "staticman-gateway/pkg/github"
)

type fakeClient struct {
	pr    pkgGitHub.PullRequest
	err   error
	owner string
	repo  string
	num   int
}

func (f *fakeClient) GetPullRequest(ctx context.Context, owner, repo string, number int) (pkgGitHub.PullRequest, error) {
	f.owner, f.repo, f.num = owner, repo, number
	return f.pr, f.err
}

func TestNormalizeState(t *testing.T) {
	tcs := []struct {
		state  string
		merged bool
		want   model.PRState
	}{
		{"open", false, model.PRStateOpen},
		{"closed", false, model.PRStateClosed},
		{"closed", true, model.PRStateMerged},
		{"merged", false, model.PRStateMerged},
	}
	for _, tc := range tcs {
		if got := normalizeState(tc.state, tc.merged); got != tc.want {
			t.Errorf("normalizeState(%q, %v) = %s, want %s", tc.state, tc.merged, got, tc.want)
		}
	}
}

func TestFetchPullRequest(t *testing.T) {
	client := &fakeClient{pr: pkgGitHub.PullRequest{
		Number: 1, Title: "t", Body: "b", State: "closed", Merged: true,
		HeadRef: "staticman_1", BaseRef: "master", OwnerLogin: "johndoe", RepoName: "foobar",
	}}
	repo := New(client)
	ref := model.PullRequestRef{Service: model.ServiceGitHub, Owner: "johndoe", Repository: "foobar", Number: 1}

	rec, err := repo.FetchPullRequest(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.owner != "johndoe" || client.repo != "foobar" || client.num != 1 {
		t.Errorf("client called with %s/%s#%d", client.owner, client.repo, client.num)
	}
	want := model.PullRequestRecord{
		Number: 1, Title: "t", Description: "b", SourceBranch: "staticman_1", TargetBranch: "master",
		State: model.PRStateMerged, OwnerLogin: "johndoe", RepositoryName: "foobar",
	}
	if rec != want {
		t.Errorf("record = %+v, want %+v", rec, want)
	}

	client.err = pkgGitHub.ErrNotFound
	if _, err := repo.FetchPullRequest(context.Background(), ref); !errors.Is(err, pkgGitHub.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
