package model

import "fmt"

// PRState is the normalized state of a pull/merge request.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
	PRStateMerged PRState = "merged"
)

// PullRequestRef identifies a pull request on its origin platform.
type PullRequestRef struct {
	Service    Service
	Owner      string // GitHub owner login, or GitLab namespace
	Repository string
	Number     int // GitHub number, or GitLab IID
}

// IsComplete reports whether every identifying field is present.
func (r PullRequestRef) IsComplete() bool {
	return r.Owner != "" && r.Repository != "" && r.Number > 0
}

func (r PullRequestRef) String() string {
	return fmt.Sprintf("%s:%s/%s#%d", r.Service, r.Owner, r.Repository, r.Number)
}

// PullRequestRecord is the authoritative pull request as fetched from the
// origin API. It is never built from webhook payload fields.
type PullRequestRecord struct {
	Number         int
	Title          string
	Description    string
	SourceBranch   string
	TargetBranch   string
	State          PRState
	OwnerLogin     string
	RepositoryName string
}
