package completion

import "errors"

var (
	ErrMissingIdentity = errors.New("delivery lacks owner, repository or number")
	ErrNoFetcher       = errors.New("no fetcher configured for service")
	ErrFetchFailed     = errors.New("failed to fetch pull request")
	ErrMalformedMarker = errors.New("notification marker could not be decoded")
	ErrNotifyFailed    = errors.New("notification dispatch failed")
)
