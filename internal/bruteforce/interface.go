package bruteforce

import "context"

// Store counts requests per client key inside a fixed window.
//
// Implementations must be safe for concurrent use: concurrent Increment calls
// for the same key must never lose a hit.
type Store interface {
	// Increment records one request for key and returns the number of
	// requests seen in the current window, including this one.
	Increment(ctx context.Context, key string) (int64, error)
	// IsBlocked reports whether key has already used up its allowance for the
	// current window.
	IsBlocked(ctx context.Context, key string) (bool, error)
}
