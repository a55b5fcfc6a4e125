package bruteforce

import (
	"context"

	"staticman-gateway/pkg/log"
)

// Guard applies a per-client request allowance on top of a Store.
type Guard struct {
	store Store
	cfg   Config
	l     log.Logger
}

// NewGuard creates a Guard. Store failures let requests through and are
// logged, so an unavailable shared store never takes the API down.
func NewGuard(store Store, cfg Config, l log.Logger) *Guard {
	return &Guard{store: store, cfg: cfg.withDefaults(), l: l}
}

// Allow records a request from key and decides whether it may proceed.
func (g *Guard) Allow(ctx context.Context, key string) Decision {
	blocked, err := g.store.IsBlocked(ctx, key)
	if err != nil {
		g.l.Warnf(ctx, "bruteforce.Allow: store.IsBlocked: %v", err)
		return Decision{Allowed: true}
	}
	if blocked {
		return Decision{Allowed: false, Hits: g.cfg.Limit, RetryAfter: g.cfg.Window}
	}

	hits, err := g.store.Increment(ctx, key)
	if err != nil {
		g.l.Warnf(ctx, "bruteforce.Allow: store.Increment: %v", err)
		return Decision{Allowed: true}
	}
	if hits > g.cfg.Limit {
		return Decision{Allowed: false, Hits: hits, RetryAfter: g.cfg.Window}
	}

	return Decision{Allowed: true, Hits: hits}
}
