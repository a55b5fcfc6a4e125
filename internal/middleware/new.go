package middleware

import (
	"context"

	"staticman-gateway/internal/bruteforce"
	"staticman-gateway/pkg/log"
)

// Limiter decides whether a client may send another request.
type Limiter interface {
	Allow(ctx context.Context, key string) bruteforce.Decision
}

var _ Limiter = (*bruteforce.Guard)(nil)

type Middleware struct {
	l       log.Logger
	limiter Limiter
}

func New(l log.Logger, limiter Limiter) Middleware {
	return Middleware{
		l:       l,
		limiter: limiter,
	}
}
