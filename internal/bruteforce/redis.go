package bruteforce

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// incrScript starts the window on the first hit only, so later hits never
// extend it.
var incrScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RedisStore shares counters between gateway instances through Redis.
type RedisStore struct {
	client redis.UniversalClient
	cfg    Config
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store backed by client.
func NewRedisStore(client redis.UniversalClient, cfg Config) *RedisStore {
	return &RedisStore{client: client, cfg: cfg.withDefaults()}
}

func (s *RedisStore) Increment(ctx context.Context, key string) (int64, error) {
	n, err := incrScript.Run(ctx, s.client, []string{redisKeyPrefix + key}, s.cfg.Window.Milliseconds()).Int64()
	if err != nil {
		return 0, fmt.Errorf("bruteforce: redis increment: %w", err)
	}
	return n, nil
}

func (s *RedisStore) IsBlocked(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Get(ctx, redisKeyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bruteforce: redis get: %w", err)
	}
	return n >= s.cfg.Limit, nil
}

// Ping verifies the connection; used at startup so a bad address fails fast.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
