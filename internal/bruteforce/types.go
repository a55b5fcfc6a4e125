package bruteforce

import "time"

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	DefaultLimit      = 60
	DefaultWindow     = time.Minute
	DefaultMaxEntries = 10000

	redisKeyPrefix = "bruteforce:"
)

// Config bounds how many requests one client may send per window.
type Config struct {
	Limit      int64
	Window     time.Duration
	MaxEntries int // memory backend only
}

func (c Config) withDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	return c
}

// Decision is the guard's verdict for one request.
type Decision struct {
	Allowed    bool
	Hits       int64
	RetryAfter time.Duration
}
