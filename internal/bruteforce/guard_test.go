package bruteforce_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"staticman-gateway/internal/bruteforce"
	"staticman-gateway/pkg/log"
)

type failingStore struct {
	blockedErr error
	incrErr    error
}

func (f *failingStore) Increment(ctx context.Context, key string) (int64, error) {
	return 0, f.incrErr
}

func (f *failingStore) IsBlocked(ctx context.Context, key string) (bool, error) {
	return false, f.blockedErr
}

type warnRecorder struct {
	log.Logger
	warnings []string
}

func (r *warnRecorder) Warnf(ctx context.Context, format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func TestGuardAllow(t *testing.T) {
	cfg := bruteforce.Config{Limit: 2, Window: time.Minute}
	g := bruteforce.NewGuard(bruteforce.NewMemoryStore(cfg), cfg, log.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if d := g.Allow(ctx, "client"); !d.Allowed {
			t.Fatalf("request %d rejected", i+1)
		}
	}

	d := g.Allow(ctx, "client")
	if d.Allowed {
		t.Fatal("third request should be rejected")
	}
	if d.RetryAfter != time.Minute {
		t.Errorf("RetryAfter = %v, want 1m", d.RetryAfter)
	}

	if d := g.Allow(ctx, "other"); !d.Allowed {
		t.Error("other clients must not be affected")
	}
}

func TestGuardFailsOpen(t *testing.T) {
	cfg := bruteforce.Config{Limit: 1, Window: time.Minute}
	ctx := context.Background()

	stores := map[string]*failingStore{
		"IsBlocked error": {blockedErr: errors.New("redis down")},
		"Increment error": {incrErr: errors.New("redis down")},
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			l := &warnRecorder{Logger: log.NewNop()}
			g := bruteforce.NewGuard(store, cfg, l)
			if d := g.Allow(ctx, "client"); !d.Allowed {
				t.Error("store failure must not reject requests")
			}
			if len(l.warnings) != 1 || !strings.HasPrefix(l.warnings[0], "bruteforce.Allow: ") {
				t.Errorf("warnings = %q, want one bruteforce.Allow entry", l.warnings)
			}
		})
	}
}
