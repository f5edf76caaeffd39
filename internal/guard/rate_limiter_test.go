package guard

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestLocalWindowLimits(t *testing.T) {
	rl := NewRateLimiter(nil, 3, zaptest.NewLogger(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !rl.Allow(ctx, "s1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow(ctx, "s1") {
		t.Error("request over the limit should be denied")
	}

	// Other sessions have their own windows.
	if !rl.Allow(ctx, "s2") {
		t.Error("a different session must not share the window")
	}
}

func TestZeroLimitDisables(t *testing.T) {
	rl := NewRateLimiter(nil, 0, zaptest.NewLogger(t))

	for i := 0; i < 100; i++ {
		if !rl.Allow(context.Background(), "s1") {
			t.Fatal("zero limit must disable rate limiting")
		}
	}
}

func TestNilLimiterAllows(t *testing.T) {
	var rl *RateLimiter
	if !rl.Allow(context.Background(), "s1") {
		t.Error("nil limiter must allow everything")
	}
}
