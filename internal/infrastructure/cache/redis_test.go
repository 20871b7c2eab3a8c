package cache

import (
	"context"
	"testing"
	"time"
)

func TestRedis_UnavailableBypasses(t *testing.T) {
	r := &Redis{}
	ctx := context.Background()

	var out map[string]int
	hit, err := r.GetJSON(ctx, "ranking:x", &out)
	if hit || err != nil {
		t.Fatalf("expected silent miss, got hit=%v err=%v", hit, err)
	}
	if err := r.SetJSON(ctx, "ranking:x", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := r.DeleteByPattern(ctx, "ranking:*"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if r.Available() {
		t.Fatalf("expected cache to report unavailable")
	}
	if err := r.Ping(ctx); err == nil {
		t.Fatalf("expected ping error")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	var nilCache *Redis
	if hit, _ := nilCache.GetJSON(ctx, "k", &out); hit {
		t.Fatalf("nil cache must miss")
	}
}
