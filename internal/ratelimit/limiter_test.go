package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_NilRedis_FailOpen(t *testing.T) {
	l := NewLimiter(nil)
	result, err := l.Check(context.Background(), "gen:user-1", 10, 15*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("expected allowed when Redis is nil")
	}
	if result.Remaining != 9 {
		t.Errorf("expected remaining=9, got %d", result.Remaining)
	}
}

func TestLimiter_NilRedis_MultipleChecks(t *testing.T) {
	l := NewLimiter(nil)
	// Without Redis, every check passes (fail open)
	for i := 0; i < 100; i++ {
		result, _ := l.Check(context.Background(), "gen:user-1", 10, 15*time.Minute)
		if !result.Allowed {
			t.Fatalf("expected allowed on check %d", i)
		}
	}
}

func TestWindowResult_Denied(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	oldest := now.Add(-10 * time.Minute)

	r := windowResult(now, 15*time.Minute, 10, 10, false, oldest)
	if r.Allowed {
		t.Error("expected denied")
	}
	if r.Remaining != 0 {
		t.Errorf("expected remaining=0, got %d", r.Remaining)
	}
	if r.RetryAfter != 5*time.Minute {
		t.Errorf("expected retry after 5m, got %s", r.RetryAfter)
	}
	if !r.ResetAt.Equal(now.Add(5 * time.Minute)) {
		t.Errorf("unexpected reset %s", r.ResetAt)
	}
}

func TestWindowResult_Allowed(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	r := windowResult(now, 15*time.Minute, 10, 3, true, now.Add(-time.Minute))
	if !r.Allowed {
		t.Error("expected allowed")
	}
	if r.Remaining != 7 {
		t.Errorf("expected remaining=7, got %d", r.Remaining)
	}
	if r.RetryAfter != 0 {
		t.Errorf("expected no retry-after, got %s", r.RetryAfter)
	}
}

func TestWindowResult_MinimumRetryAfter(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	// Oldest entry is about to expire.
	r := windowResult(now, 15*time.Minute, 10, 10, false, now.Add(-15*time.Minute+100*time.Millisecond))
	if r.RetryAfter != time.Second {
		t.Errorf("expected retry-after floor of 1s, got %s", r.RetryAfter)
	}
}
