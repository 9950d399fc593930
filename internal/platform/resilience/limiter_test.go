package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter_NilNeverWaits(t *testing.T) {
	l := NewLimiter(0, 1)
	if l != nil {
		t.Fatalf("expected nil limiter for zero interval")
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("nil limiter wait: %v", err)
	}
}

func TestLimiter_RespectsContext(t *testing.T) {
	l := NewLimiter(time.Hour, 1)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first token should be immediate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatalf("expected second wait to fail within deadline")
	} else if errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected cancel error: %v", err)
	}
}
