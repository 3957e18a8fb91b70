package fetcher

import (
	"context"
	"testing"
	"time"
)

// --- Limiter Tests ---

func TestNewLimiter_DisabledForNonPositiveRate(t *testing.T) {
	if NewLimiter(0) != nil {
		t.Error("NewLimiter(0) should return nil")
	}
	if NewLimiter(-1) != nil {
		t.Error("NewLimiter(-1) should return nil")
	}
}

func TestLimiter_NilNeverBlocks(t *testing.T) {
	var l *Limiter

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("nil limiter blocked for %v", elapsed)
	}
}

func TestLimiter_PacesRequests(t *testing.T) {
	l := NewLimiter(100) // 10ms spacing

	start := time.Now()
	for i := 0; i < 4; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error: %v", err)
		}
	}
	elapsed := time.Since(start)

	// first token is free, the next three are spaced 10ms apart
	if elapsed < 25*time.Millisecond {
		t.Errorf("4 requests at 100 rps took %v, want >= 25ms", elapsed)
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.1) // one request per 10s

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx); err == nil {
		t.Error("Wait() should fail when the context expires first")
	}
}
