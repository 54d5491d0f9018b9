package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	s := NewStore(0)
	ctx := t.Context()

	if _, ok := s.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for absent key")
	}

	s.Set(ctx, "report:2371:2024", "payload")
	got, ok := s.Get(ctx, "report:2371:2024")
	if !ok || got != "payload" {
		t.Fatalf("expected cached payload, got %v ok=%v", got, ok)
	}

	s.Delete(ctx, "report:2371:2024")
	if _, ok := s.Get(ctx, "report:2371:2024"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	s := NewStore(10 * time.Millisecond)
	ctx := t.Context()

	s.Set(ctx, "k", 1)
	if _, ok := s.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	time.Sleep(25 * time.Millisecond)
	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after ttl")
	}
}

func TestStore_GetOrComputeCachesResult(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	ctx := t.Context()

	calls := 0
	compute := func() (any, error) {
		calls++
		return "computed", nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.GetOrCompute(ctx, "k", compute)
		if err != nil {
			t.Fatalf("compute failed: %v", err)
		}
		if got != "computed" {
			t.Fatalf("unexpected value %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one compute call, got %d", calls)
	}
}

func TestStore_GetOrComputeDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	s := NewStore(time.Minute)
	ctx := t.Context()

	calls := 0
	_, err := s.GetOrCompute(ctx, "k", func() (any, error) {
		calls++
		return nil, fmt.Errorf("upstream down")
	})
	if err == nil {
		t.Fatalf("expected error from compute")
	}

	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatalf("failed compute must not populate the cache")
	}
	if calls != 1 {
		t.Fatalf("expected one compute call, got %d", calls)
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key("report", "2371", "2024"); got != "report:2371:2024" {
		t.Fatalf("unexpected key %q", got)
	}
}
