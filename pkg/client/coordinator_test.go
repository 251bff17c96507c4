package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCoordinator_SingleFetchApplies(t *testing.T) {
	c := NewCoordinator[int]()
	var applied []int

	got, ok, err := c.Fetch(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	}, func(v int) { applied = append(applied, v) })

	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if !ok || got != 42 {
		t.Fatalf("Fetch() = (%d, %v), want (42, true)", got, ok)
	}
	if len(applied) != 1 || applied[0] != 42 {
		t.Errorf("apply not called with result: %v", applied)
	}
}

func TestCoordinator_StaleResultDiscarded(t *testing.T) {
	c := NewCoordinator[string]()
	var mu sync.Mutex
	var state string

	firstStarted := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// Slow fetch for an old selection.
		_, ok, _ := c.Fetch(context.Background(), func(ctx context.Context) (string, error) {
			close(firstStarted)
			<-release
			return "old", nil
		}, func(v string) {
			mu.Lock()
			state = v
			mu.Unlock()
		})
		if ok {
			t.Error("superseded fetch reported latest")
		}
	}()

	<-firstStarted

	// Newer fetch finishes first.
	got, ok, err := c.Fetch(context.Background(), func(ctx context.Context) (string, error) {
		return "new", nil
	}, func(v string) {
		mu.Lock()
		state = v
		mu.Unlock()
	})
	if err != nil || !ok || got != "new" {
		t.Fatalf("Fetch() = (%q, %v, %v), want (new, true, nil)", got, ok, err)
	}

	// Let the old fetch finish last; its result must not overwrite.
	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if state != "new" {
		t.Errorf("stale response overwrote the newer result: %q", state)
	}
}

func TestCoordinator_SupersededContextCancelled(t *testing.T) {
	c := NewCoordinator[int]()

	firstStarted := make(chan struct{})
	cancelled := make(chan struct{})

	go func() {
		c.Fetch(context.Background(), func(ctx context.Context) (int, error) {
			close(firstStarted)
			<-ctx.Done()
			close(cancelled)
			return 0, ctx.Err()
		}, nil)
	}()

	<-firstStarted
	if _, ok, err := c.Fetch(context.Background(), func(ctx context.Context) (int, error) {
		return 1, nil
	}, nil); !ok || err != nil {
		t.Fatalf("newer fetch failed: ok=%v err=%v", ok, err)
	}

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch context was not cancelled")
	}
}

func TestCoordinator_ErrorFromLatestSurfaces(t *testing.T) {
	c := NewCoordinator[int]()
	boom := errors.New("boom")

	_, ok, err := c.Fetch(context.Background(), func(ctx context.Context) (int, error) {
		return 0, boom
	}, func(int) { t.Error("apply called on error") })

	if !ok {
		t.Error("latest fetch should report ok even on error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestCoordinator_GenerationMonotonic(t *testing.T) {
	c := NewCoordinator[int]()
	for i := 1; i <= 3; i++ {
		c.Fetch(context.Background(), func(ctx context.Context) (int, error) { return i, nil }, nil)
		if got := c.Generation(); got != uint64(i) {
			t.Fatalf("generation = %d after %d fetches", got, i)
		}
	}
}
