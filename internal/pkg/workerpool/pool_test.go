package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEach_RunsEveryIndex(t *testing.T) {
	var sum atomic.Int64
	errs := Each(context.Background(), 3, 10, func(_ context.Context, i int) error {
		sum.Add(int64(i))
		if i%4 == 0 {
			return errors.New("boom")
		}
		return nil
	})

	if sum.Load() != 45 {
		t.Fatalf("expected sum 45, got %d", sum.Load())
	}
	for i, err := range errs {
		if (i%4 == 0) != (err != nil) {
			t.Fatalf("index %d: unexpected err %v", i, err)
		}
	}
}

func TestEach_BoundsConcurrency(t *testing.T) {
	var cur, peak atomic.Int32
	Each(context.Background(), 2, 8, func(_ context.Context, _ int) error {
		n := cur.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		cur.Add(-1)
		return nil
	})
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent tasks, saw %d", peak.Load())
	}
}

func TestEach_Empty(t *testing.T) {
	if errs := Each(context.Background(), 4, 0, nil); len(errs) != 0 {
		t.Fatalf("expected no results")
	}
}

func TestEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := Each(ctx, 1, 3, func(context.Context, int) error { return nil })
	for i, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("index %d: expected context.Canceled, got %v", i, err)
		}
	}
}
