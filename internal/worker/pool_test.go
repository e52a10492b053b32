package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_RunsEveryTaskOnce(t *testing.T) {
	p := NewPool(3, 16)
	results := p.Run(context.Background())

	var calls int32
	boom := errors.New("boom")
	for i := 0; i < 10; i++ {
		i := i
		if err := p.Submit("task", func(context.Context) error {
			atomic.AddInt32(&calls, 1)
			if i == 4 {
				return boom
			}
			return nil
		}); err != nil {
			t.Fatalf("unexpected submit err: %v", err)
		}
	}
	p.Close()

	var n, failed int
	Drain(results, func(r Result) {
		n++
		if errors.Is(r.Err, boom) {
			failed++
		}
	})

	if n != 10 || atomic.LoadInt32(&calls) != 10 {
		t.Fatalf("expected 10 results and calls, got %d/%d", n, calls)
	}
	if failed != 1 {
		t.Fatalf("expected exactly one failure, got %d", failed)
	}
}

func TestPool_SubmitAfterClose(t *testing.T) {
	p := NewPool(1, 1)
	p.Close()
	p.Close()
	if err := p.Submit("late", func(context.Context) error { return nil }); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
}

func TestPool_StopsOnContextCancel(t *testing.T) {
	p := NewPool(2, 0)
	ctx, cancel := context.WithCancel(context.Background())
	results := p.Run(ctx)
	cancel()

	select {
	case _, ok := <-results:
		if ok {
			t.Fatalf("expected no results after cancel")
		}
	case <-time.After(time.Second):
		t.Fatalf("result channel not closed after cancel")
	}
}
