package watch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestQueue_CoalescesRequestsDuringRun(t *testing.T) {
	var (
		runs    atomic.Int32
		started = make(chan struct{}, 10)
		release = make(chan struct{})
	)
	q := NewQueue(zaptest.NewLogger(t), func(ctx context.Context) error {
		runs.Add(1)
		started <- struct{}{}
		<-release
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- q.Serve(ctx) }()

	q.Schedule()
	<-started

	// first run is in flight, burst must collapse into one follow-up
	for range 10 {
		q.Schedule()
	}
	release <- struct{}{}

	<-started
	release <- struct{}{}

	select {
	case <-started:
		t.Fatal("unexpected third run")
	case <-time.After(100 * time.Millisecond):
	}

	if n := runs.Load(); n != 2 {
		t.Errorf("expected 2 runs, got %d", n)
	}

	cancel()
	if err := <-served; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestQueue_RunsNeverOverlap(t *testing.T) {
	var (
		active  atomic.Int32
		overlap atomic.Bool
		runs    atomic.Int32
	)
	q := NewQueue(nil, func(ctx context.Context) error {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Serve(ctx)

	for range 50 {
		q.Schedule()
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if overlap.Load() {
		t.Error("runs overlapped")
	}
	if runs.Load() == 0 {
		t.Error("expected at least one run")
	}
}

func TestQueue_ErrorKeepsServing(t *testing.T) {
	done := make(chan struct{}, 2)
	q := NewQueue(zaptest.NewLogger(t), func(ctx context.Context) error {
		done <- struct{}{}
		return errors.New("compile failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Serve(ctx)

	for range 2 {
		q.Schedule()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("run did not happen")
		}
	}
}
