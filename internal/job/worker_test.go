package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type mockProcessor struct {
	processed atomic.Int64
}

func (m *mockProcessor) Process(_ context.Context, _ *Job) error {
	m.processed.Add(1)
	return nil
}

func TestWorkerPool_ProcessesQueuedJobs(t *testing.T) {
	store := NewStore()

	// Seed queued jobs
	for range 3 {
		_ = store.Create(testSource())
	}

	proc := &mockProcessor{}
	pool := NewWorkerPool(store, proc, 2)
	pool.pollInterval = 50 * time.Millisecond

	poolCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pool.Run(poolCtx)
		close(done)
	}()

	// Notify to kick off processing
	pool.Notify()

	// Wait for all jobs to be processed
	deadline := time.After(2 * time.Second)
	for proc.processed.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for jobs to be processed, got %d", proc.processed.Load())
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	cancel()
	<-done
}

func TestWorkerPool_ClaimIsExclusive(t *testing.T) {
	store := NewStore()
	j := store.Create(testSource())

	proc := &mockProcessor{}
	pool := NewWorkerPool(store, proc, 4)
	pool.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()
	pool.Notify()

	deadline := time.After(2 * time.Second)
	for proc.processed.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	// Give the other workers a chance to (wrongly) pick it up again.
	time.Sleep(100 * time.Millisecond)
	if n := proc.processed.Load(); n != 1 {
		t.Errorf("job %s processed %d times, want exactly once", j.ID, n)
	}

	cancel()
	<-done
}

func TestWorkerPool_NotifyWakesWorker(t *testing.T) {
	store := NewStore()
	proc := &mockProcessor{}
	pool := NewWorkerPool(store, proc, 1)
	pool.pollInterval = 10 * time.Second // long poll so only Notify wakes it

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	// Create a queued job after pool started
	_ = store.Create(testSource())
	pool.Notify()

	deadline := time.After(2 * time.Second)
	for proc.processed.Load() < 1 {
		select {
		case <-deadline:
			t.Fatal("timed out: Notify did not wake worker")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	cancel()
	<-done
}

func TestWorkerPool_GracefulShutdown(t *testing.T) {
	store := NewStore()
	proc := &mockProcessor{}
	pool := NewWorkerPool(store, proc, 2)
	pool.pollInterval = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		pool.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
		// workers drained
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for graceful shutdown")
	}
}
