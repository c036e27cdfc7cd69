package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_RunsDetachedTask(t *testing.T) {
	r := NewRunner(time.Second)

	var ran atomic.Bool
	r.Go("test-task", func(ctx context.Context) {
		ran.Store(true)
	})
	r.Wait()

	if !ran.Load() {
		t.Fatalf("task did not run")
	}
}

func TestRunner_RecoversPanic(t *testing.T) {
	r := NewRunner(time.Second)

	r.Go("panicking-task", func(ctx context.Context) {
		panic("boom")
	})
	// Wait returning at all proves the panic was contained.
	r.Wait()
}

func TestRunner_TaskContextHasDeadline(t *testing.T) {
	r := NewRunner(50 * time.Millisecond)

	var hadDeadline atomic.Bool
	r.Go("deadline-task", func(ctx context.Context) {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
	})
	r.Wait()

	if !hadDeadline.Load() {
		t.Fatalf("task context missing deadline")
	}
}
