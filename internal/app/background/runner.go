package background

import (
	"context"
	"log"
	"sync"
	"time"
)

// Runner executes detached tasks. A task gets its own timeout-bounded
// context, detached from whichever request scheduled it, so a response can
// be sent before the task completes. Panics are recovered and logged; no
// outcome ever reaches the scheduling caller.
type Runner struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Runner{timeout: timeout}
}

func (r *Runner) Go(name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				log.Printf("[BACKGROUND] task %s panicked: %v", name, p)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until all scheduled tasks finish. Used for graceful shutdown
// and by tests; request handling never calls it.
func (r *Runner) Wait() {
	r.wg.Wait()
}
