package ports

import "context"

// Detacher schedules fire-and-forget work. The scheduled function runs on
// its own context; its completion or failure is never observable by the
// caller.
type Detacher interface {
	Go(name string, fn func(ctx context.Context))
}
