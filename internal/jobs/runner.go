// Package jobs runs detached background work with its own error boundary.
package jobs

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Job is a unit of background work.
type Job func(ctx context.Context) error

// Runner executes jobs on goroutines that outlive the request that submitted
// them. Errors and panics are logged and never propagate.
type Runner struct {
	mu     sync.Mutex
	closed bool
	wg     conc.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewRunner creates a runner whose jobs run on a context cancelled only by Shutdown.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{ctx: ctx, cancel: cancel, logger: logger}
}

// Submit schedules a job without waiting for it. It reports false once the
// runner is shutting down.
func (r *Runner) Submit(name string, job Job) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Warn("job rejected, runner is shutting down", "job", name)
		return false
	}

	r.wg.Go(func() {
		var pc panics.Catcher
		pc.Try(func() {
			if err := job(r.ctx); err != nil {
				r.logger.Error("job failed", "job", name, "error", err)
			}
		})
		if rec := pc.Recovered(); rec != nil {
			r.logger.Error("job panicked", "job", name, "panic", rec.Value, "stack", string(rec.Stack))
		}
	})
	return true
}

// Shutdown stops accepting jobs and waits for running ones. If ctx expires
// first, the jobs' context is cancelled and ctx's error is returned.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.cancel()
		return nil
	case <-ctx.Done():
		r.cancel()
		<-done
		return ctx.Err()
	}
}
