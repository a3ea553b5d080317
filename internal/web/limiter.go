package web

// limiter.go caps how many reconciliations run at once. Each run holds
// both input tables and all outputs in memory. A request waits up to
// maxWait for a slot, then fails with ErrTooManyRuns.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyRuns is returned when every slot stayed busy for the whole wait.
var ErrTooManyRuns = errors.New("too many concurrent reconciliations, please try again later")

// runLimiter is a counting semaphore with a bounded wait.
type runLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

func newRunLimiter(maxConcurrent int, maxWait time.Duration) *runLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &runLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// acquire takes a slot. The caller must release it.
func (l *runLimiter) acquire(ctx context.Context) error {
	waitCtx := ctx
	if l.maxWait > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.maxWait)
		defer cancel()
	}

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-waitCtx.Done():
		// Caller cancellation wins over our own timeout.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyRuns
	}
}

func (l *runLimiter) release() {
	l.active.Add(-1)
	<-l.slots
}

// running reports the number of runs holding a slot.
func (l *runLimiter) running() int {
	return int(l.active.Load())
}

// drain blocks until no run holds a slot or ctx ends.
func (l *runLimiter) drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.running() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
