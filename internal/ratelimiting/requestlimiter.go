package ratelimiting

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Limits operations against an upstream to at most `limit` completions per sliding `window`
type WindowLimiter struct {
	limit     int
	window    time.Duration
	nowFunc   func() time.Time
	afterFunc func(time.Duration) <-chan time.Time

	// One token per operation allowed to run or wait concurrently
	slots chan struct{}

	mutex sync.Mutex
	// Completion times of the last `limit` operations, oldest first
	completions []time.Time
}

func NewWindowLimiter(
	limit int,
	window time.Duration,
	nowFunc func() time.Time,
	afterFunc func(time.Duration) <-chan time.Time,
) *WindowLimiter {
	slots := make(chan struct{}, limit)
	completions := make([]time.Time, 0, limit+1)

	outsideWindow := nowFunc().Add(-window)
	for range limit {
		slots <- struct{}{}
		completions = append(completions, outsideWindow)
	}

	return &WindowLimiter{
		limit:     limit,
		window:    window,
		nowFunc:   nowFunc,
		afterFunc: afterFunc,

		slots:       slots,
		completions: completions,
	}
}

// Run operation once the window allows it.
//
// Returns false without running the operation if the context is done, or if waiting for the window
// plus minOperationTime would exceed the context deadline.
func (l *WindowLimiter) Limit(ctx context.Context, minOperationTime time.Duration, operation func(ctx context.Context)) bool {
	select {
	case <-l.slots:
		defer func() {
			l.slots <- struct{}{}
		}()
	case <-ctx.Done():
		return false
	}

	oldest, wait, ok := l.takeOldest(ctx, minOperationTime)
	if !ok {
		return false
	}

	// Give the completion back if we don't run, so the window is unchanged
	completion := oldest
	defer func() {
		l.putCompletion(completion)
	}()

	if wait > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-l.afterFunc(wait):
		}
	}

	operation(ctx)

	completion = l.nowFunc()
	return true
}

func (l *WindowLimiter) takeOldest(ctx context.Context, minOperationTime time.Duration) (time.Time, time.Duration, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	oldest := l.completions[0]
	wait := l.window - l.nowFunc().Sub(oldest)

	if deadline, ok := ctx.Deadline(); ok {
		if max(wait, 0)+minOperationTime > deadline.Sub(l.nowFunc()) {
			return time.Time{}, 0, false
		}
	}

	l.completions = l.completions[1:]
	return oldest, wait, true
}

func (l *WindowLimiter) putCompletion(completion time.Time) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	i, _ := slices.BinarySearchFunc(l.completions, completion, func(a, b time.Time) int {
		return a.Compare(b)
	})
	l.completions = slices.Insert(l.completions, i, completion)
}
