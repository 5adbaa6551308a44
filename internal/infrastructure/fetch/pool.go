package fetch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// TaskResult carries the outcome of one bounded task. Slot i of the returned
// slice always corresponds to tasks[i], regardless of completion order.
type TaskResult[T any] struct {
	Value T
	Err   error
}

// RunBounded executes tasks with at most maxConcurrent running at once and a
// fixed delay before each submission after the first. The batch always runs
// to completion: a failing task records its error in its own slot and never
// cancels its siblings.
func RunBounded[T any](ctx context.Context, tasks []func(context.Context) (T, error), maxConcurrent int, delay time.Duration) []TaskResult[T] {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	results := make([]TaskResult[T], len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, task := range tasks {
		if i > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-gctx.Done():
				timer.Stop()
				results[i].Err = gctx.Err()
				continue
			case <-timer.C:
			}
		}

		g.Go(func() error {
			value, err := task(gctx)
			results[i] = TaskResult[T]{Value: value, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
