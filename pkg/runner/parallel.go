package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"digital.vasic.lessons/pkg/lesson"
)

// parallelResult pairs a result with its original index so
// results can be returned in submission order.
type parallelResult struct {
	index  int
	result *lesson.RunResult
	err    error
}

// RunParallel executes the given lessons concurrently using at
// most maxConcurrency goroutines. Each run owns its own
// capture scope; a Delay step parks only its own goroutine, so
// other runs keep making progress. Results are returned in the
// same order as the input IDs.
func (r *Runner) RunParallel(
	ctx context.Context,
	ids []lesson.ID,
	maxConcurrency int,
) ([]*lesson.RunResult, error) {
	if r.registry == nil {
		return nil, fmt.Errorf("runner: no registry configured")
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	resultsCh := make(chan parallelResult, len(ids))

	var wg sync.WaitGroup
	var active int32

	for i, id := range ids {
		wg.Add(1)
		go func(idx int, lID lesson.ID) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultsCh <- parallelResult{
					index: idx,
					err:   ctx.Err(),
				}
				return
			}

			l, err := r.registry.Get(lID)
			if err != nil {
				resultsCh <- parallelResult{
					index: idx,
					err: fmt.Errorf(
						"lesson %s: %w", lID, err,
					),
				}
				return
			}

			r.metrics.SetActiveRuns(
				int(atomic.AddInt32(&active, 1)),
			)
			res := r.Run(ctx, l)
			r.metrics.SetActiveRuns(
				int(atomic.AddInt32(&active, -1)),
			)

			resultsCh <- parallelResult{
				index:  idx,
				result: res,
			}
		}(i, id)
	}

	// Close channel after all goroutines complete.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	// Collect results in submission order.
	ordered := make([]*lesson.RunResult, len(ids))
	var firstErr error

	for pr := range resultsCh {
		if pr.err != nil && firstErr == nil {
			firstErr = pr.err
		}
		ordered[pr.index] = pr.result
	}

	// Filter out nil entries if context was cancelled.
	results := make([]*lesson.RunResult, 0, len(ids))
	for _, res := range ordered {
		if res != nil {
			results = append(results, res)
		}
	}

	return results, firstErr
}
