package gotlqa

import (
	"context"
	"sync"
)

// ReviewBatch reviews units concurrently on the engine's worker pool and
// returns the results in input order. When ctx is cancelled, units not yet
// started are skipped, their results stay nil, and the context error is
// returned alongside the partial results. Otherwise the first review error
// in input order is returned.
func (e *Engine) ReviewBatch(ctx context.Context, units []Unit) ([]*Result, error) {
	results := make([]*Result, len(units))
	if len(units) == 0 {
		return results, nil
	}

	errs := make([]error, len(units))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := min(e.workers, len(units))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = e.Review(ctx, units[i])
			}
		}()
	}

feed:
	for i := range units {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	e.logger.Debug().Int("units", len(units)).Int("workers", workers).Msg("batch reviewed")
	return results, nil
}
