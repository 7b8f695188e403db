package search

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"
)

// worker runs one slot's generate-then-test loop until the search
// concludes. Cancellation is cooperative: the flags are polled once per
// iteration, so a worker mid-generation always finishes its current
// attempt before exiting.
func (e *Engine) worker(ctx context.Context, slot int) {
	privatePath, publicPath := e.ws.SlotPaths(slot)

	for {
		if e.found.Load() || e.stopped.Load() || ctx.Err() != nil {
			return
		}

		if err := e.gen.Generate(ctx, slot); err != nil {
			if ctx.Err() != nil {
				// Generation was interrupted by cancellation, not a broken
				// generator.
				return
			}
			e.fail(fmt.Errorf("key generation failed for slot %d: %w", slot, err))
			return
		}

		content, err := os.ReadFile(publicPath)
		if err != nil {
			e.fail(fmt.Errorf("failed to read public key for slot %d: %w", slot, err))
			return
		}

		term, found, err := e.pred.Match(string(content))
		if err != nil {
			e.fail(fmt.Errorf("slot %d: %w", slot, err))
			return
		}

		if found {
			// Only the first worker to flip the flag claims the win; a
			// losing matcher discards its result and leaves its files for
			// the workspace teardown.
			if e.found.CompareAndSwap(false, true) {
				e.results <- winner{slot: slot, term: term}
			}
			return
		}

		// The slot's paths are reused next iteration, so a leftover file
		// would be re-tested as if freshly generated. Failure to delete is
		// therefore fatal.
		if err := os.Remove(publicPath); err != nil {
			e.fail(fmt.Errorf("failed to delete public key for slot %d: %w", slot, err))
			return
		}
		if err := os.Remove(privatePath); err != nil {
			e.fail(fmt.Errorf("failed to delete private key for slot %d: %w", slot, err))
			return
		}

		if report := e.progress.RecordAttempt(); report != nil {
			log.Printf("[Search] %v total (last %v); %d attempts",
				report.Total.Round(time.Millisecond), report.SinceLast.Round(time.Millisecond), report.Attempts)
		}
	}
}

// fail reports a fatal worker error and stops the pool. The errs channel is
// buffered to the worker count and each worker sends at most once, so this
// never blocks.
func (e *Engine) fail(err error) {
	e.stopped.Store(true)
	e.errs <- err
}
