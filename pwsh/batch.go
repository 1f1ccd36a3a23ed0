package pwsh

import (
	"context"
	"sync"
)

// BatchResult is the outcome of one script in a batch.
type BatchResult struct {
	// Index is the script's position in the input slice.
	Index  int
	Output *Output
	Err    error
}

// RunBatch runs each script in its own interpreter process, at most
// parallel at a time (parallel < 1 means one at a time). Results are
// returned in input order. A failing script does not stop the others.
//
// Scripts still queued when ctx ends are not started; their Err is an
// *IOError wrapping ctx.Err().
func (r *Runner) RunBatch(ctx context.Context, scripts []string, parallel int) []BatchResult {
	results := make([]BatchResult, len(scripts))
	lim := newLimiter(parallel)

	var wg sync.WaitGroup
	for i, script := range scripts {
		results[i].Index = i
		if err := lim.Acquire(ctx); err != nil {
			results[i].Err = &IOError{Op: "queue", Err: err}
			continue
		}

		wg.Add(1)
		go func(i int, script string) {
			defer wg.Done()
			defer lim.Release()
			results[i].Output, results[i].Err = r.Run(ctx, script)
		}(i, script)
	}
	wg.Wait()

	return results
}

// limiter bounds the number of interpreter processes alive at once.
type limiter struct {
	slots chan struct{}
}

func newLimiter(n int) *limiter {
	if n < 1 {
		n = 1
	}
	return &limiter{slots: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or ctx ends.
func (l *limiter) Acquire(ctx context.Context) error {
	// Prefer a cancelled context over a free slot.
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot taken by Acquire.
func (l *limiter) Release() {
	select {
	case <-l.slots:
	default:
		// Unpaired Release; nothing to free.
	}
}

// InUse returns the number of slots currently taken.
func (l *limiter) InUse() int {
	return len(l.slots)
}
