// Package parallel splits row ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides items into contiguous ranges, one per worker, and runs fn
// on each range concurrently. workers <= 0 uses runtime.NumCPU(). The first
// error returned by any range is reported after all ranges finish.
func Parallelize(items, workers int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > items {
		workers = items // No need for more workers than items
	}

	// ceiling division
	chunkSize := (items + workers - 1) / workers

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if err := fn(s, e); err != nil {
				once.Do(func() { firstErr = err })
			}
		}(start, end)
	}

	wg.Wait()
	return firstErr
}

// ParallelizeWithThreshold runs fn sequentially over the whole range when items
// does not exceed threshold, and through Parallelize otherwise.
func ParallelizeWithThreshold(items, threshold, workers int, fn func(start, end int) error) error {
	if items <= threshold {
		if items <= 0 {
			return nil
		}
		return fn(0, items)
	}
	return Parallelize(items, workers, fn)
}
