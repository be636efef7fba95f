// Package parallel provides the fan-out/fan-in worker pool used by the
// grouped-aggregation and kernel layers when the row or group count crosses
// the parallelization threshold. Workers receive independent slices of the
// input, so no locking is needed around the data itself.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool manages a fixed set of goroutines for parallel processing.
type WorkerPool struct {
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewWorkerPool creates a pool with the given worker count, defaulting to
// runtime.NumCPU() when the count is not positive.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{numWorkers: numWorkers, ctx: ctx, cancel: cancel}
}

// Close shuts down the pool. In-flight workers drain; queued items are
// dropped.
func (wp *WorkerPool) Close() {
	wp.cancel()
}

// indexedItem pairs an input with its position.
type indexedItem[T any] struct {
	index int
	value T
}

// indexedResult pairs an output with its position.
type indexedResult[R any] struct {
	index  int
	result R
}

// Process executes worker over every item. Result order is arrival order,
// not input order; use ProcessIndexed when positions matter.
func Process[T, R any](wp *WorkerPool, items []T, worker func(T) R) []R {
	if len(items) == 0 {
		return nil
	}

	itemCh := make(chan T, len(items))
	resultCh := make(chan R, len(items))

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				select {
				case <-wp.ctx.Done():
					return
				default:
					resultCh <- worker(item)
				}
			}
		}()
	}

	go func() {
		defer close(itemCh)
		for _, item := range items {
			select {
			case <-wp.ctx.Done():
				return
			case itemCh <- item:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]R, 0, len(items))
	for result := range resultCh {
		results = append(results, result)
	}
	return results
}

// ProcessIndexed executes worker over every item and places each result at
// its input's position.
func ProcessIndexed[T, R any](wp *WorkerPool, items []T, worker func(int, T) R) []R {
	if len(items) == 0 {
		return nil
	}

	itemCh := make(chan indexedItem[T], len(items))
	resultCh := make(chan indexedResult[R], len(items))

	var wg sync.WaitGroup
	for i := 0; i < wp.numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemCh {
				select {
				case <-wp.ctx.Done():
					return
				default:
					resultCh <- indexedResult[R]{
						index:  item.index,
						result: worker(item.index, item.value),
					}
				}
			}
		}()
	}

	go func() {
		defer close(itemCh)
		for i, item := range items {
			select {
			case <-wp.ctx.Done():
				return
			case itemCh <- indexedItem[T]{index: i, value: item}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]R, len(items))
	for result := range resultCh {
		results[result.index] = result.result
	}
	return results
}
