package simplego

import (
	"runtime"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// minParallelizeChunk is the minimum number of elements to parallelize over.
const minParallelizeChunk = 4096

// workersPool limits the number of goroutines used to process chunks of a kernel.
type workersPool struct {
	// maxParallelism is the limit of tasks running at once: 0 disables parallelism and a negative value
	// makes it unlimited.
	maxParallelism int
	mu             sync.Mutex
	cond           sync.Cond // Signaled whenever numRunning is decreased.
	numRunning     int
}

// Initialize should be called before use.
func (w *workersPool) Initialize() {
	w.maxParallelism = runtime.NumCPU()
	w.cond = sync.Cond{L: &w.mu}
}

// IsEnabled returns whether parallelism is enabled (maxParallelism is != 0)
func (w *workersPool) IsEnabled() bool {
	return w.maxParallelism != 0
}

// SetMaxParallelism sets the maxParallelism.
//
// It should only be changed before any workers start running.
func (w *workersPool) SetMaxParallelism(maxParallelism int) {
	w.maxParallelism = maxParallelism
}

// MaxParallelism returns the configured parallelism.
func (w *workersPool) MaxParallelism() int {
	return w.maxParallelism
}

// WaitToStart waits until there is a worker available to run the task, and starts it in a goroutine.
//
// If parallelism is disabled, it runs the task inline.
func (w *workersPool) WaitToStart(task func()) {
	if w.maxParallelism < 0 {
		go task()
		return
	} else if w.maxParallelism == 0 {
		task()
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for w.numRunning >= w.maxParallelism {
		w.cond.Wait()
	}
	w.numRunning++
	go func() {
		task()
		w.mu.Lock()
		w.numRunning--
		w.cond.Signal()
		w.mu.Unlock()
	}()
}

// forEachChunk calls fn(start, end) over consecutive chunks of [0, n), in parallel if enabled and
// n is large enough. It returns when all chunks are processed.
//
// A panic in fn is recovered in the goroutine that ran the chunk and returned as an error: the first
// one wins and the remaining chunks still run.
func (w *workersPool) forEachChunk(n int, fn func(start, end int)) error {
	if !w.IsEnabled() || n <= minParallelizeChunk {
		return runChunk(fn, 0, n)
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for start := 0; start < n; start += minParallelizeChunk {
		end := min(start+minParallelizeChunk, n)
		wg.Add(1)
		w.WaitToStart(func() {
			defer wg.Done()
			if err := runChunk(fn, start, end); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		})
	}
	wg.Wait()
	return firstErr
}

// runChunk runs fn(start, end) converting a panic to an error.
func runChunk(fn func(start, end int), start, end int) error {
	exception := exceptions.Try(func() { fn(start, end) })
	if exception == nil {
		return nil
	}
	if err, ok := exception.(error); ok {
		return errors.WithMessagef(err, "chunk [%d, %d)", start, end)
	}
	return errors.Errorf("panic in chunk [%d, %d): %v", start, end, exception)
}
