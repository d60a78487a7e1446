// Package worker runs batches of independent evaluation tasks on a bounded
// set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/memtree/pkg/logger"
	"github.com/okian/memtree/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
)

// Task is one unit of work. Tasks of one batch must be independent; each
// writes its own result slot.
type Task = func(ctx context.Context) error

// job pairs a task with its position in the batch.
type job struct {
	index int
	task  Task
}

// Worker drains jobs from a channel until it is closed or ctx ends.
type Worker struct {
	name   string
	logger logger.Logger
	active *atomic.Int64
}

// run processes jobs and reports the first failure through fail.
func (w *Worker) run(ctx context.Context, jobs <-chan job, fail func(error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				fail(err)
				return
			}
		}
	}
}

func (w *Worker) process(ctx context.Context, j job) error {
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerJob(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := j.task(ctx); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "task_error")
		w.logger.Debug(ctx, "task failed",
			logger.String("worker", w.name),
			logger.Int("index", j.index),
			logger.Error(err),
		)
		return fmt.Errorf("task %d: %w", j.index, err)
	}
	return nil
}

// Pool evaluates task batches with at most size concurrent workers.
// A Pool holds no per-batch state, so Run may be called concurrently.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
	active atomic.Int64
}

// NewPool creates a pool. A size below one defaults to twice the CPU count.
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		size:   size,
		name:   "worker-pool",
		logger: nil,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Size returns the maximum number of concurrent workers.
func (p *Pool) Size() int { return p.size }

// Run executes every task and waits for them. The first failing task cancels
// the remaining ones and its error is returned. Cancelling ctx stops the
// batch and returns ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	workers := min(p.size, len(tasks))
	jobs := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		w := &Worker{
			name:   p.name + "-" + strconv.Itoa(i),
			logger: p.logger,
			active: &p.active,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.run(ctx, jobs, fail)
		}()
	}

feed:
	for i, t := range tasks {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- job{index: i, task: t}:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if err := ctx.Err(); err != nil {
		// our own cancel only fires through fail, so this is the caller's ctx
		return fmt.Errorf("batch cancelled: %w", err)
	}
	return nil
}
