package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrQueueClosed is returned when a task arrives after shutdown began.
var ErrQueueClosed = errors.New("pipeline queue is shut down")

// ContractTask is one unit of background work: a submitted contract waiting
// for its pipeline run.
type ContractTask struct {
	ContractID string
	Filename   string
	Data       []byte
}

// PipelineQueue is a bounded worker pool consuming submitted contracts.
// Replaces fire-and-forget goroutines so the system has a place for
// backpressure: Enqueue blocks once the channel fills.
type PipelineQueue struct {
	runner  *PipelineRunner
	workers int
	timeout time.Duration

	ch   chan ContractTask
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type QueueOption func(*PipelineQueue)

func WithWorkers(n int) QueueOption {
	return func(q *PipelineQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) QueueOption {
	return func(q *PipelineQueue) {
		if n > 0 {
			q.ch = make(chan ContractTask, n)
		}
	}
}

func WithJobTimeout(d time.Duration) QueueOption {
	return func(q *PipelineQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewPipelineQueue(runner *PipelineRunner, opts ...QueueOption) *PipelineQueue {
	q := &PipelineQueue{
		runner:  runner,
		workers: 4,
		timeout: 5 * time.Minute,
		ch:      make(chan ContractTask, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *PipelineQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				slog.Info("pipeline worker started", "worker_id", workerID)

				for task := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					q.runner.Run(ctx, task.ContractID, task.Data, task.Filename)
					cancel()
				}

				slog.Info("pipeline worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

// Enqueue schedules a contract for processing. Blocks when the queue is
// full; fails only after shutdown has started.
func (q *PipelineQueue) Enqueue(task ContractTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- task:
	default:
		slog.Warn("pipeline queue full, applying backpressure", "contract_id", task.ContractID)
		q.ch <- task
	}
	slog.Info("contract queued for processing", "contract_id", task.ContractID, "filename", task.Filename)
	return nil
}

// Shutdown stops accepting tasks and waits for in-flight runs to drain,
// bounded by ctx.
func (q *PipelineQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		slog.Warn("queue shutdown interrupted by context")
	case <-done:
		slog.Info("pipeline queue drained, shutdown complete")
	}
}
