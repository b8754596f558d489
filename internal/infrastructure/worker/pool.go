package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"marketly/pkg/logger"
)

// ErrPoolClosed is returned by Dispatch after Shutdown.
var ErrPoolClosed = errors.New("worker pool is closed")

// ErrQueueFull is returned by Dispatch when the queue has no room.
var ErrQueueFull = errors.New("worker queue is full")

// Task is a unit of best-effort background work.
type Task func(ctx context.Context) error

// Dispatcher runs tasks outside the caller's request.
type Dispatcher interface {
	Dispatch(name string, task Task) error
}

type job struct {
	name string
	task Task
}

// Pool runs tasks on a fixed number of goroutines over a bounded queue.
// Dispatch never blocks; failures are logged, never returned to the caller.
type Pool struct {
	queue   chan job
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewPool(workers, queueSize int, taskTimeout time.Duration) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{
		queue:   make(chan job, queueSize),
		timeout: taskTimeout,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) Dispatch(name string, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- job{name: name, task: task}:
		return nil
	default:
		logger.Warn("Background queue full, dropping task %s", name)
		return ErrQueueFull
	}
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.queue {
		p.exec(j)
	}
}

func (p *Pool) exec(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Background task %s panicked: %v", j.name, r)
		}
	}()

	if err := j.task(ctx); err != nil {
		logger.Error("Background task %s failed: %v", j.name, err)
	}
}

// Shutdown stops accepting tasks and waits for queued ones to finish or ctx
// to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline runs tasks synchronously on the caller's goroutine.
type Inline struct{}

func (Inline) Dispatch(name string, task Task) error {
	if err := task(context.Background()); err != nil {
		logger.Error("Background task %s failed: %v", name, err)
	}
	return nil
}
