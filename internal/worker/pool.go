package worker

import (
	"context"
	"errors"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool closed")

type Task func(ctx context.Context) error

type Result struct {
	Name string
	Err  error
}

type job struct {
	name string
	fn   Task
}

// Pool runs submitted tasks on a fixed number of goroutines. Results are
// delivered on the channel returned by Run; tasks are never retried.
type Pool struct {
	workers int
	tasks   chan job

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewPool(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan job, buffer),
	}
}

// Submit enqueues t. It blocks while the buffer is full and fails once the
// pool is closed.
func (p *Pool) Submit(name string, t Task) error {
	if p == nil || t == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.tasks <- job{name: name, fn: t}
	return nil
}

func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
}

// Run starts the workers. The result channel is closed after Close was
// called and every queued task finished, or when ctx is done.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	buf := p.workers * 64
	if buf < 1 {
		buf = 1
	}
	out := make(chan Result, buf)
	if p == nil {
		close(out)
		return out
	}

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.tasks:
					if !ok {
						return
					}
					err := j.fn(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Name: j.name, Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}

// Drain consumes results until the channel closes, handing each to fn.
func Drain(results <-chan Result, fn func(Result)) {
	for r := range results {
		if fn != nil {
			fn(r)
		}
	}
}
