// Package workerpool runs independent tasks on a fixed number of goroutines.
package workerpool

import (
	"context"
	"sync"
)

type Task func(ctx context.Context) error

// Result reports the outcome of the task submitted with the same Index.
type Result struct {
	Index int
	Err   error
}

type Pool struct {
	workers int
	tasks   chan indexedTask
	wg      sync.WaitGroup
	next    int
}

type indexedTask struct {
	index int
	run   Task
}

func New(workers, buffer int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan indexedTask, buffer),
	}
}

// Submit queues t and returns its index. It blocks when the buffer is full.
// Submit must not be called concurrently or after Close.
func (p *Pool) Submit(t Task) int {
	i := p.next
	p.next++
	p.tasks <- indexedTask{index: i, run: t}
	return i
}

func (p *Pool) Close() {
	close(p.tasks)
}

// Run starts the workers. The returned channel is closed once every task has
// finished or ctx is done.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	out := make(chan Result, p.workers)

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t.run == nil {
						continue
					}
					err := t.run(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- Result{Index: t.index, Err: err}:
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

// Each calls fn for every index in [0, n) using at most workers goroutines
// and returns the per-index errors. Indexes that never ran because ctx ended
// carry ctx.Err().
func Each(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) []error {
	errs := make([]error, n)
	if n == 0 {
		return errs
	}
	done := make([]bool, n)

	p := New(workers, n)
	results := p.Run(ctx)
	for i := 0; i < n; i++ {
		i := i
		p.Submit(func(ctx context.Context) error { return fn(ctx, i) })
	}
	p.Close()

	for r := range results {
		errs[r.Index] = r.Err
		done[r.Index] = true
	}
	for i := range done {
		if !done[i] {
			errs[i] = ctx.Err()
			if errs[i] == nil {
				errs[i] = context.Canceled
			}
		}
	}
	return errs
}
