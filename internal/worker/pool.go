package worker

import (
	"context"
	"sync"
)

type Task func(ctx context.Context) error

type Result struct {
	Index int
	Err   error
}

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	workers int
	tasks   chan indexedTask
	wg      sync.WaitGroup
	once    sync.Once
}

type indexedTask struct {
	index int
	run   Task
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
		tasks:   make(chan indexedTask, buffer),
	}
}

func (p *Pool) Workers() int {
	if p == nil {
		return 0
	}
	return p.workers
}

// Submit blocks while the buffer is full. Submitting after Close panics.
func (p *Pool) Submit(index int, t Task) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- indexedTask{index: index, run: t}
}

func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.tasks) })
}

// Run starts the workers. The returned channel is closed once every worker has exited,
// either because Close drained the queue or because ctx was cancelled.
func (p *Pool) Run(ctx context.Context) <-chan Result {
	if p == nil {
		out := make(chan Result)
		close(out)
		return out
	}

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

// ForEach runs fn for every index in [0, n) on workers goroutines and returns the
// per-index errors. It returns ctx.Err() if the context ends before all tasks ran.
func ForEach(ctx context.Context, workers, n int, fn func(ctx context.Context, i int) error) ([]error, error) {
	errs := make([]error, n)
	if n == 0 {
		return errs, nil
	}
	if workers > n {
		workers = n
	}

	p := NewPool(workers, n)
	results := p.Run(ctx)
	for i := 0; i < n; i++ {
		i := i
		p.Submit(i, func(ctx context.Context) error { return fn(ctx, i) })
	}
	p.Close()

	done := 0
	for r := range results {
		errs[r.Index] = r.Err
		done++
	}
	if done < n {
		if err := ctx.Err(); err != nil {
			return errs, err
		}
	}
	return errs, nil
}
