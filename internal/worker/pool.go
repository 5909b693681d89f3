// Package worker runs document jobs over a bounded set of goroutines and
// rate-limits calls to shared upstreams.
package worker

import (
	"context"
	"sync"
)

// Job is one document's worth of work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result carries a job's outcome; a non-nil error marks the job failed
type Result interface {
	GetError() error
}

// Pool executes jobs on a fixed number of goroutines. Results arrive in
// completion order; BatchProcessor restores input order.
type Pool struct {
	size    int
	queue   chan Job
	results chan Result
	running sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	closed  sync.Once
}

// NewPool creates a pool of size goroutines, at least one, bound to ctx
func NewPool(ctx context.Context, size int) *Pool {
	if size < 1 {
		size = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool{
		size:    size,
		queue:   make(chan Job, size*2),
		results: make(chan Result, size*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the goroutines
func (p *Pool) Start() {
	p.running.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.running.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			res := job.Execute(p.ctx)
			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job, blocking while the queue is full. It returns false
// once the pool's context is done.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case p.queue <- job:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Results is closed after every goroutine has exited
func (p *Pool) Results() <-chan Result {
	return p.results
}

// Close stops intake; queued jobs still run
func (p *Pool) Close() {
	close(p.queue)
	go func() {
		p.running.Wait()
		p.closeResults()
	}()
}

// Wait closes the pool and gathers the remaining results
func (p *Pool) Wait() []Result {
	p.Close()
	var out []Result
	for r := range p.results {
		out = append(out, r)
	}
	return out
}

// Shutdown cancels running jobs and returns once the goroutines exit
func (p *Pool) Shutdown() {
	p.cancel()
	p.running.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closed.Do(func() { close(p.results) })
}
