// Package worker runs claim scenarios concurrently and rate-limits backend calls.
package worker

import (
	"context"
	"sort"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type queued struct {
	index int
	job   Job
}

type indexed struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of workers. Jobs are submitted from one
// goroutine; results come back in submission order.
type Pool struct {
	workers    int
	jobQueue   chan queued
	results    chan indexed
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	collected  chan struct{}
	out        []indexed
	submitted  int
}

// NewPool creates a pool whose jobs stop when ctx is cancelled
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan queued, workers*2),
		results:    make(chan indexed, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		collected:  make(chan struct{}),
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case q, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := q.job.Execute(p.ctx)
			select {
			case p.results <- indexed{index: q.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

func (p *Pool) collect() {
	defer close(p.collected)
	for r := range p.results {
		p.out = append(p.out, r)
	}
}

// Submit queues a job. It reports false when the pool has been cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- queued{index: p.submitted, job: job}:
		p.submitted++
		return true
	}
}

// Wait waits for all submitted jobs and returns their results in submission
// order. Jobs dropped by cancellation have no result.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.collected

	sort.Slice(p.out, func(i, j int) bool { return p.out[i].index < p.out[j].index })
	results := make([]Result, len(p.out))
	for i, r := range p.out {
		results[i] = r.result
	}
	return results
}

// Shutdown cancels running jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	<-p.collected
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
