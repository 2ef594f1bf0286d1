// Package work provides a bounded worker pool for blocking fetch jobs.
package work

import (
	"context"

	"tunegrab/internal/core"
)

// Pool runs jobs on a fixed number of workers with a bounded queue. When the
// queue is full, submission fails immediately instead of blocking the caller.
type Pool struct {
	jobs   chan func()
	ctx    context.Context
	cancel context.CancelFunc
}

// New starts a pool of workers draining a queue of queueSize pending jobs.
func New(parent context.Context, workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	ctx, cancel := context.WithCancel(parent)
	p := &Pool{
		jobs:   make(chan func(), queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// TrySubmit enqueues a job. It returns core.ErrBusy when the queue is full
// and the pool's context error when the pool is shut down.
func (p *Pool) TrySubmit(job func()) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return core.ErrBusy
	}
}

// Stop shuts the pool down. Queued jobs that have not started are dropped.
func (p *Pool) Stop() {
	p.cancel()
}

func (p *Pool) worker() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			job()
		}
	}
}
