// Package parallel runs pixel work for history captures on a fixed set of
// goroutines.
//
// Callers always join: every Execute* method returns only after each queued
// item has finished, so a surface is never observed mid-mutation once the
// call returns.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a pool of goroutines with per-worker queues.
//
// A worker whose own queue is empty steals from the others, which keeps the
// pool busy when bands take uneven time (e.g. resampling a mostly
// transparent layer).
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers    int
	workQueues []chan func()
	done       chan struct{}
	wg         sync.WaitGroup
	running    atomic.Bool
}

// NewWorkerPool creates a started pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &WorkerPool{
		workers:    workers,
		workQueues: make([]chan func(), workers),
		done:       make(chan struct{}),
	}
	for i := range workers {
		p.workQueues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.workQueues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			run(work)
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				run(work)
			}
		}
	}
}

func run(work func()) {
	if work != nil {
		work()
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			run(work)
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case work := <-p.workQueues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll runs every item and waits for all of them.
// On a closed pool the items run on the calling goroutine.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			run(fn)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		fn := fn
		wrapped := func() {
			defer wg.Done()
			run(fn)
		}
		select {
		case p.workQueues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// ExecuteAllContext is ExecuteAll with cancellation: items that have not
// started when ctx is done are skipped. It still waits for items already
// running, so the pool is drained when it returns. The returned error is
// ctx.Err() if any item was skipped.
func (p *WorkerPool) ExecuteAllContext(ctx context.Context, work []func()) error {
	var skipped atomic.Bool
	guarded := make([]func(), len(work))
	for i, fn := range work {
		fn := fn
		guarded[i] = func() {
			if ctx.Err() != nil {
				skipped.Store(true)
				return
			}
			run(fn)
		}
	}
	p.ExecuteAll(guarded)
	if skipped.Load() {
		return ctx.Err()
	}
	return nil
}

// ExecuteBands splits [0, height) into horizontal bands of at most
// bandHeight rows and runs fn once per band, waiting for all bands.
func (p *WorkerPool) ExecuteBands(ctx context.Context, height, bandHeight int, fn func(y0, y1 int)) error {
	if height <= 0 {
		return nil
	}
	if bandHeight <= 0 {
		bandHeight = (height + p.workers - 1) / p.workers
	}
	work := make([]func(), 0, (height+bandHeight-1)/bandHeight)
	for y := 0; y < height; y += bandHeight {
		y0, y1 := y, min(y+bandHeight, height)
		work = append(work, func() { fn(y0, y1) })
	}
	return p.ExecuteAllContext(ctx, work)
}

// Close stops accepting work, finishes what is queued and stops the workers.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
