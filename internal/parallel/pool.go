// Package parallel runs CPU reference dispatches on a fixed set of
// goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs work items on a fixed number of goroutines.
//
// Each worker owns a queue and steals from the other queues when its own is
// empty, so slow threadgroups (for example ones that sample a lookup table)
// do not leave workers idle.
//
// Thread safety: WorkerPool is safe for concurrent use. Work items must not
// call ExecuteAll on the pool running them.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// closeMu is read-held by ExecuteAll and write-held by Close.
	closeMu sync.RWMutex
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
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
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
			continue
		default:
		}

		if fn := p.steal(id); fn != nil {
			fn()
			continue
		}

		select {
		case <-p.done:
			drain(own)
			return
		case fn := <-own:
			fn()
		}
	}
}

func drain(q chan func()) {
	for {
		select {
		case fn := <-q:
			fn()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case fn := <-p.queues[i]:
			return fn
		default:
		}
	}
	return nil
}

// ExecuteAll runs every work item and waits for all of them.
// Items not yet queued when ctx is cancelled are skipped and ctx.Err() is
// returned; items already queued still run to completion.
// On a closed pool the items run on the calling goroutine. A concurrent
// Close waits for ExecuteAll to return.
func (p *WorkerPool) ExecuteAll(ctx context.Context, work []func()) error {
	if len(work) == 0 {
		return nil
	}

	// Held until every queued item has run, so the workers outlive them.
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	if !p.running.Load() {
		for _, fn := range work {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
		}
		return nil
	}

	var wg sync.WaitGroup
	var err error
submit:
	for i, fn := range work {
		if err = ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-ctx.Done():
			wg.Done()
			err = ctx.Err()
			break submit
		}
	}
	wg.Wait()
	return err
}

// Close stops the workers after in-flight ExecuteAll calls return.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.closeMu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.closeMu.Unlock()
		return
	}
	close(p.done)
	p.closeMu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
