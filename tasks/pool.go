// Package tasks provides a small bounded worker pool with future-style
// result handles, used to fan out independent network fetches and toolchain
// probes while the UI keeps rendering.
package tasks

import (
	"errors"
	"sync"
)

// ErrPoolClosed completes any future whose unit was still queued when the
// pool shut down.
var ErrPoolClosed = errors.New("task pool closed")

// DefaultWorkers matches the fetch fan-out the install flow needs; the
// sources are few and rate-limited, more buys nothing.
const DefaultWorkers = 5

// Handle is the type-erased view of a Future, enough for done-polling.
type Handle interface {
	Done() bool
}

// Future holds the eventual result of one submitted unit.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// Done reports completion without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the unit has run (or was cancelled) and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}

func (f *Future[T]) complete(val T, err error) {
	f.once.Do(func() {
		f.val = val
		f.err = err
		close(f.done)
	})
}

// AllDone reports whether every handle has completed.
func AllDone(handles ...Handle) bool {
	for _, h := range handles {
		if !h.Done() {
			return false
		}
	}
	return true
}

type task struct {
	run    func()
	cancel func()
}

// Pool runs submitted units on a fixed number of workers. Units must be
// self-contained: they share nothing and synchronize only through their
// future.
type Pool struct {
	jobs     chan task
	quit     chan struct{}
	shutdown sync.Once
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := &Pool{
		jobs: make(chan task, 64),
		quit: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for {
		select {
		case <-p.quit:
			return
		case t := <-p.jobs:
			t.run()
		}
	}
}

// Submit queues fn and returns its future. Each unit runs at most once; a
// unit still queued at shutdown completes with ErrPoolClosed instead.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	t := task{
		run: func() {
			val, err := fn()
			f.complete(val, err)
		},
		cancel: func() {
			var zero T
			f.complete(zero, ErrPoolClosed)
		},
	}
	// Checked before the blocking send: a closed quit and free queue space
	// are both ready, and the select below picks between them at random.
	select {
	case <-p.quit:
		t.cancel()
		return f
	default:
	}
	select {
	case p.jobs <- t:
	case <-p.quit:
		t.cancel()
	}
	return f
}

// Shutdown stops the workers and cancels queued units. It never blocks on
// in-flight work: a unit already running finishes on its own.
func (p *Pool) Shutdown() {
	p.shutdown.Do(func() {
		close(p.quit)
		for {
			select {
			case t := <-p.jobs:
				t.cancel()
			default:
				return
			}
		}
	})
}
