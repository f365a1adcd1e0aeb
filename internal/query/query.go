// Package query bridges a poll-driven caller, such as a render loop, and a
// single background job. Fetch starts the job without blocking, Poll picks up
// its outcome without blocking, and State tells the caller where things are.
package query

import "sync"

// Outcome is what a finished job delivers, exactly once.
type Outcome[T any] struct {
	value T
	err   error
}

// Query holds the state of at most one observed background job.
// The zero value is ready to use and idle.
type Query[T any] struct {
	lock    sync.Mutex
	state   State[T]
	results <-chan Outcome[T] // non-nil iff state.Status == StatusRunning
}

func New[T any]() *Query[T] {
	return &Query[T]{}
}

// Fetch starts work on its own goroutine and marks the query running.
// It returns immediately. Calling Fetch while a job is still running orphans
// that job: it runs to completion but its outcome is never observed.
func (q *Query[T]) Fetch(work func() (T, error)) {
	results := make(chan Outcome[T], 1)

	q.lock.Lock()
	q.results = results
	q.state = State[T]{Status: StatusRunning}
	q.lock.Unlock()

	go run(work, results)
}

// Poll does a single non-blocking check for the job's outcome.
// It is a no-op unless the query is running.
func (q *Query[T]) Poll() {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.results == nil {
		return
	}

	select {
	case out := <-q.results:
		if out.err != nil {
			q.state = State[T]{Status: StatusFailed, Err: out.err}
		} else {
			q.state = State[T]{Status: StatusSucceeded, Value: out.value}
		}
		q.results = nil
	default:
	}
}

// IsReady reports whether no job is outstanding.
func (q *Query[T]) IsReady() bool {
	return q.State().Status != StatusRunning
}

// State returns a snapshot of the current state.
func (q *Query[T]) State() State[T] {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.state
}

// run executes work and delivers exactly one outcome into the buffered
// channel, so the send never blocks even when nobody is listening anymore.
func run[T any](work func() (T, error), results chan<- Outcome[T]) {
	var (
		out       Outcome[T]
		completed bool
	)

	defer func() {
		if r := recover(); r != nil {
			out = Outcome[T]{err: &AbortedError{Reason: r}}
		} else if !completed {
			out = Outcome[T]{err: &AbortedError{}}
		}
		results <- out
	}()

	out.value, out.err = work()
	completed = true
}
