package observable

import (
	"context"
	"sync"
)

// A Future is the eventual outcome of an asynchronous operation. It settles
// exactly once, in one of three ways: with a value, with an error, or empty.
// An empty future stands for an operation that never happened.
type Future[T any] struct {
	once sync.Once
	done chan struct{}

	lock      sync.Mutex
	settled   bool
	value     T
	hasValue  bool
	err       error
	callbacks []func(T, bool, error)
}

// NewFuture creates a pending future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Empty returns a future that has already completed without a value.
func Empty[T any]() *Future[T] {
	f := NewFuture[T]()
	f.Complete()

	return f
}

// Resolve settles the future with a value. Later calls to any settling method
// are ignored.
func (f *Future[T]) Resolve(value T) {
	f.settle(value, true, nil)
}

// Fail settles the future with an error.
func (f *Future[T]) Fail(err error) {
	var zero T
	f.settle(zero, false, err)
}

// Complete settles the future without a value.
func (f *Future[T]) Complete() {
	var zero T
	f.settle(zero, false, nil)
}

func (f *Future[T]) settle(value T, hasValue bool, err error) {
	f.once.Do(func() {
		f.lock.Lock()
		f.settled = true
		f.value = value
		f.hasValue = hasValue
		f.err = err
		callbacks := f.callbacks
		f.callbacks = nil
		f.lock.Unlock()

		close(f.done)

		for _, cb := range callbacks {
			cb(value, hasValue, err)
		}
	})
}

// Done returns a channel that is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or the context is done. An empty
// future yields the zero value and no error.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.lock.Lock()
		defer f.lock.Unlock()

		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Value returns the value and whether the future settled with one.
func (f *Future[T]) Value() (T, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.value, f.hasValue
}

// Err returns the error the future failed with, if any.
func (f *Future[T]) Err() error {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.err
}

// IsSettled tells if the future has settled.
func (f *Future[T]) IsSettled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Then registers a callback that runs once the future settles. If the future
// has already settled, the callback runs immediately on the calling
// goroutine.
func (f *Future[T]) Then(cb func(value T, hasValue bool, err error)) {
	f.lock.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, cb)
		f.lock.Unlock()
		return
	}

	value, hasValue, err := f.value, f.hasValue, f.err
	f.lock.Unlock()

	cb(value, hasValue, err)
}
