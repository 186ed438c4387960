// Package observable provides a value holder that always has a current value
// and pushes every new value to its subscribers, plus the middleware pipeline
// and the future type used by store actions.
package observable

import (
	"sync"
	"sync/atomic"

	"github.com/sarchlab/rxstore/idgen"
)

// An Observer receives values published by a container.
type Observer[T any] func(value T)

// Observable is the read-only side of a container. It is the only handle that
// consumers of a store are given.
type Observable[T any] interface {
	// Subscribe registers an observer. The observer is invoked immediately
	// with the current value, then once for every later publish, until the
	// returned subscription is disposed.
	Subscribe(observer Observer[T]) *Subscription

	// Value returns the latest published value without subscribing.
	Value() T
}

type registration[T any] struct {
	id       string
	observer Observer[T]
	disposed atomic.Bool
}

// A Container holds the current value and notifies observers synchronously,
// in subscription order, on every publish.
//
// Publishes are serialized. Observers must not call Publish or Subscribe on
// the container that is notifying them.
type Container[T any] struct {
	publishLock sync.Mutex

	lock          sync.RWMutex
	value         T
	registrations []*registration[T]

	idGenerator idgen.Generator
}

// NewContainer creates a container holding the initial value.
func NewContainer[T any](initial T) *Container[T] {
	return &Container[T]{
		value:       initial,
		idGenerator: idgen.New(),
	}
}

// Subscribe registers an observer and replays the current value to it before
// returning.
func (c *Container[T]) Subscribe(observer Observer[T]) *Subscription {
	c.publishLock.Lock()
	defer c.publishLock.Unlock()

	r := &registration[T]{
		id:       c.idGenerator.Generate(),
		observer: observer,
	}

	c.lock.Lock()
	c.registrations = append(c.registrations, r)
	current := c.value
	c.lock.Unlock()

	observer(current)

	return newSubscription(r.id, func() { c.remove(r) })
}

// Publish replaces the current value and notifies every live observer, in the
// order they subscribed.
func (c *Container[T]) Publish(value T) {
	c.publishLock.Lock()
	defer c.publishLock.Unlock()

	c.lock.Lock()
	c.value = value
	registrations := make([]*registration[T], len(c.registrations))
	copy(registrations, c.registrations)
	c.lock.Unlock()

	for _, r := range registrations {
		if r.disposed.Load() {
			continue
		}

		r.observer(value)
	}
}

// Value returns the latest published value, or the initial value if nothing
// has been published.
func (c *Container[T]) Value() T {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.value
}

// NumObservers returns the number of observers that are still subscribed.
func (c *Container[T]) NumObservers() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return len(c.registrations)
}

// AsObservable returns a view of the container that cannot publish.
func (c *Container[T]) AsObservable() Observable[T] {
	return readOnly[T]{c: c}
}

func (c *Container[T]) remove(r *registration[T]) {
	r.disposed.Store(true)

	c.lock.Lock()
	defer c.lock.Unlock()

	for i, existing := range c.registrations {
		if existing == r {
			c.registrations = append(c.registrations[:i:i], c.registrations[i+1:]...)
			return
		}
	}
}

type readOnly[T any] struct {
	c *Container[T]
}

func (r readOnly[T]) Subscribe(observer Observer[T]) *Subscription {
	return r.c.Subscribe(observer)
}

func (r readOnly[T]) Value() T {
	return r.c.Value()
}

// WithCopy returns a read-only view of src that gives every observer, and
// every caller of Value, its own copy of the value made by clone.
func WithCopy[T any](src Observable[T], clone func(T) T) Observable[T] {
	return copying[T]{src: src, clone: clone}
}

type copying[T any] struct {
	src   Observable[T]
	clone func(T) T
}

func (c copying[T]) Subscribe(observer Observer[T]) *Subscription {
	return c.src.Subscribe(func(value T) {
		observer(c.clone(value))
	})
}

func (c copying[T]) Value() T {
	return c.clone(c.src.Value())
}

var _ Observable[int] = (*Container[int])(nil)
