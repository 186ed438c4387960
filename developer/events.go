package developer

import "github.com/sarchlab/rxstore/observable"

// Events are handed to the store's engine once the blocking part of an
// action is over. The store handles them one at a time.

type abortable interface {
	abort(err error)
}

type actionStartedEvent struct {
	action Action
}

func (e *actionStartedEvent) abort(error) {}

type developersLoadedEvent struct {
	action     Action
	developers []Developer
	future     *observable.Future[State]
}

func (e *developersLoadedEvent) abort(err error) {
	e.future.Fail(err)
}

type developerAddedEvent struct {
	action    Action
	developer Developer
	future    *observable.Future[Developer]
}

func (e *developerAddedEvent) abort(err error) {
	e.future.Fail(err)
}

type actionFailedEvent struct {
	action Action
	err    error
	fail   func(error)
}

func (e *actionFailedEvent) abort(error) {
	e.fail(e.err)
}

type stateInjectedEvent struct {
	action Action
	state  State
	future *observable.Future[State]
}

func (e *stateInjectedEvent) abort(err error) {
	e.future.Fail(err)
}
