// Package engine provides the single-writer event loop that serializes every
// state transition of a store.
//
// Work that may block, such as calls into a data source, runs elsewhere and
// only hands its result to the engine as an event. The engine then handles
// events one after another on a single goroutine, so handlers never race with
// each other.
package engine

import (
	"errors"

	"github.com/sarchlab/rxstore/hooking"
)

// ErrStopped is returned when scheduling on an engine that is no longer
// running.
var ErrStopped = errors.New("engine: stopped")

// HookPosBeforeEvent is a hook position that triggers before handling an event.
var HookPosBeforeEvent = &hooking.HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent is a hook position that triggers after handling an event.
// The hook detail carries the error returned by the handler, if any.
var HookPosAfterEvent = &hooking.HookPos{Name: "AfterEvent"}

// Handler processes events of various types.
// Events are plain data structs. Handlers use type switching to handle
// different event types:
//
//	func (h *MyHandler) Handle(event any) error {
//	    switch e := event.(type) {
//	    case *MyEvent:
//	        // handle MyEvent
//	    default:
//	        return fmt.Errorf("unknown event type: %T", event)
//	    }
//	    return nil
//	}
type Handler interface {
	Handle(event any) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(event any) error

// Handle calls f(event).
func (f HandlerFunc) Handle(event any) error {
	return f(event)
}

// ScheduledEvent is the engine-facing wrapper for user-defined events.
type ScheduledEvent struct {
	// Event is the data payload to be delivered to the handler.
	Event any

	// Handler is the component that will process this event.
	Handler Handler
}

// EventScheduler can be used to schedule events.
type EventScheduler interface {
	Schedule(evt ScheduledEvent) error
}
