package engine

import (
	"context"
	"sync"

	"github.com/sarchlab/rxstore/hooking"
)

// SerialEngine processes scheduled events one after another, in the order
// they were scheduled.
type SerialEngine struct {
	*hooking.HookableBase

	queueLock sync.Mutex
	queue     []ScheduledEvent
	stopped   bool
	wakeup    chan struct{}

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		HookableBase: hooking.NewHookableBase(),
		wakeup:       make(chan struct{}, 1),
	}
}

// Schedule appends an event to the queue. It returns ErrStopped if the engine
// has already been stopped.
func (e *SerialEngine) Schedule(evt ScheduledEvent) error {
	e.queueLock.Lock()
	if e.stopped {
		e.queueLock.Unlock()
		return ErrStopped
	}

	e.queue = append(e.queue, evt)
	e.queueLock.Unlock()

	select {
	case e.wakeup <- struct{}{}:
	default:
	}

	return nil
}

// Run processes events until the context is canceled. Events still queued
// when the engine stops can be retrieved with Drain. An engine runs only
// once; calling Run on a stopped engine returns ErrStopped.
func (e *SerialEngine) Run(ctx context.Context) error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	if e.isStopped() {
		return ErrStopped
	}

	for {
		if !e.hasEvent() {
			select {
			case <-ctx.Done():
				e.stop()
				return nil
			case <-e.wakeup:
				continue
			}
		}

		e.pauseLock.Lock()

		if ctx.Err() != nil {
			e.pauseLock.Unlock()
			e.stop()
			return nil
		}

		evt := e.popEvent()
		e.handle(evt)

		e.pauseLock.Unlock()
	}
}

func (e *SerialEngine) handle(evt ScheduledEvent) {
	hookCtx := hooking.HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt.Event,
	}
	e.InvokeHook(hookCtx)

	var err error
	if evt.Handler != nil {
		err = evt.Handler.Handle(evt.Event)
	}

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Detail = err
	e.InvokeHook(hookCtx)
}

func (e *SerialEngine) hasEvent() bool {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return len(e.queue) > 0
}

func (e *SerialEngine) popEvent() ScheduledEvent {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	evt := e.queue[0]
	e.queue[0] = ScheduledEvent{}
	e.queue = e.queue[1:]

	return evt
}

func (e *SerialEngine) isStopped() bool {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return e.stopped
}

func (e *SerialEngine) stop() {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	e.stopped = true
}

// Pending returns the number of events waiting to be handled.
func (e *SerialEngine) Pending() int {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	return len(e.queue)
}

// Drain removes and returns the events that were never handled. It is meant
// to be called after Run returns.
func (e *SerialEngine) Drain() []ScheduledEvent {
	e.queueLock.Lock()
	defer e.queueLock.Unlock()

	left := e.queue
	e.queue = nil

	return left
}

// Pause prevents the engine from handling more events until Continue is
// called. An event being handled when Pause is called finishes first.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue resumes event processing after a Pause.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// IsPaused tells if the engine is currently paused.
func (e *SerialEngine) IsPaused() bool {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	return e.isPaused
}

var _ EventScheduler = (*SerialEngine)(nil)
