// Package devtools connects a developer store to a state inspector, such as
// the Redux DevTools or the in-process History, and serves the store over
// HTTP for inspection.
package devtools

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/sarchlab/rxstore/developer"
	"github.com/sarchlab/rxstore/hooking"
	"github.com/sarchlab/rxstore/observable"
)

// An Inspector records the states of a store and may send messages back, for
// example to travel to an earlier state.
type Inspector interface {
	// Init is the handshake. It receives the state at connection time.
	Init(state json.RawMessage) error

	// Send records a state published by the store under an action label.
	Send(action string, state json.RawMessage) error

	// Subscribe registers a function that receives the inbound messages.
	Subscribe(fn func(msg []byte))
}

// Store is the part of a developer store that the devtools use.
type Store interface {
	hooking.Hookable
	Snapshot() developer.State
	Inject(state developer.State, label string) *observable.Future[developer.State]
}

// A Bridge forwards published states to an inspector and applies the states
// the inspector sends back. An inactive bridge does nothing.
type Bridge struct {
	store     Store
	inspector Inspector
	logger    *log.Logger
	active    bool
}

// Connect attaches an inspector to the store. If the inspector is nil or the
// handshake fails, the returned bridge is inactive and the store runs without
// devtools.
func Connect(store Store, inspector Inspector, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.Default()
	}

	b := &Bridge{
		store:     store,
		inspector: inspector,
		logger:    logger,
	}

	if inspector == nil {
		return b
	}

	initial, err := json.Marshal(store.Snapshot())
	if err != nil {
		logger.Printf("devtools: cannot serialize initial state: %v", err)
		return b
	}

	if err := inspector.Init(initial); err != nil {
		logger.Printf("devtools: inspector unavailable: %v", err)
		return b
	}

	logger.Printf("devtools: connected")

	b.active = true
	store.AcceptHook(b)
	inspector.Subscribe(b.onMessage)

	return b
}

// Active tells if the bridge is connected to an inspector.
func (b *Bridge) Active() bool {
	return b.active
}

// Func forwards published states to the inspector. Injected states are not
// forwarded, as they come from the inspector in the first place.
func (b *Bridge) Func(ctx hooking.HookCtx) {
	if !b.active || ctx.Pos != developer.HookPosPublish {
		return
	}

	tr, ok := ctx.Item.(developer.Transition)
	if !ok {
		return
	}

	data, err := json.Marshal(tr.State)
	if err != nil {
		b.logger.Printf("devtools: cannot serialize %q: %v", tr.Label(), err)
		return
	}

	if err := b.inspector.Send(tr.Label(), data); err != nil {
		b.logger.Printf("devtools: cannot send %q: %v", tr.Label(), err)
	}
}

// Receive applies an inbound message to the store. It returns the future of
// the injected state, or nil if the message does not change the store.
func (b *Bridge) Receive(msg []byte) (*observable.Future[developer.State], error) {
	if !b.active {
		return nil, nil
	}

	m, err := ParseMessage(msg)
	if err != nil {
		return nil, err
	}

	switch m := m.(type) {
	case PlainDispatch:
		return b.store.Inject(m.State, dispatchLabel(m.PayloadType)), nil
	case ImportState:
		return b.store.Inject(m.State, "devtools import"), nil
	default:
		return nil, nil
	}
}

func (b *Bridge) onMessage(msg []byte) {
	if _, err := b.Receive(msg); err != nil {
		b.logger.Printf("devtools: ignoring message: %v", err)
	}
}

func dispatchLabel(payloadType string) string {
	if payloadType == "" {
		return "devtools dispatch"
	}

	return fmt.Sprintf("devtools dispatch %s", payloadType)
}

var _ hooking.Hook = (*Bridge)(nil)
