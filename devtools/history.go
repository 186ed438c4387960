package devtools

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sarchlab/rxstore/developer"
)

// InitAction is the type of the action recorded at the handshake.
const InitAction = "@@INIT"

// ActionType is the type of an action, as the Redux DevTools stores it.
type ActionType struct {
	Type string `json:"type"`
}

// LiftedAction is an entry of LiftedState.ActionsByID.
type LiftedAction struct {
	Action    ActionType `json:"action"`
	Timestamp int64      `json:"timestamp"`
	Type      string     `json:"type"`
}

// ComputedState is an entry of LiftedState.ComputedStates.
type ComputedState struct {
	State developer.State `json:"state"`
}

// LiftedState is the whole history of a store, in the format the Redux
// DevTools use for export and import.
type LiftedState struct {
	ActionsByID       map[int]LiftedAction `json:"actionsById"`
	ComputedStates    []ComputedState      `json:"computedStates"`
	CurrentStateIndex int                  `json:"currentStateIndex"`
	NextActionID      int                  `json:"nextActionId"`
	SkippedActionIDs  []int                `json:"skippedActionIds"`
	StagedActionIDs   []int                `json:"stagedActionIds"`
}

// EmptyLiftedState returns a history with nothing recorded.
func EmptyLiftedState() LiftedState {
	return LiftedState{
		ActionsByID:       map[int]LiftedAction{},
		ComputedStates:    []ComputedState{},
		CurrentStateIndex: -1,
		SkippedActionIDs:  []int{},
		StagedActionIDs:   []int{},
	}
}

// Clone returns a deep copy of the lifted state.
func (l LiftedState) Clone() LiftedState {
	c := LiftedState{
		ActionsByID:       make(map[int]LiftedAction, len(l.ActionsByID)),
		ComputedStates:    make([]ComputedState, len(l.ComputedStates)),
		CurrentStateIndex: l.CurrentStateIndex,
		NextActionID:      l.NextActionID,
		SkippedActionIDs:  append([]int{}, l.SkippedActionIDs...),
		StagedActionIDs:   append([]int{}, l.StagedActionIDs...),
	}

	for id, a := range l.ActionsByID {
		c.ActionsByID[id] = a
	}

	for i, s := range l.ComputedStates {
		c.ComputedStates[i] = ComputedState{State: s.State.Clone()}
	}

	return c
}

// History is an in-process inspector. It records every state it is sent and
// can send the store back to any of them.
type History struct {
	lock        sync.Mutex
	lifted      LiftedState
	subscribers []func([]byte)
	now         func() time.Time
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{
		lifted: EmptyLiftedState(),
		now:    time.Now,
	}
}

// Init starts a new history from the given state.
func (h *History) Init(state json.RawMessage) error {
	s := developer.State{}
	if err := json.Unmarshal(state, &s); err != nil {
		return fmt.Errorf("history init: %w", err)
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	h.lifted = EmptyLiftedState()
	h.record(InitAction, s)

	return nil
}

// Send appends a state to the history and makes it the current one.
func (h *History) Send(action string, state json.RawMessage) error {
	s := developer.State{}
	if err := json.Unmarshal(state, &s); err != nil {
		return fmt.Errorf("history send %q: %w", action, err)
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	h.record(action, s)

	return nil
}

func (h *History) record(action string, s developer.State) {
	id := h.lifted.NextActionID

	h.lifted.ActionsByID[id] = LiftedAction{
		Action:    ActionType{Type: action},
		Timestamp: h.now().UnixMilli(),
		Type:      "PERFORM_ACTION",
	}
	h.lifted.ComputedStates = append(h.lifted.ComputedStates, ComputedState{State: s})
	h.lifted.StagedActionIDs = append(h.lifted.StagedActionIDs, id)
	h.lifted.CurrentStateIndex = len(h.lifted.ComputedStates) - 1
	h.lifted.NextActionID++
}

// Subscribe registers a function that receives the messages the history
// sends to the store.
func (h *History) Subscribe(fn func(msg []byte)) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.subscribers = append(h.subscribers, fn)
}

// Lifted returns a copy of the recorded history.
func (h *History) Lifted() LiftedState {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.lifted.Clone()
}

// Len returns the number of states recorded.
func (h *History) Len() int {
	h.lock.Lock()
	defer h.lock.Unlock()

	return len(h.lifted.ComputedStates)
}

// Jump sends the store back to the state recorded at index.
func (h *History) Jump(index int) error {
	h.lock.Lock()

	if index < 0 || index >= len(h.lifted.ComputedStates) {
		n := len(h.lifted.ComputedStates)
		h.lock.Unlock()

		return fmt.Errorf("%w: %d of %d", ErrStateIndexOutOfRange, index, n)
	}

	state, err := json.Marshal(h.lifted.ComputedStates[index].State)
	if err != nil {
		h.lock.Unlock()
		return err
	}

	text := string(state)
	msg, err := json.Marshal(rawMessage{
		Type:    TypeDispatch,
		State:   &text,
		Payload: &rawPayload{Type: PayloadJumpState},
	})
	if err != nil {
		h.lock.Unlock()
		return err
	}

	h.lifted.CurrentStateIndex = index
	subscribers := h.copySubscribers()
	h.lock.Unlock()

	notify(subscribers, msg)

	return nil
}

// Import replaces the history with the given one and sends the store to its
// current state.
func (h *History) Import(lifted LiftedState) error {
	if lifted.CurrentStateIndex < 0 ||
		lifted.CurrentStateIndex >= len(lifted.ComputedStates) {
		return fmt.Errorf("%w: %d of %d", ErrStateIndexOutOfRange,
			lifted.CurrentStateIndex, len(lifted.ComputedStates))
	}

	imported := lifted.Clone()
	msg, err := json.Marshal(struct {
		Type    string `json:"type"`
		Payload struct {
			Type            string       `json:"type"`
			NextLiftedState *LiftedState `json:"nextLiftedState,omitempty"`
		} `json:"payload"`
	}{
		Type: TypeDispatch,
		Payload: struct {
			Type            string       `json:"type"`
			NextLiftedState *LiftedState `json:"nextLiftedState,omitempty"`
		}{Type: PayloadImport, NextLiftedState: &imported},
	})
	if err != nil {
		return err
	}

	h.lock.Lock()
	h.lifted = imported
	subscribers := h.copySubscribers()
	h.lock.Unlock()

	notify(subscribers, msg)

	return nil
}

func (h *History) copySubscribers() []func([]byte) {
	return append([]func([]byte){}, h.subscribers...)
}

func notify(subscribers []func([]byte), msg []byte) {
	for _, fn := range subscribers {
		fn(msg)
	}
}

var _ Inspector = (*History)(nil)
