package devtools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sarchlab/rxstore/developer"
)

// Errors returned when an inbound message cannot be applied.
var (
	ErrMalformedMessage     = errors.New("malformed devtools message")
	ErrStateIndexOutOfRange = errors.New("state index out of range")
)

// Message types and payload types understood by the bridge.
const (
	TypeDispatch     = "DISPATCH"
	PayloadImport    = "IMPORT_STATE"
	PayloadJumpState = "JUMP_TO_STATE"
)

// A Message is an inbound message sent by an inspector. It is one of
// PlainDispatch, ImportState or Ignored.
type Message interface {
	isMessage()
}

// PlainDispatch asks the store to show the state carried by the message, for
// example when jumping back in time.
type PlainDispatch struct {
	PayloadType string
	State       developer.State
}

// ImportState replaces the store's state with the current state of an
// imported history.
type ImportState struct {
	Index int
	State developer.State
}

// Ignored is a message that does not affect the store.
type Ignored struct {
	Type        string
	PayloadType string
}

func (PlainDispatch) isMessage() {}
func (ImportState) isMessage()   {}
func (Ignored) isMessage()       {}

type rawMessage struct {
	Type    string      `json:"type"`
	State   *string     `json:"state,omitempty"`
	Payload *rawPayload `json:"payload,omitempty"`
}

type rawPayload struct {
	Type            string          `json:"type"`
	NextLiftedState *rawLiftedState `json:"nextLiftedState,omitempty"`
}

// rawLiftedState keeps the computed states undecoded so that a null state can
// be told apart from an empty one.
type rawLiftedState struct {
	ComputedStates []struct {
		State json.RawMessage `json:"state"`
	} `json:"computedStates"`
	CurrentStateIndex int `json:"currentStateIndex"`
}

// ParseMessage decodes an inbound inspector message.
//
// A dispatch whose payload imports a history selects the computed state at
// the history's current index. Any other dispatch must carry the state as
// serialized JSON text. Dispatches without a state and messages of other
// types are returned as Ignored.
func ParseMessage(data []byte) (Message, error) {
	raw := rawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	if raw.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedMessage)
	}

	payloadType := ""
	if raw.Payload != nil {
		payloadType = raw.Payload.Type
	}

	if raw.Type != TypeDispatch {
		return Ignored{Type: raw.Type, PayloadType: payloadType}, nil
	}

	if payloadType == PayloadImport {
		return parseImport(raw.Payload)
	}

	if raw.State == nil {
		return Ignored{Type: raw.Type, PayloadType: payloadType}, nil
	}

	state, err := decodeState([]byte(*raw.State))
	if err != nil {
		return nil, err
	}

	return PlainDispatch{PayloadType: payloadType, State: state}, nil
}

// decodeState decodes a complete store state. A null or missing state is
// malformed. A state without developers gets an empty list.
func decodeState(data []byte) (developer.State, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return developer.State{}, fmt.Errorf("%w: missing state", ErrMalformedMessage)
	}

	state := developer.State{}
	if err := json.Unmarshal(data, &state); err != nil {
		return developer.State{}, fmt.Errorf("%w: state: %v", ErrMalformedMessage, err)
	}

	if state.Developers == nil {
		state.Developers = []developer.Developer{}
	}

	return state, nil
}

func parseImport(payload *rawPayload) (Message, error) {
	lifted := payload.NextLiftedState
	if lifted == nil {
		return nil, fmt.Errorf("%w: import without nextLiftedState",
			ErrMalformedMessage)
	}

	index := lifted.CurrentStateIndex
	if index < 0 || index >= len(lifted.ComputedStates) {
		return nil, fmt.Errorf("%w: %d of %d",
			ErrStateIndexOutOfRange, index, len(lifted.ComputedStates))
	}

	state, err := decodeState(lifted.ComputedStates[index].State)
	if err != nil {
		return nil, err
	}

	return ImportState{Index: index, State: state}, nil
}
