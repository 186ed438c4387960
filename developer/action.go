package developer

import (
	"fmt"

	"github.com/sarchlab/rxstore/hooking"
)

// HookPosActionStart triggers when an action is accepted, before the data
// source is called. The hook item is an Action.
var HookPosActionStart = &hooking.HookPos{Name: "ActionStart"}

// HookPosPublish triggers after an action published a new state. The hook
// item is a Transition.
var HookPosPublish = &hooking.HookPos{Name: "Publish"}

// HookPosInject triggers after a state was injected with Store.Inject. The
// hook item is a Transition.
var HookPosInject = &hooking.HookPos{Name: "Inject"}

// HookPosActionFailed triggers when an action ends without publishing because
// of an error. The hook item is an Action and the detail is the error.
var HookPosActionFailed = &hooking.HookPos{Name: "ActionFailed"}

// ActionKind tells which store operation an action is.
type ActionKind string

// The kinds of actions a store performs.
const (
	ActionLoad   ActionKind = "load"
	ActionAdd    ActionKind = "add"
	ActionInject ActionKind = "inject"
)

// An Action describes one invocation of a store operation.
type Action struct {
	ID       string
	Kind     ActionKind
	Category Category
	Name     string
	label    string
}

// Label returns the human readable name of the action, as shown in the
// developer tools.
func (a Action) Label() string {
	switch a.Kind {
	case ActionLoad:
		return fmt.Sprintf("load %s devs", a.Category)
	case ActionAdd:
		return "add new developer"
	default:
		if a.label != "" {
			return a.label
		}

		return string(a.Kind)
	}
}

func (a Action) String() string {
	return a.ID + " " + a.Label()
}

// A Transition is a state published by an action.
type Transition struct {
	ID     string
	Action Action
	State  State
}

// Label returns the label of the action that caused the transition.
func (t Transition) Label() string {
	return t.Action.Label()
}

func (t Transition) String() string {
	return fmt.Sprintf("%s -> %d developers (%s)",
		t.Action, len(t.State.Developers), t.State.ActiveCategory)
}
