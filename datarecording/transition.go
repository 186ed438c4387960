package datarecording

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/sarchlab/rxstore/developer"
	"github.com/sarchlab/rxstore/hooking"
)

// TransitionTable is the table the transitions of a store are recorded in.
const TransitionTable = "transitions"

// Entry is one recorded transition.
type Entry struct {
	ID            string
	Label         string
	Kind          string
	Category      string
	NumDevelopers int
	StateJSON     string
	Time          int64
}

// A Recorder is a hook that records every state a store publishes or has
// injected.
type Recorder struct {
	hooking.LogHookBase

	recorder DataRecorder
	now      func() time.Time
}

// NewRecorder creates a recorder that writes through the given DataRecorder.
func NewRecorder(recorder DataRecorder, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}

	recorder.CreateTable(TransitionTable, Entry{})

	return &Recorder{
		LogHookBase: hooking.LogHookBase{Logger: logger},
		recorder:    recorder,
		now:         time.Now,
	}
}

// Func records the transition carried by the hook context.
func (r *Recorder) Func(ctx hooking.HookCtx) {
	if ctx.Pos != developer.HookPosPublish && ctx.Pos != developer.HookPosInject {
		return
	}

	tr, ok := ctx.Item.(developer.Transition)
	if !ok {
		return
	}

	state, err := json.Marshal(tr.State)
	if err != nil {
		r.Printf("cannot record %q: %v", tr.Label(), err)
		return
	}

	r.recorder.InsertData(TransitionTable, Entry{
		ID:            tr.ID,
		Label:         tr.Label(),
		Kind:          string(tr.Action.Kind),
		Category:      string(tr.State.ActiveCategory),
		NumDevelopers: len(tr.State.Developers),
		StateJSON:     string(state),
		Time:          r.now().UnixNano(),
	})
}

// Flush writes the buffered transitions to the database.
func (r *Recorder) Flush() {
	r.recorder.Flush()
}

// A TransitionReader reads the transitions recorded by a Recorder.
type TransitionReader struct {
	reader DataReader
}

// NewTransitionReader wraps a DataReader.
func NewTransitionReader(reader DataReader) *TransitionReader {
	reader.MapTable(TransitionTable, Entry{})

	return &TransitionReader{reader: reader}
}

// A TransitionFilter selects recorded transitions. Empty fields match
// everything.
type TransitionFilter struct {
	Kind     developer.ActionKind
	Category developer.Category
}

func (f TransitionFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)

	if f.Kind != "" {
		conds = append(conds, "Kind = ?")
		args = append(args, string(f.Kind))
	}

	if f.Category != "" {
		conds = append(conds, "Category = ?")
		args = append(args, string(f.Category))
	}

	return strings.Join(conds, " AND "), args
}

// Transitions returns the recorded transitions that match the filter, oldest
// first.
func (r *TransitionReader) Transitions(
	ctx context.Context,
	filter TransitionFilter,
) ([]Entry, error) {
	where, args := filter.where()

	results, err := r.reader.Query(ctx, TransitionTable, QueryParams{
		Where:   where,
		Args:    args,
		OrderBy: "rowid ASC",
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, res := range results {
		entries = append(entries, *res.(*Entry))
	}

	return entries, nil
}

// LatestState returns the state of the last recorded transition. It returns
// false if nothing has been recorded.
func (r *TransitionReader) LatestState() (developer.State, bool, error) {
	results, err := r.reader.Query(
		context.Background(),
		TransitionTable,
		QueryParams{OrderBy: "rowid DESC", Limit: 1},
	)
	if err != nil {
		return developer.State{}, false, err
	}

	if len(results) == 0 {
		return developer.State{}, false, nil
	}

	state := developer.State{}
	if err := json.Unmarshal([]byte(results[0].(*Entry).StateJSON), &state); err != nil {
		return developer.State{}, false, err
	}

	if state.Developers == nil {
		state.Developers = []developer.Developer{}
	}

	return state, true, nil
}

var _ hooking.Hook = (*Recorder)(nil)
