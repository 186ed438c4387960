package developer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/sarchlab/rxstore/engine"
	"github.com/sarchlab/rxstore/hooking"
	"github.com/sarchlab/rxstore/idgen"
	"github.com/sarchlab/rxstore/observable"
)

// ErrStoreClosed is returned by actions that cannot complete because the store
// has been closed.
var ErrStoreClosed = errors.New("developer store closed")

// A Store holds the developer state and exposes the actions that change it.
//
// Data source calls run on their own goroutines. Every state transition is
// committed on the store's engine goroutine, which reads the state current at
// that moment, so concurrent actions never overwrite each other. Hooks are
// also invoked on that goroutine.
type Store struct {
	*hooking.HookableBase
	hookLock sync.RWMutex

	source      DataSource
	state       *observable.Container[State]
	pipeline    *observable.Pipeline[State]
	engine      *engine.SerialEngine
	logger      *log.Logger
	idGenerator idgen.Generator

	cancel    context.CancelFunc
	stopped   chan struct{}
	closeOnce sync.Once
}

// AcceptHook registers a hook. Unlike most hookables, a store accepts hooks
// while it is running.
func (s *Store) AcceptHook(hook hooking.Hook) {
	s.hookLock.Lock()
	defer s.hookLock.Unlock()

	s.HookableBase.AcceptHook(hook)
}

// NumHooks returns the number of hooks registered.
func (s *Store) NumHooks() int {
	s.hookLock.RLock()
	defer s.hookLock.RUnlock()

	return s.HookableBase.NumHooks()
}

// Hooks returns all the hooks registered.
func (s *Store) Hooks() []hooking.Hook {
	s.hookLock.RLock()
	defer s.hookLock.RUnlock()

	hooks := s.HookableBase.Hooks()
	dup := make([]hooking.Hook, len(hooks))
	copy(dup, hooks)

	return dup
}

// InvokeHook triggers the registered hooks.
func (s *Store) InvokeHook(ctx hooking.HookCtx) {
	s.hookLock.RLock()
	defer s.hookLock.RUnlock()

	s.HookableBase.InvokeHook(ctx)
}

// State returns the read-only stream of snapshots. It is the only way to
// observe the store. Every delivered snapshot is a copy that the receiver may
// keep or modify.
func (s *Store) State() observable.Observable[State] {
	return observable.WithCopy(s.state.AsObservable(), State.Clone)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	return s.state.Value().Clone()
}

// Engine returns the engine that commits the store's transitions.
func (s *Store) Engine() *engine.SerialEngine {
	return s.engine
}

// LoadAll replaces the displayed developers with every developer.
func (s *Store) LoadAll(ctx context.Context) *observable.Future[State] {
	return s.load(ctx, CategoryAll)
}

// LoadJuniors replaces the displayed developers with the junior ones.
func (s *Store) LoadJuniors(ctx context.Context) *observable.Future[State] {
	return s.load(ctx, CategoryJunior)
}

// LoadSeniors replaces the displayed developers with the senior ones.
func (s *Store) LoadSeniors(ctx context.Context) *observable.Future[State] {
	return s.load(ctx, CategorySenior)
}

// LoadByCategory replaces the displayed developers with those of the given
// category. On failure the error is logged, the state is left untouched and
// the returned future fails.
func (s *Store) LoadByCategory(
	ctx context.Context,
	category Category,
) *observable.Future[State] {
	if !category.IsValid() {
		f := observable.NewFuture[State]()
		f.Fail(fmt.Errorf("%w: %q", ErrUnknownCategory, category))

		return f
	}

	return s.load(ctx, category)
}

func (s *Store) load(ctx context.Context, category Category) *observable.Future[State] {
	future := observable.NewFuture[State]()
	action := Action{
		ID:       s.idGenerator.Generate(),
		Kind:     ActionLoad,
		Category: category,
	}

	if err := s.schedule(&actionStartedEvent{action: action}); err != nil {
		future.Fail(err)
		return future
	}

	go func() {
		var (
			devs []Developer
			err  error
		)

		if category == CategoryAll {
			devs, err = s.source.LoadAll(ctx)
		} else {
			devs, err = s.source.LoadByCategory(ctx, category)
		}

		if err != nil {
			s.scheduleFailure(action, err, future.Fail)
			return
		}

		s.scheduleOrAbort(&developersLoadedEvent{
			action:     action,
			developers: devs,
			future:     future,
		})
	}()

	return future
}

// AddDeveloper creates a developer through the data source. If the category,
// the name or the skills are missing, nothing happens and an empty future is
// returned.
//
// Once created, the developer is appended to the displayed list only if the
// active category is "all" or the developer's category. A new state is
// published either way. The returned future resolves with the created
// developer after that publish.
func (s *Store) AddDeveloper(
	ctx context.Context,
	category Category,
	name string,
	skills []string,
) *observable.Future[Developer] {
	if category == "" || name == "" || skills == nil {
		return observable.Empty[Developer]()
	}

	future := observable.NewFuture[Developer]()
	action := Action{
		ID:       s.idGenerator.Generate(),
		Kind:     ActionAdd,
		Category: category,
		Name:     name,
	}

	if err := s.schedule(&actionStartedEvent{action: action}); err != nil {
		future.Fail(err)
		return future
	}

	skillsCopy := make([]string, len(skills))
	copy(skillsCopy, skills)

	go func() {
		dev, err := s.source.AddDeveloper(ctx, category, name, skillsCopy)
		if err != nil {
			s.scheduleFailure(action, err, future.Fail)
			return
		}

		if dev.Category == "" {
			dev.Category = category
		}

		s.scheduleOrAbort(&developerAddedEvent{
			action:    action,
			developer: dev,
			future:    future,
		})
	}()

	return future
}

// Inject publishes the given state as is, skipping the middlewares and any
// validation. It exists for developer tools that travel back in time or
// import a recorded state, and is not meant as a regular write path.
func (s *Store) Inject(state State, label string) *observable.Future[State] {
	future := observable.NewFuture[State]()
	action := Action{
		ID:    s.idGenerator.Generate(),
		Kind:  ActionInject,
		label: label,
	}

	s.scheduleOrAbort(&stateInjectedEvent{
		action: action,
		state:  state.Clone(),
		future: future,
	})

	return future
}

// Pause holds back the commit of completed actions until Continue is called.
// Data source calls keep running.
func (s *Store) Pause() {
	s.engine.Pause()
}

// Continue resumes committing actions after a Pause.
func (s *Store) Continue() {
	s.engine.Continue()
}

// Close stops the store. Actions that have not been committed yet fail with
// ErrStoreClosed, and so do actions started afterwards.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.engine.Continue()
		<-s.stopped

		for _, evt := range s.engine.Drain() {
			if a, ok := evt.Event.(abortable); ok {
				a.abort(ErrStoreClosed)
			}
		}
	})

	return nil
}

func (s *Store) run(ctx context.Context) {
	defer close(s.stopped)

	if err := s.engine.Run(ctx); err != nil {
		s.logger.Printf("store engine stopped: %v", err)
	}
}

func (s *Store) schedule(evt any) error {
	err := s.engine.Schedule(engine.ScheduledEvent{Event: evt, Handler: s})
	if errors.Is(err, engine.ErrStopped) {
		return ErrStoreClosed
	}

	return err
}

func (s *Store) scheduleOrAbort(evt abortable) {
	if err := s.schedule(evt); err != nil {
		evt.abort(err)
	}
}

func (s *Store) scheduleFailure(action Action, err error, fail func(error)) {
	s.scheduleOrAbort(&actionFailedEvent{action: action, err: err, fail: fail})
}

// Handle commits the events produced by actions. It is called by the store's
// engine and must not be called directly.
func (s *Store) Handle(event any) error {
	switch e := event.(type) {
	case *actionStartedEvent:
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosActionStart,
			Item:   e.action,
		})
	case *developersLoadedEvent:
		return s.commitLoad(e)
	case *developerAddedEvent:
		return s.commitAdd(e)
	case *actionFailedEvent:
		s.reportFailure(e.action, e.err)
		e.fail(e.err)
	case *stateInjectedEvent:
		s.commitInject(e)
	default:
		return fmt.Errorf("unknown event type: %T", event)
	}

	return nil
}

func (s *Store) commitLoad(e *developersLoadedEvent) error {
	next := State{
		Developers:     cloneDevelopers(e.developers),
		ActiveCategory: e.action.Category,
	}

	published, err := s.publish(e.action, next)
	if err != nil {
		e.future.Fail(err)
		return err
	}

	e.future.Resolve(published.Clone())

	return nil
}

func (s *Store) commitAdd(e *developerAddedEvent) error {
	current := s.state.Value()

	next := current.Clone()
	if current.ActiveCategory.Matches(e.developer.Category) {
		next = current.WithDeveloper(e.developer)
	}

	if _, err := s.publish(e.action, next); err != nil {
		e.future.Fail(err)
		return err
	}

	e.future.Resolve(e.developer.Clone())

	return nil
}

func (s *Store) commitInject(e *stateInjectedEvent) {
	s.state.Publish(e.state)

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosInject,
		Item: Transition{
			ID:     s.idGenerator.Generate(),
			Action: e.action,
			State:  e.state.Clone(),
		},
	})

	e.future.Resolve(e.state.Clone())
}

func (s *Store) publish(action Action, next State) (State, error) {
	published, err := s.pipeline.PublishThrough(s.state, next)
	if err != nil {
		err = fmt.Errorf("%s: %w", action.Label(), err)
		s.reportFailure(action, err)

		return State{}, err
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosPublish,
		Item: Transition{
			ID:     s.idGenerator.Generate(),
			Action: action,
			State:  published.Clone(),
		},
	})

	return published, nil
}

func (s *Store) reportFailure(action Action, err error) {
	switch action.Kind {
	case ActionLoad:
		s.logger.Printf("Error loading %s developers: %v", action.Category, err)
	default:
		s.logger.Printf("Error in %q: %v", action.Label(), err)
	}

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosActionFailed,
		Item:   action,
		Detail: err,
	})
}

var _ engine.Handler = (*Store)(nil)
