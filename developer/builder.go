package developer

import (
	"context"
	"log"
	"os"

	"github.com/sarchlab/rxstore/engine"
	"github.com/sarchlab/rxstore/hooking"
	"github.com/sarchlab/rxstore/idgen"
	"github.com/sarchlab/rxstore/observable"
)

// InitialStateLoader supplies the state a store starts with, for example from
// a recording of an earlier run. It returns false if it has no state to offer.
type InitialStateLoader func() (State, bool, error)

// Builder can build developer stores.
type Builder struct {
	source       DataSource
	initialState State
	loader       InitialStateLoader
	middlewares  []observable.Middleware[State]
	hooks        []hooking.Hook
	logger       *log.Logger
	idGenerator  idgen.Generator
	autoLoad     bool
}

// MakeBuilder returns a new Builder.
func MakeBuilder() Builder {
	return Builder{
		initialState: InitialState(),
	}
}

// WithDataSource sets the backend the store reads from and writes to.
func (b Builder) WithDataSource(source DataSource) Builder {
	b.source = source
	return b
}

// WithInitialState sets the state the store starts with.
func (b Builder) WithInitialState(state State) Builder {
	b.initialState = state.Clone()
	return b
}

// WithInitialStateLoader sets a loader that is consulted when the store is
// built. A state returned by the loader takes precedence over the one set with
// WithInitialState.
func (b Builder) WithInitialStateLoader(loader InitialStateLoader) Builder {
	b.loader = loader
	return b
}

// WithMiddlewares sets the middlewares every published state goes through, in
// order.
func (b Builder) WithMiddlewares(middlewares ...observable.Middleware[State]) Builder {
	b.middlewares = append([]observable.Middleware[State]{}, middlewares...)
	return b
}

// WithHooks registers hooks on the store before it starts.
func (b Builder) WithHooks(hooks ...hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook{}, b.hooks...), hooks...)
	return b
}

// WithLogger sets the logger that failures are reported to.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

// WithIDGenerator sets the generator for action and transition IDs.
func (b Builder) WithIDGenerator(g idgen.Generator) Builder {
	b.idGenerator = g
	return b
}

// WithAutoLoad makes the store load all developers as soon as it is built.
func (b Builder) WithAutoLoad() Builder {
	b.autoLoad = true
	return b
}

// Build creates the store and starts its engine. The store must be closed
// when no longer used.
func (b Builder) Build() *Store {
	if b.source == nil {
		panic("developer: a data source is required to build a store")
	}

	logger := b.logger
	if logger == nil {
		logger = log.New(os.Stderr, "DeveloperStore ", log.LstdFlags)
	}

	idGenerator := b.idGenerator
	if idGenerator == nil {
		idGenerator = idgen.New()
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		HookableBase: hooking.NewHookableBase(),
		source:       b.source,
		state:        observable.NewContainer(b.resolveInitialState(logger)),
		pipeline:     observable.NewPipeline(b.middlewares...),
		engine:       engine.NewSerialEngine(),
		logger:       logger,
		idGenerator:  idGenerator,
		cancel:       cancel,
		stopped:      make(chan struct{}),
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	go s.run(ctx)

	if b.autoLoad {
		s.LoadAll(context.Background())
	}

	return s
}

func (b Builder) resolveInitialState(logger *log.Logger) State {
	if b.loader == nil {
		return b.initialState.Clone()
	}

	state, ok, err := b.loader()
	if err != nil {
		logger.Printf("cannot load initial state, using default: %v", err)
		return b.initialState.Clone()
	}

	if !ok {
		return b.initialState.Clone()
	}

	return state.Clone()
}
