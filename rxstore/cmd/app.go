package cmd

import (
	"log"
	"os"

	"github.com/sarchlab/rxstore/backend"
	"github.com/sarchlab/rxstore/config"
	"github.com/sarchlab/rxstore/datarecording"
	"github.com/sarchlab/rxstore/developer"
	"github.com/sarchlab/rxstore/devtools"
	"github.com/sarchlab/rxstore/hooking"
	"github.com/sarchlab/rxstore/idgen"
	"github.com/sarchlab/rxstore/observable"
)

// app is a store wired with everything the configuration asks for.
type app struct {
	service *backend.Service
	store   *developer.Store
	history *devtools.History
	bridge  *devtools.Bridge

	writer       datarecording.DataRecorder
	reader       datarecording.DataReader
	execRecorder *datarecording.ExecRecorder
}

type appOptions struct {
	noDelay     bool
	verbose     bool
	withHistory bool
}

func buildApp(cfg config.Config, opts appOptions, logger *log.Logger) (*app, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "rxstore ", log.LstdFlags)
	}

	a := &app{}

	serviceBuilder := backend.MakeBuilder().
		WithReadDelay(cfg.ReadDelay).
		WithCreateDelay(cfg.CreateDelay)
	if opts.noDelay {
		serviceBuilder = serviceBuilder.WithNoDelay()
	}
	a.service = serviceBuilder.Build()

	storeBuilder := developer.MakeBuilder().
		WithDataSource(a.service).
		WithLogger(logger)

	if cfg.LogState {
		storeBuilder = storeBuilder.WithMiddlewares(
			observable.LoggingMiddleware[developer.State](logger))
	}

	if opts.verbose {
		storeBuilder = storeBuilder.WithHooks(hooking.NewLogHook(logger))
	}

	if cfg.RecordDB != "" {
		if err := a.openRecording(cfg.RecordDB, logger); err != nil {
			return nil, err
		}

		storeBuilder = storeBuilder.
			WithIDGenerator(idgen.NewParallel()).
			WithInitialStateLoader(
				datarecording.NewTransitionReader(a.reader).LatestState).
			WithHooks(datarecording.NewRecorder(a.writer, logger))
	}

	a.store = storeBuilder.Build()

	if cfg.DevtoolsEnabled || opts.withHistory {
		a.history = devtools.NewHistory()
		a.bridge = devtools.Connect(a.store, a.history, logger)
	}

	return a, nil
}

func (a *app) openRecording(name string, logger *log.Logger) error {
	a.writer = datarecording.New(name)

	reader, err := datarecording.NewReader(name)
	if err != nil {
		return err
	}
	a.reader = reader

	a.execRecorder = datarecording.NewExecRecorder(a.writer)
	a.execRecorder.Start()

	logger.Printf("recording transitions to %s.sqlite3", name)

	return nil
}

func (a *app) close() error {
	err := a.store.Close()

	if a.execRecorder != nil {
		a.execRecorder.End()
	}

	if a.reader != nil {
		if closeErr := a.reader.Close(); err == nil {
			err = closeErr
		}
	}

	if a.writer != nil {
		if closeErr := a.writer.Close(); err == nil {
			err = closeErr
		}
	}

	return err
}
