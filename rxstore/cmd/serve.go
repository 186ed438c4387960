package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rxstore/config"
	"github.com/sarchlab/rxstore/devtools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the store for inspection over HTTP.",
	Long: "`serve` starts the store and the devtools server and blocks until " +
		"interrupted. Flags override the environment.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("port") {
			cfg.DevtoolsPort, _ = cmd.Flags().GetInt("port")
		}

		if cmd.Flags().Changed("open") {
			cfg.OpenBrowser, _ = cmd.Flags().GetBool("open")
		}

		if cmd.Flags().Changed("record") {
			cfg.RecordDB, _ = cmd.Flags().GetString("record")
		}

		verbose, _ := cmd.Flags().GetBool("verbose")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, cfg, verbose)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "port of the devtools server")
	serveCmd.Flags().Bool("open", false, "open the server in the browser")
	serveCmd.Flags().String("record", "",
		"record transitions into this SQLite database and resume from it")
	serveCmd.Flags().BoolP("verbose", "v", false, "log every store hook")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg config.Config, verbose bool) error {
	logger := log.New(os.Stderr, "rxstore ", log.LstdFlags)

	cfg.DevtoolsEnabled = true

	a, err := buildApp(cfg, appOptions{verbose: verbose}, logger)
	if err != nil {
		return err
	}
	defer a.close()

	server := devtools.NewServer(a.store).
		WithLogger(logger).
		WithPortNumber(cfg.DevtoolsPort).
		WithBridge(a.bridge).
		WithHistory(a.history)

	if _, err := server.StartServer(); err != nil {
		return err
	}

	if cfg.OpenBrowser {
		if err := server.OpenBrowser(); err != nil {
			logger.Printf("cannot open browser: %v", err)
		}
	}

	a.store.LoadAll(ctx)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
