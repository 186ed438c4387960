package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rxstore/config"
	"github.com/sarchlab/rxstore/developer"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Play the developer overview scenario.",
	Long: "`demo` loads all developers, filters the junior ones, adds a new " +
		"junior developer and prints every state the store publishes.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		noDelay, _ := cmd.Flags().GetBool("no-delay")
		verbose, _ := cmd.Flags().GetBool("verbose")
		out, _ := cmd.Flags().GetString("out")

		return runDemo(cmd.Context(), cfg, demoOptions{
			app: appOptions{
				noDelay:     noDelay,
				verbose:     verbose,
				withHistory: true,
			},
			out: out,
		}, cmd.OutOrStdout())
	},
}

func init() {
	demoCmd.Flags().Bool("no-delay", false, "remove the backend latency")
	demoCmd.Flags().BoolP("verbose", "v", false, "log every store hook")
	demoCmd.Flags().String("out", "",
		"write the recorded history as Redux DevTools JSON to this file")
	rootCmd.AddCommand(demoCmd)
}

type demoOptions struct {
	app appOptions
	out string
}

func runDemo(
	ctx context.Context,
	cfg config.Config,
	opts demoOptions,
	w io.Writer,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := log.New(os.Stderr, "rxstore ", log.LstdFlags)

	a, err := buildApp(cfg, opts.app, logger)
	if err != nil {
		return err
	}
	defer a.close()

	sub := a.store.State().Subscribe(func(s developer.State) {
		fmt.Fprintf(w, "%-6s %d developers\n", categoryName(s.ActiveCategory), len(s.Developers))
		for _, d := range s.Developers {
			fmt.Fprintf(w, "       - %s %v\n", d.Name, d.Skills)
		}
	})
	defer sub.Dispose()

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if _, err := a.store.LoadAll(ctx).Wait(ctx); err != nil {
		return err
	}

	if _, err := a.store.LoadJuniors(ctx).Wait(ctx); err != nil {
		return err
	}

	_, err = a.store.AddDeveloper(ctx, developer.CategoryJunior, "New Dev", []string{"X"}).Wait(ctx)
	if err != nil {
		return err
	}

	if opts.out == "" {
		return nil
	}

	return writeHistory(a, opts.out)
}

func writeHistory(a *app, path string) error {
	data, err := json.MarshalIndent(a.history.Lifted(), "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func categoryName(c developer.Category) string {
	if c == "" {
		return "none"
	}

	return string(c)
}
