package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarchlab/rxstore/config"
	"github.com/sarchlab/rxstore/datarecording"
	"github.com/sarchlab/rxstore/developer"
)

var transitionsCmd = &cobra.Command{
	Use:   "transitions",
	Short: "List the transitions of a recording.",
	Long: "`transitions` prints the transitions recorded by `serve --record`, " +
		"oldest first, optionally filtered by action kind and category.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("record") {
			cfg.RecordDB, _ = cmd.Flags().GetString("record")
		}

		kind, _ := cmd.Flags().GetString("kind")
		category, _ := cmd.Flags().GetString("category")

		filter := datarecording.TransitionFilter{
			Kind: developer.ActionKind(kind),
		}
		if category != "" {
			filter.Category, err = developer.ParseCategory(category)
			if err != nil {
				return err
			}
		}

		return listTransitions(cmd.Context(), cfg.RecordDB, filter, cmd.OutOrStdout())
	},
}

func init() {
	transitionsCmd.Flags().String("record", "", "the SQLite recording to read")
	transitionsCmd.Flags().String("kind", "", "only list actions of this kind (load, add, inject)")
	transitionsCmd.Flags().String("category", "", "only list transitions showing this category")
	rootCmd.AddCommand(transitionsCmd)
}

func listTransitions(
	ctx context.Context,
	recording string,
	filter datarecording.TransitionFilter,
	w io.Writer,
) error {
	if recording == "" {
		return errors.New("no recording given, use --record or RXSTORE_RECORD_DB")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(recording)
	if err != nil {
		return err
	}
	defer reader.Close()

	entries, err := datarecording.NewTransitionReader(reader).Transitions(ctx, filter)
	if err != nil {
		return err
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%s  %-20s %-6s %d developers\n",
			time.Unix(0, e.Time).Format(time.RFC3339),
			e.Label,
			categoryName(developer.Category(e.Category)),
			e.NumDevelopers)
	}

	return nil
}
