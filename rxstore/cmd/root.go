// Package cmd provides the command-line interface of rxstore.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rxstore",
	Short: "rxstore runs an observable developer store.",
	Long: `rxstore runs an observable developer store against an in-memory ` +
		`backend. It can play a scripted scenario or serve the store for ` +
		`inspection over HTTP.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "",
		"file to read environment variables from (default .env)")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits through atexit so that recordings are flushed.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
