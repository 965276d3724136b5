package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evaluator/internal/config"
	"evaluator/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// cli holds state shared by the subcommands
type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	rootCmd := &cobra.Command{
		Use:   "evaluator",
		Short: "Conversational home privacy evaluator",
		Long: `evaluator interviews you about a home and scores how private it is,
from 1 to 10, across three sections: between units, between rooms and in the room.

Run 'evaluator chat' to start an interview in the terminal.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if app.verbose {
				level = "debug"
			}
			logger, err := logging.New(config.LoggingConfig{Level: level, Format: "console"})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			app.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Version = version

	rootCmd.AddCommand(newChatCmd(app))
	rootCmd.AddCommand(newScoreCmd(app))
	rootCmd.AddCommand(newQuestionsCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
