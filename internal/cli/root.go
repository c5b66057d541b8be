// Package cli provides the command-line interface for gachalog.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/internal/cli/commands"
	"github.com/ccollicutt/gachalog/internal/logging"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()
	defer func() { _ = commands.Logger().Sync() }()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "gachalog",
		Short: "Extract banner rerun history from wish stats reports",
		Long: `gachalog turns semi-structured wish stats reports into a table with one
row per character banner appearance.

Each banner is placed on a day axis counted from the 1.0 launch, and every
rerun gets the number of days since the character's previous banner ended.

The table can be printed, saved as CSV or SQLite, summarized per major
version, and sent to webhooks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel)
			if err != nil {
				return err
			}
			commands.SetLogger(l)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewTimelineCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
