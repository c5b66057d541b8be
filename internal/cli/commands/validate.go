package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/pkg/config"
	"github.com/ccollicutt/gachalog/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a gachalog configuration file without extracting.

Checks:
  - YAML syntax
  - Marker, output format and log level values
  - Webhook URLs and triggers
  - Report file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Reports:   %d pattern(s)\n", len(cfg.Reports))
	fmt.Fprintf(w, "  Marker:    %s\n", cfg.Marker)
	fmt.Fprintf(w, "  Output:    %s\n", cfg.Output.Format)
	if cfg.Database != "" {
		fmt.Fprintf(w, "  Database:  %s\n", cfg.Database)
	}
	fmt.Fprintf(w, "  Log level: %s\n", cfg.LogLevel)

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, name, wh.Trigger)
		}
	}

	if err := cfg.RequireReports(); err != nil {
		fmt.Fprintf(w, "\nWarning: No reports configured; pass them on the command line\n")
		return nil
	}

	// Report existence is a warning only
	files, err := parser.ExpandGlobs(cfg.Reports)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding report patterns: %v\n", err)
		return nil
	}

	fmt.Fprintf(w, "\nReports matched: %d\n", len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			fmt.Fprintf(w, "  - %s (warning: not found)\n", f)
			continue
		}
		fmt.Fprintf(w, "  - %s\n", f)
	}
	return nil
}
