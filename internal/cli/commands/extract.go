package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/gachalog/pkg/config"
	"github.com/ccollicutt/gachalog/pkg/output"
	"github.com/ccollicutt/gachalog/pkg/store"
	"github.com/ccollicutt/gachalog/pkg/webhook"
)

// ExtractOptions holds command-line options for the extract command.
type ExtractOptions struct {
	sourceOptions

	Output   string
	OutPath  string
	Database string
	Verbose  bool
	Quiet    bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [report...]",
		Short: "Extract the banner table from wish stats reports",
		Long: `Extract one row per character banner appearance from wish stats reports,
place each banner on the reconstructed day axis and compute rerun intervals.

Reports may be given as arguments, glob patterns, or in the config file.
Each report is parsed independently and the records are combined before
rerun intervals are computed.

Exit codes:
  0 - Records extracted
  1 - No records extracted
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file")
	cmd.Flags().StringVar(&opts.Marker, "marker", "", "Word that ends character name lines (default \"Summoned\")")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output format (text|json|csv)")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "Write output to file instead of stdout")
	cmd.Flags().StringVar(&opts.Database, "db", "", "Save the table to a SQLite database")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show sources and timing")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no table")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_records", "When to fire webhook (on_records|always|never)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts *ExtractOptions) error {
	started := time.Now()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts.sourceOptions, args, func(cfg *config.Config) {
		applyExtractFlags(cfg, opts)
	})
	if err != nil {
		return err
	}
	if err := useConfigLogLevel(cmd, cfg); err != nil {
		return err
	}

	records, files, err := extractRecords(ctx, cfg)
	if err != nil {
		return err
	}

	report := output.NewReport(records, files, cfg.Marker, started)

	if cfg.Database != "" {
		if err := saveDatabase(ctx, cfg.Database, report); err != nil {
			return err
		}
	}

	if err := writeReport(ctx, cmd, cfg, opts, report); err != nil {
		return err
	}

	// Webhook failures are reported but don't fail the extraction
	sendWebhooks(ctx, cmd.ErrOrStderr(), cfg, opts, report)

	if report.HasRecords() {
		ExitCode = 0
	} else {
		ExitCode = 1
	}

	return nil
}

// applyExtractFlags overrides config values with explicitly given flags.
func applyExtractFlags(cfg *config.Config, opts *ExtractOptions) {
	if opts.Output != "" {
		cfg.Output.Format = config.OutputFormat(opts.Output)
	}
	if opts.OutPath != "" {
		cfg.Output.Path = opts.OutPath
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
}

func writeReport(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *ExtractOptions, report *output.Report) error {
	var w io.Writer = cmd.OutOrStdout()

	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path) // #nosec G304 -- user-provided output path is expected
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	formatter, err := output.New(string(cfg.Output.Format), formatOptionsFor(w, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}))
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if cfg.Output.Path != "" {
		logger.Info("wrote output", zap.String("path", cfg.Output.Path), zap.String("format", formatter.Name()))
	}
	return nil
}

func saveDatabase(ctx context.Context, path string, report *output.Report) error {
	db, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Save(ctx, report.Records); err != nil {
		return err
	}

	logger.Info("saved table", zap.String("database", path), zap.Int("records", len(report.Records)))
	return nil
}

// sendWebhooks sends the report to all configured webhooks and prints
// one status line per webhook that fired.
func sendWebhooks(ctx context.Context, w io.Writer, cfg *config.Config, opts *ExtractOptions, report *output.Report) {
	hooks := collectWebhooks(cfg, opts)
	if len(hooks) == 0 {
		return
	}

	client := webhook.NewClient(webhook.WithLogger(logger))
	for _, resp := range client.Dispatch(ctx, report, hooks) {
		if resp.Success() {
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", resp.Name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(w, "Webhook %s: failed (%v)\n", resp.Name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ExtractOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnRecords
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
