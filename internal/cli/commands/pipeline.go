package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ccollicutt/gachalog/internal/logging"
	"github.com/ccollicutt/gachalog/pkg/banner"
	"github.com/ccollicutt/gachalog/pkg/config"
	"github.com/ccollicutt/gachalog/pkg/output"
	"github.com/ccollicutt/gachalog/pkg/parser"
	"github.com/ccollicutt/gachalog/pkg/rerun"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

var logger = zap.NewNop()

// SetLogger replaces the logger used by all commands.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Logger returns the logger used by all commands.
func Logger() *zap.Logger {
	return logger
}

// sourceOptions are the flags shared by commands that read reports.
type sourceOptions struct {
	ConfigPath string
	Marker     string
}

// loadConfig loads the config file if one was given, otherwise defaults
// plus environment, then merges report arguments, the marker flag and any
// command-specific overrides before validating once.
func loadConfig(ctx context.Context, opts sourceOptions, reports []string, overrides ...func(*config.Config)) (*config.Config, error) {
	var cfg *config.Config
	if opts.ConfigPath != "" {
		loaded, err := config.Load(ctx, opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.FromEnvironment()
	}

	cfg.Reports = append(append([]string{}, reports...), cfg.Reports...)
	if opts.Marker != "" {
		cfg.Marker = opts.Marker
	}
	for _, override := range overrides {
		override(cfg)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// useConfigLogLevel switches to the config file's log level unless
// --log-level was given explicitly.
func useConfigLogLevel(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" || cfg.LogLevel == logging.DefaultLevel {
		return nil
	}
	l, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// extractRecords parses every report independently, concatenates the
// records in file order and computes rerun fields over the whole set.
func extractRecords(ctx context.Context, cfg *config.Config) ([]banner.Record, []string, error) {
	if err := cfg.RequireReports(); err != nil {
		return nil, nil, err
	}

	files, err := parser.ExpandGlobs(cfg.Reports)
	if err != nil {
		return nil, nil, fmt.Errorf("expanding reports: %w", err)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no report files matched patterns: %v", cfg.Reports)
	}

	p := parser.New(timeline.Build(),
		parser.WithMarker(cfg.Marker),
		parser.WithLogger(logger))

	var records []banner.Record
	for _, file := range files {
		parsed, err := p.ParseFile(ctx, file)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("parsed report", zap.String("file", file), zap.Int("records", len(parsed)))
		records = append(records, parsed...)
	}

	computed := rerun.New(rerun.WithLogger(logger)).Compute(records)
	return computed, files, nil
}

// formatOptionsFor styles output only when w is a terminal, and fits the
// table to the terminal width.
func formatOptionsFor(w io.Writer, opts output.FormatOptions) output.FormatOptions {
	opts.Plain = true

	f, ok := w.(*os.File)
	if !ok {
		return opts
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return opts
	}

	opts.Plain = false
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		opts.Width = width
	}
	return opts
}
