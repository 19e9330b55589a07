package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bha/internal/config"
	"github.com/Sumatoshi-tech/bha/internal/observability"
	"github.com/Sumatoshi-tech/bha/pkg/export"
)

// ExportCommand holds the flags for `bha export`.
type ExportCommand struct {
	cfgPath string
	format  string
	output  string
}

// NewExportCommand builds the `export` subcommand: run the pipeline and
// render the canonical result through pkg/export in one of its
// supported formats (HTML is unavailable here — no Renderer is wired
// into the CLI, matching spec §6's external-collaborator boundary).
func NewExportCommand() *cobra.Command {
	ec := &ExportCommand{}

	cmd := &cobra.Command{
		Use:   "export <trace-file>...",
		Short: "Export analysis results and suggestions (json, csv, sarif, markdown)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  ec.run,
	}

	cmd.Flags().StringVar(&ec.cfgPath, "config", "", "path to a bha config file (YAML or JSON)")
	cmd.Flags().StringVarP(&ec.format, "format", "f", "json", "export format: json, csv, sarif, markdown")
	cmd.Flags().StringVarP(&ec.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (ec *ExportCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(ec.cfgPath)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, "bha.export")

	metrics, provider, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer provider.Shutdown(cmd.Context()) //nolint:errcheck // best-effort shutdown on CLI exit

	var pipeline pipelineResult

	traceErr := observability.RunTraced(cmd.Context(), "bha", "run_full_analysis", func(ctx context.Context) error {
		p, runErr := runPipeline(ctx, args, cfg, metrics)
		if runErr != nil {
			return runErr
		}

		pipeline = p

		return nil
	})
	if traceErr != nil {
		return traceErr
	}

	reportFailures(pipeline.Failures)

	opts := exportOptionsFromConfig(cfg)

	rendered, err := export.ExportToString(pipeline.Result, pipeline.Suggestions, export.Format(ec.format), opts)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	logger.Info("export complete", "format", ec.format, "bytes", len(rendered))

	return writeOutput(cmd, ec.output, rendered)
}

func exportOptionsFromConfig(cfg *config.Config) export.Options {
	opts := export.DefaultOptions()
	opts.PrettyPrint = cfg.Export.PrettyPrint
	opts.IncludeMetadata = cfg.Export.IncludeMetadata
	opts.IncludeSuggestions = cfg.Export.IncludeSuggestions
	opts.IncludeRawData = cfg.Export.IncludeRawData
	opts.MaxEntries = cfg.Export.MaxEntries
	opts.MinPriority = parsePriority(cfg.Export.MinPriority)

	return opts
}

func writeOutput(cmd *cobra.Command, path, content string) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), content)

		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // CLI output file, not a secret
		return fmt.Errorf("export: write %s: %w", path, err)
	}

	return nil
}
