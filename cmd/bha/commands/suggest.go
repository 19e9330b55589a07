package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bha/internal/config"
	"github.com/Sumatoshi-tech/bha/internal/observability"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// SuggestCommand holds the flags for `bha suggest`.
type SuggestCommand struct {
	cfgPath string
	noColor bool
}

// NewSuggestCommand builds the `suggest` subcommand: run the full
// parse -> aggregate -> suggest pipeline and print the ranked
// optimization suggestions as a colored table.
func NewSuggestCommand() *cobra.Command {
	sc := &SuggestCommand{}

	cmd := &cobra.Command{
		Use:   "suggest <trace-file>...",
		Short: "Generate ranked compile-time optimization suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.cfgPath, "config", "", "path to a bha config file (YAML or JSON)")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "disable colored priority output")

	return cmd
}

func (sc *SuggestCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(sc.cfgPath)
	if err != nil {
		return fmt.Errorf("suggest: %w", err)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, "bha.suggest")

	metrics, provider, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("suggest: %w", err)
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
	logger.Info("suggestions generated", "count", len(pipeline.Suggestions))

	printSuggestions(cmd, pipeline.Suggestions, sc.noColor)

	return nil
}

func printSuggestions(cmd *cobra.Command, suggestions []suggest.Suggestion, noColor bool) {
	out := cmd.OutOrStdout()

	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions — build trace shows no actionable hotspots.")

		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Priority", "Type", "Title", "File", "Impact ms", "Confidence"})

	for _, s := range suggestions {
		t.AppendRow(table.Row{
			colorizePriority(s.Priority, noColor),
			s.Type,
			s.Title,
			s.FilePath,
			fmt.Sprintf("%.1f", s.EstimatedImpactMs),
			s.Confidence,
		})
	}

	t.Render()
}

func colorizePriority(p suggest.Priority, noColor bool) string {
	label := p.String()
	if noColor {
		return label
	}

	switch p {
	case suggest.PriorityCritical, suggest.PriorityHigh:
		return color.RedString(label)
	case suggest.PriorityMedium:
		return color.YellowString(label)
	default:
		return label
	}
}
