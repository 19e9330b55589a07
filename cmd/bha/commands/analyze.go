package commands

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/bha/internal/config"
	"github.com/Sumatoshi-tech/bha/internal/observability"
)

// AnalyzeCommand holds the flags for `bha analyze`.
type AnalyzeCommand struct {
	cfgPath string
}

// NewAnalyzeCommand builds the `analyze` subcommand: parse one or more
// trace files and print the aggregated FileMetrics/IncludeMetrics/
// TemplateMetrics/DependencyMetrics summary.
func NewAnalyzeCommand() *cobra.Command {
	ac := &AnalyzeCommand{}

	cmd := &cobra.Command{
		Use:   "analyze <trace-file>...",
		Short: "Aggregate one or more compiler build traces into metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.cfgPath, "config", "", "path to a bha config file (YAML or JSON)")

	return cmd
}

func (ac *AnalyzeCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(ac.cfgPath)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format, "bha.analyze")

	metrics, provider, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
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
	logger.Info("analysis complete", "files", pipeline.Result.FileCount, "failures", len(pipeline.Failures))

	printSummary(cmd, pipeline)
	printFileTable(cmd, pipeline)
	printIncludeTable(cmd, pipeline)

	return nil
}

func printSummary(cmd *cobra.Command, p pipelineResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Build trace: %d file(s), total compile time %s\n",
		p.Result.FileCount,
		humanize.SIWithDigits(p.Result.TotalCompileTime.Seconds(), 2, "s"),
	)
	fmt.Fprintf(out, "Includes: %d total, %d unique, %d max depth\n",
		p.Result.IncludeMetrics.TotalIncludes,
		p.Result.IncludeMetrics.UniqueIncludes,
		p.Result.IncludeMetrics.MaxDepth,
	)
	fmt.Fprintf(out, "Templates: %d instantiations, %d unique specializations\n",
		p.Result.TemplateMetrics.TotalInstantiations,
		p.Result.TemplateMetrics.UniqueTemplates,
	)
	fmt.Fprintf(out, "Dependency graph: %d nodes, %d circular, %d SCCs, max depth %d\n\n",
		p.Result.DependencyMetrics.NodeCount,
		p.Result.DependencyMetrics.CircularDependencies,
		p.Result.DependencyMetrics.StronglyConnectedComponents,
		p.Result.DependencyMetrics.MaxDependencyDepth,
	)
}

func printFileTable(cmd *cobra.Command, p pipelineResult) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"File", "Compile ms", "Includes", "Templates", "Depth", "Header"})

	for _, fm := range p.Result.FileMetrics {
		t.AppendRow(table.Row{
			fm.SourceFile,
			humanize.CommafWithDigits(fm.CompileTimeMs, 1),
			fm.IncludeCount,
			fm.TemplateInstantiationCount,
			fm.IncludeDepth,
			fm.IsHeader,
		})
	}

	t.Render()
	fmt.Fprintln(cmd.OutOrStdout())
}

func printIncludeTable(cmd *cobra.Command, p pipelineResult) {
	if len(p.Result.IncludeMetrics.SlowestIncludes) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle("Slowest includes")
	t.AppendHeader(table.Row{"Header", "Time ms"})

	for _, h := range p.Result.IncludeMetrics.SlowestIncludes {
		t.AppendRow(table.Row{h.HeaderPath, humanize.CommafWithDigits(h.TotalTimeMs, 1)})
	}

	t.Render()
}
