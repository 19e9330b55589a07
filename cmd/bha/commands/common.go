// Package commands provides the bha CLI's cobra command implementations.
// Each command is a thin collaborator over the pure core packages
// (pkg/traceparse, pkg/aggregate, pkg/suggest, pkg/export): it parses
// trace files, runs the pipeline, and renders the result. No analysis
// logic lives here.
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/bha/internal/config"
	"github.com/Sumatoshi-tech/bha/internal/observability"
	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
	"github.com/Sumatoshi-tech/bha/pkg/traceparse"
)

// pipelineResult bundles the outputs every subcommand needs: the
// analysis, the suggestions, and the per-file parse failures the
// analyzer proceeded past (spec §7's partial-progress semantics).
type pipelineResult struct {
	Trace       trace.BuildTrace
	Result      aggregate.AnalysisResult
	Suggestions []suggest.Suggestion
	Failures    []traceparse.ParseFailure
}

// runPipeline parses every path, aggregates the units that did parse,
// and generates suggestions, counting parse failures in metrics along the
// way (the caller prints them). It never returns an error for partial failures — only a total
// absence of usable input is reported back to the caller as an error.
func runPipeline(ctx context.Context, paths []string, cfg *config.Config, metrics *observability.Metrics) (pipelineResult, error) {
	units, failures := traceparse.ParseTraceFiles(paths)

	for _, f := range failures {
		kind := "unknown"

		var perr *traceparse.ParseError
		if errors.As(f.Err, &perr) {
			kind = traceparse.KindName(perr.Kind)
		}

		if metrics != nil {
			metrics.RecordParseFailure(ctx, kind)
		}
	}

	if len(units) == 0 && len(paths) > 0 {
		return pipelineResult{}, fmt.Errorf("bha: no trace file parsed successfully out of %d", len(paths))
	}

	bt := trace.NewBuildTrace(units)

	analysisOpts := aggregate.Options{
		TopK:           cfg.Analysis.TopK,
		IncludeSymbols: cfg.Analysis.IncludeSymbols,
		NormalizePaths: cfg.Analysis.NormalizePaths,
	}

	result := aggregate.RunFullAnalysis(bt, analysisOpts)
	suggestions := suggest.GenerateSuggestions(bt, result, cfg.Suggester.ToSuggesterOptions())

	return pipelineResult{Trace: bt, Result: result, Suggestions: suggestions, Failures: failures}, nil
}

// reportFailures prints one line per parse failure to stderr, the way
// the teacher's commands surface non-fatal per-item errors without
// aborting the run.
func reportFailures(failures []traceparse.ParseFailure) {
	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "bha: skipping %s: %v\n", f.Path, f.Err)
	}
}

// parsePriority maps a config string to suggest.Priority, defaulting to
// Low (the least restrictive filter) on an unrecognized value.
func parsePriority(s string) suggest.Priority {
	switch s {
	case "critical":
		return suggest.PriorityCritical
	case "high":
		return suggest.PriorityHigh
	case "medium":
		return suggest.PriorityMedium
	default:
		return suggest.PriorityLow
	}
}
