// Package aggregate folds a trace.BuildTrace into an AnalysisResult: one
// FileMetrics entry per unit plus corpus-wide include, template, symbol
// and dependency metrics. Aggregation is a pure, deterministic fold —
// Top-K selections are stable-sorted over a fresh snapshot slice so that
// a fixed input ordering always yields a bit-identical result, matching
// the ResultAggregator contract this package is modeled on: allocate
// fresh outputs, never mutate inputs or past results in place.
package aggregate

import (
	"regexp"
	"sort"

	"github.com/Sumatoshi-tech/bha/pkg/depgraph"
	"github.com/Sumatoshi-tech/bha/pkg/duration"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

// topK is the fixed Top-N cutoff used by every ranked metric list.
const topK = 10

// headerExtension matches the file-extension set that marks a source
// file as a header for FileMetrics.IsHeader.
var headerExtension = regexp.MustCompile(`\.(h|hh|hpp|hxx|H)$`)

// FileMetrics is the per-unit view, one entry per compilation unit in
// input order.
type FileMetrics struct {
	SourceFile                 string
	CompileTimeMs              float64
	IncludeCount               int
	TemplateInstantiationCount int
	// LinesOfCode is part of the canonical shape (spec §6) but, like
	// SymbolMetrics, is never populated by the shipped Chrome-trace
	// strategy — no event in its dispatch table carries a line count.
	LinesOfCode  int
	IncludeDepth int
	Includers    []string
	IsHeader     bool
}

// CountedHeader is one (header_path, count) ranking entry.
type CountedHeader struct {
	HeaderPath string
	Count      int
}

// TimedHeader is one (header_path, total include time) ranking entry.
type TimedHeader struct {
	HeaderPath      string
	TotalTimeMs     float64
	TotalIncludeTime duration.Duration
}

// IncludeMetrics folds IncludeInfo across every unit in the trace.
type IncludeMetrics struct {
	TotalIncludes      int
	UniqueIncludes     int
	TotalIncludeTime   duration.Duration
	MaxDepth           int
	MostIncluded       []CountedHeader
	SlowestIncludes    []TimedHeader
}

// CountedTemplate is one (template_name, instantiation count) ranking
// entry, summed across all specializations of that name.
type CountedTemplate struct {
	TemplateName string
	Count        int
}

// TimedTemplate is one (template_name, total instantiation time) ranking
// entry, summed across all specializations of that name.
type TimedTemplate struct {
	TemplateName string
	TotalTimeMs  float64
	TotalTime    duration.Duration
}

// TemplateMetrics folds TemplateInstantiation across every unit. The
// merge key for deduplication is (template_name, specialization); the
// ranking keys (MostInstantiated, SlowestTemplates) sum across
// specializations and key on template_name alone.
type TemplateMetrics struct {
	TotalInstantiations int
	UniqueTemplates     int // distinct (template_name, specialization) pairs
	TotalInstantiationTime duration.Duration
	MostInstantiated    []CountedTemplate
	SlowestTemplates    []TimedTemplate
}

// SymbolMetrics totals symbol counts over all units.
type SymbolMetrics struct {
	TotalSymbols     int
	FunctionCount    int
	ClassCount       int
	VariableCount    int
	OtherCount       int
	TotalSizeBytes   int
	InlineCount      int
	TemplateCount    int
}

// DependencyMetrics summarizes the dependency graph for a build.
type DependencyMetrics struct {
	NodeCount                  int
	CircularDependencies       int
	StronglyConnectedComponents int
	MaxDependencyDepth          int
}

// AnalysisResult is the complete aggregated view of a build trace.
type AnalysisResult struct {
	FileMetrics       []FileMetrics
	IncludeMetrics    IncludeMetrics
	TemplateMetrics   TemplateMetrics
	SymbolMetrics     SymbolMetrics
	DependencyMetrics DependencyMetrics
	TotalCompileTime  duration.Duration
	FileCount         int
}

// Options mirrors spec §6's AnalysisOptions: {top_k, include_symbols,
// normalize_paths}. NormalizePaths has no effect here — header paths are
// always normalized at trace construction time (trace.NewIncludeInfo),
// which is what the documented default (true) asks for — but the field
// is kept so a caller's config file round-trips without a decode error.
type Options struct {
	TopK           int
	IncludeSymbols bool
	NormalizePaths bool
}

// DefaultOptions returns spec §6's documented AnalysisOptions defaults.
func DefaultOptions() Options {
	return Options{TopK: topK, IncludeSymbols: true, NormalizePaths: true}
}

// Aggregate folds bt into an AnalysisResult using DefaultOptions. bt.Units
// may be empty; the result is then the zero-valued aggregate over zero
// units.
func Aggregate(bt trace.BuildTrace) AnalysisResult {
	return RunFullAnalysis(bt, DefaultOptions())
}

// RunFullAnalysis is the public run_full_analysis operation of spec §6:
// it folds bt into an AnalysisResult honoring opts.TopK (falling back to
// the documented default of 10 when opts.TopK <= 0) and opts.IncludeSymbols.
func RunFullAnalysis(bt trace.BuildTrace, opts Options) AnalysisResult {
	k := opts.TopK
	if k <= 0 {
		k = topK
	}

	graph := depgraph.Build(bt.Units)
	scc, depth := graph.Analyze()

	result := AnalysisResult{
		FileMetrics: buildFileMetrics(bt.Units, graph, depth),
		FileCount:   len(bt.Units),
	}

	for _, unit := range bt.Units {
		result.TotalCompileTime = result.TotalCompileTime.Add(unit.TotalTime)
	}

	result.IncludeMetrics = buildIncludeMetrics(bt.Units, depth, k)
	result.TemplateMetrics = buildTemplateMetrics(bt.Units, k)

	if opts.IncludeSymbols {
		result.SymbolMetrics = buildSymbolMetrics(bt.Units)
	}

	result.DependencyMetrics = DependencyMetrics{
		NodeCount:                    graph.NodeCount(),
		CircularDependencies:         scc.CircularDependencies(),
		StronglyConnectedComponents:  scc.StronglyConnectedComponents(),
		MaxDependencyDepth:           depth.MaxDependencyDepth,
	}

	return result
}

func buildFileMetrics(units []trace.CompilationUnit, graph *depgraph.Graph, depth depgraph.DepthResult) []FileMetrics {
	metrics := make([]FileMetrics, len(units))

	for i, unit := range units {
		metrics[i] = FileMetrics{
			SourceFile:                 unit.SourceFile,
			CompileTimeMs:              unit.TotalTime.Milliseconds(),
			IncludeCount:               len(unit.Includes),
			TemplateInstantiationCount: len(unit.Templates),
			IsHeader:                   headerExtension.MatchString(unit.SourceFile),
			IncludeDepth:               depth.DepthOf(graph, unit.SourceFile),
			Includers:                  graph.Includers(unit.SourceFile),
		}
	}

	return metrics
}

func buildIncludeMetrics(units []trace.CompilationUnit, depth depgraph.DepthResult, k int) IncludeMetrics {
	counts := make(map[string]int)
	times := make(map[string]duration.Duration)
	var order []string

	metrics := IncludeMetrics{MaxDepth: depth.MaxDependencyDepth}

	for _, unit := range units {
		for _, inc := range unit.Includes {
			metrics.TotalIncludes++
			metrics.TotalIncludeTime = metrics.TotalIncludeTime.Add(inc.IncludeTime)

			if _, seen := counts[inc.HeaderPath]; !seen {
				order = append(order, inc.HeaderPath)
			}

			counts[inc.HeaderPath]++
			times[inc.HeaderPath] = times[inc.HeaderPath].Add(inc.IncludeTime)
		}
	}

	metrics.UniqueIncludes = len(order)

	countedSnapshot := make([]CountedHeader, len(order))
	for i, h := range order {
		countedSnapshot[i] = CountedHeader{HeaderPath: h, Count: counts[h]}
	}

	sort.SliceStable(countedSnapshot, func(i, j int) bool {
		if countedSnapshot[i].Count != countedSnapshot[j].Count {
			return countedSnapshot[i].Count > countedSnapshot[j].Count
		}

		return countedSnapshot[i].HeaderPath < countedSnapshot[j].HeaderPath
	})
	metrics.MostIncluded = topN(countedSnapshot, k)

	timedSnapshot := make([]TimedHeader, len(order))
	for i, h := range order {
		timedSnapshot[i] = TimedHeader{HeaderPath: h, TotalTimeMs: times[h].Milliseconds(), TotalIncludeTime: times[h]}
	}

	sort.SliceStable(timedSnapshot, func(i, j int) bool {
		if timedSnapshot[i].TotalTimeMs != timedSnapshot[j].TotalTimeMs {
			return timedSnapshot[i].TotalTimeMs > timedSnapshot[j].TotalTimeMs
		}

		return timedSnapshot[i].HeaderPath < timedSnapshot[j].HeaderPath
	})
	metrics.SlowestIncludes = topN(timedSnapshot, k)

	return metrics
}

type templateKey struct {
	name           string
	specialization string
}

func buildTemplateMetrics(units []trace.CompilationUnit, k int) TemplateMetrics {
	bySpecialization := make(map[templateKey]*trace.TemplateInstantiation)
	var specOrder []templateKey

	byName := make(map[string]struct {
		count int
		time  duration.Duration
	})
	var nameOrder []string

	for _, unit := range units {
		for _, tmpl := range unit.Templates {
			key := templateKey{name: tmpl.TemplateName, specialization: tmpl.Specialization}

			if existing, ok := bySpecialization[key]; ok {
				existing.InstantiationCount += tmpl.InstantiationCount
				existing.InstantiationTime = existing.InstantiationTime.Add(tmpl.InstantiationTime)
			} else {
				merged := tmpl
				bySpecialization[key] = &merged
				specOrder = append(specOrder, key)
			}

			if _, seen := byName[tmpl.TemplateName]; !seen {
				nameOrder = append(nameOrder, tmpl.TemplateName)
			}

			agg := byName[tmpl.TemplateName]
			agg.count += tmpl.InstantiationCount
			agg.time = agg.time.Add(tmpl.InstantiationTime)
			byName[tmpl.TemplateName] = agg
		}
	}

	metrics := TemplateMetrics{UniqueTemplates: len(specOrder)}

	for _, key := range specOrder {
		inst := bySpecialization[key]
		metrics.TotalInstantiations += inst.InstantiationCount
		metrics.TotalInstantiationTime = metrics.TotalInstantiationTime.Add(inst.InstantiationTime)
	}

	countedSnapshot := make([]CountedTemplate, len(nameOrder))
	for i, name := range nameOrder {
		countedSnapshot[i] = CountedTemplate{TemplateName: name, Count: byName[name].count}
	}

	sort.SliceStable(countedSnapshot, func(i, j int) bool {
		if countedSnapshot[i].Count != countedSnapshot[j].Count {
			return countedSnapshot[i].Count > countedSnapshot[j].Count
		}

		return countedSnapshot[i].TemplateName < countedSnapshot[j].TemplateName
	})
	metrics.MostInstantiated = topN(countedSnapshot, k)

	timedSnapshot := make([]TimedTemplate, len(nameOrder))
	for i, name := range nameOrder {
		agg := byName[name]
		timedSnapshot[i] = TimedTemplate{TemplateName: name, TotalTimeMs: agg.time.Milliseconds(), TotalTime: agg.time}
	}

	sort.SliceStable(timedSnapshot, func(i, j int) bool {
		if timedSnapshot[i].TotalTimeMs != timedSnapshot[j].TotalTimeMs {
			return timedSnapshot[i].TotalTimeMs > timedSnapshot[j].TotalTimeMs
		}

		return timedSnapshot[i].TemplateName < timedSnapshot[j].TemplateName
	})
	metrics.SlowestTemplates = topN(timedSnapshot, k)

	return metrics
}

func buildSymbolMetrics(units []trace.CompilationUnit) SymbolMetrics {
	var metrics SymbolMetrics

	for _, unit := range units {
		for _, sym := range unit.Symbols {
			metrics.TotalSymbols++
			metrics.TotalSizeBytes += sym.SizeBytes

			switch sym.SymbolType {
			case trace.SymbolFunction:
				metrics.FunctionCount++
			case trace.SymbolClass:
				metrics.ClassCount++
			case trace.SymbolVariable:
				metrics.VariableCount++
			default:
				metrics.OtherCount++
			}

			if sym.IsInline {
				metrics.InlineCount++
			}

			if sym.IsTemplate {
				metrics.TemplateCount++
			}
		}
	}

	return metrics
}

// topN returns the first n elements of a stable-sorted snapshot, or the
// whole slice if shorter than n.
func topN[T any](sorted []T, n int) []T {
	if len(sorted) <= n {
		return sorted
	}

	return sorted[:n]
}
