// Package export serializes an AnalysisResult and its Suggestions into
// the canonical dictionary shape and renders that shape to JSON, CSV,
// Markdown and SARIF directly; HTML is delegated to a Renderer
// collaborator, since full templating sits outside this package's core
// responsibility.
package export

import (
	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// BHAVersion is the top-level "bha_version" field of the canonical
// dictionary shape and the SARIF driver version. JSON export drops it when
// IncludeMetadata is false; CSV export does not carry it.
const BHAVersion = "1.0.0"

// ToDict renders result into the canonical dictionary shape shared by
// every export format.
func ToDict(result aggregate.AnalysisResult) map[string]any {
	fileMetrics := make([]map[string]any, len(result.FileMetrics))
	for i, fm := range result.FileMetrics {
		fileMetrics[i] = map[string]any{
			"file_path":                    fm.SourceFile,
			"compile_time_ms":               fm.CompileTimeMs,
			"include_count":                fm.IncludeCount,
			"template_instantiation_count": fm.TemplateInstantiationCount,
			"lines_of_code":                fm.LinesOfCode,
			"include_depth":                fm.IncludeDepth,
			"is_header":                    fm.IsHeader,
			"includers":                    stringsOrEmpty(fm.Includers),
		}
	}

	mostIncluded := make([]map[string]any, len(result.IncludeMetrics.MostIncluded))
	for i, h := range result.IncludeMetrics.MostIncluded {
		mostIncluded[i] = map[string]any{"path": h.HeaderPath, "count": h.Count}
	}

	slowestIncludes := make([]map[string]any, len(result.IncludeMetrics.SlowestIncludes))
	for i, h := range result.IncludeMetrics.SlowestIncludes {
		slowestIncludes[i] = map[string]any{"path": h.HeaderPath, "time_ms": h.TotalTimeMs}
	}

	mostInstantiated := make([]map[string]any, len(result.TemplateMetrics.MostInstantiated))
	for i, t := range result.TemplateMetrics.MostInstantiated {
		mostInstantiated[i] = map[string]any{"name": t.TemplateName, "count": t.Count}
	}

	slowestTemplates := make([]map[string]any, len(result.TemplateMetrics.SlowestTemplates))
	for i, t := range result.TemplateMetrics.SlowestTemplates {
		slowestTemplates[i] = map[string]any{"name": t.TemplateName, "time_ms": t.TotalTimeMs}
	}

	return map[string]any{
		"bha_version": BHAVersion,
		"summary": map[string]any{
			"total_compile_time_ms": result.TotalCompileTime.Milliseconds(),
			"file_count":            result.FileCount,
		},
		"file_metrics": fileMetrics,
		"include_metrics": map[string]any{
			"total_includes":       result.IncludeMetrics.TotalIncludes,
			"unique_includes":      result.IncludeMetrics.UniqueIncludes,
			"max_depth":            result.IncludeMetrics.MaxDepth,
			"total_include_time_ms": result.IncludeMetrics.TotalIncludeTime.Milliseconds(),
			"most_included":        mostIncluded,
			"slowest_includes":     slowestIncludes,
		},
		"template_metrics": map[string]any{
			"total_instantiations":     result.TemplateMetrics.TotalInstantiations,
			"unique_templates":         result.TemplateMetrics.UniqueTemplates,
			"total_instantiation_time_ms": result.TemplateMetrics.TotalInstantiationTime.Milliseconds(),
			"most_instantiated":        mostInstantiated,
			"slowest_templates":        slowestTemplates,
		},
		"symbol_metrics": map[string]any{
			"total_symbols":    result.SymbolMetrics.TotalSymbols,
			"function_count":   result.SymbolMetrics.FunctionCount,
			"class_count":      result.SymbolMetrics.ClassCount,
			"variable_count":   result.SymbolMetrics.VariableCount,
			"other_count":      result.SymbolMetrics.OtherCount,
			"total_size_bytes": result.SymbolMetrics.TotalSizeBytes,
			"inline_count":     result.SymbolMetrics.InlineCount,
			"template_count":   result.SymbolMetrics.TemplateCount,
		},
		"dependency_metrics": map[string]any{
			"node_count":                     result.DependencyMetrics.NodeCount,
			"circular_dependencies":          result.DependencyMetrics.CircularDependencies,
			"strongly_connected_components":  result.DependencyMetrics.StronglyConnectedComponents,
			"max_dependency_depth":           result.DependencyMetrics.MaxDependencyDepth,
		},
	}
}

// SuggestionToDict renders one Suggestion into its canonical dictionary
// shape.
func SuggestionToDict(s suggest.Suggestion) map[string]any {
	codeChanges := make([]map[string]any, len(s.CodeChanges))
	for i, c := range s.CodeChanges {
		codeChanges[i] = map[string]any{"file": c.File, "before": c.Before, "after": c.After}
	}

	return map[string]any{
		"type":                s.Type,
		"priority":            s.Priority.String(),
		"confidence":          s.Confidence.String(),
		"title":               s.Title,
		"description":         s.Description,
		"file_path":           s.FilePath,
		"line_number":         s.LineNumber,
		"estimated_impact_ms": s.EstimatedImpactMs,
		"affected_files":      stringsOrEmpty(s.AffectedFiles),
		"code_changes":        codeChanges,
	}
}

// stringsOrEmpty returns an empty, non-nil slice in place of nil so JSON
// serializes an array rather than null.
func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
