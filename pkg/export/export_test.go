package export_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/duration"
	"github.com/Sumatoshi-tech/bha/pkg/export"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

func sampleResult() aggregate.AnalysisResult {
	units := []trace.CompilationUnit{
		{
			SourceFile: "main.cpp",
			TotalTime:  duration.FromMilliseconds(2000),
			Includes:   []trace.IncludeInfo{trace.NewIncludeInfo("iostream", duration.FromMilliseconds(100), 1, true, true, "")},
		},
	}

	return aggregate.Aggregate(trace.NewBuildTrace(units))
}

func TestToDictCanonicalShape(t *testing.T) {
	doc := export.ToDict(sampleResult())

	assert.Equal(t, export.BHAVersion, doc["bha_version"])
	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(2000), summary["total_compile_time_ms"])
	assert.Equal(t, 1, summary["file_count"])

	fileMetrics := doc["file_metrics"].([]map[string]any)
	require.Len(t, fileMetrics, 1)
	assert.Contains(t, fileMetrics[0], "lines_of_code")
	assert.Equal(t, 0, fileMetrics[0]["lines_of_code"])
}

func TestExportJSONRoundTrip(t *testing.T) {
	result := sampleResult()

	out, err := export.ExportToString(result, nil, export.FormatJSON, export.DefaultOptions())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, export.BHAVersion, decoded["bha_version"])
}

func TestExportCSVHeaderAndRows(t *testing.T) {
	suggestions := []suggest.Suggestion{
		{Type: suggest.TypePCH, Priority: suggest.PriorityHigh, Confidence: suggest.ConfidenceHigh, Title: "t", FilePath: "a.h", EstimatedImpactMs: 10},
	}

	out, err := export.ExportToString(sampleResult(), suggestions, export.FormatCSV, export.DefaultOptions())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "type")
}

func TestExportSARIFLevelMapping(t *testing.T) {
	suggestions := []suggest.Suggestion{
		{Type: suggest.TypePCH, Priority: suggest.PriorityCritical, Title: "a"},
		{Type: suggest.TypeUnityBuild, Priority: suggest.PriorityMedium, Title: "b"},
		{Type: suggest.TypeModuleMigration, Priority: suggest.PriorityLow, Title: "c"},
	}

	out, err := export.ExportToString(sampleResult(), suggestions, export.FormatSARIF, export.DefaultOptions())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	runs := doc["runs"].([]any)
	results := runs[0].(map[string]any)["results"].([]any)

	assert.Equal(t, "error", results[0].(map[string]any)["level"])
	assert.Equal(t, "warning", results[1].(map[string]any)["level"])
	assert.Equal(t, "note", results[2].(map[string]any)["level"])
}

func TestExportHTMLWithoutRendererErrors(t *testing.T) {
	_, err := export.ExportToString(sampleResult(), nil, export.FormatHTML, export.DefaultOptions())
	assert.ErrorIs(t, err, export.ErrNoRenderer)
}

func TestMinPriorityFilterNeverErrors(t *testing.T) {
	suggestions := []suggest.Suggestion{{Type: suggest.TypePCH, Priority: suggest.PriorityLow, Title: "a"}}

	opts := export.DefaultOptions()
	opts.MinPriority = suggest.PriorityCritical

	out, err := export.ExportToString(sampleResult(), suggestions, export.FormatMarkdown, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "No suggestions.")
}

func TestUnifiedDiffContainsMarkers(t *testing.T) {
	diff := export.UnifiedDiff(suggest.CodeChange{File: "a.h", Before: "line one", After: "line two"})
	assert.Contains(t, diff, "--- a.h")
	assert.Contains(t, diff, "+++ a.h")
}
