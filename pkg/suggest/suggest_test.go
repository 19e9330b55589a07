package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/duration"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

func directInclude(header string, ms float64) trace.IncludeInfo {
	return trace.NewIncludeInfo(header, duration.FromMilliseconds(ms), 1, false, true, "")
}

// S2 — 12 units each including header H once with include_time=60ms.
func TestPCHCandidate_S2(t *testing.T) {
	var units []trace.CompilationUnit
	for i := 0; i < 12; i++ {
		units = append(units, trace.CompilationUnit{
			SourceFile: "tu.cpp",
			TotalTime:  duration.FromMilliseconds(100),
			Includes:   []trace.IncludeInfo{directInclude("H.h", 60)},
		})
	}

	bt := trace.NewBuildTrace(units)
	result := aggregate.Aggregate(bt)
	suggestions := suggest.GenerateSuggestions(bt, result, suggest.DefaultOptions())

	var pch *suggest.Suggestion
	for i := range suggestions {
		if suggestions[i].Type == suggest.TypePCH && suggestions[i].FilePath == "H.h" {
			pch = &suggestions[i]
		}
	}

	assert.NotNil(t, pch)
	assert.Equal(t, suggest.PriorityHigh, pch.Priority)
	assert.InDelta(t, 462.0, pch.EstimatedImpactMs, 1.0)
}

// S3 — one unit, InstantiateClass repeated 60x for std::vector<int> at
// 20ms each (total 1200ms) -> most_instantiated[0]=(std::vector,60) and a
// TemplateOptimization suggestion. The rule table's own priority
// threshold (time >= 2000ms, §4.4) yields Medium here, not the High the
// scenario prose separately asserts; see DESIGN.md's Open Questions for
// that documented contradiction — this test follows the table.
func TestHeavyTemplate_S3(t *testing.T) {
	var templates []trace.TemplateInstantiation
	for i := 0; i < 60; i++ {
		templates = append(templates, trace.NewTemplateInstantiation("std::vector", "<int>", duration.FromMilliseconds(20), "main.cpp", 1, 1))
	}

	units := []trace.CompilationUnit{{SourceFile: "main.cpp", TotalTime: duration.FromMilliseconds(1500), Templates: templates}}
	bt := trace.NewBuildTrace(units)
	result := aggregate.Aggregate(bt)

	assert.Equal(t, "std::vector", result.TemplateMetrics.MostInstantiated[0].TemplateName)
	assert.Equal(t, 60, result.TemplateMetrics.MostInstantiated[0].Count)

	suggestions := suggest.GenerateSuggestions(bt, result, suggest.DefaultOptions())

	var found *suggest.Suggestion
	for i := range suggestions {
		if suggestions[i].Type == suggest.TypeTemplateOptimization {
			found = &suggestions[i]
		}
	}

	assert.NotNil(t, found)
	assert.Equal(t, suggest.PriorityMedium, found.Priority)
}

func TestSlowSingleTU(t *testing.T) {
	units := []trace.CompilationUnit{{SourceFile: "big.cpp", TotalTime: duration.FromMilliseconds(6000)}}
	bt := trace.NewBuildTrace(units)
	result := aggregate.Aggregate(bt)
	suggestions := suggest.GenerateSuggestions(bt, result, suggest.DefaultOptions())

	assert.NotEmpty(t, suggestions)
	assert.Equal(t, suggest.TypePCH, suggestions[0].Type)
	assert.InDelta(t, 1800.0, suggestions[0].EstimatedImpactMs, 0.01)
}

func TestSuggestionsSortedAndNonNegativeImpact(t *testing.T) {
	var units []trace.CompilationUnit
	for i := 0; i < 12; i++ {
		units = append(units, trace.CompilationUnit{
			SourceFile: "tu.cpp",
			TotalTime:  duration.FromMilliseconds(6000),
			Includes:   []trace.IncludeInfo{directInclude("H.h", 60)},
		})
	}

	bt := trace.NewBuildTrace(units)
	result := aggregate.Aggregate(bt)
	suggestions := suggest.GenerateSuggestions(bt, result, suggest.DefaultOptions())

	assert.NotEmpty(t, suggestions)

	for i, s := range suggestions {
		assert.GreaterOrEqual(t, s.EstimatedImpactMs, 0.0)

		if i > 0 {
			prev := suggestions[i-1]
			if prev.Priority != s.Priority {
				assert.Greater(t, prev.Priority, s.Priority)
			} else if prev.EstimatedImpactMs != s.EstimatedImpactMs {
				assert.GreaterOrEqual(t, prev.EstimatedImpactMs, s.EstimatedImpactMs)
			} else {
				assert.LessOrEqual(t, prev.Title, s.Title)
			}
		}
	}
}

func TestDeduplicationKeyIsUnique(t *testing.T) {
	var units []trace.CompilationUnit
	for i := 0; i < 12; i++ {
		units = append(units, trace.CompilationUnit{
			SourceFile: "tu.cpp",
			TotalTime:  duration.FromMilliseconds(100),
			Includes:   []trace.IncludeInfo{directInclude("H.h", 60)},
		})
	}

	bt := trace.NewBuildTrace(units)
	result := aggregate.Aggregate(bt)
	suggestions := suggest.GenerateSuggestions(bt, result, suggest.DefaultOptions())

	seen := make(map[string]bool)
	for _, s := range suggestions {
		key := string(s.Type) + "|" + s.FilePath + "|" + s.Title
		assert.False(t, seen[key], "duplicate dedup key: %s", key)
		seen[key] = true
	}
}

func TestEnabledRulesFiltersOutput(t *testing.T) {
	units := []trace.CompilationUnit{{SourceFile: "big.cpp", TotalTime: duration.FromMilliseconds(6000)}}
	bt := trace.NewBuildTrace(units)
	result := aggregate.Aggregate(bt)

	opts := suggest.DefaultOptions()
	opts.EnabledRules = map[suggest.SuggestionType]bool{suggest.TypeUnityBuild: true}

	suggestions := suggest.GenerateSuggestions(bt, result, opts)
	assert.Empty(t, suggestions)
}

func TestEmptyTraceYieldsNoSuggestions(t *testing.T) {
	bt := trace.NewBuildTrace(nil)
	result := aggregate.Aggregate(bt)
	suggestions := suggest.GenerateSuggestions(bt, result, suggest.DefaultOptions())

	assert.Empty(t, suggestions)
}
