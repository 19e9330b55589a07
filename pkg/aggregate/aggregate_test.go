package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/duration"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

func direct(header string, micros float64) trace.IncludeInfo {
	return trace.NewIncludeInfo(header, duration.FromMicroseconds(micros), 1, false, true, "")
}

func TestAggregateEmptyTrace(t *testing.T) {
	result := aggregate.Aggregate(trace.NewBuildTrace(nil))

	assert.Equal(t, 0, result.FileCount)
	assert.Empty(t, result.FileMetrics)
	assert.Equal(t, 0, result.IncludeMetrics.TotalIncludes)
	assert.Equal(t, duration.Zero, result.TotalCompileTime)
}

func TestFileMetricsOrderMatchesInput(t *testing.T) {
	units := []trace.CompilationUnit{
		{SourceFile: "b.cpp", TotalTime: duration.FromMilliseconds(10)},
		{SourceFile: "a.cpp", TotalTime: duration.FromMilliseconds(20)},
	}

	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Equal(t, []string{"b.cpp", "a.cpp"}, []string{
		result.FileMetrics[0].SourceFile, result.FileMetrics[1].SourceFile,
	})
	assert.Equal(t, float64(10), result.FileMetrics[0].CompileTimeMs)
}

func TestFileMetricsIsHeader(t *testing.T) {
	units := []trace.CompilationUnit{
		{SourceFile: "widget.h"},
		{SourceFile: "widget.cpp"},
		{SourceFile: "widget.hpp"},
	}

	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.True(t, result.FileMetrics[0].IsHeader)
	assert.False(t, result.FileMetrics[1].IsHeader)
	assert.True(t, result.FileMetrics[2].IsHeader)
}

func TestIncludeMetricsTotalsAndUnique(t *testing.T) {
	units := []trace.CompilationUnit{
		{SourceFile: "a.cpp", Includes: []trace.IncludeInfo{direct("common.h", 1000), direct("a_only.h", 500)}},
		{SourceFile: "b.cpp", Includes: []trace.IncludeInfo{direct("common.h", 2000)}},
	}

	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Equal(t, 3, result.IncludeMetrics.TotalIncludes)
	assert.Equal(t, 2, result.IncludeMetrics.UniqueIncludes)
	assert.Equal(t, duration.FromMicroseconds(3500), result.IncludeMetrics.TotalIncludeTime)
}

func TestMostIncludedTieBreaksAlphabetically(t *testing.T) {
	units := []trace.CompilationUnit{
		{SourceFile: "a.cpp", Includes: []trace.IncludeInfo{direct("zeta.h", 100), direct("alpha.h", 100)}},
	}

	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Equal(t, "alpha.h", result.IncludeMetrics.MostIncluded[0].HeaderPath)
	assert.Equal(t, "zeta.h", result.IncludeMetrics.MostIncluded[1].HeaderPath)
}

func TestMostIncludedTopKCapsAtTen(t *testing.T) {
	var includes []trace.IncludeInfo
	for i := 0; i < 15; i++ {
		includes = append(includes, direct(string(rune('a'+i))+".h", 10))
	}

	units := []trace.CompilationUnit{{SourceFile: "a.cpp", Includes: includes}}
	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Len(t, result.IncludeMetrics.MostIncluded, 10)
	assert.Len(t, result.IncludeMetrics.SlowestIncludes, 10)
}

func TestTemplateMetricsMergeBySpecialization(t *testing.T) {
	units := []trace.CompilationUnit{
		{
			SourceFile: "a.cpp",
			Templates: []trace.TemplateInstantiation{
				trace.NewTemplateInstantiation("Vector", "<int>", duration.FromMilliseconds(5), "a.cpp", 1, 1),
				trace.NewTemplateInstantiation("Vector", "<int>", duration.FromMilliseconds(3), "a.cpp", 2, 2),
				trace.NewTemplateInstantiation("Vector", "<float>", duration.FromMilliseconds(1), "a.cpp", 3, 1),
			},
		},
	}

	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Equal(t, 2, result.TemplateMetrics.UniqueTemplates)
	assert.Equal(t, 4, result.TemplateMetrics.TotalInstantiations)
	assert.Len(t, result.TemplateMetrics.MostInstantiated, 1)
	assert.Equal(t, "Vector", result.TemplateMetrics.MostInstantiated[0].TemplateName)
	assert.Equal(t, 4, result.TemplateMetrics.MostInstantiated[0].Count)
}

func TestSymbolMetricsCountsByType(t *testing.T) {
	units := []trace.CompilationUnit{
		{
			SourceFile: "a.cpp",
			Symbols: []trace.SymbolInfo{
				{Name: "f", SymbolType: trace.SymbolFunction, SizeBytes: 10, IsInline: true},
				{Name: "C", SymbolType: trace.SymbolClass, SizeBytes: 20},
				{Name: "v", SymbolType: trace.SymbolVariable, IsTemplate: true},
			},
		},
	}

	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Equal(t, 3, result.SymbolMetrics.TotalSymbols)
	assert.Equal(t, 1, result.SymbolMetrics.FunctionCount)
	assert.Equal(t, 1, result.SymbolMetrics.ClassCount)
	assert.Equal(t, 1, result.SymbolMetrics.VariableCount)
	assert.Equal(t, 30, result.SymbolMetrics.TotalSizeBytes)
	assert.Equal(t, 1, result.SymbolMetrics.InlineCount)
	assert.Equal(t, 1, result.SymbolMetrics.TemplateCount)
}

func TestRunFullAnalysisIncludeSymbolsFalseSkipsSymbolMetrics(t *testing.T) {
	units := []trace.CompilationUnit{
		{SourceFile: "a.cpp", Symbols: []trace.SymbolInfo{{Name: "f", SymbolType: trace.SymbolFunction}}},
	}

	opts := aggregate.Options{TopK: 10, IncludeSymbols: false}
	result := aggregate.RunFullAnalysis(trace.NewBuildTrace(units), opts)

	assert.Equal(t, 0, result.SymbolMetrics.TotalSymbols)
}

func TestRunFullAnalysisCustomTopK(t *testing.T) {
	var includes []trace.IncludeInfo
	for i := 0; i < 15; i++ {
		includes = append(includes, direct(string(rune('a'+i))+".h", 10))
	}

	units := []trace.CompilationUnit{{SourceFile: "a.cpp", Includes: includes}}

	opts := aggregate.Options{TopK: 3, IncludeSymbols: true}
	result := aggregate.RunFullAnalysis(trace.NewBuildTrace(units), opts)

	assert.Len(t, result.IncludeMetrics.MostIncluded, 3)
}

func TestRunFullAnalysisZeroTopKFallsBackToDefault(t *testing.T) {
	var includes []trace.IncludeInfo
	for i := 0; i < 15; i++ {
		includes = append(includes, direct(string(rune('a'+i))+".h", 10))
	}

	units := []trace.CompilationUnit{{SourceFile: "a.cpp", Includes: includes}}

	result := aggregate.RunFullAnalysis(trace.NewBuildTrace(units), aggregate.Options{})

	assert.Len(t, result.IncludeMetrics.MostIncluded, 10)
}

func TestDependencyMetricsReflectsGraph(t *testing.T) {
	units := []trace.CompilationUnit{
		{SourceFile: "main.cpp", Includes: []trace.IncludeInfo{direct("a.h", 10)}},
		{SourceFile: "a.h", Includes: []trace.IncludeInfo{direct("b.h", 10)}},
	}

	result := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Equal(t, 3, result.DependencyMetrics.NodeCount)
	assert.Equal(t, 0, result.DependencyMetrics.CircularDependencies)
	assert.Equal(t, 3, result.DependencyMetrics.StronglyConnectedComponents)
	assert.Equal(t, 2, result.DependencyMetrics.MaxDependencyDepth)
}

func TestDeterministicAcrossRepeatedRuns(t *testing.T) {
	units := []trace.CompilationUnit{
		{SourceFile: "a.cpp", Includes: []trace.IncludeInfo{direct("common.h", 100), direct("zeta.h", 100)}},
		{SourceFile: "b.cpp", Includes: []trace.IncludeInfo{direct("common.h", 50)}},
	}

	first := aggregate.Aggregate(trace.NewBuildTrace(units))
	second := aggregate.Aggregate(trace.NewBuildTrace(units))

	assert.Equal(t, first, second)
}
