package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bha/pkg/duration"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

func TestNormalizeHeaderPath(t *testing.T) {
	assert.Equal(t, "a/b/c.h", trace.NormalizeHeaderPath(`a\b\c.h`))
	assert.Equal(t, "a/b.h", trace.NormalizeHeaderPath("a/b.h   \n"))
	assert.Equal(t, "Mixed/Case.H", trace.NormalizeHeaderPath("Mixed/Case.H"))
}

func TestNewIncludeInfoClampsLineNumber(t *testing.T) {
	inc := trace.NewIncludeInfo("x.h", duration.FromMicroseconds(10), -5, false, true, "main.cpp")
	assert.Equal(t, 0, inc.LineNumber)
	assert.Equal(t, "x.h", inc.HeaderPath)
}

func TestNewTemplateInstantiationDefaultsCount(t *testing.T) {
	ti := trace.NewTemplateInstantiation("std::vector", "<int>", duration.FromMilliseconds(1), "v.h", 10, 0)
	assert.Equal(t, 1, ti.InstantiationCount)
}

func TestFrontendBackendWithinTotal(t *testing.T) {
	u := trace.CompilationUnit{
		TotalTime:    duration.FromMicroseconds(2_000_000),
		FrontendTime: duration.FromMicroseconds(1_500_000),
		BackendTime:  duration.FromMicroseconds(500_000),
	}
	assert.True(t, u.FrontendBackendWithinTotal())

	over := trace.CompilationUnit{
		TotalTime:    duration.FromMicroseconds(100),
		FrontendTime: duration.FromMicroseconds(1000),
		BackendTime:  duration.FromMicroseconds(1000),
	}
	assert.False(t, over.FrontendBackendWithinTotal())
}

func TestFrontendBackendWithinTotalRoundingSlack(t *testing.T) {
	// Exactly at the 1us slack boundary should still be within.
	u := trace.CompilationUnit{
		TotalTime:    duration.FromNanoseconds(1_000_000),
		FrontendTime: duration.FromNanoseconds(1_000_500),
		BackendTime:  duration.FromNanoseconds(500),
	}
	assert.True(t, u.FrontendBackendWithinTotal())
}

func TestBuildTraceTotalBuildTime(t *testing.T) {
	bt := trace.NewBuildTrace([]trace.CompilationUnit{
		{TotalTime: duration.FromMilliseconds(100)},
		{TotalTime: duration.FromMilliseconds(250)},
	})
	assert.Equal(t, 1, bt.ParallelJobs)
	assert.InDelta(t, 350.0, bt.TotalBuildTime().Milliseconds(), 1e-9)
}

func TestCompilerTypeString(t *testing.T) {
	assert.Equal(t, "clang", trace.CompilerClang.String())
	assert.Equal(t, "unknown", trace.CompilerType(99).String())
}
