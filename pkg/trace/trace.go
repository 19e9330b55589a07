// Package trace defines the pure data entities that model one compiler
// build: compilation units, their includes, template instantiations and
// symbols, and the build as a whole. Entities are immutable once
// constructed; parsers and aggregators allocate fresh values rather than
// mutating these in place.
package trace

import (
	"strings"

	"github.com/Sumatoshi-tech/bha/pkg/duration"
)

// CompilerType is the closed set of compilers the parser can detect.
type CompilerType int

const (
	// CompilerUnknown is the zero value: no compiler was detected.
	CompilerUnknown CompilerType = iota
	CompilerClang
	CompilerGCC
	CompilerMSVC
	CompilerIntel
	CompilerNVCC
)

// String renders the compiler type for logs and exports.
func (c CompilerType) String() string {
	switch c {
	case CompilerClang:
		return "clang"
	case CompilerGCC:
		return "gcc"
	case CompilerMSVC:
		return "msvc"
	case CompilerIntel:
		return "intel"
	case CompilerNVCC:
		return "nvcc"
	default:
		return "unknown"
	}
}

// IncludeInfo records one header include directive observed in a
// compilation unit's trace.
type IncludeInfo struct {
	// IncludedBy identifies the source file (direct include) or the
	// intermediate header (indirect include) that pulled this header in.
	// Empty when unknown.
	IncludedBy string

	HeaderPath  string
	IncludeTime duration.Duration
	LineNumber  int
	IsSystem    bool
	IsDirect    bool
}

// NormalizeHeaderPath unifies slash direction and strips trailing
// whitespace while preserving case, per the header_path normalization
// invariant.
func NormalizeHeaderPath(path string) string {
	normalized := strings.ReplaceAll(path, `\`, "/")

	return strings.TrimRight(normalized, " \t\r\n")
}

// NewIncludeInfo constructs an IncludeInfo with a normalized header path
// and clamped non-negative fields.
func NewIncludeInfo(headerPath string, includeTime duration.Duration, lineNumber int, isSystem, isDirect bool, includedBy string) IncludeInfo {
	if lineNumber < 0 {
		lineNumber = 0
	}

	return IncludeInfo{
		HeaderPath:  NormalizeHeaderPath(headerPath),
		IncludeTime: includeTime,
		LineNumber:  lineNumber,
		IsSystem:    isSystem,
		IsDirect:    isDirect,
		IncludedBy:  includedBy,
	}
}

// TemplateInstantiation records one template instantiation event.
// TemplateName excludes the argument list; Specialization holds the
// argument list verbatim as emitted by the compiler.
type TemplateInstantiation struct {
	TemplateName       string
	Specialization     string
	LocationFile        string
	InstantiationTime  duration.Duration
	LocationLine        int
	InstantiationCount int
}

// NewTemplateInstantiation constructs a TemplateInstantiation, defaulting
// InstantiationCount to the invariant minimum of 1.
func NewTemplateInstantiation(templateName, specialization string, instantiationTime duration.Duration, locationFile string, locationLine, count int) TemplateInstantiation {
	if count < 1 {
		count = 1
	}

	return TemplateInstantiation{
		TemplateName:       templateName,
		Specialization:     specialization,
		InstantiationTime:  instantiationTime,
		LocationFile:       locationFile,
		LocationLine:       locationLine,
		InstantiationCount: count,
	}
}

// SymbolType is the closed set of symbol kinds the model distinguishes.
type SymbolType string

const (
	SymbolFunction SymbolType = "function"
	SymbolClass    SymbolType = "class"
	SymbolVariable SymbolType = "variable"
	SymbolOther    SymbolType = "other"
)

// SymbolInfo describes one symbol (function, class, variable) defined in a
// compilation unit. No shipped parser currently populates this; it is part
// of the model for parsers that support symbol extraction.
type SymbolInfo struct {
	Name           string
	MangledName    string
	SymbolType     SymbolType
	DefinitionFile string
	SizeBytes      int
	DefinitionLine int
	IsInline       bool
	IsTemplate     bool
}

// CompilationUnit is the normalized result of lowering one trace document:
// one translation unit's timing, includes, template instantiations and
// symbols. SourceFile is set at parse time and never mutated afterwards.
type CompilationUnit struct {
	SourceFile   string
	Compiler     CompilerType
	TotalTime    duration.Duration
	FrontendTime duration.Duration
	BackendTime  duration.Duration
	Includes     []IncludeInfo
	Templates    []TemplateInstantiation
	Symbols      []SymbolInfo
}

// roundingSlack covers the one-microsecond rounding budget the frontend +
// backend <= total invariant allows for.
const roundingSlack = duration.Duration(1000)

// FrontendBackendWithinTotal reports whether frontend_time + backend_time
// does not exceed total_time by more than the one-microsecond rounding
// slack the model allows.
func (u CompilationUnit) FrontendBackendWithinTotal() bool {
	return u.FrontendTime.Add(u.BackendTime) <= u.TotalTime.Add(roundingSlack)
}

// BuildTrace is an ordered sequence of compilation units forming one
// build. ParallelJobs is an annotation only and never affects sums.
type BuildTrace struct {
	Units        []CompilationUnit
	ParallelJobs int
}

// NewBuildTrace builds a BuildTrace from units in caller-given order,
// defaulting ParallelJobs to 1 per the invariant parallel_jobs >= 1.
func NewBuildTrace(units []CompilationUnit) BuildTrace {
	return BuildTrace{Units: units, ParallelJobs: 1}
}

// TotalBuildTime sums TotalTime across every unit, in the order given.
func (t BuildTrace) TotalBuildTime() duration.Duration {
	total := duration.Zero
	for _, u := range t.Units {
		total = total.Add(u.TotalTime)
	}

	return total
}
