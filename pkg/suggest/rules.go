package suggest

import (
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

// Rule is one suggestion heuristic. Evaluate is a pure function of the
// build trace and its analysis result; rules never mutate either.
type Rule interface {
	Name() string
	Type() SuggestionType
	Evaluate(bt trace.BuildTrace, result aggregate.AnalysisResult, opts Options) []Suggestion
}

// rules lists every built-in rule in fixed registration order. Order
// matters only for tie-break reproducibility before the final sort; the
// dedup/sort pass re-orders the combined output deterministically.
var rules = []Rule{
	pchCandidateRule{},
	slowSingleTURule{},
	forwardDeclarationRule{},
	heavyTemplateRule{},
	unityBuildRule{},
	moduleMigrationRule{},
	pimplRule{},
}

// ---- PCH candidate ----

type pchCandidateRule struct{}

func (pchCandidateRule) Name() string         { return "pch_candidate" }
func (pchCandidateRule) Type() SuggestionType { return TypePCH }

func (r pchCandidateRule) Evaluate(bt trace.BuildTrace, result aggregate.AnalysisResult, opts Options) []Suggestion {
	var out []Suggestion

	totalMs := result.TotalCompileTime.Milliseconds()

	for _, h := range collectHeaderStats(bt) {
		if h.includerCount < opts.PCHMinIncluders || h.totalIncludeTimeMs() < opts.PCHMinMs {
			continue
		}

		share := 0.0
		if totalMs > 0 {
			share = h.totalIncludeTimeMs() / totalMs
		}

		priority := PriorityMedium
		if share >= 0.10 {
			priority = PriorityHigh
		}

		confidence := ConfidenceMedium
		if share >= 0.20 {
			confidence = ConfidenceHigh
		}

		confidence = downgradeIfFewSamples(confidence, h.includerCount)

		n := float64(h.includerCount)
		impact := clampImpact(0.7 * h.totalIncludeTimeMs() * (n - 1) / n)

		out = append(out, Suggestion{
			Type:              TypePCH,
			Priority:          priority,
			Confidence:        confidence,
			Title:             fmt.Sprintf("Precompile %s", h.headerPath),
			Description:       fmt.Sprintf("%s is included by %d translation units and costs %.0f ms of cumulative include time; precompiling it would amortize most of that cost.", h.headerPath, h.includerCount, h.totalIncludeTimeMs()),
			FilePath:          h.headerPath,
			LineNumber:        h.firstLine,
			EstimatedImpactMs: impact,
			AffectedFiles:     []string{h.headerPath},
			CodeChanges: []CodeChange{{
				File:   "CMakeLists.txt",
				Before: "# no precompiled header configured",
				After:  fmt.Sprintf("target_precompile_headers(target PRIVATE %s)", h.headerPath),
			}},
		})
	}

	return out
}

// ---- Slow single TU ----

type slowSingleTURule struct{}

func (slowSingleTURule) Name() string         { return "slow_single_tu" }
func (slowSingleTURule) Type() SuggestionType { return TypePCH }

func (r slowSingleTURule) Evaluate(_ trace.BuildTrace, result aggregate.AnalysisResult, opts Options) []Suggestion {
	var out []Suggestion

	for _, fm := range result.FileMetrics {
		if fm.CompileTimeMs <= opts.SlowTUMs {
			continue
		}

		out = append(out, Suggestion{
			Type:              TypePCH,
			Priority:          PriorityHigh,
			Confidence:        ConfidenceMedium,
			Title:             fmt.Sprintf("Investigate slow compile of %s", fm.SourceFile),
			Description:       fmt.Sprintf("%s takes %.0f ms to compile on its own, well above the slow-TU threshold.", fm.SourceFile, fm.CompileTimeMs),
			FilePath:          fm.SourceFile,
			EstimatedImpactMs: clampImpact(0.3 * fm.CompileTimeMs),
			AffectedFiles:     []string{fm.SourceFile},
		})
	}

	return out
}

// ---- Forward-declaration candidate ----

type forwardDeclarationRule struct{}

func (forwardDeclarationRule) Name() string         { return "forward_declaration_candidate" }
func (forwardDeclarationRule) Type() SuggestionType { return TypeForwardDeclaration }

func (r forwardDeclarationRule) Evaluate(bt trace.BuildTrace, _ aggregate.AnalysisResult, opts Options) []Suggestion {
	var out []Suggestion

	for _, h := range collectHeaderStats(bt) {
		if h.isSystem || h.includerCount < opts.FwdMinIncluders || h.hasTemplateInstance {
			continue
		}

		confidence := downgradeIfFewSamples(ConfidenceLow, h.includerCount)

		out = append(out, Suggestion{
			Type:              TypeForwardDeclaration,
			Priority:          PriorityMedium,
			Confidence:        confidence,
			Title:             fmt.Sprintf("Forward-declare instead of including %s", h.headerPath),
			Description:       fmt.Sprintf("%s is included by %d translation units with no template usage attributed to it; a forward declaration may suffice at most call sites.", h.headerPath, h.includerCount),
			FilePath:          h.headerPath,
			LineNumber:        h.firstLine,
			EstimatedImpactMs: clampImpact(0.5 * h.totalIncludeTimeMs()),
			AffectedFiles:     []string{h.headerPath},
			CodeChanges: []CodeChange{{
				File:   h.headerPath,
				Before: fmt.Sprintf("#include %q", h.headerPath),
				After:  "class " + baseTypeName(h.headerPath) + "; // forward declaration",
			}},
		})
	}

	return out
}

// baseTypeName turns a header path into a plausible type name guess for
// the illustrative forward-declaration snippet.
func baseTypeName(headerPath string) string {
	name := headerPath

	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			name = name[i+1:]

			break
		}
	}

	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i]
		}
	}

	return name
}

// ---- Heavy template ----

type heavyTemplateRule struct{}

func (heavyTemplateRule) Name() string         { return "heavy_template" }
func (heavyTemplateRule) Type() SuggestionType { return TypeTemplateOptimization }

func (r heavyTemplateRule) Evaluate(_ trace.BuildTrace, result aggregate.AnalysisResult, opts Options) []Suggestion {
	var out []Suggestion

	for _, t := range result.TemplateMetrics.MostInstantiated {
		timed := findTimedTemplate(result.TemplateMetrics.SlowestTemplates, t.TemplateName)

		if t.Count < opts.HeavyTmplCount && timed < opts.HeavyTmplMs {
			continue
		}

		priority := PriorityMedium
		if timed >= 2000 {
			priority = PriorityHigh
		}

		confidence := downgradeIfFewSamples(ConfidenceMedium, t.Count)

		out = append(out, Suggestion{
			Type:              TypeTemplateOptimization,
			Priority:          priority,
			Confidence:        confidence,
			Title:             fmt.Sprintf("Reduce instantiations of %s", t.TemplateName),
			Description:       fmt.Sprintf("%s is instantiated %d times for a total of %.0f ms; consider extern template declarations or reducing specialization variety.", t.TemplateName, t.Count, timed),
			EstimatedImpactMs: clampImpact(0.4 * timed),
			AffectedFiles:     nil,
		})
	}

	return out
}

func findTimedTemplate(slowest []aggregate.TimedTemplate, name string) float64 {
	for _, t := range slowest {
		if t.TemplateName == name {
			return t.TotalTimeMs
		}
	}

	return 0
}

// ---- Unity-build candidate ----

type unityBuildRule struct{}

func (unityBuildRule) Name() string         { return "unity_build_candidate" }
func (unityBuildRule) Type() SuggestionType { return TypeUnityBuild }

func (r unityBuildRule) Evaluate(_ trace.BuildTrace, result aggregate.AnalysisResult, opts Options) []Suggestion {
	n := len(result.FileMetrics)
	if n < opts.UnityMinFiles {
		return nil
	}

	var sum float64

	affected := make([]string, 0, n)

	for _, fm := range result.FileMetrics {
		sum += fm.CompileTimeMs
		affected = append(affected, fm.SourceFile)
	}

	mean := sum / float64(n)
	if mean >= opts.UnityMeanMs {
		return nil
	}

	sort.Strings(affected)

	confidence := downgradeIfFewSamples(ConfidenceLow, n)

	return []Suggestion{{
		Type:              TypeUnityBuild,
		Priority:          PriorityMedium,
		Confidence:        confidence,
		Title:             "Combine small translation units into a unity build",
		Description:       fmt.Sprintf("%d translation units average %.0f ms each; batching them into unity build files would cut per-TU fixed overhead.", n, mean),
		EstimatedImpactMs: clampImpact(0.25 * sum),
		AffectedFiles:     affected,
	}}
}

// ---- Module migration ----

type moduleMigrationRule struct{}

func (moduleMigrationRule) Name() string         { return "module_migration" }
func (moduleMigrationRule) Type() SuggestionType { return TypeModuleMigration }

func (r moduleMigrationRule) Evaluate(bt trace.BuildTrace, result aggregate.AnalysisResult, _ Options) []Suggestion {
	if !anyClang(bt) {
		return nil
	}

	totalCompileMs := result.TotalCompileTime.Milliseconds()
	if totalCompileMs <= 0 {
		return nil
	}

	totalIncludeMs := result.IncludeMetrics.TotalIncludeTime.Milliseconds()
	ratio := totalIncludeMs / totalCompileMs

	if ratio <= 0.4 {
		return nil
	}

	confidence := downgradeIfFewSamples(ConfidenceLow, result.FileCount)

	return []Suggestion{{
		Type:              TypeModuleMigration,
		Priority:          PriorityLow,
		Confidence:        confidence,
		Title:             "Migrate hot headers to C++ modules",
		Description:       fmt.Sprintf("Include time accounts for %.0f%% of total compile time; migrating frequently-included headers to modules would remove most of that cost.", ratio*100),
		EstimatedImpactMs: clampImpact(0.2 * totalIncludeMs),
	}}
}

func anyClang(bt trace.BuildTrace) bool {
	for _, u := range bt.Units {
		if u.Compiler == trace.CompilerClang {
			return true
		}
	}

	return false
}

// ---- PIMPL ----

type pimplRule struct{}

func (pimplRule) Name() string         { return "pimpl_candidate" }
func (pimplRule) Type() SuggestionType { return TypePimpl }

func (r pimplRule) Evaluate(bt trace.BuildTrace, _ aggregate.AnalysisResult, opts Options) []Suggestion {
	var out []Suggestion

	for _, h := range collectHeaderStats(bt) {
		if !h.hasNonTemplateSymbol || h.includerCount < opts.PimplMinIncluders || h.totalIncludeTimeMs() < opts.PimplMinMs {
			continue
		}

		confidence := downgradeIfFewSamples(ConfidenceLow, h.includerCount)

		out = append(out, Suggestion{
			Type:              TypePimpl,
			Priority:          PriorityMedium,
			Confidence:        confidence,
			Title:             fmt.Sprintf("Apply PIMPL to %s", h.headerPath),
			Description:       fmt.Sprintf("%s defines concrete symbols and is included by %d translation units; hiding its implementation behind a pointer would decouple callers from its internals.", h.headerPath, h.includerCount),
			FilePath:          h.headerPath,
			LineNumber:        h.firstLine,
			EstimatedImpactMs: clampImpact(0.3 * h.totalIncludeTimeMs()),
			AffectedFiles:     []string{h.headerPath},
		})
	}

	return out
}
