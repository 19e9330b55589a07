package suggest

import (
	"sort"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

// dedupKey is the (type, file_path, title) uniqueness key suggestions
// are deduplicated on.
type dedupKey struct {
	kind     SuggestionType
	filePath string
	title    string
}

// GenerateSuggestions runs every enabled rule against bt and result,
// deduplicates by (type, file_path, title) keeping the higher-impact
// (then higher-confidence) entry, and returns the result sorted by
// (priority desc, estimated_impact_ms desc, title asc).
func GenerateSuggestions(bt trace.BuildTrace, result aggregate.AnalysisResult, opts Options) []Suggestion {
	best := make(map[dedupKey]Suggestion)
	var order []dedupKey

	for _, rule := range rules {
		if !opts.enabled(rule.Type()) {
			continue
		}

		for _, s := range rule.Evaluate(bt, result, opts) {
			s.EstimatedImpactMs = clampImpact(s.EstimatedImpactMs)
			key := dedupKey{kind: s.Type, filePath: s.FilePath, title: s.Title}

			existing, seen := best[key]
			if !seen {
				order = append(order, key)
				best[key] = s

				continue
			}

			if s.EstimatedImpactMs > existing.EstimatedImpactMs ||
				(s.EstimatedImpactMs == existing.EstimatedImpactMs && s.Confidence > existing.Confidence) {
				best[key] = s
			}
		}
	}

	out := make([]Suggestion, len(order))
	for i, key := range order {
		out[i] = best[key]
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}

		if out[i].EstimatedImpactMs != out[j].EstimatedImpactMs {
			return out[i].EstimatedImpactMs > out[j].EstimatedImpactMs
		}

		return out[i].Title < out[j].Title
	})

	return out
}
