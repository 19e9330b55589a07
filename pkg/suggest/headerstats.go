package suggest

import (
	"sort"

	"github.com/Sumatoshi-tech/bha/pkg/duration"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

// headerStat is the per-header evidence a rule needs: how many distinct
// translation units pulled it in, how much total include time it cost,
// whether it is a system header, and whether anything attributes a
// template instantiation or a non-template symbol definition to it.
type headerStat struct {
	headerPath        string
	includerCount     int
	totalIncludeTime  duration.Duration
	firstLine         int
	isSystem          bool
	hasTemplateInstance bool
	hasNonTemplateSymbol bool
}

func (h headerStat) totalIncludeTimeMs() float64 {
	return h.totalIncludeTime.Milliseconds()
}

// collectHeaderStats folds a build trace into one headerStat per
// distinct header_path, sorted by header_path.
func collectHeaderStats(bt trace.BuildTrace) []headerStat {
	index := make(map[string]int)
	var stats []headerStat

	statFor := func(header string) *headerStat {
		if i, ok := index[header]; ok {
			return &stats[i]
		}

		stats = append(stats, headerStat{headerPath: header})
		index[header] = len(stats) - 1

		return &stats[len(stats)-1]
	}

	for _, unit := range bt.Units {
		seenInUnit := make(map[string]bool)

		for _, inc := range unit.Includes {
			s := statFor(inc.HeaderPath)

			if !seenInUnit[inc.HeaderPath] {
				s.includerCount++
				seenInUnit[inc.HeaderPath] = true
				s.isSystem = inc.IsSystem
				s.firstLine = inc.LineNumber
			}

			s.totalIncludeTime = s.totalIncludeTime.Add(inc.IncludeTime)
		}

		for _, tmpl := range unit.Templates {
			if tmpl.LocationFile == "" {
				continue
			}

			if i, ok := index[tmpl.LocationFile]; ok {
				stats[i].hasTemplateInstance = true
			}
		}

		for _, sym := range unit.Symbols {
			if sym.DefinitionFile == "" || sym.IsTemplate {
				continue
			}

			if i, ok := index[sym.DefinitionFile]; ok {
				stats[i].hasNonTemplateSymbol = true
			}
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].headerPath < stats[j].headerPath
	})

	return stats
}
