package export

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

func renderMarkdown(result aggregate.AnalysisResult, suggestions []suggest.Suggestion, opts Options) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# Build Hotspot Analysis\n\n")

	if opts.IncludeMetadata {
		fmt.Fprintf(&b, "_bha %s_\n\n", BHAVersion)
	}

	fmt.Fprintf(&b, "**Total compile time:** %.0f ms  \n", result.TotalCompileTime.Milliseconds())
	fmt.Fprintf(&b, "**Files analyzed:** %d\n\n", result.FileCount)

	fmt.Fprintf(&b, "## Slowest includes\n\n")
	fmt.Fprintf(&b, "| Header | Time (ms) |\n|---|---|\n")

	for _, h := range result.IncludeMetrics.SlowestIncludes {
		fmt.Fprintf(&b, "| %s | %.0f |\n", h.HeaderPath, h.TotalTimeMs)
	}

	fmt.Fprintf(&b, "\n## Most instantiated templates\n\n")
	fmt.Fprintf(&b, "| Template | Count |\n|---|---|\n")

	for _, t := range result.TemplateMetrics.MostInstantiated {
		fmt.Fprintf(&b, "| %s | %d |\n", t.TemplateName, t.Count)
	}

	if opts.IncludeSuggestions {
		fmt.Fprintf(&b, "\n## Suggestions\n\n")

		if len(suggestions) == 0 {
			fmt.Fprintf(&b, "No suggestions.\n")
		}

		for _, s := range suggestions {
			fmt.Fprintf(&b, "### %s\n\n", s.Title)
			fmt.Fprintf(&b, "- **Type:** %s\n", s.Type)
			fmt.Fprintf(&b, "- **Priority:** %s\n", s.Priority)
			fmt.Fprintf(&b, "- **Confidence:** %s\n", s.Confidence)
			fmt.Fprintf(&b, "- **Estimated impact:** %.0f ms\n", s.EstimatedImpactMs)

			if s.FilePath != "" {
				fmt.Fprintf(&b, "- **File:** %s\n", s.FilePath)
			}

			fmt.Fprintf(&b, "\n%s\n\n", s.Description)
		}
	}

	return b.String(), nil
}
