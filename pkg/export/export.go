package export

import (
	"fmt"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// Exporter renders an AnalysisResult and its Suggestions to a chosen
// Format. HTML rendering is delegated to an optional Renderer; every
// other format is implemented directly.
type Exporter struct {
	HTMLRenderer Renderer
}

// NewExporter constructs an Exporter. renderer may be nil; HTML export
// then fails with ErrNoRenderer.
func NewExporter(renderer Renderer) *Exporter {
	return &Exporter{HTMLRenderer: renderer}
}

// ExportToString renders result and suggestions to format, applying
// opts.MinPriority/MaxEntries filtering first. Filtering never errors —
// an aggressive filter simply yields an empty suggestion list.
func (e *Exporter) ExportToString(result aggregate.AnalysisResult, suggestions []suggest.Suggestion, format Format, opts Options) (string, error) {
	filtered := filterSuggestions(suggestions, opts)

	switch format {
	case FormatJSON:
		return renderJSON(result, filtered, opts)
	case FormatCSV:
		return renderCSV(filtered)
	case FormatSARIF:
		return renderSARIF(filtered, opts)
	case FormatMarkdown:
		return renderMarkdown(result, filtered, opts)
	case FormatHTML:
		if e.HTMLRenderer == nil {
			return "", ErrNoRenderer
		}

		return e.HTMLRenderer.RenderHTML(result, filtered, opts)
	default:
		return "", fmt.Errorf("export: unsupported format %q", format)
	}
}

// ExportToString is the package-level convenience form, equivalent to
// NewExporter(nil).ExportToString — HTML export is unavailable through
// it.
func ExportToString(result aggregate.AnalysisResult, suggestions []suggest.Suggestion, format Format, opts Options) (string, error) {
	return NewExporter(nil).ExportToString(result, suggestions, format, opts)
}
