package export

import "github.com/Sumatoshi-tech/bha/pkg/suggest"

// Format is the closed set of export formats the serializer supports.
type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
	FormatSARIF    Format = "sarif"
	FormatMarkdown Format = "markdown"
)

// Options controls what an export includes and how it is filtered.
type Options struct {
	PrettyPrint        bool
	IncludeMetadata    bool
	IncludeSuggestions bool
	IncludeRawData     bool
	MinPriority        suggest.Priority
	MaxEntries         int // 0 = unlimited
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		PrettyPrint:        true,
		IncludeMetadata:    true,
		IncludeSuggestions: true,
		IncludeRawData:     false,
		MinPriority:        suggest.PriorityLow,
		MaxEntries:         0,
	}
}

// filterSuggestions applies MinPriority and MaxEntries. It never errors;
// an aggressive filter simply yields an empty slice.
func filterSuggestions(suggestions []suggest.Suggestion, opts Options) []suggest.Suggestion {
	filtered := make([]suggest.Suggestion, 0, len(suggestions))

	for _, s := range suggestions {
		if s.Priority >= opts.MinPriority {
			filtered = append(filtered, s)
		}
	}

	if opts.MaxEntries > 0 && len(filtered) > opts.MaxEntries {
		filtered = filtered[:opts.MaxEntries]
	}

	return filtered
}
