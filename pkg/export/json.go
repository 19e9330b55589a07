package export

import (
	"encoding/json"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

func renderJSON(result aggregate.AnalysisResult, suggestions []suggest.Suggestion, opts Options) (string, error) {
	doc := ToDict(result)

	if !opts.IncludeMetadata {
		delete(doc, "bha_version")
	}

	if opts.IncludeSuggestions {
		dicts := make([]map[string]any, len(suggestions))
		for i, s := range suggestions {
			dicts[i] = SuggestionToDict(s)
		}

		doc["suggestions"] = dicts
	}

	var (
		data []byte
		err  error
	)

	if opts.PrettyPrint {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = json.Marshal(doc)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
