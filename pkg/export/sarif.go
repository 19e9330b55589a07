package export

import (
	"encoding/json"

	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// sarifLevel maps a Priority to the SARIF result.level vocabulary:
// Critical and High are errors, Medium is a warning, Low is a note.
func sarifLevel(p suggest.Priority) string {
	switch p {
	case suggest.PriorityCritical, suggest.PriorityHigh:
		return "error"
	case suggest.PriorityMedium:
		return "warning"
	default:
		return "note"
	}
}

func renderSARIF(suggestions []suggest.Suggestion, opts Options) (string, error) {
	results := make([]map[string]any, len(suggestions))

	for i, s := range suggestions {
		locations := []map[string]any{}
		if s.FilePath != "" {
			region := map[string]any{}
			if s.LineNumber > 0 {
				region["startLine"] = s.LineNumber
			}

			locations = append(locations, map[string]any{
				"physicalLocation": map[string]any{
					"artifactLocation": map[string]any{"uri": s.FilePath},
					"region":           region,
				},
			})
		}

		results[i] = map[string]any{
			"ruleId":    string(s.Type),
			"level":     sarifLevel(s.Priority),
			"message":   map[string]any{"text": s.Description},
			"locations": locations,
		}
	}

	doc := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":           "bha",
						"informationUri": "https://github.com/Sumatoshi-tech/bha",
						"version":        BHAVersion,
					},
				},
				"results": results,
			},
		},
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
