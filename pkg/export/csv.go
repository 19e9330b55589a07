package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// renderCSV emits one row per suggestion; it is the format built for
// spreadsheet triage of a suggestion batch, not for the full metrics
// tree (which export.ToDict already exposes via JSON).
func renderCSV(suggestions []suggest.Suggestion) (string, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	header := []string{
		"type", "priority", "confidence", "title", "description",
		"file_path", "line_number", "estimated_impact_ms", "affected_files",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, s := range suggestions {
		row := []string{
			string(s.Type),
			s.Priority.String(),
			s.Confidence.String(),
			s.Title,
			s.Description,
			s.FilePath,
			strconv.Itoa(s.LineNumber),
			strconv.FormatFloat(s.EstimatedImpactMs, 'f', -1, 64),
			joinSemicolon(s.AffectedFiles),
		}

		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func joinSemicolon(items []string) string {
	var buf bytes.Buffer

	for i, item := range items {
		if i > 0 {
			buf.WriteByte(';')
		}

		buf.WriteString(item)
	}

	return buf.String()
}
