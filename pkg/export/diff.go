package export

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// UnifiedDiff renders one CodeChange's before/after pair as a unified
// diff, the same way the corpus's diffmatchpatch usage turns a before/
// after text pair into a human-readable patch.
func UnifiedDiff(change suggest.CodeChange) string {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(change.Before, change.After, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder

	fmt.Fprintf(&b, "--- %s\n+++ %s\n", change.File, change.File)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			writePrefixedLines(&b, "+", d.Text)
		case diffmatchpatch.DiffDelete:
			writePrefixedLines(&b, "-", d.Text)
		case diffmatchpatch.DiffEqual:
			writePrefixedLines(&b, " ", d.Text)
		}
	}

	return b.String()
}

func writePrefixedLines(b *strings.Builder, prefix, text string) {
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}

		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
