package export

import (
	"errors"

	"github.com/Sumatoshi-tech/bha/pkg/aggregate"
	"github.com/Sumatoshi-tech/bha/pkg/suggest"
)

// ErrNoRenderer is returned when HTML export is requested but no
// Renderer collaborator has been configured.
var ErrNoRenderer = errors.New("export: html format requires a Renderer")

// Renderer is the collaborator boundary for HTML rendering, mirroring
// the teacher's SectionRenderer split between pure data and terminal/
// HTML presentation: this package owns the canonical dictionary shape,
// a Renderer owns turning it into markup.
type Renderer interface {
	RenderHTML(result aggregate.AnalysisResult, suggestions []suggest.Suggestion, opts Options) (string, error)
}
