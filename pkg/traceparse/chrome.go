package traceparse

import (
	"encoding/json"
	"strings"

	"github.com/Sumatoshi-tech/bha/pkg/duration"
	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

// Event names the Chrome-trace strategy dispatches on (spec §4.1 table).
const (
	eventTotalExecuteCompiler = "Total ExecuteCompiler"
	eventTotalFrontend        = "Total Frontend"
	eventTotalBackend         = "Total Backend"
	eventSource               = "Source"
	eventInstantiateClass     = "InstantiateClass"
	eventInstantiateFunction  = "InstantiateFunction"
)

// chromeEvent mirrors one entry of a -ftime-trace traceEvents array. Only
// the keys the spec's dispatch table consults are decoded.
type chromeEvent struct {
	Name string  `json:"name"`
	Dur  float64 `json:"dur"`
	Args struct {
		Detail string `json:"detail"`
	} `json:"args"`
}

// chromeDocument is the top-level shape -ftime-trace emits.
type chromeDocument struct {
	TraceEvents []chromeEvent `json:"traceEvents"`
}

// decodeChromeTrace lowers a Chrome-trace JSON document into one
// CompilationUnit. ok is false when the document is structurally not a
// Chrome trace (no "traceEvents" key at all), in which case the caller
// should try the next detector.
func decodeChromeTrace(fields map[string]json.RawMessage, sourceHint string) (trace.CompilationUnit, bool, error) {
	raw, present := fields["traceEvents"]
	if !present {
		return trace.CompilationUnit{}, false, nil
	}

	var doc chromeDocument
	if err := json.Unmarshal(raw, &doc.TraceEvents); err != nil {
		return trace.CompilationUnit{}, false, err
	}

	unit := trace.CompilationUnit{
		SourceFile: sourceHint,
		Compiler:   trace.CompilerClang,
	}

	for _, event := range doc.TraceEvents {
		dispatchChromeEvent(&unit, event)
	}

	return unit, true, nil
}

func dispatchChromeEvent(unit *trace.CompilationUnit, event chromeEvent) {
	dur := duration.FromMicroseconds(event.Dur)

	switch event.Name {
	case eventTotalExecuteCompiler:
		unit.TotalTime = dur
	case eventTotalFrontend:
		unit.FrontendTime = dur
	case eventTotalBackend:
		unit.BackendTime = dur
	case eventSource:
		if event.Args.Detail == "" {
			return
		}

		unit.Includes = append(unit.Includes, trace.NewIncludeInfo(event.Args.Detail, dur, 0, false, true, unit.SourceFile))
	case eventInstantiateClass, eventInstantiateFunction:
		// "std::vector<int>" splits into name "std::vector" and
		// specialization "<int>"; a detail without a trailing argument
		// list is kept whole as the name.
		name, specialization := event.Args.Detail, ""
		if i := strings.IndexByte(name, '<'); i > 0 && strings.HasSuffix(name, ">") {
			name, specialization = name[:i], name[i:]
		}

		unit.Templates = append(unit.Templates, trace.NewTemplateInstantiation(name, specialization, dur, unit.SourceFile, 0, 1))
	}
}
