// Package traceparse decodes one trace document — a filesystem path or an
// in-memory byte buffer — into one normalized trace.CompilationUnit. It
// dispatches by detected top-level shape: a JSON object is handed to the
// Chrome-trace decoder, which claims it when it has a "traceEvents" key;
// any other JSON object or value is ErrUnsupported, GCC time-report text
// is recognized only to be reported as ErrUnsupported (see gcc.go), other
// non-JSON input is ErrInvalidFormat, and JSON that breaks off partway is
// ErrTruncated.
package traceparse

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

// ParseTraceFile opens path, reads it fully, and decodes it into one
// CompilationUnit. The file handle is released on every exit path,
// success or failure.
func ParseTraceFile(path string) (trace.CompilationUnit, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return trace.CompilationUnit{}, newParseError(ErrNotFound, path, err.Error())
		}

		return trace.CompilationUnit{}, newParseError(ErrInvalidFormat, path, err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return trace.CompilationUnit{}, newParseError(ErrTruncated, path, err.Error())
	}

	return parseTraceBytes(data, path)
}

// ParseTraceBytes decodes an in-memory trace document. sourceHint becomes
// the resulting unit's SourceFile.
func ParseTraceBytes(data []byte, sourceHint string) (trace.CompilationUnit, error) {
	return parseTraceBytes(data, sourceHint)
}

func parseTraceBytes(data []byte, sourceHint string) (trace.CompilationUnit, error) {
	var fields map[string]json.RawMessage

	if err := json.Unmarshal(data, &fields); err != nil {
		var syntaxErr *json.SyntaxError

		var typeErr *json.UnmarshalTypeError

		switch {
		case errors.As(err, &typeErr):
			// Valid JSON, but the top level isn't an object (e.g. an array
			// or scalar) — no detector in this package recognizes that shape.
			return trace.CompilationUnit{}, newParseError(ErrUnsupported, sourceHint, err.Error())
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			// Input that does not even open like a JSON document is not a
			// truncated trace: GCC time-report text is stubbed, anything
			// else is simply not JSON.
			trimmed := bytes.TrimSpace(data)
			if len(trimmed) > 0 && trimmed[0] != '{' && trimmed[0] != '[' {
				if !gccTimeReportSupported && bytes.Contains(trimmed, []byte("time in")) {
					return trace.CompilationUnit{}, newParseError(ErrUnsupported, sourceHint, "GCC time-report support is stubbed")
				}

				return trace.CompilationUnit{}, newParseError(ErrInvalidFormat, sourceHint, err.Error())
			}

			return trace.CompilationUnit{}, newParseError(ErrTruncated, sourceHint, err.Error())
		default:
			return trace.CompilationUnit{}, newParseError(ErrInvalidFormat, sourceHint, err.Error())
		}
	}

	unit, matched, err := decodeChromeTrace(fields, sourceHint)
	if err != nil {
		return trace.CompilationUnit{}, newParseError(ErrTruncated, sourceHint, err.Error())
	}

	if matched {
		return unit, nil
	}

	if !gccTimeReportSupported {
		return trace.CompilationUnit{}, newParseError(ErrUnsupported, sourceHint, "no JSON strategy matched and GCC time-report support is stubbed")
	}

	return trace.CompilationUnit{}, newParseError(ErrInvalidFormat, sourceHint, "no recognized trace events")
}

// ParseFailure records one file's parse failure in a multi-file run, so
// the caller can proceed with the units that did parse (spec §7:
// "per-file parse failures are collected, not fatal").
type ParseFailure struct {
	Err  error
	Path string
}

// ParseTraceFiles parses every path in order, collecting successes and
// failures separately rather than aborting the whole run on the first bad
// file.
func ParseTraceFiles(paths []string) ([]trace.CompilationUnit, []ParseFailure) {
	units := make([]trace.CompilationUnit, 0, len(paths))
	failures := make([]ParseFailure, 0)

	for _, path := range paths {
		unit, err := ParseTraceFile(path)
		if err != nil {
			failures = append(failures, ParseFailure{Path: path, Err: err})

			continue
		}

		units = append(units, unit)
	}

	return units, failures
}

// ParseTraceFilesConcurrent parses paths with a worker pool bounded by
// maxWorkers (at least 1), modeled on the teacher's semaphore-gated
// Factory.runParallel. Results are always re-sequenced into the caller's
// input order before returning, because Top-K tie-break determinism
// depends on a stable aggregation order — concurrency here only overlaps
// the bounded I/O of reading each file, never the order units are handed
// to the aggregator.
func ParseTraceFilesConcurrent(paths []string, maxWorkers int) ([]trace.CompilationUnit, []ParseFailure) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	type slot struct {
		unit trace.CompilationUnit
		err  error
		path string
	}

	slots := make([]slot, len(paths))
	sem := make(chan struct{}, maxWorkers)
	done := make(chan int, len(paths))

	for idx, path := range paths {
		sem <- struct{}{}

		go func(idx int, path string) {
			defer func() { <-sem }()

			unit, err := ParseTraceFile(path)
			slots[idx] = slot{unit: unit, err: err, path: path}
			done <- idx
		}(idx, path)
	}

	for range paths {
		<-done
	}

	units := make([]trace.CompilationUnit, 0, len(paths))
	failures := make([]ParseFailure, 0)

	for _, s := range slots {
		if s.err != nil {
			failures = append(failures, ParseFailure{Path: s.path, Err: s.err})

			continue
		}

		units = append(units, s.unit)
	}

	return units, failures
}
