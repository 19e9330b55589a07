package traceparse

// gccTimeReportSupported is false: GCC's `-ftime-report` output is free
// text ("time in ... :" lines terminated by a "Total ExecuteCompiler"
// equivalent marker), not JSON, so it never reaches the JSON-shaped
// detectors in this package. The spec explicitly permits stubbing this
// strategy; callers that hand in GCC text reports get ErrUnsupported.
const gccTimeReportSupported = false
