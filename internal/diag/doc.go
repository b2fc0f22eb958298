// Package diag defines the diagnostic model of the weft resolution layer:
// codes, severities, the Diagnostic value, bags that collect diagnostics
// for a run, and the Error wrapper that lets resolution operations return
// a diagnostic through a regular Go error.
//
// The package only constructs diagnostics; rendering them is the caller's
// concern.
package diag
