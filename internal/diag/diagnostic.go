package diag

import (
	"weft/internal/source"
)

// Note attaches secondary context to a diagnostic (e.g. one rejected
// overload candidate).
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
