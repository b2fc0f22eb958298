package diag

import (
	"errors"
	"fmt"

	"weft/internal/source"
)

// Error carries a user-reportable Diagnostic through an error return.
// Resolution operations either fully succeed or return one of these;
// partial results never reach the IR.
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

// Errorf builds an error-severity diagnostic at the given span.
func Errorf(code Code, primary source.Span, format string, args ...any) *Error {
	return &Error{Diag: NewError(code, primary, fmt.Sprintf(format, args...))}
}

// WithNote appends a note to the wrapped diagnostic.
func (e *Error) WithNote(sp source.Span, msg string) *Error {
	e.Diag = e.Diag.WithNote(sp, msg)
	return e
}

// AsError extracts the *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
