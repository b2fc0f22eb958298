// Package resolve is the value-resolution layer of the compiler: it
// classifies host objects into Resolved values, deduplicates structured
// instance shapes into nominal IR types, and lowers attribute access and
// calls into IR instructions.
package resolve

import (
	"weft/internal/diag"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/source"
)

// Resolved is a compile-time handle for something usable in source code
// that is not necessarily a first-class IR value yet. Every variant
// supports Kind (used in diagnostics); the remaining operations default to
// a named "unsupported for this kind" diagnostic.
type Resolved interface {
	Kind() string

	// Call invokes the value. nresults is the caller's result-binding
	// arity hint; 0 means no expectation.
	Call(fn *Fn, at source.Span, args, kwargs []schema.Arg, nresults int) (Resolved, error)

	// Attr selects a named attribute.
	Attr(fn *Fn, at source.Span, name string) (Resolved, error)

	// SetAttr stores into a named attribute.
	SetAttr(fn *Fn, at source.Span, name string, value ir.ValueID) error

	// AsValue lowers the handle to a first-class IR value.
	AsValue(fn *Fn, at source.Span) (ir.ValueID, error)

	// AsTuple exposes the handle as an ordered sequence of handles.
	AsTuple(fn *Fn, at source.Span, sizeHint int) ([]Resolved, error)
}

// unsupported implements every operation as a named diagnostic. Variants
// embed it and override what they actually support.
type unsupported struct {
	kind string
}

func (u unsupported) Kind() string {
	return u.kind
}

func (u unsupported) Call(_ *Fn, at source.Span, _, _ []schema.Arg, _ int) (Resolved, error) {
	return nil, diag.Errorf(diag.ResUnsupportedOperation, at, "cannot call a value of kind %s", u.kind)
}

func (u unsupported) Attr(_ *Fn, at source.Span, name string) (Resolved, error) {
	return nil, diag.Errorf(diag.ResUnsupportedOperation, at, "value of kind %s has no attribute %q", u.kind, name)
}

func (u unsupported) SetAttr(_ *Fn, at source.Span, name string, _ ir.ValueID) error {
	return diag.Errorf(diag.ResUnsupportedOperation, at, "cannot assign attribute %q on a value of kind %s", name, u.kind)
}

func (u unsupported) AsValue(_ *Fn, at source.Span) (ir.ValueID, error) {
	return ir.NoValueID, diag.Errorf(diag.ResUnsupportedOperation, at, "value of kind %s cannot be used as a value", u.kind)
}

func (u unsupported) AsTuple(_ *Fn, at source.Span, _ int) ([]Resolved, error) {
	return nil, diag.Errorf(diag.ResUnsupportedOperation, at, "value of kind %s cannot be unpacked", u.kind)
}
