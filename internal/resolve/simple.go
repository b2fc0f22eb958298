package resolve

import (
	"weft/internal/diag"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/source"
	"weft/internal/types"
)

// Simple wraps a first-class IR value. It is the terminal variant: every
// other variant eventually lowers to one of these or fails.
type Simple struct {
	unsupported
	v ir.ValueID
}

func NewSimple(v ir.ValueID) Simple {
	return Simple{unsupported: unsupported{kind: "value"}, v: v}
}

func (s Simple) Kind() string { return "value" }

func (s Simple) AsValue(_ *Fn, _ source.Span) (ir.ValueID, error) {
	return s.v, nil
}

// ConstTuple is a compile-time tuple whose elements are themselves
// resolved handles. It unpacks without emitting code; lowering to a single
// value emits a tuple construction.
type ConstTuple struct {
	unsupported
	elems []Resolved
}

func NewConstTuple(elems []Resolved) *ConstTuple {
	return &ConstTuple{unsupported: unsupported{kind: "constant tuple"}, elems: elems}
}

func (t *ConstTuple) Kind() string { return "constant tuple" }

func (t *ConstTuple) AsTuple(_ *Fn, at source.Span, sizeHint int) ([]Resolved, error) {
	if sizeHint > 0 && sizeHint != len(t.elems) {
		return nil, diag.Errorf(diag.ResArityMismatch, at,
			"constant tuple has %d element(s), expected %d", len(t.elems), sizeHint)
	}
	return t.elems, nil
}

func (t *ConstTuple) AsValue(fn *Fn, at source.Span) (ir.ValueID, error) {
	vals := make([]ir.ValueID, len(t.elems))
	tys := make([]types.TypeID, len(t.elems))
	for i, e := range t.elems {
		v, err := e.AsValue(fn, at)
		if err != nil {
			return ir.NoValueID, err
		}
		vals[i] = v
		tys[i] = fn.IR.ValueType(v)
	}
	tupleTy := fn.Unit.Types.RegisterTuple(tys)
	return fn.IR.EmitMakeTuple(tupleTy, vals), nil
}

// Attr exposes the zero-argument tuple accessors.
func (t *ConstTuple) Attr(_ *Fn, at source.Span, name string) (Resolved, error) {
	switch name {
	case "count", "index":
		return &TupleMethod{unsupported: unsupported{kind: name}, tuple: t, name: name}, nil
	}
	return nil, diag.Errorf(diag.ResAttributeNotFound, at, "constant tuple has no attribute %q", name)
}

// TupleMethod is a bound zero-argument accessor over a fixed tuple. Calling
// it yields a fresh tuple over the same elements.
type TupleMethod struct {
	unsupported
	tuple *ConstTuple
	name  string
}

func (m *TupleMethod) Kind() string { return m.name }

func (m *TupleMethod) Call(_ *Fn, at source.Span, args, kwargs []schema.Arg, _ int) (Resolved, error) {
	if len(args) != 0 || len(kwargs) != 0 {
		return nil, diag.Errorf(diag.ResArityMismatch, at,
			"%s expects no arguments, got %d", m.name, len(args)+len(kwargs))
	}
	return NewConstTuple(m.tuple.elems), nil
}

// ParamList is a pre-lowered list of values (e.g. a flattened parameter
// list). Calling it ignores all arguments and yields the list itself.
type ParamList struct {
	unsupported
	list ir.ValueID
}

func NewParamList(list ir.ValueID) *ParamList {
	return &ParamList{unsupported: unsupported{kind: "parameter list"}, list: list}
}

func (p *ParamList) Kind() string { return "parameter list" }

func (p *ParamList) Call(_ *Fn, _ source.Span, _, _ []schema.Arg, _ int) (Resolved, error) {
	return NewSimple(p.list), nil
}

func (p *ParamList) AsValue(_ *Fn, _ source.Span) (ir.ValueID, error) {
	return p.list, nil
}
