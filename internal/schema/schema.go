// Package schema models declared parameter lists and binds call arguments
// against them. The resolution layer treats the matcher as a black box:
// it either produces a Binding or a structured Rejection reason.
package schema

import (
	"strings"

	"weft/internal/ir"
	"weft/internal/source"
	"weft/internal/types"
)

// Param is one declared parameter.
type Param struct {
	Name        string
	Type        types.TypeID // NoTypeID accepts any argument type
	HasDefault  bool
	Default     ir.Const
	KeywordOnly bool
}

// Schema is a callable's declared shape.
type Schema struct {
	Name    string
	Params  []Param
	Results []types.TypeID
}

// Render produces a human-readable signature for diagnostics.
func (s Schema) Render(in *types.Interner) string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if p.Type != types.NoTypeID {
			sb.WriteString(": ")
			sb.WriteString(in.String(p.Type))
		}
		if p.HasDefault {
			sb.WriteString(" = _")
		}
	}
	sb.WriteByte(')')
	if len(s.Results) > 0 {
		sb.WriteString(" -> ")
		parts := make([]string, len(s.Results))
		for i, r := range s.Results {
			parts[i] = in.String(r)
		}
		sb.WriteString(strings.Join(parts, ", "))
	}
	return sb.String()
}

// Arg is one call argument, already lowered to an IR value. Name is empty
// for positional arguments.
type Arg struct {
	Name  string
	Value ir.ValueID
	Type  types.TypeID
	Span  source.Span

	// Const carries the compile-time constant the argument was lowered
	// from, when known. The matcher ignores it; constant-flag dispatch
	// reads it.
	Const *ir.Const
}

// BoundArg is the operand selected for one declared parameter.
type BoundArg struct {
	Param       int
	Value       ir.ValueID // NoValueID when UsedDefault
	UsedDefault bool
}

// Binding is a successful match: one operand per declared parameter, in
// declaration order.
type Binding struct {
	Args []BoundArg
}

// Rejection explains why a schema did not bind.
type Rejection struct {
	Reason string
}

// Matcher binds positional and keyword arguments against a schema.
type Matcher interface {
	Bind(s Schema, args []Arg, kwargs []Arg) (Binding, *Rejection)
}
