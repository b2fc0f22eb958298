package resolve

import (
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/types"
)

// Unit is the compilation-unit context threaded through every resolution
// entry point: the type interner, the schema matcher, the shape cache and
// the table of compiled callables. There is deliberately no process-wide
// state; two Units never share types.
type Unit struct {
	Types   *types.Interner
	Matcher schema.Matcher
	Shapes  *ShapeCache

	// fns maps a qualified name to its compiled overloads, in
	// registration order. Registration order is the resolution tie-break
	// order.
	fns map[string][]*CompiledFn

	// builtins names the namespaces whose attributes resolve through fns
	// instead of generic host lookup.
	builtins map[string]bool
}

func NewUnit() *Unit {
	in := types.NewInterner()
	return &Unit{
		Types:    in,
		Matcher:  schema.NewMatcher(in),
		Shapes:   NewShapeCache(),
		fns:      make(map[string][]*CompiledFn),
		builtins: make(map[string]bool),
	}
}

// RegisterFn records a compiled callable under its qualified name. Several
// registrations under one name form an overload family in declaration
// order.
func (u *Unit) RegisterFn(name string, s schema.Schema) *CompiledFn {
	fn := &CompiledFn{Name: name, Schema: s}
	u.fns[name] = append(u.fns[name], fn)
	return fn
}

// FnsByName returns the compiled overload family for a qualified name.
func (u *Unit) FnsByName(name string) []*CompiledFn {
	return u.fns[name]
}

// RegisterBuiltinNamespace marks a namespace (e.g. "std.math") as builtin:
// attribute access on its namespace object resolves against registered
// compiled callables, bypassing host reflection.
func (u *Unit) RegisterBuiltinNamespace(name string) *BuiltinNamespace {
	u.builtins[name] = true
	return &BuiltinNamespace{Name: name}
}

func (u *Unit) isBuiltinNamespace(name string) bool {
	return u.builtins[name]
}

// Fn is the compiling-function context passed to every Resolved operation.
type Fn struct {
	Unit *Unit
	IR   *ir.Func
}

func NewFn(u *Unit, name string) *Fn {
	return &Fn{Unit: u, IR: ir.NewFunc(name)}
}

// BuiltinNamespace is the host-side object representing a builtin module.
type BuiltinNamespace struct {
	Name string
}
