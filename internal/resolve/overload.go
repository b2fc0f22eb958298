package resolve

import (
	"weft/internal/diag"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/source"
)

// OverloadedFn is an ordered family of compiled callables sharing one
// name. Resolution tries candidates in declaration order and commits to
// the first whose schema binds.
type OverloadedFn struct {
	unsupported
	fns []*CompiledFn
}

func NewOverloadedFn(fns []*CompiledFn) *OverloadedFn {
	return &OverloadedFn{unsupported: unsupported{kind: "function"}, fns: fns}
}

func (v *OverloadedFn) Kind() string {
	if len(v.fns) > 1 {
		return "overloaded function"
	}
	return "function"
}

func (v *OverloadedFn) Call(fn *Fn, at source.Span, args, kwargs []schema.Arg, nresults int) (Resolved, error) {
	return callFirstMatch(fn, at, v.fns, ir.NoValueID, args, kwargs, nresults)
}

// OverloadedMethod is an overloaded method bound to an instance. Candidate
// bodies are compiled under the instance's nominal type name; the receiver
// is prepended before binding.
type OverloadedMethod struct {
	unsupported
	inst  *Instance
	names []string
}

func NewOverloadedMethod(inst *Instance, names []string) *OverloadedMethod {
	return &OverloadedMethod{unsupported: unsupported{kind: "overloaded method"}, inst: inst, names: names}
}

func (v *OverloadedMethod) Kind() string { return "overloaded method" }

func (v *OverloadedMethod) Call(fn *Fn, at source.Span, args, kwargs []schema.Arg, nresults int) (Resolved, error) {
	info, ok := fn.Unit.Types.ClassInfo(v.inst.shape.Type())
	if !ok {
		panic("resolve: overloaded method on an instance without a class type")
	}
	var fns []*CompiledFn
	for _, name := range v.names {
		cands := fn.Unit.FnsByName(info.Name + "." + name)
		if len(cands) == 0 {
			return nil, diag.Errorf(diag.ResAttributeNotFound, at,
				"overload candidate %s.%s is not compiled", info.Name, name)
		}
		fns = append(fns, cands...)
	}
	return callFirstMatch(fn, at, fns, v.inst.self, args, kwargs, nresults)
}

// callFirstMatch binds args against each candidate in order. On failure it
// reports every candidate signature with its rejection reason, in the
// order they were tried.
func callFirstMatch(fn *Fn, at source.Span, fns []*CompiledFn, self ir.ValueID, args, kwargs []schema.Arg, nresults int) (Resolved, error) {
	full := args
	if self != ir.NoValueID {
		full = make([]schema.Arg, 0, len(args)+1)
		full = append(full, schema.Arg{Value: self, Type: fn.IR.ValueType(self), Span: at})
		full = append(full, args...)
	}
	reasons := make([]string, 0, len(fns))
	for _, c := range fns {
		binding, rej := fn.Unit.Matcher.Bind(c.Schema, full, kwargs)
		if rej == nil {
			return emitCompiledCall(fn, at, c, binding, nresults)
		}
		reasons = append(reasons, rej.Reason)
	}
	if len(fns) == 1 {
		err := diag.Errorf(diag.ResSchemaMismatch, at,
			"arguments do not match %s: %s", fns[0].Name, reasons[0])
		return nil, err.WithNote(at, fns[0].Schema.Render(fn.Unit.Types))
	}
	err := diag.Errorf(diag.ResNoMatchingOverload, at,
		"no overload of %s matches the call; tried %d candidate(s)", fns[0].Name, len(fns))
	for i, c := range fns {
		err = err.WithNote(at, c.Schema.Render(fn.Unit.Types)+": "+reasons[i])
	}
	return nil, err
}

// BoolDispatchDecl declares a pair of callables selected by a constant
// boolean flag, before any schema binding happens.
type BoolDispatchDecl struct {
	Name     string
	ArgName  string
	ArgIndex int
	Default  *bool
	IfTrue   *CompiledFn
	IfFalse  *CompiledFn
}

// BoolDispatch selects between two compiled callables on a compile-time
// boolean flag. The flag is consumed by the dispatch and never forwarded;
// dispatch never falls back to the other branch on a failed bind.
type BoolDispatch struct {
	unsupported
	decl *BoolDispatchDecl
}

func NewBoolDispatch(decl *BoolDispatchDecl) *BoolDispatch {
	return &BoolDispatch{unsupported: unsupported{kind: "dispatched function"}, decl: decl}
}

func (v *BoolDispatch) Kind() string { return "dispatched function" }

func (v *BoolDispatch) Call(fn *Fn, at source.Span, args, kwargs []schema.Arg, nresults int) (Resolved, error) {
	d := v.decl
	var flag *bool
	if i := kwargIndex(kwargs, d.ArgName); i >= 0 {
		b, ok := constBool(kwargs[i])
		if !ok {
			return nil, diag.Errorf(diag.ResNoMatchingOverload, at,
				"%s selects an implementation on %q, which must be a compile-time bool", d.Name, d.ArgName)
		}
		kwargs = append(kwargs[:i:i], kwargs[i+1:]...)
		flag = &b
	} else if d.ArgIndex < len(args) {
		b, ok := constBool(args[d.ArgIndex])
		if !ok {
			return nil, diag.Errorf(diag.ResNoMatchingOverload, at,
				"%s selects an implementation on %q, which must be a compile-time bool", d.Name, d.ArgName)
		}
		args = append(args[:d.ArgIndex:d.ArgIndex], args[d.ArgIndex+1:]...)
		flag = &b
	} else if d.Default != nil {
		flag = d.Default
	}
	if flag == nil {
		return nil, diag.Errorf(diag.ResNoMatchingOverload, at,
			"%s requires the %q flag and it has no default", d.Name, d.ArgName)
	}
	target := d.IfFalse
	if *flag {
		target = d.IfTrue
	}
	return callFirstMatch(fn, at, []*CompiledFn{target}, ir.NoValueID, args, kwargs, nresults)
}

func kwargIndex(kwargs []schema.Arg, name string) int {
	for i := range kwargs {
		if kwargs[i].Name == name {
			return i
		}
	}
	return -1
}

func constBool(a schema.Arg) (bool, bool) {
	if a.Const == nil || a.Const.Kind != ir.ConstBool {
		return false, false
	}
	return a.Const.BoolValue, true
}
