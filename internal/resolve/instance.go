package resolve

import (
	"weft/internal/diag"
	"weft/internal/host"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/source"
	"weft/internal/types"
)

// Instance is a structured host object resolved against its shape. It
// pairs the live host object (for constant folding and fallback lookup)
// with the IR value carrying the instance at runtime.
type Instance struct {
	unsupported
	self  ir.ValueID
	obj   any
	shape *Shape
}

func NewInstance(self ir.ValueID, obj any, shape *Shape) *Instance {
	return &Instance{unsupported: unsupported{kind: "instance"}, self: self, obj: obj, shape: shape}
}

func (v *Instance) Kind() string { return "instance of " + v.shape.class.QualifiedName() }

// Shape returns the frozen structural description of the instance.
func (v *Instance) Shape() *Shape { return v.shape }

// Attr resolves a name against the shape, in fixed precedence order:
// submodule, typed attribute, constant, function-typed attribute, overload
// family, the parameters accessor, then live host fallback.
func (v *Instance) Attr(fn *Fn, at source.Span, name string) (Resolved, error) {
	if sub, ok := v.shape.FindSubmodule(name); ok {
		liveSub, found, err := host.Attr(v.obj, name)
		if err != nil {
			return nil, diag.Errorf(diag.HostAttrError, at,
				"host lookup of submodule %q on %s failed: %v", name, v.Kind(), err)
		}
		if !found {
			return nil, diag.Errorf(diag.HostAttrError, at,
				"submodule %q of %s is missing on the live instance", name, v.Kind())
		}
		self := fn.IR.EmitFieldRead(v.self, name, sub.Type())
		return NewInstance(self, liveSub, sub), nil
	}
	if a, ok := v.shape.FindAttr(name); ok {
		return NewSimple(fn.IR.EmitFieldRead(v.self, name, a.Type)), nil
	}
	if c, ok := v.shape.FindConstant(name); ok {
		// Constants lower from the shape, independent of the live object.
		return ToResolved(fn, at, c, true)
	}
	if _, ok := v.shape.FnAttr(name); ok {
		callable, found, err := host.Attr(v.obj, name)
		if err != nil {
			return nil, diag.Errorf(diag.HostAttrError, at,
				"host lookup of function attribute %q on %s failed: %v", name, v.Kind(), err)
		}
		if !found {
			return nil, diag.Errorf(diag.HostAttrError, at,
				"function attribute %q of %s is missing on the live instance", name, v.Kind())
		}
		qual := v.shape.class.QualifiedName() + "." + name
		return newOpaque(callable, qual, v.self), nil
	}
	if names, ok := v.shape.Overloads(name); ok {
		return NewOverloadedMethod(v, names), nil
	}
	if name == "parameters" {
		return v.parameterList(fn), nil
	}
	val, found, err := host.Attr(v.obj, name)
	if err != nil {
		return nil, diag.Errorf(diag.HostAttrError, at,
			"host lookup of %q on %s failed: %v", name, v.Kind(), err)
	}
	if !found {
		derr := diag.Errorf(diag.ResAttributeNotFound, at,
			"%s has no attribute %q", v.Kind(), name)
		if reason, failed := v.shape.FailedReason(name); failed {
			derr = derr.WithNote(at, "the attribute exists on the host object but was not captured: "+reason)
		}
		return nil, derr
	}
	return ToResolved(fn, at, val, false)
}

// parameterList flattens the shape's mutable-state fields into one fixed
// list value, materialized once here. Calling the result ignores its
// arguments and yields this same list.
func (v *Instance) parameterList(fn *Fn) *ParamList {
	state := v.shape.StateAttrs()
	elems := make([]ir.ValueID, len(state))
	elemTy := types.NoTypeID
	for i, a := range state {
		elems[i] = fn.IR.EmitFieldRead(v.self, a.Name, a.Type)
		switch {
		case i == 0:
			elemTy = a.Type
		case !fn.Unit.Types.StructurallyEqual(elemTy, a.Type):
			elemTy = types.NoTypeID
		}
	}
	listTy := fn.Unit.Types.Intern(types.MakeList(elemTy))
	return NewParamList(fn.IR.EmitMakeList(listTy, elems))
}

// Call is sugar for invoking the instance's forward entry point.
func (v *Instance) Call(fn *Fn, at source.Span, args, kwargs []schema.Arg, nresults int) (Resolved, error) {
	forward, err := v.Attr(fn, at, "forward")
	if err != nil {
		return nil, err
	}
	return forward.Call(fn, at, args, kwargs, nresults)
}

// SetAttr permits stores only into attributes registered as mutable state.
func (v *Instance) SetAttr(fn *Fn, at source.Span, name string, value ir.ValueID) error {
	a, ok := v.shape.FindAttr(name)
	if !ok {
		return diag.Errorf(diag.ResAttributeNotFound, at,
			"%s has no assignable attribute %q", v.Kind(), name)
	}
	if !a.Mutable {
		return diag.Errorf(diag.ResImmutableAttribute, at,
			"attribute %q of %s is not mutable", name, v.Kind())
	}
	fn.IR.EmitFieldWrite(v.self, name, value)
	return nil
}

func (v *Instance) AsValue(_ *Fn, _ source.Span) (ir.ValueID, error) {
	return v.self, nil
}

var _ Resolved = (*Instance)(nil)
var _ Resolved = (*Opaque)(nil)
var _ Resolved = (*OverloadedFn)(nil)
var _ Resolved = (*OverloadedMethod)(nil)
var _ Resolved = (*BoolDispatch)(nil)
var _ Resolved = Simple{}
var _ Resolved = (*ConstTuple)(nil)
var _ Resolved = (*TupleMethod)(nil)
var _ Resolved = (*ParamList)(nil)
