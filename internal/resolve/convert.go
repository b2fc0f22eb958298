package resolve

import (
	"weft/internal/diag"
	"weft/internal/host"
	"weft/internal/ir"
	"weft/internal/source"
)

// ToResolved classifies a host object into a Resolved handle. mustBeConst
// demands a compile-time constant interpretation: anything that cannot be
// folded fails instead of falling back to an opaque wrapper.
//
// Classification order: already-resolved handles and raw IR values pass
// through; native constants lower to IR constants; compiled callables and
// dispatch declarations resolve against the unit; structured objects
// become shaped instances; tuple-shaped values become constant tuples;
// everything else stays opaque.
func ToResolved(fn *Fn, at source.Span, obj any, mustBeConst bool) (Resolved, error) {
	switch v := obj.(type) {
	case Resolved:
		return v, nil
	case ir.ValueID:
		return NewSimple(v), nil
	}

	if c, ok := constOf(fn, obj); ok {
		return NewSimple(fn.IR.EmitConst(c)), nil
	}

	switch v := obj.(type) {
	case *CompiledFn:
		// Re-resolve through the unit so sibling registrations under the
		// same name form the overload family.
		if fam := fn.Unit.FnsByName(v.Name); len(fam) > 0 {
			return NewOverloadedFn(fam), nil
		}
		return NewOverloadedFn([]*CompiledFn{v}), nil
	case *BoolDispatchDecl:
		return NewBoolDispatch(v), nil
	case *BuiltinNamespace:
		return newOpaque(v, v.Name, ir.NoValueID), nil
	}

	if class, ok := host.ClassOf(obj); ok {
		return InstanceFor(fn, at, obj, class)
	}

	if elems, ok := host.AsTuple(obj); ok {
		out := make([]Resolved, len(elems))
		for i, e := range elems {
			r, err := ToResolved(fn, at, e, mustBeConst)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return NewConstTuple(out), nil
	}

	if mustBeConst {
		return nil, diag.Errorf(diag.ResUnrepresentableValue, at,
			"%s cannot be folded to a compile-time constant", host.TypeName(obj))
	}
	return NewOpaque(obj), nil
}

// InstanceFor builds (or reuses) the shape for a structured host object
// and wraps it as an Instance with a fresh IR value of the nominal type.
func InstanceFor(fn *Fn, at source.Span, obj any, class host.Class) (*Instance, error) {
	b, err := InferShape(fn.Unit, obj, class)
	if err != nil {
		return nil, diag.Errorf(diag.ResUnrepresentableValue, at,
			"cannot describe instance of %s: %v", class.QualifiedName(), err)
	}
	shape, err := fn.Unit.Shapes.Intern(b)
	if err != nil {
		return nil, diag.Errorf(diag.HostEqualityError, at,
			"deduplicating shape of %s: %v", class.QualifiedName(), err)
	}
	return NewInstance(fn.IR.NewValue(shape.Type()), obj, shape), nil
}

// constOf folds a native host scalar into an IR constant.
func constOf(fn *Fn, obj any) (ir.Const, bool) {
	b := fn.Unit.Types.Builtins()
	switch v := obj.(type) {
	case nil:
		return ir.Const{Kind: ir.ConstNone, Type: b.None}, true
	case bool:
		return ir.Const{Kind: ir.ConstBool, Type: b.Bool, BoolValue: v}, true
	case int:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: int64(v)}, true
	case int8:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: int64(v)}, true
	case int16:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: int64(v)}, true
	case int32:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: int64(v)}, true
	case int64:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: v}, true
	case uint8:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: int64(v)}, true
	case uint16:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: int64(v)}, true
	case uint32:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: int64(v)}, true
	case float32:
		return ir.Const{Kind: ir.ConstFloat, Type: b.Float, FloatValue: float64(v)}, true
	case float64:
		return ir.Const{Kind: ir.ConstFloat, Type: b.Float, FloatValue: v}, true
	case string:
		return ir.Const{Kind: ir.ConstString, Type: b.String, StringValue: v}, true
	}
	return ir.Const{}, false
}
