package resolve

import (
	"weft/internal/diag"
	"weft/internal/host"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/source"
)

// Opaque wraps a host object this layer has no structural knowledge of.
// Attribute access goes back through the host boundary; calls probe the
// host callable's declared signature and lower to an IR call against it.
type Opaque struct {
	unsupported
	obj  any
	name string

	// self is the receiver prepended to calls when the callable was
	// reached as a function-typed instance attribute.
	self ir.ValueID
}

func NewOpaque(obj any) *Opaque {
	return newOpaque(obj, host.TypeName(obj), ir.NoValueID)
}

func newOpaque(obj any, name string, self ir.ValueID) *Opaque {
	return &Opaque{
		unsupported: unsupported{kind: "host value of type " + host.TypeName(obj)},
		obj:         obj,
		name:        name,
		self:        self,
	}
}

func (o *Opaque) Kind() string {
	return "host value of type " + host.TypeName(o.obj)
}

func (o *Opaque) Call(fn *Fn, at source.Span, args, kwargs []schema.Arg, nresults int) (Resolved, error) {
	callable, ok := host.AsFunc(o.obj)
	if !ok {
		return nil, diag.Errorf(diag.ResUnsupportedOperation, at, "cannot call %s", o.Kind())
	}
	s, err := schema.Probe(fn.Unit.Types, o.name, callable)
	if err != nil {
		return nil, diag.Errorf(diag.ResUnrepresentableValue, at, "%v", err)
	}
	if o.self != ir.NoValueID {
		// The host callable closes over its receiver; the schema gains a
		// receiver slot so the IR call carries self explicitly.
		s.Params = append([]schema.Param{{Name: "self"}}, s.Params...)
	}
	c := &CompiledFn{Name: o.name, Schema: s}
	return callFirstMatch(fn, at, []*CompiledFn{c}, o.self, args, kwargs, nresults)
}

func (o *Opaque) Attr(fn *Fn, at source.Span, name string) (Resolved, error) {
	if ns, isNS := o.obj.(*BuiltinNamespace); isNS && fn.Unit.isBuiltinNamespace(ns.Name) {
		qual := ns.Name + "." + name
		if fam := fn.Unit.FnsByName(qual); len(fam) > 0 {
			return NewOverloadedFn(fam), nil
		}
		return nil, diag.Errorf(diag.ResAttributeNotFound, at,
			"builtin namespace %s has no member %q", ns.Name, name)
	}
	v, ok, err := host.Attr(o.obj, name)
	if err != nil {
		return nil, diag.Errorf(diag.HostAttrError, at,
			"host lookup of %q on %s failed: %v", name, o.Kind(), err)
	}
	if !ok {
		return nil, diag.Errorf(diag.ResAttributeNotFound, at,
			"%s has no attribute %q", o.Kind(), name)
	}
	return ToResolved(fn, at, v, false)
}

func (o *Opaque) AsTuple(fn *Fn, at source.Span, sizeHint int) ([]Resolved, error) {
	elems, ok := host.AsTuple(o.obj)
	if !ok {
		return nil, diag.Errorf(diag.ResUnsupportedOperation, at, "%s cannot be unpacked", o.Kind())
	}
	if sizeHint > 0 && sizeHint != len(elems) {
		return nil, diag.Errorf(diag.ResArityMismatch, at,
			"%s has %d element(s), expected %d", o.Kind(), len(elems), sizeHint)
	}
	out := make([]Resolved, len(elems))
	for i, e := range elems {
		r, err := ToResolved(fn, at, e, false)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (o *Opaque) AsValue(fn *Fn, at source.Span) (ir.ValueID, error) {
	if c, ok := constOf(fn, o.obj); ok {
		return fn.IR.EmitConst(c), nil
	}
	return ir.NoValueID, diag.Errorf(diag.ResUnrepresentableValue, at,
		"%s cannot be used as a value", o.Kind())
}
