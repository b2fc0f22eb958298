package resolve

import (
	"fmt"
	"reflect"

	"weft/internal/host"
	"weft/internal/schema"
	"weft/internal/types"
)

// Overloader lets a host type declare overloaded methods for shape
// inference. Declarations are ordered; order is the resolution order.
type Overloader interface {
	Overloads() []host.OverloadDecl
}

// InferShape builds a shape description of a live host object. Records
// infer from their class declarations and attribute insertion order;
// plain Go structs infer from exported fields, guided by `weft` tags:
//
//	weft:"const"  fold the field as a compile-time constant
//	weft:"state"  register the field as externally-mutable state
//	weft:"-"      skip the field
//
// Members that cannot be represented are recorded as failed attributes
// with the reason, not dropped silently.
func InferShape(u *Unit, obj any, class host.Class) (*ShapeBuilder, error) {
	b := NewShapeBuilder(u.Types, class)
	var err error
	if r, ok := obj.(*host.Record); ok {
		err = inferRecord(u, b, r)
	} else {
		err = inferStruct(u, b, obj)
	}
	if err != nil {
		return nil, err
	}
	if o, ok := obj.(Overloader); ok {
		for _, d := range o.Overloads() {
			b.AddOverload(d.Method, d.Candidates)
		}
	}
	return b, nil
}

func inferRecord(u *Unit, b *ShapeBuilder, r *host.Record) error {
	for _, name := range r.AttrNames() {
		v, _ := r.HostAttr(name)
		switch {
		case r.Cls.IsConst(name):
			b.AddConstant(name, v)
		default:
			if err := inferMember(u, b, name, v, r.Cls.IsState(name)); err != nil {
				return err
			}
		}
	}
	for _, d := range r.Cls.Overloads {
		b.AddOverload(d.Method, d.Candidates)
	}
	return nil
}

func inferStruct(u *Unit, b *ShapeBuilder, obj any) error {
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("nil instance")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%s is not a structured object", rv.Type())
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("weft")
		if tag == "-" {
			continue
		}
		v := rv.Field(i).Interface()
		if tag == "const" {
			b.AddConstant(f.Name, v)
			continue
		}
		if err := inferMember(u, b, f.Name, v, tag == "state"); err != nil {
			return err
		}
	}
	return nil
}

// inferMember classifies one attribute value: nested instances become
// submodules, callables become function attributes, representable data
// becomes a typed attribute, and the rest is recorded as failed.
func inferMember(u *Unit, b *ShapeBuilder, name string, v any, mutable bool) error {
	if v == nil {
		b.AddFailedAttribute(name, "attribute is none")
		return nil
	}
	if class, ok := host.ClassOf(v); ok {
		subBuilder, err := InferShape(u, v, class)
		if err != nil {
			return fmt.Errorf("submodule %q: %w", name, err)
		}
		sub, err := u.Shapes.Intern(subBuilder)
		if err != nil {
			return fmt.Errorf("submodule %q: %w", name, err)
		}
		b.AddModule(name, sub)
		return nil
	}
	if callable, ok := host.AsFunc(v); ok {
		s, err := schema.Probe(u.Types, name, callable)
		if err != nil {
			b.AddFailedAttribute(name, err.Error())
			return nil
		}
		b.AddAttribute(name, fnType(u.Types, s), mutable)
		return nil
	}
	if ty, ok := schema.GoType(u.Types, reflect.TypeOf(v)); ok {
		b.AddAttribute(name, ty, mutable)
		return nil
	}
	b.AddFailedAttribute(name, fmt.Sprintf("value of host type %s is not representable", host.TypeName(v)))
	return nil
}

// fnType registers the function type of a probed schema. Multi-result
// callables register a tuple result.
func fnType(in *types.Interner, s schema.Schema) types.TypeID {
	params := make([]types.TypeID, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Type
	}
	var result types.TypeID
	switch len(s.Results) {
	case 0:
		result = in.Builtins().None
	case 1:
		result = s.Results[0]
	default:
		result = in.RegisterTuple(s.Results)
	}
	return in.RegisterFn(params, result)
}
