// Package host is the boundary to the embedder's object system. The
// resolution layer only ever touches host objects through this package:
// attribute lookup, value equality, identity, and class introspection.
// Failures here are propagated to the caller, never swallowed.
package host

import (
	"fmt"
	"reflect"
	"sync"
)

// Class is the identity of a host class. Implementations must be
// comparable: two objects share a class iff their Class values compare
// equal with ==.
type Class interface {
	QualifiedName() string
}

// Attrer lets non-reflective object models serve attribute lookup
// themselves. It is consulted before reflection.
type Attrer interface {
	HostAttr(name string) (any, bool)
}

// Classer lets non-reflective object models declare their class.
type Classer interface {
	HostClass() Class
}

// Equaler lets a host object define (or refuse) value equality against
// another object.
type Equaler interface {
	HostEqual(other any) (bool, error)
}

// goClass wraps a reflect.Type as a Class. Instances are memoized so the
// same Go type always yields the same Class value.
type goClass struct {
	rt reflect.Type
}

func (c *goClass) QualifiedName() string {
	rt := c.rt
	if rt.Name() == "" || rt.PkgPath() == "" {
		return rt.String()
	}
	return rt.PkgPath() + "." + rt.Name()
}

var goClasses sync.Map // reflect.Type -> *goClass

func classForType(rt reflect.Type) Class {
	if cached, ok := goClasses.Load(rt); ok {
		return cached.(*goClass)
	}
	cls := &goClass{rt: rt}
	actual, _ := goClasses.LoadOrStore(rt, cls)
	return actual.(*goClass)
}

// ClassOf returns the class of a structured host object. Plain values
// (numbers, strings, slices, funcs) have no class.
func ClassOf(obj any) (Class, bool) {
	if c, ok := obj.(Classer); ok {
		return c.HostClass(), true
	}
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct {
		return classForType(rv.Type().Elem()), true
	}
	if rv.Kind() == reflect.Struct {
		return classForType(rv.Type()), true
	}
	return nil, false
}

// Attr looks an attribute up by name. The second result reports whether
// the attribute exists; the error reports a failing lookup (as opposed to
// a merely missing attribute).
func Attr(obj any, name string) (val any, ok bool, err error) {
	if a, isAttrer := obj.(Attrer); isAttrer {
		v, found := a.HostAttr(name)
		return v, found, nil
	}
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return nil, false, fmt.Errorf("attribute %q on none", name)
	}
	if m := rv.MethodByName(name); m.IsValid() {
		return m.Interface(), true, nil
	}
	elem := rv
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false, fmt.Errorf("attribute %q on nil %s", name, rv.Type())
		}
		elem = rv.Elem()
	}
	switch elem.Kind() {
	case reflect.Struct:
		f := elem.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			return f.Interface(), true, nil
		}
	case reflect.Map:
		if elem.Type().Key().Kind() == reflect.String {
			v := elem.MapIndex(reflect.ValueOf(name))
			if v.IsValid() {
				return v.Interface(), true, nil
			}
		}
	}
	return nil, false, nil
}

// Equal compares two host values by value. It returns an error instead of
// guessing when the values do not support comparison; callers must
// propagate that error, not treat it as inequality.
func Equal(a, b any) (bool, error) {
	if eq, ok := a.(Equaler); ok {
		return eq.HostEqual(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Func || rb.Kind() == reflect.Func ||
		ra.Kind() == reflect.Chan || rb.Kind() == reflect.Chan {
		return false, fmt.Errorf("host values of kind %s are not comparable", ra.Kind())
	}
	return reflect.DeepEqual(a, b), nil
}

// Same reports identity: whether a and b are the same host object, not
// merely equal values.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch ra.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if rb.Kind() != ra.Kind() {
			return false
		}
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Type() != rb.Type() || !ra.Type().Comparable() {
		return false
	}
	return a == b
}

// TypeName describes the host type of obj for diagnostics.
func TypeName(obj any) string {
	if obj == nil {
		return "none"
	}
	if c, ok := obj.(Classer); ok {
		return c.HostClass().QualifiedName()
	}
	return reflect.TypeOf(obj).String()
}

// AsTuple exposes tuple-shaped host objects (slices and arrays) as an
// ordered element list.
func AsTuple(obj any) ([]any, bool) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsFunc exposes callable host objects.
func AsFunc(obj any) (reflect.Value, bool) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return reflect.Value{}, false
	}
	return rv, true
}
