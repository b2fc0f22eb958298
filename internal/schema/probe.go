package schema

import (
	"fmt"
	"reflect"

	"weft/internal/types"
)

// GoType maps a Go type onto an IR type. The mapping is deliberately
// narrow: only types this layer can lower as constants or containers.
func GoType(in *types.Interner, rt reflect.Type) (types.TypeID, bool) {
	b := in.Builtins()
	switch rt.Kind() {
	case reflect.Bool:
		return b.Bool, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return b.Int, true
	case reflect.Float32, reflect.Float64:
		return b.Float, true
	case reflect.String:
		return b.String, true
	case reflect.Slice, reflect.Array:
		elem, ok := GoType(in, rt.Elem())
		if !ok {
			return types.NoTypeID, false
		}
		return in.Intern(types.MakeList(elem)), true
	default:
		return types.NoTypeID, false
	}
}

// Probe derives a schema from a host callable's declared parameter and
// return shape. Parameters are positional and unnamed at the host level,
// so they are named arg0..argN.
func Probe(in *types.Interner, name string, fn reflect.Value) (Schema, error) {
	if fn.Kind() != reflect.Func {
		return Schema{}, fmt.Errorf("%s is not callable", name)
	}
	ft := fn.Type()
	if ft.IsVariadic() {
		return Schema{}, fmt.Errorf("%s: variadic host callables are not supported", name)
	}
	s := Schema{Name: name}
	for i := 0; i < ft.NumIn(); i++ {
		ty, ok := GoType(in, ft.In(i))
		if !ok {
			return Schema{}, fmt.Errorf("%s: parameter %d has unrepresentable type %s", name, i, ft.In(i))
		}
		s.Params = append(s.Params, Param{Name: fmt.Sprintf("arg%d", i), Type: ty})
	}
	for i := 0; i < ft.NumOut(); i++ {
		ty, ok := GoType(in, ft.Out(i))
		if !ok {
			return Schema{}, fmt.Errorf("%s: result %d has unrepresentable type %s", name, i, ft.Out(i))
		}
		s.Results = append(s.Results, ty)
	}
	return s, nil
}
