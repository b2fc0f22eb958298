package types

import "strings"

// StructurallyEqual reports whether two types have the same structure.
// Descriptors are deduplicated on interning, so identical IDs dominate;
// the walk handles tuple/fn side tables. Class types are nominal and only
// equal to themselves.
func (in *Interner) StructurallyEqual(a, b TypeID) bool {
	if a == b {
		return true
	}
	ta, oka := in.Lookup(a)
	tb, okb := in.Lookup(b)
	if !oka || !okb || ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindList:
		return in.StructurallyEqual(ta.Elem, tb.Elem)
	case KindTuple:
		ia, _ := in.TupleInfo(a)
		ib, _ := in.TupleInfo(b)
		if ia == nil || ib == nil || len(ia.Elems) != len(ib.Elems) {
			return false
		}
		for i := range ia.Elems {
			if !in.StructurallyEqual(ia.Elems[i], ib.Elems[i]) {
				return false
			}
		}
		return true
	case KindFn:
		fa, _ := in.FnInfo(a)
		fb, _ := in.FnInfo(b)
		if fa == nil || fb == nil || len(fa.Params) != len(fb.Params) {
			return false
		}
		if !in.StructurallyEqual(fa.Result, fb.Result) {
			return false
		}
		for i := range fa.Params {
			if !in.StructurallyEqual(fa.Params[i], fb.Params[i]) {
				return false
			}
		}
		return true
	case KindClass:
		return false // nominal: a != b was already checked
	default:
		// Primitives of the same kind intern to the same ID; reaching here
		// means distinct IDs, i.e. not equal.
		return false
	}
}

// String renders a human-readable type name for diagnostics.
func (in *Interner) String(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "invalid"
	}
	switch tt.Kind {
	case KindList:
		return "[]" + in.String(tt.Elem)
	case KindTuple:
		info, _ := in.TupleInfo(id)
		if info == nil {
			return "tuple"
		}
		parts := make([]string, len(info.Elems))
		for i, e := range info.Elems {
			parts[i] = in.String(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindFn:
		info, _ := in.FnInfo(id)
		if info == nil {
			return "fn"
		}
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = in.String(p)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + in.String(info.Result)
	case KindClass:
		info, _ := in.ClassInfo(id)
		if info == nil {
			return "class"
		}
		return info.Name
	default:
		return tt.Kind.String()
	}
}
