package schema

import (
	"fmt"

	"weft/internal/ir"
	"weft/internal/types"
)

// DefaultMatcher is the standard positional/keyword binder.
type DefaultMatcher struct {
	Types *types.Interner
}

func NewMatcher(in *types.Interner) *DefaultMatcher {
	return &DefaultMatcher{Types: in}
}

// Bind assigns positional arguments to parameters in declaration order,
// then keyword arguments by name, then defaults. It rejects on the first
// mismatch with a reason naming the parameter.
func (m *DefaultMatcher) Bind(s Schema, args []Arg, kwargs []Arg) (Binding, *Rejection) {
	bound := make([]BoundArg, len(s.Params))
	filled := make([]bool, len(s.Params))

	pos := 0
	for i := range s.Params {
		if s.Params[i].KeywordOnly {
			break
		}
		if pos >= len(args) {
			break
		}
		if rej := m.checkType(s, i, args[pos].Type); rej != nil {
			return Binding{}, rej
		}
		bound[i] = BoundArg{Param: i, Value: args[pos].Value}
		filled[i] = true
		pos++
	}
	if pos < len(args) {
		return Binding{}, &Rejection{Reason: fmt.Sprintf(
			"expected at most %d positional argument(s), got %d", pos, len(args))}
	}

	for _, kw := range kwargs {
		idx := -1
		for i := range s.Params {
			if s.Params[i].Name == kw.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return Binding{}, &Rejection{Reason: fmt.Sprintf("unknown keyword argument %q", kw.Name)}
		}
		if filled[idx] {
			return Binding{}, &Rejection{Reason: fmt.Sprintf("argument %q given twice", kw.Name)}
		}
		if rej := m.checkType(s, idx, kw.Type); rej != nil {
			return Binding{}, rej
		}
		bound[idx] = BoundArg{Param: idx, Value: kw.Value}
		filled[idx] = true
	}

	for i := range s.Params {
		if filled[i] {
			continue
		}
		if !s.Params[i].HasDefault {
			return Binding{}, &Rejection{Reason: fmt.Sprintf("missing argument %q", s.Params[i].Name)}
		}
		bound[i] = BoundArg{Param: i, Value: ir.NoValueID, UsedDefault: true}
	}

	return Binding{Args: bound}, nil
}

func (m *DefaultMatcher) checkType(s Schema, param int, got types.TypeID) *Rejection {
	want := s.Params[param].Type
	if want == types.NoTypeID || got == types.NoTypeID {
		return nil
	}
	if m.Types.StructurallyEqual(want, got) {
		return nil
	}
	return &Rejection{Reason: fmt.Sprintf(
		"argument %q expects %s, got %s",
		s.Params[param].Name, m.Types.String(want), m.Types.String(got))}
}
