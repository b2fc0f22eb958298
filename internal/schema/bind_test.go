package schema

import (
	"reflect"
	"strings"
	"testing"

	"weft/internal/ir"
	"weft/internal/types"
)

func testSchema(in *types.Interner) Schema {
	b := in.Builtins()
	return Schema{
		Name: "demo.scale",
		Params: []Param{
			{Name: "x", Type: b.Float},
			{Name: "factor", Type: b.Float, HasDefault: true,
				Default: ir.Const{Kind: ir.ConstFloat, Type: b.Float, FloatValue: 1}},
			{Name: "clamp", Type: b.Bool, KeywordOnly: true, HasDefault: true,
				Default: ir.Const{Kind: ir.ConstBool, Type: b.Bool}},
		},
		Results: []types.TypeID{b.Float},
	}
}

func TestBindPositionalAndDefaults(t *testing.T) {
	in := types.NewInterner()
	m := NewMatcher(in)
	s := testSchema(in)
	binding, rej := m.Bind(s, []Arg{{Value: 1, Type: in.Builtins().Float}}, nil)
	if rej != nil {
		t.Fatalf("bind rejected: %s", rej.Reason)
	}
	if len(binding.Args) != 3 {
		t.Fatalf("expected one operand per parameter")
	}
	if !binding.Args[1].UsedDefault || !binding.Args[2].UsedDefault {
		t.Fatalf("omitted parameters must fall back to defaults")
	}
}

func TestBindKeywordOnly(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	m := NewMatcher(in)
	s := testSchema(in)
	// clamp is keyword-only: a third positional must be rejected.
	_, rej := m.Bind(s, []Arg{
		{Value: 1, Type: b.Float}, {Value: 2, Type: b.Float}, {Value: 3, Type: b.Bool},
	}, nil)
	if rej == nil {
		t.Fatalf("positional bind into a keyword-only slot must be rejected")
	}
	binding, rej := m.Bind(s,
		[]Arg{{Value: 1, Type: b.Float}},
		[]Arg{{Name: "clamp", Value: 2, Type: b.Bool}})
	if rej != nil {
		t.Fatalf("keyword bind rejected: %s", rej.Reason)
	}
	if binding.Args[2].UsedDefault || binding.Args[2].Value != 2 {
		t.Fatalf("keyword argument must win over the default")
	}
}

func TestBindRejections(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	m := NewMatcher(in)
	s := testSchema(in)

	if _, rej := m.Bind(s, nil, nil); rej == nil || !strings.Contains(rej.Reason, `missing argument "x"`) {
		t.Fatalf("missing required argument must name the parameter: %+v", rej)
	}
	if _, rej := m.Bind(s, []Arg{{Value: 1, Type: b.String}}, nil); rej == nil || !strings.Contains(rej.Reason, "expects float") {
		t.Fatalf("type mismatch must name both types: %+v", rej)
	}
	if _, rej := m.Bind(s, []Arg{{Value: 1, Type: b.Float}}, []Arg{{Name: "nope", Value: 2, Type: b.Float}}); rej == nil ||
		!strings.Contains(rej.Reason, "unknown keyword") {
		t.Fatalf("unknown keyword must be rejected: %+v", rej)
	}
	if _, rej := m.Bind(s,
		[]Arg{{Value: 1, Type: b.Float}, {Value: 2, Type: b.Float}},
		[]Arg{{Name: "factor", Value: 3, Type: b.Float}}); rej == nil ||
		!strings.Contains(rej.Reason, "twice") {
		t.Fatalf("double assignment must be rejected: %+v", rej)
	}
}

func TestProbeGoCallable(t *testing.T) {
	in := types.NewInterner()
	fn := reflect.ValueOf(func(x float64, n int64) (float64, bool) { return x, true })
	s, err := Probe(in, "demo.scale", fn)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	b := in.Builtins()
	if len(s.Params) != 2 || s.Params[0].Type != b.Float || s.Params[1].Type != b.Int {
		t.Fatalf("unexpected params: %+v", s.Params)
	}
	if len(s.Results) != 2 || s.Results[1] != b.Bool {
		t.Fatalf("unexpected results: %+v", s.Results)
	}
	if _, err := Probe(in, "bad", reflect.ValueOf(func(ch chan int) {})); err == nil {
		t.Fatalf("unrepresentable parameter types must fail the probe")
	}
}

func TestRender(t *testing.T) {
	in := types.NewInterner()
	s := testSchema(in)
	got := s.Render(in)
	if !strings.Contains(got, "demo.scale(x: float, factor: float = _, clamp: bool = _)") {
		t.Fatalf("unexpected rendering: %q", got)
	}
}
