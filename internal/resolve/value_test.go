package resolve

import (
	"strings"
	"testing"

	"weft/internal/diag"
	"weft/internal/host"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/source"
	"weft/internal/types"
)

func errCode(t *testing.T, err error) diag.Code {
	t.Helper()
	de, ok := diag.AsError(err)
	if !ok {
		t.Fatalf("expected a diagnostic error, got %v", err)
	}
	return de.Diag.Code
}

func lastInstr(t *testing.T, fn *Fn) ir.Instr {
	t.Helper()
	instrs := fn.IR.Instrs()
	if len(instrs) == 0 {
		t.Fatalf("no instructions emitted")
	}
	return instrs[len(instrs)-1]
}

func TestInstanceAttrPrecedence(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	cls := &host.RecordClass{
		Name:      "demo.Net",
		Consts:    []string{"depth"},
		State:     []string{"scale"},
		Overloads: []host.OverloadDecl{{Method: "run", Candidates: []string{"run_int", "run_float"}}},
	}
	inner := host.NewRecord(&host.RecordClass{Name: "demo.Inner"}).Set("bias", 0.5)
	rec := netRecordWith(cls, inner)

	inst, err := InstanceFor(fn, source.Span{}, rec, cls)
	if err != nil {
		t.Fatalf("resolving instance: %v", err)
	}

	// Submodules win and carry the live sub-object.
	got, err := inst.Attr(fn, source.Span{}, "inner")
	if err != nil {
		t.Fatalf("submodule attr: %v", err)
	}
	subInst, ok := got.(*Instance)
	if !ok {
		t.Fatalf("submodule must resolve to an instance, got %s", got.Kind())
	}
	if lastInstr(t, fn).Kind != ir.InstrFieldRead {
		t.Fatalf("submodule access must lower to a field read")
	}
	if _, err := subInst.Attr(fn, source.Span{}, "bias"); err != nil {
		t.Fatalf("nested attr: %v", err)
	}

	// Typed attributes read fields.
	if _, err := inst.Attr(fn, source.Span{}, "scale"); err != nil {
		t.Fatalf("attr: %v", err)
	}
	instr := lastInstr(t, fn)
	if instr.Kind != ir.InstrFieldRead || fn.IR.Names().MustLookup(instr.FieldRead.Field) != "scale" {
		t.Fatalf("attribute access must lower to a field read of the name")
	}

	// Constants fold from the shape, not the live object.
	if _, err := inst.Attr(fn, source.Span{}, "depth"); err != nil {
		t.Fatalf("constant attr: %v", err)
	}
	instr = lastInstr(t, fn)
	if instr.Kind != ir.InstrConst || instr.Const.Const.IntValue != 3 {
		t.Fatalf("constant access must lower to its folded value")
	}

	// Function-typed attributes come back self-bound.
	got, err = inst.Attr(fn, source.Span{}, "act")
	if err != nil {
		t.Fatalf("fn attr: %v", err)
	}
	bound, ok := got.(*Opaque)
	if !ok || bound.self == ir.NoValueID {
		t.Fatalf("function attribute must resolve to a bound host callable, got %s", got.Kind())
	}

	// Overload families resolve before host fallback.
	got, err = inst.Attr(fn, source.Span{}, "run")
	if err != nil {
		t.Fatalf("overload attr: %v", err)
	}
	if _, ok := got.(*OverloadedMethod); !ok {
		t.Fatalf("overloaded method expected, got %s", got.Kind())
	}

	// Unknown names fail with the not-found code.
	_, err = inst.Attr(fn, source.Span{}, "missing")
	if errCode(t, err) != diag.ResAttributeNotFound {
		t.Fatalf("unknown attribute must report ResAttributeNotFound, got %v", err)
	}
}

func netRecordWith(cls *host.RecordClass, inner *host.Record) *host.Record {
	return host.NewRecord(cls).
		Set("inner", inner).
		Set("scale", 2.5).
		Set("label", "net").
		Set("depth", 3).
		Set("act", func(x float64) float64 { return x })
}

func TestInstanceSetAttr(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	cls := &host.RecordClass{Name: "demo.Net", Consts: []string{"depth"}, State: []string{"scale"}}
	inner := host.NewRecord(&host.RecordClass{Name: "demo.Inner"}).Set("bias", 0.5)
	inst, err := InstanceFor(fn, source.Span{}, netRecordWith(cls, inner), cls)
	if err != nil {
		t.Fatalf("resolving instance: %v", err)
	}
	val := fn.IR.EmitConst(ir.Const{Kind: ir.ConstFloat, Type: u.Types.Builtins().Float, FloatValue: 9})

	if err := inst.SetAttr(fn, source.Span{}, "scale", val); err != nil {
		t.Fatalf("mutable attribute must accept stores: %v", err)
	}
	if instr := lastInstr(t, fn); instr.Kind != ir.InstrFieldWrite {
		t.Fatalf("store must lower to a field write")
	}
	if err := inst.SetAttr(fn, source.Span{}, "label", val); errCode(t, err) != diag.ResImmutableAttribute {
		t.Fatalf("store into immutable attribute must report ResImmutableAttribute, got %v", err)
	}
	if err := inst.SetAttr(fn, source.Span{}, "depth", val); errCode(t, err) != diag.ResAttributeNotFound {
		t.Fatalf("constants are not assignable attributes, got %v", err)
	}
}

func TestOverloadedMethodResolution(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	cls := &host.RecordClass{
		Name:      "demo.Net",
		Consts:    []string{"depth"},
		State:     []string{"scale"},
		Overloads: []host.OverloadDecl{{Method: "run", Candidates: []string{"run_int", "run_float"}}},
	}
	inner := host.NewRecord(&host.RecordClass{Name: "demo.Inner"}).Set("bias", 0.5)
	inst, err := InstanceFor(fn, source.Span{}, netRecordWith(cls, inner), cls)
	if err != nil {
		t.Fatalf("resolving instance: %v", err)
	}
	b := u.Types.Builtins()
	info, _ := u.Types.ClassInfo(inst.Shape().Type())
	selfT := inst.Shape().Type()
	u.RegisterFn(info.Name+".run_int", schema.Schema{
		Name:    info.Name + ".run_int",
		Params:  []schema.Param{{Name: "self", Type: selfT}, {Name: "x", Type: b.Int}},
		Results: []types.TypeID{b.Int},
	})
	u.RegisterFn(info.Name+".run_float", schema.Schema{
		Name:    info.Name + ".run_float",
		Params:  []schema.Param{{Name: "self", Type: selfT}, {Name: "x", Type: b.Float}},
		Results: []types.TypeID{b.Float},
	})

	run, err := inst.Attr(fn, source.Span{}, "run")
	if err != nil {
		t.Fatalf("resolving run: %v", err)
	}
	x := fn.IR.EmitConst(ir.Const{Kind: ir.ConstFloat, Type: b.Float, FloatValue: 1})
	res, err := run.Call(fn, source.Span{}, []schema.Arg{{Value: x, Type: b.Float}}, nil, 1)
	if err != nil {
		t.Fatalf("overload call: %v", err)
	}
	v, err := res.AsValue(fn, source.Span{})
	if err != nil || fn.IR.ValueType(v) != b.Float {
		t.Fatalf("the float candidate must win for a float argument")
	}
	instrs := fn.IR.Instrs()
	call := instrs[len(instrs)-1]
	if call.Kind != ir.InstrCall || fn.IR.Names().MustLookup(call.Call.Callee.Name) != info.Name+".run_float" {
		t.Fatalf("expected a call to run_float, got %+v", call)
	}

	// No candidate binds: every signature is listed with its reason.
	s := fn.IR.EmitConst(ir.Const{Kind: ir.ConstString, Type: b.String, StringValue: "x"})
	_, err = run.Call(fn, source.Span{}, []schema.Arg{{Value: s, Type: b.String}}, nil, 1)
	if errCode(t, err) != diag.ResNoMatchingOverload {
		t.Fatalf("expected ResNoMatchingOverload, got %v", err)
	}
	de, _ := diag.AsError(err)
	if len(de.Diag.Notes) != 2 {
		t.Fatalf("failure must list every candidate, got %d note(s)", len(de.Diag.Notes))
	}
	if !strings.Contains(de.Diag.Notes[0].Msg, "run_int") || !strings.Contains(de.Diag.Notes[1].Msg, "run_float") {
		t.Fatalf("candidates must be listed in declaration order: %+v", de.Diag.Notes)
	}
}

func TestOverloadDeclarationOrderWins(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	b := u.Types.Builtins()
	mix := func(param, result types.TypeID) schema.Schema {
		return schema.Schema{
			Name:    "demo.mix",
			Params:  []schema.Param{{Name: "x", Type: param}},
			Results: []types.TypeID{result},
		}
	}
	u.RegisterFn("demo.mix", mix(b.Int, b.Int))
	u.RegisterFn("demo.mix", mix(b.Int, b.Float))
	u.RegisterFn("demo.mix", mix(b.String, b.String))
	ov := NewOverloadedFn(u.FnsByName("demo.mix"))

	// The first two candidates both bind an int; declaration order is the
	// tie-break, so the int-result candidate wins.
	x := fn.IR.EmitConst(ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: 1})
	res, err := ov.Call(fn, source.Span{}, []schema.Arg{{Value: x, Type: b.Int}}, nil, 1)
	if err != nil {
		t.Fatalf("int call: %v", err)
	}
	v, err := res.AsValue(fn, source.Span{})
	if err != nil || fn.IR.ValueType(v) != b.Int {
		t.Fatalf("the first declared candidate must win when several bind")
	}

	// Only the third candidate binds a string.
	s := fn.IR.EmitConst(ir.Const{Kind: ir.ConstString, Type: b.String, StringValue: "a"})
	res, err = ov.Call(fn, source.Span{}, []schema.Arg{{Value: s, Type: b.String}}, nil, 1)
	if err != nil {
		t.Fatalf("string call: %v", err)
	}
	v, err = res.AsValue(fn, source.Span{})
	if err != nil || fn.IR.ValueType(v) != b.String {
		t.Fatalf("a later candidate must be reached when the earlier ones reject")
	}

	// Nothing binds a bool: all three candidates are listed, in order.
	bad := fn.IR.EmitConst(ir.Const{Kind: ir.ConstBool, Type: b.Bool, BoolValue: true})
	_, err = ov.Call(fn, source.Span{}, []schema.Arg{{Value: bad, Type: b.Bool}}, nil, 1)
	if errCode(t, err) != diag.ResNoMatchingOverload {
		t.Fatalf("expected ResNoMatchingOverload, got %v", err)
	}
	de, _ := diag.AsError(err)
	if len(de.Diag.Notes) != 3 {
		t.Fatalf("failure must list all candidates, got %d note(s)", len(de.Diag.Notes))
	}
}

func TestInstanceParameterList(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	b := u.Types.Builtins()
	cls := &host.RecordClass{Name: "demo.Net", Consts: []string{"depth"}, State: []string{"scale"}}
	inner := host.NewRecord(&host.RecordClass{Name: "demo.Inner"}).Set("bias", 0.5)
	inst, err := InstanceFor(fn, source.Span{}, netRecordWith(cls, inner), cls)
	if err != nil {
		t.Fatalf("resolving instance: %v", err)
	}

	res, err := inst.Attr(fn, source.Span{}, "parameters")
	if err != nil {
		t.Fatalf("parameters attr: %v", err)
	}
	params, ok := res.(*ParamList)
	if !ok {
		t.Fatalf("parameters must resolve to a parameter list, got %s", res.Kind())
	}
	list := lastInstr(t, fn)
	if list.Kind != ir.InstrMakeList || len(list.MakeList.Elems) != 1 {
		t.Fatalf("only the mutable-state field belongs in the list, got %+v", list)
	}
	listVal, err := params.AsValue(fn, source.Span{})
	if err != nil || fn.IR.ValueType(listVal) != u.Types.Intern(types.MakeList(b.Float)) {
		t.Fatalf("the list must carry the state field's element type")
	}

	// Calling the list ignores its arguments and emits nothing new.
	before := len(fn.IR.Instrs())
	junk := fn.IR.EmitConst(ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: 9})
	got, err := params.Call(fn, source.Span{}, []schema.Arg{{Value: junk, Type: b.Int}}, nil, 0)
	if err != nil {
		t.Fatalf("parameter list call: %v", err)
	}
	again, err := got.AsValue(fn, source.Span{})
	if err != nil || again != listVal {
		t.Fatalf("the call must return the fixed list, not rebuild it")
	}
	if len(fn.IR.Instrs()) != before+1 { // only the junk const
		t.Fatalf("calling the list must not emit instructions")
	}
}

func TestInstanceHostLookupFailures(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	cls := &host.RecordClass{Name: "demo.Net", Consts: []string{"depth"}, State: []string{"scale"}}
	inner := host.NewRecord(&host.RecordClass{Name: "demo.Inner"}).Set("bias", 0.5)
	inst, err := InstanceFor(fn, source.Span{}, netRecordWith(cls, inner), cls)
	if err != nil {
		t.Fatalf("resolving instance: %v", err)
	}
	shape := inst.Shape()

	// A live object that drifted from the shape: lookups succeed but the
	// members are gone.
	stale := NewInstance(fn.IR.NewValue(shape.Type()), host.NewRecord(cls), shape)
	if _, err := stale.Attr(fn, source.Span{}, "inner"); errCode(t, err) != diag.HostAttrError {
		t.Fatalf("missing submodule must report HostAttrError, got %v", err)
	}
	if _, err := stale.Attr(fn, source.Span{}, "act"); errCode(t, err) != diag.HostAttrError {
		t.Fatalf("missing function attribute must report HostAttrError, got %v", err)
	}

	// A lookup that itself fails keeps the boundary error's detail.
	type bare struct{}
	broken := NewInstance(fn.IR.NewValue(shape.Type()), (*bare)(nil), shape)
	_, err = broken.Attr(fn, source.Span{}, "inner")
	if errCode(t, err) != diag.HostAttrError {
		t.Fatalf("failing lookup must report HostAttrError, got %v", err)
	}
	if !strings.Contains(err.Error(), "nil") {
		t.Fatalf("the boundary failure detail must survive: %v", err)
	}
}

func TestForwardCallSugar(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	cls := &host.RecordClass{Name: "demo.Head"}
	rec := host.NewRecord(cls).Set("forward", func(x float64) float64 { return x * 2 })
	inst, err := InstanceFor(fn, source.Span{}, rec, cls)
	if err != nil {
		t.Fatalf("resolving instance: %v", err)
	}
	b := u.Types.Builtins()
	x := fn.IR.EmitConst(ir.Const{Kind: ir.ConstFloat, Type: b.Float, FloatValue: 3})
	res, err := inst.Call(fn, source.Span{}, []schema.Arg{{Value: x, Type: b.Float}}, nil, 1)
	if err != nil {
		t.Fatalf("calling the instance must invoke forward: %v", err)
	}
	if _, err := res.AsValue(fn, source.Span{}); err != nil {
		t.Fatalf("forward result must be a value: %v", err)
	}
	instrs := fn.IR.Instrs()
	call := instrs[len(instrs)-1]
	if call.Kind != ir.InstrCall || !strings.HasSuffix(fn.IR.Names().MustLookup(call.Call.Callee.Name), ".forward") {
		t.Fatalf("expected a call to the forward entry point, got %+v", call)
	}
	if len(call.Call.Args) != 2 {
		t.Fatalf("bound call must carry self plus the argument, got %d operand(s)", len(call.Call.Args))
	}
}

func TestBoolDispatch(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	b := u.Types.Builtins()
	pad := schema.Schema{
		Name:    "demo.pad_circular",
		Params:  []schema.Param{{Name: "x", Type: b.Int}},
		Results: []types.TypeID{b.Int},
	}
	ifTrue := u.RegisterFn("demo.pad_circular", pad)
	padZero := pad
	padZero.Name = "demo.pad_zero"
	ifFalse := u.RegisterFn("demo.pad_zero", padZero)
	d := NewBoolDispatch(&BoolDispatchDecl{
		Name: "demo.pad", ArgName: "circular", ArgIndex: 1,
		IfTrue: ifTrue, IfFalse: ifFalse,
	})

	x := fn.IR.EmitConst(ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: 7})
	flagVal := fn.IR.EmitConst(ir.Const{Kind: ir.ConstBool, Type: b.Bool, BoolValue: true})
	flag := schema.Arg{Name: "circular", Value: flagVal, Type: b.Bool,
		Const: &ir.Const{Kind: ir.ConstBool, Type: b.Bool, BoolValue: true}}

	if _, err := d.Call(fn, source.Span{}, []schema.Arg{{Value: x, Type: b.Int}}, []schema.Arg{flag}, 1); err != nil {
		t.Fatalf("dispatch call: %v", err)
	}
	instrs := fn.IR.Instrs()
	call := instrs[len(instrs)-1]
	if call.Kind != ir.InstrCall || fn.IR.Names().MustLookup(call.Call.Callee.Name) != "demo.pad_circular" {
		t.Fatalf("true flag must select the true branch, got %+v", call)
	}
	if len(call.Call.Args) != 1 {
		t.Fatalf("the flag must be consumed before binding, got %d operand(s)", len(call.Call.Args))
	}

	// No flag and no default: resolution fails, it never guesses a branch.
	_, err := d.Call(fn, source.Span{}, []schema.Arg{{Value: x, Type: b.Int}}, nil, 1)
	if errCode(t, err) != diag.ResNoMatchingOverload {
		t.Fatalf("missing flag without default must report ResNoMatchingOverload, got %v", err)
	}
}

func TestConstTupleRoundTrip(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	b := u.Types.Builtins()

	res, err := ToResolved(fn, source.Span{}, []any{int64(1), "a"}, true)
	if err != nil {
		t.Fatalf("converting tuple: %v", err)
	}
	tup, ok := res.(*ConstTuple)
	if !ok {
		t.Fatalf("slice must convert to a constant tuple, got %s", res.Kind())
	}
	elems, err := tup.AsTuple(fn, source.Span{}, 2)
	if err != nil || len(elems) != 2 {
		t.Fatalf("unpacking: %v", err)
	}
	v, err := elems[0].AsValue(fn, source.Span{})
	if err != nil || fn.IR.ValueType(v) != b.Int {
		t.Fatalf("first element must be an int value")
	}
	if _, err := tup.AsTuple(fn, source.Span{}, 3); errCode(t, err) != diag.ResArityMismatch {
		t.Fatalf("size hint mismatch must report ResArityMismatch, got %v", err)
	}

	method, err := tup.Attr(fn, source.Span{}, "count")
	if err != nil {
		t.Fatalf("tuple accessor: %v", err)
	}
	again, err := method.Call(fn, source.Span{}, nil, nil, 0)
	if err != nil {
		t.Fatalf("zero-arg accessor call: %v", err)
	}
	if _, ok := again.(*ConstTuple); !ok {
		t.Fatalf("accessor must yield a fresh tuple over the same elements")
	}
	extra := schema.Arg{Value: v, Type: b.Int}
	if _, err := method.Call(fn, source.Span{}, []schema.Arg{extra}, nil, 0); errCode(t, err) != diag.ResArityMismatch {
		t.Fatalf("accessor with arguments must report ResArityMismatch, got %v", err)
	}

	if _, err := tup.AsValue(fn, source.Span{}); err != nil {
		t.Fatalf("lowering the tuple: %v", err)
	}
	if instr := lastInstr(t, fn); instr.Kind != ir.InstrMakeTuple {
		t.Fatalf("lowering must emit a tuple construction")
	}
}

func TestBuiltinNamespaceAttr(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	b := u.Types.Builtins()
	ns := u.RegisterBuiltinNamespace("std.math")
	u.RegisterFn("std.math.abs", schema.Schema{
		Name:    "std.math.abs",
		Params:  []schema.Param{{Name: "x", Type: b.Float}},
		Results: []types.TypeID{b.Float},
	})

	res, err := ToResolved(fn, source.Span{}, ns, false)
	if err != nil {
		t.Fatalf("converting namespace: %v", err)
	}
	absFn, err := res.Attr(fn, source.Span{}, "abs")
	if err != nil {
		t.Fatalf("namespace member: %v", err)
	}
	if _, ok := absFn.(*OverloadedFn); !ok {
		t.Fatalf("namespace members resolve to compiled callables, got %s", absFn.Kind())
	}
	_, err = res.Attr(fn, source.Span{}, "nope")
	if errCode(t, err) != diag.ResAttributeNotFound {
		t.Fatalf("unknown namespace member must report ResAttributeNotFound, got %v", err)
	}
}

func TestUnsupportedOperationsAreNamed(t *testing.T) {
	u := NewUnit()
	fn := NewFn(u, "main")
	v := NewSimple(fn.IR.EmitConst(ir.Const{Kind: ir.ConstInt, Type: u.Types.Builtins().Int, IntValue: 1}))

	_, err := v.Call(fn, source.Span{}, nil, nil, 0)
	if errCode(t, err) != diag.ResUnsupportedOperation {
		t.Fatalf("calling a plain value must report ResUnsupportedOperation, got %v", err)
	}
	if !strings.Contains(err.Error(), "value") {
		t.Fatalf("the diagnostic must name the kind: %v", err)
	}
	_, err = ToResolved(fn, source.Span{}, make(chan int), true)
	if errCode(t, err) != diag.ResUnrepresentableValue {
		t.Fatalf("demanding a constant from a channel must report ResUnrepresentableValue, got %v", err)
	}
}
