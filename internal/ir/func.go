package ir

import (
	"fmt"

	"fortio.org/safecast"

	"weft/internal/source"
	"weft/internal/types"
)

// ValueID identifies an SSA-ish value inside one Func.
type ValueID uint32

// NoValueID marks the absence of a value.
const NoValueID ValueID = 0

type valueInfo struct {
	Type types.TypeID
}

// Func is the compiling function this layer appends instructions to.
// Resolution is synchronous and emits straight-line code; control flow is
// the surrounding builder's concern.
type Func struct {
	Name   string
	names  *source.Interner
	instrs []Instr
	vals   []valueInfo
}

func NewFunc(name string) *Func {
	return &Func{
		Name:  name,
		names: source.NewInterner(),
		vals:  make([]valueInfo, 1), // reserve 0 for NoValueID
	}
}

// Names is the interner holding field and callee names referenced by this
// function's instructions.
func (f *Func) Names() *source.Interner {
	return f.names
}

// CalleeByName builds a by-name call target, interning the name.
func (f *Func) CalleeByName(name string) Callee {
	return Callee{Kind: CalleeName, Name: f.names.Intern(name)}
}

// NewValue allocates a fresh value of the given type.
func (f *Func) NewValue(ty types.TypeID) ValueID {
	lenVals, err := safecast.Conv[uint32](len(f.vals))
	if err != nil {
		panic(fmt.Errorf("len(vals) overflow: %w", err))
	}
	id := ValueID(lenVals)
	f.vals = append(f.vals, valueInfo{Type: ty})
	return id
}

// ValueType returns the declared type of v.
func (f *Func) ValueType(v ValueID) types.TypeID {
	if v == NoValueID || int(v) >= len(f.vals) {
		return types.NoTypeID
	}
	return f.vals[v].Type
}

// Instrs returns the emitted instructions; callers must not modify it.
func (f *Func) Instrs() []Instr {
	return f.instrs
}

// EmitConst materializes a constant and returns its value.
func (f *Func) EmitConst(c Const) ValueID {
	dst := f.NewValue(c.Type)
	f.instrs = append(f.instrs, Instr{Kind: InstrConst, Const: ConstInstr{Dst: dst, Const: c}})
	return dst
}

// EmitFieldRead reads object.field, yielding a value of ty.
func (f *Func) EmitFieldRead(object ValueID, field string, ty types.TypeID) ValueID {
	dst := f.NewValue(ty)
	f.instrs = append(f.instrs, Instr{Kind: InstrFieldRead, FieldRead: FieldReadInstr{
		Dst:    dst,
		Object: object,
		Field:  f.names.Intern(field),
	}})
	return dst
}

// EmitFieldWrite stores value into object.field. Field writes bind no result.
func (f *Func) EmitFieldWrite(object ValueID, field string, value ValueID) {
	f.instrs = append(f.instrs, Instr{Kind: InstrFieldWrite, FieldWrite: FieldWriteInstr{
		Object: object,
		Field:  f.names.Intern(field),
		Value:  value,
	}})
}

// EmitCall invokes callee with args and binds one fresh value per entry in
// results.
func (f *Func) EmitCall(callee Callee, args []ValueID, results []types.TypeID) []ValueID {
	dsts := make([]ValueID, len(results))
	for i, ty := range results {
		dsts[i] = f.NewValue(ty)
	}
	f.instrs = append(f.instrs, Instr{Kind: InstrCall, Call: CallInstr{
		Callee: callee,
		Args:   args,
		Dsts:   dsts,
	}})
	return dsts
}

// EmitMakeList builds a list value of listTy from elems.
func (f *Func) EmitMakeList(listTy types.TypeID, elems []ValueID) ValueID {
	dst := f.NewValue(listTy)
	f.instrs = append(f.instrs, Instr{Kind: InstrMakeList, MakeList: MakeListInstr{Dst: dst, Elems: elems}})
	return dst
}

// EmitMakeTuple builds a tuple value of tupleTy from elems.
func (f *Func) EmitMakeTuple(tupleTy types.TypeID, elems []ValueID) ValueID {
	dst := f.NewValue(tupleTy)
	f.instrs = append(f.instrs, Instr{Kind: InstrMakeTuple, MakeTuple: MakeTupleInstr{Dst: dst, Elems: elems}})
	return dst
}
