package ir

import (
	"weft/internal/source"
	"weft/internal/types"
)

// InstrKind enumerates instruction kinds this layer can emit.
type InstrKind uint8

const (
	// InstrConst materializes a constant.
	InstrConst InstrKind = iota
	// InstrFieldRead reads a named field off a class-typed value.
	InstrFieldRead
	// InstrFieldWrite stores into a named field of a class-typed value.
	InstrFieldWrite
	// InstrCall invokes a callee with an explicit result arity.
	InstrCall
	// InstrMakeList builds a homogeneous list from elements.
	InstrMakeList
	// InstrMakeTuple builds a tuple from elements.
	InstrMakeTuple
)

// Instr is a tagged-variant instruction; Kind selects the payload.
type Instr struct {
	Kind InstrKind

	Const      ConstInstr
	FieldRead  FieldReadInstr
	FieldWrite FieldWriteInstr
	Call       CallInstr
	MakeList   MakeListInstr
	MakeTuple  MakeTupleInstr
}

// ConstInstr materializes a constant into Dst.
type ConstInstr struct {
	Dst   ValueID
	Const Const
}

// FieldReadInstr reads Object.Field into Dst. Field is interned in the
// owning Func's name table.
type FieldReadInstr struct {
	Dst    ValueID
	Object ValueID
	Field  source.StringID
}

// FieldWriteInstr stores Value into Object.Field.
type FieldWriteInstr struct {
	Object ValueID
	Field  source.StringID
	Value  ValueID
}

// CalleeKind distinguishes call target forms.
type CalleeKind uint8

const (
	// CalleeName targets a function by qualified name.
	CalleeName CalleeKind = iota
	// CalleeValue targets a first-class callable value.
	CalleeValue
)

// Callee is a call target. Name is interned in the owning Func's name
// table when Kind is CalleeName.
type Callee struct {
	Kind  CalleeKind
	Name  source.StringID
	Value ValueID
}

// CallInstr invokes Callee with Args; Dsts holds one binding per declared
// result.
type CallInstr struct {
	Callee Callee
	Args   []ValueID
	Dsts   []ValueID
}

// MakeListInstr builds a list value from Elems, in order.
type MakeListInstr struct {
	Dst   ValueID
	Elems []ValueID
}

// MakeTupleInstr builds a tuple value from Elems, in order.
type MakeTupleInstr struct {
	Dst   ValueID
	Elems []ValueID
}

// ConstKind distinguishes constant kinds.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstBool
	ConstInt
	ConstFloat
	ConstString
)

// Const is a typed compile-time constant.
type Const struct {
	Kind ConstKind
	Type types.TypeID

	IntValue    int64
	FloatValue  float64
	BoolValue   bool
	StringValue string
}
