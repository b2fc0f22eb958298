package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of IR types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNone
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindTuple
	KindFn
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindTuple:
		return "tuple"
	case KindFn:
		return "fn"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor for any supported type. Tuple, fn and class
// kinds keep their structure in side tables addressed by Payload.
type Type struct {
	Kind    Kind
	Elem    TypeID // element type for lists
	Payload uint32 // side-table slot for tuple/fn/class kinds
}

// MakeList describes a homogeneous dynamic sequence of elem.
func MakeList(elem TypeID) Type {
	return Type{Kind: KindList, Elem: elem}
}
