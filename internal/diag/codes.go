package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind.
type Code uint16

const (
	UnknownCode Code = 0

	// Value resolution (1000-1999). These are the expected outcomes of
	// invalid input programs; they never indicate a compiler defect.
	ResInfo                 Code = 1000
	ResUnrepresentableValue Code = 1001
	ResSchemaMismatch       Code = 1002
	ResArityMismatch        Code = 1003
	ResAttributeNotFound    Code = 1004
	ResImmutableAttribute   Code = 1005
	ResNoMatchingOverload   Code = 1006
	ResUnsupportedOperation Code = 1007

	// Host boundary failures (2000-2999): the host object system raised
	// during attribute lookup or value comparison. Propagated, never
	// swallowed.
	HostAttrError     Code = 2001
	HostEqualityError Code = 2002

	// I/O (4000-4999).
	IOLoadFileError Code = 4001
	IOBadFixture    Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	ResInfo:                 "Resolution information",
	ResUnrepresentableValue: "Value cannot be represented in the IR",
	ResSchemaMismatch:       "Arguments do not match the callable's schema",
	ResArityMismatch:        "Wrong number of arguments",
	ResAttributeNotFound:    "Attribute not found",
	ResImmutableAttribute:   "Attribute is not mutable",
	ResNoMatchingOverload:   "No matching overload",
	ResUnsupportedOperation: "Operation not supported for this kind of value",
	HostAttrError:           "Host attribute lookup failed",
	HostEqualityError:       "Host value comparison failed",
	IOLoadFileError:         "I/O load file error",
	IOBadFixture:            "Malformed fixture file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("HOST%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
