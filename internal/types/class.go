package types

import (
	"fmt"

	"fortio.org/safecast"
)

// ClassField describes a single field on a nominal class type. Mutable
// fields are externally-mutable instance state; the rest are fixed at
// construction.
type ClassField struct {
	Name    string
	Type    TypeID
	Mutable bool
}

// ClassInfo stores metadata for a nominal class type. Field order is
// registration order and is IR-visible.
type ClassInfo struct {
	Name   string // qualified, unique within the interner
	Fields []ClassField
}

// ClassByName returns the class TypeID registered under the qualified name.
func (in *Interner) ClassByName(name string) (TypeID, bool) {
	id, ok := in.classIndex[name]
	return id, ok
}

// Mangle derives an unused class name from the given one. Names are never
// silently reused.
func (in *Interner) Mangle(name string) string {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s__%d", name, n)
		if _, taken := in.classIndex[candidate]; !taken {
			return candidate
		}
	}
}

// RegisterClass mints a fresh nominal class type. Registering a taken name
// is a compiler defect: callers must mangle first.
func (in *Interner) RegisterClass(name string) TypeID {
	if _, taken := in.classIndex[name]; taken {
		panic(fmt.Sprintf("types: class name %q already registered", name))
	}
	slot := in.appendClassInfo(ClassInfo{Name: name})
	id := in.internRaw(Type{Kind: KindClass, Payload: slot})
	in.classIndex[name] = id
	return id
}

// AddClassField appends a field to the class, preserving insertion order.
func (in *Interner) AddClassField(id TypeID, field ClassField) {
	info := in.classInfo(id)
	if info == nil {
		panic("types: AddClassField on a non-class TypeID")
	}
	info.Fields = append(info.Fields, field)
}

// ClassInfo returns metadata for the provided class TypeID.
func (in *Interner) ClassInfo(id TypeID) (*ClassInfo, bool) {
	info := in.classInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

// FindClassField looks a field up by name.
func (in *Interner) FindClassField(id TypeID, name string) (ClassField, bool) {
	info := in.classInfo(id)
	if info == nil {
		return ClassField{}, false
	}
	for _, f := range info.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return ClassField{}, false
}

func (in *Interner) classInfo(id TypeID) *ClassInfo {
	if id == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.classes) {
		return nil
	}
	return &in.classes[tt.Payload]
}

func (in *Interner) appendClassInfo(info ClassInfo) uint32 {
	in.classes = append(in.classes, info)
	slot, err := safecast.Conv[uint32](len(in.classes) - 1)
	if err != nil {
		panic(fmt.Errorf("class info overflow: %w", err))
	}
	return slot
}
