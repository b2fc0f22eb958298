package resolve

import (
	"fmt"
	"slices"

	"weft/internal/host"
	"weft/internal/types"
)

type namedConst struct {
	Name  string
	Value any
}

type attrEntry struct {
	Name    string
	Type    types.TypeID
	Mutable bool
}

type fnAttrEntry struct {
	Name string
	Type types.TypeID
}

type moduleEntry struct {
	Name  string
	Shape *Shape
}

type overloadEntry struct {
	Method     string
	Candidates []string
}

type failedEntry struct {
	Name   string
	Reason string
}

// shapeData is the structural description shared by ShapeBuilder and Shape:
// everything about an instance the compiler decided at compile time.
// Constants, attributes, function attributes and overloads are compared
// order-insensitively; submodules are ordered and IR-visible.
type shapeData struct {
	class     host.Class
	constants []namedConst
	attrs     []attrEntry
	fnAttrs   []fnAttrEntry
	modules   []moduleEntry
	overloads []overloadEntry
	failed    []failedEntry
}

// ShapeBuilder accumulates a structural description of one live instance.
// It is mutable until it is interned: interning either freezes it into a
// Shape or discards it in favor of an equal cached one. Adding to a spent
// builder is a compiler defect.
type ShapeBuilder struct {
	shapeData
	types *types.Interner
	done  bool
}

func NewShapeBuilder(in *types.Interner, class host.Class) *ShapeBuilder {
	return &ShapeBuilder{shapeData: shapeData{class: class}, types: in}
}

func (b *ShapeBuilder) mutable() {
	if b.done {
		panic("resolve: shape builder already interned")
	}
}

// AddConstant records an attribute folded at compile time. The host value
// participates in structural equality.
func (b *ShapeBuilder) AddConstant(name string, value any) {
	b.mutable()
	b.constants = append(b.constants, namedConst{Name: name, Value: value})
}

// AddAttribute records a typed per-instance attribute. Function-typed
// attributes are kept apart: they resolve to bound callables, not field
// reads.
func (b *ShapeBuilder) AddAttribute(name string, ty types.TypeID, mutableAttr bool) {
	b.mutable()
	if tt, ok := b.types.Lookup(ty); ok && tt.Kind == types.KindFn {
		b.fnAttrs = append(b.fnAttrs, fnAttrEntry{Name: name, Type: ty})
		return
	}
	b.attrs = append(b.attrs, attrEntry{Name: name, Type: ty, Mutable: mutableAttr})
}

// AddModule records a nested instance. Submodule order is part of the
// materialized IR type.
func (b *ShapeBuilder) AddModule(name string, sub *Shape) {
	b.mutable()
	b.modules = append(b.modules, moduleEntry{Name: name, Shape: sub})
}

// AddOverload records an overloaded method and its ordered candidates.
func (b *ShapeBuilder) AddOverload(method string, candidates []string) {
	b.mutable()
	b.overloads = append(b.overloads, overloadEntry{Method: method, Candidates: slices.Clone(candidates)})
}

// AddFailedAttribute records a member the builder could not represent,
// with the reason. Failed attributes do not affect equality; they only
// sharpen later lookup diagnostics.
func (b *ShapeBuilder) AddFailedAttribute(name, reason string) {
	b.mutable()
	b.failed = append(b.failed, failedEntry{Name: name, Reason: reason})
}

// equalsShape reports whether the builder describes the same structure as
// an already-frozen shape. Constant comparison defers to host equality and
// propagates its failure; it never degrades an undecidable comparison into
// "not equal".
func (b *ShapeBuilder) equalsShape(s *Shape) (bool, error) {
	if b.class != s.class {
		return false, nil
	}
	if len(b.constants) != len(s.constants) ||
		len(b.attrs) != len(s.attrs) ||
		len(b.fnAttrs) != len(s.fnAttrs) ||
		len(b.modules) != len(s.modules) ||
		len(b.overloads) != len(s.overloads) {
		return false, nil
	}
	for _, c := range b.constants {
		other, ok := s.FindConstant(c.Name)
		if !ok {
			return false, nil
		}
		eq, err := host.Equal(c.Value, other)
		if err != nil {
			return false, fmt.Errorf("comparing constant %q of %s: %w", c.Name, b.class.QualifiedName(), err)
		}
		if !eq {
			return false, nil
		}
	}
	for _, a := range b.attrs {
		other, ok := s.FindAttr(a.Name)
		if !ok || other.Mutable != a.Mutable || !b.types.StructurallyEqual(other.Type, a.Type) {
			return false, nil
		}
	}
	for _, f := range b.fnAttrs {
		other, ok := s.FnAttr(f.Name)
		if !ok || !b.types.StructurallyEqual(other, f.Type) {
			return false, nil
		}
	}
	// Submodule order is IR-visible, so it is compared positionally.
	for i, m := range b.modules {
		if s.modules[i].Name != m.Name || s.modules[i].Shape != m.Shape {
			return false, nil
		}
	}
	for _, o := range b.overloads {
		other, ok := s.Overloads(o.Method)
		if !ok || !slices.Equal(other, o.Candidates) {
			return false, nil
		}
	}
	return true, nil
}

// materialize mints the nominal IR type for the shape: the class name is
// derived from the host class and mangled if taken, then fields are
// registered in insertion order (submodules first, then data attributes).
func (b *ShapeBuilder) materialize() *Shape {
	b.mutable()
	b.done = true

	name := b.class.QualifiedName()
	if _, taken := b.types.ClassByName(name); taken {
		name = b.types.Mangle(name)
	}
	id := b.types.RegisterClass(name)
	for _, m := range b.modules {
		b.types.AddClassField(id, types.ClassField{Name: m.Name, Type: m.Shape.Type()})
	}
	for _, a := range b.attrs {
		b.types.AddClassField(id, types.ClassField{Name: a.Name, Type: a.Type, Mutable: a.Mutable})
	}
	return &Shape{shapeData: b.shapeData, typeID: id}
}

// discard spends the builder without materializing: an equal shape was
// already cached.
func (b *ShapeBuilder) discard() {
	b.mutable()
	b.done = true
}

// Shape is the frozen structural description bound to exactly one nominal
// IR type. All accessors are read-only; shapes are shared across instances
// and goroutines.
type Shape struct {
	shapeData
	typeID types.TypeID
}

// Type returns the nominal IR type the shape materialized as.
func (s *Shape) Type() types.TypeID {
	return s.typeID
}

// Class returns the originating host class.
func (s *Shape) Class() host.Class {
	return s.class
}

// FindConstant returns the folded value of a compile-time constant.
func (s *Shape) FindConstant(name string) (any, bool) {
	for _, c := range s.constants {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// FindAttr returns the typed per-instance attribute entry.
func (s *Shape) FindAttr(name string) (attrEntry, bool) {
	for _, a := range s.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return attrEntry{}, false
}

// FnAttr returns the declared type of a function-typed attribute.
func (s *Shape) FnAttr(name string) (types.TypeID, bool) {
	for _, f := range s.fnAttrs {
		if f.Name == name {
			return f.Type, true
		}
	}
	return types.NoTypeID, false
}

// StateAttrs returns the attributes tagged as mutable state, in
// registration order.
func (s *Shape) StateAttrs() []attrEntry {
	out := make([]attrEntry, 0, len(s.attrs))
	for _, a := range s.attrs {
		if a.Mutable {
			out = append(out, a)
		}
	}
	return out
}

// FindSubmodule returns the shape of a nested instance.
func (s *Shape) FindSubmodule(name string) (*Shape, bool) {
	for _, m := range s.modules {
		if m.Name == name {
			return m.Shape, true
		}
	}
	return nil, false
}

// Overloads returns the ordered candidate names of an overloaded method.
func (s *Shape) Overloads(method string) ([]string, bool) {
	for _, o := range s.overloads {
		if o.Method == method {
			return o.Candidates, true
		}
	}
	return nil, false
}

// FailedReason returns why a member was left out of the shape, if it was.
func (s *Shape) FailedReason(name string) (string, bool) {
	for _, f := range s.failed {
		if f.Name == name {
			return f.Reason, true
		}
	}
	return "", false
}
