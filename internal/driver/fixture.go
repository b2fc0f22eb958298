package driver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"weft/internal/host"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/types"
)

// Fixture is one declarative resolution scenario: host classes, compiled
// callables, an instance graph, and the operations to lower against it.
type Fixture struct {
	Unit      FixtureUnit       `toml:"unit"`
	Classes   []FixtureClass    `toml:"class"`
	Fns       []FixtureFn       `toml:"fn"`
	Builtins  []string          `toml:"builtins"`
	Instances []FixtureInstance `toml:"instance"`
	Ops       []FixtureOp       `toml:"op"`
}

type FixtureUnit struct {
	Name string `toml:"name"`
}

type FixtureClass struct {
	Name      string            `toml:"name"`
	Consts    []string          `toml:"consts"`
	State     []string          `toml:"state"`
	Overloads []FixtureOverload `toml:"overload"`
}

type FixtureOverload struct {
	Method     string   `toml:"method"`
	Candidates []string `toml:"candidates"`
}

type FixtureFn struct {
	Name    string         `toml:"name"`
	Params  []FixtureParam `toml:"params"`
	Results []string       `toml:"results"`
}

type FixtureParam struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	KeywordOnly bool   `toml:"keyword_only"`
	Default     any    `toml:"default"`
}

// FixtureInstance declares one record. Attribute values are TOML
// primitives; a string of the form "@name" references another declared
// instance.
type FixtureInstance struct {
	Name  string         `toml:"name"`
	Class string         `toml:"class"`
	Attrs map[string]any `toml:"attrs"`
}

// FixtureOp is one operation to lower: op is "call" (default), "attr" or
// "set". Attr is a dotted path below the receiver.
type FixtureOp struct {
	Op      string         `toml:"op"`
	Recv    string         `toml:"recv"`
	Attr    string         `toml:"attr"`
	Args    []any          `toml:"args"`
	Kwargs  map[string]any `toml:"kwargs"`
	Results int            `toml:"results"`
	Value   any            `toml:"value"`
}

// DecodeFixture parses a TOML fixture.
func DecodeFixture(content []byte) (*Fixture, error) {
	var fx Fixture
	if err := toml.Unmarshal(content, &fx); err != nil {
		return nil, err
	}
	if fx.Unit.Name == "" {
		return nil, fmt.Errorf("fixture is missing the unit name")
	}
	return &fx, nil
}

// buildGraph instantiates the declared records. Attribute insertion order
// follows sorted attribute names: TOML tables carry no order, and record
// order must be deterministic across runs.
func buildGraph(fx *Fixture) (map[string]*host.Record, error) {
	classes := make(map[string]*host.RecordClass, len(fx.Classes))
	for _, c := range fx.Classes {
		cls := &host.RecordClass{Name: c.Name, Consts: c.Consts, State: c.State}
		for _, o := range c.Overloads {
			cls.Overloads = append(cls.Overloads, host.OverloadDecl{Method: o.Method, Candidates: o.Candidates})
		}
		if _, dup := classes[c.Name]; dup {
			return nil, fmt.Errorf("class %q declared twice", c.Name)
		}
		classes[c.Name] = cls
	}

	records := make(map[string]*host.Record, len(fx.Instances))
	for _, inst := range fx.Instances {
		cls, ok := classes[inst.Class]
		if !ok {
			return nil, fmt.Errorf("instance %q names unknown class %q", inst.Name, inst.Class)
		}
		if _, dup := records[inst.Name]; dup {
			return nil, fmt.Errorf("instance %q declared twice", inst.Name)
		}
		records[inst.Name] = host.NewRecord(cls)
	}
	for _, inst := range fx.Instances {
		rec := records[inst.Name]
		names := make([]string, 0, len(inst.Attrs))
		for name := range inst.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v, err := attrValue(records, inst.Attrs[name])
			if err != nil {
				return nil, fmt.Errorf("instance %q attribute %q: %w", inst.Name, name, err)
			}
			rec.Set(name, v)
		}
	}
	return records, nil
}

func attrValue(records map[string]*host.Record, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok || !strings.HasPrefix(s, "@") {
		return raw, nil
	}
	ref, ok := records[s[1:]]
	if !ok {
		return nil, fmt.Errorf("reference %q names no declared instance", s)
	}
	return ref, nil
}

// parseType maps a fixture type name onto an IR type. "any" (and the empty
// string) accept every argument.
func parseType(in *types.Interner, name string) (types.TypeID, error) {
	b := in.Builtins()
	switch name {
	case "", "any":
		return types.NoTypeID, nil
	case "none":
		return b.None, nil
	case "bool":
		return b.Bool, nil
	case "int":
		return b.Int, nil
	case "float":
		return b.Float, nil
	case "string":
		return b.String, nil
	}
	if elem, ok := strings.CutPrefix(name, "[]"); ok {
		et, err := parseType(in, elem)
		if err != nil {
			return types.NoTypeID, err
		}
		return in.Intern(types.MakeList(et)), nil
	}
	if id, ok := in.ClassByName(name); ok {
		return id, nil
	}
	return types.NoTypeID, fmt.Errorf("unknown type %q", name)
}

// literalConst folds a TOML literal into an IR constant.
func literalConst(in *types.Interner, v any) (ir.Const, bool) {
	b := in.Builtins()
	switch x := v.(type) {
	case nil:
		return ir.Const{Kind: ir.ConstNone, Type: b.None}, true
	case bool:
		return ir.Const{Kind: ir.ConstBool, Type: b.Bool, BoolValue: x}, true
	case int64:
		return ir.Const{Kind: ir.ConstInt, Type: b.Int, IntValue: x}, true
	case float64:
		return ir.Const{Kind: ir.ConstFloat, Type: b.Float, FloatValue: x}, true
	case string:
		return ir.Const{Kind: ir.ConstString, Type: b.String, StringValue: x}, true
	}
	return ir.Const{}, false
}

// fixtureSchema converts one declared callable to a schema.
func fixtureSchema(in *types.Interner, f FixtureFn) (schema.Schema, error) {
	s := schema.Schema{Name: f.Name}
	for _, p := range f.Params {
		ty, err := parseType(in, p.Type)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("fn %q param %q: %w", f.Name, p.Name, err)
		}
		param := schema.Param{Name: p.Name, Type: ty, KeywordOnly: p.KeywordOnly}
		if p.Default != nil {
			c, ok := literalConst(in, p.Default)
			if !ok {
				return schema.Schema{}, fmt.Errorf("fn %q param %q: default is not a literal", f.Name, p.Name)
			}
			param.HasDefault = true
			param.Default = c
		}
		s.Params = append(s.Params, param)
	}
	for i, r := range f.Results {
		ty, err := parseType(in, r)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("fn %q result %d: %w", f.Name, i, err)
		}
		s.Results = append(s.Results, ty)
	}
	return s, nil
}
