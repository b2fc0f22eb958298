package host

// OverloadDecl declares one overloaded method: the name used at call sites
// and the ordered candidate method names tried during resolution.
type OverloadDecl struct {
	Method     string
	Candidates []string
}

// RecordClass is a class declared by data rather than by a Go type:
// fixture files and embedders that build object graphs at runtime use it.
// Identity is the *RecordClass pointer. The declaration lists drive shape
// inference: Consts names attributes folded as compile-time constants,
// State names attributes writable after compilation.
type RecordClass struct {
	Name      string
	Consts    []string
	State     []string
	Overloads []OverloadDecl
}

func (c *RecordClass) QualifiedName() string {
	return c.Name
}

func (c *RecordClass) IsConst(attr string) bool {
	for _, n := range c.Consts {
		if n == attr {
			return true
		}
	}
	return false
}

func (c *RecordClass) IsState(attr string) bool {
	for _, n := range c.State {
		if n == attr {
			return true
		}
	}
	return false
}

// Record is an instance of a RecordClass with named attributes. Attribute
// order is insertion order; two records of one class may carry different
// attribute values but should carry the same names.
type Record struct {
	Cls   *RecordClass
	attrs map[string]any
	order []string
}

func NewRecord(cls *RecordClass) *Record {
	return &Record{Cls: cls, attrs: make(map[string]any)}
}

// Set adds or replaces an attribute, keeping first-insertion order.
func (r *Record) Set(name string, v any) *Record {
	if _, ok := r.attrs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.attrs[name] = v
	return r
}

// AttrNames returns attribute names in insertion order.
func (r *Record) AttrNames() []string {
	return r.order
}

func (r *Record) HostClass() Class {
	return r.Cls
}

func (r *Record) HostAttr(name string) (any, bool) {
	v, ok := r.attrs[name]
	return v, ok
}
