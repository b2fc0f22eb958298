package resolve

import (
	"weft/internal/diag"
	"weft/internal/ir"
	"weft/internal/schema"
	"weft/internal/source"
)

// CompiledFn is a callable whose schema is already known to the unit: a
// previously compiled function or method, addressed by qualified name in
// emitted call instructions.
type CompiledFn struct {
	Name   string
	Schema schema.Schema
}

// emitCompiledCall materializes defaults for unfilled parameters and emits
// the call. Multiple results are packed into a tuple value.
func emitCompiledCall(fn *Fn, at source.Span, c *CompiledFn, binding schema.Binding, nresults int) (Resolved, error) {
	if nresults > 0 && nresults != len(c.Schema.Results) {
		return nil, diag.Errorf(diag.ResArityMismatch, at,
			"%s produces %d result(s), but %d binding(s) were requested",
			c.Name, len(c.Schema.Results), nresults)
	}
	operands := make([]ir.ValueID, len(binding.Args))
	for i, ba := range binding.Args {
		if ba.UsedDefault {
			operands[i] = fn.IR.EmitConst(c.Schema.Params[ba.Param].Default)
		} else {
			operands[i] = ba.Value
		}
	}
	dsts := fn.IR.EmitCall(fn.IR.CalleeByName(c.Name), operands, c.Schema.Results)
	switch len(dsts) {
	case 0:
		b := fn.Unit.Types.Builtins()
		return NewSimple(fn.IR.EmitConst(ir.Const{Kind: ir.ConstNone, Type: b.None})), nil
	case 1:
		return NewSimple(dsts[0]), nil
	default:
		tupleTy := fn.Unit.Types.RegisterTuple(c.Schema.Results)
		return NewSimple(fn.IR.EmitMakeTuple(tupleTy, dsts)), nil
	}
}
