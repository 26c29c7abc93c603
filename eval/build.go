package eval

import (
	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
)

// buildValue resolves an IR operand to an expression: a constant is built
// directly; a named value (an instruction result or a function argument)
// is looked up in info, falling back to a fresh InputExpr free variable if
// unbound — this is what lets an unresolved argument read as
// InputExpr(t, IdLoc(f, name)) rather than failing.
func (s *State) buildValue(v ir.Value) expr.Outcome {
	if v == nil {
		return expr.Irrelevant()
	}
	if c, ok := v.AsConst(); ok {
		return s.buildConst(c)
	}
	name := v.Name()
	if name == "" {
		return expr.Irrelevant()
	}
	loc := addr.IdLoc{Func: s.function.Name, Name: name}
	if info, ok := s.get(loc); ok {
		return expr.Just(info.Expr)
	}
	return expr.Just(expr.Input(exprTypeOf(v.Type()), loc))
}

func (s *State) buildConst(c ir.Const) expr.Outcome {
	t := exprTypeOf(c.Type())
	if c.IsUndef() {
		return expr.Just(expr.Undefined(t))
	}
	if iv, ok := c.IntValue(); ok {
		return expr.Just(expr.ILit(t, uint64(iv)))
	}
	if fv, ok := c.FloatValue(); ok {
		return expr.Just(expr.FLit(t, fv))
	}
	return expr.Err("invalid constant operand")
}

// insert binds loc to the outcome of a build, recording current_ip as the
// origin. An Err outcome is never inserted: a failed build must not
// partially mutate info.
func (s *State) insert(loc addr.Loc, o expr.Outcome) {
	if o.IsErr() {
		return
	}
	s.set(loc, LocInfo{Expr: expr.Simplify(o.Get()), Origin: s.currentIP})
}
