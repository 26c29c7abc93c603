package eval

import (
	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/message"
)

func memoryMessage(op addr.AddrOp, a addr.AddrEntry, value expr.Expr, origin expr.Expr) message.Message {
	return message.Memory(op, a.Pretty(), value, origin)
}

// originExpr strips an outer IntToPtr cast off e and returns the operand
// under it, or nil when e has no such cast. Load and store instructions in
// this IR carry no address operand, so callers pass the value expression
// being loaded or stored; the origin is taken from that value, not from
// the computation that produced the address.
func (s *State) originExpr(e expr.Expr) expr.Expr {
	c, ok := e.(*expr.CastExpr)
	if !ok || c.Op != expr.KIntToPtr {
		return nil
	}
	return c.X
}
