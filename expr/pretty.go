package expr

import (
	"fmt"

	i "github.com/symtrace/symtrace/utils/indenter"
)

// Pretty renders e as a multi-line indented tree, for human consumption.
// It is distinct from String(), which is
// the single-line canonical form Equal compares on.
func Pretty(e Expr) string {
	switch n := e.(type) {
	case *BinExpr:
		lhs, rhs := Pretty(n.LHS), Pretty(n.RHS)
		return i.Indenter().Start(fmt.Sprintf("%s(%s, [", n.Op, n.Typ)).
			NestStrings(lhs, rhs).End("])")
	case *CastExpr:
		x := Pretty(n.X)
		return i.Indenter().Start(fmt.Sprintf("%s(%s, [", n.Op, n.Typ)).
			NestStrings(x).End("])")
	case *StructExpr:
		parts := make([]string, len(n.Fields))
		for idx, f := range n.Fields {
			parts[idx] = Pretty(f)
		}
		return i.Indenter().Start(fmt.Sprintf("Struct(%s, [", n.Typ)).
			NestStrings(parts...).End("])")
	case *ExtractExpr:
		aggr := Pretty(n.Aggr)
		return i.Indenter().Start(fmt.Sprintf("Extract(%s, %d, [", n.Typ, n.Index)).
			NestStrings(aggr).End("])")
	case *ICmpExpr:
		lhs, rhs := Pretty(n.LHS), Pretty(n.RHS)
		return i.Indenter().Start(fmt.Sprintf("ICmp(%s, [", n.Pred)).
			NestStrings(lhs, rhs).End("])")
	case *IntrinsicExpr:
		parts := make([]string, len(n.Args))
		for idx, a := range n.Args {
			parts[idx] = Pretty(a)
		}
		return i.Indenter().Start(fmt.Sprintf("Intrinsic(%s, %s, [", n.Name, n.Typ)).
			NestStrings(parts...).End("])")
	default:
		// Load, ILit, FLit, Input, GEP, Undefined, Irrelevant are single-line.
		return e.String()
	}
}
