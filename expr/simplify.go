package expr

// maxSimplifyPasses bounds the fixed-point search for Simplify: five passes,
// after which the simplifier gives up and returns whatever it has. No rule
// is allowed to grow the tree, so this is a safety valve, not load-bearing
// for correctness.
const maxSimplifyPasses = 5

// Simplify applies the fixed canonicalization ruleset bottom-up, repeating
// until a fixed point or maxSimplifyPasses, whichever comes first.
func Simplify(e Expr) Expr {
	cur := e
	for i := 0; i < maxSimplifyPasses; i++ {
		next := simplifyOnce(cur)
		if Equal(next, cur) {
			return next
		}
		cur = next
	}
	return cur
}

func simplifyOnce(e Expr) Expr {
	switch n := e.(type) {
	case *BinExpr:
		lhs := simplifyOnce(n.LHS)
		rhs := simplifyOnce(n.RHS)
		return simplifyBin(n.Op, n.Typ, lhs, rhs)
	case *CastExpr:
		x := simplifyOnce(n.X)
		return simplifyCast(n.Op, n.Typ, x)
	case *StructExpr:
		fields := make([]Expr, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = simplifyOnce(f)
		}
		return &StructExpr{Typ: n.Typ, Fields: fields}
	case *ExtractExpr:
		return &ExtractExpr{Typ: n.Typ, Index: n.Index, Aggr: simplifyOnce(n.Aggr)}
	case *ICmpExpr:
		return &ICmpExpr{Pred: n.Pred, LHS: simplifyOnce(n.LHS), RHS: simplifyOnce(n.RHS)}
	case *IntrinsicExpr:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = simplifyOnce(a)
		}
		return &IntrinsicExpr{Name: n.Name, Typ: n.Typ, Args: args}
	default:
		// Load, ILit, FLit, Input, GEP, Undefined, Irrelevant are leaves.
		return e
	}
}

func isZeroLit(e Expr) bool {
	lit, ok := e.(*ILitExpr)
	return ok && lit.Val == 0
}

func simplifyBin(op Kind, t ExprT, lhs, rhs Expr) Expr {
	switch op {
	case KAdd:
		// x + 0 -> x, 0 + x -> x
		if isZeroLit(rhs) {
			return lhs
		}
		if isZeroLit(lhs) {
			return rhs
		}
	case KAshr:
		// Ashr(0, _) -> 0
		if isZeroLit(lhs) {
			return lhs
		}
	}
	return &BinExpr{Op: op, Typ: t, LHS: lhs, RHS: rhs}
}

func simplifyCast(op Kind, t ExprT, x Expr) Expr {
	switch op {
	case KTrunc:
		// Trunc(ZExt(e)) -> e, Trunc(SExt(e)) -> e
		if inner, ok := x.(*CastExpr); ok && (inner.Op == KZExt || inner.Op == KSExt) {
			return inner.X
		}
		// Trunc(t, ILit(n)) -> ILit(n) when n < 2^bits(t), else keep.
		if lit, ok := x.(*ILitExpr); ok {
			bits := t.Bits()
			if bits > 0 && bits < 64 && lit.Val < (uint64(1)<<bits) {
				return &ILitExpr{Typ: t, Val: lit.Val}
			}
			if bits >= 64 {
				return &ILitExpr{Typ: t, Val: lit.Val}
			}
		}
	case KZExt, KSExt:
		// ZExt(_, lit) -> lit, SExt(_, lit) -> lit
		if lit, ok := x.(*ILitExpr); ok {
			return &ILitExpr{Typ: t, Val: lit.Val}
		}
	case KPtrToInt:
		// PtrToInt(_, IntToPtr(_, e)) -> e
		if inner, ok := x.(*CastExpr); ok && inner.Op == KIntToPtr {
			return inner.X
		}
	case KIntToPtr:
		// Symmetric Int64 round-trip: IntToPtr(_, PtrToInt(_, e)) -> e,
		// but only when the PtrToInt's result type was Int64.
		if inner, ok := x.(*CastExpr); ok && inner.Op == KPtrToInt && inner.Typ == Int64 {
			return inner.X
		}
	}
	return &CastExpr{Op: op, Typ: t, X: x}
}
