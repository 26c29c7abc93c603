package eval

import (
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
)

func exprTypeOf(t ir.Type) expr.ExprT {
	switch t.Kind {
	case ir.TyInteger:
		return expr.FromIRInt(t.Bits)
	case ir.TyPointer:
		return expr.Ptr
	case ir.TyFloat:
		return expr.Float
	case ir.TyDouble:
		return expr.Double
	default:
		return expr.Void
	}
}

func exprPredOf(p ir.Predicate) expr.Predicate {
	// The two enums are deliberately kept in the same order so this is a
	// plain numeric re-tag; see ir.Predicate's doc comment.
	return expr.Predicate(p)
}

var binOps = map[ir.Op]expr.Kind{
	ir.OpAdd: expr.KAdd, ir.OpSub: expr.KSub, ir.OpMul: expr.KMul,
	ir.OpDiv: expr.KDiv, ir.OpRem: expr.KRem, ir.OpShl: expr.KShl,
	ir.OpLshr: expr.KLshr, ir.OpAshr: expr.KAshr, ir.OpAnd: expr.KAnd,
	ir.OpOr: expr.KOr, ir.OpXor: expr.KXor,
}

var castOps = map[ir.Op]expr.Kind{
	ir.OpTrunc: expr.KTrunc, ir.OpZExt: expr.KZExt, ir.OpSExt: expr.KSExt,
	ir.OpFPTrunc: expr.KFPTrunc, ir.OpFPExt: expr.KFPExt,
	ir.OpFPToSI: expr.KFPToSI, ir.OpFPToUI: expr.KFPToUI,
	ir.OpSIToFP: expr.KSIToFP, ir.OpUIToFP: expr.KUIToFP,
	ir.OpPtrToInt: expr.KPtrToInt, ir.OpIntToPtr: expr.KIntToPtr,
	ir.OpBitcast: expr.KBitcast,
}
