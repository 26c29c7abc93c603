package eval

import (
	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/assoc"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
)

// tryExprUpdate handles SSA-producing instructions: it builds the result
// expression and, if the instruction has a name, inserts it at
// IdLoc(function, name). An overall Err means none of the sub-builders'
// ops matched this instruction, so the caller should try the next
// dispatch strategy (other update, then warn).
func (s *State) tryExprUpdate(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	o := expr.Or(
		func() expr.Outcome { return s.buildBin(inst) },
		func() expr.Outcome { return s.buildCast(inst) },
		func() expr.Outcome { return s.buildICmp(inst) },
		func() expr.Outcome { return s.buildPhi(inst) },
		func() expr.Outcome { return s.buildGEP(inst) },
		func() expr.Outcome { return s.buildInsertValue(inst) },
		func() expr.Outcome { return s.buildExtractValue(inst) },
		func() expr.Outcome { return s.buildLoad(inst, ev) },
		func() expr.Outcome { return s.buildIntrinsicCall(inst) },
	)
	return s.finishExprUpdate(inst, o)
}

// finishExprUpdate inserts o at the instruction's SSA name, if any. An Err
// outcome is returned unchanged and nothing is inserted, so dispatch in
// eval.go moves on to the other-update strategy and, if that does not
// apply either, records a warning.
func (s *State) finishExprUpdate(inst ir.Instruction, o expr.Outcome) expr.Outcome {
	if o.IsErr() {
		return o
	}
	if inst.Name() != "" {
		s.insert(addr.IdLoc{Func: s.function.Name, Name: inst.Name()}, o)
	}
	return o
}

func (s *State) buildBin(inst ir.Instruction) expr.Outcome {
	k, ok := binOps[inst.Op()]
	if !ok {
		return expr.Err("not a binary op")
	}
	ops := inst.Operands()
	if len(ops) != 2 {
		return expr.Err("binary op with wrong operand count")
	}
	lhs := s.buildValue(ops[0])
	if lhs.IsIrrelevant() {
		return expr.Irrelevant()
	}
	rhs := s.buildValue(ops[1])
	if rhs.IsIrrelevant() {
		return expr.Irrelevant()
	}
	return expr.Just(expr.Bin(k, exprTypeOf(inst.Type()), lhs.Get(), rhs.Get()))
}

func (s *State) buildCast(inst ir.Instruction) expr.Outcome {
	k, ok := castOps[inst.Op()]
	if !ok {
		return expr.Err("not a cast op")
	}
	ops := inst.Operands()
	if len(ops) != 1 {
		return expr.Err("cast with wrong operand count")
	}
	x := s.buildValue(ops[0])
	if x.IsIrrelevant() {
		return expr.Irrelevant()
	}
	return expr.Just(expr.Cast(k, exprTypeOf(inst.Type()), x.Get()))
}

func (s *State) buildICmp(inst ir.Instruction) expr.Outcome {
	if inst.Op() != ir.OpICmp {
		return expr.Err("not icmp")
	}
	ops := inst.Operands()
	if len(ops) != 2 {
		return expr.Err("icmp with wrong operand count")
	}
	lhs := s.buildValue(ops[0])
	if lhs.IsIrrelevant() {
		return expr.Irrelevant()
	}
	rhs := s.buildValue(ops[1])
	if rhs.IsIrrelevant() {
		return expr.Irrelevant()
	}
	return expr.Just(&expr.ICmpExpr{Pred: exprPredOf(inst.Pred()), LHS: lhs.Get(), RHS: rhs.Get()})
}

func (s *State) buildGEP(inst ir.Instruction) expr.Outcome {
	if inst.Op() != ir.OpGetElementPtr {
		return expr.Err("not getelementptr")
	}
	return expr.Just(expr.GEP(exprTypeOf(inst.Type())))
}

// buildPhi selects the incoming value whose predecessor equals
// previous_block. A phi reached with no previous block is a compiler
// invariant violation: fatal, not a warning.
func (s *State) buildPhi(inst ir.Instruction) expr.Outcome {
	if inst.Op() != ir.OpPhi {
		return expr.Err("not phi")
	}
	if s.previousBlock == nil {
		panic("eval: phi instruction reached with no previous block")
	}
	preds := inst.Block().Preds()
	incoming := inst.PhiIncoming()
	for i, p := range preds {
		if p == s.previousBlock && i < len(incoming) {
			return s.buildValue(incoming[i])
		}
	}
	return expr.Err("phi incoming value not found for previous block")
}

func (s *State) buildInsertValue(inst ir.Instruction) expr.Outcome {
	if inst.Op() != ir.OpInsertValue {
		return expr.Err("not insertvalue")
	}
	ops := inst.Operands()
	idxs := inst.Indices()
	if len(ops) != 2 || len(idxs) != 1 {
		return expr.Err("insertvalue with wrong operand/index shape")
	}
	aggrO := s.buildValue(ops[0])
	if aggrO.IsIrrelevant() {
		return expr.Irrelevant()
	}
	valO := s.buildValue(ops[1])
	if valO.IsIrrelevant() {
		return expr.Irrelevant()
	}
	idx := idxs[0]
	val := valO.Get()

	switch aggr := aggrO.Get().(type) {
	case *expr.UndefinedExpr:
		fields := make([]expr.Expr, idx+1)
		for i := range fields {
			fields[i] = expr.Undefined(aggr.Typ)
		}
		fields[idx] = val
		return expr.Just(&expr.StructExpr{Typ: aggr.Typ, Fields: fields})
	case *expr.StructExpr:
		fields := append([]expr.Expr(nil), aggr.Fields...)
		if idx >= len(fields) {
			grown := make([]expr.Expr, idx+1)
			copy(grown, fields)
			for i := len(fields); i < idx; i++ {
				grown[i] = expr.Undefined(aggr.Typ)
			}
			fields = grown
		}
		fields[idx] = val
		return expr.Just(&expr.StructExpr{Typ: aggr.Typ, Fields: fields})
	default:
		s.recordWarning("insertvalue into non-struct, non-undefined aggregate")
		return expr.Irrelevant()
	}
}

func (s *State) buildExtractValue(inst ir.Instruction) expr.Outcome {
	if inst.Op() != ir.OpExtractValue {
		return expr.Err("not extractvalue")
	}
	ops := inst.Operands()
	idxs := inst.Indices()
	if len(ops) != 1 || len(idxs) != 1 {
		return expr.Err("extractvalue with wrong operand/index shape")
	}
	aggrO := s.buildValue(ops[0])
	if aggrO.IsIrrelevant() {
		return expr.Irrelevant()
	}
	return expr.Just(&expr.ExtractExpr{Typ: exprTypeOf(inst.Type()), Index: idxs[0], Aggr: aggrO.Get()})
}

// buildLoad requires a paired Addr(Load, a) event; anything else is not
// this instruction applying (Err), which falls through to a warning if no
// other strategy claims the instruction either.
func (s *State) buildLoad(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	if inst.Op() != ir.OpLoad {
		return expr.Err("not load")
	}
	if ev == nil || ev.Op == nil || ev.Op.Kind != addr.EventAddr || ev.Op.AddrOp != addr.OpLoad {
		return expr.Err("load without a matching Addr(Load) event")
	}
	a := ev.Op.Addr
	t := exprTypeOf(inst.Type())
	loc := addr.MemLoc{Addr: a}

	if info, ok := s.get(loc); ok {
		if !a.Uninteresting() {
			s.emit(memoryMessage(addr.OpLoad, a, info.Expr, s.originExpr(info.Expr)))
		}
		return expr.Just(info.Expr)
	}

	name := s.freshName(t, a)
	value := &expr.LoadExpr{Typ: t, Addr: a, Name: name}
	s.set(loc, LocInfo{Expr: value, Origin: s.currentIP})
	if !a.Uninteresting() {
		s.emit(memoryMessage(addr.OpLoad, a, value, s.originExpr(value)))
	}
	return expr.Just(value)
}

// buildIntrinsicCall handles calls to intrinsics other than the
// memset/memcpy sentinels, which other_update.go handles because they
// don't produce an SSA result.
func (s *State) buildIntrinsicCall(inst ir.Instruction) expr.Outcome {
	if inst.Op() != ir.OpCall {
		return expr.Err("not call")
	}
	attrs := inst.CallAttrs()
	if !attrs.Intrinsic || attrs.Name == assoc.SentinelMemset || attrs.Name == assoc.SentinelMemcpy {
		return expr.Err("not a value-producing intrinsic call")
	}
	ops := inst.Operands()
	args := make([]expr.Expr, 0, len(ops))
	for _, o := range ops {
		v := s.buildValue(o)
		if v.IsIrrelevant() {
			return expr.Irrelevant()
		}
		args = append(args, v.Get())
	}
	return expr.Just(&expr.IntrinsicExpr{Name: attrs.Name, Typ: exprTypeOf(inst.Type()), Args: args})
}
