package eval

import (
	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/assoc"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
	"github.com/symtrace/symtrace/message"
	"github.com/symtrace/symtrace/utils/slices"
)

const memsetMemcpyWarnLen = 16

// tryOtherUpdate handles the non-SSA-producing instruction effects: stores,
// control flow, the memset/memcpy/no-return call sentinels, and
// Alloca/Switch/Unreachable. Err means none of these apply, so the caller
// falls through to warn.
func (s *State) tryOtherUpdate(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	switch inst.Op() {
	case ir.OpAlloca:
		return expr.Just(expr.IrrelevantValue)
	case ir.OpStore:
		return s.updateStore(inst, ev)
	case ir.OpRet:
		return s.updateRet(inst)
	case ir.OpBranch:
		return s.updateBranch(inst, ev)
	case ir.OpSwitch:
		// TODO: no trace entry records switch targets today; extend
		// tracefmt/assoc together with this branch if that changes.
		return expr.Just(expr.IrrelevantValue)
	case ir.OpCall:
		return s.updateCall(inst, ev)
	case ir.OpUnreachable:
		s.recordWarning("UNREACHABLE INSTRUCTION!")
		return expr.Just(expr.IrrelevantValue)
	default:
		return expr.Err("not handled by other update")
	}
}

func (s *State) updateStore(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	ops := inst.Operands()
	if len(ops) != 1 {
		return expr.Err("store with wrong operand count")
	}

	if inst.Volatile() {
		return s.updateVolatileIPStore(ops[0])
	}

	if ev == nil || ev.Op == nil || ev.Op.Kind != addr.EventAddr || ev.Op.AddrOp != addr.OpStore {
		return expr.Err("store without a matching Addr(Store) event")
	}
	a := ev.Op.Addr
	value := s.buildValue(ops[0])
	s.set(addr.MemLoc{Addr: a}, LocInfo{Expr: expr.Simplify(value.Get()), Origin: s.currentIP})
	if !a.Uninteresting() {
		s.emit(memoryMessage(addr.OpStore, a, value.Get(), s.originExpr(value.Get())))
	}
	return expr.Just(expr.IrrelevantValue)
}

// updateVolatileIPStore handles the volatile store to the IP slot: it
// fires twice per guest instruction, and because both writes go through
// this same setter, the last one wins.
func (s *State) updateVolatileIPStore(operand ir.Value) expr.Outcome {
	c, ok := operand.AsConst()
	if !ok {
		s.recordWarning("volatile IP store with non-constant value")
		return expr.Just(expr.IrrelevantValue)
	}
	iv, ok := c.IntValue()
	if !ok {
		s.recordWarning("volatile IP store with non-integer constant")
		return expr.Just(expr.IrrelevantValue)
	}
	ip := uint64(iv)
	s.currentIP = &ip
	return expr.Just(expr.IrrelevantValue)
}

func (s *State) updateRet(inst ir.Instruction) expr.Outcome {
	ops := inst.Operands()
	if len(ops) == 0 {
		s.retVal = nil
		return expr.Just(expr.IrrelevantValue)
	}
	v := s.buildValue(ops[0])
	s.retVal = v.Get()
	return expr.Just(expr.IrrelevantValue)
}

func (s *State) updateBranch(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	targets := inst.BranchTargets()
	if len(targets) == 1 {
		s.emit(message.UnconditionalBranchMsg)
		return expr.Just(expr.IrrelevantValue)
	}
	if ev == nil || ev.Op == nil || ev.Op.Kind != addr.EventBranch {
		return expr.Err("conditional branch without a matching Branch event")
	}
	ops := inst.Operands()
	if len(ops) != 1 {
		return expr.Err("conditional branch with wrong operand count")
	}
	cond := s.buildValue(ops[0])
	s.emit(message.Branch(cond.Get(), ev.Op.Index == 0))
	return expr.Just(expr.IrrelevantValue)
}

func (s *State) updateCall(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	attrs := inst.CallAttrs()

	switch {
	case attrs.Name == assoc.SentinelLogDynval:
		return expr.Just(expr.IrrelevantValue)

	case attrs.NoReturn || slices.OneOf(attrs.Name, assoc.SentinelLoopExit):
		s.skipRest = true
		return expr.Just(expr.IrrelevantValue)

	case attrs.Intrinsic && attrs.Name == assoc.SentinelMemset:
		return s.updateMemset(inst, ev)

	case attrs.Intrinsic && attrs.Name == assoc.SentinelMemcpy:
		return s.updateMemcpy(inst, ev)

	default:
		// Ordinary external call with no special semantics: nothing to
		// build, nothing to warn about.
		return expr.Just(expr.IrrelevantValue)
	}
}

func (s *State) updateMemset(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	if ev == nil || ev.Op == nil || ev.Op.Kind != addr.EventMemset {
		return expr.Err("memset call without a matching Memset event")
	}
	ops := inst.Operands()
	if len(ops) < 3 {
		return expr.Err("memset call with too few arguments")
	}
	a := ev.Op.MemsetAddr
	value := s.buildValue(ops[1])

	iv, lenOK := constIntOperand(ops[2])
	if !lenOK {
		s.recordWarning("memset length could not be extracted as a literal")
	} else if iv > memsetMemcpyWarnLen {
		s.recordWarning("memset length exceeds 16 bytes")
	}
	if isStructAt(s, addr.MemLoc{Addr: a}) {
		s.recordWarning("memset target is a struct")
	}

	s.set(addr.MemLoc{Addr: a}, LocInfo{Expr: expr.Simplify(value.Get()), Origin: s.currentIP})
	return expr.Just(expr.IrrelevantValue)
}

func (s *State) updateMemcpy(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	if ev == nil || ev.Op == nil || ev.Op.Kind != addr.EventMemcpy {
		return expr.Err("memcpy call without a matching Memcpy event")
	}
	ops := inst.Operands()
	if len(ops) < 3 {
		return expr.Err("memcpy call with too few arguments")
	}
	src, dst := ev.Op.Src, ev.Op.Dst

	iv, lenOK := constIntOperand(ops[2])
	structTarget := isStructAt(s, addr.MemLoc{Addr: dst})
	if !lenOK {
		s.recordWarning("memcpy length could not be extracted as a literal")
	} else if iv > memsetMemcpyWarnLen && !structTarget {
		s.recordWarning("memcpy length exceeds 16 bytes")
	}

	if info, ok := s.get(addr.MemLoc{Addr: src}); ok {
		s.set(addr.MemLoc{Addr: dst}, info)
	}
	return expr.Just(expr.IrrelevantValue)
}

func constIntOperand(v ir.Value) (int64, bool) {
	c, ok := v.AsConst()
	if !ok {
		return 0, false
	}
	return c.IntValue()
}

func isStructAt(s *State, loc addr.Loc) bool {
	info, ok := s.get(loc)
	if !ok {
		return false
	}
	_, isStruct := info.Expr.(*expr.StructExpr)
	return isStruct
}
