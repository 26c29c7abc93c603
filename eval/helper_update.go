package eval

import (
	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/assoc"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
)

// tryHelperCall handles a Call instruction the associator paired with a
// nested sub-memlog: it binds the callee's parameters, recurses into the
// callee's blocks, and binds the call's own SSA name (if any) to the
// callee's return expression. Err means ev carries no Helper, so the
// caller should try the ordinary expr/other update paths instead.
func (s *State) tryHelperCall(inst ir.Instruction, ev *assoc.Event) expr.Outcome {
	if ev == nil || ev.Helper == nil {
		return expr.Err("not a helper call")
	}
	if inst.Op() != ir.OpCall {
		return expr.Err("helper event attached to a non-call instruction")
	}
	callee := inst.Callee()
	if callee == nil {
		return expr.Err("helper event with no callee")
	}

	caller := s.function
	ops := inst.Operands()
	for i := range callee.Params {
		param := callee.Param(i)
		var arg expr.Outcome
		if i < len(ops) {
			arg = s.buildValue(ops[i])
		} else {
			arg = expr.Irrelevant()
		}
		s.insert(addr.IdLoc{Func: callee.Name, Name: param.Name()}, arg)
	}

	retVal := s.RunBlocks(ev.Helper)

	// run_blocks leaves s.function pointing at the callee's last block; the
	// call site resumes in the caller. previous_block, deliberately, is not
	// restored: phi resolution in the caller's next block sees the helper's
	// last block as its predecessor, matching how the trace actually
	// executed.
	s.function = caller

	if inst.Name() != "" {
		if retVal != nil {
			s.insert(addr.IdLoc{Func: caller.Name, Name: inst.Name()}, expr.Just(retVal))
		} else {
			s.insert(addr.IdLoc{Func: caller.Name, Name: inst.Name()}, expr.Irrelevant())
		}
	}

	return expr.Just(expr.IrrelevantValue)
}
