package eval

import (
	"fmt"

	"github.com/symtrace/symtrace/assoc"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
)

// RunBlocks is the evaluator's entry point: it walks an associated memlog in
// order, processing each (block, instructions) pair against s, and returns
// the last block's return expression. It recurses into itself for inlined
// helper calls (see tryHelperCall), sharing the same state.
func (s *State) RunBlocks(list *assoc.MemlogList) expr.Expr {
	if list == nil {
		return nil
	}
	for i := range list.Blocks {
		be := &list.Blocks[i]
		s.function = be.Block.Function()
		s.skipRest = false
		s.retVal = nil

		for j := range be.Insts {
			if s.skipRest {
				break
			}
			ie := &be.Insts[j]
			s.debugInst(ie.Inst)
			s.processInst(ie.Inst, ie.Event)
		}

		s.previousBlock = be.Block
	}
	return s.retVal
}

// processInst tries, in order, the helper-call, expression, and other update
// strategies, falling back to a warning if none of them claim the
// instruction.
func (s *State) processInst(inst ir.Instruction, ev *assoc.Event) {
	o := expr.Or(
		func() expr.Outcome { return s.tryHelperCall(inst, ev) },
		func() expr.Outcome { return s.tryExprUpdate(inst, ev) },
		func() expr.Outcome { return s.tryOtherUpdate(inst, ev) },
	)
	if o.IsErr() {
		s.recordWarning(fmt.Sprintf("Couldn't process inst '%s' with op %s", inst.String(), inst.Op()))
	}
}
