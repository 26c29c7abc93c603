// Package assoc implements the memlog associator: it aligns a flat dynamic
// trace stream against an IR module's static control flow, attaching zero
// or one event to each executed instruction, and recursing into inlined
// helper calls to build their nested sub-memlogs.
package assoc

import (
	"fmt"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/ir"
	i "github.com/symtrace/symtrace/utils/indenter"
)

// Sentinel callee names the associator (and evaluator) special-case.
const (
	SentinelMemset     = "memset"
	SentinelMemcpy     = "memcpy"
	SentinelLogDynval  = "log_dynval"
	SentinelLoopExit   = "cpu_loop_exit"
)

// Event is one association result: either a plain wire-derived MemlogOp, or
// the nested sub-memlog consumed by an inlined helper call. Exactly one of
// the two fields is non-nil.
type Event struct {
	Op     *addr.MemlogOp
	Helper *MemlogList
}

// InstEvent pairs one instruction with its (optional) event.
type InstEvent struct {
	Inst  ir.Instruction
	Event *Event
}

// BlockEvents is one basic block's instructions paired with their events,
// in the order they were executed.
type BlockEvents struct {
	Block *ir.BasicBlock
	Insts []InstEvent
}

// MemlogList is the associator's output: the dynamic execution path as an
// ordered list of (block, instructions) pairs, plus the number of
// instructions aligned while walking this list's own function (blocks
// dropped by the interesting filter included), used for progress
// reporting. A helper call's instructions are counted in its own nested
// sub-list, not here.
type MemlogList struct {
	Blocks    []BlockEvents
	InstCount int
}

// AlignmentError is a fatal structural mismatch between the trace and the
// IR: either more events were required than remained, or an event's shape
// didn't match what the instruction needed.
type AlignmentError struct {
	Func  string
	Block int
	Inst  string
	Msg   string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("assoc: alignment error in %s:bb%d at %q: %s", e.Func, e.Block, e.Inst, e.Msg)
}

// Dump renders the dynamic execution path as an indented tree, for ad hoc
// inspection. Helper-call sub-memlogs nest
// directly inside their call instruction's line.
func (l *MemlogList) Dump() string {
	blocks := make([]string, len(l.Blocks))
	for idx, be := range l.Blocks {
		blocks[idx] = dumpBlock(be)
	}
	return i.Indenter().Start(fmt.Sprintf("MemlogList(%d insts) {", l.InstCount)).
		NestStrings(blocks...).End("}")
}

func dumpBlock(be BlockEvents) string {
	lines := make([]string, len(be.Insts))
	for idx, ie := range be.Insts {
		lines[idx] = dumpInstEvent(ie)
	}
	return i.Indenter().Start(be.Block.String() + " {").NestStrings(lines...).End("}")
}

func dumpInstEvent(ie InstEvent) string {
	switch {
	case ie.Event == nil:
		return ir.InstString(ie.Inst, false)
	case ie.Event.Helper != nil:
		return ir.InstString(ie.Inst, false) + " -> " + ie.Event.Helper.Dump()
	default:
		return ir.InstString(ie.Inst, false) + " -> " + ie.Event.Op.String()
	}
}

// cursor walks the flat trace stream, shared across the whole recursive
// descent so that nested helper calls consume from the same position their
// caller left off at.
type cursor struct {
	trace []addr.MemlogOp
	pos   int
}

func (c *cursor) pop() (addr.MemlogOp, bool) {
	if c.pos >= len(c.trace) {
		return addr.MemlogOp{}, false
	}
	op := c.trace[c.pos]
	c.pos++
	return op, true
}

// Associate runs the associator starting at entryFn's first block. Only
// blocks whose function name is in interesting are retained in the
// returned MemlogList; all blocks (interesting or not) still consume
// events, since the cursor must advance correctly regardless of filtering.
func Associate(mod *ir.Module, entryFn string, trace []addr.MemlogOp, interesting map[string]bool) (*MemlogList, error) {
	fn, ok := mod.Function(entryFn)
	if !ok {
		return nil, fmt.Errorf("assoc: entry function %q not found in module", entryFn)
	}
	c := &cursor{trace: trace}
	w := &walker{mod: mod, cursor: c, interesting: interesting}
	return w.walkFunction(fn)
}

type walker struct {
	mod         *ir.Module
	cursor      *cursor
	interesting map[string]bool
}

func (w *walker) fatal(fn *ir.Function, b *ir.BasicBlock, inst ir.Instruction, format string, args ...any) error {
	return &AlignmentError{
		Func:  fn.Name,
		Block: b.Index,
		Inst:  inst.String(),
		Msg:   fmt.Sprintf(format, args...),
	}
}

// walkFunction walks fn's basic blocks in dynamic order, following the
// trace's branch/select decisions, until the function returns (or a
// terminator the protocol does not model is hit).
func (w *walker) walkFunction(fn *ir.Function) (*MemlogList, error) {
	list := &MemlogList{}
	if len(fn.Blocks) == 0 {
		return list, nil
	}
	cur := fn.Blocks[0]
	for cur != nil {
		be := BlockEvents{Block: cur}
		next, terminate, err := w.walkBlock(fn, cur, &be, list)
		if err != nil {
			return nil, err
		}
		if w.interesting[fn.Name] {
			list.Blocks = append(list.Blocks, be)
		}
		if terminate {
			break
		}
		cur = next
	}
	return list, nil
}

// walkBlock processes every instruction of cur, appending association
// results to be, and returns the block to continue to next (nil if the
// function terminates here).
func (w *walker) walkBlock(fn *ir.Function, cur *ir.BasicBlock, be *BlockEvents, list *MemlogList) (*ir.BasicBlock, bool, error) {
	for _, inst := range cur.Insts {
		list.InstCount++
		ev, err := w.stepInstruction(fn, cur, inst)
		if err != nil {
			return nil, false, err
		}
		be.Insts = append(be.Insts, InstEvent{Inst: inst, Event: ev})
	}

	term := cur.Insts[len(cur.Insts)-1]
	switch term.Op() {
	case ir.OpBranch:
		targets := term.BranchTargets()
		if len(targets) == 1 {
			return targets[0], false, nil
		}
		// Conditional: consumed a Branch(i) event inside stepInstruction,
		// which recorded the chosen target on the instruction's event.
		idx := branchIndex(be)
		if idx < 0 || idx >= len(targets) {
			return nil, false, w.fatal(fn, cur, term, "branch index %d out of range for %d targets", idx, len(targets))
		}
		return targets[idx], false, nil
	case ir.OpRet, ir.OpUnreachable:
		return nil, true, nil
	case ir.OpSwitch:
		return nil, false, w.fatal(fn, cur, term, "switch target selection is not supported by this trace format")
	default:
		// A block whose last instruction isn't a terminator is malformed.
		return nil, false, w.fatal(fn, cur, term, "block does not end in a terminator (got op %s)", term.Op())
	}
}

// branchIndex extracts the index popped for the block's terminating
// conditional branch, which stepInstruction stashed as the last event.
func branchIndex(be *BlockEvents) int {
	if len(be.Insts) == 0 {
		return -1
	}
	last := be.Insts[len(be.Insts)-1]
	if last.Event == nil || last.Event.Op == nil {
		return -1
	}
	return int(last.Event.Op.Index)
}

func (w *walker) stepInstruction(fn *ir.Function, b *ir.BasicBlock, inst ir.Instruction) (*Event, error) {
	switch inst.Op() {
	case ir.OpLoad:
		op, ok := w.cursor.pop()
		if !ok {
			return nil, w.fatal(fn, b, inst, "expected Addr(Load) event, trace exhausted")
		}
		if op.Kind != addr.EventAddr || op.AddrOp != addr.OpLoad {
			return nil, w.fatal(fn, b, inst, "expected Addr(Load) event, got %s", op)
		}
		return &Event{Op: &op}, nil

	case ir.OpStore:
		if inst.Volatile() {
			return nil, nil
		}
		op, ok := w.cursor.pop()
		if !ok {
			return nil, w.fatal(fn, b, inst, "expected Addr(Store) event, trace exhausted")
		}
		if op.Kind != addr.EventAddr || op.AddrOp != addr.OpStore {
			return nil, w.fatal(fn, b, inst, "expected Addr(Store) event, got %s", op)
		}
		return &Event{Op: &op}, nil

	case ir.OpBranch:
		targets := inst.BranchTargets()
		if len(targets) == 1 {
			// Unconditional: consume a tagging record; there's no choice to
			// extract from it since there is only one target.
			op, ok := w.cursor.pop()
			if !ok {
				return nil, w.fatal(fn, b, inst, "expected branch tag event, trace exhausted")
			}
			return &Event{Op: &op}, nil
		}
		op, ok := w.cursor.pop()
		if !ok {
			return nil, w.fatal(fn, b, inst, "expected Branch event, trace exhausted")
		}
		if op.Kind != addr.EventBranch {
			return nil, w.fatal(fn, b, inst, "expected Branch event, got %s", op)
		}
		return &Event{Op: &op}, nil

	case ir.OpSelect:
		op, ok := w.cursor.pop()
		if !ok {
			return nil, w.fatal(fn, b, inst, "expected Select event, trace exhausted")
		}
		if op.Kind != addr.EventSelect {
			return nil, w.fatal(fn, b, inst, "expected Select event, got %s", op)
		}
		return &Event{Op: &op}, nil

	case ir.OpCall:
		return w.stepCall(fn, b, inst)

	default:
		return nil, nil
	}
}

func (w *walker) stepCall(fn *ir.Function, b *ir.BasicBlock, inst ir.Instruction) (*Event, error) {
	callee := inst.Callee()
	attrs := inst.CallAttrs()

	switch {
	case attrs.Intrinsic && attrs.Name == SentinelMemset:
		a, ok := w.cursor.pop()
		if !ok || a.Kind != addr.EventAddr {
			return nil, w.fatal(fn, b, inst, "expected Addr event for memset, got exhausted trace or wrong shape")
		}
		op := addr.MemsetEvent(a.Addr)
		return &Event{Op: &op}, nil

	case attrs.Intrinsic && attrs.Name == SentinelMemcpy:
		src, ok1 := w.cursor.pop()
		dst, ok2 := w.cursor.pop()
		if !ok1 || !ok2 || src.Kind != addr.EventAddr || dst.Kind != addr.EventAddr {
			return nil, w.fatal(fn, b, inst, "expected two Addr events for memcpy, got exhausted trace or wrong shape")
		}
		op := addr.MemcpyEvent(src.Addr, dst.Addr)
		return &Event{Op: &op}, nil

	case callee != nil && !callee.IsExternal():
		sub, err := w.walkFunction(callee)
		if err != nil {
			return nil, err
		}
		return &Event{Helper: sub}, nil

	default:
		// External, non-intrinsic call (log_dynval, cpu_loop_exit, ordinary
		// libc/runtime calls, ...): no event to pop.
		return nil, nil
	}
}
