package eval

import (
	"testing"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/assoc"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
)

func TestUpdateVolatileIPStoreLastWriteWins(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	store := b.StoreInst(ir.ConstValue(ir.IntConst(ir.Integer(64), 0x1000)), true)

	s := newTestState()
	s.function = f
	s.updateStore(store, nil)
	if s.currentIP == nil || *s.currentIP != 0x1000 {
		t.Fatalf("currentIP = %v, want 0x1000", s.currentIP)
	}

	store2 := b.StoreInst(ir.ConstValue(ir.IntConst(ir.Integer(64), 0x2000)), true)
	s.updateStore(store2, nil)
	if s.currentIP == nil || *s.currentIP != 0x2000 {
		t.Fatalf("second volatile store should win: currentIP = %v, want 0x2000", s.currentIP)
	}
}

func TestUpdateVolatileIPStoreNonConstWarns(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("main", []string{"x"}, []ir.Type{ir.Integer(64)})
	b := f.AddBlock()
	store := b.StoreInst(f.Param(0), true)

	s := newTestState()
	s.function = f
	s.updateStore(store, nil)
	if len(s.warnings) != 1 {
		t.Fatalf("expected 1 warning for a non-constant volatile IP store, got %d", len(s.warnings))
	}
}

func TestUpdateBranchUnconditional(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("main", nil, nil)
	a := f.AddBlock()
	bb := f.AddBlock()
	br := a.Br(bb)

	s := newTestState()
	s.function = f
	o := s.updateBranch(br, nil)
	if !o.IsJust() {
		t.Errorf("unconditional branch update = %+v, want Just", o)
	}
	if len(s.messages) != 1 {
		t.Fatalf("expected exactly one emitted message, got %d", len(s.messages))
	}
}

func TestUpdateBranchConditionalRequiresEvent(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("main", nil, nil)
	a := f.AddBlock()
	tb := f.AddBlock()
	fb := f.AddBlock()
	cond := ir.ConstValue(ir.IntConst(ir.Integer(8), 1))
	br := a.CondBranch(cond, tb, fb)

	s := newTestState()
	s.function = f
	if o := s.updateBranch(br, nil); !o.IsErr() {
		t.Errorf("conditional branch with no event should Err, got %+v", o)
	}

	ev := &assoc.Event{Op: &addr.MemlogOp{Kind: addr.EventBranch, Index: 0}}
	if o := s.updateBranch(br, ev); !o.IsJust() {
		t.Errorf("conditional branch with a Branch event = %+v, want Just", o)
	}
	if len(s.messages) != 1 {
		t.Fatalf("expected exactly one emitted message, got %d", len(s.messages))
	}
}

func TestUpdateCallSentinels(t *testing.T) {
	m := ir.NewModule()
	logDynval := m.AddExternal("log_dynval", ir.CallAttrs{})
	loopExit := m.AddExternal("cpu_loop_exit", ir.CallAttrs{})
	ordinary := m.AddExternal("puts", ir.CallAttrs{})

	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	c1 := b.Call("", ir.Void, logDynval, nil)
	c2 := b.Call("", ir.Void, loopExit, nil)
	c3 := b.Call("", ir.Void, ordinary, nil)

	s := newTestState()
	s.function = f

	s.skipRest = false
	s.updateCall(c1, nil)
	if s.skipRest {
		t.Error("log_dynval should not set skipRest")
	}

	s.updateCall(c2, nil)
	if !s.skipRest {
		t.Error("cpu_loop_exit should set skipRest")
	}

	s.skipRest = false
	s.updateCall(c3, nil)
	if s.skipRest {
		t.Error("an ordinary external call should not set skipRest")
	}
}

func TestUpdateCallNoReturnAttrSetsSkipRest(t *testing.T) {
	m := ir.NewModule()
	abort := m.AddExternal("abort", ir.CallAttrs{NoReturn: true})
	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	call := b.Call("", ir.Void, abort, nil)

	s := newTestState()
	s.function = f
	s.updateCall(call, nil)
	if !s.skipRest {
		t.Error("a NoReturn call should set skipRest regardless of its name")
	}
}

func TestUpdateMemsetSetsValue(t *testing.T) {
	m := ir.NewModule()
	memset := m.AddExternal(assoc.SentinelMemset, ir.CallAttrs{Intrinsic: true})
	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	dst := ir.ConstValue(ir.IntConst(ir.Pointer, 0))
	fillByte := ir.ConstValue(ir.IntConst(ir.Integer(8), 0))
	length := ir.ConstValue(ir.IntConst(ir.Integer(64), 8))
	call := b.Call("", ir.Void, memset, []ir.Value{dst, fillByte, length})

	a := addr.AddrEntry{KindOf: addr.MAddr, Value: 0x4000}
	ev := &assoc.Event{Op: &addr.MemlogOp{Kind: addr.EventMemset, MemsetAddr: a}}

	s := newTestState()
	s.function = f
	if o := s.updateMemset(call, ev); !o.IsJust() {
		t.Fatalf("updateMemset = %+v, want Just", o)
	}
	info, ok := s.get(addr.MemLoc{Addr: a})
	if !ok {
		t.Fatal("expected memset to bind the target MemLoc")
	}
	if !expr.Equal(info.Expr, expr.ILit(expr.Int8, 0)) {
		t.Errorf("memset value = %s, want ILit(Int8, 0)", info.Expr)
	}
}

func TestUpdateMemsetWarnsOnOversizedLength(t *testing.T) {
	m := ir.NewModule()
	memset := m.AddExternal(assoc.SentinelMemset, ir.CallAttrs{Intrinsic: true})
	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	dst := ir.ConstValue(ir.IntConst(ir.Pointer, 0))
	fillByte := ir.ConstValue(ir.IntConst(ir.Integer(8), 0))
	length := ir.ConstValue(ir.IntConst(ir.Integer(64), 64))
	call := b.Call("", ir.Void, memset, []ir.Value{dst, fillByte, length})

	a := addr.AddrEntry{KindOf: addr.MAddr, Value: 0x4000}
	ev := &assoc.Event{Op: &addr.MemlogOp{Kind: addr.EventMemset, MemsetAddr: a}}

	s := newTestState()
	s.function = f
	s.updateMemset(call, ev)
	if len(s.warnings) != 1 {
		t.Fatalf("expected a warning for a >16-byte memset, got %d warnings", len(s.warnings))
	}
}

func TestUpdateMemcpyCopiesInfo(t *testing.T) {
	m := ir.NewModule()
	memcpy := m.AddExternal(assoc.SentinelMemcpy, ir.CallAttrs{Intrinsic: true})
	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	dst := ir.ConstValue(ir.IntConst(ir.Pointer, 0))
	src := ir.ConstValue(ir.IntConst(ir.Pointer, 0))
	length := ir.ConstValue(ir.IntConst(ir.Integer(64), 4))
	call := b.Call("", ir.Void, memcpy, []ir.Value{dst, src, length})

	srcAddr := addr.AddrEntry{KindOf: addr.MAddr, Value: 0x5000}
	dstAddr := addr.AddrEntry{KindOf: addr.MAddr, Value: 0x6000}
	ev := &assoc.Event{Op: &addr.MemlogOp{Kind: addr.EventMemcpy, Src: srcAddr, Dst: dstAddr}}

	s := newTestState()
	s.function = f
	s.set(addr.MemLoc{Addr: srcAddr}, LocInfo{Expr: expr.ILit(expr.Int32, 99)})

	if o := s.updateMemcpy(call, ev); !o.IsJust() {
		t.Fatalf("updateMemcpy = %+v, want Just", o)
	}
	info, ok := s.get(addr.MemLoc{Addr: dstAddr})
	if !ok || !expr.Equal(info.Expr, expr.ILit(expr.Int32, 99)) {
		t.Errorf("memcpy destination = %+v, want ILit(Int32, 99)", info)
	}
}

func TestUpdateRetNoOperands(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	ret := b.Ret(nil)

	s := newTestState()
	s.function = f
	s.retVal = expr.ILit(expr.Int32, 1)
	s.updateRet(ret)
	if s.retVal != nil {
		t.Errorf("updateRet with no operand should clear retVal, got %v", s.retVal)
	}
}

func TestUnreachableWarns(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("main", nil, nil)
	b := f.AddBlock()
	unreach := b.Unreachable()

	s := newTestState()
	s.function = f
	s.tryOtherUpdate(unreach, nil)
	if len(s.warnings) != 1 {
		t.Fatalf("expected 1 warning for Unreachable, got %d", len(s.warnings))
	}
}
