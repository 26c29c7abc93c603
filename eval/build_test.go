package eval

import (
	"testing"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
)

func newTestState() *State {
	return NewState(Options{}, 1)
}

func TestBuildValueConstant(t *testing.T) {
	s := newTestState()
	s.function = &ir.Function{Name: "f"}

	c := ir.ConstValue(ir.IntConst(ir.Integer(32), 5))
	o := s.buildValue(c)
	if !o.IsJust() {
		t.Fatalf("expected Just, got %+v", o)
	}
	want := expr.ILit(expr.Int32, 5)
	if !expr.Equal(o.Get(), want) {
		t.Errorf("buildValue(const 5) = %s, want %s", o.Get(), want)
	}
}

func TestBuildValueUnboundArgBecomesInput(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("f", []string{"x"}, []ir.Type{ir.Integer(32)})
	s := newTestState()
	s.function = f

	o := s.buildValue(f.Param(0))
	if !o.IsJust() {
		t.Fatalf("expected Just, got %+v", o)
	}
	want := expr.Input(expr.Int32, addr.IdLoc{Func: "f", Name: "x"})
	if !expr.Equal(o.Get(), want) {
		t.Errorf("buildValue(unbound arg) = %s, want %s", o.Get(), want)
	}
}

func TestBuildValueBoundNameReadsInfo(t *testing.T) {
	m := ir.NewModule()
	f := m.AddFunction("f", []string{"x"}, []ir.Type{ir.Integer(32)})
	s := newTestState()
	s.function = f
	s.set(addr.IdLoc{Func: "f", Name: "x"}, LocInfo{Expr: expr.ILit(expr.Int32, 9)})

	o := s.buildValue(f.Param(0))
	want := expr.ILit(expr.Int32, 9)
	if !o.IsJust() || !expr.Equal(o.Get(), want) {
		t.Errorf("buildValue(bound arg) = %+v, want Just(%s)", o, want)
	}
}

func TestBuildValueNilOperandIsIrrelevant(t *testing.T) {
	s := newTestState()
	o := s.buildValue(nil)
	if !o.IsIrrelevant() {
		t.Errorf("buildValue(nil) = %+v, want Irrelevant", o)
	}
}

func TestBuildConstUndef(t *testing.T) {
	s := newTestState()
	o := s.buildConst(ir.UndefConst(ir.Integer(32)))
	if !o.IsJust() {
		t.Fatalf("expected Just, got %+v", o)
	}
	if _, ok := o.Get().(*expr.UndefinedExpr); !ok {
		t.Errorf("buildConst(undef) = %s, want an UndefinedExpr", o.Get())
	}
}

func TestInsertSkipsErr(t *testing.T) {
	s := newTestState()
	loc := addr.IdLoc{Func: "f", Name: "x"}
	s.insert(loc, expr.Err("boom"))
	if _, ok := s.get(loc); ok {
		t.Error("insert should not bind loc on an Err outcome")
	}
}

func TestInsertSimplifies(t *testing.T) {
	s := newTestState()
	loc := addr.IdLoc{Func: "f", Name: "x"}
	x := expr.Input(expr.Int32, addr.IdLoc{Func: "f", Name: "y"})
	s.insert(loc, expr.Just(expr.Bin(expr.KAdd, expr.Int32, x, expr.ILit(expr.Int32, 0))))

	info, ok := s.get(loc)
	if !ok {
		t.Fatal("expected loc to be bound")
	}
	if !expr.Equal(info.Expr, x) {
		t.Errorf("insert should simplify before storing: got %s, want %s", info.Expr, x)
	}
}
