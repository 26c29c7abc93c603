package message

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/expr"
)

func TestRenderExprElidesPastMaxDepth(t *testing.T) {
	deep := expr.Bin(expr.KAdd, expr.Int32,
		expr.Bin(expr.KAdd, expr.Int32, expr.ILit(expr.Int32, 1), expr.ILit(expr.Int32, 2)),
		expr.ILit(expr.Int32, 3))

	full := RenderExpr(deep, RenderOptions{MaxDepth: 0})
	if got, want := full, "Add(Int32, Add(Int32, ILit(Int32, 1), ILit(Int32, 2)), ILit(Int32, 3))"; got != want {
		t.Errorf("unlimited depth = %q, want %q", got, want)
	}

	shallow := RenderExpr(deep, RenderOptions{MaxDepth: 1})
	if got, want := shallow, "Add(Int32, ..., ILit(Int32, 3))"; got != want {
		t.Errorf("MaxDepth=1 = %q, want %q", got, want)
	}
}

func TestRenderExprFloatPrecision(t *testing.T) {
	f := expr.FLit(expr.Float, 1.0/3.0)
	got := RenderExpr(f, RenderOptions{FloatPrecision: 2})
	if want := "0.33"; got != want {
		t.Errorf("RenderExpr(float, precision=2) = %q, want %q", got, want)
	}
}

func TestRenderMessageKinds(t *testing.T) {
	opts := DefaultRenderOptions
	mem := Memory(addr.OpStore, "0x00001000", expr.ILit(expr.Int32, 5), nil)
	r := RenderMessage(mem, opts)
	if r.Kind != "Memory" || r.Text != "Store 0x00001000 = ILit(Int32, 5)" {
		t.Errorf("RenderMessage(Memory) = %+v", r)
	}

	branch := Branch(expr.ILit(expr.Int8, 1), false)
	rb := RenderMessage(branch, opts)
	if rb.Kind != "Branch" || rb.Text != "branch ILit(Int8, 1) taken=false" {
		t.Errorf("RenderMessage(Branch) = %+v", rb)
	}

	ru := RenderMessage(UnconditionalBranchMsg, opts)
	if ru.Kind != "UnconditionalBranch" || ru.Text != "unconditional branch" {
		t.Errorf("RenderMessage(UnconditionalBranch) = %+v", ru)
	}

	rw := RenderMessage(Warning("bad"), opts)
	if rw.Kind != "Warning" || rw.Text != "bad" {
		t.Errorf("RenderMessage(Warning) = %+v", rw)
	}
}

func TestRenderMessageColorizeWrapsWarningAndBranch(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = prev }()

	opts := RenderOptions{Colorize: true}

	rw := RenderMessage(Warning("bad"), opts)
	if rw.Text == "bad" || !strings.Contains(rw.Text, "bad") {
		t.Errorf("colorized Warning text = %q, want ANSI-wrapped \"bad\"", rw.Text)
	}

	taken := RenderMessage(Branch(expr.ILit(expr.Int8, 1), true), opts)
	if !strings.Contains(taken.Text, "taken=true") || taken.Text == "branch ILit(Int8, 1) taken=true" {
		t.Errorf("colorized Branch(taken) text = %q, want ANSI-wrapped", taken.Text)
	}

	untaken := RenderMessage(Branch(expr.ILit(expr.Int8, 1), false), opts)
	if !strings.Contains(untaken.Text, "taken=false") || untaken.Text == "branch ILit(Int8, 1) taken=false" {
		t.Errorf("colorized Branch(untaken) text = %q, want ANSI-wrapped", untaken.Text)
	}

	opts.Colorize = false
	plain := RenderMessage(Warning("bad"), opts)
	if plain.Text != "bad" {
		t.Errorf("Colorize=false Warning text = %q, want plain \"bad\"", plain.Text)
	}
}
