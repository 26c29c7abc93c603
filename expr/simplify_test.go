package expr

import (
	"testing"

	"github.com/symtrace/symtrace/addr"
)

func testLoc(name string) addr.Loc {
	return addr.IdLoc{Func: "f", Name: name}
}

func TestSimplifyAddZero(t *testing.T) {
	x := Input(Int32, testLoc("x"))

	cases := []struct {
		name string
		in   Expr
	}{
		{"x+0", Bin(KAdd, Int32, x, ILit(Int32, 0))},
		{"0+x", Bin(KAdd, Int32, ILit(Int32, 0), x)},
	}
	for _, c := range cases {
		if got := Simplify(c.in); !Equal(got, x) {
			t.Errorf("%s: Simplify(%s) = %s, want %s", c.name, c.in, got, x)
		}
	}
}

func TestSimplifyAshrZero(t *testing.T) {
	in := Bin(KAshr, Int32, ILit(Int32, 0), Input(Int32, testLoc("n")))
	want := ILit(Int32, 0)
	if got := Simplify(in); !Equal(got, want) {
		t.Errorf("Simplify(%s) = %s, want %s", in, got, want)
	}
}

func TestSimplifyTruncZextRoundTrip(t *testing.T) {
	x := Input(Int8, testLoc("x"))
	in := Cast(KTrunc, Int8, Cast(KZExt, Int32, x))
	if got := Simplify(in); !Equal(got, x) {
		t.Errorf("Simplify(%s) = %s, want %s", in, got, x)
	}
}

func TestSimplifyTruncSextRoundTrip(t *testing.T) {
	x := Input(Int8, testLoc("x"))
	in := Cast(KTrunc, Int8, Cast(KSExt, Int32, x))
	if got := Simplify(in); !Equal(got, x) {
		t.Errorf("Simplify(%s) = %s, want %s", in, got, x)
	}
}

func TestSimplifyTruncLiteralInRange(t *testing.T) {
	in := Cast(KTrunc, Int8, ILit(Int32, 5))
	want := ILit(Int8, 5)
	if got := Simplify(in); !Equal(got, want) {
		t.Errorf("Simplify(%s) = %s, want %s", in, got, want)
	}
}

func TestSimplifyTruncLiteralOutOfRangeKept(t *testing.T) {
	in := Cast(KTrunc, Int8, ILit(Int32, 300))
	if got := Simplify(in); got.Kind() != KTrunc {
		t.Errorf("Simplify(%s) = %s, want a kept Trunc (300 doesn't fit in 8 bits)", in, got)
	}
}

func TestSimplifyPtrToIntIntToPtrRoundTrip(t *testing.T) {
	x := Input(Int64, testLoc("p"))
	in := Cast(KPtrToInt, Int64, Cast(KIntToPtr, Ptr, x))
	if got := Simplify(in); !Equal(got, x) {
		t.Errorf("Simplify(%s) = %s, want %s", in, got, x)
	}
}

func TestSimplifyIntToPtrPtrToIntRoundTrip(t *testing.T) {
	x := Input(Int64, testLoc("n"))
	in := Cast(KIntToPtr, Ptr, Cast(KPtrToInt, Int64, x))
	if got := Simplify(in); !Equal(got, x) {
		t.Errorf("Simplify(%s) = %s, want %s", in, got, x)
	}
}

func TestSimplifyIntToPtrPtrToIntRoundTripWrongWidthKept(t *testing.T) {
	x := Input(Int32, testLoc("n"))
	in := Cast(KIntToPtr, Ptr, Cast(KPtrToInt, Int32, x))
	if got := Simplify(in); got.Kind() != KIntToPtr {
		t.Errorf("Simplify(%s) = %s, want kept (inner PtrToInt result type was Int32, not Int64)", in, got)
	}
}

func TestSimplifyIsBottomUp(t *testing.T) {
	// Add(Add(x, 0), 0) should fully collapse to x in one or more passes.
	x := Input(Int32, testLoc("x"))
	in := Bin(KAdd, Int32, Bin(KAdd, Int32, x, ILit(Int32, 0)), ILit(Int32, 0))
	if got := Simplify(in); !Equal(got, x) {
		t.Errorf("Simplify(%s) = %s, want %s", in, got, x)
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	in := Bin(KMul, Int32, ILit(Int32, 3), Input(Int32, testLoc("y")))
	once := Simplify(in)
	twice := Simplify(once)
	if !Equal(once, twice) {
		t.Errorf("Simplify should be idempotent: Simplify(e)=%s, Simplify(Simplify(e))=%s", once, twice)
	}
}
