package utils

import (
	"testing"

	"github.com/symtrace/symtrace/addr"
)

func TestNewImmMapStoresAndLooksUpByHashableEq(t *testing.T) {
	m := NewImmMap[addr.Loc, int]()
	m = m.Set(addr.IdLoc{Func: "f", Name: "x"}, 1)
	m = m.Set(addr.MemLoc{Addr: addr.AddrEntry{KindOf: addr.MAddr, Value: 0x1000}}, 2)

	if v, ok := m.Get(addr.IdLoc{Func: "f", Name: "x"}); !ok || v != 1 {
		t.Errorf("Get(IdLoc) = (%d, %v), want (1, true)", v, ok)
	}
	if v, ok := m.Get(addr.MemLoc{Addr: addr.AddrEntry{KindOf: addr.MAddr, Value: 0x1000}}); !ok || v != 2 {
		t.Errorf("Get(MemLoc) = (%d, %v), want (2, true)", v, ok)
	}
	if _, ok := m.Get(addr.IdLoc{Func: "f", Name: "y"}); ok {
		t.Error("Get should not find a key that was never set")
	}
}

func TestHashableHasherMatchesUnderlyingMethods(t *testing.T) {
	h := HashableHasher[addr.Loc]()
	a := addr.IdLoc{Func: "f", Name: "x"}
	b := addr.IdLoc{Func: "f", Name: "x"}
	c := addr.IdLoc{Func: "f", Name: "y"}

	if h.Hash(a) != a.Hash() {
		t.Error("HashableHasher.Hash should delegate to the value's own Hash method")
	}
	if !h.Equal(a, b) {
		t.Error("two equal Locs should compare equal through the hasher")
	}
	if h.Equal(a, c) {
		t.Error("two distinct Locs should not compare equal through the hasher")
	}
}

func TestHashCombineDeterministicAndOrderSensitive(t *testing.T) {
	a := HashCombine(1, 2, 3)
	b := HashCombine(1, 2, 3)
	if a != b {
		t.Error("HashCombine should be deterministic for the same inputs")
	}
	if HashCombine(1, 2, 3) == HashCombine(3, 2, 1) {
		t.Error("HashCombine should be sensitive to argument order")
	}
}
