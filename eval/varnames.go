package eval

import (
	"fmt"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/expr"
)

// freshName allocates (or reuses) a stable textual name for an
// uninitialized load from a memory-kind address. Non-memory-kind
// addresses (registers, etc.) get no name. Once assigned, a name is never
// rebound: varNames is a function, checked here by only ever inserting on
// first sight of a key.
func (s *State) freshName(t expr.ExprT, a addr.AddrEntry) *string {
	switch a.KindOf {
	case addr.MAddr, addr.HAddr, addr.IAddr, addr.LAddr:
	default:
		return nil
	}

	key := varNameKey{t: t, addr: a}
	if name, ok := s.varNames[key]; ok {
		return &name
	}

	seqKey := varNameKey{t: t}
	n := s.varNameSeq[seqKey]
	s.varNameSeq[seqKey] = n + 1

	// "{prettyT}_{loVal:04x}_{counter}", e.g. "Int32T_1000_0" for address
	// 0x401000: the low 16 bits of the address value, not the full
	// address, keep names short while still disambiguating nearby cells.
	name := fmt.Sprintf("%sT_%04x_%d", t, uint32(a.Value)&0xffff, n)
	s.varNames[key] = name
	return &name
}
