package addr

import "fmt"

// AddrOp is the operation tag carried by an Addr-kind trace record.
type AddrOp uint8

const (
	OpLoad AddrOp = iota
	OpStore
	OpBranchAddr
	OpSelectAddr
)

func (o AddrOp) String() string {
	switch o {
	case OpLoad:
		return "Load"
	case OpStore:
		return "Store"
	case OpBranchAddr:
		return "BranchAddr"
	case OpSelectAddr:
		return "SelectAddr"
	default:
		return fmt.Sprintf("AddrOp(%d)", uint8(o))
	}
}

// EventKind discriminates the MemlogOp variants, excluding HelperFunc: a
// helper call's nested sub-memlog can only be built once the associator
// has walked the callee's IR, so it is represented one layer up, in
// package assoc (see assoc.Event).
type EventKind uint8

const (
	EventAddr EventKind = iota
	EventBranch
	EventSelect
	EventMemset
	EventMemcpy
)

func (k EventKind) String() string {
	switch k {
	case EventAddr:
		return "Addr"
	case EventBranch:
		return "Branch"
	case EventSelect:
		return "Select"
	case EventMemset:
		return "Memset"
	case EventMemcpy:
		return "Memcpy"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// MemlogOp is one dynamic trace event. Only EventAddr/EventBranch/
// EventSelect are produced directly by the wire-format reader (tracefmt);
// EventMemset and EventMemcpy are reconstructed by the associator from
// context (the call target's intrinsic/no-return attributes) out of one or
// two wire-level Addr records, respectively.
type MemlogOp struct {
	Kind EventKind

	// valid when Kind == EventAddr
	AddrOp AddrOp
	Addr   AddrEntry

	// valid when Kind == EventBranch or EventSelect
	Index uint32

	// valid when Kind == EventMemset
	MemsetAddr AddrEntry

	// valid when Kind == EventMemcpy
	Src, Dst AddrEntry
}

func AddrEvent(op AddrOp, a AddrEntry) MemlogOp {
	return MemlogOp{Kind: EventAddr, AddrOp: op, Addr: a}
}

func BranchEvent(index uint32) MemlogOp { return MemlogOp{Kind: EventBranch, Index: index} }
func SelectEvent(index uint32) MemlogOp { return MemlogOp{Kind: EventSelect, Index: index} }
func MemsetEvent(a AddrEntry) MemlogOp  { return MemlogOp{Kind: EventMemset, MemsetAddr: a} }
func MemcpyEvent(src, dst AddrEntry) MemlogOp {
	return MemlogOp{Kind: EventMemcpy, Src: src, Dst: dst}
}

func (m MemlogOp) String() string {
	switch m.Kind {
	case EventAddr:
		return fmt.Sprintf("Addr(%s, %s)", m.AddrOp, m.Addr)
	case EventBranch:
		return fmt.Sprintf("Branch(%d)", m.Index)
	case EventSelect:
		return fmt.Sprintf("Select(%d)", m.Index)
	case EventMemset:
		return fmt.Sprintf("Memset(%s)", m.MemsetAddr)
	case EventMemcpy:
		return fmt.Sprintf("Memcpy(%s, %s)", m.Src, m.Dst)
	default:
		return "MemlogOp(?)"
	}
}
