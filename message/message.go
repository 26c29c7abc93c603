// Package message defines the discriminated union the evaluator emits for
// queries to read back, plus the options controlling how an emitted
// expression is rendered as text.
//
// It sits above both expr and addr rather than inside either: a Memory
// message needs an addr.AddrEntry for its "where" and an expr.Expr for its
// "what", and putting it in either package would pull that package into
// depending on the other for no benefit to either's own concerns.
package message

import (
	"fmt"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/expr"
)

// Kind discriminates the Message variants.
type Kind uint8

const (
	KindMemory Kind = iota
	KindBranch
	KindUnconditionalBranch
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "Memory"
	case KindBranch:
		return "Branch"
	case KindUnconditionalBranch:
		return "UnconditionalBranch"
	case KindWarning:
		return "Warning"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Message is the read-only record the query layer hands back to callers.
// Exactly the fields relevant to Kind are populated; the rest are zero.
type Message struct {
	Kind Kind

	// valid when Kind == KindMemory
	MemOp   addr.AddrOp
	Pretty  string
	Value   expr.Expr
	Origin  expr.Expr // nil if no origin expression could be built
	HasOrigin bool

	// valid when Kind == KindBranch
	Cond  expr.Expr
	Taken bool

	// valid when Kind == KindWarning
	Text string
}

// Memory builds a Memory message. origin may be nil, in which case the
// rendered message omits it; the evaluator passes nil when the loaded or
// stored value has no outer IntToPtr cast to strip.
func Memory(op addr.AddrOp, pretty string, value expr.Expr, origin expr.Expr) Message {
	return Message{
		Kind: KindMemory, MemOp: op, Pretty: pretty, Value: value,
		Origin: origin, HasOrigin: origin != nil,
	}
}

// Branch builds a conditional-branch message.
func Branch(cond expr.Expr, taken bool) Message {
	return Message{Kind: KindBranch, Cond: cond, Taken: taken}
}

// UnconditionalBranchMsg is the fixed unconditional-branch message.
var UnconditionalBranchMsg = Message{Kind: KindUnconditionalBranch}

// Warning builds a warning message carrying text as given. The evaluator
// passes text already formatted by FormatWarning as
// " - (<hex-ip-or-unknown>) <text>".
func Warning(text string) Message {
	return Message{Kind: KindWarning, Text: text}
}

// FormatWarning renders a warning the way it is appended to the message
// stream, given the IP it was recorded at (nil for "unknown").
func FormatWarning(ip *uint64, text string) string {
	if ip == nil {
		return fmt.Sprintf(" - (unknown) %s", text)
	}
	return fmt.Sprintf(" - (0x%x) %s", *ip, text)
}

func (m Message) String() string {
	switch m.Kind {
	case KindMemory:
		if m.HasOrigin {
			return fmt.Sprintf("Memory(%s, %s, %s, Some(%s))", m.MemOp, m.Pretty, m.Value, m.Origin)
		}
		return fmt.Sprintf("Memory(%s, %s, %s, None)", m.MemOp, m.Pretty, m.Value)
	case KindBranch:
		return fmt.Sprintf("Branch(%s, taken=%v)", m.Cond, m.Taken)
	case KindUnconditionalBranch:
		return "UnconditionalBranch"
	case KindWarning:
		return fmt.Sprintf("Warning(%q)", m.Text)
	default:
		return "Message(?)"
	}
}
