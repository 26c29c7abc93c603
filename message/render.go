package message

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/symtrace/symtrace/expr"
)

var (
	warningColor       = color.New(color.FgRed).SprintFunc()
	branchTakenColor   = color.New(color.FgGreen).SprintFunc()
	branchUntakenColor = color.New(color.FgYellow).SprintFunc()
)

// RenderOptions is the caller-supplied expression formatting used by a
// WatchIP response: how many nested levels of an expression tree to print
// before eliding the rest, and how many digits of a float literal's
// fractional part to keep. No wire transport is implemented here, but this
// is the rendering logic such a transport would call.
type RenderOptions struct {
	// MaxDepth is the deepest nesting level rendered before the subtree is
	// replaced with an elision marker. Zero means unlimited.
	MaxDepth int
	// FloatPrecision is the number of digits after the decimal point used
	// to render FLitExpr values.
	FloatPrecision int
	// Colorize turns on colorized Warning and Branch text, the way
	// eval's debug trace colorizes its own output.
	Colorize bool
}

// DefaultRenderOptions renders expressions in full, with typical float
// precision and colorization on.
var DefaultRenderOptions = RenderOptions{MaxDepth: 0, FloatPrecision: 6, Colorize: true}

// RenderExpr renders e as a single-line string honoring opts, eliding
// subtrees past MaxDepth. Only binary-operator nodes are descended into:
// any other composite node (cast, struct, extract, icmp, intrinsic) is
// rendered in full by its String() form, with no elision inside it and no
// FloatPrecision applied to float literals inside it.
func RenderExpr(e expr.Expr, opts RenderOptions) string {
	return renderExpr(e, opts, 0)
}

func renderExpr(e expr.Expr, opts RenderOptions, depth int) string {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		if isLeaf(e) {
			return renderLeaf(e, opts)
		}
		return "..."
	}
	switch n := e.(type) {
	case *expr.FLitExpr:
		return renderLeaf(e, opts)
	case *expr.BinExpr:
		return fmt.Sprintf("%s(%s, %s, %s)", n.Op, n.Typ, renderExpr(n.LHS, opts, depth+1), renderExpr(n.RHS, opts, depth+1))
	default:
		_ = n
		if isLeaf(e) {
			return renderLeaf(e, opts)
		}
		return e.String()
	}
}

func isLeaf(e expr.Expr) bool {
	switch e.(type) {
	case *expr.LoadExpr, *expr.ILitExpr, *expr.FLitExpr, *expr.InputExpr,
		*expr.GEPExpr, *expr.UndefinedExpr, *expr.IrrelevantExpr:
		return true
	default:
		return false
	}
}

func renderLeaf(e expr.Expr, opts RenderOptions) string {
	if lit, ok := e.(*expr.FLitExpr); ok {
		return fmt.Sprintf("%.*f", opts.FloatPrecision, lit.Val)
	}
	return e.String()
}

// Rendered is the text form of a Message as a wire response would send it.
type Rendered struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// RenderMessage renders m using opts for any embedded expressions.
func RenderMessage(m Message, opts RenderOptions) Rendered {
	switch m.Kind {
	case KindMemory:
		text := fmt.Sprintf("%s %s = %s", m.MemOp, m.Pretty, RenderExpr(m.Value, opts))
		if m.HasOrigin {
			text += fmt.Sprintf(" (origin %s)", RenderExpr(m.Origin, opts))
		}
		return Rendered{Kind: m.Kind.String(), Text: text}
	case KindBranch:
		text := fmt.Sprintf("branch %s taken=%v", RenderExpr(m.Cond, opts), m.Taken)
		if opts.Colorize {
			if m.Taken {
				text = branchTakenColor(text)
			} else {
				text = branchUntakenColor(text)
			}
		}
		return Rendered{Kind: m.Kind.String(), Text: text}
	case KindUnconditionalBranch:
		return Rendered{Kind: m.Kind.String(), Text: "unconditional branch"}
	case KindWarning:
		text := m.Text
		if opts.Colorize {
			text = warningColor(text)
		}
		return Rendered{Kind: m.Kind.String(), Text: text}
	default:
		return Rendered{Kind: "Unknown", Text: ""}
	}
}
