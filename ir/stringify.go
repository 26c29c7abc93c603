package ir

import (
	"fmt"

	"github.com/fatih/color"
)

// SharedFunc and SharedBlock label values belonging to no particular
// function or block, mirroring cases where the source the evaluator runs
// over does not yet have that context resolved.
const (
	SharedFunc = "!#shared_func"
	SharedBlock = "!#shared_block"
)

var (
	funcColor  = color.New(color.FgHiYellow).SprintFunc()
	blockColor = color.New(color.FgHiCyan).SprintFunc()
	nameColor  = color.New(color.FgHiGreen).SprintFunc()
	instColor  = color.New(color.FgHiWhite, color.Faint).SprintFunc()
)

// FuncString renders a function name for debug traces, colorized when the
// caller has not disabled colorization.
func FuncString(f *Function, colorize bool) string {
	if f == nil {
		return SharedFunc
	}
	if !colorize {
		return f.Name
	}
	return funcColor(f.Name)
}

// BlockString renders "function:block" for debug traces.
func BlockString(b *BasicBlock, colorize bool) string {
	if b == nil {
		return SharedFunc + ":" + SharedBlock
	}
	label := fmt.Sprintf("%d", b.Index)
	if colorize {
		label = blockColor(label)
	}
	return FuncString(b.Fn, colorize) + ":" + label
}

// InstString renders "function:block: name = instruction" for debug
// traces, used by the evaluator's watch-IP side channel to show the
// instruction currently being processed.
func InstString(i Instruction, colorize bool) string {
	if i == nil {
		return ""
	}
	name := i.Name()
	if name != "" {
		name += " "
	}
	if colorize {
		name = nameColor(name)
	}
	body := i.String()
	if colorize {
		body = instColor(body)
	}
	return BlockString(i.Block(), colorize) + ": " + name + "= " + body
}
