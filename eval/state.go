// Package eval implements the symbolic evaluator: it interprets an
// associator's aligned basic blocks over an abstract machine state,
// producing expressions, interesting-event messages, and warnings.
package eval

import (
	"log"

	"github.com/benbjohnson/immutable"

	"github.com/symtrace/symtrace/addr"
	"github.com/symtrace/symtrace/expr"
	"github.com/symtrace/symtrace/ir"
	"github.com/symtrace/symtrace/message"
	"github.com/symtrace/symtrace/utils"
)

// LocInfo is the current value at a Loc: the expression and the guest IP
// that wrote it, if known.
type LocInfo struct {
	Expr   expr.Expr
	Origin *uint64
}

// Options is the evaluator's tuning knobs, passed in as a plain record;
// there is no global configuration.
type Options struct {
	DebugIP      *uint64
	MessageLimit int
}

// ipMessage pairs a message with the (optional) IP it was emitted at, for
// the append-only top-level message log.
type ipMessage struct {
	IP  *uint64
	Msg message.Message
}

// ipWarning pairs a warning string with the (optional) IP it was recorded
// at.
type ipWarning struct {
	IP   *uint64
	Text string
}

// State is the evaluator's full mutable state, built up monotonically over
// a single analysis run and read by queries afterward. It is never shared
// across goroutines; the evaluator is single-threaded per run.
type State struct {
	info *immutable.Map[addr.Loc, LocInfo]

	previousBlock *ir.BasicBlock
	function      *ir.Function

	varNames    map[varNameKey]string
	varNameSeq  map[varNameKey]int

	currentIP *uint64

	warnings      []ipWarning
	messages      []ipMessage
	messagesByIP  map[uint64][]message.Message

	skipRest bool
	retVal   expr.Expr

	funcsProcessed int
	funcsTotal     int

	Options Options
}

// varNameKey is the (type, address) pair that fresh_name is injective
// over.
type varNameKey struct {
	t    expr.ExprT
	addr addr.AddrEntry
}

// NewState creates an empty evaluator state.
func NewState(opts Options, funcsTotal int) *State {
	return &State{
		info:         utils.NewImmMap[addr.Loc, LocInfo](),
		varNames:     map[varNameKey]string{},
		varNameSeq:   map[varNameKey]int{},
		messagesByIP: map[uint64][]message.Message{},
		funcsTotal:   funcsTotal,
		Options:      opts,
	}
}

func (s *State) get(l addr.Loc) (LocInfo, bool) {
	return s.info.Get(l)
}

func (s *State) set(l addr.Loc, info LocInfo) {
	s.info = s.info.Set(l, info)
}

// Info returns the value currently bound at l, if any.
func (s *State) Info(l addr.Loc) (LocInfo, bool) { return s.get(l) }

// CurrentIP returns the most recently committed guest instruction pointer.
func (s *State) CurrentIP() *uint64 { return s.currentIP }

func (s *State) recordWarning(text string) {
	w := ipWarning{IP: s.currentIP, Text: text}
	s.warnings = append(s.warnings, w)
	s.emit(message.Warning(message.FormatWarning(s.currentIP, text)))
	s.debugWarn(text)
}

func (s *State) emit(m message.Message) {
	s.messages = append(s.messages, ipMessage{IP: s.currentIP, Msg: m})
	if s.currentIP != nil {
		ip := *s.currentIP
		s.messagesByIP[ip] = append(s.messagesByIP[ip], m)
	}
	s.debugMessage(m)
}

// Messages returns the full ordered message log in emission order, without
// the IPs (see MessagesWithIP). The returned slice is owned by the caller.
func (s *State) Messages() []message.Message {
	out := make([]message.Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Msg
	}
	return out
}

// MessagesWithIP is like Messages but also returns each message's IP.
func (s *State) MessagesWithIP() []struct {
	IP  *uint64
	Msg message.Message
} {
	out := make([]struct {
		IP  *uint64
		Msg message.Message
	}, len(s.messages))
	for i, m := range s.messages {
		out[i] = struct {
			IP  *uint64
			Msg message.Message
		}{m.IP, m.Msg}
	}
	return out
}

// MessagesByIP returns, in emission order, the messages emitted while ip
// was current.
func (s *State) MessagesByIP(ip uint64) []message.Message {
	return append([]message.Message(nil), s.messagesByIP[ip]...)
}

// RecordFuncProcessed advances funcs_processed by one and, at roughly 1%
// granularity, writes a progress line to the diagnostic log. Call this once
// per top-level entry point handed to RunBlocks, not from the recursive
// helper-call descent.
func (s *State) RecordFuncProcessed() {
	s.funcsProcessed++
	if s.funcsTotal <= 0 {
		return
	}
	step := s.funcsTotal / 100
	if step <= 0 || s.funcsProcessed%step == 0 {
		log.Printf("progress: %d/%d functions processed", s.funcsProcessed, s.funcsTotal)
	}
}

// Warnings returns the full ordered warning log.
func (s *State) Warnings() []struct {
	IP   *uint64
	Text string
} {
	out := make([]struct {
		IP   *uint64
		Text string
	}, len(s.warnings))
	for i, w := range s.warnings {
		out[i] = struct {
			IP   *uint64
			Text string
		}{w.IP, w.Text}
	}
	return out
}
