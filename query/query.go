// Package query implements the read-only view over a finished evaluator
// run: given an IP, or none, it returns the messages and warnings recorded
// during evaluation, optionally rendered to text. It never mutates the
// state it's given.
package query

import (
	"github.com/symtrace/symtrace/eval"
	"github.com/symtrace/symtrace/message"
)

// Interface is the query surface handed to a driver (CLI or, eventually, a
// wire server): a thin wrapper over eval.State's append-only logs.
type Interface struct {
	state *eval.State
	opts  message.RenderOptions
}

// New builds a query interface over a finished evaluation. opts controls
// how WatchIP/Rendered responses format expressions; the zero value of
// message.RenderOptions renders with no depth limit.
func New(state *eval.State, opts message.RenderOptions) *Interface {
	return &Interface{state: state, opts: opts}
}

// WatchIP returns, in emission order, the messages recorded while ip was
// current, capped at limit entries (0 means unlimited). This answers the
// wire protocol's WatchIP command; the JSON/TCP transport around it is out
// of scope here.
func (q *Interface) WatchIP(ip uint64, limit int) []message.Rendered {
	msgs := q.state.MessagesByIP(ip)
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	out := make([]message.Rendered, len(msgs))
	for i, m := range msgs {
		out[i] = message.RenderMessage(m, q.opts)
	}
	return out
}

// Messages returns every message the run emitted, in emission order, each
// paired with the IP that was current when it was emitted (nil if none).
func (q *Interface) Messages() []struct {
	IP  *uint64
	Msg message.Message
} {
	return q.state.MessagesWithIP()
}

// Warnings returns every warning the run recorded, in emission order.
func (q *Interface) Warnings() []struct {
	IP   *uint64
	Text string
} {
	return q.state.Warnings()
}

// RenderAll renders every message in the run, in emission order.
func (q *Interface) RenderAll() []message.Rendered {
	msgs := q.state.Messages()
	out := make([]message.Rendered, len(msgs))
	for i, m := range msgs {
		out[i] = message.RenderMessage(m, q.opts)
	}
	return out
}
