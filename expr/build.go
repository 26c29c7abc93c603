package expr

import "fmt"

// Outcome is the three-state result of attempting to build an expression:
// either a concrete value (Just), a deliberate "no expression applies here"
// (Irrelevant), or a failure (Err) meaning this build strategy does not
// apply, so Alt/Or go on to the next alternative.
type Outcome struct {
	expr Expr
	err  error
	// state == 0: Just, 1: Irrelevant, 2: Err
	state uint8
}

const (
	stateJust uint8 = iota
	stateIrrelevant
	stateErr
)

// Just wraps a successfully constructed expression.
func Just(e Expr) Outcome { return Outcome{expr: e, state: stateJust} }

// Irrelevant reports that no expression should be built here: not a
// failure, just nothing to say.
func Irrelevant() Outcome { return Outcome{state: stateIrrelevant} }

// Err wraps a failure of this build strategy; Alt and Or respond to it by
// trying the next alternative.
func Err(format string, args ...any) Outcome {
	return Outcome{err: fmt.Errorf(format, args...), state: stateErr}
}

// WrapErr lifts a plain error into an Err outcome. A nil error yields Just
// with a nil Expr, which callers should not normally produce; use Err or
// Irrelevant explicitly instead.
func WrapErr(err error) Outcome {
	if err == nil {
		return Outcome{state: stateJust}
	}
	return Outcome{err: err, state: stateErr}
}

// IsJust, IsIrrelevant, and IsErr classify the outcome.
func (o Outcome) IsJust() bool       { return o.state == stateJust }
func (o Outcome) IsIrrelevant() bool { return o.state == stateIrrelevant }
func (o Outcome) IsErr() bool        { return o.state == stateErr }

// Expr returns the built expression and true if o is Just.
func (o Outcome) Expr() (Expr, bool) {
	if o.state != stateJust {
		return nil, false
	}
	return o.expr, true
}

// Error returns the wrapped error, or nil if o is not Err.
func (o Outcome) Error() error { return o.err }

// Get returns the built expression, substituting the Irrelevant bottom
// value when o is Irrelevant. It panics if o is Err: callers that might see
// Err must check IsErr first, since that case should always be handled
// explicitly rather than silently downgraded to a value.
func (o Outcome) Get() Expr {
	switch o.state {
	case stateJust:
		return o.expr
	case stateIrrelevant:
		return IrrelevantValue
	default:
		panic(fmt.Sprintf("expr: Get called on Err outcome: %v", o.err))
	}
}

// Build is a thunk producing an Outcome, used to defer evaluation of
// alternatives in Alt/Or so that a later branch's side effects (e.g.
// consuming a memlog event) only happen if earlier branches did not apply.
type Build func() Outcome

// Alt tries first; if first is Just or Irrelevant, that outcome is
// returned unchanged — both are legitimate terminal results, not requests
// to keep looking. Only if first is Err (meaning that build strategy's
// preconditions weren't met, not that evaluation failed) is second
// invoked. This is the ordered-alternative combinator that drives
// instruction dispatch in the evaluator: "does this rule apply" is
// answered by Err, not by Irrelevant.
func Alt(first Build, second Build) Outcome {
	o := first()
	if !o.IsErr() {
		return o
	}
	return second()
}

// Or chains any number of alternatives left to right, returning the first
// Just or Irrelevant outcome. If every alternative returns Err, Or returns
// the first Err encountered.
func Or(alts ...Build) Outcome {
	var firstErr Outcome
	haveErr := false
	for _, alt := range alts {
		o := alt()
		if !o.IsErr() {
			return o
		}
		if !haveErr {
			firstErr, haveErr = o, true
		}
	}
	if haveErr {
		return firstErr
	}
	return Irrelevant()
}

// Map transforms a Just outcome's expression, passing Irrelevant and Err
// through unchanged.
func (o Outcome) Map(f func(Expr) Expr) Outcome {
	if o.state != stateJust {
		return o
	}
	return Just(f(o.expr))
}

// AndThen chains a dependent build step: f only runs if o is Just, and its
// result replaces o entirely. Irrelevant and Err propagate unchanged.
func (o Outcome) AndThen(f func(Expr) Outcome) Outcome {
	if o.state != stateJust {
		return o
	}
	return f(o.expr)
}
