package expr

import (
	"fmt"
	"strings"

	"github.com/symtrace/symtrace/addr"
)

// Kind tags an Expr's concrete variant: a closed set of arithmetic,
// cast, aggregate, and leaf node kinds.
type Kind uint8

const (
	KAdd Kind = iota
	KSub
	KMul
	KDiv
	KRem
	KShl
	KLshr
	KAshr
	KAnd
	KOr
	KXor

	KTrunc
	KZExt
	KSExt
	KFPTrunc
	KFPExt
	KFPToSI
	KFPToUI
	KSIToFP
	KUIToFP
	KPtrToInt
	KIntToPtr
	KBitcast

	KStruct
	KExtract
	KICmp
	KIntrinsic
	KLoad
	KILit
	KFLit
	KInput
	KGEP
	KUndefined
	KIrrelevant
)

var kindNames = [...]string{
	"Add", "Sub", "Mul", "Div", "Rem", "Shl", "Lshr", "Ashr", "And", "Or", "Xor",
	"Trunc", "ZExt", "SExt", "FPTrunc", "FPExt", "FPToSI", "FPToUI", "SIToFP", "UIToFP",
	"PtrToInt", "IntToPtr", "Bitcast",
	"Struct", "Extract", "ICmp", "Intrinsic", "Load", "ILit", "FLit", "Input", "GEP",
	"Undefined", "Irrelevant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Expr is an immutable algebraic tree node, compared as a value object:
// two expressions are Equal iff their canonical String() representations
// match, which in turn is true iff they have the same Kind, type, and
// equal children.
type Expr interface {
	Kind() Kind
	Type() ExprT
	String() string
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// --- Binary arithmetic/logic -------------------------------------------------

type BinExpr struct {
	Op       Kind
	Typ      ExprT
	LHS, RHS Expr
}

func (e *BinExpr) Kind() Kind  { return e.Op }
func (e *BinExpr) Type() ExprT { return e.Typ }
func (e *BinExpr) String() string {
	return fmt.Sprintf("%s(%s, %s, %s)", e.Op, e.Typ, e.LHS, e.RHS)
}

func Bin(op Kind, t ExprT, lhs, rhs Expr) Expr { return &BinExpr{Op: op, Typ: t, LHS: lhs, RHS: rhs} }

// --- Unary casts --------------------------------------------------------------

type CastExpr struct {
	Op  Kind
	Typ ExprT
	X   Expr
}

func (e *CastExpr) Kind() Kind  { return e.Op }
func (e *CastExpr) Type() ExprT { return e.Typ }
func (e *CastExpr) String() string {
	return fmt.Sprintf("%s(%s, %s)", e.Op, e.Typ, e.X)
}

func Cast(op Kind, t ExprT, x Expr) Expr { return &CastExpr{Op: op, Typ: t, X: x} }

// --- Aggregates ----------------------------------------------------------------

type StructExpr struct {
	Typ    ExprT
	Fields []Expr
}

func (e *StructExpr) Kind() Kind  { return KStruct }
func (e *StructExpr) Type() ExprT { return e.Typ }
func (e *StructExpr) String() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("Struct(%s, [%s])", e.Typ, strings.Join(parts, ", "))
}

type ExtractExpr struct {
	Typ   ExprT
	Index int
	Aggr  Expr
}

func (e *ExtractExpr) Kind() Kind  { return KExtract }
func (e *ExtractExpr) Type() ExprT { return e.Typ }
func (e *ExtractExpr) String() string {
	return fmt.Sprintf("Extract(%s, %d, %s)", e.Typ, e.Index, e.Aggr)
}

// --- Comparison ------------------------------------------------------------------

type ICmpExpr struct {
	Pred     Predicate
	LHS, RHS Expr
}

func (e *ICmpExpr) Kind() Kind  { return KICmp }
func (e *ICmpExpr) Type() ExprT { return Int8 }
func (e *ICmpExpr) String() string {
	return fmt.Sprintf("ICmp(%s, %s, %s)", e.Pred, e.LHS, e.RHS)
}

// --- Intrinsic call ----------------------------------------------------------------

type IntrinsicExpr struct {
	Name string
	Typ  ExprT
	Args []Expr
}

func (e *IntrinsicExpr) Kind() Kind  { return KIntrinsic }
func (e *IntrinsicExpr) Type() ExprT { return e.Typ }
func (e *IntrinsicExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("Intrinsic(%s, %s, [%s])", e.Name, e.Typ, strings.Join(parts, ", "))
}

// --- Load ------------------------------------------------------------------------

type LoadExpr struct {
	Typ  ExprT
	Addr addr.AddrEntry
	Name *string
}

func (e *LoadExpr) Kind() Kind  { return KLoad }
func (e *LoadExpr) Type() ExprT { return e.Typ }
func (e *LoadExpr) String() string {
	if e.Name != nil {
		return fmt.Sprintf("LoadExpr(%s, %s, Some(%q))", e.Typ, e.Addr, *e.Name)
	}
	return fmt.Sprintf("LoadExpr(%s, %s, None)", e.Typ, e.Addr)
}

// --- Literals -----------------------------------------------------------------

type ILitExpr struct {
	Typ ExprT
	Val uint64
}

func (e *ILitExpr) Kind() Kind  { return KILit }
func (e *ILitExpr) Type() ExprT { return e.Typ }
func (e *ILitExpr) String() string {
	return fmt.Sprintf("ILit(%s, %d)", e.Typ, e.Val)
}

type FLitExpr struct {
	Typ ExprT
	Val float64
}

func (e *FLitExpr) Kind() Kind  { return KFLit }
func (e *FLitExpr) Type() ExprT { return e.Typ }
func (e *FLitExpr) String() string {
	return fmt.Sprintf("FLit(%s, %v)", e.Typ, e.Val)
}

func ILit(t ExprT, v uint64) Expr  { return &ILitExpr{Typ: t, Val: v} }
func FLit(t ExprT, v float64) Expr { return &FLitExpr{Typ: t, Val: v} }

// --- Input (free variable) ----------------------------------------------------

type InputExpr struct {
	Typ ExprT
	Loc addr.Loc
}

func (e *InputExpr) Kind() Kind  { return KInput }
func (e *InputExpr) Type() ExprT { return e.Typ }
func (e *InputExpr) String() string {
	return fmt.Sprintf("InputExpr(%s, %s)", e.Typ, e.Loc)
}

func Input(t ExprT, l addr.Loc) Expr { return &InputExpr{Typ: t, Loc: l} }

// --- Opaque / bottoms ------------------------------------------------------------

type GEPExpr struct{ Typ ExprT }

func (e *GEPExpr) Kind() Kind      { return KGEP }
func (e *GEPExpr) Type() ExprT     { return e.Typ }
func (e *GEPExpr) String() string  { return "GEP" }

func GEP(t ExprT) Expr { return &GEPExpr{Typ: t} }

type UndefinedExpr struct{ Typ ExprT }

func (e *UndefinedExpr) Kind() Kind     { return KUndefined }
func (e *UndefinedExpr) Type() ExprT    { return e.Typ }
func (e *UndefinedExpr) String() string { return fmt.Sprintf("Undefined(%s)", e.Typ) }

func Undefined(t ExprT) Expr { return &UndefinedExpr{Typ: t} }

type IrrelevantExpr struct{}

func (e *IrrelevantExpr) Kind() Kind     { return KIrrelevant }
func (e *IrrelevantExpr) Type() ExprT    { return Void }
func (e *IrrelevantExpr) String() string { return "Irrelevant" }

// IrrelevantValue is the single Irrelevant bottom value.
var IrrelevantValue Expr = &IrrelevantExpr{}

// IsIrrelevant reports whether e is the Irrelevant bottom.
func IsIrrelevant(e Expr) bool {
	_, ok := e.(*IrrelevantExpr)
	return ok
}
