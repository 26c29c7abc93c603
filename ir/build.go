package ir

import "fmt"

// inst is the concrete Instruction implementation used by the in-memory
// module builder below. Real IR parsers would hand the associator and
// evaluator their own Instruction implementation instead.
type inst struct {
	op            Op
	name          string
	typ           Type
	block         *BasicBlock
	operands      []Value
	indices       []int
	pred          Predicate
	volatile      bool
	callAttrs     CallAttrs
	callee        *Function
	phiIncoming   []Value
	branchTargets []*BasicBlock
}

func (i *inst) Name() string                 { return i.name }
func (i *inst) Type() Type                   { return i.typ }
func (i *inst) AsConst() (Const, bool)       { return Const{}, false }
func (i *inst) Op() Op                       { return i.op }
func (i *inst) Block() *BasicBlock           { return i.block }
func (i *inst) Operands() []Value            { return i.operands }
func (i *inst) Indices() []int               { return i.indices }
func (i *inst) Pred() Predicate              { return i.pred }
func (i *inst) Volatile() bool               { return i.volatile }
func (i *inst) CallAttrs() CallAttrs         { return i.callAttrs }
func (i *inst) Callee() *Function            { return i.callee }
func (i *inst) PhiIncoming() []Value         { return i.phiIncoming }
func (i *inst) BranchTargets() []*BasicBlock { return i.branchTargets }

func (i *inst) Function() *Function {
	if i.block == nil {
		return nil
	}
	return i.block.Fn
}

func (i *inst) String() string {
	if i.name != "" {
		return fmt.Sprintf("%%%s = %s %s", i.name, i.op, i.typ)
	}
	return fmt.Sprintf("%s %s", i.op, i.typ)
}

func (b *BasicBlock) append(i *inst) Instruction {
	i.block = b
	b.Insts = append(b.Insts, i)
	return i
}

// AddFunction declares a defined function (with basic blocks to be filled
// in via AddBlock) in the module.
func (m *Module) AddFunction(name string, paramNames []string, paramTypes []Type) *Function {
	params := make([]*argValue, len(paramNames))
	for i, n := range paramNames {
		params[i] = &argValue{name: n, typ: paramTypes[i]}
	}
	f := &Function{Name: name, Params: params}
	m.Funcs[name] = f
	return f
}

// AddExternal declares an external function, described only by attributes
// (no-return, intrinsic, ...) as the associator/evaluator need.
func (m *Module) AddExternal(name string, attrs CallAttrs) *Function {
	attrs.Name = name
	attrs.External = true
	f := &Function{Name: name, Attrs: attrs}
	m.Funcs[name] = f
	return f
}

func (f *Function) AddBlock() *BasicBlock {
	b := &BasicBlock{Index: len(f.Blocks), Fn: f}
	f.Blocks = append(f.Blocks, b)
	return b
}

func (b *BasicBlock) AddPred(p *BasicBlock) { b.preds = append(b.preds, p) }

func (b *BasicBlock) BinOp(op Op, name string, typ Type, lhs, rhs Value) Instruction {
	return b.append(&inst{op: op, name: name, typ: typ, operands: []Value{lhs, rhs}})
}

func (b *BasicBlock) Cast(op Op, name string, typ Type, x Value) Instruction {
	return b.append(&inst{op: op, name: name, typ: typ, operands: []Value{x}})
}

func (b *BasicBlock) ICmpInst(name string, pred Predicate, lhs, rhs Value) Instruction {
	return b.append(&inst{op: OpICmp, name: name, typ: Integer(8), pred: pred, operands: []Value{lhs, rhs}})
}

func (b *BasicBlock) LoadInst(name string, typ Type, volatile bool) Instruction {
	return b.append(&inst{op: OpLoad, name: name, typ: typ, volatile: volatile})
}

func (b *BasicBlock) StoreInst(value Value, volatile bool) Instruction {
	return b.append(&inst{op: OpStore, typ: Void, operands: []Value{value}, volatile: volatile})
}

func (b *BasicBlock) Alloca(name string, typ Type) Instruction {
	return b.append(&inst{op: OpAlloca, name: name, typ: Pointer})
}

func (b *BasicBlock) GetElementPtr(name string, base Value, indices ...Value) Instruction {
	ops := append([]Value{base}, indices...)
	return b.append(&inst{op: OpGetElementPtr, name: name, typ: Pointer, operands: ops})
}

func (b *BasicBlock) Phi(name string, typ Type, incoming []Value) Instruction {
	return b.append(&inst{op: OpPhi, name: name, typ: typ, phiIncoming: incoming})
}

func (b *BasicBlock) InsertValue(name string, typ Type, aggr, val Value, idx int) Instruction {
	return b.append(&inst{op: OpInsertValue, name: name, typ: typ, operands: []Value{aggr, val}, indices: []int{idx}})
}

func (b *BasicBlock) ExtractValue(name string, typ Type, aggr Value, idx int) Instruction {
	return b.append(&inst{op: OpExtractValue, name: name, typ: typ, operands: []Value{aggr}, indices: []int{idx}})
}

func (b *BasicBlock) Call(name string, typ Type, callee *Function, args []Value) Instruction {
	attrs := CallAttrs{Name: callee.Name}
	if callee.IsExternal() {
		attrs = callee.Attrs
	}
	return b.append(&inst{op: OpCall, name: name, typ: typ, operands: args, callee: callee, callAttrs: attrs})
}

func (b *BasicBlock) Ret(value Value) Instruction {
	var ops []Value
	if value != nil {
		ops = []Value{value}
	}
	return b.append(&inst{op: OpRet, typ: Void, operands: ops})
}

func (b *BasicBlock) CondBranch(cond Value, trueTarget, falseTarget *BasicBlock) Instruction {
	return b.append(&inst{op: OpBranch, typ: Void, operands: []Value{cond}, branchTargets: []*BasicBlock{trueTarget, falseTarget}})
}

func (b *BasicBlock) Br(target *BasicBlock) Instruction {
	return b.append(&inst{op: OpBranch, typ: Void, branchTargets: []*BasicBlock{target}})
}

func (b *BasicBlock) Switch() Instruction {
	return b.append(&inst{op: OpSwitch, typ: Void})
}

func (b *BasicBlock) Select(name string, typ Type, cond, tval, fval Value) Instruction {
	return b.append(&inst{op: OpSelect, name: name, typ: typ, operands: []Value{cond, tval, fval}})
}

func (b *BasicBlock) Unreachable() Instruction {
	return b.append(&inst{op: OpUnreachable, typ: Void})
}

// Arg returns the i'th parameter of f as a Value operand.
func (f *Function) Arg(i int) Value { return f.Param(i) }
