// Copyright The sixgen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package codegen

import (
	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/types"
)

// emitBinary dispatches a BinaryOp node per the strategies documented in
// spec.md §4.4's "Selected emission strategies".
func (e *Emitter) emitBinary(n *ast.Node, lValue bool) bool {
	if n.Op.IsAssign() {
		return e.emitAssign(n)
	}
	//
	switch n.Op {
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		return e.emitComparisonAsValue(n)
	case ast.OpLogAnd, ast.OpLogOr:
		return e.emitLogicalAsValue(n)
	case ast.OpAdd, ast.OpSub:
		return e.emitAddSub(n)
	case ast.OpMul, ast.OpDiv, ast.OpMod:
		return e.emitMulDivMod(n)
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		return e.emitBitwise(n)
	case ast.OpShl, ast.OpShr:
		return e.emitShift(n)
	default:
		return true
	}
}

// emitAddSub implements the add/subtract emission strategy: constant
// folding first, then pointer arithmetic (always multiplying the integer
// operand by the pointee size), then plain word/long/real addition via
// load-push-operate.
func (e *Emitter) emitAddSub(n *ast.Node) bool {
	l := e.ctxArena(n.A)
	r := e.ctxArena(n.B)
	//
	if v, ok := emitBinOpIfConstants(n.Op, l, r); ok {
		e.Out.Insn("", "LDD", immediateWord(uint16(v)), "")
		return true
	}
	//
	if n.Type.Kind == types.POINTER || n.Type.Kind == types.ARRAY {
		return e.emitPointerAddSub(n, l, r)
	}
	//
	if n.Type.Kind == types.LONG {
		op := "add"
		if n.Op == ast.OpSub {
			op = "sub"
		}
		return e.emitDWordCombine(op, n, l, r)
	}
	if n.Type.Kind == types.REAL {
		op := "add"
		if n.Op == ast.OpSub {
			op = "sub"
		}
		return e.emitRealCombine(op, n, l, r)
	}
	//
	mnemonic := "ADDD"
	if n.Op == ast.OpSub {
		mnemonic = "SUBD"
	}
	if !e.emitExpr(n.A, false) {
		return false
	}
	e.Out.Insn("", "PSHS", "D", "")
	if !e.emitExpr(n.B, false) {
		return false
	}
	e.Out.Insn("", mnemonic, ",S++", "")
	return true
}

func (e *Emitter) emitPointerAddSub(n, l, r *ast.Node) bool {
	pointee := n.Type.Pointee
	size := 1
	if !pointee.IsIncomplete(e.Types) {
		size = e.Types.SizeOf(pointee)
	}
	//
	lPtr := l.Type.IsPointerOrArray()
	rPtr := r.Type.IsPointerOrArray()
	//
	if lPtr && rPtr && n.Op == ast.OpSub {
		if !e.emitExpr(n.A, false) {
			return false
		}
		e.Out.Insn("", "PSHS", "D", "")
		if !e.emitExpr(n.B, false) {
			return false
		}
		e.Out.Insn("", "SUBD", ",S++", "")
		return e.emitDivideByConstant(size, true)
	}
	//
	intOperand, ptrOperand := n.B, n.A
	if rPtr {
		intOperand, ptrOperand = n.A, n.B
	}
	if !e.emitExpr(ptrOperand, false) {
		return false
	}
	if shift, ok := isPowerOfTwo(size); ok && shift == 0 {
		// size 1: no multiply needed
	}
	e.Out.Insn("", "PSHS", "D", "")
	if !e.emitExpr(intOperand, false) {
		return false
	}
	if size != 1 {
		e.emitMultiplyByConstant(size)
	}
	if n.Op == ast.OpSub && !rPtr {
		// "ptr - int": negate the scaled integer, then add it to the pointer.
		e.Out.Insn("", "NEGA", "", "")
		e.Out.Insn("", "NEGB", "", "")
		e.Out.Insn("", "SBCA", "#0", "")
	}
	e.Out.Insn("", "ADDD", ",S++", "")
	return true
}

// emitDivideByConstant divides D by a compile-time constant, preferring a
// shift for powers of two and the MUL16/DIV16 helper family otherwise.
func (e *Emitter) emitDivideByConstant(value int, unsignedOK bool) bool {
	if shift, ok := isPowerOfTwo(value); ok {
		for i := uint(0); i < shift; i++ {
			e.Out.Insn("", "LSRA", "", "")
			e.Out.Insn("", "RORB", "", "")
		}
		return true
	}
	e.Out.Insn("", "PSHS", "D", "")
	e.Out.Insn("", "LDD", immediateWord(uint16(value)), "")
	e.Out.Insn("", "LBSR", e.need("DIV16"), "")
	return true
}

func (e *Emitter) emitMultiplyByConstant(value int) {
	if shift, ok := isPowerOfTwo(value); ok {
		for i := uint(0); i < shift; i++ {
			e.Out.Insn("", "LSLB", "", "")
			e.Out.Insn("", "ROLA", "", "")
		}
		return
	}
	e.Out.Insn("", "LDX", immediateWord(uint16(value)), "")
	e.Out.Insn("", "LBSR", e.need("MUL16"), "")
}

func (e *Emitter) emitMulDivMod(n *ast.Node) bool {
	l := e.ctxArena(n.A)
	r := e.ctxArena(n.B)
	if v, ok := emitBinOpIfConstants(n.Op, l, r); ok {
		e.Out.Insn("", "LDD", immediateWord(uint16(v)), "")
		return true
	}
	//
	if n.Type.Kind == types.LONG {
		op := map[ast.Operator]string{ast.OpMul: "mul", ast.OpDiv: "div", ast.OpMod: "mod"}[n.Op]
		return e.emitDWordCombine(op, n, l, r)
	}
	if n.Type.Kind == types.REAL {
		op := map[ast.Operator]string{ast.OpMul: "mul", ast.OpDiv: "div", ast.OpMod: "mod"}[n.Op]
		return e.emitRealCombine(op, n, l, r)
	}
	//
	if !e.emitExpr(n.A, false) {
		return false
	}
	e.Out.Insn("", "PSHS", "D", "")
	if !e.emitExpr(n.B, false) {
		return false
	}
	e.Out.Insn("", "LDX", ",S++", "")
	switch {
	case n.Op == ast.OpMul:
		e.Out.Insn("", "LBSR", e.need("MUL16"), "")
	case n.Op == ast.OpDiv && n.Type.IsSigned:
		e.Out.Insn("", "LBSR", e.need("SDIV16"), "")
	default:
		e.Out.Insn("", "LBSR", e.need("DIV16"), "")
	}
	return true
}

// emitBitwise handles &, |, ^: a direct ANDA/ANDB-family instruction for
// byte/word, or a three-address DWord helper for longs (spec.md §4.4).
func (e *Emitter) emitBitwise(n *ast.Node) bool {
	l := e.ctxArena(n.A)
	r := e.ctxArena(n.B)
	if v, ok := emitBinOpIfConstants(n.Op, l, r); ok {
		e.Out.Insn("", "LDD", immediateWord(uint16(v)), "")
		return true
	}
	//
	if n.Type.Kind == types.LONG {
		op := map[ast.Operator]string{ast.OpBitAnd: "and", ast.OpBitOr: "or", ast.OpBitXor: "xor"}[n.Op]
		return e.emitDWordCombine(op, n, l, r)
	}
	//
	// The 6809 has no 16-bit logical instruction: PSHS D leaves A at ,S and
	// B at 1,S, so the word-wide op is two 8-bit ops against the halves.
	highOp := map[ast.Operator]string{ast.OpBitAnd: "ANDA", ast.OpBitOr: "ORA", ast.OpBitXor: "EORA"}[n.Op]
	lowOp := map[ast.Operator]string{ast.OpBitAnd: "ANDB", ast.OpBitOr: "ORB", ast.OpBitXor: "EORB"}[n.Op]
	if !e.emitExpr(n.A, false) {
		return false
	}
	e.Out.Insn("", "PSHS", "D", "")
	if !e.emitExpr(n.B, false) {
		return false
	}
	e.Out.Insn("", highOp, ",S", "")
	e.Out.Insn("", lowOp, "1,S", "")
	e.Out.Insn("", "LEAS", "2,S", "")
	return true
}

// emitDWordCombine and emitRealCombine call the three-address runtime helper
// for a long/real binary operator: the helper reads both operands by
// address and writes the result, possibly to a hidden temporary (spec.md
// §4.4's compound-assignment note; the same helpers serve plain binary ops).
func (e *Emitter) emitDWordCombine(op string, n, l, r *ast.Node) bool {
	rightVariant := VariantOf(r.Type)
	name, ok := CombineHelper(op, VariantDWord, rightVariant)
	if !ok {
		name, _ = CombineHelper(op, VariantDWord, VariantDWord)
	}
	if !e.emitExpr(n.A, true) {
		return false
	}
	e.Out.Insn("", "PSHS", "X", "")
	if !e.emitExpr(n.B, rightVariant != VariantWord) {
		return false
	}
	e.Out.Insn("", "LBSR", e.need(name), "")
	e.Out.Insn("", "LEAX", ",S++", "")
	return true
}

func (e *Emitter) emitRealCombine(op string, n, l, r *ast.Node) bool {
	name, ok := CombineHelper(op, VariantSingle, VariantSingle)
	if !ok {
		name = op + "Single"
	}
	if !e.emitExpr(n.A, true) {
		return false
	}
	e.Out.Insn("", "PSHS", "X", "")
	if !e.emitExpr(n.B, true) {
		return false
	}
	e.Out.Insn("", "LBSR", e.need(name), "")
	e.Out.Insn("", "LEAX", ",S++", "")
	return true
}

// emitShift implements spec.md §4.4's shift peepholes: a constant count
// 1..7 unrolls into repeated shift instructions; a constant count of
// exactly 8 on a word becomes a register exchange; variable counts call a
// runtime helper.
func (e *Emitter) emitShift(n *ast.Node) bool {
	r := e.ctxArena(n.B)
	if count, ok := foldIntConstant(r); ok {
		if !e.emitExpr(n.A, false) {
			return false
		}
		return e.emitConstantShift(n, int(count))
	}
	//
	if !e.emitExpr(n.A, false) {
		return false
	}
	e.Out.Insn("", "PSHS", "D", "")
	if !e.emitExpr(n.B, false) {
		return false
	}
	helper := "shiftLeft"
	switch {
	case n.Op == ast.OpShr && n.Type.IsSigned:
		helper = "shiftRightSigned"
	case n.Op == ast.OpShr:
		helper = "shiftRightUnsigned"
	}
	e.Out.Insn("", "LBSR", e.need(helper), "")
	e.Out.Insn("", "LEAS", "2,S", "")
	return true
}

func (e *Emitter) emitConstantShift(n *ast.Node, count int) bool {
	if count == 8 && n.Type.Kind == types.WORD {
		if n.Op == ast.OpShl {
			e.Out.Insn("", "TFR", "B,A", "")
			e.Out.Insn("", "CLRB", "", "")
		} else {
			e.Out.Insn("", "TFR", "A,B", "")
			e.Out.Insn("", "CLRA", "", "")
		}
		return true
	}
	//
	left := "LSLB"
	right := "ROLA"
	if n.Op == ast.OpShr {
		left, right = "RORB", "ASRA"
		if !n.Type.IsSigned {
			right = "LSRA"
		}
	}
	for i := 0; i < count && i < 7; i++ {
		if n.Op == ast.OpShl {
			e.Out.Insn("", left, "", "")
			e.Out.Insn("", right, "", "")
		} else {
			e.Out.Insn("", right, "", "")
			e.Out.Insn("", left, "", "")
		}
	}
	return true
}

// emitComparisonAsValue evaluates a comparison operator to a 0/1 byte in B
// (the fallback used where a comparison appears as an ordinary r-value
// rather than the condition of an if/while/for, which instead uses
// emitBoolJumps directly).
func (e *Emitter) emitComparisonAsValue(n *ast.Node) bool {
	trueLabel := e.newLabel("cmptrue")
	falseLabel := e.newLabel("cmpfalse")
	endLabel := e.newLabel("cmpend")
	e.emitBoolJumps(n, trueLabel, falseLabel)
	e.Out.Label(trueLabel)
	e.Out.Insn("", "LDB", "#1", "")
	e.Out.Insn("", "LBRA", endLabel, "")
	e.Out.Label(falseLabel)
	e.Out.Insn("", "CLRB", "", "")
	e.Out.Label(endLabel)
	return true
}

func (e *Emitter) emitLogicalAsValue(n *ast.Node) bool {
	return e.emitComparisonAsValue(n)
}

// emitBoolJumps compiles cond directly into branches to trueLabel/falseLabel,
// recursively descending through ||, && and ! to avoid materializing a
// boolean integer (spec.md §4.4).
func (e *Emitter) emitBoolJumps(id ast.NodeID, trueLabel, falseLabel string) {
	n := e.Arena.Get(id)
	//
	if n.Kind == ast.UnaryOp && n.Op == ast.OpBoolNot {
		e.emitBoolJumps(n.A, falseLabel, trueLabel)
		return
	}
	if n.Kind == ast.BinaryOp && n.Op == ast.OpLogAnd {
		midLabel := e.newLabel("and")
		e.emitBoolJumps(n.A, midLabel, falseLabel)
		e.Out.Label(midLabel)
		e.emitBoolJumps(n.B, trueLabel, falseLabel)
		return
	}
	if n.Kind == ast.BinaryOp && n.Op == ast.OpLogOr {
		midLabel := e.newLabel("or")
		e.emitBoolJumps(n.A, trueLabel, midLabel)
		e.Out.Label(midLabel)
		e.emitBoolJumps(n.B, trueLabel, falseLabel)
		return
	}
	if n.Kind == ast.BinaryOp && isComparisonOp(n.Op) {
		e.emitComparisonBranch(n, trueLabel, falseLabel)
		return
	}
	//
	// Fallback: evaluate as an ordinary value and branch on it being nonzero.
	e.emitExpr(id, false)
	e.Out.Insn("", "ORB", "A", "")
	e.Out.Insn("", "LBEQ", falseLabel, "")
	e.Out.Insn("", "LBRA", trueLabel, "")
}

func isComparisonOp(op ast.Operator) bool {
	switch op {
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		return true
	default:
		return false
	}
}

// emitComparisonBranch picks a signed or unsigned conditional branch
// depending on whether either operand is signed, or dispatches to a
// cmp<Left><Right> helper for real/long comparisons (spec.md §4.4).
func (e *Emitter) emitComparisonBranch(n *ast.Node, trueLabel, falseLabel string) {
	l := e.ctxArena(n.A)
	r := e.ctxArena(n.B)
	//
	if l.Type.Kind == types.LONG || l.Type.Kind == types.REAL {
		name, ok := CombineHelper("cmp", VariantOf(l.Type), VariantOf(r.Type))
		if !ok {
			name, _ = CombineHelper("cmp", VariantOf(l.Type), VariantOf(l.Type))
		}
		e.emitExpr(n.A, true)
		e.Out.Insn("", "PSHS", "X", "")
		e.emitExpr(n.B, true)
		e.Out.Insn("", "LBSR", e.need(name), "")
		e.Out.Insn("", "LEAS", "2,S", "")
		e.emitBranchMnemonic(n.Op, l.Type.IsSigned, trueLabel, falseLabel)
		return
	}
	//
	e.emitExpr(n.A, false)
	e.Out.Insn("", "PSHS", "D", "")
	e.emitExpr(n.B, false)
	e.Out.Insn("", "CMPD", ",S++", "")
	e.emitBranchMnemonic(n.Op, l.Type.IsSigned || r.Type.IsSigned, trueLabel, falseLabel)
}

func (e *Emitter) emitBranchMnemonic(op ast.Operator, signed bool, trueLabel, falseLabel string) {
	var mnemonic string
	switch op {
	case ast.OpLt:
		mnemonic = pick(signed, "LBLT", "LBLO")
	case ast.OpLe:
		mnemonic = pick(signed, "LBLE", "LBLS")
	case ast.OpGt:
		mnemonic = pick(signed, "LBGT", "LBHI")
	case ast.OpGe:
		mnemonic = pick(signed, "LBGE", "LBHS")
	case ast.OpEq:
		mnemonic = "LBEQ"
	case ast.OpNe:
		mnemonic = "LBNE"
	}
	e.Out.Insn("", mnemonic, trueLabel, "")
	e.Out.Insn("", "LBRA", falseLabel, "")
}

func pick(signed bool, s, u string) string {
	if signed {
		return s
	}
	return u
}

func (e *Emitter) ctxArena(id ast.NodeID) *ast.Node {
	return e.Arena.Get(id)
}
