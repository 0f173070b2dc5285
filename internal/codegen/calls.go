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
	"fmt"

	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/types"
)

// emitCall implements spec.md §4.4's call sequence: arguments pushed in
// reverse declaration order, a hidden return-address argument for aggregate
// results, then an LBSR/JSR (direct or through a function pointer), and
// caller-side stack cleanup.
func (e *Emitter) emitCall(n *ast.Node) bool {
	// When FuncRef is set (a direct call to a statically known function),
	// every child is an actual argument. Otherwise this is a call through a
	// function-pointer expression, and Children[0] is that expression.
	var calleeID ast.NodeID
	actualArgs := n.Children
	if n.FuncRef == nil {
		if len(n.Children) == 0 {
			return true
		}
		calleeID = n.Children[0]
		actualArgs = n.Children[1:]
	}
	//
	retType := n.Type
	pushedBytes := 0
	for i := len(actualArgs) - 1; i >= 0; i-- {
		pushedBytes += e.pushArgument(actualArgs[i])
	}
	// The hidden return-slot address is pushed last, so it is the first
	// argument the callee sees.
	if retType != nil && retType.IsAggregate() && n.Decl != nil {
		e.Out.Insn("", "LEAX", e.operandFor(n.Decl), "")
		e.Out.Insn("", "PSHS", "X", "")
		pushedBytes += 2
	}
	//
	if n.FuncRef != nil {
		e.Out.Insn("", "LBSR", n.FuncRef.Name, "")
	} else {
		if !e.emitExpr(calleeID, false) {
			return false
		}
		e.Out.Insn("", "JSR", ",X", "")
	}
	if pushedBytes > 0 {
		e.Out.Insn("", "LEAS", fmt.Sprintf("%d,S", pushedBytes), "")
	}
	return true
}

// pushArgument evaluates one actual argument and pushes it per its type,
// returning the number of bytes pushed.
func (e *Emitter) pushArgument(argID ast.NodeID) int {
	arg := e.Arena.Get(argID)
	//
	switch {
	case arg.Type.Kind == types.ARRAY:
		e.emitExpr(argID, true)
		e.Out.Insn("", "PSHS", "X", "")
		return 2
	case arg.Type.Kind == types.CLASS:
		e.emitExpr(argID, true)
		size := e.Types.SizeOf(arg.Type)
		switch size {
		case 4:
			e.Out.Insn("", "LBSR", e.need("push4ByteStruct"), "")
		case 5:
			e.Out.Insn("", "LBSR", e.need("push5ByteStruct"), "")
		default:
			e.Out.Insn("", "LBSR", e.need("pushStruct"), "")
		}
		if size == 1 {
			size = 2
		}
		return size
	case arg.Type.Kind == types.LONG:
		e.emitExpr(argID, true)
		e.Out.Insn("", "PSHS", "X", "")
		return 2 // address of the temporary, not the 4 bytes themselves
	case arg.Type.Kind == types.REAL:
		e.emitExpr(argID, true)
		e.Out.Insn("", "PSHS", "X", "")
		return 2
	default:
		e.emitExpr(argID, false)
		if e.Types.SizeOf(arg.Type) == 1 {
			e.Out.Insn("", "PSHS", "B", "")
			return 1
		}
		e.Out.Insn("", "PSHS", "D", "")
		return 2
	}
}

func (e *Emitter) emitCast(n *ast.Node, lValue bool) bool {
	srcNode := e.Arena.Get(n.A)
	if !e.emitExpr(n.A, lValue) {
		return false
	}
	if n.Type == nil || srcNode.Type == nil || n.Type == srcNode.Type {
		return true
	}
	//
	dstV, srcV := VariantOf(n.Type), VariantOf(srcNode.Type)
	if dstV == srcV {
		return true
	}
	if name, ok := ConvertHelper(dstV, srcV); ok {
		e.Out.Insn("", "LBSR", e.need(name), "")
	}
	return true
}

func (e *Emitter) emitUnary(n *ast.Node, lValue bool) bool {
	switch n.Op {
	case ast.OpAddrOf:
		return e.emitExpr(n.A, true)
	case ast.OpDeref:
		return e.emitDeref(n, lValue)
	case ast.OpNeg:
		return e.emitNegate(n)
	case ast.OpBitNot:
		if !e.emitExpr(n.A, false) {
			return false
		}
		e.Out.Insn("", "COMA", "", "")
		e.Out.Insn("", "COMB", "", "")
		return true
	case ast.OpBoolNot:
		return e.emitComparisonAsValue(n)
	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
		return e.emitIncDec(n)
	case ast.OpSizeofType:
		e.Out.Insn("", "LDD", immediateWord(uint16(e.Types.SizeOf(n.SizeofType))), "")
		return true
	case ast.OpSizeofExpr:
		operand := e.Arena.Get(n.A)
		e.Out.Insn("", "LDD", immediateWord(uint16(e.Types.SizeOf(operand.Type))), "")
		return true
	}
	return true
}

func (e *Emitter) emitDeref(n *ast.Node, lValue bool) bool {
	if !e.emitExpr(n.A, false) {
		return false
	}
	e.Out.Insn("", "TFR", "D,X", "")
	if lValue {
		return true // X already holds the pointee's address
	}
	if e.Config.NullPointerChecks {
		e.Out.Insn("", "LBSR", e.need("check_null_ptr_x"), "")
	}
	if e.Types.SizeOf(n.Type) == 1 {
		e.Out.Insn("", "LDB", ",X", "")
	} else {
		e.Out.Insn("", "LDD", ",X", "")
	}
	return true
}

func (e *Emitter) emitNegate(n *ast.Node) bool {
	if n.Type.Kind == types.REAL || n.Type.Kind == types.LONG {
		if !e.emitExpr(n.A, true) {
			return false
		}
		name, _ := CombineHelper("neg", VariantOf(n.Type), VariantOf(n.Type))
		if name == "" {
			name = "neg" + string(VariantOf(n.Type))
		}
		e.Out.Insn("", "LBSR", e.need(name), "")
		return true
	}
	if !e.emitExpr(n.A, false) {
		return false
	}
	e.Out.Insn("", "NEGA", "", "")
	e.Out.Insn("", "NEGB", "", "")
	return true
}

func (e *Emitter) emitIncDec(n *ast.Node) bool {
	operand := e.Arena.Get(n.A)
	if operand.Kind != ast.VariableRef {
		return e.emitExpr(n.A, false)
	}
	op := "ADDD"
	if n.Op == ast.OpPreDec || n.Op == ast.OpPostDec {
		op = "SUBD"
	}
	loc := e.operandFor(operand.Decl)
	e.Out.Insn("", "LDD", loc, "")
	if n.Op == ast.OpPostInc || n.Op == ast.OpPostDec {
		e.Out.Insn("", "PSHS", "D", "")
	}
	e.Out.Insn("", op, immediateWord(1), "")
	e.Out.Insn("", "STD", loc, "")
	if n.Op == ast.OpPostInc || n.Op == ast.OpPostDec {
		e.Out.Insn("", "PULS", "D", "")
	}
	return true
}

func (e *Emitter) emitConditional(n *ast.Node, lValue bool) bool {
	thenLabel := e.newLabel("condthen")
	elseLabel := e.newLabel("condelse")
	endLabel := e.newLabel("condend")
	//
	e.emitBoolJumps(n.A, thenLabel, elseLabel)
	e.Out.Label(thenLabel)
	ok := e.emitExpr(n.B, lValue)
	e.Out.Insn("", "LBRA", endLabel, "")
	e.Out.Label(elseLabel)
	ok = e.emitExpr(n.C, lValue) && ok
	e.Out.Label(endLabel)
	return ok
}

func (e *Emitter) emitMemberAccess(n *ast.Node, lValue bool) bool {
	obj := e.Arena.Get(n.A)
	addrLValue := n.Arrow || obj.Kind != ast.VariableRef
	if n.Arrow {
		if !e.emitExpr(n.A, false) {
			return false
		}
	} else if !e.emitExpr(n.A, true) {
		return false
	}
	_ = addrLValue
	//
	def, _ := e.Types.ClassDefOf(objectTypeOf(n, obj))
	mem, _ := def.MemberByName(n.StrValue)
	if mem.Offset != 0 {
		e.Out.Insn("", "LEAX", fmt.Sprintf("%d,X", mem.Offset), "")
	}
	if lValue || n.Type.IsAggregate() {
		return true
	}
	if e.Types.SizeOf(n.Type) == 1 {
		e.Out.Insn("", "LDB", ",X", "")
	} else {
		e.Out.Insn("", "LDD", ",X", "")
	}
	return true
}

func objectTypeOf(n *ast.Node, obj *ast.Node) *types.TypeDesc {
	if n.Arrow {
		return obj.Type.Pointee
	}
	return obj.Type
}

// emitArraySubscript implements spec.md §4.4's subscript strategies: a
// constant index against a pointer/array base folds to a single LEAX with a
// constant offset; a variable index multiplies by the element size (shifts
// for powers of two, the MUL16 helper otherwise; the 8-bit MUL is not used,
// whatever the index type). A pointer base is loaded by value into X; an
// array base is addressed.
func (e *Emitter) emitArraySubscript(n *ast.Node, lValue bool) bool {
	elemSize := 1
	if !n.Type.IsIncomplete(e.Types) {
		elemSize = e.Types.SizeOf(n.Type)
	}
	//
	idx := e.Arena.Get(n.B)
	base := e.Arena.Get(n.A)
	if base.Type != nil && base.Type.Kind == types.POINTER && base.Kind != ast.StringLit {
		if !e.emitExpr(n.A, false) {
			return false
		}
		e.Out.Insn("", "TFR", "D,X", "")
	} else if !e.emitExpr(n.A, true) {
		return false
	}
	if v, ok := foldIntConstant(idx); ok {
		e.Out.Insn("", "LEAX", fmt.Sprintf("%d,X", int(v)*elemSize), "")
	} else {
		e.Out.Insn("", "PSHS", "X", "")
		if !e.emitExpr(n.B, false) {
			return false
		}
		if shift, ok := isPowerOfTwo(elemSize); ok {
			for i := uint(0); i < shift; i++ {
				e.Out.Insn("", "LSLB", "", "")
				e.Out.Insn("", "ROLA", "", "")
			}
		} else if elemSize != 1 {
			e.Out.Insn("", "LDX", immediateWord(uint16(elemSize)), "")
			e.Out.Insn("", "LBSR", e.need("MUL16"), "")
		}
		e.Out.Insn("", "LEAX", "D,S++", "")
	}
	//
	if lValue || n.Type.IsAggregate() {
		return true
	}
	if e.Types.SizeOf(n.Type) == 1 {
		e.Out.Insn("", "LDB", ",X", "")
	} else {
		e.Out.Insn("", "LDD", ",X", "")
	}
	return true
}
