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
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/types"
)

// emitAssign implements spec.md §4.4's five assignment strategies, selected
// by the shape of the left-hand side, plus the compound-assignment
// load-compute-store / three-address-helper rewrite.
func (e *Emitter) emitAssign(n *ast.Node) bool {
	if n.Op.IsCompoundAssign() {
		return e.emitCompoundAssign(n)
	}
	return e.emitPlainAssign(n)
}

func (e *Emitter) emitPlainAssign(n *ast.Node) bool {
	lhs := e.Arena.Get(n.A)
	//
	switch lhs.Kind {
	case ast.VariableRef:
		return e.assignToVariable(lhs.Decl, n.B)
	case ast.UnaryOp:
		if lhs.Op == ast.OpDeref {
			if addr, ok := constantAddressOf(e.Arena, lhs.A); ok {
				return e.assignToConstantAddress(lhs, addr, n.B)
			}
			return e.assignThroughPointer(lhs, n.B)
		}
	}
	return e.assignGeneral(n.A, lhs, n.B)
}

// constantAddressOf reports whether id names a compile-time-known pointer
// value -- typically a cast of an integer literal to a pointer type, e.g.
// "(char *)0xABCD" -- unwrapping any Cast nodes on the way down to the
// underlying constant.
func constantAddressOf(arena *ast.Arena, id ast.NodeID) (uint16, bool) {
	n := arena.Get(id)
	for n.Kind == ast.Cast {
		n = arena.Get(n.A)
	}
	v, ok := foldIntConstant(n)
	return uint16(v), ok
}

// assignToConstantAddress is strategy 1: "*(T *)0xABCD = expr" needs no
// register to hold the destination address at all -- STB/STD take it
// directly as an extended-addressing operand (spec.md §4.4).
func (e *Emitter) assignToConstantAddress(deref *ast.Node, addr uint16, rhs ast.NodeID) bool {
	if !e.emitExpr(rhs, false) {
		return false
	}
	operand := wordData(addr)
	if e.Types.SizeOf(deref.Type) == 1 {
		e.Out.Insn("", "STB", operand, "")
	} else {
		e.Out.Insn("", "STD", operand, "")
	}
	return true
}

// assignToVariable is strategy 2: evaluate rhs, store to the variable's
// frame slot (or static/extern label).
func (e *Emitter) assignToVariable(decl *scope.Declaration, rhs ast.NodeID) bool {
	if decl.Type.IsAggregate() {
		if !e.emitExpr(rhs, true) {
			return false
		}
		e.Out.Insn("", "LEAX", e.operandFor(decl), "") // dest address convention: swap not modeled; see copy helper
		return e.copyAggregateInto(decl.Type, decl)
	}
	//
	if !e.emitExpr(rhs, false) {
		return false
	}
	operand := e.operandFor(decl)
	if e.Types.SizeOf(decl.Type) == 1 {
		e.Out.Insn("", "STB", operand, "")
	} else {
		e.Out.Insn("", "STD", operand, "")
	}
	return true
}

func (e *Emitter) copyAggregateInto(td *types.TypeDesc, decl *scope.Declaration) bool {
	switch td.Kind {
	case types.LONG:
		e.Out.Insn("", "LBSR", e.need("copyDWord"), "")
	case types.REAL:
		e.Out.Insn("", "LBSR", e.need("copySingle"), "")
	default:
		e.Out.Insn("", "LBSR", e.need("memcpy"), "")
	}
	return true
}

// assignThroughPointer is strategy 3: the lhs is "*p"; evaluate rhs, then
// STB/STD indirect through p's own frame slot.
func (e *Emitter) assignThroughPointer(deref *ast.Node, rhs ast.NodeID) bool {
	ptrExpr := e.Arena.Get(deref.A)
	if ptrExpr.Kind != ast.VariableRef {
		return e.assignGeneral(deref, rhs)
	}
	//
	if !e.emitExpr(rhs, false) {
		return false
	}
	operand := fmt.Sprintf("[%s]", e.operandFor(ptrExpr.Decl))
	if e.Types.SizeOf(deref.Type) == 1 {
		e.Out.Insn("", "STB", operand, "")
	} else {
		e.Out.Insn("", "STD", operand, "")
	}
	return true
}

// assignGeneral is strategy 4: evaluate rhs (pushing it if its evaluation
// would otherwise clobber the address computation), compute the lhs address
// into X, then store through X.
func (e *Emitter) assignGeneral(lhsID ast.NodeID, lhs *ast.Node, rhs ast.NodeID) bool {
	if !e.emitExpr(rhs, false) {
		return false
	}
	e.Out.Insn("", "PSHS", "D", "")
	if !e.emitExpr(lhsID, true) {
		return false
	}
	return e.storeGeneral(lhs)
}

func (e *Emitter) storeGeneral(lhs *ast.Node) bool {
	if e.Types.SizeOf(lhs.Type) == 1 {
		e.Out.Insn("", "PULS", "A", "")
		e.Out.Insn("", "STA", ",X", "")
	} else {
		e.Out.Insn("", "PULS", "D", "")
		e.Out.Insn("", "STD", ",X", "")
	}
	return true
}

// emitCompoundAssign re-expresses an integral `x OP= y` as load-compute-store,
// or for real/long targets calls the matching three-address helper.
func (e *Emitter) emitCompoundAssign(n *ast.Node) bool {
	lhs := e.Arena.Get(n.A)
	if lhs.Type.Kind == types.LONG || lhs.Type.Kind == types.REAL {
		op := compoundOpName(n.Op)
		return e.emitDWordCombine(op, n, lhs, e.Arena.Get(n.B))
	}
	//
	binOp := underlyingOp(n.Op)
	synthetic := &ast.Node{Kind: ast.BinaryOp, Op: binOp, A: n.A, B: n.B, Type: n.Type, Loc: n.Loc}
	tmp := e.Arena.New(*synthetic)
	assignNode := &ast.Node{Kind: ast.BinaryOp, Op: ast.OpAssign, A: n.A, B: tmp, Type: n.Type, Loc: n.Loc}
	return e.emitPlainAssign(assignNode)
}

func compoundOpName(op ast.Operator) string {
	switch op {
	case ast.OpAddAssign:
		return "add"
	case ast.OpSubAssign:
		return "sub"
	case ast.OpMulAssign:
		return "mul"
	case ast.OpDivAssign, ast.OpModAssign:
		return "div"
	case ast.OpAndAssign:
		return "and"
	case ast.OpOrAssign:
		return "or"
	case ast.OpXorAssign:
		return "xor"
	default:
		return "add"
	}
}

func underlyingOp(op ast.Operator) ast.Operator {
	switch op {
	case ast.OpAddAssign:
		return ast.OpAdd
	case ast.OpSubAssign:
		return ast.OpSub
	case ast.OpMulAssign:
		return ast.OpMul
	case ast.OpDivAssign:
		return ast.OpDiv
	case ast.OpModAssign:
		return ast.OpMod
	case ast.OpShlAssign:
		return ast.OpShl
	case ast.OpShrAssign:
		return ast.OpShr
	case ast.OpAndAssign:
		return ast.OpBitAnd
	case ast.OpOrAssign:
		return ast.OpBitOr
	case ast.OpXorAssign:
		return ast.OpBitXor
	default:
		return ast.OpAdd
	}
}

// emitInitializer stores a DeclStmt's initializer expression into decl's
// slot, reusing the plain-assignment strategies.
func (e *Emitter) emitInitializer(decl *scope.Declaration, init ast.NodeID) bool {
	return e.assignToVariable(decl, init)
}
