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
)

// emitExpr dispatches on n's Kind, following the emit_code(out, lValue) ->
// bool contract of spec.md §4.4.
func (e *Emitter) emitExpr(id ast.NodeID, lValue bool) bool {
	if id == ast.NoNode {
		return true
	}
	n := e.Arena.Get(id)
	//
	switch n.Kind {
	case ast.WordConst:
		e.Out.Insn("", "LDD", immediateWord(n.WordValue), "")
		return true
	case ast.LongConst:
		e.Out.Insn("", "LEAX", e.constDWordLabel(n), "")
		return true
	case ast.RealConst:
		e.Out.Insn("", "LEAX", e.constRealLabel(n), "")
		return true
	case ast.StringLit:
		e.Out.Insn("", "LDX", fmt.Sprintf("#%s", e.stringLabel(n)), "")
		return true
	case ast.VariableRef:
		return e.emitVariableRef(n, lValue)
	case ast.FuncNameRef:
		e.Out.Insn("", "LDX", fmt.Sprintf("#%s", n.FuncRef.Name), "")
		return true
	case ast.EnumConstRef:
		e.Out.Insn("", "LDD", immediateWord(n.EnumVal), "")
		return true
	case ast.MemberAccess:
		return e.emitMemberAccess(n, lValue)
	case ast.ArraySubscript:
		return e.emitArraySubscript(n, lValue)
	case ast.Call:
		return e.emitCall(n)
	case ast.Cast:
		return e.emitCast(n, lValue)
	case ast.UnaryOp:
		return e.emitUnary(n, lValue)
	case ast.BinaryOp:
		return e.emitBinary(n, lValue)
	case ast.Conditional:
		return e.emitConditional(n, lValue)
	case ast.Comma:
		ok := true
		for i, c := range n.Children {
			last := i == len(n.Children)-1
			if !e.emitExpr(c, last && lValue) {
				ok = false
			}
		}
		return ok
	default:
		return true
	}
}

// constDWordLabel registers n's value in the literal pool (deduplicated) and
// returns its data label -- a plain label, never an immediate, since LEAX
// only takes an indexed/extended addressing operand (spec.md §4.4).
func (e *Emitter) constDWordLabel(n *ast.Node) string {
	return e.pool.labelForLong(n.LongValue)
}

func (e *Emitter) constRealLabel(n *ast.Node) string {
	return e.pool.labelForReal(n.RealValue)
}

func (e *Emitter) stringLabel(n *ast.Node) string {
	return e.pool.labelForString(n.StrValue)
}

// emitVariableRef loads (or, for lValue, addresses) a variable's frame slot
// or static/extern label.
func (e *Emitter) emitVariableRef(n *ast.Node, lValue bool) bool {
	decl := n.Decl
	operand := e.operandFor(decl)
	//
	if lValue || decl.Type.IsAggregate() {
		e.Out.Insn("", "LEAX", operand, "")
		return true
	}
	//
	switch e.Types.SizeOf(decl.Type) {
	case 1:
		e.Out.Insn("", "LDB", operand, "")
	default:
		e.Out.Insn("", "LDD", operand, "")
	}
	return true
}

// operandFor renders the 6809 addressing-mode text for a declaration: a
// frame-relative operand for locals/parameters, or a bare label for
// static/extern/global storage.
func (e *Emitter) operandFor(decl *scope.Declaration) string {
	if decl.Storage == scope.Auto {
		return fmt.Sprintf("%d,U", decl.FrameDisplacement)
	}
	return decl.AssemblyLabel
}
