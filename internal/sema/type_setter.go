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
package sema

import (
	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/types"
)

// ExpressionTypeSetter is the second semantic pass (spec.md §4.3). It sets
// TypeDesc on every expression node, bottom-up (post-order), implementing
// the conversion and widening rules enumerated there. It must run after
// ScopeCreator, since it relies on VariableRef/FuncNameRef/EnumConstRef
// having already been resolved.
type ExpressionTypeSetter struct {
	ctx *Context
}

// NewExpressionTypeSetter constructs a setter bound to ctx.
func NewExpressionTypeSetter(ctx *Context) *ExpressionTypeSetter {
	return &ExpressionTypeSetter{ctx: ctx}
}

// Run types every expression reachable from fn's body.
func (ts *ExpressionTypeSetter) Run(fn *ast.FunctionDef) {
	ts.set(fn.Body)
}

// SetExpr types a standalone expression tree, e.g. a global variable's
// initializer, which is not reachable from any function body.
func (ts *ExpressionTypeSetter) SetExpr(id ast.NodeID) {
	ts.set(id)
}

func (ts *ExpressionTypeSetter) set(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	n := ts.ctx.Arena.Get(id)
	//
	switch n.Kind {
	case ast.Call:
		// A Call's direct arguments may dereference a void pointer; mark
		// them before recursing (spec.md §4.3).
		for _, c := range n.Children {
			if c == ast.NoNode {
				continue
			}
			if arg := ts.ctx.Arena.Get(c); arg.Kind == ast.UnaryOp && arg.Op == ast.OpDeref {
				arg.AllowVoidDeref = true
			}
		}
	}
	//
	for _, c := range ast.ChildrenOf(n) {
		ts.set(c)
	}
	//
	ts.setSelf(n)
}

func (ts *ExpressionTypeSetter) setSelf(n *ast.Node) {
	m := ts.ctx.Types
	//
	switch n.Kind {
	case ast.WordConst:
		n.Type = m.GetBasic(types.WORD, true)
	case ast.LongConst:
		n.Type = m.GetBasic(types.LONG, true)
	case ast.RealConst:
		n.Type = m.GetBasic(types.REAL, false)
	case ast.StringLit:
		n.Type = m.GetPointerTo(m.GetBasic(types.BYTE, false), nil)
	case ast.VariableRef:
		n.Type = n.Decl.Type
	case ast.FuncNameRef:
		n.Type = n.FuncRef.Type
	case ast.EnumConstRef:
		n.Type = m.GetBasic(types.WORD, true)
	case ast.MemberAccess:
		ts.typeMemberAccess(n)
	case ast.ArraySubscript:
		ts.typeArraySubscript(n)
	case ast.Cast:
		n.Type = n.SizeofType
	case ast.UnaryOp:
		ts.typeUnary(n)
	case ast.BinaryOp:
		ts.typeBinary(n)
	case ast.Conditional:
		ts.typeConditional(n)
	case ast.Comma:
		if len(n.Children) > 0 {
			last := ts.ctx.Arena.Get(n.Children[len(n.Children)-1])
			n.Type = last.Type
		} else {
			n.Type = m.GetBasic(types.VOID, false)
		}
	case ast.Call:
		n.Type = ts.callResultType(n)
	default:
		// Statement-level kinds carry no expression type.
	}
}

func (ts *ExpressionTypeSetter) callResultType(n *ast.Node) *types.TypeDesc {
	if n.FuncRef != nil {
		return n.FuncRef.Type.Return
	}
	if len(n.Children) == 0 {
		return ts.ctx.Types.GetBasic(types.VOID, false)
	}
	callee := ts.ctx.Arena.Get(n.Children[0])
	if callee.Type != nil && callee.Type.Kind == types.POINTER && callee.Type.Pointee.Kind == types.FUNCTION {
		return callee.Type.Pointee.Return
	}
	return ts.ctx.Types.GetBasic(types.VOID, false)
}

func (ts *ExpressionTypeSetter) typeMemberAccess(n *ast.Node) {
	obj := ts.ctx.Arena.Get(n.A)
	objType := obj.Type
	//
	if n.Arrow {
		if objType == nil || objType.Kind != types.POINTER {
			ts.ctx.Diags.Errorf(n.Loc, "'->' used on a non-pointer")
			return
		}
		objType = objType.Pointee
	}
	//
	if objType == nil || objType.Kind != types.CLASS {
		ts.ctx.Diags.Errorf(n.Loc, "member access on a non-struct/union")
		return
	}
	//
	def, ok := ts.ctx.Types.ClassDefOf(objType)
	if !ok {
		ts.ctx.Diags.Errorf(n.Loc, "struct/union '%s' is not fully defined here", objType.ClassName)
		return
	}
	//
	mem, ok := def.MemberByName(n.StrValue)
	if !ok {
		ts.ctx.Diags.Errorf(n.Loc, "'%s' has no member named '%s'", objType.ClassName, n.StrValue)
		return
	}
	n.Type = mem.Type
}

func (ts *ExpressionTypeSetter) typeArraySubscript(n *ast.Node) {
	base := ts.ctx.Arena.Get(n.A)
	if base.Type == nil || !base.Type.IsPointerOrArray() {
		ts.ctx.Diags.Errorf(n.Loc, "subscript applied to a non-pointer, non-array expression")
		return
	}
	n.Type = base.Type.Pointee
}

func (ts *ExpressionTypeSetter) typeUnary(n *ast.Node) {
	m := ts.ctx.Types
	//
	switch n.Op {
	case ast.OpSizeofType:
		n.Type = m.GetBasic(types.WORD, false)
		return
	case ast.OpSizeofExpr:
		n.Type = m.GetBasic(types.WORD, false)
		return
	case ast.OpAddrOf:
		operand := ts.ctx.Arena.Get(n.A)
		if operand.Kind == ast.FuncNameRef {
			// Address of a function identifier yields the function-pointer
			// type unchanged (spec.md §4.3).
			n.Type = operand.Type
			return
		}
		if operand.Type != nil && operand.Type.Kind == types.ARRAY {
			n.Type = m.GetPointerTo(operand.Type.Pointee, nil)
			return
		}
		if operand.Type != nil {
			n.Type = m.GetPointerTo(operand.Type, nil)
		}
		return
	case ast.OpDeref:
		operand := ts.ctx.Arena.Get(n.A)
		if operand.Type == nil || operand.Type.Kind != types.POINTER {
			ts.ctx.Diags.Errorf(n.Loc, "indirection applied to a non-pointer")
			return
		}
		pointee := operand.Type.Pointee
		if pointee.Kind == types.VOID && !n.AllowVoidDeref {
			ts.ctx.Diags.Errorf(n.Loc, "indirection through a pointer to void")
		}
		n.Type = pointee
		return
	case ast.OpBoolNot:
		n.Type = m.GetBasic(types.BYTE, false)
		return
	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec, ast.OpNeg, ast.OpBitNot:
		operand := ts.ctx.Arena.Get(n.A)
		n.Type = operand.Type
		return
	}
}

// typeBinary implements spec.md §4.3's arithmetic/comparison/pointer/
// assignment/widening rules.
func (ts *ExpressionTypeSetter) typeBinary(n *ast.Node) {
	m := ts.ctx.Types
	l := ts.ctx.Arena.Get(n.A)
	r := ts.ctx.Arena.Get(n.B)
	//
	if n.Op.IsAssign() {
		n.Type = l.Type
		if msg, ok := diagnoseAssignment(m, l.Type, r); ok {
			ts.ctx.Diags.Warnf(n.Loc, "%s", msg)
		}
		return
	}
	//
	switch n.Op {
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		if ts.ctx.Config.WarnSignCompare && l.Type != nil && r.Type != nil &&
			l.Type.IsIntegral() && r.Type.IsIntegral() && l.Type.IsSigned != r.Type.IsSigned &&
			(n.Op == ast.OpLt || n.Op == ast.OpLe || n.Op == ast.OpGt || n.Op == ast.OpGe) {
			ts.ctx.Diags.Warnf(n.Loc, "comparison between signed and unsigned operands")
		}
		n.Type = m.GetBasic(types.BYTE, false)
		return
	case ast.OpLogAnd, ast.OpLogOr:
		n.Type = m.GetBasic(types.BYTE, false)
		return
	case ast.OpAdd, ast.OpSub:
		n.Type = ts.typeAddSub(n, l, r)
		return
	default:
		n.Type = ts.typeArith(l.Type, r.Type)
		return
	}
}

// typeAddSub implements the pointer-arithmetic special cases of "+"/"-",
// falling back to plain arithmetic widening when neither side is a
// pointer/array.
func (ts *ExpressionTypeSetter) typeAddSub(n *ast.Node, l, r *ast.Node) *types.TypeDesc {
	m := ts.ctx.Types
	lp, rp := l.Type.IsPointerOrArray(), r.Type.IsPointerOrArray()
	//
	switch {
	case lp && rp && n.Op == ast.OpSub:
		return m.GetBasic(types.WORD, true)
	case lp && !rp:
		return m.GetPointerTo(l.Type.Pointee, nil)
	case rp && !lp && n.Op == ast.OpAdd:
		// "int + ptr" commutes.
		return m.GetPointerTo(r.Type.Pointee, nil)
	default:
		return ts.typeArith(l.Type, r.Type)
	}
}

// typeArith implements the non-pointer arithmetic widening rule (spec.md
// §4.3): real beats long beats word/byte; when word and byte mix, the
// result's size is the wider operand's but its SIGNEDNESS is always the
// LEFT operand's -- a deliberate deviation from C's usual arithmetic
// conversions, to match the target's narrow byte multiply.
func (ts *ExpressionTypeSetter) typeArith(l, r *types.TypeDesc) *types.TypeDesc {
	m := ts.ctx.Types
	//
	if l == nil || r == nil {
		return m.GetBasic(types.WORD, true)
	}
	if l.Kind == types.REAL || r.Kind == types.REAL {
		return m.GetBasic(types.REAL, false)
	}
	if l.Kind == types.LONG || r.Kind == types.LONG {
		signed := l.IsSigned && r.IsSigned
		if l.Kind == types.LONG && r.Kind != types.LONG {
			signed = l.IsSigned
		} else if r.Kind == types.LONG && l.Kind != types.LONG {
			signed = r.IsSigned
		}
		return m.GetBasic(types.LONG, signed)
	}
	if l.Kind != r.Kind {
		wider := l.Kind
		if r.Kind == types.WORD {
			wider = types.WORD
		}
		return m.GetBasic(wider, l.IsSigned)
	}
	return m.GetBasic(l.Kind, l.IsSigned)
}

// diagnoseAssignment classifies an assignment of src's value to a variable of
// type target, returning a warning message and true if the assignment is
// dubious but not outright rejected. It shares its classification logic with
// paramAcceptsArg (semantics_checker.go), which applies the same rules to
// call-site argument matching (spec.md §4.3).
func diagnoseAssignment(m *types.Manager, target *types.TypeDesc, src *ast.Node) (string, bool) {
	if target == nil || src.Type == nil {
		return "", false
	}
	return classifyAssignment(m, target, src.Type, isConstantExpr(src))
}

func isConstantExpr(n *ast.Node) bool {
	switch n.Kind {
	case ast.WordConst, ast.LongConst, ast.RealConst, ast.StringLit:
		return true
	default:
		return false
	}
}

func (ts *ExpressionTypeSetter) typeConditional(n *ast.Node) {
	m := ts.ctx.Types
	then := ts.ctx.Arena.Get(n.B)
	els := ts.ctx.Arena.Get(n.C)
	bothByteConst := then.Kind == ast.WordConst && els.Kind == ast.WordConst &&
		then.WordValue < 256 && els.WordValue < 256
	//
	switch {
	case bothByteConst:
		n.Type = m.GetBasic(types.BYTE, true)
	case then.Type.IsPointerOrArray() && els.Type.IsPointerOrArray():
		if !m.SameTypesModuloConst(then.Type, els.Type) {
			ts.ctx.Diags.Warnf(n.Loc, "conditional operator branches have incompatible pointer types")
		}
		n.Type = then.Type
	default:
		n.Type = ts.typeArith(then.Type, els.Type)
	}
}
