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
	"fmt"

	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/types"
)

// AssignmentDiagnostic classifies how well an argument/rvalue expression
// matches a parameter/lvalue type, mirroring the Diagnostic enum both
// FunctionCallExpr::paramAcceptsArg and ExpressionTypeSetter::processBinOp
// (the "=" case) switch on in the original implementation.
type AssignmentDiagnostic int

const (
	NoProblem AssignmentDiagnostic = iota
	WarnConstIncorrect
	WarnNonPtrArrayForPtr
	WarnPassingConstantForPtr
	WarnArgumentTooLarge
	WarnRealForIntegral
	WarnFuncPtrForPtr
	WarnDifferentSignedness
	WarningVoidPointer
	ErrorMsg
)

// paramAcceptsArg determines whether a value of type argTD (produced by the
// expression argTree) may be used where paramTD is required, the way a
// function call argument is checked against its formal parameter, and an
// assignment's right-hand side is checked against its left-hand side
// (spec.md §4.3). The returned bool is false only for ErrorMsg.
func paramAcceptsArg(m *types.Manager, paramTD *types.TypeDesc, argTree *ast.Node) (AssignmentDiagnostic, bool) {
	argTD := argTree.Type
	if paramTD == nil || argTD == nil {
		return NoProblem, true
	}
	//
	switch paramTD.Kind {
	case types.BYTE:
		if !isNumerical(argTD) {
			return ErrorMsg, false
		}
		if argTD.Kind != types.BYTE && is8BitConstant(argTree) {
			return NoProblem, true
		}
		if m.SizeOf(argTD) <= m.SizeOf(paramTD) {
			return NoProblem, true
		}
		return WarnArgumentTooLarge, true
	case types.WORD, types.SIZELESS:
		if paramTD.IsIntegral() && argTD.Kind == types.REAL {
			return WarnRealForIntegral, true
		}
		if isNumerical(argTD) || argTD.IsPointerOrArray() {
			return NoProblem, true
		}
		return ErrorMsg, false
	case types.LONG, types.REAL:
		if paramTD.Kind == types.REAL && argTD.IsPointerOrArray() {
			return ErrorMsg, false
		}
		if paramTD.IsIntegral() && argTD.Kind == types.REAL {
			return WarnRealForIntegral, true
		}
		if isNumerical(argTD) || argTD.IsPointerOrArray() {
			return NoProblem, true
		}
		return ErrorMsg, false
	case types.CLASS:
		if argTD.Kind == types.CLASS && paramTD.ClassName == argTD.ClassName {
			return NoProblem, true
		}
		return ErrorMsg, false
	case types.POINTER, types.ARRAY:
		return paramAcceptsArgForPointer(m, paramTD, argTD, argTree)
	case types.VOID:
		return ErrorMsg, false
	case types.FUNCTION:
		if paramTD == argTD {
			return NoProblem, true
		}
		return ErrorMsg, false
	default:
		return ErrorMsg, false
	}
}

func paramAcceptsArgForPointer(m *types.Manager, paramTD, argTD *types.TypeDesc, argTree *ast.Node) (AssignmentDiagnostic, bool) {
	if isNumerical(argTD) {
		if v, ok := evaluateConstantExpr(argTree); ok {
			if v != 0 {
				return WarnPassingConstantForPtr, true
			}
			return NoProblem, true
		}
		return WarnNonPtrArrayForPtr, true
	}
	if !argTD.IsPointerOrArray() {
		return ErrorMsg, false
	}
	if paramTD.Pointee.Kind == types.VOID && isPointerToFunction(argTD) {
		return WarnFuncPtrForPtr, true
	}
	if isZeroCastToVoidPointer(argTree) {
		return NoProblem, true
	}
	if isConstQualified(paramTD.Pointee) {
		if paramTD.Pointee.Kind == types.VOID || m.SameTypesModuloConst(paramTD.Pointee, argTD.Pointee) {
			return NoProblem, true
		}
		return ErrorMsg, false
	}
	if paramTD.Pointee.Kind != types.VOID && !m.SameTypesModuloConst(paramTD.Pointee, argTD.Pointee) {
		if m.SamePointerOrArrayTypesModuloSignedness(paramTD, argTD) {
			return WarnDifferentSignedness, true
		}
		if paramTD.Pointee.Kind == types.VOID || argTD.Pointee.Kind == types.VOID {
			return WarningVoidPointer, true
		}
		return ErrorMsg, false
	}
	if isConstQualified(argTD.Pointee) {
		return WarnConstIncorrect, true
	}
	return NoProblem, true
}

func isNumerical(td *types.TypeDesc) bool {
	return td.IsIntegral() || td.Kind == types.REAL
}

func isConstQualified(td *types.TypeDesc) bool {
	return td.IsConstant
}

func isPointerToFunction(td *types.TypeDesc) bool {
	return td.Kind == types.POINTER && td.Pointee != nil && td.Pointee.Kind == types.FUNCTION
}

func is8BitConstant(n *ast.Node) bool {
	return n.Kind == ast.WordConst && n.WordValue < 256
}

// evaluateConstantExpr folds the forms recognised as compile-time constants
// for the "0 used as a null pointer" rule: literal word constants only. A
// unary negation, even of a literal, is reported as not constant.
func evaluateConstantExpr(n *ast.Node) (uint16, bool) {
	if n.Kind == ast.WordConst {
		return n.WordValue, true
	}
	if n.Kind == ast.UnaryOp && n.Op == ast.OpNeg {
		return 0, false
	}
	return 0, false
}

// isZeroCastToVoidPointer reports whether n is a cast to void * with an
// operand, as in "(void *) 0"; the operand's value is not examined.
func isZeroCastToVoidPointer(n *ast.Node) bool {
	if n.Kind != ast.Cast || n.Type == nil || n.Type.Kind != types.POINTER || n.Type.Pointee.Kind != types.VOID {
		return false
	}
	return n.A != ast.NoNode
}

func diagnosticMessage(d AssignmentDiagnostic, paramTD, argTD *types.TypeDesc) string {
	switch d {
	case WarnConstIncorrect:
		return fmt.Sprintf("passing const %s where non-const %s is expected", argTD, paramTD)
	case WarnNonPtrArrayForPtr:
		return fmt.Sprintf("passing a non-constant numeric expression where %s is expected", paramTD)
	case WarnPassingConstantForPtr:
		return fmt.Sprintf("passing a non-zero integer constant where %s is expected", paramTD)
	case WarnArgumentTooLarge:
		return fmt.Sprintf("argument of type %s is too large for parameter of type %s", argTD, paramTD)
	case WarnRealForIntegral:
		return fmt.Sprintf("passing a real value where integral type %s is expected", paramTD)
	case WarnFuncPtrForPtr:
		return "passing a function pointer where void * is expected"
	case WarnDifferentSignedness:
		return fmt.Sprintf("%s and %s differ only in signedness", argTD, paramTD)
	case WarningVoidPointer:
		return fmt.Sprintf("implicit conversion between %s and %s", argTD, paramTD)
	default:
		return fmt.Sprintf("cannot use %s where %s is expected", argTD, paramTD)
	}
}

// classifyAssignment adapts paramAcceptsArg for ExpressionTypeSetter.typeBinary's
// "=" handling, which only has the source node's type and constantness
// already extracted (see diagnoseAssignment in type_setter.go).
func classifyAssignment(m *types.Manager, target, src *types.TypeDesc, srcIsConstant bool) (string, bool) {
	fake := &ast.Node{Type: src}
	if srcIsConstant && src.Kind == types.WORD {
		fake.Kind = ast.WordConst
	}
	d, ok := paramAcceptsArg(m, target, fake)
	if !ok {
		return diagnosticMessage(d, target, src), true
	}
	if d == NoProblem {
		return "", false
	}
	return diagnosticMessage(d, target, src), true
}

// SemanticsChecker is the third semantic pass (spec.md §4.3): it validates
// return statements, detects duplicate labels/case values, requires
// struct/union completeness at point of use, and declares the hidden
// temporaries later needed by code generation for long/real intermediate
// results.
type SemanticsChecker struct {
	ctx        *Context
	labels     map[string]bool
	caseValues map[int64]bool
	sawReturn  bool
	sawDefault bool
	tempN      int
}

// NewSemanticsChecker constructs a checker bound to ctx.
func NewSemanticsChecker(ctx *Context) *SemanticsChecker {
	return &SemanticsChecker{ctx: ctx}
}

// Run validates fn's body and its return statements, and declares hidden
// temporaries into the scopes that need them.
func (sc *SemanticsChecker) Run(fn *ast.FunctionDef) {
	sc.labels = make(map[string]bool)
	sc.caseValues = make(map[int64]bool)
	sc.sawReturn = false
	sc.tempN = 0
	//
	sc.walk(fn.Body, fn, fn.TopScope)
	//
	if fn.Type.Return != nil && fn.Type.Return.Kind != types.VOID && !sc.sawReturn && fn.IsDefined && fn.Body != ast.NoNode {
		sc.ctx.Diags.Warnf(sc.ctx.Arena.Get(fn.Body).Loc, "function '%s' has no return statement on at least one path", fn.Name)
	}
}

func (sc *SemanticsChecker) walk(id ast.NodeID, fn *ast.FunctionDef, cur *scope.Scope) {
	if id == ast.NoNode {
		return
	}
	n := sc.ctx.Arena.Get(id)
	if n.Scope != nil {
		cur = n.Scope
	}
	//
	switch n.Kind {
	case ast.Jump:
		if n.Op == ast.OpReturn {
			sc.checkReturn(n, fn)
			sc.sawReturn = true
		}
	case ast.Labeled:
		sc.checkLabel(n)
	case ast.DeclStmt:
		sc.checkDeclStmt(n)
	case ast.BinaryOp, ast.UnaryOp, ast.Call:
		sc.declareHiddenTemps(n, cur)
	}
	//
	for _, c := range ast.ChildrenOf(n) {
		sc.walk(c, fn, cur)
	}
}

func (sc *SemanticsChecker) checkReturn(n *ast.Node, fn *ast.FunctionDef) {
	retType := fn.Type.Return
	//
	if n.A == ast.NoNode {
		if retType != nil && retType.Kind != types.VOID {
			sc.ctx.Diags.Warnf(n.Loc, "function '%s' declared to return %s but has a bare 'return;'", fn.Name, retType)
		}
		return
	}
	//
	if retType == nil || retType.Kind == types.VOID {
		sc.ctx.Diags.Warnf(n.Loc, "function '%s' declared void returns a value", fn.Name)
		return
	}
	//
	val := sc.ctx.Arena.Get(n.A)
	if d, ok := paramAcceptsArg(sc.ctx.Types, retType, val); !ok {
		sc.ctx.Diags.Errorf(n.Loc, "%s", diagnosticMessage(d, retType, val.Type))
	} else if d != NoProblem {
		sc.ctx.Diags.Warnf(n.Loc, "%s", diagnosticMessage(d, retType, val.Type))
	}
}

func (sc *SemanticsChecker) checkLabel(n *ast.Node) {
	switch n.StrValue {
	case "case":
		if sc.caseValues[n.CaseValue] {
			sc.ctx.Diags.Errorf(n.Loc, "duplicate case value %d", n.CaseValue)
		}
		sc.caseValues[n.CaseValue] = true
	case "default":
		if sc.sawDefault {
			sc.ctx.Diags.Errorf(n.Loc, "duplicate 'default' label")
		}
		sc.sawDefault = true
	case "":
		// not a switch label; a goto target
		if n.Ident != "" {
			if sc.labels[n.Ident] {
				sc.ctx.Diags.Errorf(n.Loc, "duplicate label '%s'", n.Ident)
			}
			sc.labels[n.Ident] = true
		}
	}
}

// checkDeclStmt verifies the declared type is complete (struct/union fully
// defined) and that an initializer, if present, is assignment-compatible.
func (sc *SemanticsChecker) checkDeclStmt(n *ast.Node) {
	decl := n.Decl
	if decl == nil || decl.Type == nil {
		return
	}
	//
	if decl.Type.IsIncomplete(sc.ctx.Types) {
		sc.ctx.Diags.Errorf(n.Loc, "'%s' has incomplete type '%s'", decl.Identifier, decl.Type)
		return
	}
	//
	if n.A == ast.NoNode {
		return
	}
	//
	init := sc.ctx.Arena.Get(n.A)
	if d, ok := paramAcceptsArg(sc.ctx.Types, decl.Type, init); !ok {
		sc.ctx.Diags.Errorf(n.Loc, "%s", diagnosticMessage(d, decl.Type, init.Type))
	} else if d != NoProblem {
		sc.ctx.Diags.Warnf(n.Loc, "%s", diagnosticMessage(d, decl.Type, init.Type))
	}
}

// declareHiddenTemps allocates a compiler-introduced local in the nearest
// enclosing scope for expressions whose evaluation strategy needs a
// temporary to hold an intermediate long/real r-value (spec.md §4.4's
// "hidden temporaries owned by Scope, not by the expression"): &, | and ^ on
// longs; pre/post inc-dec on reals or longs; unary negation of a real or
// long; signed division/modulo on longs (the target has no single
// signed-long-divide instruction, so the emitter calls a helper that needs
// addressable operands); and a call whose result is an aggregate/LONG/REAL,
// which needs a caller-owned slot to receive the hidden return address
// (spec.md §4.4's caller-allocated temporary). The Call case additionally
// records the declaration on the node itself (n.Decl) so the emitter can
// address it; the other cases only reserve frame space.
func (sc *SemanticsChecker) declareHiddenTemps(n *ast.Node, cur *scope.Scope) {
	if n.Type == nil || cur == nil {
		return
	}
	//
	if n.Kind == ast.Call {
		if n.Type.IsAggregate() {
			n.Decl = sc.declareHiddenTemp("__rettmp", n.Type, cur)
		}
		return
	}
	//
	needsTemp := false
	switch n.Kind {
	case ast.BinaryOp:
		switch n.Op {
		case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
			needsTemp = n.Type.Kind == types.LONG
		case ast.OpDiv, ast.OpMod:
			needsTemp = n.Type.Kind == types.LONG && n.Type.IsSigned
		}
	case ast.UnaryOp:
		switch n.Op {
		case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
			needsTemp = n.Type.Kind == types.LONG || n.Type.Kind == types.REAL
		case ast.OpNeg:
			needsTemp = n.Type.Kind == types.LONG || n.Type.Kind == types.REAL
		}
	}
	if !needsTemp {
		return
	}
	sc.declareHiddenTemp("__temp", n.Type, cur)
}

// declareHiddenTemp declares a single compiler-introduced Auto local named
// prefix+a unique suffix in cur, and returns it. The suffix is this checker
// run's own counter, not the node id: a function with more than one
// temp-needing expression must not collide on the same scope name, since
// Scope.DeclareVariable silently refuses a duplicate identifier.
func (sc *SemanticsChecker) declareHiddenTemp(prefix string, t *types.TypeDesc, cur *scope.Scope) *scope.Declaration {
	sc.tempN++
	decl := &scope.Declaration{
		Identifier: fmt.Sprintf("%s%d", prefix, sc.tempN),
		Type:       t,
		Storage:    scope.Auto,
		ReadOnly:   false,
	}
	cur.DeclareVariable(decl)
	return decl
}
