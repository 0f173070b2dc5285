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
	"github.com/oss6809/sixgen/internal/scope"
)

// ScopeCreator is the first semantic pass (spec.md §4.3). For every function
// body it creates a Scope for each compound statement below the
// function-body level and for every for/while body, and resolves every
// Identifier node to a VariableRef, a FuncNameRef, an EnumConstRef, or (for
// __FUNCTION__ / __func__) rewrites it in place to a StringLit naming the
// enclosing function. An identifier that resolves to none of these is an
// undeclared-identifier error.
type ScopeCreator struct {
	ctx *Context
}

// NewScopeCreator constructs a ScopeCreator bound to ctx.
func NewScopeCreator(ctx *Context) *ScopeCreator {
	return &ScopeCreator{ctx: ctx}
}

// Run resolves names and creates scopes throughout fn's body. fn.TopScope
// must already hold every parameter (and the hidden return slot, if any);
// Run registers fn in ctx.Functions if not already present, so that
// recursive and mutually-recursive calls resolve.
func (sc *ScopeCreator) Run(fn *ast.FunctionDef) {
	if _, ok := sc.ctx.Functions[fn.Name]; !ok {
		sc.ctx.Functions[fn.Name] = fn
	}
	//
	prevFn := sc.ctx.currentFunction
	sc.ctx.currentFunction = fn
	defer func() { sc.ctx.currentFunction = prevFn }()
	//
	if fn.Body == ast.NoNode {
		return
	}
	// The function's immediate body CompoundStmt reuses TopScope rather
	// than allocating a fresh child -- spec.md §3: "nested braces do not
	// create new scopes at the top level".
	body := sc.ctx.Arena.Get(fn.Body)
	if body.Kind == ast.CompoundStmt {
		body.Scope = fn.TopScope
	}
	sc.walk(fn.Body, fn.TopScope)
}

func (sc *ScopeCreator) walk(id ast.NodeID, cur *scope.Scope) {
	if id == ast.NoNode {
		return
	}
	//
	n := sc.ctx.Arena.Get(id)
	//
	switch n.Kind {
	case ast.Identifier:
		sc.resolveIdentifier(n, cur)
	case ast.CompoundStmt:
		child := n.Scope
		if child == nil {
			child = cur.NewChild()
			n.Scope = child
		}
		for _, s := range n.Children {
			sc.walk(s, child)
		}
	case ast.For:
		loopScope := cur.NewChild()
		n.Scope = loopScope
		sc.walk(n.A, loopScope)
		sc.walk(n.B, loopScope)
		sc.walk(n.C, loopScope)
		sc.walk(n.D, loopScope)
	case ast.While, ast.DoWhile:
		loopScope := cur.NewChild()
		n.Scope = loopScope
		sc.walk(n.A, loopScope)
		sc.walk(n.B, loopScope)
	default:
		for _, c := range ast.ChildrenOf(n) {
			sc.walk(c, cur)
		}
	}
}

// resolveIdentifier implements spec.md §4.3's name-resolution rules.
func (sc *ScopeCreator) resolveIdentifier(n *ast.Node, cur *scope.Scope) {
	name := n.Ident
	//
	if name == "__FUNCTION__" || name == "__func__" {
		fname := "<file-scope>"
		if sc.ctx.currentFunction != nil {
			fname = sc.ctx.currentFunction.Name
		}
		n.Kind = ast.StringLit
		n.StrValue = fname
		return
	}
	//
	if d, ok := cur.Lookup(name, true); ok {
		n.Kind = ast.VariableRef
		n.Decl = d
		return
	}
	//
	if fn, ok := sc.ctx.Functions[name]; ok {
		n.Kind = ast.FuncNameRef
		n.FuncRef = fn
		return
	}
	//
	if v, ok := sc.ctx.Types.EnumeratorValue(name); ok {
		n.Kind = ast.EnumConstRef
		n.EnumVal = v
		return
	}
	//
	sc.ctx.Diags.Errorf(n.Loc, "undeclared identifier '%s'", name)
}
