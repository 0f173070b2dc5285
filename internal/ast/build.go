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
package ast

import (
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/source"
)

// The constructors below exist so test fixtures, and the few places the
// semantic passes themselves synthesize a node (e.g. the SemanticsChecker
// inserting a hidden temporary's DeclStmt), can build a tree without hand
// filling every Node field. They do not set Type; ExpressionTypeSetter is
// the sole owner of that field for anything but a fixture's pre-seeded
// leaves.

// NewWordConst allocates a word-constant node.
func NewWordConst(a *Arena, loc source.Location, v uint16) NodeID {
	return a.New(Node{Kind: WordConst, Loc: loc, WordValue: v})
}

// NewLongConst allocates a long-constant node.
func NewLongConst(a *Arena, loc source.Location, v uint32) NodeID {
	return a.New(Node{Kind: LongConst, Loc: loc, LongValue: v})
}

// NewRealConst allocates a real-constant node.
func NewRealConst(a *Arena, loc source.Location, v float64) NodeID {
	return a.New(Node{Kind: RealConst, Loc: loc, RealValue: v})
}

// NewStringLit allocates a string-literal node.
func NewStringLit(a *Arena, loc source.Location, s string) NodeID {
	return a.New(Node{Kind: StringLit, Loc: loc, StrValue: s})
}

// NewIdentifier allocates an unresolved identifier node, as the parser would
// produce before ScopeCreator runs.
func NewIdentifier(a *Arena, loc source.Location, name string) NodeID {
	return a.New(Node{Kind: Identifier, Loc: loc, Ident: name})
}

// NewVariableRef allocates an already-resolved variable reference, bypassing
// ScopeCreator -- used by tests that want to exercise ExpressionTypeSetter or
// the code generator in isolation.
func NewVariableRef(a *Arena, loc source.Location, d *scope.Declaration) NodeID {
	return a.New(Node{Kind: VariableRef, Loc: loc, Decl: d, Ident: d.Identifier})
}

// NewUnary allocates a unary-operator node.
func NewUnary(a *Arena, loc source.Location, op Operator, operand NodeID) NodeID {
	return a.New(Node{Kind: UnaryOp, Loc: loc, Op: op, A: operand})
}

// NewBinary allocates a binary-operator node.
func NewBinary(a *Arena, loc source.Location, op Operator, lhs, rhs NodeID) NodeID {
	return a.New(Node{Kind: BinaryOp, Loc: loc, Op: op, A: lhs, B: rhs})
}

// NewCompound allocates a CompoundStmt node owning the given child
// statements and, if non-nil, its own Scope.
func NewCompound(a *Arena, loc source.Location, s *scope.Scope, stmts ...NodeID) NodeID {
	return a.New(Node{Kind: CompoundStmt, Loc: loc, Scope: s, Children: stmts})
}

// NewDeclStmt allocates a declaration statement wrapping decl, with an
// optional (NoNode if absent) owned initializer expression.
func NewDeclStmt(a *Arena, loc source.Location, decl *scope.Declaration, init NodeID) NodeID {
	return a.New(Node{Kind: DeclStmt, Loc: loc, Decl: decl, A: init})
}

// NewReturn allocates a `return expr;` (or bare `return;` if value is NoNode)
// jump node.
func NewReturn(a *Arena, loc source.Location, value NodeID) NodeID {
	return a.New(Node{Kind: Jump, Loc: loc, Op: OpReturn, A: value})
}

// NewIf allocates an if/then/else node; elseBranch may be NoNode.
func NewIf(a *Arena, loc source.Location, cond, then, elseBranch NodeID) NodeID {
	return a.New(Node{Kind: If, Loc: loc, A: cond, B: then, C: elseBranch})
}

// NewWhile allocates a while-loop node. No Scope is set here; ScopeCreator
// attaches the loop's own Scope later (its rule is that `for`/`while`
// bodies always get one).
func NewWhile(a *Arena, loc source.Location, cond, body NodeID) NodeID {
	return a.New(Node{Kind: While, Loc: loc, A: cond, B: body})
}
