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

// Visitor holds the pre-order and post-order callbacks for Iterate. Either
// may be nil. This stands in for spec.md §3's "iterate(Functor)" virtual
// method: rather than every node Kind implementing its own traversal, one
// function (childrenOf, below) knows how to enumerate any Kind's children,
// and Iterate drives pre/post calls around that.
type Visitor struct {
	Pre  func(NodeID)
	Post func(NodeID)
}

// Iterate performs a depth-first traversal of the subtree rooted at id,
// calling v.Pre before descending into a node's children and v.Post after.
// ScopeCreator relies on this ordering to push a new current-scope before
// visiting a CompoundStmt/For/While's children and pop it afterwards.
func Iterate(a *Arena, id NodeID, v Visitor) {
	if id == NoNode {
		return
	}
	if v.Pre != nil {
		v.Pre(id)
	}
	for _, c := range ChildrenOf(a.Get(id)) {
		Iterate(a, c, v)
	}
	if v.Post != nil {
		v.Post(id)
	}
}

// ChildrenOf enumerates the child NodeIDs of n, in evaluation order, per the
// per-Kind field layout documented on Node. Kinds with no children (constants,
// identifiers, jumps with no operand) return nil. Exported so other passes
// (e.g. sema.ScopeCreator) that need Kind-specific handling for a few node
// types can still fall back to generic recursion for the rest.
func ChildrenOf(n *Node) []NodeID {
	switch n.Kind {
	case WordConst, LongConst, RealConst, StringLit, Identifier, VariableRef, FuncNameRef, EnumConstRef:
		return nil
	case MemberAccess, Cast, UnaryOp:
		return nonNil(n.A)
	case ArraySubscript, BinaryOp:
		return nonNil(n.A, n.B)
	case Conditional:
		return nonNil(n.A, n.B, n.C)
	case Call:
		return n.Children
	case Comma:
		return n.Children
	case CompoundStmt:
		return n.Children
	case If:
		return nonNil(n.A, n.B, n.C)
	case While, DoWhile:
		return nonNil(n.A, n.B)
	case For:
		return nonNil(n.A, n.B, n.C, n.D)
	case Switch:
		return nonNil(n.A, n.B)
	case Labeled:
		return nonNil(n.A)
	case Jump:
		return nonNil(n.A)
	case AsmStmt:
		return n.AsmArgs
	case DeclStmt:
		return nonNil(n.A)
	case FuncDef:
		return nonNil(n.A)
	case PragmaStmt:
		return nil
	default:
		return nil
	}
}

func nonNil(ids ...NodeID) []NodeID {
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if id != NoNode {
			out = append(out, id)
		}
	}
	return out
}
