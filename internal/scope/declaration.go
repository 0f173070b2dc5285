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

// Package scope implements the lexical scope tree and declaration model of
// spec.md §3/§4.2: a tree of Scopes binds identifiers to Declarations and
// allocates stack-frame displacements for locals and parameters.
package scope

import "github.com/oss6809/sixgen/internal/types"

// NodeRef is a generic arena index into whatever AST node arena owns the
// actual expression trees.  Declaration.Initializer is a NodeRef rather than
// a typed AST pointer so this package has no dependency on the ast package;
// ast.NodeID is a type alias for NodeRef (see ast/node.go), so the two are
// interchangeable without any conversion at the call sites that wire them
// together (ScopeCreator, SemanticsChecker).
type NodeRef int32

// NoNode is the NodeRef value meaning "no initializer" / "no such node".
const NoNode NodeRef = -1

// StorageClass is the linkage/placement a Declaration was declared with.
type StorageClass uint8

const (
	// Auto is an ordinary local variable or parameter (frame-relative).
	Auto StorageClass = iota
	// Static is a function-local variable with static storage duration
	// (its own assembly label, initialized once).
	Static
	// Extern refers to a variable or function defined in another
	// translation unit.
	Extern
	// Global is a file-scope variable definition.
	Global
)

func (s StorageClass) String() string {
	switch s {
	case Auto:
		return "auto"
	case Static:
		return "static"
	case Extern:
		return "extern"
	case Global:
		return "global"
	default:
		return "?"
	}
}

// Declaration represents a single name binding: a local, a parameter, a
// global, a static, or an extern.  Declarations are created by the parser
// from declarators, registered into a Scope by the ScopeCreator pass, and
// have their frame displacement assigned later by AllocateLocalVariables.
type Declaration struct {
	// Identifier is the declared name.
	Identifier string
	// Type of the declared variable.
	Type *types.TypeDesc
	// ArrayDims mirrors Type's dimensions when Type.Kind == types.ARRAY;
	// kept as a separate field (rather than derived from Type on every use)
	// because spec.md §3 lists it as a distinct Declaration attribute.
	ArrayDims []int
	// Initializer is the (optional) owned initializer expression, or NoNode
	// if there is none.
	Initializer NodeRef
	// Storage is this declaration's linkage/storage class.
	Storage StorageClass
	// FrameDisplacement is the signed byte offset from the frame pointer
	// (U) at which this declaration lives, for Auto locals and parameters.
	// Assigned by AllocateLocalVariables; zero (and meaningless) before
	// that runs, and for non-Auto declarations.
	FrameDisplacement int
	// AssemblyLabel names the symbol emitted for Static, Extern and Global
	// declarations.
	AssemblyLabel string
	// ReadOnly marks a const-qualified declaration.
	ReadOnly bool
	// IsParameter marks a declaration introduced as a function parameter
	// rather than a local variable; AllocateLocalVariables uses this to
	// decide whether the first-param-in-register convention applies.
	IsParameter bool
	// IsHiddenReturnSlot marks the single synthesized parameter carrying
	// the address of an aggregate return value (spec.md §4.4's "hidden
	// first argument").
	IsHiddenReturnSlot bool
}
