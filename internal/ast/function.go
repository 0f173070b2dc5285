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
	"github.com/oss6809/sixgen/internal/types"
)

// FunctionDef owns a function's formal parameters, its top-level Scope and
// its body CompoundStmt, per spec.md §3. It is the payload of a FuncDef
// Node, but is also referenced directly by FuncNameRef nodes and by the
// TranslationUnit's function list, so it is a standalone type rather than
// being folded entirely into Node.
type FunctionDef struct {
	// Name is the function's external (assembly) symbol.
	Name string
	// Type is the FUNCTION TypeDesc of this definition.
	Type *types.TypeDesc
	// Params lists the formal parameters in declaration order, not
	// including the hidden return-address parameter (see ReturnSlot).
	Params []*scope.Declaration
	// ReturnSlot is non-nil when this function returns an aggregate,
	// LONG or REAL value, per spec.md §3: "a function returning a
	// struct/union/long/real receives a hidden first argument -- the
	// address of the return slot". ReturnSlot is itself a Declaration
	// (IsParameter=true, IsHiddenReturnSlot=true) registered in TopScope
	// ahead of every visible parameter.
	ReturnSlot *scope.Declaration
	// TopScope holds every parameter (and the return slot, if any) plus
	// every local declared anywhere in Body, per spec.md §3's "a function's
	// top-level scope holds parameters plus all locals of the function
	// body".
	TopScope *scope.Scope
	// Body is the function's top-level CompoundStmt.
	Body NodeID
	// IsISR marks an interrupt service routine (spec.md §3: forbids
	// parameters; spec.md §4.4: RTI epilogue, never called directly).
	IsISR bool
	// IsFPIR marks the first-param-in-register calling convention
	// (__CMOC_fpir__); forbids a first parameter wider than 2 bytes or of
	// struct type.
	IsFPIR bool
	// IsNorts marks a __norts__ function: the emitter omits the
	// prologue/epilogue entirely (an asm-only function, spec.md §4.4).
	IsNorts bool
	// IsDefined is false for a declaration with no body (a prototype);
	// such functions contribute to the call graph as leaves only.
	IsDefined bool
	// MinDisplacement is the final (most negative) frame displacement
	// computed by TopScope.AllocateLocalVariables; the prologue's
	// `LEAS disp,S` uses this value.
	MinDisplacement int
	// EndLabel is the assembly label every `return` branches to, and the
	// epilogue is emitted at.
	EndLabel string
}

// HasHiddenReturnSlot reports whether this function's ABI carries the hidden
// return-address parameter.
func (f *FunctionDef) HasHiddenReturnSlot() bool {
	return f.ReturnSlot != nil
}
