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

// Package sema implements the three AST traversals of spec.md §4.3:
// ScopeCreator, ExpressionTypeSetter and SemanticsChecker. They run in that
// order over every function body; the later passes observe annotations set
// by the earlier ones (spec.md §5).
package sema

import (
	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/diag"
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/types"
)

// Config collects the command-line/pragma-level knobs that affect semantic
// analysis and code generation, following the Design Notes' call (spec.md
// §9) to gather global mutable state into one record threaded explicitly
// through the passes, instead of package-level globals.
type Config struct {
	// WarnByteArithmeticWidening enables the spec.md §6(a) warning when
	// `byte op byte` does not widen to a larger type.
	WarnByteArithmeticWidening bool
	// WarnSignCompare enables the signed/unsigned ordering-comparison
	// warning from spec.md §4.3.
	WarnSignCompare bool
	// DefaultFirstParamInReg applies the first-param-in-register calling
	// convention to every function unless overridden per-declaration.
	DefaultFirstParamInReg bool
	// StackOverflowChecks enables the prologue's call to
	// check_stack_overflow (spec.md §4.4).
	StackOverflowChecks bool
	// NullPointerChecks enables check_null_ptr_x before a dereference
	// (spec.md §4.4).
	NullPointerChecks bool
	// InlineRuntimeHelpers concatenates the runtime helper library's text
	// instead of emitting EXTERN declarations for needed utilities
	// (spec.md §4.5).
	InlineRuntimeHelpers bool
}

// Context is threaded by reference through ScopeCreator, ExpressionTypeSetter
// and SemanticsChecker (and read by the code generator once semantic
// analysis is complete). It owns the node arena, the type manager, the
// global scope and the table of function definitions for the translation
// unit being compiled.
type Context struct {
	Arena     *ast.Arena
	Types     *types.Manager
	Global    *scope.Scope
	Functions map[string]*ast.FunctionDef
	Diags     *diag.Bag
	Config    Config

	// currentFunction tracks the enclosing FunctionDef for __FUNCTION__ /
	// __func__ resolution (spec.md §4.3, supplemented per SPEC_FULL.md §9).
	currentFunction *ast.FunctionDef
}

// NewContext constructs an empty Context ready to process a translation
// unit's global declarations and function definitions.
func NewContext(cfg Config) *Context {
	mgr := types.NewManager()
	return &Context{
		Arena:     ast.NewArena(),
		Types:     mgr,
		Global:    scope.NewRootScope(),
		Functions: make(map[string]*ast.FunctionDef),
		Diags:     &diag.Bag{},
		Config:    cfg,
	}
}
