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
	"github.com/oss6809/sixgen/internal/asmtext"
	"github.com/oss6809/sixgen/internal/diag"
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/source"
	"github.com/oss6809/sixgen/internal/types"
)

// UtilityTracker records that the emitter referenced a runtime support
// library symbol, so the translation-unit driver can later emit an EXTERN
// declaration (or concatenate the library's definition) for exactly the set
// of helpers actually used (spec.md §4.5).
type UtilityTracker interface {
	NeedUtility(name string)
}

// Config mirrors the subset of sema.Config the emitter itself consults.
type Config struct {
	StackOverflowChecks  bool
	NullPointerChecks    bool
	InlineRuntimeHelpers bool
}

// Emitter lowers fully-annotated AST to assembly text. One Emitter is shared
// across every function of a translation unit (constructed once by the
// driver's Compile), so that its literal pool accumulates constants across
// the whole unit and is flushed a single time at the end.
type Emitter struct {
	Out       *asmtext.Sink
	Arena     *ast.Arena
	Types     *types.Manager
	Diags     *diag.Bag
	Utilities UtilityTracker
	Config    Config

	fn          *ast.FunctionDef
	labelN      int
	breakStack  []string
	contStack   []string
	switchDepth int
	pool        *literalPool
}

// NewEmitter constructs an Emitter sharing the given sink and tables across
// the whole translation unit.
func NewEmitter(out *asmtext.Sink, arena *ast.Arena, tm *types.Manager, diags *diag.Bag, util UtilityTracker, cfg Config) *Emitter {
	return &Emitter{Out: out, Arena: arena, Types: tm, Diags: diags, Utilities: util, Config: cfg, pool: newLiteralPool()}
}

// FlushLiterals emits the rodata section accumulated by every call to
// EmitFunction so far. The driver calls this once, after the last function in
// the translation unit, exploiting the fact that one Emitter is shared across
// the whole unit (see Compile).
func (e *Emitter) FlushLiterals() {
	e.flushLiterals()
}

// newLabel returns a fresh, function-unique assembler label.
func (e *Emitter) newLabel(prefix string) string {
	e.labelN++
	return fmt.Sprintf("_%s_%s_%d", e.fn.Name, prefix, e.labelN)
}

func (e *Emitter) need(name string) string {
	if e.Utilities != nil {
		e.Utilities.NeedUtility(name)
	}
	return name
}

// EmitFunction emits fn's prologue, body and epilogue.
func (e *Emitter) EmitFunction(fn *ast.FunctionDef) bool {
	e.fn = fn
	e.labelN = 0
	e.breakStack = nil
	e.contStack = nil
	//
	e.Out.Blank()
	e.Out.Label(fn.Name)
	//
	if !fn.IsNorts {
		e.emitPrologue(fn)
	}
	//
	ok := true
	if fn.Body != ast.NoNode {
		ok = e.emitStmt(fn.Body)
	}
	//
	e.Out.Label(fn.EndLabel)
	if !fn.IsNorts {
		e.emitEpilogue(fn)
	}
	//
	return ok
}

// emitPrologue implements spec.md §4.4's prologue contract: save the frame
// pointer, establish it, reserve locals, then optionally spill the
// first-param-in-register argument and check for stack overflow.
func (e *Emitter) emitPrologue(fn *ast.FunctionDef) {
	e.Out.Insn("", "PSHS", "U", "")
	e.Out.Insn("", "LEAU", ",S", "")
	if fn.MinDisplacement != 0 {
		e.Out.Insn("", "LEAS", fmt.Sprintf("%d,S", fn.MinDisplacement), "")
	}
	//
	if fn.IsFPIR {
		e.spillFirstParam(fn)
	}
	//
	if e.Config.StackOverflowChecks {
		e.Out.Insn("", "LBSR", e.need("check_stack_overflow"), "")
	}
}

// spillFirstParam stores the incoming D register (the first-param-in-register
// convention's argument, or the hidden return-slot address) to its frame
// slot as the callee's first action once the frame is set up.
func (e *Emitter) spillFirstParam(fn *ast.FunctionDef) {
	var target *scope.Declaration
	if fn.HasHiddenReturnSlot() {
		target = fn.ReturnSlot
	} else if len(fn.Params) > 0 {
		target = fn.Params[0]
	}
	if target == nil {
		return
	}
	e.Out.Insn("", "STD", fmt.Sprintf("%d,U", target.FrameDisplacement), "")
}

func (e *Emitter) emitEpilogue(fn *ast.FunctionDef) {
	if fn.IsISR {
		e.Out.Insn("", "PULS", "U", "")
		e.Out.Insn("", "RTI", "", "")
		return
	}
	e.Out.Insn("", "LEAS", ",U", "")
	e.Out.Insn("", "PULS", "U,PC", "")
}
