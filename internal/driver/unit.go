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

// Package driver owns a translation unit end to end: it runs the three
// semantic passes over every function (spec.md §4.3), then the code
// generator (spec.md §4.4), and resolves which runtime support-library
// utilities (spec.md §4.5) actually need to appear in the output, either as
// EXTERN declarations or concatenated inline.
package driver

import (
	"fmt"
	"io"
	"sort"

	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/asmtext"
	"github.com/oss6809/sixgen/internal/codegen"
	"github.com/oss6809/sixgen/internal/sema"
	log "github.com/sirupsen/logrus"
)

// Options collects the command-line flags that affect an entire run, split
// between the semantic-analysis Config and the codegen Config since each
// package only needs its own subset.
type Options struct {
	Sema   sema.Config
	Gen    codegen.Config
	Output io.Writer
}

// TranslationUnit drives one compilation: a Context for the semantic passes,
// the ordered list of function definitions to emit, and the set of runtime
// utility names referenced anywhere in the unit.
type TranslationUnit struct {
	Context   *sema.Context
	Functions []*ast.FunctionDef
	opts      Options

	needed map[string]bool
}

// NewTranslationUnit constructs an empty unit ready to receive function
// definitions via AddFunction.
func NewTranslationUnit(opts Options) *TranslationUnit {
	return &TranslationUnit{
		Context: sema.NewContext(opts.Sema),
		opts:    opts,
		needed:  make(map[string]bool),
	}
}

// AddFunction registers fn as part of this translation unit, to be analyzed
// and (if reachable) emitted by Compile.
func (tu *TranslationUnit) AddFunction(fn *ast.FunctionDef) {
	tu.Functions = append(tu.Functions, fn)
	tu.Context.Functions[fn.Name] = fn
}

// SetOutput replaces the destination and codegen configuration a fixture's
// TranslationUnit was constructed with, so a caller (e.g. the CLI) can
// retarget a fixture-built unit to a flag-selected output file without the
// fixture itself needing to know about flags.
func (tu *TranslationUnit) SetOutput(out io.Writer, gen codegen.Config) {
	tu.opts.Output = out
	tu.opts.Gen = gen
}

// NeedUtility implements codegen.UtilityTracker: the emitter calls this every
// time it references a runtime support-library symbol.
func (tu *TranslationUnit) NeedUtility(name string) {
	if tu.needed[name] {
		return
	}
	log.WithField("utility", name).Debug("runtime utility needed")
	tu.needed[name] = true
}

// Analyze runs ScopeCreator, ExpressionTypeSetter and SemanticsChecker over
// every defined function, in that order, per spec.md §4.3. It returns false
// if any function produced an error-severity diagnostic.
func (tu *TranslationUnit) Analyze() bool {
	scopeCreator := sema.NewScopeCreator(tu.Context)
	typeSetter := sema.NewExpressionTypeSetter(tu.Context)
	semChecker := sema.NewSemanticsChecker(tu.Context)
	//
	log.Debug("running scope creation")
	for _, fn := range tu.Functions {
		if !fn.IsDefined {
			continue
		}
		scopeCreator.Run(fn)
	}
	log.Debug("running expression typing")
	for _, fn := range tu.Functions {
		if !fn.IsDefined {
			continue
		}
		typeSetter.Run(fn)
	}
	log.Debug("running semantic checks")
	for _, fn := range tu.Functions {
		if !fn.IsDefined {
			continue
		}
		semChecker.Run(fn)
	}
	// Frame-slot allocation runs last, after SemanticsChecker: that pass is
	// the one that declares compiler-introduced hidden temporaries (spec.md
	// §4.4) into a function's scopes, and they must exist before
	// AllocateLocalVariables walks the scope tree or they are left with no
	// frame displacement at all.
	for _, fn := range tu.Functions {
		if !fn.IsDefined {
			continue
		}
		fn.MinDisplacement, _ = fn.TopScope.AllocateLocalVariables(tu.Context.Types, 0, true, fn.IsFPIR)
	}
	return !tu.Context.Diags.HasErrors()
}

// Compile emits every reachable, defined function's assembly to opts.Output,
// followed by the EXTERN declarations (or concatenated bodies) of every
// runtime utility actually referenced. Call Analyze first; Compile does not
// re-run the semantic passes.
func (tu *TranslationUnit) Compile() error {
	sink := asmtext.NewSink(tu.opts.Output)
	defer sink.Close()
	//
	reachable := tu.reachableFunctions()
	emitter := codegen.NewEmitter(sink, tu.Context.Arena, tu.Context.Types, tu.Context.Diags, tu, tu.opts.Gen)
	for _, fn := range reachable {
		if !fn.IsDefined {
			continue
		}
		emitter.EmitFunction(fn)
	}
	emitter.FlushLiterals()
	codegen.EmitGlobals(sink, tu.Context.Arena, tu.Context.Types, tu.Context.Global.Declarations())
	//
	tu.emitUtilities(sink)
	return nil
}

// reachableFunctions implements spec.md §9's dead-function elimination: a
// breadth-first walk of the call graph starting from every ISR and from
// "main", plus every function whose address is taken anywhere (address-taken
// functions may be invoked indirectly from outside the analyzed call graph,
// e.g. by a jump table, so they are always kept).
func (tu *TranslationUnit) reachableFunctions() []*ast.FunctionDef {
	roots := make([]*ast.FunctionDef, 0)
	for _, fn := range tu.Functions {
		if fn.Name == "main" || fn.IsISR || tu.isAddressTaken(fn) {
			roots = append(roots, fn)
		}
	}
	//
	seen := make(map[string]bool)
	order := make([]*ast.FunctionDef, 0, len(tu.Functions))
	var visit func(fn *ast.FunctionDef)
	visit = func(fn *ast.FunctionDef) {
		if fn == nil || seen[fn.Name] {
			return
		}
		seen[fn.Name] = true
		order = append(order, fn)
		for _, callee := range tu.calleesOf(fn) {
			visit(callee)
		}
	}
	for _, fn := range roots {
		visit(fn)
	}
	//
	for _, fn := range tu.Functions {
		if fn.IsDefined && !seen[fn.Name] {
			log.WithField("function", fn.Name).Info("unreachable function suppressed")
		}
	}
	return order
}

func (tu *TranslationUnit) isAddressTaken(fn *ast.FunctionDef) bool {
	found := false
	for _, other := range tu.Functions {
		if other.Body == ast.NoNode {
			continue
		}
		ast.Iterate(tu.Context.Arena, other.Body, ast.Visitor{Pre: func(id ast.NodeID) {
			n := tu.Context.Arena.Get(id)
			if n.Kind == ast.FuncNameRef && n.FuncRef == fn {
				found = true
			}
		}})
	}
	return found
}

// calleesOf enumerates every statically-known function a Call node inside fn
// references, for the reachability walk.
func (tu *TranslationUnit) calleesOf(fn *ast.FunctionDef) []*ast.FunctionDef {
	if fn.Body == ast.NoNode {
		return nil
	}
	var callees []*ast.FunctionDef
	ast.Iterate(tu.Context.Arena, fn.Body, ast.Visitor{Pre: func(id ast.NodeID) {
		n := tu.Context.Arena.Get(id)
		if n.Kind == ast.Call && n.FuncRef != nil {
			callees = append(callees, n.FuncRef)
		}
	}})
	return callees
}

// emitUtilities writes an EXTERN directive for every runtime helper the
// emitter referenced while compiling this unit, sorted for reproducible
// output (spec.md §4.5: "only utilities actually referenced are pulled in").
// When InlineRuntimeHelpers is set, the concatenated bodies are the driver's
// caller's responsibility (they are sourced from a separate assembly library
// file, not generated here); this pass still records which names are needed.
func (tu *TranslationUnit) emitUtilities(sink *asmtext.Sink) {
	if len(tu.needed) == 0 {
		return
	}
	names := make([]string, 0, len(tu.needed))
	for name := range tu.needed {
		names = append(names, name)
	}
	sort.Strings(names)
	//
	sink.Blank()
	sink.Comment("runtime support utilities referenced by this translation unit")
	for _, name := range names {
		if tu.opts.Gen.InlineRuntimeHelpers {
			sink.Comment(fmt.Sprintf("inline: %s", name))
			continue
		}
		sink.Directive("", "EXTERN", name)
	}
}
