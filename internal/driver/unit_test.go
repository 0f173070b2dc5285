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
package driver_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/codegen"
	"github.com/oss6809/sixgen/internal/driver"
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/sema"
	"github.com/oss6809/sixgen/internal/types"
)

func build(t *testing.T, cfg sema.Config) *driver.TranslationUnit {
	t.Helper()
	tu := driver.NewTranslationUnit(driver.Options{Sema: cfg})
	ctx := tu.Context
	arena := ctx.Arena
	m := ctx.Types
	//
	wordTy := m.GetBasic(types.WORD, true)
	fnTy := m.GetFunction(wordTy, nil, false, false, false)
	topScope := ctx.Global.NewChild()
	//
	retExpr := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 7})
	retStmt := arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn, A: retExpr})
	body := arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{retStmt}})
	//
	fn := &ast.FunctionDef{
		Name:      "main",
		Type:      fnTy,
		TopScope:  topScope,
		Body:      body,
		IsDefined: true,
		EndLabel:  "_main_end",
	}
	fn.MinDisplacement, _ = topScope.AllocateLocalVariables(m, 0, true, false)
	tu.AddFunction(fn)
	return tu
}

func TestAnalyzeThenCompileEmitsMainLabel(t *testing.T) {
	tu := build(t, sema.Config{})
	if !tu.Analyze() {
		t.Fatalf("expected Analyze to succeed, diagnostics: %v", tu.Context.Diags.All())
	}
	//
	var out bytes.Buffer
	tu.SetOutput(&out, codegen.Config{})
	if err := tu.Compile(); err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if !strings.Contains(out.String(), "main") {
		t.Fatalf("expected emitted assembly to mention the main label, got:\n%s", out.String())
	}
}

func TestUnreferencedStaticFunctionIsEliminated(t *testing.T) {
	tu := build(t, sema.Config{})
	ctx := tu.Context
	arena := ctx.Arena
	m := ctx.Types
	//
	wordTy := m.GetBasic(types.WORD, true)
	deadTy := m.GetFunction(wordTy, nil, false, false, false)
	deadScope := ctx.Global.NewChild()
	deadRet := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 1})
	deadStmt := arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn, A: deadRet})
	deadBody := arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{deadStmt}})
	deadFn := &ast.FunctionDef{
		Name:      "unused_helper",
		Type:      deadTy,
		TopScope:  deadScope,
		Body:      deadBody,
		IsDefined: true,
		EndLabel:  "_unused_helper_end",
	}
	deadFn.MinDisplacement, _ = deadScope.AllocateLocalVariables(m, 0, true, false)
	tu.AddFunction(deadFn)
	//
	if !tu.Analyze() {
		t.Fatalf("expected Analyze to succeed, diagnostics: %v", tu.Context.Diags.All())
	}
	var out bytes.Buffer
	tu.SetOutput(&out, codegen.Config{})
	if err := tu.Compile(); err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if strings.Contains(out.String(), "unused_helper") {
		t.Fatalf("expected unreferenced static function to be eliminated, got:\n%s", out.String())
	}
}

func TestAddressTakenFunctionIsKept(t *testing.T) {
	tu := build(t, sema.Config{})
	ctx := tu.Context
	arena := ctx.Arena
	m := ctx.Types
	//
	wordTy := m.GetBasic(types.WORD, true)
	helperTy := m.GetFunction(wordTy, nil, false, false, false)
	helperScope := ctx.Global.NewChild()
	helperRet := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 3})
	helperStmt := arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn, A: helperRet})
	helperBody := arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{helperStmt}})
	helperFn := &ast.FunctionDef{
		Name:      "callback",
		Type:      helperTy,
		TopScope:  helperScope,
		Body:      helperBody,
		IsDefined: true,
		EndLabel:  "_callback_end",
	}
	helperFn.MinDisplacement, _ = helperScope.AllocateLocalVariables(m, 0, true, false)
	tu.AddFunction(helperFn)
	//
	// Store the callback's address in a local of main, so that it is
	// address-taken but never statically called.
	mainFn := tu.Functions[0]
	ptrTy := m.GetPointerTo(helperTy, nil)
	holder := &scope.Declaration{Identifier: "fp", Type: ptrTy}
	mainFn.TopScope.DeclareVariable(holder)
	addrRef := arena.New(ast.Node{Kind: ast.FuncNameRef, FuncRef: helperFn})
	assignStmt := arena.New(ast.Node{
		Kind: ast.BinaryOp, Op: ast.OpAssign,
		A: arena.New(ast.Node{Kind: ast.VariableRef, Decl: holder}),
		B: addrRef,
	})
	mainBody := arena.Get(mainFn.Body)
	mainBody.Children = append([]ast.NodeID{assignStmt}, mainBody.Children...)
	mainFn.MinDisplacement, _ = mainFn.TopScope.AllocateLocalVariables(m, 0, true, false)
	//
	if !tu.Analyze() {
		t.Fatalf("expected Analyze to succeed, diagnostics: %v", tu.Context.Diags.All())
	}
	var out bytes.Buffer
	tu.SetOutput(&out, codegen.Config{})
	if err := tu.Compile(); err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if !strings.Contains(out.String(), "callback") {
		t.Fatalf("expected address-taken function to be kept, got:\n%s", out.String())
	}
}
