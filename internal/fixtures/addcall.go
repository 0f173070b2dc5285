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
package fixtures

import (
	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/driver"
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/sema"
	"github.com/oss6809/sixgen/internal/types"
)

func init() {
	Register("add-and-call", buildAddAndCall)
}

// buildAddAndCall hand-builds the AST that a parser would produce for:
//
//	word add(word a, word b) { return a + b; }
//	word main() { return add(1, 2); }
//
// exercising parameter scope allocation, binary-operator lowering, a direct
// call to a statically-known function, and the reachability walk keeping
// both functions (main calls add).
func buildAddAndCall(cfg sema.Config) *driver.TranslationUnit {
	tu := driver.NewTranslationUnit(driver.Options{Sema: cfg})
	ctx := tu.Context
	arena := ctx.Arena
	m := ctx.Types
	//
	wordTy := m.GetBasic(types.WORD, true)
	addTy := m.GetFunction(wordTy, []*types.TypeDesc{wordTy, wordTy}, false, false, false)
	mainTy := m.GetFunction(wordTy, nil, false, false, false)
	//
	addScope := ctx.Global.NewChild()
	paramA := &scope.Declaration{Identifier: "a", Type: wordTy, IsParameter: true}
	paramB := &scope.Declaration{Identifier: "b", Type: wordTy, IsParameter: true}
	addScope.DeclareVariable(paramA)
	addScope.DeclareVariable(paramB)
	//
	aRef := arena.New(ast.Node{Kind: ast.VariableRef, Decl: paramA})
	bRef := arena.New(ast.Node{Kind: ast.VariableRef, Decl: paramB})
	sum := arena.New(ast.Node{Kind: ast.BinaryOp, Op: ast.OpAdd, A: aRef, B: bRef})
	addRet := arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn, A: sum})
	addBody := arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{addRet}})
	//
	addFn := &ast.FunctionDef{
		Name:      "add",
		Type:      addTy,
		Params:    []*scope.Declaration{paramA, paramB},
		TopScope:  addScope,
		Body:      addBody,
		IsDefined: true,
		EndLabel:  "_add_end",
	}
	addFn.MinDisplacement, _ = addScope.AllocateLocalVariables(m, 0, true, false)
	tu.AddFunction(addFn)
	//
	mainScope := ctx.Global.NewChild()
	one := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 1})
	two := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 2})
	call := arena.New(ast.Node{Kind: ast.Call, FuncRef: addFn, Children: []ast.NodeID{one, two}})
	mainRet := arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn, A: call})
	mainBody := arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{mainRet}})
	//
	mainFn := &ast.FunctionDef{
		Name:      "main",
		Type:      mainTy,
		TopScope:  mainScope,
		Body:      mainBody,
		IsDefined: true,
		EndLabel:  "_main_end",
	}
	mainFn.MinDisplacement, _ = mainScope.AllocateLocalVariables(m, 0, true, false)
	tu.AddFunction(mainFn)
	//
	return tu
}
