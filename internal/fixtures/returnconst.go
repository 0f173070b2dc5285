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
	"github.com/oss6809/sixgen/internal/sema"
	"github.com/oss6809/sixgen/internal/types"
)

func init() {
	Register("return-const", buildReturnConst)
}

// buildReturnConst hand-builds the AST that a parser would produce for:
//
//	word main() { return 42; }
//
// standing in for the parser this module does not implement.
func buildReturnConst(cfg sema.Config) *driver.TranslationUnit {
	tu := driver.NewTranslationUnit(driver.Options{Sema: cfg})
	ctx := tu.Context
	arena := ctx.Arena
	m := ctx.Types
	//
	wordTy := m.GetBasic(types.WORD, true)
	fnTy := m.GetFunction(wordTy, nil, false, false, false)
	//
	topScope := ctx.Global.NewChild()
	//
	retExpr := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 42})
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
