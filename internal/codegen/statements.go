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
	"github.com/oss6809/sixgen/internal/types"
)

// emitStmt dispatches on n's Kind. Non-statement Kinds reaching here are
// expression-statements (e.g. a bare call or assignment); their value, if
// any, is simply discarded (lValue = false).
func (e *Emitter) emitStmt(id ast.NodeID) bool {
	if id == ast.NoNode {
		return true
	}
	n := e.Arena.Get(id)
	//
	switch n.Kind {
	case ast.CompoundStmt:
		ok := true
		for _, c := range n.Children {
			if !e.emitStmt(c) {
				ok = false
			}
		}
		return ok
	case ast.DeclStmt:
		return e.emitDeclStmt(n)
	case ast.If:
		return e.emitIf(n)
	case ast.While:
		return e.emitWhile(n)
	case ast.DoWhile:
		return e.emitDoWhile(n)
	case ast.For:
		return e.emitFor(n)
	case ast.Switch:
		return e.emitSwitch(n)
	case ast.Labeled:
		return e.emitLabeled(n)
	case ast.Jump:
		return e.emitJump(n)
	case ast.AsmStmt:
		return e.emitAsm(n)
	case ast.PragmaStmt:
		return true
	default:
		return e.emitExpr(id, false)
	}
}

func (e *Emitter) emitDeclStmt(n *ast.Node) bool {
	decl := n.Decl
	if decl == nil || n.A == ast.NoNode {
		return true // no initializer: the frame slot is simply uninitialized
	}
	return e.emitInitializer(decl, n.A)
}

// emitIf implements spec.md §4.4's constant-folding-aware if/else lowering.
func (e *Emitter) emitIf(n *ast.Node) bool {
	cond := e.Arena.Get(n.A)
	if v, ok := constantBoolValue(cond); ok {
		if v {
			return e.emitStmt(n.B)
		}
		if n.C != ast.NoNode {
			return e.emitStmt(n.C)
		}
		return true
	}
	//
	thenLabel := e.newLabel("then")
	elseLabel := e.newLabel("else")
	endLabel := e.newLabel("endif")
	//
	e.emitBoolJumps(n.A, thenLabel, elseLabel)
	e.Out.Label(thenLabel)
	ok := e.emitStmt(n.B)
	if n.C != ast.NoNode {
		e.Out.Insn("", "LBRA", endLabel, "")
		e.Out.Label(elseLabel)
		ok = e.emitStmt(n.C) && ok
		e.Out.Label(endLabel)
	} else {
		e.Out.Label(elseLabel)
	}
	return ok
}

func (e *Emitter) emitWhile(n *ast.Node) bool {
	bodyLabel := e.newLabel("body")
	condLabel := e.newLabel("cond")
	endLabel := e.newLabel("endwhile")
	//
	e.pushLoop(endLabel, condLabel)
	defer e.popLoop()
	//
	e.Out.Insn("", "LBRA", condLabel, "")
	e.Out.Label(bodyLabel)
	ok := e.emitStmt(n.B)
	e.Out.Label(condLabel)
	e.emitBoolJumps(n.A, bodyLabel, endLabel)
	e.Out.Label(endLabel)
	return ok
}

func (e *Emitter) emitDoWhile(n *ast.Node) bool {
	bodyLabel := e.newLabel("body")
	condLabel := e.newLabel("cond")
	endLabel := e.newLabel("enddo")
	//
	e.pushLoop(endLabel, condLabel)
	defer e.popLoop()
	//
	e.Out.Label(bodyLabel)
	ok := e.emitStmt(n.B)
	e.Out.Label(condLabel)
	e.emitBoolJumps(n.A, bodyLabel, endLabel)
	e.Out.Label(endLabel)
	return ok
}

func (e *Emitter) emitFor(n *ast.Node) bool {
	if n.A != ast.NoNode {
		if !e.emitStmt(n.A) {
			return false
		}
	}
	//
	bodyLabel := e.newLabel("body")
	condLabel := e.newLabel("cond")
	endLabel := e.newLabel("endfor")
	stepLabel := e.newLabel("step")
	//
	e.pushLoop(endLabel, stepLabel)
	defer e.popLoop()
	//
	e.Out.Insn("", "LBRA", condLabel, "")
	e.Out.Label(bodyLabel)
	ok := e.emitStmt(n.D)
	e.Out.Label(stepLabel)
	if n.C != ast.NoNode {
		ok = e.emitExpr(n.C, false) && ok
	}
	e.Out.Label(condLabel)
	if n.B != ast.NoNode {
		e.emitBoolJumps(n.B, bodyLabel, endLabel)
	} else {
		e.Out.Insn("", "LBRA", bodyLabel, "")
	}
	e.Out.Label(endLabel)
	return ok
}

// emitSwitch lowers to a sequence of comparisons against each case value, per
// spec.md §4.4: no jump table, a linear chain of compare-and-branch. The
// scrutinee is pushed once and compared by peeking (CMPD ,S) so every case
// can test it; whichever path is actually taken -- a matching case or the
// default/end fallthrough -- pops it exactly once before branching away.
func (e *Emitter) emitSwitch(n *ast.Node) bool {
	if !e.emitExpr(n.A, false) {
		return false
	}
	e.Out.Insn("", "PSHS", "D", "")
	//
	endLabel := e.newLabel("endswitch")
	e.pushLoop(endLabel, "")
	defer e.popLoop()
	//
	body := e.Arena.Get(n.B)
	caseLabels := make(map[ast.NodeID]string)
	defaultLabel := ""
	for _, c := range body.Children {
		lbl := e.Arena.Get(c)
		if lbl.Kind != ast.Labeled {
			continue
		}
		label := e.newLabel("case")
		caseLabels[c] = label
		if lbl.StrValue == "default" {
			defaultLabel = label
		}
	}
	//
	for _, c := range body.Children {
		lbl := e.Arena.Get(c)
		if lbl.Kind != ast.Labeled || lbl.StrValue != "case" {
			continue
		}
		skipLabel := e.newLabel("caseskip")
		e.Out.Insn("", "LDD", immediateWord(uint16(lbl.CaseValue)), "")
		e.Out.Insn("", "CMPD", ",S", "")
		e.Out.Insn("", "LBNE", skipLabel, "")
		e.Out.Insn("", "LEAS", "2,S", "")
		e.Out.Insn("", "LBRA", caseLabels[c], "")
		e.Out.Label(skipLabel)
	}
	e.Out.Insn("", "LEAS", "2,S", "")
	if defaultLabel != "" {
		e.Out.Insn("", "LBRA", defaultLabel, "")
	} else {
		e.Out.Insn("", "LBRA", endLabel, "")
	}
	//
	ok := true
	for _, c := range body.Children {
		lbl := e.Arena.Get(c)
		if lbl.Kind == ast.Labeled {
			if l, found := caseLabels[c]; found {
				e.Out.Label(l)
			}
		}
		if !e.emitStmt(c) {
			ok = false
		}
	}
	e.Out.Label(endLabel)
	return ok
}

func (e *Emitter) emitLabeled(n *ast.Node) bool {
	switch n.StrValue {
	case "case", "default":
		// Label text already emitted by emitSwitch; just emit the attached
		// statement.
	default:
		if n.Ident != "" {
			e.Out.Label(n.Ident)
		}
	}
	return e.emitStmt(n.A)
}

func (e *Emitter) emitJump(n *ast.Node) bool {
	switch n.Op {
	case ast.OpBreak:
		if len(e.breakStack) == 0 {
			e.Diags.Errorf(n.Loc, "'break' outside a loop or switch")
			return false
		}
		e.Out.Insn("", "LBRA", e.breakStack[len(e.breakStack)-1], "")
		return true
	case ast.OpContinue:
		if len(e.contStack) == 0 || e.contStack[len(e.contStack)-1] == "" {
			e.Diags.Errorf(n.Loc, "'continue' outside a loop")
			return false
		}
		e.Out.Insn("", "LBRA", e.contStack[len(e.contStack)-1], "")
		return true
	case ast.OpGoto:
		e.Out.Insn("", "LBRA", n.Ident, "")
		return true
	case ast.OpReturn:
		return e.emitReturn(n)
	}
	return true
}

func (e *Emitter) emitReturn(n *ast.Node) bool {
	if n.A == ast.NoNode {
		e.Out.Insn("", "LBRA", e.fn.EndLabel, "")
		return true
	}
	//
	retType := e.fn.Type.Return
	lValue := retType != nil && retType.IsAggregate()
	if !e.emitExpr(n.A, lValue) {
		return false
	}
	if lValue && e.fn.ReturnSlot != nil {
		e.Out.Insn("", "LDD", fmt.Sprintf("%d,U", e.fn.ReturnSlot.FrameDisplacement), "")
		e.copyAggregate(retType)
	}
	e.Out.Insn("", "LBRA", e.fn.EndLabel, "")
	return true
}

// copyAggregate copies the aggregate whose address is in X to the
// destination address just loaded into D, via the matching runtime helper.
func (e *Emitter) copyAggregate(td *types.TypeDesc) {
	switch {
	case td.Kind == types.LONG:
		e.Out.Insn("", "LBSR", e.need("copyDWord"), "")
	case td.Kind == types.REAL:
		e.Out.Insn("", "LBSR", e.need("copySingle"), "")
	default:
		e.Out.Insn("", "LBSR", e.need("memcpy"), "")
	}
}

func (e *Emitter) pushLoop(breakLabel, continueLabel string) {
	e.breakStack = append(e.breakStack, breakLabel)
	e.contStack = append(e.contStack, continueLabel)
}

func (e *Emitter) popLoop() {
	e.breakStack = e.breakStack[:len(e.breakStack)-1]
	e.contStack = e.contStack[:len(e.contStack)-1]
}

func (e *Emitter) emitAsm(n *ast.Node) bool {
	e.Out.Insn("", resolveAsmVars(n.AsmText, e.fn), "", "")
	return true
}

// resolveAsmVars replaces a ":VAR" reference in inline assembler text with
// VAR's frame displacement, looked up in the enclosing function's scope
// (spec.md §4.4).
func resolveAsmVars(text string, fn *ast.FunctionDef) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == ':' {
			j := i + 1
			for j < len(text) && isIdentChar(text[j]) {
				j++
			}
			name := text[i+1 : j]
			if d, ok := fn.TopScope.Lookup(name, true); ok {
				out = append(out, []byte(fmt.Sprintf("%d,U", d.FrameDisplacement))...)
				i = j - 1
				continue
			}
		}
		out = append(out, text[i])
	}
	return string(out)
}

func isIdentChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
