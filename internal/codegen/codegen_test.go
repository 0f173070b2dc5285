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
package codegen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oss6809/sixgen/internal/ast"
	"github.com/oss6809/sixgen/internal/asmtext"
	"github.com/oss6809/sixgen/internal/codegen"
	"github.com/oss6809/sixgen/internal/diag"
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/types"
)

// fixture bundles the pieces every test needs to build a tiny function and
// capture its emitted assembly: an Arena/Manager pair, a Sink writing to an
// in-memory buffer, and the Emitter itself.
type fixture struct {
	arena *ast.Arena
	types *types.Manager
	out   *bytes.Buffer
	sink  *asmtext.Sink
	em    *codegen.Emitter
}

func newFixture() *fixture {
	arena := ast.NewArena()
	tm := types.NewManager()
	var out bytes.Buffer
	sink := asmtext.NewSink(&out)
	em := codegen.NewEmitter(sink, arena, tm, &diag.Bag{}, nil, codegen.Config{})
	return &fixture{arena: arena, types: tm, out: &out, sink: sink, em: em}
}

// emitFunction wraps body in a minimal FunctionDef and runs the emitter over
// it, returning the column-aligned assembly text.
func (f *fixture) emitFunction(name string, body ast.NodeID, topScope *scope.Scope, minDisp int) string {
	fn := &ast.FunctionDef{
		Name:            name,
		Type:            f.types.GetFunction(f.types.GetBasic(types.WORD, true), nil, false, false, false),
		TopScope:        topScope,
		Body:            body,
		IsDefined:       true,
		EndLabel:        "_" + name + "_end",
		MinDisplacement: minDisp,
	}
	f.em.EmitFunction(fn)
	f.em.FlushLiterals()
	if err := f.sink.Close(); err != nil {
		panic(err)
	}
	return f.out.String()
}

func declareLocal(s *scope.Scope, m *types.Manager, name string, td *types.TypeDesc) *scope.Declaration {
	decl := &scope.Declaration{Identifier: name, Type: td, Storage: scope.Auto}
	s.DeclareVariable(decl)
	return decl
}

// countInsns reports how many lines of text have mnemonic as a field
// followed immediately by operand (or, if operand is "", just mnemonic as a
// field). The tabwriter sink column-aligns with spaces, not literal tabs, so
// tests match on whitespace-split fields rather than raw substrings.
func countInsns(text, mnemonic, operand string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		for i, fld := range fields {
			if fld != mnemonic {
				continue
			}
			if operand == "" || (i+1 < len(fields) && fields[i+1] == operand) {
				n++
				break
			}
		}
	}
	return n
}

// TestWordConstImmediateIsHex covers spec.md §8 scenario 1: a source-value
// immediate is always rendered in hex, e.g. "LDD #$0005", never "#5".
func TestWordConstImmediateIsHex(t *testing.T) {
	f := newFixture()
	topScope := scope.NewRootScope()
	//
	k := f.arena.New(ast.Node{Kind: ast.WordConst, WordValue: 5})
	ret := f.arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn, A: k})
	body := f.arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{ret}})
	//
	out := f.emitFunction("give5", body, topScope, 0)
	if countInsns(out, "LDD", "#$0005") == 0 {
		t.Fatalf("expected hex immediate #$0005, got:\n%s", out)
	}
	if countInsns(out, "LDD", "#5") != 0 {
		t.Fatalf("expected no decimal immediate, got:\n%s", out)
	}
}

// TestBitwiseWordUsesByteWidePairs covers the emitBitwise fix: the 6809 has
// no word-wide logical instruction, so "a & b" on two WORD locals must
// lower to paired 8-bit ANDA/ANDB against the halves PSHS D leaves on the
// stack, never a fabricated "ANDD".
func TestBitwiseWordUsesByteWidePairs(t *testing.T) {
	f := newFixture()
	wordTy := f.types.GetBasic(types.WORD, true)
	topScope := scope.NewRootScope()
	declA := declareLocal(topScope, f.types, "a", wordTy)
	declB := declareLocal(topScope, f.types, "b", wordTy)
	minDisp, _ := topScope.AllocateLocalVariables(f.types, 0, true, false)
	//
	refA := f.arena.New(ast.Node{Kind: ast.VariableRef, Decl: declA, Type: wordTy})
	refB := f.arena.New(ast.Node{Kind: ast.VariableRef, Decl: declB, Type: wordTy})
	and := f.arena.New(ast.Node{Kind: ast.BinaryOp, Op: ast.OpBitAnd, A: refA, B: refB, Type: wordTy})
	ret := f.arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn, A: and})
	body := f.arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{ret}})
	//
	out := f.emitFunction("bitand", body, topScope, minDisp)
	if !strings.Contains(out, "ANDA") || !strings.Contains(out, "ANDB") {
		t.Fatalf("expected paired ANDA/ANDB, got:\n%s", out)
	}
	if strings.Contains(out, "ANDD") {
		t.Fatalf("fabricated 16-bit ANDD mnemonic leaked into output:\n%s", out)
	}
}

// TestSwitchPushesAndPopsScrutineeExactly covers the emitSwitch fix: the
// scrutinee is pushed once and popped exactly once regardless of which
// case (if any) matches.
func TestSwitchPushesAndPopsScrutineeExactly(t *testing.T) {
	f := newFixture()
	wordTy := f.types.GetBasic(types.WORD, true)
	topScope := scope.NewRootScope()
	decl := declareLocal(topScope, f.types, "x", wordTy)
	minDisp, _ := topScope.AllocateLocalVariables(f.types, 0, true, false)
	//
	scrutinee := f.arena.New(ast.Node{Kind: ast.VariableRef, Decl: decl, Type: wordTy})
	case1Body := f.arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpBreak})
	case1 := f.arena.New(ast.Node{Kind: ast.Labeled, StrValue: "case", CaseValue: 1, A: case1Body})
	defaultBody := f.arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpBreak})
	defaultLbl := f.arena.New(ast.Node{Kind: ast.Labeled, StrValue: "default", A: defaultBody})
	switchBody := f.arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{case1, defaultLbl}})
	sw := f.arena.New(ast.Node{Kind: ast.Switch, A: scrutinee, B: switchBody})
	ret := f.arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn})
	body := f.arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{sw, ret}})
	//
	out := f.emitFunction("dispatch", body, topScope, minDisp)
	pushes := countInsns(out, "PSHS", "D")
	if pushes != 1 {
		t.Fatalf("expected exactly one PSHS D, got %d:\n%s", pushes, out)
	}
	pops := countInsns(out, "LEAS", "2,S")
	if pops != 2 { // one on the matched-case path, one on the fallthrough-to-default path
		t.Fatalf("expected exactly two distinct LEAS 2,S pop sites (one per path), got %d:\n%s", pops, out)
	}
	if countInsns(out, "CMPD", ",S") == 0 {
		t.Fatalf("expected a non-destructive CMPD ,S peek, got:\n%s", out)
	}
}

// TestConstantAddressStoreNeedsNoRegister covers spec.md §4.4 assignment
// strategy 1: "*(T *)0xABCD = expr" stores directly to the literal address,
// with no LEAX computing it first.
func TestConstantAddressStoreNeedsNoRegister(t *testing.T) {
	f := newFixture()
	byteTy := f.types.GetBasic(types.BYTE, false)
	ptrTy := f.types.GetPointerTo(byteTy, nil)
	topScope := scope.NewRootScope()
	//
	addr := f.arena.New(ast.Node{Kind: ast.WordConst, WordValue: 0xABCD})
	cast := f.arena.New(ast.Node{Kind: ast.Cast, A: addr, Type: ptrTy})
	deref := f.arena.New(ast.Node{Kind: ast.UnaryOp, Op: ast.OpDeref, A: cast, Type: byteTy})
	rhs := f.arena.New(ast.Node{Kind: ast.WordConst, WordValue: 1})
	assign := f.arena.New(ast.Node{Kind: ast.BinaryOp, Op: ast.OpAssign, A: deref, B: rhs, Type: byteTy})
	ret := f.arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn})
	body := f.arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{assign, ret}})
	//
	out := f.emitFunction("poke", body, topScope, 0)
	if countInsns(out, "STB", "$ABCD") == 0 {
		t.Fatalf("expected a direct STB $ABCD with no address register, got:\n%s", out)
	}
	if strings.Contains(out, "LEAX") {
		t.Fatalf("constant-address store should never compute the address into a register, got:\n%s", out)
	}
}

// TestLiteralPoolDedupesRepeatedLongConstant covers the literal pool: two
// references to the same LONG constant share one label and one FCB line,
// flushed once at the end of the unit.
func TestLiteralPoolDedupesRepeatedLongConstant(t *testing.T) {
	f := newFixture()
	topScope := scope.NewRootScope()
	//
	c1 := f.arena.New(ast.Node{Kind: ast.LongConst, LongValue: 100000})
	c2 := f.arena.New(ast.Node{Kind: ast.LongConst, LongValue: 100000})
	ret := f.arena.New(ast.Node{Kind: ast.Jump, Op: ast.OpReturn})
	body := f.arena.New(ast.Node{Kind: ast.CompoundStmt, Children: []ast.NodeID{c1, c2, ret}})
	//
	out := f.emitFunction("unused", body, topScope, 0)
	labelOccurrences := strings.Count(out, "lit_long_")
	if labelOccurrences != 3 { // one LEAX reference per use, plus one label definition
		t.Fatalf("expected the same label referenced twice and defined once (3 occurrences total), got %d:\n%s", labelOccurrences, out)
	}
	if strings.Count(out, "FCB") != 1 {
		t.Fatalf("expected exactly one FCB line for the deduplicated constant, got:\n%s", out)
	}
}

// TestEmitGlobalsArrayInitializerOneFCBPerElement covers spec.md §8 scenario
// 2: "char a[3] = {1,2,3};" lowers to a label followed by three separate
// FCB lines, one per element, not one combined line.
func TestEmitGlobalsArrayInitializerOneFCBPerElement(t *testing.T) {
	arena := ast.NewArena()
	tm := types.NewManager()
	byteTy := tm.GetBasic(types.BYTE, true)
	arrTy := tm.GetArrayOf(byteTy, []int{3})
	//
	e1 := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 1})
	e2 := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 2})
	e3 := arena.New(ast.Node{Kind: ast.WordConst, WordValue: 3})
	list := arena.New(ast.Node{Kind: ast.Comma, Children: []ast.NodeID{e1, e2, e3}})
	//
	decl := &scope.Declaration{
		Identifier:  "a",
		Type:        arrTy,
		Storage:     scope.Global,
		Initializer: scope.NodeRef(list),
	}
	//
	var out bytes.Buffer
	sink := asmtext.NewSink(&out)
	codegen.EmitGlobals(sink, arena, tm, []*scope.Declaration{decl})
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if strings.Count(text, "FCB") != 3 {
		t.Fatalf("expected exactly 3 FCB lines, one per element, got:\n%s", text)
	}
	for _, want := range []string{"$01", "$02", "$03"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected element value %s in output, got:\n%s", want, text)
		}
	}
	if !strings.Contains(text, "a:") {
		t.Fatalf("expected label %q, got:\n%s", "a:", text)
	}
}

// TestEmitGlobalsUninitializedReservesStorage covers the RMB fallback for a
// global/static declaration with no initializer.
func TestEmitGlobalsUninitializedReservesStorage(t *testing.T) {
	arena := ast.NewArena()
	tm := types.NewManager()
	wordTy := tm.GetBasic(types.WORD, true)
	decl := &scope.Declaration{
		Identifier:  "counter",
		Type:        wordTy,
		Storage:     scope.Static,
		Initializer: scope.NoNode,
	}
	var out bytes.Buffer
	sink := asmtext.NewSink(&out)
	codegen.EmitGlobals(sink, arena, tm, []*scope.Declaration{decl})
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "counter:") || countInsns(text, "RMB", "2") == 0 {
		t.Fatalf("expected counter: label followed by RMB 2, got:\n%s", text)
	}
}

// TestEmitGlobalsSkipsExtern covers that an Extern declaration contributes
// no storage of its own.
func TestEmitGlobalsSkipsExtern(t *testing.T) {
	arena := ast.NewArena()
	tm := types.NewManager()
	wordTy := tm.GetBasic(types.WORD, true)
	decl := &scope.Declaration{Identifier: "shared", Type: wordTy, Storage: scope.Extern}
	var out bytes.Buffer
	sink := asmtext.NewSink(&out)
	codegen.EmitGlobals(sink, arena, tm, []*scope.Declaration{decl})
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "shared:") {
		t.Fatalf("extern declaration should not emit its own label, got:\n%s", out.String())
	}
}
