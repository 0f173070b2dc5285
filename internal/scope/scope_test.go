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
package scope

import (
	"testing"

	"github.com/oss6809/sixgen/internal/types"
)

func Test_DeclareVariableRejectsDuplicate(t *testing.T) {
	m := types.NewManager()
	s := NewRootScope()
	//
	a := &Declaration{Identifier: "x", Type: m.GetBasic(types.WORD, true)}
	b := &Declaration{Identifier: "x", Type: m.GetBasic(types.BYTE, true)}
	//
	if !s.DeclareVariable(a) {
		t.Fatalf("expected first declaration of x to succeed")
	}
	if s.DeclareVariable(b) {
		t.Fatalf("expected duplicate declaration of x in the same scope to fail")
	}
}

func Test_LookupWalksParents(t *testing.T) {
	m := types.NewManager()
	root := NewRootScope()
	child := root.NewChild()
	//
	root.DeclareVariable(&Declaration{Identifier: "g", Type: m.GetBasic(types.WORD, true)})
	//
	if _, ok := child.Lookup("g", false); ok {
		t.Fatalf("expected lookup without walking parents to fail")
	}
	if _, ok := child.Lookup("g", true); !ok {
		t.Fatalf("expected lookup walking parents to find g")
	}
}

func Test_AllocateLocalVariablesStackParamsStartAtFour(t *testing.T) {
	m := types.NewManager()
	top := NewRootScope()
	word := m.GetBasic(types.WORD, true)
	byt := m.GetBasic(types.BYTE, true)
	//
	pa := &Declaration{Identifier: "a", Type: word, IsParameter: true}
	pb := &Declaration{Identifier: "b", Type: byt, IsParameter: true}
	loc := &Declaration{Identifier: "t", Type: word}
	//
	top.DeclareVariable(pa)
	top.DeclareVariable(pb)
	top.DeclareVariable(loc)
	//
	final, count := top.AllocateLocalVariables(m, 0, true, false)
	//
	if pa.FrameDisplacement != 4 {
		t.Fatalf("expected first stack param at +4, got %d", pa.FrameDisplacement)
	}
	if pb.FrameDisplacement != 6 {
		t.Fatalf("expected second stack param (byte, padded) at +6, got %d", pb.FrameDisplacement)
	}
	if loc.FrameDisplacement != -2 {
		t.Fatalf("expected local at -2, got %d", loc.FrameDisplacement)
	}
	if final != -2 {
		t.Fatalf("expected final displacement -2, got %d", final)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func Test_AllocateLocalVariablesFirstParamInReg(t *testing.T) {
	m := types.NewManager()
	top := NewRootScope()
	word := m.GetBasic(types.WORD, true)
	//
	first := &Declaration{Identifier: "a", Type: word, IsParameter: true}
	second := &Declaration{Identifier: "b", Type: word, IsParameter: true}
	//
	top.DeclareVariable(first)
	top.DeclareVariable(second)
	//
	top.AllocateLocalVariables(m, 0, true, true)
	//
	if first.FrameDisplacement >= 0 {
		t.Fatalf("expected register-convention first param to get a negative (local) displacement, got %d",
			first.FrameDisplacement)
	}
	if second.FrameDisplacement != 4 {
		t.Fatalf("expected second param at +4, got %d", second.FrameDisplacement)
	}
}

func Test_AllocateLocalVariablesRecursesIntoChildren(t *testing.T) {
	m := types.NewManager()
	top := NewRootScope()
	word := m.GetBasic(types.WORD, true)
	//
	outer := &Declaration{Identifier: "o", Type: word}
	top.DeclareVariable(outer)
	//
	child := top.NewChild()
	inner := &Declaration{Identifier: "i", Type: word}
	child.DeclareVariable(inner)
	//
	final, count := top.AllocateLocalVariables(m, 0, true, false)
	//
	if outer.FrameDisplacement != -2 || inner.FrameDisplacement != -4 {
		t.Fatalf("expected outer=-2 inner=-4, got outer=%d inner=%d", outer.FrameDisplacement, inner.FrameDisplacement)
	}
	if final != -4 || count != 2 {
		t.Fatalf("expected final=-4 count=2, got final=%d count=%d", final, count)
	}
}
