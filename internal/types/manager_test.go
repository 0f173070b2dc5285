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
package types

import "testing"

func Test_InterningIsPointerEquality(t *testing.T) {
	m := NewManager()
	//
	a := m.GetBasic(WORD, true)
	b := m.GetBasic(WORD, true)
	//
	if a != b {
		t.Fatalf("expected identical *TypeDesc for two identical GetBasic calls")
	}
	//
	c := m.GetBasic(WORD, false)
	if a == c {
		t.Fatalf("signed and unsigned WORD must intern separately")
	}
}

func Test_PointerInterning(t *testing.T) {
	m := NewManager()
	word := m.GetBasic(WORD, true)
	//
	p1 := m.GetPointerTo(word, nil)
	p2 := m.GetPointerTo(word, nil)
	//
	if p1 != p2 {
		t.Fatalf("expected identical pointer types for identical pointees")
	}
	//
	cp := m.GetPointerTo(word, []Qualifier{{Const: true}})
	if cp == p1 {
		t.Fatalf("const-qualified pointer must intern separately from unqualified")
	}
	if !cp.IsConstant {
		t.Fatalf("expected const pointer to report IsConstant")
	}
}

func Test_ArrayInterningAndSize(t *testing.T) {
	m := NewManager()
	byt := m.GetBasic(BYTE, true)
	arr := m.GetArrayOf(byt, []int{3})
	//
	if m.SizeOf(arr) != 3 {
		t.Fatalf("expected size 3, got %d", m.SizeOf(arr))
	}
	//
	incomplete := m.GetArrayOf(byt, nil)
	if !incomplete.IsIncomplete(m) {
		t.Fatalf("expected array with no dimensions to be incomplete")
	}
}

func Test_LongAndRealSizes(t *testing.T) {
	m := NewManager()
	//
	if got := m.SizeOf(m.GetBasic(LONG, true)); got != 4 {
		t.Fatalf("expected LONG size 4, got %d", got)
	}
	if got := m.SizeOf(m.GetBasic(REAL, false)); got != 5 {
		t.Fatalf("expected REAL size 5, got %d", got)
	}
}

func Test_ClassSizeIsSumOfMembers(t *testing.T) {
	m := NewManager()
	word := m.GetBasic(WORD, true)
	byt := m.GetBasic(BYTE, true)
	//
	s := m.GetClass("S", false)
	if !s.IsIncomplete(m) {
		t.Fatalf("forward-declared class should be incomplete")
	}
	//
	m.DefineClass("S", false, []Member{
		{Name: "x", Type: word},
		{Name: "y", Type: byt},
	})
	//
	if got := m.SizeOf(s); got != 3 {
		t.Fatalf("expected struct size 3, got %d", got)
	}
	//
	def, ok := m.ClassDefOf(s)
	if !ok {
		t.Fatalf("expected class def to be registered")
	}
	if mem, ok := def.MemberByName("y"); !ok || mem.Offset != 2 {
		t.Fatalf("expected member y at offset 2, got %+v (%v)", mem, ok)
	}
}

func Test_UnionSizeIsLargestMember(t *testing.T) {
	m := NewManager()
	word := m.GetBasic(WORD, true)
	byt := m.GetBasic(BYTE, true)
	//
	u := m.GetClass("U", true)
	m.DefineClass("U", true, []Member{
		{Name: "x", Type: word},
		{Name: "y", Type: byt},
	})
	//
	if got := m.SizeOf(u); got != 2 {
		t.Fatalf("expected union size 2, got %d", got)
	}
}

func Test_EnumeratorInterning(t *testing.T) {
	m := NewManager()
	word := m.GetBasic(WORD, true)
	m.DeclareEnumerator("RED", 0, "Color", word)
	m.DeclareEnumerator("GREEN", 1, "Color", word)
	//
	if v, ok := m.EnumeratorValue("GREEN"); !ok || v != 1 {
		t.Fatalf("expected GREEN == 1, got %d (%v)", v, ok)
	}
	if _, ok := m.EnumeratorValue("BLUE"); ok {
		t.Fatalf("expected BLUE to be undeclared")
	}
}
