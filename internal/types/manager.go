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

import (
	"fmt"
)

// Manager interns TypeDesc values.  Two calls with structurally identical
// parameters return the *same* pointer, so `==` on two *TypeDesc obtained
// from a Manager is a correct (and cheap) structural-equality test -- this is
// TESTABLE PROPERTY 1 in spec.md §8.
type Manager struct {
	basic      map[basicKey]*TypeDesc
	pointers   map[string]*TypeDesc
	arrays     map[string]*TypeDesc
	functions  map[string]*TypeDesc
	classes    map[string]*ClassDef
	classTypes map[string]*TypeDesc
	enumValues map[string]enumEntry
}

type basicKey struct {
	kind   Kind
	signed bool
}

type enumEntry struct {
	value    uint16
	enumName string
	typeDesc *TypeDesc
}

// NewManager constructs an empty Manager, pre-registering the two
// synthesized class-like layouts backing LONG and REAL.
func NewManager() *Manager {
	m := &Manager{
		basic:      make(map[basicKey]*TypeDesc),
		pointers:   make(map[string]*TypeDesc),
		arrays:     make(map[string]*TypeDesc),
		functions:  make(map[string]*TypeDesc),
		classes:    make(map[string]*ClassDef),
		classTypes: make(map[string]*TypeDesc),
		enumValues: make(map[string]enumEntry),
	}
	m.classes["long"] = longClassDef()
	m.classes["real"] = realClassDef()
	//
	return m
}

// GetBasic interns a VOID/BYTE/WORD/LONG/REAL/SIZELESS TypeDesc.  signed is
// ignored for VOID, REAL and SIZELESS.
func (m *Manager) GetBasic(kind Kind, signed bool) *TypeDesc {
	if kind == VOID || kind == REAL || kind == SIZELESS {
		signed = false
	}
	key := basicKey{kind, signed}
	if td, ok := m.basic[key]; ok {
		return td
	}
	//
	td := &TypeDesc{Kind: kind, IsSigned: signed}
	if kind == LONG {
		td.ClassName = "long"
	} else if kind == REAL {
		td.ClassName = "real"
	}
	m.basic[key] = td
	//
	return td
}

func qualifierKey(qs []Qualifier) string {
	s := ""
	for _, q := range qs {
		switch {
		case q.Const && q.Volatile:
			s += "cv"
		case q.Const:
			s += "c"
		case q.Volatile:
			s += "v"
		default:
			s += "-"
		}
	}
	return s
}

// GetPointerTo interns a pointer-to-pointee TypeDesc, with one qualifier set
// per level of indirection (spec.md §4.1's TypeQualifierBitFieldVector). The
// first entry of qualifiers qualifies the pointee itself (e.g. "const int *"
// has qualifiers[0].Const == true); a plain, unqualified pointer passes nil.
func (m *Manager) GetPointerTo(pointee *TypeDesc, qualifiers []Qualifier) *TypeDesc {
	key := fmt.Sprintf("%p/%s", pointee, qualifierKey(qualifiers))
	if td, ok := m.pointers[key]; ok {
		return td
	}
	//
	isConst := len(qualifiers) > 0 && qualifiers[len(qualifiers)-1].Const
	td := &TypeDesc{Kind: POINTER, Pointee: pointee, Qualifiers: qualifiers, IsConstant: isConst}
	m.pointers[key] = td
	//
	return td
}

// GetArrayOf interns an array-of-element TypeDesc with the given dimensions
// (outermost first).  A nil or empty dims with a zero first entry produces an
// incomplete array type (spec.md §4.1).
func (m *Manager) GetArrayOf(element *TypeDesc, dims []int) *TypeDesc {
	key := fmt.Sprintf("%p/%v", element, dims)
	if td, ok := m.arrays[key]; ok {
		return td
	}
	//
	cp := append([]int(nil), dims...)
	td := &TypeDesc{Kind: ARRAY, Pointee: element, Dims: cp}
	m.arrays[key] = td
	//
	return td
}

// GetClass interns (or creates a forward-declared placeholder for) a
// struct/union TypeDesc named name.  The struct body, if any, is registered
// separately via DefineClass.
func (m *Manager) GetClass(name string, isUnion bool) *TypeDesc {
	if td, ok := m.classTypes[name]; ok {
		return td
	}
	//
	td := &TypeDesc{Kind: CLASS, ClassName: name, IsUnion: isUnion}
	m.classTypes[name] = td
	//
	return td
}

// DefineClass registers the body of a previously forward-declared (or
// freshly interned) struct/union.  Offsets are assigned in declaration order;
// a union gives every member offset 0 and takes the size of its largest
// member.
func (m *Manager) DefineClass(name string, isUnion bool, members []Member) *ClassDef {
	size := 0
	laidOut := make([]Member, len(members))
	offset := 0
	//
	for i, mem := range members {
		msize := m.SizeOf(mem.Type)
		if isUnion {
			mem.Offset = 0
			if msize > size {
				size = msize
			}
		} else {
			mem.Offset = offset
			offset += msize
			size = offset
		}
		laidOut[i] = mem
	}
	//
	def := &ClassDef{Name: name, IsUnion: isUnion, Members: laidOut, Size: size}
	m.classes[name] = def
	//
	return def
}

// ClassDefOf returns the registered layout for a CLASS TypeDesc's name, or
// (nil, false) if it is still incomplete (forward-declared with no body).
func (m *Manager) ClassDefOf(td *TypeDesc) (*ClassDef, bool) {
	def, ok := m.classes[td.ClassName]
	return def, ok
}

// GetFunction interns a FUNCTION TypeDesc.
func (m *Manager) GetFunction(ret *TypeDesc, params []*TypeDesc, ellipsis, isISR, fpir bool) *TypeDesc {
	key := functionKey(ret, params, ellipsis, isISR, fpir)
	if td, ok := m.functions[key]; ok {
		return td
	}
	//
	cp := append([]*TypeDesc(nil), params...)
	td := &TypeDesc{
		Kind: FUNCTION, Return: ret, Params: cp, Ellipsis: ellipsis,
		IsISR: isISR, FirstParamInReg: fpir,
	}
	m.functions[key] = td
	//
	return td
}

// GetFunctionPointer interns "pointer to function of this signature"; this is
// just sugar over GetFunction followed by GetPointerTo, matching spec.md
// §4.1's get_function_pointer.
func (m *Manager) GetFunctionPointer(ret *TypeDesc, params []*TypeDesc, ellipsis, isISR, fpir bool) *TypeDesc {
	fn := m.GetFunction(ret, params, ellipsis, isISR, fpir)
	return m.GetPointerTo(fn, nil)
}

func functionKey(ret *TypeDesc, params []*TypeDesc, ellipsis, isISR, fpir bool) string {
	s := fmt.Sprintf("%p(", ret)
	for _, p := range params {
		s += fmt.Sprintf("%p,", p)
	}
	return fmt.Sprintf("%s)%v%v%v", s, ellipsis, isISR, fpir)
}

// SameTypesModuloConst reports whether a and b are identical up to the
// top-level const qualifier.
func (m *Manager) SameTypesModuloConst(a, b *TypeDesc) bool {
	if a == b {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case POINTER:
		return m.SameTypesModuloConst(a.Pointee, b.Pointee)
	case ARRAY:
		return m.SameTypesModuloConst(a.Pointee, b.Pointee) && dimsEqual(a.Dims, b.Dims)
	case CLASS:
		return a.ClassName == b.ClassName && a.IsUnion == b.IsUnion
	case BYTE, WORD, LONG:
		return a.IsSigned == b.IsSigned
	default:
		return true
	}
}

func dimsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SamePointerOrArrayTypesModuloSignedness reports whether a and b are both
// pointer-or-array types whose element types agree once integer signedness
// is ignored.
func (m *Manager) SamePointerOrArrayTypesModuloSignedness(a, b *TypeDesc) bool {
	if !a.IsPointerOrArray() || !b.IsPointerOrArray() {
		return false
	}
	//
	ea, eb := a.Pointee, b.Pointee
	if ea.IsIntegral() && eb.IsIntegral() {
		return ea.Kind == eb.Kind
	}
	//
	return m.SameTypesModuloConst(ea, eb)
}

// SizeOf computes the size, in bytes, of td.  Callers must ensure td is
// complete (see TypeDesc.IsIncomplete); SizeOf panics on an incomplete type,
// since every call site is expected to have reported a diagnostic and bailed
// out before reaching here (spec.md §4.1's "callers must report a
// diagnostic").
func (m *Manager) SizeOf(td *TypeDesc) int {
	switch td.Kind {
	case VOID:
		return 0
	case BYTE:
		return 1
	case WORD, POINTER:
		return 2
	case LONG:
		return 4
	case REAL:
		return 5
	case ARRAY:
		if len(td.Dims) == 0 || td.Dims[0] == 0 {
			panic("SizeOf called on incomplete array type")
		}
		n := 1
		for _, d := range td.Dims {
			n *= d
		}
		return n * m.SizeOf(td.Pointee)
	case CLASS:
		def, ok := m.classes[td.ClassName]
		if !ok {
			panic("SizeOf called on incomplete class type " + td.ClassName)
		}
		return def.Size
	case FUNCTION:
		// A function has no size as a value; only a pointer to it does.
		return 0
	default:
		panic("SizeOf called on sizeless type")
	}
}

// DeclareEnumerator interns an enumerator's value, keyed by its (unique)
// identifier, per spec.md §3's "Enumerators are interned in the TypeManager
// keyed by identifier".
func (m *Manager) DeclareEnumerator(name string, value uint16, enumName string, td *TypeDesc) {
	m.enumValues[name] = enumEntry{value, enumName, td}
}

// EnumeratorValue returns the value of a previously declared enumerator.
func (m *Manager) EnumeratorValue(name string) (uint16, bool) {
	e, ok := m.enumValues[name]
	return e.value, ok
}

// EnumeratorType returns the type of a previously declared enumerator (always
// a signed WORD on this target).
func (m *Manager) EnumeratorType(name string) (*TypeDesc, bool) {
	e, ok := m.enumValues[name]
	return e.typeDesc, ok
}
