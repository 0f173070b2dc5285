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

// Package types implements the C-like type lattice described in spec.md §3
// and §4.1: a TypeManager interns TypeDesc values so that structural equality
// reduces to pointer equality, which is what every downstream pass (the
// semantic checker and the code generator) relies upon.
package types

import "fmt"

// Kind identifies the broad category of a TypeDesc.  LONG and REAL are kept
// as distinct kinds (rather than folded into CLASS) because the semantic
// rules in spec.md §4.3 dispatch on "is this a long" / "is this a real" far
// more often than on "is this some CLASS"; internally, however, both are
// given a ClassDef-shaped byte layout (see class.go) so that SizeOf and
// struct-copy code generation can treat them uniformly with genuine structs,
// matching the "LONG is a CLASS-like record" wording of the data model.
type Kind uint8

const (
	// VOID has no value and no size.
	VOID Kind = iota
	// BYTE is a 1-byte integer.
	BYTE
	// WORD is a 2-byte integer.
	WORD
	// LONG is a 4-byte integer, laid out as a CLASS-like record.
	LONG
	// REAL is a 5-byte floating point value.  DOUBLE is an alias of REAL on
	// this target (spec.md §6(b)).
	REAL
	// SIZELESS is a placeholder used only during parsing, before a type is
	// fully resolved.
	SIZELESS
	// POINTER points at another TypeDesc.
	POINTER
	// ARRAY is a fixed-dimension array of another TypeDesc.
	ARRAY
	// FUNCTION describes a callable's signature.
	FUNCTION
	// CLASS is a user struct or union.
	CLASS
)

func (k Kind) String() string {
	switch k {
	case VOID:
		return "void"
	case BYTE:
		return "byte"
	case WORD:
		return "word"
	case LONG:
		return "long"
	case REAL:
		return "real"
	case SIZELESS:
		return "sizeless"
	case POINTER:
		return "pointer"
	case ARRAY:
		return "array"
	case FUNCTION:
		return "function"
	case CLASS:
		return "class"
	default:
		return "?"
	}
}

// TypeDesc is the canonical representation of a type.  Values are produced
// exclusively by a TypeManager and, once interned, are immutable: callers
// must never mutate a *TypeDesc obtained from a Manager.
type TypeDesc struct {
	// Kind is one of VOID, BYTE, WORD, LONG, REAL, SIZELESS, POINTER, ARRAY,
	// FUNCTION, CLASS.
	Kind Kind
	// IsSigned applies to BYTE, WORD and LONG.
	IsSigned bool
	// IsConstant is the qualifier at this level only; a pointer chain's
	// per-indirection qualifiers live in the Qualifiers slice carried by the
	// POINTER TypeDesc that owns them (see Qualifiers below).
	IsConstant bool
	// IsUnion applies only when Kind == CLASS; false means struct.
	IsUnion bool
	// ClassName names the struct/union for CLASS, and is informational only
	// for the synthesized LONG/REAL class-like layouts ("long", "real").
	ClassName string
	// Pointee is the pointed-to or element TypeDesc for POINTER and ARRAY.
	// Never nil for those kinds.
	Pointee *TypeDesc
	// Qualifiers holds one qualifier set per indirection level for a
	// POINTER chain (e.g. "const char * const" has two entries); empty for
	// every other kind.
	Qualifiers []Qualifier
	// Dims holds the array's dimensions, outermost first; empty if the
	// first dimension is not yet known (an incomplete array type).
	Dims []int
	// Return is the return type, present for FUNCTION only.
	Return *TypeDesc
	// Params is the formal parameter type list, present for FUNCTION only.
	Params []*TypeDesc
	// Ellipsis indicates a variadic FUNCTION (trailing "...").
	Ellipsis bool
	// IsISR marks a FUNCTION as an interrupt service routine.
	IsISR bool
	// FirstParamInReg marks a FUNCTION as using the first-param-in-register
	// calling convention ("__CMOC_fpir__" in spec.md §6(d)).
	FirstParamInReg bool
}

// Qualifier is the const/volatile pair attached to one level of pointer
// indirection.
type Qualifier struct {
	Const    bool
	Volatile bool
}

// String renders a human-readable type name, primarily for diagnostics.
func (t *TypeDesc) String() string {
	switch t.Kind {
	case POINTER:
		return fmt.Sprintf("%s*", t.Pointee.String())
	case ARRAY:
		s := t.Pointee.String()
		for _, d := range t.Dims {
			s += fmt.Sprintf("[%d]", d)
		}
		return s
	case FUNCTION:
		s := t.Return.String() + "("
		for i, p := range t.Params {
			if i > 0 {
				s += ", "
			}
			s += p.String()
		}
		if t.Ellipsis {
			s += ", ..."
		}
		return s + ")"
	case CLASS:
		if t.IsUnion {
			return "union " + t.ClassName
		}
		return "struct " + t.ClassName
	default:
		sign := ""
		if t.Kind == BYTE || t.Kind == WORD || t.Kind == LONG {
			if !t.IsSigned {
				sign = "unsigned "
			}
		}
		return sign + t.Kind.String()
	}
}

// IsIntegral reports whether this type participates in integer arithmetic
// (BYTE, WORD, LONG).
func (t *TypeDesc) IsIntegral() bool {
	return t.Kind == BYTE || t.Kind == WORD || t.Kind == LONG
}

// IsPointerOrArray reports whether this type decays to, or already is, an
// address-like type.
func (t *TypeDesc) IsPointerOrArray() bool {
	return t.Kind == POINTER || t.Kind == ARRAY
}

// IsAggregate reports whether a value of this type does not fit in D/B and
// must be addressed (struct/union, LONG, REAL) -- the set of types for which
// emit_code(lValue=true) is meaningful per spec.md §4.4.
func (t *TypeDesc) IsAggregate() bool {
	return t.Kind == CLASS || t.Kind == LONG || t.Kind == REAL
}

// IsIncomplete reports whether this type's size cannot currently be computed:
// an array with no first dimension, or a CLASS with no registered layout.
func (t *TypeDesc) IsIncomplete(m *Manager) bool {
	switch t.Kind {
	case ARRAY:
		return len(t.Dims) == 0 || t.Dims[0] == 0
	case CLASS:
		_, ok := m.classes[t.ClassName]
		return !ok
	default:
		return false
	}
}
