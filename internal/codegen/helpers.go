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

// Package codegen implements the code generator of spec.md §4.4: one
// emission method per AST node Kind, writing 6809 assembly to an
// asmtext.Sink. Every expression follows the emit_code(out, lValue) -> bool
// contract documented there.
package codegen

import "github.com/oss6809/sixgen/internal/types"

// VariantOf maps a TypeDesc to the Variant name the runtime helper library
// uses to refer to its representation.
func VariantOf(td *types.TypeDesc) Variant {
	switch td.Kind {
	case types.BYTE:
		return VariantByte
	case types.WORD, types.POINTER:
		return VariantWord
	case types.LONG:
		return VariantDWord
	case types.REAL:
		return VariantSingle
	default:
		return VariantWord
	}
}

// CombineHelper looks up the runtime helper implementing op on a pair of
// operand representations.
func CombineHelper(op string, left, right Variant) (string, bool) {
	name, ok := combineHelperNames[op+"/"+string(left)+"/"+string(right)]
	return name, ok
}

// ConvertHelper looks up the init<Dst>From<Src> runtime helper converting a
// value from src's representation to dst's.
func ConvertHelper(dst, src Variant) (string, bool) {
	name, ok := convertHelperNames[string(dst)+"/"+string(src)]
	return name, ok
}
