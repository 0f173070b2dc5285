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
)

// immediateWord formats a 16-bit constant as a 6809 assembler immediate
// operand, `#$XXXX`, per spec.md §8's end-to-end scenarios (e.g. `LDD
// #$0005`). Source-value immediates -- constant-folded operands, sizeof
// results, element-size multipliers -- are always hex; frame-displacement
// and byte-count arithmetic operands (`%d,S`/`%d,U`) are left decimal, as in
// the original compiler's wordToString(value, true) vs. wordToString(value).
func immediateWord(v uint16) string {
	return fmt.Sprintf("#$%04X", v)
}

// immediateByte formats an 8-bit constant as a 6809 assembler immediate
// operand, `#$XX`.
func immediateByte(v uint8) string {
	return fmt.Sprintf("#$%02X", v)
}

// foldIntConstant returns n's compile-time integer value if n is a word or
// long constant, used by emitBinOpIfConstants and constant-folded `if`
// conditions (spec.md §4.4).
func foldIntConstant(n *ast.Node) (int64, bool) {
	switch n.Kind {
	case ast.WordConst:
		return int64(n.WordValue), true
	case ast.LongConst:
		return int64(n.LongValue), true
	default:
		return 0, false
	}
}

// constantBoolValue reports whether n is a compile-time-known condition, and
// if so, its truth value (any nonzero integer constant is true).
func constantBoolValue(n *ast.Node) (bool, bool) {
	v, ok := foldIntConstant(n)
	if !ok {
		return false, false
	}
	return v != 0, true
}

// emitBinOpIfConstants folds a binary arithmetic operation on two integer
// constants, returning the folded value and true if both operands were
// constant and op is one this function knows how to fold.
func emitBinOpIfConstants(op ast.Operator, l, r *ast.Node) (int64, bool) {
	lv, lok := foldIntConstant(l)
	rv, rok := foldIntConstant(r)
	if !lok || !rok {
		return 0, false
	}
	switch op {
	case ast.OpAdd:
		return lv + rv, true
	case ast.OpSub:
		return lv - rv, true
	case ast.OpMul:
		return lv * rv, true
	case ast.OpDiv:
		if rv == 0 {
			return 0, false
		}
		return lv / rv, true
	case ast.OpMod:
		if rv == 0 {
			return 0, false
		}
		return lv % rv, true
	case ast.OpBitAnd:
		return lv & rv, true
	case ast.OpBitOr:
		return lv | rv, true
	case ast.OpBitXor:
		return lv ^ rv, true
	case ast.OpShl:
		return lv << uint(rv), true
	case ast.OpShr:
		return lv >> uint(rv), true
	default:
		return 0, false
	}
}

// isPowerOfTwo reports whether n is a power of two >= 2, and its log2.
func isPowerOfTwo(n int) (uint, bool) {
	if n < 2 || n&(n-1) != 0 {
		return 0, false
	}
	shift := uint(0)
	for n > 1 {
		n >>= 1
		shift++
	}
	return shift, true
}
