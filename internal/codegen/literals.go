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
	"math"
)

// literalPool is the emitter's rodata section: every LONG/REAL constant and
// string literal actually referenced by an l-value use (spec.md §8 testable
// property 4) is registered here on first reference, the same
// register-on-first-use-then-emit-once-at-the-end scheme as the original
// compiler's TranslationUnit::registerDWordConstant/registerRealConstant.
// Dedup keeps two occurrences of the same constant sharing one label.
type literalPool struct {
	longs   map[uint32]string
	longOrd []uint32
	reals   map[uint64]string
	realOrd []uint64
	strs    map[string]string
	strOrd  []string
	n       int
}

func newLiteralPool() *literalPool {
	return &literalPool{
		longs: make(map[uint32]string),
		reals: make(map[uint64]string),
		strs:  make(map[string]string),
	}
}

func (p *literalPool) label(prefix string) string {
	p.n++
	return fmt.Sprintf("_%s%d", prefix, p.n)
}

func (p *literalPool) labelForLong(v uint32) string {
	if lbl, ok := p.longs[v]; ok {
		return lbl
	}
	lbl := p.label("lit_long_")
	p.longs[v] = lbl
	p.longOrd = append(p.longOrd, v)
	return lbl
}

func (p *literalPool) labelForReal(v float64) string {
	key := math.Float64bits(v)
	if lbl, ok := p.reals[key]; ok {
		return lbl
	}
	lbl := p.label("lit_real_")
	p.reals[key] = lbl
	p.realOrd = append(p.realOrd, key)
	return lbl
}

func (p *literalPool) labelForString(s string) string {
	if lbl, ok := p.strs[s]; ok {
		return lbl
	}
	lbl := p.label("lit_str_")
	p.strs[s] = lbl
	p.strOrd = append(p.strOrd, s)
	return lbl
}

// dwordBytes returns the 4-byte big-endian representation of a LONG constant
// (spec.md §8 testable property 4), grounded on DWordConstantExpr::getRepresentation.
func dwordBytes(u uint32) [4]byte {
	return [4]byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
}

// realBytes returns the 5-byte Color Basic single-precision representation
// of a REAL constant, grounded on RealConstantExpr::getRepresentation /
// getDoublePrecisionBits: a leading biased-exponent byte followed by the top
// four bytes of the IEEE-754 double's 52-bit mantissa, with the sign folded
// into the high bit of the first mantissa byte.
func realBytes(v float64) [5]byte {
	if v == 0 {
		return [5]byte{}
	}
	bits := math.Float64bits(v)
	negative := bits&(1<<63) != 0
	rawExponent := int16((bits>>52)&0x7FF) - 0x3FF
	mantissa := bits & ((uint64(1) << 52) - 1)
	//
	var out [5]byte
	out[0] = byte(rawExponent+1) + 0x80
	for i := 0; i < 4; i++ {
		out[1+i] = byte(mantissa >> uint(52-7-i*8))
	}
	if negative {
		out[1] |= 0x80
	}
	return out
}

// flushLiterals emits the FCB/FDB/FCC data for every constant registered
// during codegen, once, after every function in the translation unit has
// been emitted (spec.md §4.4's "constants live in a single rodata section
// appended to the output").
func (e *Emitter) flushLiterals() {
	if e.pool == nil {
		return
	}
	if len(e.pool.longOrd) == 0 && len(e.pool.realOrd) == 0 && len(e.pool.strOrd) == 0 {
		return
	}
	e.Out.Blank()
	e.Out.Comment("literal pool")
	for _, v := range e.pool.longOrd {
		e.Out.Label(e.pool.longs[v])
		b := dwordBytes(v)
		e.Out.Insn("", "FCB", fmt.Sprintf("%s,%s,%s,%s", byteHex(b[0]), byteHex(b[1]), byteHex(b[2]), byteHex(b[3])), "")
	}
	for _, key := range e.pool.realOrd {
		v := math.Float64frombits(key)
		e.Out.Label(e.pool.reals[key])
		b := realBytes(v)
		e.Out.Insn("", "FCB", fmt.Sprintf("%s,%s,%s,%s,%s", byteHex(b[0]), byteHex(b[1]), byteHex(b[2]), byteHex(b[3]), byteHex(b[4])), "")
	}
	for _, s := range e.pool.strOrd {
		e.Out.Label(e.pool.strs[s])
		e.Out.Insn("", "FCC", fmt.Sprintf("%q", s), "")
		e.Out.Insn("", "FCB", byteHex(0), "")
	}
}

// byteHex formats a raw byte value (not a source-level immediate) as a bare
// hex literal suitable for an FCB operand, e.g. "$01".
func byteHex(v byte) string {
	return fmt.Sprintf("$%02X", v)
}
