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
	"github.com/oss6809/sixgen/internal/asmtext"
	"github.com/oss6809/sixgen/internal/scope"
	"github.com/oss6809/sixgen/internal/types"
)

// EmitGlobals emits the label and static storage for every file-scope Global
// or Static declaration, in declaration order (spec.md §8 scenario 2: "char
// a[3]={1,2,3};" lowers to a label followed by one FCB per element). A
// declaration with no initializer reserves its storage with RMB; Extern
// declarations carry no storage of their own and are skipped here -- they
// are pulled in by whatever EXTERN/import mechanism spec.md §4.5 already
// provides for cross-unit names.
func EmitGlobals(out *asmtext.Sink, arena *ast.Arena, tm *types.Manager, decls []*scope.Declaration) {
	for _, decl := range decls {
		if decl.Storage != scope.Global && decl.Storage != scope.Static {
			continue
		}
		label := decl.AssemblyLabel
		if label == "" {
			label = decl.Identifier
		}
		out.Blank()
		out.Label(label)
		if decl.Initializer == scope.NoNode {
			out.Insn("", "RMB", fmt.Sprintf("%d", tm.SizeOf(decl.Type)), "")
			continue
		}
		emitStaticInitializer(out, arena, tm, ast.NodeID(decl.Initializer), decl.Type)
	}
}

// emitStaticInitializer lowers one initializer expression against
// requiredType, grounded on the original compiler's
// Declaration::emitStaticValues: the emitted shape is dictated by
// requiredType's kind first (ARRAY recurses per element; everything else is
// a scalar data directive), with the initializer's own node kind picked
// apart only once it is known which scalar shape is wanted. An
// ast.Comma node stands in for a brace initializer list ("{1,2,3}") the same
// way it already stands in for a comma expression -- one element per
// array slot, in order.
func emitStaticInitializer(out *asmtext.Sink, arena *ast.Arena, tm *types.Manager, id ast.NodeID, requiredType *types.TypeDesc) {
	n := arena.Get(id)
	//
	if requiredType.Kind == types.ARRAY {
		// Pointee is the array's base element type regardless of
		// dimensionality, so this only handles a single dimension
		// correctly; a further-nested TypeDesc for the remaining
		// dimensions of a multi-dim array can't be synthesized here since
		// TypeDesc values are produced exclusively by a Manager.
		elemType := requiredType.Pointee
		elements := []ast.NodeID{id}
		if n.Kind == ast.Comma {
			elements = n.Children
		}
		for _, c := range elements {
			emitStaticInitializer(out, arena, tm, c, elemType)
		}
		if len(requiredType.Dims) > 0 {
			for count := len(elements); count < requiredType.Dims[0]; count++ {
				out.Insn("", "RMB", fmt.Sprintf("%d", tm.SizeOf(elemType)), "")
			}
		}
		return
	}
	//
	switch requiredType.Kind {
	case types.LONG:
		var v uint32
		switch n.Kind {
		case ast.LongConst:
			v = n.LongValue
		case ast.WordConst:
			v = uint32(n.WordValue)
		}
		high, low := uint16(v>>16), uint16(v)
		out.Insn("", "FDB", wordData(high), fmt.Sprintf("%d (high)", int32(v)))
		out.Insn("", "FDB", wordData(low), "(low)")
	case types.REAL:
		var v float64
		switch n.Kind {
		case ast.RealConst:
			v = n.RealValue
		case ast.LongConst:
			v = float64(n.LongValue)
		case ast.WordConst:
			v = float64(n.WordValue)
		}
		b := realBytes(v)
		out.Insn("", "FCB", fmt.Sprintf("%s,%s,%s,%s,%s", byteHex(b[0]), byteHex(b[1]), byteHex(b[2]), byteHex(b[3]), byteHex(b[4])), "")
	case types.BYTE:
		v, _ := foldIntConstant(n)
		out.Insn("", "FCB", byteHex(uint8(v)), fmt.Sprintf("%d", v))
	default: // WORD, POINTER and every other scalar kind stored in one cell.
		v, _ := foldIntConstant(n)
		out.Insn("", "FDB", wordData(uint16(v)), fmt.Sprintf("%d", v))
	}
}

// wordData formats a raw 16-bit value (not a source-level immediate) as a
// bare hex literal suitable for an FDB operand, e.g. "$0005".
func wordData(v uint16) string {
	return fmt.Sprintf("$%04X", v)
}
