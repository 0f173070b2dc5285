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

// Command helpers generates internal/codegen/helper_table.go, the lookup
// table from (operator, operand representation(s)) to the runtime support
// library's helper symbol names, from variant.tmpl. The table is a plain
// literal rather than hand-maintained Go because the <op><Left><Right> and
// init<Dst>From<Src> families are combinatorial and error-prone to type out
// by hand; editing the list of ops/variants below and re-running this
// command is less mistake-prone than editing the table directly.
package main

import (
	"fmt"
	"os"

	"github.com/consensys/bavard"
)

const copyrightHolder = "The sixgen Authors"

type pair struct{ Op, Left, Right string }
type conversion struct{ Dst, Src string }

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2026, "sixgen")

	variants := []string{"Byte", "Word", "DWord", "Single", "Double"}

	pairs := []pair{
		{"and", "DWord", "DWord"}, {"and", "DWord", "Word"},
		{"or", "DWord", "DWord"}, {"or", "DWord", "Word"},
		{"xor", "DWord", "DWord"}, {"xor", "DWord", "Word"},
		{"add", "DWord", "DWord"}, {"add", "DWord", "Word"},
		{"sub", "DWord", "DWord"}, {"sub", "DWord", "Word"},
		{"mul", "DWord", "DWord"}, {"mul", "DWord", "Word"},
		{"div", "DWord", "DWord"}, {"div", "DWord", "Word"},
		{"add", "Single", "Single"}, {"add", "Double", "Double"},
		{"sub", "Single", "Single"}, {"sub", "Double", "Double"},
		{"mul", "Single", "Single"}, {"mul", "Double", "Double"},
		{"div", "Single", "Single"}, {"div", "Double", "Double"},
		{"cmp", "DWord", "DWord"}, {"cmp", "DWord", "Word"},
		{"cmp", "Single", "Single"}, {"cmp", "Double", "Double"},
	}

	conversions := []conversion{
		{"DWord", "Word"}, {"DWord", "Byte"}, {"DWord", "Single"},
		{"Word", "DWord"}, {"Word", "Single"},
		{"Byte", "DWord"}, {"Byte", "Single"},
		{"Single", "DWord"}, {"Single", "Word"}, {"Single", "Byte"},
		{"Double", "Single"}, {"Single", "Double"},
	}

	data := struct {
		Variants    []string
		Pairs       []pair
		Conversions []conversion
	}{variants, pairs, conversions}

	assertNoError(bgen.Generate(data, "helpers", ".",
		bavard.Entry{
			File:      "../../codegen/helper_table.go",
			Templates: []string{"variant.tmpl"},
		},
	))
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()
		if len(contextAndArgs) > 0 {
			msg = fmt.Sprintf("%v: %v", contextAndArgs[0], err)
		}
		fmt.Println(msg)
		os.Exit(1)
	}
}
