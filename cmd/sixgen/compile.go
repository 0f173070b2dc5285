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
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/oss6809/sixgen/internal/codegen"
	"github.com/oss6809/sixgen/internal/fixtures"
	"github.com/oss6809/sixgen/internal/sema"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] fixture",
	Short: "run the semantic passes and code generator over a named fixture translation unit.",
	Long: `Since sixgen's lexer and parser are out of scope, compile does not read source
files: it looks up an already-built translation unit registered under the given name
(a test fixture or an embedding caller's registration) and runs the three semantic
passes followed by the code generator over it.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		name := args[0]
		build, ok := fixtures.Lookup(name)
		if !ok {
			fmt.Printf("unknown fixture %q (available: %s)\n", name, strings.Join(fixtures.Names(), ", "))
			os.Exit(2)
		}
		//
		semaCfg := sema.Config{
			WarnByteArithmeticWidening: true,
			WarnSignCompare:            true,
			DefaultFirstParamInReg:     GetFlag(cmd, "fpir"),
			StackOverflowChecks:        GetFlag(cmd, "stack-overflow-checks"),
			NullPointerChecks:          GetFlag(cmd, "null-pointer-checks"),
			InlineRuntimeHelpers:       GetFlag(cmd, "runtime-helpers-inline"),
		}
		//
		log.Debug("building translation unit")
		tu := build(semaCfg)
		tu.SetOutput(openOutput(GetString(cmd, "output")), codegen.Config{
			StackOverflowChecks:  semaCfg.StackOverflowChecks,
			NullPointerChecks:    semaCfg.NullPointerChecks,
			InlineRuntimeHelpers: semaCfg.InlineRuntimeHelpers,
		})
		//
		if !tu.Analyze() {
			tu.Context.Diags.Print(os.Stderr)
			os.Exit(1)
		}
		tu.Context.Diags.Print(os.Stderr)
		//
		if err := tu.Compile(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

// openOutput resolves the --output flag to a writer: stdout for "-" or the
// empty string, or a newly created file otherwise.
func openOutput(path string) *os.File {
	if path == "" || path == "-" {
		return os.Stdout
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return f
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "-", "output assembly file (\"-\" for stdout)")
	compileCmd.Flags().Bool("stack-overflow-checks", false, "emit a stack-overflow check in every prologue")
	compileCmd.Flags().Bool("null-pointer-checks", false, "emit a null-pointer check before every dereference")
	compileCmd.Flags().Bool("fpir", false, "default every function to the first-param-in-register calling convention")
	compileCmd.Flags().Bool("runtime-helpers-inline", false, "concatenate runtime helper library text instead of emitting EXTERN")
}
