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

// Package fixtures is the narrow parser interface boundary of SPEC_FULL.md
// §6: since the lexer/parser are out of scope, a "translation unit" reaching
// the driver is always an already-built driver.TranslationUnit, supplied either
// by a test's fixture builder or, here, by whatever an embedding caller
// registers under a name. cmd/sixgen's compile subcommand selects one by
// name rather than by parsing a source file.
package fixtures

import (
	"fmt"
	"sort"

	"github.com/oss6809/sixgen/internal/driver"
	"github.com/oss6809/sixgen/internal/sema"
)

// Builder constructs a fresh translation unit (functions, global
// declarations, types) against a Context configured with cfg. Each fixture
// owns its own Context so that running the same fixture twice in one
// process (e.g. across a flag-driven test matrix) never shares mutable
// state between runs.
type Builder func(cfg sema.Config) *driver.TranslationUnit

var registry = make(map[string]Builder)

// Register adds a named fixture to the registry. Called from each fixture's
// own init(), mirroring how test packages register table-driven cases.
func Register(name string, build Builder) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("fixtures: duplicate registration for %q", name))
	}
	registry[name] = build
}

// Lookup returns the named fixture's Builder, or false if no fixture was
// registered under that name.
func Lookup(name string) (Builder, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names returns every registered fixture name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
