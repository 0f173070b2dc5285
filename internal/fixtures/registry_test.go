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
package fixtures_test

import (
	"testing"

	"github.com/oss6809/sixgen/internal/fixtures"
	"github.com/oss6809/sixgen/internal/sema"
)

func TestRegisteredFixturesBuildAndAnalyze(t *testing.T) {
	names := fixtures.Names()
	if len(names) == 0 {
		t.Fatalf("expected at least one registered fixture")
	}
	for _, name := range names {
		build, ok := fixtures.Lookup(name)
		if !ok {
			t.Fatalf("Names() returned %q but Lookup failed", name)
		}
		tu := build(sema.Config{})
		if !tu.Analyze() {
			t.Fatalf("fixture %q failed semantic analysis: %v", name, tu.Context.Diags.All())
		}
	}
}

func TestLookupUnknownFixture(t *testing.T) {
	if _, ok := fixtures.Lookup("does-not-exist"); ok {
		t.Fatalf("expected Lookup of an unregistered name to fail")
	}
}
