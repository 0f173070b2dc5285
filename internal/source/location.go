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

// Package source defines the narrow interface between the core (types,
// scopes, AST, semantic passes, code generator) and whatever produces the
// AST.  The lexer and parser are out of scope for this module; they are
// expected to populate a Location on every node they construct.
package source

import "fmt"

// Location identifies a single point in a source file, namely a line within a
// named file.  Every AST node carries one of these so that diagnostics can be
// attributed to the right place.
type Location struct {
	// Filename is the name of the file this location is within, exactly as
	// passed to the compiler (no canonicalisation is performed here).
	Filename string
	// Line is the 1-based source line number.
	Line int
}

// String renders a location in the "<file>:<line>" form used as the prefix of
// every diagnostic.
func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.Filename, l.Line)
}

// IsValid reports whether this location carries real file/line information,
// as opposed to being the zero value used by compiler-synthesized nodes (e.g.
// hidden temporaries) that have no direct source counterpart.
func (l Location) IsValid() bool {
	return l.Filename != ""
}
