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

// Package diag implements the compiler's diagnostic reporting.  Diagnostics
// are emitted synchronously from the semantic checker and the code generator
// and accumulate in a Bag rather than aborting the pass, so that a single run
// can report every error it finds (spec.md §7).
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/oss6809/sixgen/internal/source"
	"golang.org/x/term"
)

// Severity distinguishes an error (which gates exit status) from a warning
// (which does not).
type Severity int

const (
	// Warning is a diagnostic that does not by itself fail compilation.
	Warning Severity = iota
	// Error is a diagnostic that fails compilation once the Bag is drained.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Diagnostic is a single reported error or warning, formatted per spec.md §6
// as "<file>:<line>: error|warning: <message>".
type Diagnostic struct {
	Location source.Location
	Severity Severity
	Message  string
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped wherever plain Go error handling is more convenient than consulting
// a Bag.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Severity, d.Message)
}

// Bag accumulates diagnostics across an entire compilation run.  It is not
// safe for concurrent use; the compiler is single-threaded (spec.md §5).
type Bag struct {
	items []Diagnostic
}

// Errorf records an error diagnostic at the given location.
func (b *Bag) Errorf(loc source.Location, format string, args ...any) {
	b.items = append(b.items, Diagnostic{loc, Error, fmt.Sprintf(format, args...)})
}

// Warnf records a warning diagnostic at the given location.
func (b *Bag) Warnf(loc source.Location, format string, args ...any) {
	b.items = append(b.items, Diagnostic{loc, Warning, fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic in this bag is an Error.  This is
// what gates the compiler's exit status.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the total number of diagnostics recorded (errors + warnings).
func (b *Bag) Count() int {
	return len(b.items)
}

// All returns every diagnostic recorded, in the order they were reported.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// Print writes every diagnostic to w, one per line, colorizing the severity
// label when w is connected to a terminal.  Piping output into an assembler
// or a log file leaves the text plain.
func (b *Bag) Print(w io.Writer) {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = term.IsTerminal(int(f.Fd()))
	}
	//
	for _, d := range b.items {
		label := d.Severity.String()
		if colorize {
			label = colorLabel(d.Severity)
		}
		fmt.Fprintf(w, "%s: %s: %s\n", d.Location, label, d.Message)
	}
}

func colorLabel(s Severity) string {
	const (
		red    = "\x1b[31merror\x1b[0m"
		yellow = "\x1b[33mwarning\x1b[0m"
	)
	if s == Error {
		return red
	}
	return yellow
}
