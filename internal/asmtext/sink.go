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

// Package asmtext implements the append-only assembly output sink the code
// generator writes to (spec.md §5's "single ASMText output sink"). Lines are
// column-aligned the way a hand-written assembly listing is, using
// text/tabwriter rather than fixed-width string padding, so label width
// doesn't need to be known up front.
package asmtext

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"
)

// Sink accumulates assembly lines and flushes them, column-aligned, to an
// underlying writer on Close.
type Sink struct {
	tw  *tabwriter.Writer
	buf *bufio.Writer
}

// NewSink wraps w with a tabwriter configured for label\tmnemonic\toperands\t;comment
// columns, matching the four-column layout of the runtime helper library's
// own hand-written assembly.
func NewSink(w io.Writer) *Sink {
	buf := bufio.NewWriter(w)
	return &Sink{
		tw:  tabwriter.NewWriter(buf, 1, 4, 2, ' ', 0),
		buf: buf,
	}
}

// Label emits a bare label on its own line, e.g. a function's entry point or
// a branch target.
func (s *Sink) Label(name string) {
	fmt.Fprintf(s.tw, "%s:\t\t\t\n", name)
}

// Insn emits one instruction, with an optional label sharing the line (empty
// label is the common case) and an optional trailing comment.
func (s *Sink) Insn(label, mnemonic, operands, comment string) {
	c := ""
	if comment != "" {
		c = "; " + comment
	}
	fmt.Fprintf(s.tw, "%s\t%s\t%s\t%s\n", label, mnemonic, operands, c)
}

// Directive emits an assembler directive (FCB, FDB, RMB, EXTERN, ORG, ...).
func (s *Sink) Directive(label, directive, operands string) {
	s.Insn(label, directive, operands, "")
}

// Comment emits a stand-alone comment line.
func (s *Sink) Comment(text string) {
	fmt.Fprintf(s.tw, "\t\t\t; %s\n", text)
}

// Blank emits an empty line, used to separate functions in the listing.
func (s *Sink) Blank() {
	fmt.Fprintln(s.tw)
}

// Close flushes the tabwriter's column alignment and the underlying buffered
// writer. The sink must not be used afterward.
func (s *Sink) Close() error {
	if err := s.tw.Flush(); err != nil {
		return err
	}
	return s.buf.Flush()
}
