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
package scope

import "github.com/oss6809/sixgen/internal/types"

// Scope is a single node of the lexical scope tree (spec.md §3/§4.2).  A
// function's top-level scope holds its parameters plus every local declared
// anywhere in its body; nested braces only introduce a new Scope for
// compound statements below the function-body level and for the bodies of
// for/while loops, per the ScopeCreator rules in spec.md §4.3.
type Scope struct {
	parent *Scope
	// declOrder fixes stack layout: declarations are placed in the order
	// they were declared.
	declOrder []string
	decls     map[string]*Declaration
	classes   map[string]*types.TypeDesc
	children  []*Scope
}

// NewRootScope constructs the global (translation-unit) scope, which has no
// parent.
func NewRootScope() *Scope {
	return newScope(nil)
}

func newScope(parent *Scope) *Scope {
	return &Scope{
		parent:  parent,
		decls:   make(map[string]*Declaration),
		classes: make(map[string]*types.TypeDesc),
	}
}

// NewChild creates and owns a new child scope of s.
func (s *Scope) NewChild() *Scope {
	child := newScope(s)
	s.children = append(s.children, child)
	return child
}

// Parent returns the enclosing scope, or nil for the root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Children returns the scope's owned child scopes, in the order they were
// created.
func (s *Scope) Children() []*Scope {
	return s.children
}

// DeclareVariable binds decl.Identifier in this scope.  It fails (returns
// false) if the name is already bound in this same scope -- spec.md §4.2's
// "a name may be declared at most once per scope".  Shadowing an outer
// scope's declaration of the same name is allowed and is the normal case for
// nested blocks.
func (s *Scope) DeclareVariable(decl *Declaration) bool {
	if _, exists := s.decls[decl.Identifier]; exists {
		return false
	}
	//
	s.decls[decl.Identifier] = decl
	s.declOrder = append(s.declOrder, decl.Identifier)
	//
	return true
}

// Lookup resolves name to a Declaration.  If walkParents is true and name is
// not bound in this scope, the search continues up the parent chain; this is
// what ordinary identifier resolution wants.  A caller checking only for a
// collision within the current scope passes walkParents = false.
func (s *Scope) Lookup(name string, walkParents bool) (*Declaration, bool) {
	if d, ok := s.decls[name]; ok {
		return d, true
	}
	if walkParents && s.parent != nil {
		return s.parent.Lookup(name, true)
	}
	return nil, false
}

// Declarations returns every Declaration bound directly in this scope, in
// insertion order -- the order that fixes stack layout.
func (s *Scope) Declarations() []*Declaration {
	out := make([]*Declaration, len(s.declOrder))
	for i, name := range s.declOrder {
		out[i] = s.decls[name]
	}
	return out
}

// DeclareClass binds a struct/union name visible from this scope onward. It
// fails if already bound directly in this scope.
func (s *Scope) DeclareClass(name string, td *types.TypeDesc) bool {
	if _, exists := s.classes[name]; exists {
		return false
	}
	s.classes[name] = td
	return true
}

// LookupClass resolves a struct/union name, walking parent scopes unless
// walkParents is false.
func (s *Scope) LookupClass(name string, walkParents bool) (*types.TypeDesc, bool) {
	if td, ok := s.classes[name]; ok {
		return td, true
	}
	if walkParents && s.parent != nil {
		return s.parent.LookupClass(name, true)
	}
	return nil, false
}

// AllocateLocalVariables assigns frame displacements to every declaration
// reachable from s, per the contract in spec.md §4.2:
//
//	+0..1  saved frame pointer (U)
//	+2..3  return address
//	+4..N  visible stack-passed parameters, in declaration order
//	-k..-1 locals and compiler temporaries
//
// initialDisplacement is the running (non-positive) displacement carried in
// from an enclosing scope (0 for the function's top scope). isTopOfFunction
// must be true only for the call on a function's top-level scope, since only
// there do IsParameter declarations exist. fpir selects the
// first-param-in-register calling convention, under which the first visible
// parameter (or the hidden return-address parameter, whichever is declared
// first) is treated as a local rather than a stack-passed parameter, because
// the callee spills it from D to its frame slot as its first instruction.
//
// Returns the final (most negative, <= 0) displacement, which is the amount
// the stack pointer must be decremented by on function entry, and the total
// count of declarations placed (locals, temporaries and stack parameters,
// including those in child scopes) -- outCount in spec.md §4.2.
func (s *Scope) AllocateLocalVariables(m *types.Manager, initialDisplacement int, isTopOfFunction, fpir bool) (int, int) {
	var (
		neg                = initialDisplacement
		pos                = 4
		count              = 0
		firstParamConsumed = false
	)
	//
	for _, name := range s.declOrder {
		decl := s.decls[name]
		size := m.SizeOf(decl.Type)
		//
		if isTopOfFunction && decl.IsParameter {
			if fpir && !firstParamConsumed {
				firstParamConsumed = true
				neg -= size
				decl.FrameDisplacement = neg
				count++
				continue
			}
			// Stack-passed parameter: a 1-byte parameter still occupies 2
			// bytes on the stack, the high byte being padding.
			if size == 1 {
				size = 2
			}
			decl.FrameDisplacement = pos
			pos += size
			count++
			continue
		}
		// Local variable or compiler-introduced hidden temporary.
		neg -= size
		decl.FrameDisplacement = neg
		count++
	}
	//
	for _, child := range s.children {
		var childCount int
		neg, childCount = child.AllocateLocalVariables(m, neg, false, fpir)
		count += childCount
	}
	//
	return neg, count
}
