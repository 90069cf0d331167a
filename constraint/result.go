// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package constraint

import (
	"maps"
	"slices"

	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/slicesx"
)

// LiteralKind discriminates the value carried by a [Literal].
type LiteralKind int

const (
	// LiteralText is a string value.
	LiteralText LiteralKind = iota
	// LiteralNumber is a numeric value. Integer, unsigned, and floating
	// point constants all coerce to this one representation.
	LiteralNumber
	// LiteralBool is a boolean value.
	LiteralBool
)

// Literal is the value a field is asserted equal to. Exactly one of the
// value fields is meaningful, selected by Kind; no other constant kinds are
// representable.
type Literal struct {
	Kind   LiteralKind
	Text   string
	Number float64
	Bool   bool
}

// Text returns a string literal.
func Text(s string) Literal {
	return Literal{Kind: LiteralText, Text: s}
}

// Number returns a numeric literal.
func Number(f float64) Literal {
	return Literal{Kind: LiteralNumber, Number: f}
}

// Bool returns a boolean literal.
func Bool(b bool) Literal {
	return Literal{Kind: LiteralBool, Bool: b}
}

// Result is the normalized constraint model extracted from one expression,
// or from several expressions merged with [Merge]. It is a plain value with
// no behavior; consumers treat it as read-only.
type Result struct {
	// ReadOnlyFields are top-level field names asserted absent in this
	// scope, in first-assertion order, deduplicated.
	ReadOnlyFields []string
	// LiteralFields maps a top-level field name to the single literal value
	// it is asserted equal to. Later assertions overwrite earlier ones.
	LiteralFields map[string]Literal
	// NestedConstraints maps a parent field name to the child field names
	// asserted absent beneath it. Only the first two path segments are ever
	// tracked; no parent maps to an empty child list.
	NestedConstraints map[string][]string
	// UnionGroups holds one Branch per non-empty operand of a disjunction
	// found in this scope, in operand order.
	UnionGroups []Branch
	// Errors carries advisory diagnostics (parse failures). It never
	// suppresses generation.
	Errors []string
	// UnsupportedFields is reserved for field names the analyzer recognizes
	// but cannot classify. Nothing populates it today; it is kept on the
	// contract for forward compatibility.
	UnsupportedFields []string
}

// Branch is one alternative produced by a disjunction: the facts that hold
// under that operand only. Branches carry no unions and no errors.
type Branch struct {
	ReadOnlyFields    []string
	LiteralFields     map[string]Literal
	NestedConstraints map[string][]string
}

func newResult() *Result {
	return &Result{
		LiteralFields:     make(map[string]Literal),
		NestedConstraints: make(map[string][]string),
	}
}

// addReadOnly records an absence assertion for path. One-segment paths land
// in ReadOnlyFields; longer paths are truncated to parent and immediate
// child and land in NestedConstraints. A field cannot be both read-only and
// pinned to a literal within one scope, so any literal entry for the name is
// dropped.
func (r *Result) addReadOnly(path []string) {
	switch len(path) {
	case 0:
	case 1:
		delete(r.LiteralFields, path[0])
		r.ReadOnlyFields = slicesx.AppendUnique(r.ReadOnlyFields, path[0])
	default:
		parent, child := path[0], path[1]
		r.NestedConstraints[parent] = slicesx.AppendUnique(r.NestedConstraints[parent], child)
	}
}

// addLiteral records an equality-to-constant assertion for path. For nested
// paths the literal value itself is dropped and the assertion degrades to a
// nested absence constraint on the first two segments.
func (r *Result) addLiteral(path []string, lit Literal) {
	switch len(path) {
	case 0:
	case 1:
		r.ReadOnlyFields = slicesx.Remove(r.ReadOnlyFields, path[0])
		r.LiteralFields[path[0]] = lit
	default:
		r.addReadOnly(path)
	}
}

// empty reports whether the scope holds no direct facts. Union groups and
// errors do not count: a branch is discarded when empty is true for it.
func (r *Result) empty() bool {
	return len(r.ReadOnlyFields) == 0 && len(r.LiteralFields) == 0 && len(r.NestedConstraints) == 0
}

// asBranch reduces the result to the Branch shape, copying the three fact
// containers so the scratch result can be discarded.
func (r *Result) asBranch() Branch {
	return Branch{
		ReadOnlyFields:    slices.Clone(r.ReadOnlyFields),
		LiteralFields:     maps.Clone(r.LiteralFields),
		NestedConstraints: maps.Clone(r.NestedConstraints),
	}
}

// normalize re-asserts set semantics after a traversal: field lists and
// per-parent child lists are deduplicated and empty child lists removed.
// The literal map is last-write-wins by construction and union groups keep
// repeated identical branches, so neither is touched.
func (r *Result) normalize() {
	r.ReadOnlyFields = slicesx.Unique(r.ReadOnlyFields)
	for parent, children := range r.NestedConstraints {
		children = slicesx.Unique(children)
		if len(children) == 0 {
			delete(r.NestedConstraints, parent)
			continue
		}
		r.NestedConstraints[parent] = children
	}
}

// mergeFrom folds other into r: field-set union, literal overwrite on
// conflict, per-parent child union, concatenation-then-dedup of union
// groups, and concatenation of errors. Read-only facts of other are applied
// before its literal facts, so a later expression's literal beats an earlier
// expression's read-only mark for the same field.
func (r *Result) mergeFrom(other *Result) {
	for _, f := range other.ReadOnlyFields {
		r.addReadOnly([]string{f})
	}
	for f, lit := range other.LiteralFields {
		r.addLiteral([]string{f}, lit)
	}
	for parent, children := range other.NestedConstraints {
		for _, c := range children {
			r.NestedConstraints[parent] = slicesx.AppendUnique(r.NestedConstraints[parent], c)
		}
	}
	for _, branch := range other.UnionGroups {
		r.addUnionGroup(branch)
	}
	r.Errors = append(r.Errors, other.Errors...)
	for _, f := range other.UnsupportedFields {
		r.UnsupportedFields = slicesx.AppendUnique(r.UnsupportedFields, f)
	}
}

// addUnionGroup appends branch unless a structurally identical branch is
// already present. Repeated identical branches within one expression's
// traversal are kept (normalize never touches union groups); merging sibling
// expressions dedups, so duplicate rules on one message do not produce
// duplicate alternatives.
func (r *Result) addUnionGroup(branch Branch) {
	for _, existing := range r.UnionGroups {
		if branchEqual(existing, branch) {
			return
		}
	}
	r.UnionGroups = append(r.UnionGroups, branch)
}

func branchEqual(a, b Branch) bool {
	return slices.Equal(a.ReadOnlyFields, b.ReadOnlyFields) &&
		maps.Equal(a.LiteralFields, b.LiteralFields) &&
		maps.EqualFunc(a.NestedConstraints, b.NestedConstraints, func(x, y []string) bool {
			return slices.Equal(x, y)
		})
}

// Merge combines the results of sibling expressions attached to one message
// into a single result for the type-shape consumer. Inputs are not modified.
func Merge(results ...*Result) *Result {
	merged := newResult()
	for _, res := range results {
		if res == nil {
			continue
		}
		merged.mergeFrom(res)
	}
	return merged
}
