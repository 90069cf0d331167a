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
	celast "github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/operators"
)

// presenceFunction is the one function call the analyzer understands: the
// explicit form of the presence check. cel-go normally rewrites the has()
// macro into a test-only select, which fieldPath handles directly, but the
// call form still appears when macros are disabled upstream.
const presenceFunction = "has"

// visit dispatches on the node kind and accumulates extracted facts into
// res. Non-call nodes contribute nothing at this level; so does any operator
// or function outside the recognized set. Unsupported shapes are dropped
// silently rather than diagnosed.
func visit(e celast.Expr, res *Result) {
	if e.Kind() != celast.CallKind {
		return
	}
	call := e.AsCall()
	switch call.FunctionName() {
	case operators.LogicalNot:
		visitNot(call, res)
	case operators.Equals:
		visitEquals(call, res)
	case operators.LogicalAnd:
		// Conjunction is scope-preserving: every operand merges into the
		// same accumulating result.
		for _, arg := range call.Args() {
			visit(arg, res)
		}
	case operators.LogicalOr:
		visitOr(call, res)
	default:
	}
}

// visitNot records a read-only assertion when the negation target is a
// presence check on a subject-rooted field path, or such a path directly
// (the normalized form without an explicit presence wrapper). Any other
// target is ignored.
func visitNot(call celast.CallExpr, res *Result) {
	args := call.Args()
	if len(args) != 1 {
		return
	}
	if path, ok := presencePath(args[0]); ok {
		res.addReadOnly(path)
	}
}

// presencePath resolves the operand of a negation to the field path whose
// presence is being tested. Both has(this.f) and bare this.f resolve; for
// the call form only a single-argument has is accepted.
func presencePath(e celast.Expr) ([]string, bool) {
	if e.Kind() == celast.CallKind {
		call := e.AsCall()
		if call.FunctionName() != presenceFunction || len(call.Args()) != 1 {
			return nil, false
		}
		return fieldPath(call.Args()[0])
	}
	return fieldPath(e)
}

// visitEquals records an equality-to-constant assertion. The operand pair is
// tried in both orders so that field == 'x' and 'x' == field behave
// identically; if neither orientation yields a (path, literal) pair the node
// is ignored.
func visitEquals(call celast.CallExpr, res *Result) {
	args := call.Args()
	if len(args) != 2 {
		return
	}
	for _, pair := range [2][2]celast.Expr{{args[0], args[1]}, {args[1], args[0]}} {
		path, ok := fieldPath(pair[0])
		if !ok {
			continue
		}
		lit, ok := literalValue(pair[1])
		if !ok {
			continue
		}
		res.addLiteral(path, lit)
		return
	}
}

// visitOr is the branch composer. Each operand is analyzed into a fresh
// scratch scope; non-empty scratch scopes are appended to res.UnionGroups in
// operand order, reduced to the Branch shape. Branch errors propagate to the
// enclosing errors. Union groups produced inside an operand stay with the
// discarded scratch result: flattening of nested disjunctions stops at one
// level, which is a deliberate scope limit of the model.
func visitOr(call celast.CallExpr, res *Result) {
	for _, arg := range call.Args() {
		scratch := newResult()
		visit(arg, scratch)
		res.Errors = append(res.Errors, scratch.Errors...)
		if scratch.empty() {
			continue
		}
		res.UnionGroups = append(res.UnionGroups, scratch.asBranch())
	}
}
