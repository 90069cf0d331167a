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

// Package constraint extracts a normalized constraint model from the CEL
// expressions attached to message-level validation rules. The analyzer walks
// an already-parsed expression tree and derives which fields are asserted
// absent, which are pinned to literal values, and how disjunctions partition
// those facts into alternative branches. It recognizes a deliberately narrow
// pattern set (negated presence checks, equality to constants, conjunction,
// disjunction) and silently ignores everything else; it never evaluates.
//
// Parsing is delegated entirely to cel-go. The analyzer's only interface to
// it is parse text, get a tree or a failure message.
package constraint

import (
	"fmt"

	"github.com/google/cel-go/cel"
	celast "github.com/google/cel-go/common/ast"
	"golang.org/x/sync/errgroup"
)

// Analyzer extracts constraint models from expression text. Instances are
// safe for concurrent use; each analysis works on its own result value, so
// there is no shared mutable state between expressions.
type Analyzer struct {
	env *cel.Env
}

// NewAnalyzer builds an analyzer with its own parse environment. The single
// declared variable is the implicit subject that anchors field paths.
func NewAnalyzer() (*Analyzer, error) {
	env, err := cel.NewEnv(cel.Variable(subjectIdent, cel.DynType))
	if err != nil {
		return nil, fmt.Errorf("constraint: building CEL environment: %w", err)
	}
	return &Analyzer{env: env}, nil
}

// Analyze parses expression and extracts its constraint model. A parse
// failure yields the all-empty result with a single advisory entry in
// Errors and no partial analysis; it is never escalated to an error return,
// since a rule that cannot be analyzed simply contributes no constraint.
func (a *Analyzer) Analyze(expression string) *Result {
	res := newResult()
	parsed, issues := a.env.Parse(expression)
	if err := issues.Err(); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("parsing %q: %v", expression, err))
		return res
	}
	root := parsed.NativeRep().Expr()
	if root == nil || root.Kind() == celast.UnspecifiedExprKind {
		res.Errors = append(res.Errors, fmt.Sprintf("parsing %q: no expression", expression))
		return res
	}
	visit(root, res)
	res.normalize()
	return res
}

// AnalyzeAll analyzes each expression independently and merges the results
// in argument order, so later expressions win literal conflicts the same way
// later conjuncts do within one expression. The analyses themselves run
// concurrently; only the merge is ordered.
func (a *Analyzer) AnalyzeAll(expressions []string) *Result {
	results := make([]*Result, len(expressions))
	var group errgroup.Group
	for i, expression := range expressions {
		i, expression := i, expression
		group.Go(func() error {
			results[i] = a.Analyze(expression)
			return nil
		})
	}
	_ = group.Wait() // analyses never fail; failures surface as Result.Errors
	return Merge(results...)
}
