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
	"github.com/google/cel-go/common/types"

	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/stringsx"
)

// subjectIdent is the implicit root identifier that anchors every field path
// the analyzer recognizes. Paths rooted anywhere else are ignored.
const subjectIdent = "this"

// fieldPath resolves a select chain rooted at the subject identifier into
// the camel-cased field names it traverses, outermost parent first. Bare
// identifiers never resolve: only subject.field forms count as field
// references. The second return is false when e is not such a chain.
func fieldPath(e celast.Expr) ([]string, bool) {
	if e.Kind() != celast.SelectKind {
		return nil, false
	}
	sel := e.AsSelect()
	operand := sel.Operand()
	switch operand.Kind() {
	case celast.IdentKind:
		if operand.AsIdent() != subjectIdent {
			return nil, false
		}
		return []string{stringsx.CamelCase(sel.FieldName())}, true
	case celast.SelectKind:
		prefix, ok := fieldPath(operand)
		if !ok {
			return nil, false
		}
		return append(prefix, stringsx.CamelCase(sel.FieldName())), true
	default:
		return nil, false
	}
}

// literalValue extracts the [Literal] for a constant node. Only string,
// numeric (int, uint, double), and boolean constants are representable;
// anything else, including bytes and null, reports false.
func literalValue(e celast.Expr) (Literal, bool) {
	if e.Kind() != celast.LiteralKind {
		return Literal{}, false
	}
	switch v := e.AsLiteral().(type) {
	case types.String:
		return Text(string(v)), true
	case types.Int:
		return Number(float64(v)), true
	case types.Uint:
		return Number(float64(v)), true
	case types.Double:
		return Number(float64(v)), true
	case types.Bool:
		return Bool(bool(v)), true
	default:
		return Literal{}, false
	}
}
