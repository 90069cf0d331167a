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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddReadOnlyTruncatesDeepPaths(t *testing.T) {
	t.Parallel()
	res := newResult()
	res.addReadOnly([]string{"parent", "child", "grandchild"})
	res.addReadOnly([]string{"parent", "child"})
	res.addReadOnly(nil)
	assert.Empty(t, res.ReadOnlyFields)
	assert.Equal(t, map[string][]string{"parent": {"child"}}, res.NestedConstraints)
}

func TestAddLiteralDropsValueForNestedPaths(t *testing.T) {
	t.Parallel()
	res := newResult()
	res.addLiteral([]string{"parent", "child"}, Text("x"))
	assert.Empty(t, res.LiteralFields)
	assert.Equal(t, map[string][]string{"parent": {"child"}}, res.NestedConstraints)
}

func TestReadOnlyAndLiteralAreExclusive(t *testing.T) {
	t.Parallel()
	res := newResult()
	res.addReadOnly([]string{"f"})
	res.addLiteral([]string{"f"}, Number(1))
	assert.Empty(t, res.ReadOnlyFields)
	assert.Equal(t, map[string]Literal{"f": Number(1)}, res.LiteralFields)

	res.addReadOnly([]string{"f"})
	assert.Equal(t, []string{"f"}, res.ReadOnlyFields)
	assert.Empty(t, res.LiteralFields)
}

func TestNormalizeDropsEmptyChildSets(t *testing.T) {
	t.Parallel()
	res := newResult()
	res.ReadOnlyFields = []string{"a", "b", "a"}
	res.NestedConstraints["p"] = []string{"c", "c"}
	res.NestedConstraints["q"] = nil
	res.normalize()
	assert.Equal(t, []string{"a", "b"}, res.ReadOnlyFields)
	assert.Equal(t, map[string][]string{"p": {"c"}}, res.NestedConstraints)
}

func TestAsBranchCopies(t *testing.T) {
	t.Parallel()
	res := newResult()
	res.addReadOnly([]string{"f"})
	branch := res.asBranch()
	res.addReadOnly([]string{"g"})
	assert.Equal(t, []string{"f"}, branch.ReadOnlyFields)
}
