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

package tsgen

import (
	"fmt"
	"maps"
	"strings"

	"github.com/bufbuild/protoc-gen-tsshape/constraint"
	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/mapsx"
	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/slicesx"
)

// Member is one emittable member of a message shape: a plain field or a
// oneof group, in declaration order.
type Member struct {
	// Name is the camel-cased member name, matching the names the
	// constraint analyzer extracts from expression text.
	Name string
	// Type is the rendered TypeScript type.
	Type string
	// Optional marks members emitted with the ? modifier.
	Optional bool
	// Narrowable is true when Type is a single message reference that a
	// nested exclusion can narrow with Omit.
	Narrowable bool
}

// Alternative is one structural variant of a message shape: the members it
// retains, with nested exclusions already applied to member types.
type Alternative struct {
	Members []Member
}

// Alternatives turns a merged constraint result and a message's member list
// into the structural variants to emit. With no union groups there is one
// variant: members named in ReadOnlyFields are omitted and members keyed in
// NestedConstraints are narrowed. With union groups there is one variant per
// branch, whose effective omission set and nested-exclusion map are the
// message-level sets merged with that branch's own; variants need not be
// disjoint or exhaustive. LiteralFields does not affect the member lists.
func Alternatives(res *constraint.Result, members []Member) []Alternative {
	base := mapsx.Set(res.ReadOnlyFields...)
	if len(res.UnionGroups) == 0 {
		return []Alternative{apply(members, base, res.NestedConstraints)}
	}
	alts := make([]Alternative, 0, len(res.UnionGroups))
	for _, branch := range res.UnionGroups {
		omit := mapsx.Insert(maps.Clone(base), branch.ReadOnlyFields...)
		nested := mergeNested(res.NestedConstraints, branch.NestedConstraints)
		alts = append(alts, apply(members, omit, nested))
	}
	return alts
}

func apply(members []Member, omit map[string]struct{}, nested map[string][]string) Alternative {
	var alt Alternative
	for _, m := range members {
		if mapsx.Contains(omit, m.Name) {
			continue
		}
		if children, ok := nested[m.Name]; ok && m.Narrowable && len(children) > 0 {
			m.Type = omitType(m.Type, children)
		}
		alt.Members = append(alt.Members, m)
	}
	return alt
}

// mergeNested unions the per-parent child sets of a and b without modifying
// either, preserving a's child order with b's additions appended.
func mergeNested(a, b map[string][]string) map[string][]string {
	if len(b) == 0 {
		return a
	}
	merged := make(map[string][]string, len(a)+len(b))
	for parent, children := range a {
		merged[parent] = append([]string(nil), children...)
	}
	for parent, children := range b {
		for _, c := range children {
			merged[parent] = slicesx.AppendUnique(merged[parent], c)
		}
	}
	return merged
}

func omitType(typ string, children []string) string {
	quoted := make([]string, len(children))
	for i, c := range children {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return fmt.Sprintf("Omit<%s, %s>", typ, strings.Join(quoted, " | "))
}
