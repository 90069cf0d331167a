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

// Package slicesx contains extensions to Go's package slices.
package slicesx

import "slices"

// AppendUnique appends e to s if it is not already present, preserving the
// insertion order of first occurrences.
func AppendUnique[S ~[]E, E comparable](s S, e E) S {
	if slices.Contains(s, e) {
		return s
	}
	return append(s, e)
}

// Remove deletes every occurrence of e from s in place.
func Remove[S ~[]E, E comparable](s S, e E) S {
	return slices.DeleteFunc(s, func(v E) bool { return v == e })
}

// Unique removes duplicate elements from s, keeping the first occurrence of
// each and preserving order. The input is not modified.
func Unique[S ~[]E, E comparable](s S) S {
	if len(s) < 2 {
		return s
	}
	seen := make(map[E]struct{}, len(s))
	out := make(S, 0, len(s))
	for _, e := range s {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
