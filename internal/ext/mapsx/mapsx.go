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

// Package mapsx contains extensions to Go's package maps.
package mapsx

// Set constructs a set-like map from the given elements.
func Set[K comparable](elems ...K) map[K]struct{} {
	s := make(map[K]struct{}, len(elems))
	for _, elem := range elems {
		s[elem] = struct{}{}
	}
	return s
}

// Insert adds the given elements to an existing set.
func Insert[K comparable](s map[K]struct{}, elems ...K) map[K]struct{} {
	for _, elem := range elems {
		s[elem] = struct{}{}
	}
	return s
}

// Contains is a shorthand for _, ok := m[k] that allows it to be used in
// expression position.
func Contains[M ~map[K]V, K comparable, V any](m M, k K) bool {
	_, ok := m[k]
	return ok
}
