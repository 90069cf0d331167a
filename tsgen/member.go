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
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/mapsx"
	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/stringsx"
)

// members builds the emittable member list for md: non-oneof fields in
// declaration order, with each oneof group appearing as a single member at
// the position of its first field. Synthetic oneofs (proto3 optional) are
// treated as plain fields.
func (g *fileGenerator) members(md protoreflect.MessageDescriptor) []Member {
	fields := md.Fields()
	members := make([]Member, 0, fields.Len())
	seen := mapsx.Set[protoreflect.FullName]()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if oneof := fd.ContainingOneof(); oneof != nil && !oneof.IsSynthetic() {
			if mapsx.Contains(seen, oneof.FullName()) {
				continue
			}
			mapsx.Insert(seen, oneof.FullName())
			members = append(members, g.oneofMember(oneof))
			continue
		}
		members = append(members, g.fieldMember(fd))
	}
	return members
}

func (g *fileGenerator) fieldMember(fd protoreflect.FieldDescriptor) Member {
	return Member{
		Name:       stringsx.CamelCase(string(fd.Name())),
		Type:       g.fieldType(fd),
		Optional:   fd.HasPresence(),
		Narrowable: fd.Kind() == protoreflect.MessageKind && !fd.IsMap() && !fd.IsList(),
	}
}

// oneofMember renders a oneof group as a single discriminated-union member.
func (g *fileGenerator) oneofMember(oneof protoreflect.OneofDescriptor) Member {
	fields := oneof.Fields()
	arms := make([]string, 0, fields.Len()+1)
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		arms = append(arms, fmt.Sprintf("{ case: %q; value: %s }",
			stringsx.CamelCase(string(fd.Name())), g.singularType(fd)))
	}
	arms = append(arms, "{ case: undefined; value?: undefined }")
	return Member{
		Name: stringsx.CamelCase(string(oneof.Name())),
		Type: strings.Join(arms, " | "),
	}
}

func (g *fileGenerator) fieldType(fd protoreflect.FieldDescriptor) string {
	if fd.IsMap() {
		return fmt.Sprintf("Record<%s, %s>", mapKeyType(fd.MapKey()), g.singularType(fd.MapValue()))
	}
	typ := g.singularType(fd)
	if fd.IsList() {
		return typ + "[]"
	}
	return typ
}

// mapKeyType renders a map key. TypeScript index signatures only admit
// string and number, so bool keys degrade to string.
func mapKeyType(fd protoreflect.FieldDescriptor) string {
	switch fd.Kind() {
	case protoreflect.StringKind, protoreflect.BoolKind:
		return "string"
	default:
		return "number"
	}
}

func (g *fileGenerator) singularType(fd protoreflect.FieldDescriptor) string {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return "boolean"
	case protoreflect.StringKind:
		return "string"
	case protoreflect.BytesKind:
		return "Uint8Array"
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.FloatKind, protoreflect.DoubleKind:
		return "number"
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return "bigint"
	case protoreflect.EnumKind:
		return g.typeRef(fd.Enum(), descriptorName(fd.Enum()))
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return g.typeRef(fd.Message(), shapeName(fd.Message()))
	default:
		return "unknown"
	}
}

// descriptorName is the TypeScript identifier for a declaration: its full
// name relative to the file's package, with nesting dots replaced by
// underscores (Outer.Inner becomes Outer_Inner).
func descriptorName(d protoreflect.Descriptor) string {
	name := string(d.FullName())
	if pkg := string(d.ParentFile().Package()); pkg != "" {
		name = strings.TrimPrefix(name, pkg+".")
	}
	return strings.ReplaceAll(name, ".", "_")
}

func shapeName(md protoreflect.MessageDescriptor) string {
	return descriptorName(md) + "Shape"
}
