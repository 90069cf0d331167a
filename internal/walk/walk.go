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

// Package walk provides depth-first traversal of the declarations in a file
// descriptor, in declaration order.
package walk

import "google.golang.org/protobuf/reflect/protoreflect"

// Messages invokes fn for every message declared in file, including nested
// messages, parents before children. Synthetic map entry messages are
// skipped. Traversal stops at the first error, which is returned.
func Messages(file protoreflect.FileDescriptor, fn func(protoreflect.MessageDescriptor) error) error {
	msgs := file.Messages()
	for i := 0; i < msgs.Len(); i++ {
		if err := message(msgs.Get(i), fn); err != nil {
			return err
		}
	}
	return nil
}

func message(md protoreflect.MessageDescriptor, fn func(protoreflect.MessageDescriptor) error) error {
	if md.IsMapEntry() {
		return nil
	}
	if err := fn(md); err != nil {
		return err
	}
	nested := md.Messages()
	for i := 0; i < nested.Len(); i++ {
		if err := message(nested.Get(i), fn); err != nil {
			return err
		}
	}
	return nil
}

// Enums invokes fn for every enum declared in file, including enums nested
// inside messages, in declaration order with file-level enums first.
func Enums(file protoreflect.FileDescriptor, fn func(protoreflect.EnumDescriptor) error) error {
	enums := file.Enums()
	for i := 0; i < enums.Len(); i++ {
		if err := fn(enums.Get(i)); err != nil {
			return err
		}
	}
	return Messages(file, func(md protoreflect.MessageDescriptor) error {
		nested := md.Enums()
		for i := 0; i < nested.Len(); i++ {
			if err := fn(nested.Get(i)); err != nil {
				return err
			}
		}
		return nil
	})
}
