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

// Package rulesext reads message-level CEL validation rules from descriptor
// options, i.e. the (buf.validate.message).cel extension.
package rulesext

import (
	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Rule is one message-level CEL rule.
type Rule struct {
	ID         string
	Message    string
	Expression string
}

// MessageRules returns the CEL rules declared on md, in declaration order.
// Messages without the extension, and messages with validation disabled,
// yield nil.
func MessageRules(md protoreflect.MessageDescriptor) []Rule {
	constraints := messageConstraints(md.Options())
	if constraints == nil || constraints.GetDisabled() {
		return nil
	}
	cel := constraints.GetCel()
	if len(cel) == 0 {
		return nil
	}
	rules := make([]Rule, len(cel))
	for i, c := range cel {
		rules[i] = Rule{
			ID:         c.GetId(),
			Message:    c.GetMessage(),
			Expression: c.GetExpression(),
		}
	}
	return rules
}

// Expressions returns just the expression strings of MessageRules.
func Expressions(md protoreflect.MessageDescriptor) []string {
	rules := MessageRules(md)
	if len(rules) == 0 {
		return nil
	}
	exprs := make([]string, len(rules))
	for i, r := range rules {
		exprs[i] = r.Expression
	}
	return exprs
}

// messageConstraints resolves the buf.validate.message extension. Options on
// descriptors linked in-process (rather than loaded from generated code) may
// carry the extension under a dynamically resolved type, so the options are
// round-tripped through the wire format to re-resolve the value against the
// canonical generated type.
func messageConstraints(opts proto.Message) *validate.MessageConstraints {
	if opts == nil {
		return nil
	}
	wire, err := proto.Marshal(opts)
	if err != nil || len(wire) == 0 {
		return nil
	}
	var canonical descriptorpb.MessageOptions
	if proto.Unmarshal(wire, &canonical) != nil {
		return nil
	}
	if !proto.HasExtension(&canonical, validate.E_Message) {
		return nil
	}
	constraints, _ := proto.GetExtension(&canonical, validate.E_Message).(*validate.MessageConstraints)
	return constraints
}
