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

// protoc-gen-tsshape is a protoc plugin that generates TypeScript structural
// type declarations (.shape.ts files), narrowed by message-level CEL
// validation rules.
package main

import (
	"flag"

	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/types/pluginpb"

	"github.com/bufbuild/protoc-gen-tsshape/tsgen"
)

func main() {
	var flags flag.FlagSet
	emitUnconstrained := flags.Bool("emit_unconstrained", true,
		"also emit shapes for messages without CEL rules")
	protogen.Options{ParamFunc: flags.Set}.Run(func(plugin *protogen.Plugin) error {
		plugin.SupportedFeatures = uint64(pluginpb.CodeGeneratorResponse_FEATURE_PROTO3_OPTIONAL)
		gen, err := tsgen.NewGenerator(tsgen.Options{EmitUnconstrained: *emitUnconstrained})
		if err != nil {
			return err
		}
		for _, file := range plugin.Files {
			if !file.Generate {
				continue
			}
			out := plugin.NewGeneratedFile(tsgen.OutputPath(file.Desc.Path()), "")
			if err := gen.GenerateFile(out, file.Desc); err != nil {
				return err
			}
		}
		return nil
	})
}
