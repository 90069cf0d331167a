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

// tsshape generates TypeScript shape declarations straight from protobuf
// sources, compiling them in-process so no protoc installation is needed.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bufbuild/protocompile"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/slicesx"
	"github.com/bufbuild/protoc-gen-tsshape/tsgen"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		importPaths       []string
		outDir            string
		emitUnconstrained bool
	)
	cmd := &cobra.Command{
		Use:   "tsshape [patterns]",
		Short: "Generate TypeScript shape declarations from protobuf sources",
		Long: `tsshape compiles the .proto files matched by the given glob patterns
(doublestar patterns such as 'proto/**/*.proto' are supported) and writes one
.shape.ts file per input, mirroring the proto file layout under the output
directory.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), importPaths, outDir, emitUnconstrained, args)
		},
	}
	cmd.Flags().StringArrayVarP(&importPaths, "proto-path", "I", nil,
		"directory to search for imports (repeatable; defaults to .)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().BoolVar(&emitUnconstrained, "emit-unconstrained", true,
		"also emit shapes for messages without CEL rules")
	return cmd
}

func run(ctx context.Context, importPaths []string, outDir string, emitUnconstrained bool, patterns []string) error {
	if len(importPaths) == 0 {
		importPaths = []string{"."}
	}
	var names []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("pattern %q matched no files", pattern)
		}
		for _, match := range matches {
			names = append(names, relativize(importPaths, match))
		}
	}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(protocompile.CompositeResolver{
			&protocompile.SourceResolver{ImportPaths: importPaths},
			protocompile.ResolverFunc(registeredDescriptors),
		}),
	}
	files, err := compiler.Compile(ctx, slicesx.Unique(names)...)
	if err != nil {
		return err
	}

	gen, err := tsgen.NewGenerator(tsgen.Options{EmitUnconstrained: emitUnconstrained})
	if err != nil {
		return err
	}
	descriptors := make([]protoreflect.FileDescriptor, len(files))
	for i, file := range files {
		descriptors[i] = file
	}
	return gen.GenerateFiles(outDir, descriptors)
}

// registeredDescriptors serves imports already linked into this binary,
// notably buf/validate/validate.proto, so rule-bearing sources compile
// without a local copy of the protovalidate schema.
func registeredDescriptors(path string) (protocompile.SearchResult, error) {
	fd, err := protoregistry.GlobalFiles.FindFileByPath(path)
	if err != nil {
		return protocompile.SearchResult{}, err
	}
	return protocompile.SearchResult{Desc: fd}, nil
}

// relativize rewrites a matched file path to be relative to one of the
// import paths, which is how the compiler expects to receive it.
func relativize(importPaths []string, name string) string {
	for _, importPath := range importPaths {
		rel, err := filepath.Rel(importPath, name)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(name)
}
