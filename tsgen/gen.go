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

// Package tsgen emits TypeScript structural type declarations for protobuf
// files, narrowed by the constraint model extracted from message-level CEL
// validation rules.
package tsgen

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/btree"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/bufbuild/protoc-gen-tsshape/constraint"
	"github.com/bufbuild/protoc-gen-tsshape/internal/ext/slicesx"
	"github.com/bufbuild/protoc-gen-tsshape/internal/walk"
	"github.com/bufbuild/protoc-gen-tsshape/rulesext"
)

// Options configures generation.
type Options struct {
	// EmitUnconstrained also emits plain shapes for messages without CEL
	// rules, so generated files are self-contained. On by default in the
	// plugin.
	EmitUnconstrained bool
}

// Generator renders .shape.ts files. One generator may be used for many
// files, concurrently.
type Generator struct {
	analyzer *constraint.Analyzer
	opts     Options
}

// NewGenerator builds a generator with its own constraint analyzer.
func NewGenerator(opts Options) (*Generator, error) {
	analyzer, err := constraint.NewAnalyzer()
	if err != nil {
		return nil, err
	}
	return &Generator{analyzer: analyzer, opts: opts}, nil
}

// OutputPath is the generated file path for a proto file path.
func OutputPath(protoPath string) string {
	return strings.TrimSuffix(protoPath, ".proto") + ".shape.ts"
}

// fileGenerator carries per-file emission state. Imports of types declared
// in other files are collected while rendering and emitted sorted by module
// specifier.
type fileGenerator struct {
	file    protoreflect.FileDescriptor
	imports btree.Map[string, []string]
}

// typeRef returns name, registering an import when d is declared in a
// different file.
func (g *fileGenerator) typeRef(d protoreflect.Descriptor, name string) string {
	from := d.ParentFile().Path()
	if from == g.file.Path() {
		return name
	}
	specifier := relModule(g.file.Path(), from)
	names, _ := g.imports.Get(specifier)
	g.imports.Set(specifier, slicesx.AppendUnique(names, name))
	return name
}

// GenerateFile writes the TypeScript declarations for file to w.
func (g *Generator) GenerateFile(w io.Writer, file protoreflect.FileDescriptor) error {
	fg := &fileGenerator{file: file}

	var body bytes.Buffer
	err := walk.Enums(file, func(ed protoreflect.EnumDescriptor) error {
		writeEnum(&body, ed)
		return nil
	})
	if err != nil {
		return err
	}
	err = walk.Messages(file, func(md protoreflect.MessageDescriptor) error {
		return g.message(fg, &body, md)
	})
	if err != nil {
		return err
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by protoc-gen-tsshape. DO NOT EDIT.\n//\n// source: %s\n\n", file.Path())
	fg.imports.Scan(func(specifier string, names []string) bool {
		fmt.Fprintf(&out, "import type { %s } from %q;\n", strings.Join(slicesx.Unique(names), ", "), specifier)
		return true
	})
	if fg.imports.Len() > 0 {
		out.WriteString("\n")
	}
	out.WriteString(strings.TrimRight(body.String(), "\n"))
	out.WriteString("\n")

	_, err = w.Write(out.Bytes())
	return err
}

// GenerateFiles renders every file under outDir, in parallel. Output paths
// mirror the proto file paths.
func (g *Generator) GenerateFiles(outDir string, files []protoreflect.FileDescriptor) error {
	var group errgroup.Group
	for _, file := range files {
		file := file
		group.Go(func() error {
			var buf bytes.Buffer
			if err := g.GenerateFile(&buf, file); err != nil {
				return fmt.Errorf("generating %s: %w", file.Path(), err)
			}
			target := filepath.Join(outDir, filepath.FromSlash(OutputPath(file.Path())))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			return os.WriteFile(target, buf.Bytes(), 0o644)
		})
	}
	return group.Wait()
}

func (g *Generator) message(fg *fileGenerator, out *bytes.Buffer, md protoreflect.MessageDescriptor) error {
	exprs := rulesext.Expressions(md)
	if len(exprs) == 0 && !g.opts.EmitUnconstrained {
		return nil
	}
	res := g.analyzer.AnalyzeAll(exprs)
	alts := Alternatives(res, fg.members(md))
	name := shapeName(md)

	// Analysis errors are advisory: they surface as comments on the shape
	// and never block generation.
	for _, e := range res.Errors {
		fmt.Fprintf(out, "// tsshape: %s\n", strings.Join(strings.Fields(e), " "))
	}
	if len(alts) == 1 {
		writeInterface(out, name, alts[0])
		return nil
	}
	altNames := make([]string, len(alts))
	for i, alt := range alts {
		altNames[i] = fmt.Sprintf("%sAlt%d", name, i+1)
		writeInterface(out, altNames[i], alt)
	}
	fmt.Fprintf(out, "export type %s = %s;\n\n", name, strings.Join(altNames, " | "))
	return nil
}

func writeInterface(out *bytes.Buffer, name string, alt Alternative) {
	fmt.Fprintf(out, "export interface %s {\n", name)
	for _, m := range alt.Members {
		opt := ""
		if m.Optional {
			opt = "?"
		}
		fmt.Fprintf(out, "  %s%s: %s;\n", m.Name, opt, m.Type)
	}
	out.WriteString("}\n\n")
}

func writeEnum(out *bytes.Buffer, ed protoreflect.EnumDescriptor) {
	values := ed.Values()
	names := make([]string, values.Len())
	for i := 0; i < values.Len(); i++ {
		names[i] = fmt.Sprintf("%q", string(values.Get(i).Name()))
	}
	fmt.Fprintf(out, "export type %s = %s;\n\n", descriptorName(ed), strings.Join(names, " | "))
}

// relModule is the ESM import specifier for the generated module of proto
// file to, relative to the generated module of proto file from.
func relModule(from, to string) string {
	target := strings.TrimSuffix(to, ".proto") + ".shape.js"
	fromDir := path.Dir(from)
	var fromSegs []string
	if fromDir != "." {
		fromSegs = strings.Split(fromDir, "/")
	}
	targetSegs := strings.Split(target, "/")
	common := 0
	for common < len(fromSegs) && common < len(targetSegs)-1 && fromSegs[common] == targetSegs[common] {
		common++
	}
	segs := make([]string, 0, len(fromSegs)-common+len(targetSegs)-common)
	for range fromSegs[common:] {
		segs = append(segs, "..")
	}
	if len(segs) == 0 {
		segs = append(segs, ".")
	}
	return strings.Join(append(segs, targetSegs[common:]...), "/")
}
