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
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/bufbuild/protocompile"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

const exampleProto = `
syntax = "proto3";

package shapes.v1;

import "buf/validate/validate.proto";

enum Plan {
  PLAN_UNSPECIFIED = 0;
  PLAN_FREE = 1;
  PLAN_PAID = 2;
}

message Address {
  option (buf.validate.message).cel = {
    id: "address.zip",
    expression: "!has(this.zip_code)"
  };

  string street = 1;
  string city = 2;
  string zip_code = 3;
}

message User {
  option (buf.validate.message).cel = {
    id: "user.kind",
    expression: "this.kind == 'basic' || !has(this.email)"
  };
  option (buf.validate.message).cel = {
    id: "user.address",
    expression: "!has(this.address.zip_code)"
  };

  string kind = 1;
  string email = 2;
  Address address = 3;
  repeated int64 scores = 4;
  Plan plan = 5;
  oneof contact {
    string phone = 6;
    string fax = 7;
  }
}
`

const crossFileProto = `
syntax = "proto3";

package shapes.v1;

import "shapes/v1/example.proto";

message Profile {
  Address home = 1;
  Plan plan = 2;
}
`

const brokenProto = `
syntax = "proto3";

package shapes.v1;

import "buf/validate/validate.proto";

message Broken {
  option (buf.validate.message).cel = {
    id: "broken.rule",
    expression: "not valid +++"
  };

  string name = 1;
}
`

func compileTestFiles(t *testing.T, names ...string) map[string]protoreflect.FileDescriptor {
	t.Helper()
	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(protocompile.CompositeResolver{
			&protocompile.SourceResolver{
				Accessor: protocompile.SourceAccessorFromMap(map[string]string{
					"shapes/v1/example.proto": exampleProto,
					"shapes/v1/profile.proto": crossFileProto,
					"shapes/v1/broken.proto":  brokenProto,
				}),
			},
			protocompile.ResolverFunc(func(path string) (protocompile.SearchResult, error) {
				fd, err := protoregistry.GlobalFiles.FindFileByPath(path)
				if err != nil {
					return protocompile.SearchResult{}, err
				}
				return protocompile.SearchResult{Desc: fd}, nil
			}),
		}),
	}
	files, err := compiler.Compile(context.Background(), names...)
	require.NoError(t, err)
	byPath := make(map[string]protoreflect.FileDescriptor, len(files))
	for _, file := range files {
		byPath[file.Path()] = file
	}
	return byPath
}

func generate(t *testing.T, file protoreflect.FileDescriptor) string {
	t.Helper()
	gen, err := NewGenerator(Options{EmitUnconstrained: true})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, gen.GenerateFile(&buf, file))
	return buf.String()
}

func TestGenerateFileGolden(t *testing.T) {
	t.Parallel()
	files := compileTestFiles(t, "shapes/v1/example.proto")
	got := generate(t, files["shapes/v1/example.proto"])

	const goldenPath = "testdata/example.shape.ts.golden"
	if os.Getenv("TSSHAPE_REFRESH") != "" {
		require.NoError(t, os.WriteFile(goldenPath, []byte(got), 0o644))
		return
	}
	want, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	if got != string(want) {
		diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(want)),
			B:        difflib.SplitLines(got),
			FromFile: goldenPath,
			ToFile:   "generated",
			Context:  3,
		})
		t.Fatalf("generated output mismatch:\n%s", diff)
	}
}

func TestGenerateFileCrossFileImport(t *testing.T) {
	t.Parallel()
	files := compileTestFiles(t, "shapes/v1/profile.proto")
	got := generate(t, files["shapes/v1/profile.proto"])
	assert.Contains(t, got, `import type { AddressShape, Plan } from "./example.shape.js";`)
	assert.Contains(t, got, "home?: AddressShape;")
	assert.Contains(t, got, "plan: Plan;")
}

func TestGenerateFileAdvisoryComment(t *testing.T) {
	t.Parallel()
	files := compileTestFiles(t, "shapes/v1/broken.proto")
	got := generate(t, files["shapes/v1/broken.proto"])
	// A rule that fails to parse contributes no constraint; the shape is
	// still emitted, with the failure surfaced as an advisory comment.
	assert.Contains(t, got, "// tsshape: ")
	assert.Contains(t, got, "export interface BrokenShape {\n  name: string;\n}")
}

func TestRelModule(t *testing.T) {
	t.Parallel()
	tests := []struct{ from, to, want string }{
		{"b.proto", "c.proto", "./c.shape.js"},
		{"a/b.proto", "a/c.proto", "./c.shape.js"},
		{"a/b.proto", "d/e.proto", "../d/e.shape.js"},
		{"a/x/b.proto", "a/y/c.proto", "../y/c.shape.js"},
		{"a/b.proto", "a/x/c.proto", "./x/c.shape.js"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relModule(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a/b.shape.ts", OutputPath("a/b.proto"))
}

func TestGenerateFilesWritesTree(t *testing.T) {
	t.Parallel()
	files := compileTestFiles(t, "shapes/v1/example.proto", "shapes/v1/profile.proto")
	gen, err := NewGenerator(Options{EmitUnconstrained: true})
	require.NoError(t, err)

	dir := t.TempDir()
	err = gen.GenerateFiles(dir, []protoreflect.FileDescriptor{
		files["shapes/v1/example.proto"],
		files["shapes/v1/profile.proto"],
	})
	require.NoError(t, err)

	for _, name := range []string{"shapes/v1/example.shape.ts", "shapes/v1/profile.shape.ts"} {
		text, err := os.ReadFile(dir + "/" + name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(text), "// Code generated by protoc-gen-tsshape. DO NOT EDIT."), name)
	}
}
