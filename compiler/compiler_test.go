// Copyright (c) 2025 the avro-idl authors
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package compiler_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvedes/avro-idl/compiler"
	"github.com/kvedes/avro-idl/syntax"
)

type mapResolver map[string]string

func (m mapResolver) ReadFile(path string) ([]byte, error) {
	src, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(src), nil
}

func compileSrc(t *testing.T, src string, opts ...compiler.CompileOption) (*syntax.Protocol, error) {
	t.Helper()
	parsed, err := syntax.Parse([]byte(src))
	require.NoError(t, err)
	return compiler.Compile(parsed, opts...)
}

func compileErr(t *testing.T, src string, opts ...compiler.CompileOption) *compiler.Error {
	t.Helper()
	_, err := compileSrc(t, src, opts...)
	require.Error(t, err)
	compileError := &compiler.Error{}
	require.ErrorAs(t, err, &compileError)
	return compileError
}

func declNames(protocol *syntax.Protocol) []string {
	names := make([]string, 0, len(protocol.Decls))
	for _, decl := range protocol.Decls {
		names = append(names, decl.Name)
	}
	return names
}

func TestCompilePassthrough(t *testing.T) {
	t.Parallel()

	protocol, err := compileSrc(t, `
protocol Events {
	record Event {
		string name;
	}
}
`)
	require.NoError(t, err)
	assert.Equal(t, "Events", protocol.Name)
	assert.Equal(t, []string{"Event"}, declNames(protocol))
}

func TestCompileNamespaceOverride(t *testing.T) {
	t.Parallel()

	protocol, err := compileSrc(t, `
@namespace("org.example")
protocol P {
	@namespace("org.other")
	record R {
		string name;
	}
	enum E { A, B }
}
`)
	require.NoError(t, err)
	for _, decl := range protocol.Decls {
		assert.Equal(t, "org.example", decl.Namespace)
	}
}

func TestCompileDeclNamespaceKept(t *testing.T) {
	t.Parallel()

	// No protocol namespace: per-type namespaces survive.
	protocol, err := compileSrc(t, `
protocol P {
	@namespace("org.other")
	record R {
		string name;
	}
}
`)
	require.NoError(t, err)
	assert.Equal(t, "org.other", protocol.Decls[0].Namespace)
}

func TestCompileImportSplice(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"common.avdl": `
protocol Common {
	record Shared {
		string id;
	}
}
`,
	}
	protocol, err := compileSrc(t, `
protocol P {
	record Before {
		string name;
	}
	import idl "common.avdl";
	record After {
		Shared shared;
	}
}
`, compiler.WithResolver(resolver))
	require.NoError(t, err)
	assert.Equal(t, []string{"Before", "Shared", "After"}, declNames(protocol))
}

func TestCompileImportRelativeDir(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"schemas/common.avdl": `
protocol Common {
	enum Color { Red, Green }
}
`,
	}
	protocol, err := compileSrc(t, `
protocol P {
	import idl "common.avdl";
}
`,
		compiler.WithResolver(resolver),
		compiler.WithSourcePath("schemas/main.avdl"),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Color"}, declNames(protocol))
}

func TestCompileImportNamespaces(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"common.avdl": `
@namespace("org.common")
protocol Common {
	record Shared {
		string id;
	}
}
`,
	}

	// The imported file's namespace stamps its types.
	protocol, err := compileSrc(t, `
protocol P {
	import idl "common.avdl";
}
`, compiler.WithResolver(resolver))
	require.NoError(t, err)
	assert.Equal(t, "org.common", protocol.Decls[0].Namespace)

	// The importing protocol's namespace wins over imported namespaces.
	protocol, err = compileSrc(t, `
@namespace("org.main")
protocol P {
	import idl "common.avdl";
}
`, compiler.WithResolver(resolver))
	require.NoError(t, err)
	assert.Equal(t, "org.main", protocol.Decls[0].Namespace)
}

func TestCompileImportTransitive(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"a.avdl": `
protocol A {
	import idl "b.avdl";
	record FromA {
		FromB b;
	}
}
`,
		"b.avdl": `
protocol B {
	record FromB {
		string id;
	}
}
`,
	}
	protocol, err := compileSrc(t, `
protocol P {
	import idl "a.avdl";
}
`, compiler.WithResolver(resolver))
	require.NoError(t, err)
	assert.Equal(t, []string{"FromB", "FromA"}, declNames(protocol))
}

func TestCompileImportDiamond(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"a.avdl": `protocol A { import idl "c.avdl"; }`,
		"b.avdl": `protocol B { import idl "c.avdl"; }`,
		"c.avdl": `protocol C { enum Shade { Light, Dark } }`,
	}
	protocol, err := compileSrc(t, `
protocol P {
	import idl "a.avdl";
	import idl "b.avdl";
}
`, compiler.WithResolver(resolver))
	require.NoError(t, err)
	assert.Equal(t, []string{"Shade", "Shade"}, declNames(protocol))
}

func TestCompileImportCycle(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"a.avdl": `protocol A { import idl "b.avdl"; }`,
		"b.avdl": `protocol B { import idl "a.avdl"; }`,
	}
	compileError := compileErr(t, `
protocol P {
	import idl "a.avdl";
}
`, compiler.WithResolver(resolver))
	assert.Equal(t, uint32(4100), compileError.Code())
	assert.Equal(t, compiler.KindImport, compileError.Kind())
}

func TestCompileImportSelfCycle(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"main.avdl": `protocol P { import idl "main.avdl"; }`,
	}
	compileError := compileErr(t, `
protocol P {
	import idl "main.avdl";
}
`,
		compiler.WithResolver(resolver),
		compiler.WithSourcePath("main.avdl"),
	)
	assert.Equal(t, uint32(4100), compileError.Code())
}

func TestCompileImportNoResolver(t *testing.T) {
	t.Parallel()

	compileError := compileErr(t, `
protocol P {
	import idl "common.avdl";
}
`)
	assert.Equal(t, uint32(4102), compileError.Code())
	assert.Equal(t, compiler.KindImport, compileError.Kind())
}

func TestCompileImportReadError(t *testing.T) {
	t.Parallel()

	compileError := compileErr(t, `
protocol P {
	import idl "missing.avdl";
}
`, compiler.WithResolver(mapResolver{}))
	assert.Equal(t, uint32(4101), compileError.Code())
	assert.Contains(t, compileError.Message(), "missing.avdl")
}

func TestCompileImportParseError(t *testing.T) {
	t.Parallel()

	resolver := mapResolver{
		"bad.avdl": `protocol Broken {`,
	}
	_, err := compileSrc(t, `
protocol P {
	import idl "bad.avdl";
}
`, compiler.WithResolver(resolver))
	require.Error(t, err)
	syntaxError := &syntax.Error{}
	assert.True(t, errors.As(err, &syntaxError))
}

func TestCompileUnresolvedRef(t *testing.T) {
	t.Parallel()

	compileError := compileErr(t, `
protocol P {
	record R {
		Missing thing;
	}
}
`)
	assert.Equal(t, uint32(4200), compileError.Code())
	assert.Equal(t, compiler.KindUnresolvedRef, compileError.Kind())
	assert.Contains(t, compileError.Message(), "Missing")
}

func TestCompileRefResolution(t *testing.T) {
	t.Parallel()

	// References resolve regardless of declaration order, including
	// inside arrays and unions.
	_, err := compileSrc(t, `
protocol P {
	record Node {
		array<Leaf> leaves;
		union{null, Leaf} extra;
		Meal favorite;
	}
	record Leaf {
		string id;
	}
	enum Meal { Breakfast, Lunch }
}
`)
	require.NoError(t, err)
}

func TestCompileDottedRef(t *testing.T) {
	t.Parallel()

	_, err := compileSrc(t, `
@namespace("org.example")
protocol P {
	record Inner {
		string id;
	}
	record Outer {
		org.example.Inner inner;
	}
}
`)
	require.NoError(t, err)
}

func TestCompileDefaultInt(t *testing.T) {
	t.Parallel()

	_, err := compileSrc(t, `
protocol P {
	record R {
		int a = 42;
		int b = -2147483648;
		long c = 9000000000;
		float d = 1;
		double e = 0.5;
		boolean f = true;
		string g = "x";
	}
}
`)
	require.NoError(t, err)
}

func TestCompileDefaultIntOutOfRange(t *testing.T) {
	t.Parallel()

	compileError := compileErr(t, `
protocol P {
	record R {
		int a = 2147483648;
	}
}
`)
	assert.Equal(t, uint32(4301), compileError.Code())
	assert.Equal(t, compiler.KindDefaultValue, compileError.Kind())
}

func TestCompileDefaultTypeMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"int_string", `int a = "x";`},
		{"long_float", `long a = 0.5;`},
		{"boolean_int", `boolean a = 1;`},
		{"string_bool", `string a = true;`},
		{"float_string", `float a = "x";`},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			compileError := compileErr(t, `
protocol P {
	record R {
		`+test.src+`
	}
}
`)
			assert.Equal(t, uint32(4300), compileError.Code())
			assert.Equal(t, compiler.KindDefaultValue, compileError.Kind())
		})
	}
}

func TestCompileDefaultNullLiteral(t *testing.T) {
	t.Parallel()

	compileError := compileErr(t, `
protocol P {
	record R {
		string a = null;
	}
}
`)
	assert.Equal(t, uint32(4300), compileError.Code())
}

func TestCompileDefaultUnion(t *testing.T) {
	t.Parallel()

	// Null default is accepted when the union contains null.
	_, err := compileSrc(t, `
protocol P {
	record R {
		string? a = null;
		union{null, string} b = null;
	}
}
`)
	require.NoError(t, err)

	// Non-null default must match the first union member.
	_, err = compileSrc(t, `
protocol P {
	record R {
		union{string, null} a = "x";
		union{string, int} b = "y";
	}
}
`)
	require.NoError(t, err)

	compileError := compileErr(t, `
protocol P {
	record R {
		union{string, int} a = 3;
	}
}
`)
	assert.Equal(t, uint32(4300), compileError.Code())
}

func TestCompileDefaultNullNotInUnion(t *testing.T) {
	t.Parallel()

	compileError := compileErr(t, `
protocol P {
	record R {
		union{string, int} a = null;
	}
}
`)
	assert.Equal(t, uint32(4302), compileError.Code())
}

func TestCompileDefaultNotAllowed(t *testing.T) {
	t.Parallel()

	compileError := compileErr(t, `
protocol P {
	record Other {
		string id;
	}
	record R {
		Other a = null;
	}
}
`)
	assert.Equal(t, uint32(4303), compileError.Code())

	compileError = compileErr(t, `
protocol P {
	record R {
		array<int> xs = 3;
	}
}
`)
	assert.Equal(t, uint32(4303), compileError.Code())
}

func TestCompileEnumDefault(t *testing.T) {
	t.Parallel()

	_, err := compileSrc(t, `
protocol P {
	enum Meal { Breakfast, Lunch, Dinner } = Dinner;
}
`)
	require.NoError(t, err)

	compileError := compileErr(t, `
protocol P {
	enum Meal { Breakfast, Lunch } = Supper;
}
`)
	assert.Equal(t, uint32(4304), compileError.Code())
	assert.Contains(t, compileError.Message(), "Supper")
}
