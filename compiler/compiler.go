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

// Package compiler turns a parsed Avro IDL protocol into a self-contained
// protocol ready for encoding: imports are expanded in place, the protocol
// namespace is propagated onto every contained type, named references are
// resolved, and default values are checked against their field types.
package compiler

import (
	"maps"
	"math"
	"path"

	"github.com/kvedes/avro-idl/syntax"
)

// Resolver loads the source text of imported protocol files. Import paths
// are slash-separated and joined to the directory of the importing file
// before resolution.
type Resolver interface {
	ReadFile(path string) ([]byte, error)
}

// ResolverFunc adapts a plain function (such as os.ReadFile) to the
// Resolver interface.
type ResolverFunc func(path string) ([]byte, error)

func (f ResolverFunc) ReadFile(path string) ([]byte, error) {
	return f(path)
}

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	resolver   Resolver
	sourcePath string
}

// WithResolver sets the resolver used to load imported files. Without a
// resolver, any import declaration is a compile error.
func WithResolver(resolver Resolver) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.resolver = resolver
	})
}

// WithSourcePath records the path of the protocol being compiled. Imports
// resolve relative to its directory, and the path participates in import
// cycle detection.
func WithSourcePath(sourcePath string) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.sourcePath = sourcePath
	})
}

func Compile(parsedProtocol *syntax.Protocol, opts ...CompileOption) (*syntax.Protocol, error) {
	return NewCompileOptions(opts...).Compile(parsedProtocol)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(parsedProtocol *syntax.Protocol) (*syntax.Protocol, error) {
	c := compiler{opts: opts}

	dir := "."
	inFlight := map[string]bool{}
	if opts.sourcePath != "" {
		sourcePath := path.Clean(opts.sourcePath)
		dir = path.Dir(sourcePath)
		inFlight[sourcePath] = true
	}

	decls, err := c.expandImports(parsedProtocol.Decls, dir, inFlight)
	if err != nil {
		return nil, err
	}

	protocol := &syntax.Protocol{
		Name:      parsedProtocol.Name,
		Namespace: parsedProtocol.Namespace,
		Doc:       parsedProtocol.Doc,
		Decls:     decls,
	}

	// The protocol namespace wins over every per-type namespace, including
	// namespaces carried in from imported files.
	if protocol.Namespace != "" {
		for ii := range protocol.Decls {
			protocol.Decls[ii].Namespace = protocol.Namespace
		}
	}

	if err := c.resolveRefs(protocol); err != nil {
		return nil, err
	}
	if err := c.checkDefaults(protocol); err != nil {
		return nil, err
	}
	return protocol, nil
}

type compiler struct {
	opts *CompileOptions
}

// expandImports splices the type declarations of each imported file into
// the declaration list, at the position of the import. Imports resolve
// depth-first; the inFlight set holds the chain of files currently being
// expanded, so a cycle is detected without rejecting diamond-shaped
// import graphs.
func (c *compiler) expandImports(decls []syntax.Decl, dir string, inFlight map[string]bool) ([]syntax.Decl, error) {
	out := make([]syntax.Decl, 0, len(decls))
	for _, decl := range decls {
		if decl.Kind != syntax.DeclImport {
			out = append(out, decl)
			continue
		}

		importPath := path.Join(dir, decl.ImportPath)
		if inFlight[importPath] {
			return nil, errImportCycle(importPath, decl.Span())
		}
		if c.opts.resolver == nil {
			return nil, errImportNoResolver(importPath, decl.Span())
		}
		src, err := c.opts.resolver.ReadFile(importPath)
		if err != nil {
			return nil, errImportRead(importPath, err, decl.Span())
		}
		imported, err := syntax.Parse(src)
		if err != nil {
			return nil, err
		}

		childInFlight := maps.Clone(inFlight)
		childInFlight[importPath] = true
		importedDecls, err := c.expandImports(imported.Decls, path.Dir(importPath), childInFlight)
		if err != nil {
			return nil, err
		}
		if imported.Namespace != "" {
			for ii := range importedDecls {
				importedDecls[ii].Namespace = imported.Namespace
			}
		}
		out = append(out, importedDecls...)
	}
	return out, nil
}

func (c *compiler) resolveRefs(protocol *syntax.Protocol) error {
	names := map[string]bool{}
	for _, decl := range protocol.Decls {
		names[decl.Name] = true
		if decl.Namespace != "" {
			names[decl.Namespace+"."+decl.Name] = true
		}
	}

	for _, decl := range protocol.Decls {
		if decl.Kind != syntax.DeclRecord {
			continue
		}
		for _, field := range decl.Fields {
			if err := checkRefs(field, field.Type, names); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkRefs(field syntax.Field, t syntax.Type, names map[string]bool) error {
	switch t.Kind {
	case syntax.TypeRef:
		if !names[t.Ref] {
			return errUnresolvedRef(t.Ref, field.Span())
		}
	case syntax.TypeArray:
		return checkRefs(field, *t.Items, names)
	case syntax.TypeUnion:
		for _, member := range t.Members {
			if err := checkRefs(field, member, names); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *compiler) checkDefaults(protocol *syntax.Protocol) error {
	for _, decl := range protocol.Decls {
		switch decl.Kind {
		case syntax.DeclEnum:
			if decl.Default == "" {
				continue
			}
			found := false
			for _, symbol := range decl.Symbols {
				if symbol == decl.Default {
					found = true
					break
				}
			}
			if !found {
				return errDefaultEnumSymbol(decl.Name, decl.Default, decl.Span())
			}

		case syntax.DeclRecord:
			for _, field := range decl.Fields {
				if field.Default == nil {
					continue
				}
				if err := checkFieldDefault(field); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkFieldDefault(field syntax.Field) error {
	def := field.Default
	switch field.Type.Kind {
	case syntax.TypePrimitive:
		return checkPrimitiveDefault(field, field.Type.Primitive, def)

	case syntax.TypeUnion:
		if def.Kind == syntax.LitNull {
			if unionHasNull(field.Type) {
				return nil
			}
			return errDefaultNullNotInUnion(field.Name, field.Span())
		}
		// A non-null default must match the first union member.
		first := field.Type.Members[0]
		switch first.Kind {
		case syntax.TypePrimitive:
			return checkPrimitiveDefault(field, first.Primitive, def)
		case syntax.TypeNull:
			return errDefaultTypeMismatch(field.Name, "null", def.Kind, field.Span())
		default:
			return errDefaultNotAllowed(field.Name, "record reference", field.Span())
		}

	case syntax.TypeArray:
		return errDefaultNotAllowed(field.Name, "array", field.Span())

	case syntax.TypeRef:
		return errDefaultNotAllowed(field.Name, "record reference", field.Span())
	}
	return nil
}

func unionHasNull(t syntax.Type) bool {
	for _, member := range t.Members {
		if member.Kind == syntax.TypeNull {
			return true
		}
	}
	return false
}

func checkPrimitiveDefault(field syntax.Field, prim syntax.Primitive, def *syntax.Literal) error {
	switch prim {
	case syntax.PrimInt:
		if def.Kind != syntax.LitInt {
			return errDefaultTypeMismatch(field.Name, prim.Name(), def.Kind, field.Span())
		}
		if def.Int < math.MinInt32 || def.Int > math.MaxInt32 {
			return errDefaultIntOutOfRange(field.Name, def.Int, field.Span())
		}
	case syntax.PrimLong:
		if def.Kind != syntax.LitInt {
			return errDefaultTypeMismatch(field.Name, prim.Name(), def.Kind, field.Span())
		}
	case syntax.PrimFloat, syntax.PrimDouble:
		if def.Kind != syntax.LitInt && def.Kind != syntax.LitFloat {
			return errDefaultTypeMismatch(field.Name, prim.Name(), def.Kind, field.Span())
		}
	case syntax.PrimBoolean:
		if def.Kind != syntax.LitBool {
			return errDefaultTypeMismatch(field.Name, prim.Name(), def.Kind, field.Span())
		}
	case syntax.PrimString:
		if def.Kind != syntax.LitString {
			return errDefaultTypeMismatch(field.Name, prim.Name(), def.Kind, field.Span())
		}
	}
	return nil
}
