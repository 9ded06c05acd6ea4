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

package syntax

import (
	"fmt"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) Len() uint32 {
	return s.len
}

// Protocol is the top-level compilation unit: one per parsed file. Decls
// preserves source declaration order, which is semantically meaningful in
// Avro and carried through to the emitted schema.
type Protocol struct {
	Name      string
	Namespace string
	Doc       string
	Decls     []Decl
}

type DeclKind uint8

const (
	DeclRecord DeclKind = iota
	DeclEnum
	DeclImport
)

func (k DeclKind) String() string {
	switch k {
	case DeclRecord:
		return "record"
	case DeclEnum:
		return "enum"
	case DeclImport:
		return "import"
	default:
		return fmt.Sprintf("DeclKind(%d)", uint8(k))
	}
}

// Decl is a tagged union over the protocol body declarations. DeclImport
// exists only between parsing and import resolution; a compiled protocol
// contains records and enums exclusively.
type Decl struct {
	Kind      DeclKind
	Name      string
	Namespace string
	Doc       string

	// DeclRecord
	Fields []Field

	// DeclEnum
	Symbols []string
	Default string

	// DeclImport
	ImportPath string

	span Span
}

func (d *Decl) Span() Span {
	return d.span
}

type Field struct {
	Name    string
	Type    Type
	Default *Literal
	Doc     string

	span Span
}

func (f *Field) Span() Span {
	return f.span
}

type TypeKind uint8

const (
	TypeNull TypeKind = iota
	TypePrimitive
	TypeUnion
	TypeArray
	TypeRef
)

// Type is a tagged union over field types. The '?' nullable shorthand never
// appears here: it is desugared at parse time into a two-member union with
// null, so the resolver and the emitter share a single union code path.
type Type struct {
	Kind      TypeKind
	Primitive Primitive // TypePrimitive
	Members   []Type    // TypeUnion
	Items     *Type     // TypeArray
	Ref       string    // TypeRef
}

// nullable wraps t into the union produced by the '?' shorthand. Member
// order is type first, null second, matching the reference tooling.
func nullable(t Type) Type {
	return Type{
		Kind:    TypeUnion,
		Members: []Type{t, {Kind: TypeNull}},
	}
}

type Primitive uint8

const (
	PrimInt Primitive = iota
	PrimLong
	PrimFloat
	PrimDouble
	PrimBoolean
	PrimString
)

func (p Primitive) Name() string {
	switch p {
	case PrimInt:
		return "int"
	case PrimLong:
		return "long"
	case PrimFloat:
		return "float"
	case PrimDouble:
		return "double"
	case PrimBoolean:
		return "boolean"
	case PrimString:
		return "string"
	default:
		return fmt.Sprintf("Primitive(%d)", uint8(p))
	}
}

var primitivesByName = map[string]Primitive{
	"int":     PrimInt,
	"long":    PrimLong,
	"float":   PrimFloat,
	"double":  PrimDouble,
	"boolean": PrimBoolean,
	"string":  PrimString,
}

type LitKind uint8

const (
	LitNull LitKind = iota
	LitInt
	LitFloat
	LitBool
	LitString
)

func (k LitKind) String() string {
	switch k {
	case LitNull:
		return "null"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitBool:
		return "boolean"
	case LitString:
		return "string"
	default:
		return fmt.Sprintf("LitKind(%d)", uint8(k))
	}
}

// Literal is a default value. A nil *Literal on a Field means no default was
// written; a Literal with Kind LitNull means an explicit 'null' default. Raw
// holds the source text of numeric literals, which is already a valid JSON
// number and is emitted verbatim.
type Literal struct {
	Kind  LitKind
	Raw   string
	Int   int64
	Float float64
	Bool  bool
	Str   string
}
