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

// Package syntax tokenizes and parses Avro IDL source text into an abstract
// syntax tree. Parsing is purely lexical and grammatical; named type
// references, imports, and default values are checked by package compiler.
package syntax

import (
	"strconv"
	"strings"
)

// Avro IDL type names that are recognized so they can be rejected with a
// precise diagnostic instead of being mistaken for record references.
var unsupportedTypes = map[string]bool{
	"bytes":              true,
	"decimal":            true,
	"date":               true,
	"time_ms":            true,
	"timestamp_ms":       true,
	"local_timestamp_ms": true,
	"uuid":               true,
}

// Parse parses one Avro IDL protocol file.
func Parse(src []byte) (*Protocol, error) {
	tokens, err := NewTokens(src)
	if err != nil {
		return nil, err
	}
	p := &parser{
		rest:   src,
		tokens: tokens,
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return p.parseProtocol()
}

type parser struct {
	rest   []byte
	tokens *Tokens
	tok    Token
	text   string
	start  uint32 // offset of the current token
	offset uint32 // offset past the current token
}

// next advances to the next semantically relevant token, skipping
// whitespace. Doc comments are tokens of their own and are not skipped.
func (p *parser) next() error {
	for {
		p.start = p.offset
		if err := p.tokens.Next(&p.tok); err != nil {
			return err
		}
		p.text = string(p.rest[:p.tok.Len])
		p.rest = p.rest[p.tok.Len:]
		p.offset += uint32(p.tok.Len)
		if p.tok.Kind == T_SPACE || p.tok.Kind == T_NEWLINE {
			continue
		}
		return nil
	}
}

func (p *parser) tokenSpan() Span {
	return Span{
		start: p.start,
		len:   uint32(p.tok.Len),
	}
}

func (p *parser) sigil(kind TokenKind, c byte) error {
	if p.tok.Kind != kind {
		return errExpectedSigil(c, p.tok.Kind, p.text, p.tokenSpan())
	}
	return p.next()
}

func (p *parser) ident() (string, Span, error) {
	if p.tok.Kind != T_IDENT {
		return "", Span{}, errExpectedIdent(p.tok.Kind, p.text, p.tokenSpan())
	}
	name := p.text
	span := p.tokenSpan()
	return name, span, p.next()
}

func (p *parser) keyword(keyword string) error {
	if p.tok.Kind != T_IDENT || p.text != keyword {
		return errExpectedKeyword(keyword, p.tok.Kind, p.text, p.tokenSpan())
	}
	return p.next()
}

func (p *parser) textLit() (string, error) {
	if p.tok.Kind != T_TEXT_LIT {
		return "", errExpectedTextLit(p.tok.Kind, p.text, p.tokenSpan())
	}
	text, err := decodeTextLit(p.text, p.tokenSpan())
	if err != nil {
		return "", err
	}
	return text, p.next()
}

// docComment consumes an optional '/** ... */' token and returns its trimmed
// interior text.
func (p *parser) docComment() (string, error) {
	if p.tok.Kind != T_DOC_COMMENT {
		return "", nil
	}
	doc := strings.TrimSpace(p.text[3 : len(p.text)-2])
	return doc, p.next()
}

// annotation consumes '@name("value")'. Only @namespace is supported.
func (p *parser) annotation() (string, error) {
	if err := p.next(); err != nil { // consume '@'
		return "", err
	}
	name, nameSpan, err := p.ident()
	if err != nil {
		return "", err
	}
	if name != "namespace" {
		return "", errUnsupportedAnnotation(name, nameSpan)
	}
	if err := p.sigil(T_OPEN_PAREN, '('); err != nil {
		return "", err
	}
	namespace, err := p.textLit()
	if err != nil {
		return "", err
	}
	if err := p.sigil(T_CLOSE_PAREN, ')'); err != nil {
		return "", err
	}
	return namespace, nil
}

func (p *parser) parseProtocol() (*Protocol, error) {
	doc, err := p.docComment()
	if err != nil {
		return nil, err
	}

	namespace := ""
	if p.tok.Kind == T_AT {
		if namespace, err = p.annotation(); err != nil {
			return nil, err
		}
	}

	if err := p.keyword("protocol"); err != nil {
		return nil, err
	}
	name, _, err := p.ident()
	if err != nil {
		return nil, err
	}
	if err := p.sigil(T_OPEN_CURL, '{'); err != nil {
		return nil, err
	}

	var decls []Decl
	for p.tok.Kind != T_CLOSE_CURL {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	if err := p.next(); err != nil { // consume '}'
		return nil, err
	}
	if p.tok.Kind != T_EOF {
		return nil, errExpectedEOF(p.tok.Kind, p.text, p.tokenSpan())
	}

	return &Protocol{
		Name:      name,
		Namespace: namespace,
		Doc:       doc,
		Decls:     decls,
	}, nil
}

func (p *parser) parseDecl() (Decl, error) {
	doc, err := p.docComment()
	if err != nil {
		return Decl{}, err
	}

	namespace := ""
	if p.tok.Kind == T_AT {
		if namespace, err = p.annotation(); err != nil {
			return Decl{}, err
		}
	}

	if p.tok.Kind != T_IDENT {
		return Decl{}, errExpectedDeclaration(p.tok.Kind, p.text, p.tokenSpan())
	}
	switch p.text {
	case "import":
		if doc != "" || namespace != "" {
			return Decl{}, errExpectedDeclaration(p.tok.Kind, p.text, p.tokenSpan())
		}
		return p.parseImport()
	case "record":
		return p.parseRecord(doc, namespace)
	case "enum":
		return p.parseEnum(doc, namespace)
	case "fixed":
		return Decl{}, errUnsupportedFixed(p.tokenSpan())
	case "error":
		return Decl{}, errUnsupportedErrorDecl(p.tokenSpan())
	case "map":
		return Decl{}, errUnsupportedMap(p.tokenSpan())
	default:
		// Any other identifier opens an RPC message declaration, e.g.
		// 'string hello(string greeting);'.
		return Decl{}, errUnsupportedMessage(p.tokenSpan())
	}
}

func (p *parser) parseImport() (Decl, error) {
	start := p.start
	if err := p.next(); err != nil { // consume 'import'
		return Decl{}, err
	}
	if p.tok.Kind != T_IDENT {
		return Decl{}, errExpectedIdent(p.tok.Kind, p.text, p.tokenSpan())
	}
	if p.text != "idl" {
		return Decl{}, errUnsupportedImport(p.text, p.tokenSpan())
	}
	if err := p.next(); err != nil {
		return Decl{}, err
	}
	path, err := p.textLit()
	if err != nil {
		return Decl{}, err
	}
	end := p.offset
	if err := p.sigil(T_SEMI, ';'); err != nil {
		return Decl{}, err
	}
	return Decl{
		Kind:       DeclImport,
		ImportPath: path,
		span:       Span{start, end - start},
	}, nil
}

func (p *parser) parseRecord(doc, namespace string) (Decl, error) {
	start := p.start
	if err := p.next(); err != nil { // consume 'record'
		return Decl{}, err
	}
	name, _, err := p.ident()
	if err != nil {
		return Decl{}, err
	}
	if err := p.sigil(T_OPEN_CURL, '{'); err != nil {
		return Decl{}, err
	}

	var fields []Field
	for p.tok.Kind != T_CLOSE_CURL {
		field, err := p.parseField(len(fields))
		if err != nil {
			return Decl{}, err
		}
		fields = append(fields, field)
	}
	end := p.offset
	if err := p.next(); err != nil { // consume '}'
		return Decl{}, err
	}

	return Decl{
		Kind:      DeclRecord,
		Name:      name,
		Namespace: namespace,
		Doc:       doc,
		Fields:    fields,
		span:      Span{start, end - start},
	}, nil
}

func (p *parser) parseField(index int) (Field, error) {
	doc, err := p.docComment()
	if err != nil {
		return Field{}, err
	}
	if p.tok.Kind == T_CLOSE_CURL {
		return Field{}, errExpectedField(p.tok.Kind, p.text, p.tokenSpan())
	}
	if p.tok.Kind == T_AT {
		if err := p.next(); err != nil {
			return Field{}, err
		}
		name, nameSpan, err := p.ident()
		if err != nil {
			return Field{}, err
		}
		return Field{}, errUnsupportedAnnotation(name, nameSpan)
	}

	start := p.start
	fieldType, err := p.parseType()
	if err != nil {
		return Field{}, err
	}
	name, _, err := p.ident()
	if err != nil {
		return Field{}, err
	}

	var def *Literal
	if p.tok.Kind == T_EQ {
		if err := p.next(); err != nil {
			return Field{}, err
		}
		if def, err = p.parseDefaultLiteral(); err != nil {
			return Field{}, err
		}
	}

	end := p.offset
	if err := p.sigil(T_SEMI, ';'); err != nil {
		return Field{}, err
	}
	span := Span{start, end - start}

	// Compatibility quirk: an array-typed field with no doc comment is
	// accepted only as the first field of its record body.
	if fieldType.Kind == TypeArray && doc == "" && index > 0 {
		return Field{}, errArrayFieldNotFirst(name, span)
	}

	return Field{
		Name:    name,
		Type:    fieldType,
		Default: def,
		Doc:     doc,
		span:    span,
	}, nil
}

func (p *parser) parseType() (Type, error) {
	if p.tok.Kind != T_IDENT {
		return Type{}, errExpectedField(p.tok.Kind, p.text, p.tokenSpan())
	}
	name := p.text
	span := p.tokenSpan()

	switch name {
	case "array":
		if err := p.next(); err != nil {
			return Type{}, err
		}
		if err := p.sigil(T_LT, '<'); err != nil {
			return Type{}, err
		}
		items, err := p.parseSimpleType()
		if err != nil {
			return Type{}, err
		}
		if err := p.sigil(T_GT, '>'); err != nil {
			return Type{}, err
		}
		if p.tok.Kind == T_QUESTION {
			return Type{}, errTypeNotNullable("array", p.tokenSpan())
		}
		return Type{Kind: TypeArray, Items: &items}, nil

	case "union":
		if err := p.next(); err != nil {
			return Type{}, err
		}
		if err := p.sigil(T_OPEN_CURL, '{'); err != nil {
			return Type{}, err
		}
		member, err := p.parseSimpleType()
		if err != nil {
			return Type{}, err
		}
		members := []Type{member}
		for p.tok.Kind == T_COMMA {
			if err := p.next(); err != nil {
				return Type{}, err
			}
			if member, err = p.parseSimpleType(); err != nil {
				return Type{}, err
			}
			members = append(members, member)
		}
		if err := p.sigil(T_CLOSE_CURL, '}'); err != nil {
			return Type{}, err
		}
		if p.tok.Kind == T_QUESTION {
			return Type{}, errTypeNotNullable("union", p.tokenSpan())
		}
		return Type{Kind: TypeUnion, Members: members}, nil

	case "map":
		return Type{}, errUnsupportedMap(span)
	case "fixed":
		return Type{}, errUnsupportedFixed(span)
	case "null":
		return Type{}, errExpectedField(p.tok.Kind, p.text, span)
	}

	if prim, ok := primitivesByName[name]; ok {
		if err := p.next(); err != nil {
			return Type{}, err
		}
		return p.maybeNullable(Type{Kind: TypePrimitive, Primitive: prim})
	}
	if unsupportedTypes[name] {
		return Type{}, errUnsupportedType(name, span)
	}

	if err := p.next(); err != nil {
		return Type{}, err
	}
	return p.maybeNullable(Type{Kind: TypeRef, Ref: name})
}

func (p *parser) maybeNullable(t Type) (Type, error) {
	if p.tok.Kind != T_QUESTION {
		return t, nil
	}
	if err := p.next(); err != nil {
		return Type{}, err
	}
	return nullable(t), nil
}

// parseSimpleType parses the unnamed types permitted as union members and
// array items: primitives, null, and named references.
func (p *parser) parseSimpleType() (Type, error) {
	if p.tok.Kind != T_IDENT {
		return Type{}, errExpectedSimpleType(p.tok.Kind, p.text, p.tokenSpan())
	}
	name := p.text
	span := p.tokenSpan()

	switch name {
	case "null":
		return Type{Kind: TypeNull}, p.next()
	case "map":
		return Type{}, errUnsupportedMap(span)
	case "fixed":
		return Type{}, errUnsupportedFixed(span)
	case "array", "union":
		return Type{}, errExpectedSimpleType(p.tok.Kind, name, span)
	}
	if prim, ok := primitivesByName[name]; ok {
		return Type{Kind: TypePrimitive, Primitive: prim}, p.next()
	}
	if unsupportedTypes[name] {
		return Type{}, errUnsupportedType(name, span)
	}
	return Type{Kind: TypeRef, Ref: name}, p.next()
}

func (p *parser) parseDefaultLiteral() (*Literal, error) {
	text := p.text
	span := p.tokenSpan()

	switch p.tok.Kind {
	case T_INT_LIT:
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, errIntLitOutOfRange(text, span)
		}
		return &Literal{Kind: LitInt, Raw: text, Int: value}, p.next()

	case T_FLOAT_LIT:
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errNumLitInvalid(span.start, []byte(text))
		}
		return &Literal{Kind: LitFloat, Raw: text, Float: value}, p.next()

	case T_TEXT_LIT:
		value, err := decodeTextLit(text, span)
		if err != nil {
			return nil, err
		}
		return &Literal{Kind: LitString, Str: value}, p.next()

	case T_IDENT:
		switch text {
		case "true":
			return &Literal{Kind: LitBool, Bool: true}, p.next()
		case "false":
			return &Literal{Kind: LitBool, Bool: false}, p.next()
		case "null":
			return &Literal{Kind: LitNull}, p.next()
		}
		return nil, errExpectedDefaultValue(p.tok.Kind, text, span)

	case T_OPEN_SQUARE, T_OPEN_CURL:
		return nil, errUnsupportedJSONDefault(span)

	default:
		return nil, errExpectedDefaultValue(p.tok.Kind, text, span)
	}
}

func (p *parser) parseEnum(doc, namespace string) (Decl, error) {
	start := p.start
	if err := p.next(); err != nil { // consume 'enum'
		return Decl{}, err
	}
	name, _, err := p.ident()
	if err != nil {
		return Decl{}, err
	}
	if err := p.sigil(T_OPEN_CURL, '{'); err != nil {
		return Decl{}, err
	}

	symbol, _, err := p.ident()
	if err != nil {
		return Decl{}, err
	}
	symbols := []string{symbol}
	for p.tok.Kind == T_COMMA {
		if err := p.next(); err != nil {
			return Decl{}, err
		}
		if symbol, _, err = p.ident(); err != nil {
			return Decl{}, err
		}
		symbols = append(symbols, symbol)
	}

	end := p.offset
	if err := p.sigil(T_CLOSE_CURL, '}'); err != nil {
		return Decl{}, err
	}

	// Optional trailing default symbol: 'enum Meal { A, B } = A;'
	def := ""
	if p.tok.Kind == T_EQ {
		if err := p.next(); err != nil {
			return Decl{}, err
		}
		if def, _, err = p.ident(); err != nil {
			return Decl{}, err
		}
		end = p.offset
		if err := p.sigil(T_SEMI, ';'); err != nil {
			return Decl{}, err
		}
	}

	return Decl{
		Kind:      DeclEnum,
		Name:      name,
		Namespace: namespace,
		Doc:       doc,
		Symbols:   symbols,
		Default:   def,
		span:      Span{start, end - start},
	}, nil
}

func decodeTextLit(raw string, span Span) (string, error) {
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for ii := 0; ii < len(body); ii++ {
		c := body[ii]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		ii++
		switch body[ii] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", errTextLitInvalid(raw, span)
		}
	}
	return b.String(), nil
}
