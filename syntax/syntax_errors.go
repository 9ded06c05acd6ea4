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
	"math"
	"unicode/utf8"
)

// ErrorKind classifies syntax errors. Lexical errors (1xxx codes) come from
// the tokenizer, grammar errors (2xxx) from the parser, and unsupported
// construct errors (3xxx) from syntactically recognizable Avro IDL features
// that this compiler deliberately does not implement.
type ErrorKind uint8

const (
	KindLex ErrorKind = iota
	KindParse
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "lex"
	case KindParse:
		return "parse"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

type Error struct {
	code    uint32
	kind    ErrorKind
	message string
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Kind() ErrorKind {
	return err.kind
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() Span {
	return err.span
}

func errSourceTooLong(srcLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(srcLen) < math.MaxUint32 {
		lenUint32 = uint32(srcLen)
	}
	return &Error{
		code: 1000,
		kind: KindLex,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, lenUint32},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		kind:    KindLex,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		kind:    KindLex,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		kind:    KindLex,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errTokenTooLong(start uint32, tokenLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(tokenLen) < math.MaxUint32 {
		lenUint32 = uint32(tokenLen)
	}
	return &Error{
		code: 1004,
		kind: KindLex,
		message: fmt.Sprintf(
			"Token size (%d bytes) exceeds maximum (%d bytes)",
			tokenLen, maxTokenLen,
		),
		span: Span{start, lenUint32},
	}
}

func errNumLitInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1005,
		kind:    KindLex,
		message: fmt.Sprintf("Invalid numeric literal %q", token),
		span:    Span{start, uint32(len(token))},
	}
}

func errTextLitUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1006,
		kind:    KindLex,
		message: "Unterminated string literal",
		span:    Span{start, tokenLen},
	}
}

func errDocCommentUnterminated(start, tokenLen uint32) error {
	return &Error{
		code:    1007,
		kind:    KindLex,
		message: "Unterminated doc comment (expected '*/')",
		span:    Span{start, tokenLen},
	}
}

func errIdentInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1008,
		kind:    KindLex,
		message: fmt.Sprintf("Invalid identifier %q", token),
		span:    Span{start, uint32(len(token))},
	}
}

func errLineComment(start uint32) error {
	return &Error{
		code:    1009,
		kind:    KindLex,
		message: "Line comments ('//') are not recognized",
		span:    Span{start, 2},
	}
}

func errExpectedSigil(want byte, gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2000,
		kind:    KindParse,
		message: fmt.Sprintf("Expected '%c', got (%s %q)", want, gotKind, gotToken),
		span:    span,
	}
}

func errExpectedIdent(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2001,
		kind:    KindParse,
		message: fmt.Sprintf("Expected identifier, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedKeyword(keyword string, gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2002,
		kind:    KindParse,
		message: fmt.Sprintf("Expected keyword '%s', got (%s %q)", keyword, gotKind, gotToken),
		span:    span,
	}
}

func errExpectedDeclaration(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2003,
		kind:    KindParse,
		message: fmt.Sprintf("Expected record, enum, or import declaration, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedField(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2004,
		kind:    KindParse,
		message: fmt.Sprintf("Expected field declaration, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedDefaultValue(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2005,
		kind:    KindParse,
		message: fmt.Sprintf("Expected default value literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errTypeNotNullable(typeName string, span Span) error {
	return &Error{
		code:    2006,
		kind:    KindParse,
		message: fmt.Sprintf("Type '%s' does not accept the '?' nullable shorthand", typeName),
		span:    span,
	}
}

func errArrayFieldNotFirst(fieldName string, span Span) error {
	return &Error{
		code: 2007,
		kind: KindParse,
		message: fmt.Sprintf(
			"Array-typed field %q without a doc comment must be the first field of its record",
			fieldName,
		),
		span: span,
	}
}

func errExpectedSimpleType(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2008,
		kind:    KindParse,
		message: fmt.Sprintf("Expected primitive, null, or named type, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errExpectedTextLit(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2009,
		kind:    KindParse,
		message: fmt.Sprintf("Expected string literal, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errTextLitInvalid(token string, span Span) error {
	return &Error{
		code:    2010,
		kind:    KindParse,
		message: fmt.Sprintf("Invalid string literal %s", token),
		span:    span,
	}
}

func errIntLitOutOfRange(token string, span Span) error {
	return &Error{
		code:    2011,
		kind:    KindParse,
		message: fmt.Sprintf("Integer literal %s out of range", token),
		span:    span,
	}
}

func errExpectedEOF(gotKind TokenKind, gotToken string, span Span) error {
	return &Error{
		code:    2012,
		kind:    KindParse,
		message: fmt.Sprintf("Expected end of file after protocol, got (%s %q)", gotKind, gotToken),
		span:    span,
	}
}

func errUnsupportedMap(span Span) error {
	return &Error{
		code:    3000,
		kind:    KindUnsupported,
		message: "Map types are not supported",
		span:    span,
	}
}

func errUnsupportedFixed(span Span) error {
	return &Error{
		code:    3001,
		kind:    KindUnsupported,
		message: "Fixed-length byte types are not supported",
		span:    span,
	}
}

func errUnsupportedErrorDecl(span Span) error {
	return &Error{
		code:    3002,
		kind:    KindUnsupported,
		message: "User-defined error types are not supported",
		span:    span,
	}
}

func errUnsupportedMessage(span Span) error {
	return &Error{
		code:    3003,
		kind:    KindUnsupported,
		message: "RPC message declarations are not supported",
		span:    span,
	}
}

func errUnsupportedAnnotation(name string, span Span) error {
	return &Error{
		code:    3004,
		kind:    KindUnsupported,
		message: fmt.Sprintf("Annotation @%s is not supported (only @namespace)", name),
		span:    span,
	}
}

func errUnsupportedImport(format string, span Span) error {
	return &Error{
		code:    3005,
		kind:    KindUnsupported,
		message: fmt.Sprintf("Import format %q is not supported (only 'idl')", format),
		span:    span,
	}
}

func errUnsupportedJSONDefault(span Span) error {
	return &Error{
		code:    3006,
		kind:    KindUnsupported,
		message: "JSON-literal default values are not supported",
		span:    span,
	}
}

func errUnsupportedType(name string, span Span) error {
	return &Error{
		code:    3007,
		kind:    KindUnsupported,
		message: fmt.Sprintf("Type '%s' is not supported", name),
		span:    span,
	}
}
