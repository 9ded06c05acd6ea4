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

package compiler

import (
	"fmt"

	"github.com/kvedes/avro-idl/syntax"
)

// ErrorKind classifies compilation errors: import resolution failures
// (41xx codes), unresolved type references (42xx), and default value
// mismatches (43xx).
type ErrorKind uint8

const (
	KindImport ErrorKind = iota
	KindUnresolvedRef
	KindDefaultValue
)

func (k ErrorKind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindUnresolvedRef:
		return "unresolved-ref"
	case KindDefaultValue:
		return "default-value"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

type Error struct {
	code    uint32
	kind    ErrorKind
	message string
	span    syntax.Span
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

func (err *Error) Span() syntax.Span {
	return err.span
}

func errImportCycle(path string, span syntax.Span) error {
	return &Error{
		code:    4100,
		kind:    KindImport,
		message: fmt.Sprintf("Import cycle detected at %q", path),
		span:    span,
	}
}

func errImportRead(path string, cause error, span syntax.Span) error {
	return &Error{
		code:    4101,
		kind:    KindImport,
		message: fmt.Sprintf("Failed to read import %q: %v", path, cause),
		span:    span,
	}
}

func errImportNoResolver(path string, span syntax.Span) error {
	return &Error{
		code:    4102,
		kind:    KindImport,
		message: fmt.Sprintf("Cannot resolve import %q: no resolver configured", path),
		span:    span,
	}
}

func errUnresolvedRef(name string, span syntax.Span) error {
	return &Error{
		code:    4200,
		kind:    KindUnresolvedRef,
		message: fmt.Sprintf("Reference to undefined type %q", name),
		span:    span,
	}
}

func errDefaultTypeMismatch(fieldName, typeName string, got syntax.LitKind, span syntax.Span) error {
	return &Error{
		code: 4300,
		kind: KindDefaultValue,
		message: fmt.Sprintf(
			"Default value for field %q must be a %s literal, got %s",
			fieldName, typeName, got,
		),
		span: span,
	}
}

func errDefaultIntOutOfRange(fieldName string, value int64, span syntax.Span) error {
	return &Error{
		code: 4301,
		kind: KindDefaultValue,
		message: fmt.Sprintf(
			"Default value %d for int field %q is out of 32-bit range",
			value, fieldName,
		),
		span: span,
	}
}

func errDefaultNullNotInUnion(fieldName string, span syntax.Span) error {
	return &Error{
		code: 4302,
		kind: KindDefaultValue,
		message: fmt.Sprintf(
			"Default value null for field %q requires a null union member",
			fieldName,
		),
		span: span,
	}
}

func errDefaultNotAllowed(fieldName, typeName string, span syntax.Span) error {
	return &Error{
		code: 4303,
		kind: KindDefaultValue,
		message: fmt.Sprintf(
			"Field %q of %s type does not accept a default value",
			fieldName, typeName,
		),
		span: span,
	}
}

func errDefaultEnumSymbol(enumName, symbol string, span syntax.Span) error {
	return &Error{
		code: 4304,
		kind: KindDefaultValue,
		message: fmt.Sprintf(
			"Default symbol %q is not a member of enum %q",
			symbol, enumName,
		),
		span: span,
	}
}
