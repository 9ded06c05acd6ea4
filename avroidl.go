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

// Package avroidl compiles Avro IDL (.avdl) protocol definitions into Avro
// Protocol JSON (.avpr).
//
// The supported language subset covers protocols containing record, enum,
// and import declarations. See the package documentation of syntax for the
// grammar and of compiler for import and namespace semantics.
package avroidl

import (
	"os"

	"github.com/kvedes/avro-idl/compiler"
	"github.com/kvedes/avro-idl/encoding/avpr"
	"github.com/kvedes/avro-idl/syntax"
)

// Compile parses, compiles, and encodes a single protocol held in memory.
func Compile(src []byte, opts ...compiler.CompileOption) (string, error) {
	parsed, err := syntax.Parse(src)
	if err != nil {
		return "", err
	}
	protocol, err := compiler.Compile(parsed, opts...)
	if err != nil {
		return "", err
	}
	return avpr.Encode(protocol)
}

// CompileFile compiles a protocol file from the local filesystem. Imports
// resolve relative to the file's directory.
func CompileFile(sourcePath string) (string, error) {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", err
	}
	return Compile(src,
		compiler.WithResolver(compiler.ResolverFunc(os.ReadFile)),
		compiler.WithSourcePath(sourcePath),
	)
}
