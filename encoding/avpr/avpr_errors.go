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

package avpr

import (
	"fmt"

	"github.com/kvedes/avro-idl/syntax"
)

// These errors indicate a protocol that was not produced by the compiler,
// such as one still containing import declarations.

func errUnencodableDecl(decl syntax.Decl) error {
	return fmt.Errorf("avpr: cannot encode %s declaration %q", decl.Kind, decl.Name)
}

func errUnencodableType(t syntax.Type) error {
	return fmt.Errorf("avpr: cannot encode type kind %d", t.Kind)
}

func errUnencodableLiteral(lit *syntax.Literal) error {
	return fmt.Errorf("avpr: cannot encode %s literal", lit.Kind)
}
