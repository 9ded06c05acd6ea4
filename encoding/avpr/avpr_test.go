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

package avpr_test

import (
	"testing"

	hamba "github.com/hamba/avro/v2"

	"github.com/kvedes/avro-idl/compiler"
	"github.com/kvedes/avro-idl/encoding/avpr"
	"github.com/kvedes/avro-idl/internal/testutil"
	"github.com/kvedes/avro-idl/syntax"
)

func primType(p syntax.Primitive) syntax.Type {
	return syntax.Type{Kind: syntax.TypePrimitive, Primitive: p}
}

func TestEncodeEmptyProtocol(t *testing.T) {
	t.Parallel()

	got, err := avpr.Encode(&syntax.Protocol{Name: "Empty"})
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, `{
  "protocol": "Empty",
  "types": []
}
`, got)
}

func TestEncodeRecord(t *testing.T) {
	t.Parallel()

	protocol := &syntax.Protocol{
		Name:      "Events",
		Namespace: "org.example",
		Doc:       "Event tracking.",
		Decls: []syntax.Decl{{
			Kind:      syntax.DeclRecord,
			Name:      "Event",
			Namespace: "org.example",
			Doc:       "A tracked event.",
			Fields: []syntax.Field{{
				Name: "name",
				Type: primType(syntax.PrimString),
				Doc:  "Event name.",
			}, {
				Name:    "count",
				Type:    primType(syntax.PrimInt),
				Default: &syntax.Literal{Kind: syntax.LitInt, Raw: "0", Int: 0},
			}},
		}},
	}

	got, err := avpr.Encode(protocol)
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, `{
  "protocol": "Events",
  "namespace": "org.example",
  "doc": "Event tracking.",
  "types": [
    {
      "type": "record",
      "name": "Event",
      "namespace": "org.example",
      "doc": "A tracked event.",
      "fields": [
        {
          "name": "name",
          "type": "string",
          "doc": "Event name."
        },
        {
          "name": "count",
          "type": "int",
          "default": 0
        }
      ]
    }
  ]
}
`, got)
}

func TestEncodeEnum(t *testing.T) {
	t.Parallel()

	protocol := &syntax.Protocol{
		Name: "P",
		Decls: []syntax.Decl{{
			Kind:    syntax.DeclEnum,
			Name:    "Meal",
			Symbols: []string{"Breakfast", "Lunch", "Dinner"},
			Default: "Dinner",
		}},
	}

	got, err := avpr.Encode(protocol)
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, `{
  "protocol": "P",
  "types": [
    {
      "type": "enum",
      "name": "Meal",
      "symbols": [
        "Breakfast",
        "Lunch",
        "Dinner"
      ],
      "default": "Dinner"
    }
  ]
}
`, got)
}

func TestEncodeComplexTypes(t *testing.T) {
	t.Parallel()

	protocol := &syntax.Protocol{
		Name: "P",
		Decls: []syntax.Decl{{
			Kind: syntax.DeclRecord,
			Name: "R",
			Fields: []syntax.Field{{
				Name: "xs",
				Type: syntax.Type{
					Kind:  syntax.TypeArray,
					Items: &syntax.Type{Kind: syntax.TypePrimitive, Primitive: syntax.PrimInt},
				},
			}, {
				Name: "note",
				Type: syntax.Type{
					Kind: syntax.TypeUnion,
					Members: []syntax.Type{
						primType(syntax.PrimString),
						{Kind: syntax.TypeNull},
					},
				},
			}, {
				Name: "other",
				Type: syntax.Type{Kind: syntax.TypeRef, Ref: "Other"},
			}},
		}},
	}

	got, err := avpr.Encode(protocol)
	testutil.AssertNoError(t, err)
	testutil.ExpectNoDiff(t, `{
  "protocol": "P",
  "types": [
    {
      "type": "record",
      "name": "R",
      "fields": [
        {
          "name": "xs",
          "type": {
            "type": "array",
            "items": "int"
          }
        },
        {
          "name": "note",
          "type": [
            "string",
            "null"
          ]
        },
        {
          "name": "other",
          "type": "Other"
        }
      ]
    }
  ]
}
`, got)
}

func TestEncodeImportDeclRejected(t *testing.T) {
	t.Parallel()

	_, err := avpr.Encode(&syntax.Protocol{
		Name:  "P",
		Decls: []syntax.Decl{{Kind: syntax.DeclImport, ImportPath: "common.avdl"}},
	})
	testutil.AssertError(t, err)
}

func TestEncodeIdempotent(t *testing.T) {
	t.Parallel()

	protocol := &syntax.Protocol{
		Name: "P",
		Decls: []syntax.Decl{{
			Kind:    syntax.DeclEnum,
			Name:    "Meal",
			Symbols: []string{"Breakfast"},
		}},
	}
	first, err := avpr.Encode(protocol)
	testutil.AssertNoError(t, err)
	second, err := avpr.Encode(protocol)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, first, second)
}

// TestEncodeParseableByAvro checks the emitted JSON against an independent
// Avro implementation.
func TestEncodeParseableByAvro(t *testing.T) {
	t.Parallel()

	parsed, err := syntax.Parse([]byte(`
/** A small zoo of supported shapes. */
@namespace("org.example")
protocol Zoo {
	enum Meal {
		Breakfast,
		Lunch,
		Dinner
	} = Dinner;

	record Leaf {
		string id;
	}

	record Node {
		array<Leaf> leaves;
		union{null, string} note;
		Meal favorite;
		long weight = 0;
	}
}
`))
	testutil.AssertNoError(t, err)
	protocol, err := compiler.Compile(parsed)
	testutil.AssertNoError(t, err)
	encoded, err := avpr.Encode(protocol)
	testutil.AssertNoError(t, err)

	_, err = hamba.ParseProtocol(encoded)
	testutil.AssertNoError(t, err)

	// Namespace-free protocols must be just as parseable.
	parsed, err = syntax.Parse([]byte(`
protocol Event {
	record Person {
		string name;
		int age;
	}
}
`))
	testutil.AssertNoError(t, err)
	protocol, err = compiler.Compile(parsed)
	testutil.AssertNoError(t, err)
	encoded, err = avpr.Encode(protocol)
	testutil.AssertNoError(t, err)

	_, err = hamba.ParseProtocol(encoded)
	testutil.AssertNoError(t, err)
}
