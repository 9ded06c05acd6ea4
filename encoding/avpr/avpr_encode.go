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

// Package avpr encodes a compiled protocol as Avro Protocol JSON.
//
// The output is deterministic: two-space indentation, a fixed key order
// within each object, and a trailing newline. Encoding the same protocol
// twice yields byte-identical text.
package avpr

import (
	"encoding/json"

	"github.com/kvedes/avro-idl/syntax"
)

type protocolJSON struct {
	Protocol  string            `json:"protocol"`
	Namespace string            `json:"namespace,omitempty"`
	Doc       string            `json:"doc,omitempty"`
	Types     []json.RawMessage `json:"types"`
}

type recordJSON struct {
	Type      string            `json:"type"`
	Name      string            `json:"name"`
	Namespace string            `json:"namespace,omitempty"`
	Doc       string            `json:"doc,omitempty"`
	Fields    []json.RawMessage `json:"fields"`
}

type enumJSON struct {
	Type      string   `json:"type"`
	Name      string   `json:"name"`
	Namespace string   `json:"namespace,omitempty"`
	Doc       string   `json:"doc,omitempty"`
	Symbols   []string `json:"symbols"`
	Default   string   `json:"default,omitempty"`
}

type fieldJSON struct {
	Name    string          `json:"name"`
	Type    json.RawMessage `json:"type"`
	Default json.RawMessage `json:"default,omitempty"`
	Doc     string          `json:"doc,omitempty"`
}

type arrayJSON struct {
	Type  string          `json:"type"`
	Items json.RawMessage `json:"items"`
}

// Encode renders a compiled protocol as Avro Protocol JSON (.avpr).
func Encode(protocol *syntax.Protocol) (string, error) {
	types := make([]json.RawMessage, 0, len(protocol.Decls))
	for _, decl := range protocol.Decls {
		encoded, err := encodeDecl(decl)
		if err != nil {
			return "", err
		}
		types = append(types, encoded)
	}

	out, err := json.MarshalIndent(protocolJSON{
		Protocol:  protocol.Name,
		Namespace: protocol.Namespace,
		Doc:       protocol.Doc,
		Types:     types,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}

func encodeDecl(decl syntax.Decl) (json.RawMessage, error) {
	switch decl.Kind {
	case syntax.DeclRecord:
		fields := make([]json.RawMessage, 0, len(decl.Fields))
		for _, field := range decl.Fields {
			encoded, err := encodeField(field)
			if err != nil {
				return nil, err
			}
			fields = append(fields, encoded)
		}
		return json.Marshal(recordJSON{
			Type:      "record",
			Name:      decl.Name,
			Namespace: decl.Namespace,
			Doc:       decl.Doc,
			Fields:    fields,
		})

	case syntax.DeclEnum:
		return json.Marshal(enumJSON{
			Type:      "enum",
			Name:      decl.Name,
			Namespace: decl.Namespace,
			Doc:       decl.Doc,
			Symbols:   decl.Symbols,
			Default:   decl.Default,
		})
	}
	return nil, errUnencodableDecl(decl)
}

func encodeField(field syntax.Field) (json.RawMessage, error) {
	fieldType, err := encodeType(field.Type)
	if err != nil {
		return nil, err
	}
	var def json.RawMessage
	if field.Default != nil {
		if def, err = encodeLiteral(field.Default); err != nil {
			return nil, err
		}
	}
	return json.Marshal(fieldJSON{
		Name:    field.Name,
		Type:    fieldType,
		Default: def,
		Doc:     field.Doc,
	})
}

func encodeType(t syntax.Type) (json.RawMessage, error) {
	switch t.Kind {
	case syntax.TypeNull:
		return json.RawMessage(`"null"`), nil
	case syntax.TypePrimitive:
		return json.Marshal(t.Primitive.Name())
	case syntax.TypeRef:
		return json.Marshal(t.Ref)
	case syntax.TypeArray:
		items, err := encodeType(*t.Items)
		if err != nil {
			return nil, err
		}
		return json.Marshal(arrayJSON{Type: "array", Items: items})
	case syntax.TypeUnion:
		members := make([]json.RawMessage, 0, len(t.Members))
		for _, member := range t.Members {
			encoded, err := encodeType(member)
			if err != nil {
				return nil, err
			}
			members = append(members, encoded)
		}
		return json.Marshal(members)
	}
	return nil, errUnencodableType(t)
}

func encodeLiteral(lit *syntax.Literal) (json.RawMessage, error) {
	switch lit.Kind {
	case syntax.LitNull:
		return json.RawMessage("null"), nil
	case syntax.LitInt, syntax.LitFloat:
		// Numeric defaults round-trip as written in the source.
		return json.RawMessage(lit.Raw), nil
	case syntax.LitBool:
		return json.Marshal(lit.Bool)
	case syntax.LitString:
		return json.Marshal(lit.Str)
	}
	return nil, errUnencodableLiteral(lit)
}
