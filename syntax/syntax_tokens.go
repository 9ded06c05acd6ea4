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

const (
	maxSrcLen   = 0x7FFFFFFF // (2**31)-1
	maxTokenLen = int(math.MaxUint16)
)

type Token struct {
	Len  uint16
	Kind TokenKind
}

type TokenKind uint8

const (
	T_EOF TokenKind = iota

	T_SPACE
	T_NEWLINE
	T_DOC_COMMENT

	T_AT
	T_SEMI
	T_COLON
	T_COMMA
	T_EQ
	T_QUESTION
	T_LT
	T_GT

	T_OPEN_CURL
	T_CLOSE_CURL
	T_OPEN_PAREN
	T_CLOSE_PAREN
	T_OPEN_SQUARE
	T_CLOSE_SQUARE

	T_INT_LIT
	T_FLOAT_LIT
	T_TEXT_LIT

	T_IDENT
)

func (k TokenKind) String() string {
	switch k {
	case T_EOF:
		return "EOF"
	case T_SPACE:
		return "SPACE"
	case T_NEWLINE:
		return "NEWLINE"
	case T_DOC_COMMENT:
		return "DOC_COMMENT"
	case T_AT:
		return "AT"
	case T_SEMI:
		return "SEMI"
	case T_COLON:
		return "COLON"
	case T_COMMA:
		return "COMMA"
	case T_EQ:
		return "EQ"
	case T_QUESTION:
		return "QUESTION"
	case T_LT:
		return "LT"
	case T_GT:
		return "GT"
	case T_OPEN_CURL:
		return "OPEN_CURL"
	case T_CLOSE_CURL:
		return "CLOSE_CURL"
	case T_OPEN_PAREN:
		return "OPEN_PAREN"
	case T_CLOSE_PAREN:
		return "CLOSE_PAREN"
	case T_OPEN_SQUARE:
		return "OPEN_SQUARE"
	case T_CLOSE_SQUARE:
		return "CLOSE_SQUARE"
	case T_INT_LIT:
		return "INT_LIT"
	case T_FLOAT_LIT:
		return "FLOAT_LIT"
	case T_TEXT_LIT:
		return "TEXT_LIT"
	case T_IDENT:
		return "IDENT"
	default:
		return fmt.Sprintf("TokenKind(%d)", uint8(k))
	}
}

// Tokens is a lazy tokenizer over Avro IDL source text. Each call to Next
// yields the next token; the zero-length T_EOF token marks the end of input.
type Tokens struct {
	src    []byte
	offset uint32
}

func NewTokens(src []byte) (*Tokens, error) {
	if len(src) > maxSrcLen {
		return nil, errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return nil, errInvalidUtf8(src)
	}
	return &Tokens{
		src: src,
	}, nil
}

func (t *Tokens) Next(token *Token) error {
	if len(t.src) == 0 {
		*token = Token{
			Kind: T_EOF,
		}
		return nil
	}

	c := t.src[0]
	var kind TokenKind
	switch c {
	case '\t', ' ':
		return t.nextSpace(token)
	case '\n':
		kind = T_NEWLINE
		goto len1
	case '@':
		kind = T_AT
		goto len1
	case ';':
		kind = T_SEMI
		goto len1
	case ':':
		kind = T_COLON
		goto len1
	case ',':
		kind = T_COMMA
		goto len1
	case '=':
		kind = T_EQ
		goto len1
	case '?':
		kind = T_QUESTION
		goto len1
	case '<':
		kind = T_LT
		goto len1
	case '>':
		kind = T_GT
		goto len1
	case '{':
		kind = T_OPEN_CURL
		goto len1
	case '}':
		kind = T_CLOSE_CURL
		goto len1
	case '(':
		kind = T_OPEN_PAREN
		goto len1
	case ')':
		kind = T_CLOSE_PAREN
		goto len1
	case '[':
		kind = T_OPEN_SQUARE
		goto len1
	case ']':
		kind = T_CLOSE_SQUARE
		goto len1
	case '/':
		return t.nextDocComment(token)
	case '"':
		return t.nextTextLit(token)
	case '\r':
		if len(t.src) < 2 || t.src[1] != '\n' {
			return errForbiddenControlCharacter(t.offset, c)
		}
		*token = Token{
			Kind: T_NEWLINE,
			Len:  2,
		}
		t.offset += 2
		t.src = t.src[2:]
		return nil
	default:
		goto big
	}

len1:
	*token = Token{
		Kind: kind,
		Len:  1,
	}
	t.offset += 1
	t.src = t.src[1:]
	return nil

big:
	if (c >= '0' && c <= '9') || c == '-' {
		return t.nextNumLit(token)
	}

	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return t.nextIdent(token)
	}

	if c < 0x20 || c == 0x7F {
		return errForbiddenControlCharacter(t.offset, c)
	}
	r, _ := utf8.DecodeRune(t.src)
	return errUnexpectedCharacter(t.offset, r)
}

func (t *Tokens) nextSpace(token *Token) error {
	src := t.src
	for len(src) > 0 && (src[0] == ' ' || src[0] == '\t') {
		src = src[1:]
	}
	tokenLen, err := t.checkTokenLen(len(t.src) - len(src))
	if err != nil {
		return err
	}
	*token = Token{
		Kind: T_SPACE,
		Len:  tokenLen,
	}
	t.offset += uint32(tokenLen)
	t.src = src
	return nil
}

// nextDocComment scans a '/** ... */' block. Avro IDL line comments ('//')
// are not supported; they are rejected rather than skipped.
func (t *Tokens) nextDocComment(token *Token) error {
	if len(t.src) >= 2 && t.src[1] == '/' {
		return errLineComment(t.offset)
	}
	if len(t.src) < 3 || t.src[1] != '*' || t.src[2] != '*' {
		return errUnexpectedCharacter(t.offset, '/')
	}

	src := t.src[3:]
	end := -1
	for ii := 0; ii+1 < len(src); ii++ {
		if src[ii] == '*' && src[ii+1] == '/' {
			end = ii
			break
		}
	}
	if end < 0 {
		return errDocCommentUnterminated(t.offset, uint32(len(t.src)))
	}

	tokenLen, err := t.checkTokenLen(3 + end + 2)
	if err != nil {
		return err
	}
	*token = Token{
		Kind: T_DOC_COMMENT,
		Len:  tokenLen,
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

func (t *Tokens) nextTextLit(token *Token) error {
	escaped := false
	end := -1
	for ii, c := range t.src {
		if ii == 0 {
			continue
		}
		if escaped {
			escaped = false
			continue
		}
		if c == '"' {
			end = ii
			break
		}
		if (c < 0x20 || c == 0x7F) && c != '\t' && c != '\n' && c != '\r' {
			return errForbiddenControlCharacter(t.offset+uint32(ii), c)
		}
		escaped = c == '\\'
	}
	if end < 0 {
		return errTextLitUnterminated(t.offset, uint32(len(t.src)))
	}

	tokenLen, err := t.checkTokenLen(end + 1)
	if err != nil {
		return err
	}
	*token = Token{
		Kind: T_TEXT_LIT,
		Len:  tokenLen,
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

func (t *Tokens) nextNumLit(token *Token) error {
	src := t.src
	tokenLen := 0
	if src[0] == '-' {
		tokenLen++
		src = src[1:]
		if len(src) == 0 || src[0] < '0' || src[0] > '9' {
			return errNumLitInvalid(t.offset, t.src[:tokenLen])
		}
	}

	digits := func(src []byte) (n int, invalid bool) {
		for n < len(src) && src[n] >= '0' && src[n] <= '9' {
			n++
		}
		if n < len(src) {
			c := src[n]
			if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_' {
				invalid = true
			}
		}
		return n, invalid
	}

	n, invalid := digits(src)
	tokenLen += n
	src = src[n:]

	kind := T_INT_LIT
	if !invalid && len(src) >= 2 && src[0] == '.' && src[1] >= '0' && src[1] <= '9' {
		kind = T_FLOAT_LIT
		tokenLen++
		n, invalid = digits(src[1:])
		tokenLen += n
	}
	if invalid {
		return errNumLitInvalid(t.offset, t.src[:tokenLen])
	}

	tokenLen16, err := t.checkTokenLen(tokenLen)
	if err != nil {
		return err
	}
	*token = Token{
		Kind: kind,
		Len:  tokenLen16,
	}
	t.offset += uint32(tokenLen16)
	t.src = t.src[tokenLen16:]
	return nil
}

// nextIdent scans an identifier, optionally dotted ("com.example.Event").
// Leading, trailing, and doubled dots are invalid.
func (t *Tokens) nextIdent(token *Token) error {
	src := t.src
	dot := false
	invalid := false
	for ii, c := range src {
		if ii == 0 {
			continue
		}
		if c == '.' {
			if dot {
				invalid = true
			}
			dot = true
			continue
		}
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			dot = false
			continue
		}
		src = src[:ii]
		break
	}

	if dot || invalid {
		return errIdentInvalid(t.offset, src)
	}

	tokenLen, err := t.checkTokenLen(len(src))
	if err != nil {
		return err
	}
	*token = Token{
		Kind: T_IDENT,
		Len:  tokenLen,
	}
	t.offset += uint32(tokenLen)
	t.src = t.src[tokenLen:]
	return nil
}

func (t *Tokens) checkTokenLen(len int) (uint16, error) {
	if len > maxTokenLen {
		return 0, errTokenTooLong(t.offset, len)
	}
	return uint16(len), nil
}
