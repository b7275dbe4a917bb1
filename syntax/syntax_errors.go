// Copyright (c) 2024 John Millikin <john@john-millikin.com>
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

// Error is a diagnostic produced by the lexer or parser. Codes fall in the
// E01xxx range per spec.md §7 ("01 parse").
type Error struct {
	code    string
	message string
	span    Span
	hint    string
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	return fmt.Sprintf("error[%s]: %s", e.code, e.message)
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Message() string {
	return e.message
}

func (e *Error) Span() Span {
	return e.span
}

func (e *Error) Hint() string {
	return e.hint
}

func errSourceTooLong(srcLen int) error {
	return &Error{
		code:    "E01001",
		message: fmt.Sprintf("source file size (%d bytes) exceeds maximum (%d bytes)", srcLen, maxSrcLen),
		span:    Span{0, 0},
	}
}

func errInvalidUTF8(src []byte) error {
	off := 0
	for off < len(src) {
		if src[off] >= 0x80 {
			break
		}
		off++
	}
	return &Error{
		code:    "E01002",
		message: "source file contains invalid UTF-8",
		span:    Span{uint32(off), 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune, size uint32) error {
	return &Error{
		code:    "E01003",
		message: fmt.Sprintf("unexpected character %q (U+%04X)", r, r),
		span:    Span{start, size},
		hint:    "remove or escape this character",
	}
}

func errUnexpectedToken(start uint32, desc string) error {
	return &Error{
		code:    "E01004",
		message: fmt.Sprintf("unexpected token %s", desc),
		span:    Span{start, 1},
	}
}

func errInvalidNumber(start uint32, text string) error {
	return &Error{
		code:    "E01005",
		message: fmt.Sprintf("invalid number literal %q", text),
		span:    Span{start, uint32(len(text))},
		hint:    "numbers are decimal, 0x hexadecimal, or 0b binary",
	}
}

func errUnclosedString(start uint32, n uint32) error {
	return &Error{
		code:    "E01006",
		message: "unterminated string literal",
		span:    Span{start, n},
	}
}

func errInvalidString(start uint32, text string, reason string) error {
	return &Error{
		code:    "E01007",
		message: fmt.Sprintf("invalid string literal %q: %s", text, reason),
		span:    Span{start, uint32(len(text))},
	}
}

func errUnexpectedEOF(offset uint32, want string) error {
	return &Error{
		code:    "E01008",
		message: fmt.Sprintf("unexpected end of file, expected %s", want),
		span:    Span{offset, 0},
	}
}

func errExpected(want string, gotKind TokenKind, gotText string, span Span) error {
	return &Error{
		code:    "E01009",
		message: fmt.Sprintf("expected %s, got %s %q", want, gotKind, gotText),
		span:    span,
	}
}

func errInvalidSyntax(message string, span Span) error {
	return &Error{
		code:    "E01010",
		message: message,
		span:    span,
	}
}

func errUnclosedBracket(open string, span Span) error {
	return &Error{
		code:    "E01011",
		message: fmt.Sprintf("unclosed %q", open),
		span:    span,
	}
}
