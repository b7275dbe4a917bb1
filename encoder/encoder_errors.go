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

package encoder

import (
	"fmt"

	"go.delbin.dev/delbin/syntax"
)

// Error is a store-time diagnostic. Codes fall in the E03xxx range
// (spec.md §7, category 03 "type").
type Error struct {
	code    string
	message string
	span    syntax.Span
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	return fmt.Sprintf("error[%s]: %s", e.code, e.message)
}

func (e *Error) Code() string      { return e.code }
func (e *Error) Message() string   { return e.message }
func (e *Error) Span() syntax.Span { return e.span }

func errTypeMismatch(field string, span syntax.Span) error {
	return &Error{
		code:    "E03002",
		message: fmt.Sprintf("field %q: initializer value kind does not match its declared type", field),
		span:    span,
	}
}

func errIntegerOverflow(field string, bits uint64, widthBytes int, span syntax.Span) error {
	return &Error{
		code:    "E03003",
		message: fmt.Sprintf("field %q: value 0x%X does not fit in %d byte(s)", field, bits, widthBytes),
		span:    span,
	}
}
