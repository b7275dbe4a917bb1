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

package eval

import (
	"fmt"

	"go.delbin.dev/delbin/syntax"
)

// Error is a diagnostic raised while evaluating an expression: either a
// semantic-category reference error (spec.md §7 category 02) caught lazily
// during evaluation, or an evaluation-category error proper (category 04).
type Error struct {
	code    string
	message string
	span    syntax.Span
	hint    string
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	return fmt.Sprintf("error[%s]: %s", e.code, e.message)
}

func (e *Error) Code() string    { return e.code }
func (e *Error) Message() string { return e.message }
func (e *Error) Span() syntax.Span { return e.span }
func (e *Error) Hint() string    { return e.hint }

func errUndefinedVariable(name string, span syntax.Span) error {
	return &Error{
		code:    "E02001",
		message: fmt.Sprintf("undefined variable %q", name),
		span:    span,
		hint:    "add this name to the environment map passed to the compile call",
	}
}

func errUndefinedSection(name string, span syntax.Span) error {
	return &Error{
		code:    "E02010",
		message: fmt.Sprintf("undefined section %q", name),
		span:    span,
		hint:    "sections must be supplied by the caller or be the struct's own name",
	}
}

func errUnknownBuiltin(name string, span syntax.Span) error {
	return &Error{
		code:    "E02004",
		message: fmt.Sprintf("unknown builtin '@%s'", name),
		span:    span,
	}
}

func errUnknownAlgorithm(name string, span syntax.Span) error {
	return &Error{
		code:    "E04011",
		message: fmt.Sprintf("unknown CRC or hash algorithm %q", name),
		span:    span,
	}
}

func errInvalidReference(name string, span syntax.Span) error {
	return &Error{
		code:    "E04002",
		message: fmt.Sprintf("reference to field %q whose offset is not yet known", name),
		span:    span,
		hint:    "forward references are only permitted to the field's own current offset",
	}
}

func errInvalidRange(start, end, structSize uint32, span syntax.Span) error {
	return &Error{
		code:    "E04003",
		message: fmt.Sprintf("invalid range [%d, %d) against a struct of size %d", start, end, structSize),
		span:    span,
	}
}

func errShiftOverflow(amount uint64, span syntax.Span) error {
	return &Error{
		code:    "E04001",
		message: fmt.Sprintf("shift amount %d is >= 64", amount),
		span:    span,
	}
}

func errComputationFailed(span syntax.Span, reason string) error {
	return &Error{
		code:    "E04004",
		message: reason,
		span:    span,
	}
}

func errNotImplemented(reason string, span syntax.Span) error {
	return &Error{
		code:    "E04010",
		message: reason + " (not implemented)",
		span:    span,
	}
}
