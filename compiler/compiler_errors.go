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

package compiler

import (
	"fmt"

	"go.delbin.dev/delbin/syntax"
)

// Error is a diagnostic from the semantic analyzer or layout planner.
// Codes fall in the E02xxx range (spec.md §7, category 02 "semantic").
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

func (e *Error) Code() string      { return e.code }
func (e *Error) Message() string   { return e.message }
func (e *Error) Span() syntax.Span { return e.span }
func (e *Error) Hint() string      { return e.hint }

func errUndefinedVariable(name string, span syntax.Span) error {
	return &Error{
		code:    "E02001",
		message: fmt.Sprintf("undefined variable %q", name),
		span:    span,
		hint:    "add this name to the environment map passed to the compile call",
	}
}

func errUnknownBuiltin(name string, span syntax.Span) error {
	return &Error{
		code:    "E02004",
		message: fmt.Sprintf("unknown builtin '@%s'", name),
		span:    span,
	}
}

func errDuplicateField(name string, span syntax.Span) error {
	return &Error{
		code:    "E02005",
		message: fmt.Sprintf("duplicate field name %q", name),
		span:    span,
		hint:    "field names must be unique within a struct",
	}
}

func errReservedWord(name string, span syntax.Span) error {
	return &Error{
		code:    "E02006",
		message: fmt.Sprintf("%q is a reserved word and cannot be used as an identifier", name),
		span:    span,
	}
}

func errCircularDependency(name string, span syntax.Span) error {
	return &Error{
		code:    "E02008",
		message: fmt.Sprintf("reference to field %q would require its offset before it is computed", name),
		span:    span,
		hint:    "a field may only reference fields declared earlier in the struct",
	}
}

func errUndefinedField(name string, span syntax.Span) error {
	return &Error{
		code:    "E02009",
		message: fmt.Sprintf("undefined field %q", name),
		span:    span,
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

func errInvalidArraySize(span syntax.Span) error {
	return &Error{
		code:    "E02011",
		message: "array length must fold to a non-negative integer",
		span:    span,
	}
}
