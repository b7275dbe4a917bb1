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

// Warning is a non-fatal diagnostic collected during encoding. Codes fall
// in the W03xxx range, mirroring the error categories of spec.md §7.
type Warning struct {
	code    string
	message string
	span    syntax.Span
}

func (w *Warning) Code() string      { return w.code }
func (w *Warning) Message() string   { return w.message }
func (w *Warning) Span() syntax.Span { return w.span }

func (w *Warning) String() string {
	return fmt.Sprintf("warning[%s]: %s", w.code, w.message)
}

func warnValueTruncated(field string, sourceLen, destLen int, span syntax.Span) *Warning {
	return &Warning{
		code:    "W03001",
		message: fmt.Sprintf("field %q: value of %d byte(s) truncated to fit %d byte(s)", field, sourceLen, destLen),
		span:    span,
	}
}
