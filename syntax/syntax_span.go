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

import "fmt"

// Span identifies a byte range within a source file, used to seed
// diagnostics and to slice out excerpts for error display.
type Span struct {
	start uint32
	len   uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start: start, len: len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) Len() uint32 {
	return s.len
}

func (s Span) End() uint32 {
	return s.start + s.len
}

func (s Span) String() string {
	return fmt.Sprintf("%d+%d", s.start, s.len)
}

// Locate computes the 1-based line and column of the span's start offset
// within src, along with the text of that line (without its terminator),
// for rendering the "error[Exxxxx]: ... \n  --> line N" diagnostics format.
func (s Span) Locate(src []byte) (line, col int, excerpt string) {
	line = 1
	lineStart := 0
	for i := 0; i < int(s.start) && i < len(src); i++ {
		if src[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	col = int(s.start) - lineStart + 1

	lineEnd := lineStart
	for lineEnd < len(src) && src[lineEnd] != '\n' {
		lineEnd++
	}
	excerpt = string(src[lineStart:lineEnd])
	return line, col, excerpt
}
