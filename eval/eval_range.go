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

import "go.delbin.dev/delbin/syntax"

// resolveRange implements spec.md §4.4 "Range resolution": a bare section
// name, `@self`, or a `@self[...]` form, producing a contiguous byte slice.
func resolveRange(arg syntax.Node, ctx *Context) ([]byte, error) {
	switch a := arg.(type) {
	case *syntax.Ident:
		if a.Name == ctx.SelfName || a.Name == "self" {
			return selfBytes(ctx), nil
		}
		sec, ok := ctx.Sections[a.Name]
		if !ok {
			return nil, errUndefinedSection(a.Name, a.Span)
		}
		return sec, nil
	case *syntax.SelfRange:
		return resolveSelfRange(a, ctx)
	default:
		return nil, errComputationFailed(arg.NodeSpan(), "expected a range: a section name or @self[...]")
	}
}

func selfBytes(ctx *Context) []byte {
	if ctx.Buffer == nil {
		return nil
	}
	n := int(ctx.StructSize)
	if n > len(ctx.Buffer) {
		n = len(ctx.Buffer)
	}
	return ctx.Buffer[:n]
}

func resolveSelfRange(r *syntax.SelfRange, ctx *Context) ([]byte, error) {
	if !r.HasBrackets {
		return selfBytes(ctx), nil
	}

	if r.Start != nil && r.End == nil {
		return nil, errNotImplemented("@self[field..] is reserved", r.Span)
	}

	var start, end uint32
	var err error
	if r.Start == nil {
		start = 0
	} else {
		start, err = resolveBound(r.Start, ctx)
		if err != nil {
			return nil, err
		}
	}
	if r.End == nil {
		end = ctx.StructSize
	} else {
		end, err = resolveBound(r.End, ctx)
		if err != nil {
			return nil, err
		}
	}

	if start > end || end > ctx.StructSize {
		return nil, errInvalidRange(start, end, ctx.StructSize, r.Span)
	}

	buf := selfBytes(ctx)
	if int(end) > len(buf) {
		return nil, errInvalidRange(start, end, ctx.StructSize, r.Span)
	}
	return buf[start:end], nil
}

// resolveBound resolves one `@self[...]` bound: either a literal integer, or
// a field name naming that field's assigned offset.
func resolveBound(bound syntax.Expr, ctx *Context) (uint32, error) {
	switch b := bound.(type) {
	case *syntax.IntLit:
		return uint32(b.Value), nil
	case *syntax.Ident:
		if b.Name == ctx.Current {
			return ctx.Cursor, nil
		}
		info, ok := ctx.Fields[b.Name]
		if !ok {
			return 0, errInvalidReference(b.Name, b.Span)
		}
		return info.Offset, nil
	default:
		return 0, errComputationFailed(bound.NodeSpan(), "range bound must be a number or field name")
	}
}
