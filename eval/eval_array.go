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
	"go.delbin.dev/delbin/syntax"
	"go.delbin.dev/delbin/value"
)

// evalArrayLit evaluates an explicit element list `[e1, e2, ...]` into a
// byte-vector Value, each element packed at ctx.DestElemWidth in the
// struct's endianness. The result's length tracks len(n.Elems) exactly;
// reconciling it against the destination array's length (zero-pad or
// truncate-with-warning, spec.md §3) is encoder.store's job, the same as
// it already is for @bytes.
func evalArrayLit(n *syntax.ArrayLit, ctx *Context) (value.Value, error) {
	if ctx.DestElemWidth == 0 {
		return value.Value{}, errComputationFailed(n.Span, "array literal used outside an array field")
	}
	buf := make([]byte, 0, len(n.Elems)*ctx.DestElemWidth)
	for _, elem := range n.Elems {
		b, err := evalArrayElem(elem, ctx)
		if err != nil {
			return value.Value{}, err
		}
		buf = append(buf, b...)
	}
	return value.Bytes(buf), nil
}

// evalArrayRepeat evaluates the repeat form `[v; k]`. A nil Count is the
// `_` sentinel, meaning "repeat for ctx.DestArrayLen elements" (spec.md
// §3).
func evalArrayRepeat(n *syntax.ArrayRepeat, ctx *Context) (value.Value, error) {
	if ctx.DestElemWidth == 0 {
		return value.Value{}, errComputationFailed(n.Span, "array repeat used outside an array field")
	}
	count := ctx.DestArrayLen
	if n.Count != nil {
		v, err := Eval(n.Count, ctx)
		if err != nil {
			return value.Value{}, err
		}
		bits, ok := v.Uint64()
		if !ok {
			return value.Value{}, errComputationFailed(n.Count.NodeSpan(), "array repeat count must be an integer")
		}
		count = int(bits)
	}
	elem, err := evalArrayElem(n.Value, ctx)
	if err != nil {
		return value.Value{}, err
	}
	buf := make([]byte, 0, count*ctx.DestElemWidth)
	for i := 0; i < count; i++ {
		buf = append(buf, elem...)
	}
	return value.Bytes(buf), nil
}

func evalArrayElem(expr syntax.Expr, ctx *Context) ([]byte, error) {
	v, err := Eval(expr, ctx)
	if err != nil {
		return nil, err
	}
	bits, ok := v.Uint64()
	if !ok {
		return nil, errComputationFailed(expr.NodeSpan(), "array element must be an integer")
	}
	out := make([]byte, ctx.DestElemWidth)
	putElemUint(out, bits, ctx.LittleEndian)
	return out, nil
}

func putElemUint(dst []byte, bits uint64, littleEndian bool) {
	n := len(dst)
	if littleEndian {
		for i := 0; i < n; i++ {
			dst[i] = byte(bits >> (8 * i))
		}
		return
	}
	for i := 0; i < n; i++ {
		dst[n-1-i] = byte(bits >> (8 * i))
	}
}
