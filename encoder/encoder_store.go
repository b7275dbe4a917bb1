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
	"go.delbin.dev/delbin/compiler"
	"go.delbin.dev/delbin/value"
)

// store writes v into the output buffer at f's assigned offset, per
// spec.md §4.5 phase 1/phase 2 storage rules.
func (e *encoder) store(f *compiler.Field, v value.Value) error {
	dst := e.buf[f.Offset : f.Offset+f.Size]

	if !f.Type.IsArray {
		bits, ok := v.Uint64()
		if !ok {
			return errTypeMismatch(f.Name, f.Init.NodeSpan())
		}
		if !v.FitsWidth(int(f.Size), f.Type.Elem.Signed()) {
			return errIntegerOverflow(f.Name, bits, int(f.Size), f.Init.NodeSpan())
		}
		putUint(dst, bits, e.plan.LittleEndian)
		return nil
	}

	b, ok := v.AsBytes()
	if !ok {
		return errTypeMismatch(f.Name, f.Init.NodeSpan())
	}
	n := copy(dst, b)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	if len(b) > len(dst) {
		e.warn(warnValueTruncated(f.Name, len(b), len(dst), f.Init.NodeSpan()))
	}
	return nil
}

func putUint(dst []byte, bits uint64, littleEndian bool) {
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
