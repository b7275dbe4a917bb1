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
	"go.delbin.dev/delbin/eval"
)

// layout implements spec.md §4.3: walk fields in declaration order,
// assigning each an offset and size, folding array-length expressions
// against only already-known offsets/sizes.
func (c *compiler) layout() (*Plan, error) {
	st := c.file.Struct

	plan := &Plan{
		StructName:   st.Name.Name,
		LittleEndian: c.file.Endian == nil || c.file.Endian.Value == "little",
		Packed:       st.Attrs.Packed,
		Align:        st.Attrs.Align,
	}

	ctx := &eval.Context{
		Env:      c.env,
		Sections: c.sections,
		SelfName: st.Name.Name,
		Fields:   make(map[string]eval.FieldInfo, len(st.Fields)),
	}

	var cursor uint32
	for _, f := range st.Fields {
		ctx.Current = f.Name.Name
		ctx.Cursor = cursor

		var size uint32
		if f.Type.IsArray {
			length, err := eval.Eval(f.Type.ArrayLen, ctx)
			if err != nil {
				return nil, err
			}
			n, ok := length.Uint64()
			if !ok {
				return nil, errInvalidArraySize(f.Type.ArrayLen.NodeSpan())
			}
			if int64(n) < 0 {
				return nil, errInvalidArraySize(f.Type.ArrayLen.NodeSpan())
			}
			size = uint32(n) * uint32(f.Type.Elem.Width())
		} else {
			size = uint32(f.Type.Elem.Width())
		}

		compiled := &Field{
			Name:    f.Name.Name,
			Type:    f.Type,
			Init:    f.Init,
			Offset:  cursor,
			Size:    size,
			SelfRef: f.Init != nil && isSelfRef(f.Init, st.Name.Name),
		}
		plan.Fields = append(plan.Fields, compiled)
		ctx.Fields[f.Name.Name] = eval.FieldInfo{Offset: cursor, Size: size}
		cursor += size
	}

	if plan.Align > 0 {
		rem := cursor % uint32(plan.Align)
		if rem != 0 {
			cursor += uint32(plan.Align) - rem
		}
	}

	plan.Size = cursor
	return plan, nil
}
