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

// Package encoder implements the two-phase evaluator/encoder (spec.md §4.5):
// phase 1 places every direct field into a zeroed output buffer, leaving
// self-referencing CRC/hash fields as placeholders; phase 2 backfills those
// placeholders by re-evaluating their initializers against the
// now-materialized buffer.
package encoder

import (
	"go.delbin.dev/delbin/compiler"
	"go.delbin.dev/delbin/eval"
	"go.delbin.dev/delbin/value"
)

// Result is the outcome of a successful encode.
type Result struct {
	Bytes    []byte
	Warnings []*Warning
}

// Encode runs the two-phase driver over a compiled Plan.
func Encode(plan *compiler.Plan, env map[string]value.Value, sections map[string][]byte) (*Result, error) {
	e := &encoder{
		plan:     plan,
		buf:      make([]byte, plan.Size),
		fieldMap: make(map[string]eval.FieldInfo, len(plan.Fields)),
	}
	for _, f := range plan.Fields {
		e.fieldMap[f.Name] = eval.FieldInfo{Offset: f.Offset, Size: f.Size}
	}

	ctx := func(f *compiler.Field) *eval.Context {
		c := &eval.Context{
			Env:          env,
			Sections:     sections,
			SelfName:     plan.StructName,
			LittleEndian: plan.LittleEndian,
			Fields:       e.fieldMap,
			StructSize:   plan.Size,
			Current:      f.Name,
			Cursor:       f.Offset,
			Buffer:       e.buf,
		}
		if f.Type.IsArray {
			c.DestElemWidth = f.Type.Elem.Width()
			c.DestArrayLen = int(f.Size) / c.DestElemWidth
		}
		return c
	}

	var phase2 []*compiler.Field
	for _, f := range plan.Fields {
		if f.SelfRef {
			phase2 = append(phase2, f)
			continue
		}
		if err := e.storeField(f, ctx(f)); err != nil {
			return nil, err
		}
	}

	for _, f := range phase2 {
		if err := e.storeField(f, ctx(f)); err != nil {
			return nil, err
		}
	}

	return &Result{Bytes: e.buf, Warnings: e.warnings}, nil
}

type encoder struct {
	plan     *compiler.Plan
	buf      []byte
	fieldMap map[string]eval.FieldInfo
	warnings []*Warning
}

func (e *encoder) warn(w *Warning) {
	e.warnings = append(e.warnings, w)
}

func (e *encoder) storeField(f *compiler.Field, ctx *eval.Context) error {
	if f.Init == nil {
		return nil // zero-initialized; buffer already zero
	}
	v, err := eval.Eval(f.Init, ctx)
	if err != nil {
		return err
	}
	return e.store(f, v)
}
