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

// Package value holds the tagged-union runtime value produced by evaluating
// a Delbin initializer expression: either a 64-bit integer (signed or
// unsigned, tracked separately from its eventual storage width) or a byte
// sequence. Scalars and byte sequences are never collapsed into one
// representation, so that store-time width checks stay exact.
package value

import "fmt"

// Kind distinguishes the two shapes a Value can take.
type Kind uint8

const (
	KindInt Kind = iota
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBytes:
		return "bytes"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is the result of evaluating an expression. Integer values carry
// their bit pattern in a 64-bit unsigned lane (per spec.md §4.4, all
// arithmetic is performed mod 2**64) along with a signedness flag used only
// for formatting (String); FitsWidth range-checks against the destination's
// signedness, not this flag. Byte values carry a slice directly.
type Value struct {
	kind   Kind
	signed bool
	bits   uint64
	bytes  []byte
}

// Int returns an integer Value holding the given 64-bit pattern.
func Int(bits uint64, signed bool) Value {
	return Value{kind: KindInt, bits: bits, signed: signed}
}

// Bytes returns a byte-sequence Value. The slice is retained, not copied;
// callers must not mutate it afterward.
func Bytes(b []byte) Value {
	return Value{kind: KindBytes, bytes: b}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) Signed() bool {
	return v.signed
}

// Uint64 returns the value's bit pattern and true if this is an integer
// value.
func (v Value) Uint64() (uint64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.bits, true
}

// Int64 returns the value reinterpreted as a signed 64-bit integer and true
// if this is an integer value.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return int64(v.bits), true
}

// AsBytes returns the value's byte sequence and true if this is a byte-vector
// value.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return v.bytes, true
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		if v.signed {
			return fmt.Sprintf("%d", int64(v.bits))
		}
		return fmt.Sprintf("%d", v.bits)
	case KindBytes:
		return fmt.Sprintf("bytes(%d)", len(v.bytes))
	default:
		return "<invalid value>"
	}
}

// FitsWidth reports whether the integer value fits, without truncation,
// into an unsigned or signed field of the given byte width (1, 2, 4, or 8).
func (v Value) FitsWidth(widthBytes int, destSigned bool) bool {
	if v.kind != KindInt {
		return false
	}
	bits := widthBytes * 8
	if bits >= 64 {
		return true
	}
	if destSigned {
		signed := int64(v.bits)
		min := -(int64(1) << (bits - 1))
		max := (int64(1) << (bits - 1)) - 1
		return signed >= min && signed <= max
	}
	max := (uint64(1) << bits) - 1
	return v.bits <= max
}
