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

package value

import "testing"

func TestIntRoundTrip(t *testing.T) {
	v := Int(42, false)
	if got, ok := v.Uint64(); !ok || got != 42 {
		t.Fatalf("Uint64() = %d, %v; want 42, true", got, ok)
	}
	if v.Kind() != KindInt {
		t.Fatalf("Kind() = %v; want KindInt", v.Kind())
	}
	if v.Signed() {
		t.Fatalf("Signed() = true; want false")
	}
}

func TestInt64ReinterpretsNegativeBitPattern(t *testing.T) {
	v := Int(^uint64(0), true) // all-ones bit pattern, i.e. -1 as two's complement
	got, ok := v.Int64()
	if !ok || got != -1 {
		t.Fatalf("Int64() = %d, %v; want -1, true", got, ok)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	v := Bytes([]byte{1, 2, 3})
	got, ok := v.AsBytes()
	if !ok || len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("AsBytes() = %v, %v; want [1 2 3], true", got, ok)
	}
	if v.Kind() != KindBytes {
		t.Fatalf("Kind() = %v; want KindBytes", v.Kind())
	}
}

func TestAccessorsRejectWrongKind(t *testing.T) {
	i := Int(1, false)
	if _, ok := i.AsBytes(); ok {
		t.Fatalf("AsBytes() on an int Value returned ok=true")
	}
	b := Bytes([]byte("x"))
	if _, ok := b.Uint64(); ok {
		t.Fatalf("Uint64() on a bytes Value returned ok=true")
	}
	if _, ok := b.Int64(); ok {
		t.Fatalf("Int64() on a bytes Value returned ok=true")
	}
}

func TestFitsWidthUnsigned(t *testing.T) {
	cases := []struct {
		bits  uint64
		width int
		want  bool
	}{
		{0xFF, 1, true},
		{0x100, 1, false},
		{0xFFFF, 2, true},
		{0x10000, 2, false},
		{0xFFFFFFFF, 4, true},
		{0x100000000, 4, false},
		{^uint64(0), 8, true},
	}
	for _, c := range cases {
		v := Int(c.bits, false)
		if got := v.FitsWidth(c.width, false); got != c.want {
			t.Errorf("Int(%#x).FitsWidth(%d, false) = %v; want %v", c.bits, c.width, got, c.want)
		}
	}
}

func TestFitsWidthSigned(t *testing.T) {
	// -1 as a 64-bit two's-complement pattern fits any signed width.
	neg1 := Int(^uint64(0), true)
	if !neg1.FitsWidth(1, true) {
		t.Fatalf("FitsWidth(1, true) = false for -1; want true")
	}

	// 200 does not fit in a signed byte (max 127) but does fit unsigned.
	v := Int(200, false)
	if v.FitsWidth(1, true) {
		t.Fatalf("FitsWidth(1, true) = true for 200; want false")
	}
	if !v.FitsWidth(1, false) {
		t.Fatalf("FitsWidth(1, false) = false for 200; want true")
	}

	// 128 is one past the signed byte max (127).
	if Int(128, true).FitsWidth(1, true) {
		t.Fatalf("FitsWidth(1, true) = true for 128; want false")
	}
}

func TestFitsWidthBytesValueIsNeverTrue(t *testing.T) {
	v := Bytes([]byte{0})
	if v.FitsWidth(8, false) {
		t.Fatalf("FitsWidth on a bytes Value returned true")
	}
}

func TestKindString(t *testing.T) {
	if KindInt.String() != "int" {
		t.Fatalf("KindInt.String() = %q; want %q", KindInt.String(), "int")
	}
	if KindBytes.String() != "bytes" {
		t.Fatalf("KindBytes.String() = %q; want %q", KindBytes.String(), "bytes")
	}
}
