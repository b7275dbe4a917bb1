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
	"testing"

	"go.delbin.dev/delbin/crcenc"
	"go.delbin.dev/delbin/syntax"
	"go.delbin.dev/delbin/value"
)

func mustParseExpr(t *testing.T, schema string) syntax.Expr {
	t.Helper()
	file, err := syntax.Parse([]byte(schema))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return file.Struct.Fields[0].Init
}

func TestEvalArithmeticAndBitwise(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = (1 << 4) | 3 & ~1; }`)
	v, err := Eval(expr, &Context{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	bits, _ := v.Uint64()
	// 3 & ~1 == 2; (1<<4) | 2 == 18
	if bits != 18 {
		t.Fatalf("result = %d, want 18", bits)
	}
}

func TestEvalShiftOverflow(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = 1 << 64; }`)
	_, err := Eval(expr, &Context{})
	if err == nil {
		t.Fatal("expected shift-overflow error")
	}
}

func TestEvalEnvRef(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = ${LIMIT}; }`)
	ctx := &Context{Env: map[string]value.Value{"LIMIT": value.Int(42, false)}}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	bits, _ := v.Uint64()
	if bits != 42 {
		t.Fatalf("result = %d, want 42", bits)
	}
}

func TestEvalEnvRefUndefined(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = ${MISSING}; }`)
	_, err := Eval(expr, &Context{Env: map[string]value.Value{}})
	if err == nil {
		t.Fatal("expected undefined-variable error")
	}
}

func TestEvalBareFlagIdentResolvesAsEnv(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = FLAG_SIGNED; }`)
	ctx := &Context{Env: map[string]value.Value{"FLAG_SIGNED": value.Int(1, false)}}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	bits, _ := v.Uint64()
	if bits != 1 {
		t.Fatalf("result = %d, want 1", bits)
	}
}

func TestEvalOffsetofField(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = @offsetof(prior); }`)
	ctx := &Context{Fields: map[string]FieldInfo{"prior": {Offset: 8, Size: 4}}}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	bits, _ := v.Uint64()
	if bits != 8 {
		t.Fatalf("result = %d, want 8", bits)
	}
}

func TestEvalOffsetofUndefinedField(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = @offsetof(nope); }`)
	_, err := Eval(expr, &Context{Fields: map[string]FieldInfo{}})
	if err == nil {
		t.Fatal("expected invalid-reference error")
	}
}

func TestEvalSizeofSection(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = @sizeof(firmware); }`)
	ctx := &Context{Sections: map[string][]byte{"firmware": make([]byte, 128)}}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	bits, _ := v.Uint64()
	if bits != 128 {
		t.Fatalf("result = %d, want 128", bits)
	}
}

func TestEvalSizeofUndefinedSection(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = @sizeof(nope); }`)
	_, err := Eval(expr, &Context{Sections: map[string][]byte{}})
	if err == nil {
		t.Fatal("expected undefined-section error")
	}
}

func TestEvalBytesLiteral(t *testing.T) {
	expr := mustParseExpr(t, `struct S { magic: [u8; 4] = @bytes("ABCD"); }`)
	v, err := Eval(expr, &Context{})
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	b, ok := v.AsBytes()
	if !ok || string(b) != "ABCD" {
		t.Fatalf("result = %v", b)
	}
}

func TestEvalArrayLitPacksElementsAtWidth(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: [u32; 2] = [0xDEADBEEF, 0xCAFEBABE]; }`)
	ctx := &Context{LittleEndian: true, DestElemWidth: 4, DestArrayLen: 2}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	b, ok := v.AsBytes()
	want := []byte{0xEF, 0xBE, 0xAD, 0xDE, 0xBE, 0xBA, 0xFE, 0xCA}
	if !ok || string(b) != string(want) {
		t.Fatalf("result = % X, want % X", b, want)
	}
}

func TestEvalArrayRepeatExplicitCount(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: [u8; 8] = [0xFF; 8]; }`)
	ctx := &Context{LittleEndian: true, DestElemWidth: 1, DestArrayLen: 8}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	b, _ := v.AsBytes()
	if len(b) != 8 {
		t.Fatalf("len(result) = %d, want 8", len(b))
	}
	for _, x := range b {
		if x != 0xFF {
			t.Fatalf("result = % X, want all 0xFF", b)
		}
	}
}

func TestEvalArrayRepeatInferredCountExpandsToDestLen(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: [u16; 4] = [0x1234; _]; }`)
	ctx := &Context{LittleEndian: true, DestElemWidth: 2, DestArrayLen: 4}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	b, _ := v.AsBytes()
	want := []byte{0x34, 0x12, 0x34, 0x12, 0x34, 0x12, 0x34, 0x12}
	if string(b) != string(want) {
		t.Fatalf("result = % X, want % X", b, want)
	}
}

func TestEvalArrayLitOutsideArrayFieldIsComputationFailed(t *testing.T) {
	expr := mustParseExpr(t, `struct S { v: u32 = [1, 2]; }`)
	_, err := Eval(expr, &Context{})
	if err == nil {
		t.Fatal("expected computation-failed error for array literal on a scalar field")
	}
}

func TestEvalCRC32OfSection(t *testing.T) {
	expr := mustParseExpr(t, `struct S { csum: u32 = @crc32(firmware); }`)
	ctx := &Context{Sections: map[string][]byte{"firmware": []byte("123456789")}}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	bits, _ := v.Uint64()
	if bits != 0xCBF43926 {
		t.Fatalf("crc32 = %#x, want 0xCBF43926", bits)
	}
}

func TestEvalNamedCRCUnknownAlgorithm(t *testing.T) {
	expr := mustParseExpr(t, `struct S { csum: u32 = @crc("bogus", firmware); }`)
	ctx := &Context{Sections: map[string][]byte{"firmware": []byte("x")}}
	_, err := Eval(expr, ctx)
	if err == nil {
		t.Fatal("expected unknown-algorithm error")
	}
}

func TestEvalSelfRangeBounded(t *testing.T) {
	expr := mustParseExpr(t, `struct S { csum: u32 = @crc32(@self[0..4]); }`)
	ctx := &Context{
		StructSize: 8,
		Buffer:     []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}
	v, err := Eval(expr, ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	params, _ := crcenc.Lookup("crc32")
	want := params.Checksum([]byte{1, 2, 3, 4})
	bits, _ := v.Uint64()
	if bits != want {
		t.Fatalf("crc = %#x, want %#x", bits, want)
	}
}

func TestEvalSelfRangeFieldDotDotOpenEndNotImplemented(t *testing.T) {
	expr := mustParseExpr(t, `struct S { csum: u32 = @crc32(@self[hdr..]); }`)
	ctx := &Context{StructSize: 8, Buffer: make([]byte, 8), Fields: map[string]FieldInfo{"hdr": {Offset: 0, Size: 4}}}
	_, err := Eval(expr, ctx)
	if err == nil {
		t.Fatal("expected not-implemented error for @self[field..] open-ended form")
	}
}
