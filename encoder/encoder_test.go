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
	"bytes"
	"testing"

	"go.delbin.dev/delbin/compiler"
	"go.delbin.dev/delbin/crcenc"
	"go.delbin.dev/delbin/syntax"
	"go.delbin.dev/delbin/value"
)

func compile(t *testing.T, schema string, env map[string]value.Value, sections map[string][]byte) *compiler.Plan {
	t.Helper()
	file, err := syntax.Parse([]byte(schema))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	plan, errs := compiler.Compile(file, env, sections)
	if len(errs) != 0 {
		t.Fatalf("Compile errors: %v", errs)
	}
	return plan
}

func TestEncodeMinimalMagic(t *testing.T) {
	plan := compile(t, `struct Header { magic: u32 = 0xDEADBEEF; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0xEF, 0xBE, 0xAD, 0xDE}
	expectBytesNoDiff(t, want, result.Bytes)
}

func TestEncodeBigEndian(t *testing.T) {
	plan := compile(t, `@endian=big; struct Header { magic: u32 = 0xDEADBEEF; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	expectBytesNoDiff(t, want, result.Bytes)
}

func TestEncodeEnvExpression(t *testing.T) {
	plan := compile(t, `struct S { flags: u16 = ${BASE} | 0x8000; }`, map[string]value.Value{
		"BASE": value.Int(1, false),
	}, nil)
	result, err := Encode(plan, map[string]value.Value{"BASE": value.Int(1, false)}, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x01, 0x80}
	expectBytesNoDiff(t, want, result.Bytes)
}

func TestEncodeSizeofSection(t *testing.T) {
	sections := map[string][]byte{"firmware": make([]byte, 256)}
	plan := compile(t, `struct S { length: u32 = @sizeof(firmware); }`, nil, sections)
	result, err := Encode(plan, nil, sections)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x00, 0x01, 0x00, 0x00} // 256 little-endian
	expectBytesNoDiff(t, want, result.Bytes)
}

func TestEncodeSelfReferencingCRC(t *testing.T) {
	plan := compile(t, `struct S {
		a: u8 = 1;
		b: u8 = 2;
		csum: u32 = @crc32(@self[0..csum]);
	}`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	params, _ := crcenc.Lookup("crc32")
	want := params.Checksum([]byte{1, 2})
	got := uint32(result.Bytes[2]) | uint32(result.Bytes[3])<<8 | uint32(result.Bytes[4])<<16 | uint32(result.Bytes[5])<<24
	if uint64(got) != want {
		t.Fatalf("csum = %#x, want %#x", got, want)
	}
	if len(result.Bytes) != 6 {
		t.Fatalf("len(Bytes) = %d, want 6", len(result.Bytes))
	}
}

func TestEncodePaddingViaAlign(t *testing.T) {
	plan := compile(t, `struct S @align(4) {
		a: u8 = 1;
		b: u8 = 2;
		c: u8 = 3;
	}`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{1, 2, 3, 0}
	expectBytesNoDiff(t, want, result.Bytes)
}

func TestEncodeArrayValueTruncationWarns(t *testing.T) {
	plan := compile(t, `struct S { tag: [u8; 2] = @bytes("ABCD"); }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(result.Bytes, []byte("AB")) {
		t.Fatalf("bytes = %q, want %q", result.Bytes, "AB")
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code() != "W03001" {
		t.Fatalf("warnings = %v, want one W03001", result.Warnings)
	}
}

func TestEncodeArrayValueZeroPadsShortSource(t *testing.T) {
	plan := compile(t, `struct S { tag: [u8; 4] = @bytes("AB"); }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(result.Bytes, []byte{'A', 'B', 0, 0}) {
		t.Fatalf("bytes = % X", result.Bytes)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", result.Warnings)
	}
}

func TestEncodeArrayLitElementList(t *testing.T) {
	plan := compile(t, `struct S { bytes1: [u8; 4] = [0x01, 0x02, 0x03, 0x04]; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	expectBytesNoDiff(t, []byte{0x01, 0x02, 0x03, 0x04}, result.Bytes)
}

func TestEncodeArrayLitPartialFillZeroPads(t *testing.T) {
	plan := compile(t, `struct S { bytes2: [u8; 8] = [0x11, 0x22]; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	expectBytesNoDiff(t, []byte{0x11, 0x22, 0, 0, 0, 0, 0, 0}, result.Bytes)
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", result.Warnings)
	}
}

func TestEncodeArrayLitOverLengthWarns(t *testing.T) {
	plan := compile(t, `struct S { v: [u8; 2] = [1, 2, 3]; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	expectBytesNoDiff(t, []byte{1, 2}, result.Bytes)
	if len(result.Warnings) != 1 || result.Warnings[0].Code() != "W03001" {
		t.Fatalf("warnings = %v, want one W03001", result.Warnings)
	}
}

func TestEncodeArrayRepeatFullForm(t *testing.T) {
	plan := compile(t, `struct S { pattern1: [u8; 8] = [0xFF; 8]; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	expectBytesNoDiff(t, bytes.Repeat([]byte{0xFF}, 8), result.Bytes)
}

func TestEncodeArrayRepeatInferredForm(t *testing.T) {
	plan := compile(t, `struct S { pattern2: [u8; 8] = [0xAA; _]; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	expectBytesNoDiff(t, bytes.Repeat([]byte{0xAA}, 8), result.Bytes)
}

func TestEncodeArrayLitMultiByteElements(t *testing.T) {
	plan := compile(t, `struct S { u32_values: [u32; 2] = [0xDEADBEEF, 0xCAFEBABE]; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0xEF, 0xBE, 0xAD, 0xDE, 0xBE, 0xBA, 0xFE, 0xCA}
	expectBytesNoDiff(t, want, result.Bytes)
}

func TestEncodeArrayRepeatMultiByteInferredForm(t *testing.T) {
	plan := compile(t, `struct S { u16_array: [u16; 4] = [0x1234; _]; }`, nil, nil)
	result, err := Encode(plan, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x34, 0x12, 0x34, 0x12, 0x34, 0x12, 0x34, 0x12}
	expectBytesNoDiff(t, want, result.Bytes)
}

func TestEncodeIntegerOverflowIsE03003(t *testing.T) {
	plan := compile(t, `struct S { v: u8 = 256; }`, nil, nil)
	_, err := Encode(plan, nil, nil)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	coded, ok := err.(interface{ Code() string })
	if !ok || coded.Code() != "E03003" {
		t.Fatalf("err = %v, want E03003", err)
	}
}

func TestEncodeUnderscoreSeparatedLiteralOverflowIsE03003(t *testing.T) {
	plan := compile(t, `struct S { v: u32 = 0x1_0000_0000; }`, nil, nil)
	_, err := Encode(plan, nil, nil)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	coded, ok := err.(interface{ Code() string })
	if !ok || coded.Code() != "E03003" {
		t.Fatalf("err = %v, want E03003", err)
	}
}
