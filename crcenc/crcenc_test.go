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

package crcenc

import "testing"

func TestChecksumCatalogue(t *testing.T) {
	const check = "123456789"

	cases := []struct {
		algo string
		want uint64
	}{
		{"crc32", 0xCBF43926},
		{"crc32-mpeg2", 0x0376E6E7},
		{"crc16-ccitt", 0x31C3},
		{"crc16-modbus", 0x4B37},
	}

	for _, c := range cases {
		params, ok := Lookup(c.algo)
		if !ok {
			t.Fatalf("%s: not found in catalogue", c.algo)
		}
		got := params.Checksum([]byte(check))
		if got != c.want {
			t.Errorf("%s(%q) = 0x%X, want 0x%X", c.algo, check, got, c.want)
		}
	}
}

func TestHashSHA256Empty(t *testing.T) {
	sum, err := Hash("sha256", nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xE3, 0xB0, 0xC4, 0x42}
	if len(sum) != 32 {
		t.Fatalf("len(sum) = %d, want 32", len(sum))
	}
	for i, b := range want {
		if sum[i] != b {
			t.Errorf("sum[%d] = 0x%02X, want 0x%02X", i, sum[i], b)
		}
	}
}

func TestHashSizes(t *testing.T) {
	cases := map[string]int{"sha256": 32, "sha1": 20, "md5": 16}
	for algo, want := range cases {
		got, ok := HashSize(algo)
		if !ok || got != want {
			t.Errorf("HashSize(%q) = %d, %v; want %d, true", algo, got, ok, want)
		}
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	if _, ok := Lookup("crc64"); ok {
		t.Error("Lookup(\"crc64\") should not be found")
	}
	if _, err := Hash("crc32", nil); err == nil {
		t.Error("Hash(\"crc32\", ...) should fail, not a hash algorithm")
	}
}
