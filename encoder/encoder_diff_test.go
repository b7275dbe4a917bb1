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
	"encoding/hex"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// expectBytesNoDiff fails the test with a unified diff of the hex dumps of
// want and got, one byte per line, if they differ. A line-oriented diff
// pinpoints which bytes of a generated buffer moved far more readably than a
// single "% X" dump of the whole thing.
func expectBytesNoDiff(t *testing.T, want, got []byte) {
	t.Helper()
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        hexLines(want),
		B:        hexLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if diff != "" {
		t.Errorf("bytes mismatch:\n%s", diff)
	}
}

func hexLines(b []byte) []string {
	lines := make([]string, len(b))
	for i, x := range b {
		lines[i] = hex.EncodeToString([]byte{x}) + "\n"
	}
	return lines
}
