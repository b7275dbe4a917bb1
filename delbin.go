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

// Package delbin compiles a Delbin schema plus an environment and a set of
// externally-supplied byte sections into bit-exact bytes. The schema grammar
// is implemented by package delbin/syntax; the pipeline is: parse
// (delbin/syntax), compile (delbin/compiler), encode (delbin/encoder).
package delbin

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go.delbin.dev/delbin/compiler"
	"go.delbin.dev/delbin/encoder"
	"go.delbin.dev/delbin/syntax"
	"go.delbin.dev/delbin/value"
)

// Value is the tagged-union runtime value used for environment entries and
// evaluation results.
type Value = value.Value

// Env maps `${NAME}` identifiers (and bare uppercase flag-like identifiers)
// to their supplied value.
type Env = map[string]Value

// Sections maps a section name to its byte content. The struct being
// compiled additionally registers itself as a virtual section once phase 1
// of the encoder completes; callers never supply that entry.
type Sections = map[string][]byte

// Warning is a non-fatal diagnostic returned alongside a successful result.
type Warning = encoder.Warning

// Result is the outcome of Generate or Merge.
type Result struct {
	Bytes    []byte
	Warnings []*Warning
}

// Generate compiles schema against env and sections, producing the struct's
// encoded bytes (spec.md §6.3 "generate").
func Generate(schema string, env Env, sections Sections) (*Result, error) {
	file, err := syntax.Parse([]byte(schema))
	if err != nil {
		return nil, err
	}

	plan, errs := compiler.Compile(file, env, sections)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	result, err := encoder.Encode(plan, env, sections)
	if err != nil {
		return nil, err
	}

	return &Result{Bytes: result.Bytes, Warnings: result.Warnings}, nil
}

// GenerateHex is Generate, with its output bytes rendered as uppercase hex
// (spec.md §6.3 "generate_hex").
func GenerateHex(schema string, env Env, sections Sections) (string, error) {
	result, err := Generate(schema, env, sections)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(result.Bytes)), nil
}

// Merge compiles schema, then concatenates the compiled struct bytes with
// imageBytes, which is also made available to the schema under the section
// name "image" (spec.md §6.3 "merge").
func Merge(schema string, env Env, imageBytes []byte) (*Result, error) {
	sections := Sections{"image": imageBytes}
	result, err := Generate(schema, env, sections)
	if err != nil {
		return nil, err
	}
	merged := make([]byte, 0, len(result.Bytes)+len(imageBytes))
	merged = append(merged, result.Bytes...)
	merged = append(merged, imageBytes...)
	return &Result{Bytes: merged, Warnings: result.Warnings}, nil
}

// ErrNotImplemented is returned by Parse and Validate, which are documented
// as interface shape only (spec.md §1, §9).
var ErrNotImplemented = errors.New("delbin: not implemented")

// NotImplementedError wraps ErrNotImplemented with the stable code of the
// specific unimplemented operation, so callers can match on errors.Is
// against ErrNotImplemented while still seeing a concrete diagnostic code.
type NotImplementedError struct {
	Code      string
	Operation string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("error[%s]: %s is not implemented", e.Code, e.Operation)
}

func (e *NotImplementedError) Unwrap() error {
	return ErrNotImplemented
}

// Parse decodes bytes against schema into a field-name-to-value map. Planned
// but unimplemented (spec.md §1, §6.3, §9): binary-to-value decoding is not
// part of this release.
func Parse(schema string, data []byte) (map[string]Value, error) {
	return nil, &NotImplementedError{Code: "E06001", Operation: "Parse"}
}

// Validate checks bytes against schema, reporting structural and value
// errors. Planned but unimplemented (spec.md §1, §6.3, §9).
func Validate(schema string, data []byte, sections Sections) (ok bool, errs []error, warnings []*Warning, err error) {
	return false, nil, nil, &NotImplementedError{Code: "E06002", Operation: "Validate"}
}
