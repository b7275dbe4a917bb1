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

package main

import (
	"fmt"
	"os"

	"github.com/eaburns/pretty"
	"gopkg.in/yaml.v3"

	"go.delbin.dev/delbin/syntax"
	"go.delbin.dev/delbin/value"
)

// loadEnvFile reads a YAML document mapping environment names to either an
// integer or a string, and converts it into the value.Value map Compile/
// Generate expect.
func loadEnvFile(path string) (map[string]value.Value, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing env file %s: %w", path, err)
	}
	env := make(map[string]value.Value, len(doc))
	for name, v := range doc {
		switch x := v.(type) {
		case int:
			env[name] = value.Int(uint64(int64(x)), x < 0)
		case int64:
			env[name] = value.Int(uint64(x), x < 0)
		case uint64:
			env[name] = value.Int(x, false)
		case string:
			env[name] = value.Bytes([]byte(x))
		case bool:
			if x {
				env[name] = value.Int(1, false)
			} else {
				env[name] = value.Int(0, false)
			}
		default:
			return nil, fmt.Errorf("env file %s: entry %q has unsupported type %T", path, name, v)
		}
	}
	return env, nil
}

// loadSectionsManifest reads a YAML document mapping section names to
// on-disk file paths, and returns the resulting section-name-to-bytes map.
func loadSectionsManifest(path string) (map[string][]byte, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing sections manifest %s: %w", path, err)
	}
	sections := make(map[string][]byte, len(doc))
	for name, filePath := range doc {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", name, err)
		}
		sections[name] = data
	}
	return sections, nil
}

// dumpAST pretty-prints a parsed schema's syntax tree to stderr, for the
// generate command's --dump-ast debugging flag.
func dumpAST(file *syntax.File) {
	pretty.Indent = "  "
	fmt.Fprintln(os.Stderr, pretty.String(file))
}
