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
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"go.delbin.dev/delbin"
	"go.delbin.dev/delbin/syntax"
)

type cmdGenerate struct {
	envPath      string
	sectionsPath string
	outPath      string
	dumpAST      bool
}

func (*cmdGenerate) help() *commandHelp {
	return &commandHelp{
		usage:   "generate SCHEMA_FILE",
		summary: "compile a schema to its encoded bytes",
	}
}

func (cmd *cmdGenerate) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.envPath, "env", "e", "", "path to a YAML environment file")
	flags.StringVarP(&cmd.sectionsPath, "sections", "s", "", "path to a YAML sections manifest")
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output path (default: stdout)")
	flags.BoolVar(&cmd.dumpAST, "dump-ast", false, "print the parsed schema tree to stderr before compiling")
}

func (cmd *cmdGenerate) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: delbin generate SCHEMA_FILE")
		return 1
	}

	src, err := os.ReadFile(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cmd.dumpAST {
		file, err := syntax.Parse(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		dumpAST(file)
	}

	env, err := loadEnvFile(cmd.envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	sections, err := loadSectionsManifest(cmd.sectionsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := delbin.Generate(string(src), env, sections)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, warn := range result.Warnings {
		fmt.Fprintln(os.Stderr, warn)
	}

	return writeOutput(cmd.outPath, result.Bytes)
}

func writeOutput(outPath string, data []byte) int {
	if outPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(outPath, data, 0o666); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
