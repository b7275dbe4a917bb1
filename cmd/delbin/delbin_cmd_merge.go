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
)

type cmdMerge struct {
	envPath string
	outPath string
}

func (*cmdMerge) help() *commandHelp {
	return &commandHelp{
		usage:   "merge SCHEMA_FILE IMAGE_FILE",
		summary: "compile a schema, then append it onto an existing image",
	}
}

func (cmd *cmdMerge) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.envPath, "env", "e", "", "path to a YAML environment file")
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output path (default: stdout)")
}

func (cmd *cmdMerge) run(ctx context.Context, argv []string) int {
	if len(argv) < 2 {
		fmt.Fprintln(os.Stderr, "usage: delbin merge SCHEMA_FILE IMAGE_FILE")
		return 1
	}

	src, err := os.ReadFile(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	image, err := os.ReadFile(argv[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	env, err := loadEnvFile(cmd.envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	result, err := delbin.Merge(string(src), env, image)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, warn := range result.Warnings {
		fmt.Fprintln(os.Stderr, warn)
	}

	return writeOutput(cmd.outPath, result.Bytes)
}
