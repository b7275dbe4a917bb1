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

type cmdGenerateHex struct {
	envPath      string
	sectionsPath string
}

func (*cmdGenerateHex) help() *commandHelp {
	return &commandHelp{
		usage:   "generate-hex SCHEMA_FILE",
		summary: "compile a schema and print its bytes as uppercase hex",
	}
}

func (cmd *cmdGenerateHex) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.envPath, "env", "e", "", "path to a YAML environment file")
	flags.StringVarP(&cmd.sectionsPath, "sections", "s", "", "path to a YAML sections manifest")
}

func (cmd *cmdGenerateHex) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		fmt.Fprintln(os.Stderr, "usage: delbin generate-hex SCHEMA_FILE")
		return 1
	}

	src, err := os.ReadFile(argv[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
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

	hexStr, err := delbin.GenerateHex(string(src), env, sections)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(hexStr)
	return 0
}
