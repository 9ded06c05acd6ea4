// Copyright (c) 2025 the avro-idl authors
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

	"github.com/kvedes/avro-idl/compiler"
	"github.com/kvedes/avro-idl/encoding/avpr"
	"github.com/kvedes/avro-idl/syntax"
)

type cmdCompile struct {
	outPath string
	format  string
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile AVDL_FILE",
		summary: "Compile an Avro IDL protocol to Avro Protocol JSON",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	flags.StringVarP(&cmd.outPath, "output", "o", "", "output path (default: stdout)")
	flags.StringVarP(&cmd.format, "format", "f", "avpr", "output format")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s compile AVDL_FILE\n", os.Args[0])
		return 1
	}
	srcPath := argv[0]

	switch cmd.format {
	case "avpr":
	default:
		fmt.Fprintf(os.Stderr, "Unsupported output format %q\n", cmd.format)
		return 1
	}

	src, err := os.ReadFile(srcPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	parsed, err := syntax.Parse(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", srcPath, err)
		return 1
	}

	protocol, err := compiler.Compile(parsed,
		compiler.WithResolver(compiler.ResolverFunc(os.ReadFile)),
		compiler.WithSourcePath(srcPath),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", srcPath, err)
		return 1
	}

	output, err := avpr.Encode(protocol)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if cmd.outPath == "" {
		if _, err := os.Stdout.WriteString(output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(cmd.outPath, openFlags, 0o666)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	_, writeErr := fp.WriteString(output)
	closeErr := fp.Close()
	if writeErr != nil {
		fmt.Fprintln(os.Stderr, writeErr)
		return 1
	}
	if closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
		return 1
	}
	return 0
}
