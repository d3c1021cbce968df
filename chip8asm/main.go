// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command chip8asm cross-assembles CHIP-8 source text into a ROM image.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chip8vm/chip8/asm"
)

func main() {
	input := flag.String("i", "", "input assembly source file")
	output := flag.String("o", "", "output ROM file")
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Usage = usage
	flag.Parse()

	if *input == "" {
		usage()
		os.Exit(1)
	}

	src, err := os.ReadFile(*input)
	if err != nil {
		exitOnError(err)
	}

	a := asm.NewAssembler()
	a.Verbose = *verbose
	a.Log = func(format string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}

	rom, _, err := a.Assemble(string(src))
	if err != nil {
		exitOnError(err)
	}

	out := *output
	if out == "" {
		out = defaultOutputName(*input)
	}
	if err := os.WriteFile(out, rom, 0644); err != nil {
		exitOnError(err)
	}
	fmt.Printf("Wrote %d bytes to %s.\n", len(rom), out)
}

// defaultOutputName derives an output filename from the input path by
// stripping its directory and extension and uppercasing the remainder,
// grounded on original_source's default-output-filename derivation.
func defaultOutputName(input string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.ToUpper(base)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: chip8asm -i <input> [-o <output>] [-v]")
	flag.PrintDefaults()
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
