// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command chip8dasm disassembles a CHIP-8 ROM image into mnemonic text.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chip8vm/chip8/chip8"
	"github.com/chip8vm/chip8/disasm"
)

func main() {
	input := flag.String("i", "", "input ROM file")
	cols := flag.Int("c", 16, "memory dump columns")
	verbose := flag.Bool("v", false, "enable verbose logging")
	flag.Usage = usage
	flag.Parse()

	if *input == "" {
		usage()
		os.Exit(1)
	}

	rom, err := os.ReadFile(*input)
	if err != nil {
		exitOnError(err)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "disassembling %d bytes from %s\n", len(rom), *input)
	}

	m := chip8.New(chip8.NullPeripherals{}, nil)
	if err := m.LoadROM(rom); err != nil {
		exitOnError(err)
	}
	fmt.Println(m.DumpMemory(*cols))
	fmt.Println(m.DumpROM(len(rom), *cols))

	fmt.Println("######## DISASSEMBLED CODE ########")
	for _, line := range disasm.All(rom) {
		fmt.Println(line)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: chip8dasm -i <rom> [-c <cols>] [-v]")
	flag.PrintDefaults()
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
