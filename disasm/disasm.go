// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm walks a CHIP-8 ROM image two bytes at a time and formats
// each decoded instruction as a line of mnemonic text, grounded on the
// teacher's disasm.Disassemble.
package disasm

import (
	"fmt"

	"github.com/chip8vm/chip8/chip8"
)

// Disassemble decodes the two-byte instruction word at rom[offset:offset+2]
// and returns its formatted line along with the offset of the next
// instruction. offset is relative to the start of rom, not an absolute
// machine address; callers add chip8.ProgramStart to print machine
// addresses.
func Disassemble(rom []byte, offset int) (line string, next int) {
	if offset+1 >= len(rom) {
		return fmt.Sprintf("%03X: (truncated)", chip8.ProgramStart+offset), len(rom)
	}
	word := uint16(rom[offset])<<8 | uint16(rom[offset+1])
	instr := chip8.Decode(word)
	addr := chip8.ProgramStart + offset
	return fmt.Sprintf("%03X: %s", addr, instr.String()), offset + 2
}

// Walk disassembles the entire ROM, calling emit once per instruction with
// the formatted line. It is the pure decode walk described in the package
// documentation: no execution, no label resolution.
func Walk(rom []byte, emit func(line string)) {
	for offset := 0; offset < len(rom); {
		var line string
		line, offset = Disassemble(rom, offset)
		emit(line)
	}
}

// All disassembles the entire ROM and returns the formatted lines in order.
func All(rom []byte) []string {
	var lines []string
	Walk(rom, func(line string) { lines = append(lines, line) })
	return lines
}
