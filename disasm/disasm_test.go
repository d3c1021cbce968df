// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm

import "testing"

func TestDisassembleSingle(t *testing.T) {
	rom := []byte{0x60, 0x0A}
	line, next := Disassemble(rom, 0)
	if next != 2 {
		t.Fatalf("next = %d, want 2", next)
	}
	if want := "200: LD V0, 0A"; line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
}

func TestDisassembleSecondInstructionAddress(t *testing.T) {
	rom := []byte{0x60, 0x0A, 0x61, 0x05}
	_, next := Disassemble(rom, 0)
	line, next := Disassemble(rom, next)
	if next != 4 {
		t.Fatalf("next = %d, want 4", next)
	}
	if want := "202: LD V1, 05"; line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
}

func TestDisassembleTruncated(t *testing.T) {
	rom := []byte{0x60}
	line, next := Disassemble(rom, 0)
	if next != 1 {
		t.Fatalf("next = %d, want 1", next)
	}
	if want := "200: (truncated)"; line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
}

func TestDisassembleUnknownOpcode(t *testing.T) {
	rom := []byte{0x50, 0x01} // 5xy1 is undefined
	line, next := Disassemble(rom, 0)
	if next != 2 {
		t.Fatalf("next = %d, want 2", next)
	}
	if want := "200: DW 5001"; line != want {
		t.Fatalf("line = %q, want %q", line, want)
	}
}

func TestAllRoundTripsOverAssembledCode(t *testing.T) {
	rom := []byte{
		0x00, 0xE0, // CLS
		0x60, 0x0A, // LD V0, 0x0A
		0x61, 0x05, // LD V1, 0x05
		0x80, 0x14, // ADD V0, V1
		0x00, 0xEE, // RET
	}
	lines := All(rom)
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	want := []string{
		"200: CLS",
		"202: LD V0, 0A",
		"204: LD V1, 05",
		"206: ADD V0, V1",
		"208: RET",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestWalkEmitsInOrder(t *testing.T) {
	rom := []byte{0x00, 0xE0, 0x00, 0xEE}
	var got []string
	Walk(rom, func(line string) { got = append(got, line) })
	if len(got) != 2 || got[0] != "200: CLS" || got[1] != "202: RET" {
		t.Fatalf("got %v", got)
	}
}
