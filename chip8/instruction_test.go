// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "testing"

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for w := 0; w < 0x10000; w++ {
		word := uint16(w)
		instr := Decode(word)
		if instr.Op == Unknown {
			continue
		}
		got := Encode(instr)
		if got != word {
			t.Fatalf("Encode(Decode(%04X)) = %04X, want %04X (instr=%+v)", word, got, word, instr)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Instruction{
		{Op: CLS},
		{Op: RET},
		{Op: SYS, Addr: 0x123},
		{Op: JP, Addr: 0x456},
		{Op: JPV0, Addr: 0x789},
		{Op: CALL, Addr: 0xABC},
		{Op: SEImm, X: 3, Byte: 0x42},
		{Op: SEReg, X: 1, Y: 2},
		{Op: SNEImm, X: 4, Byte: 0xFF},
		{Op: SNEReg, X: 5, Y: 6},
		{Op: LDImm, X: 0, Byte: 0x0A},
		{Op: LDReg, X: 2, Y: 3},
		{Op: LDIAddr, Addr: 0x200},
		{Op: LDVxDT, X: 7},
		{Op: LDVxK, X: 8},
		{Op: LDDTVx, X: 9},
		{Op: LDSTVx, X: 10},
		{Op: LDFVx, X: 11},
		{Op: LDBVx, X: 12},
		{Op: LDIArrVx, X: 13},
		{Op: LDVxIArr, X: 14},
		{Op: ADDImm, X: 0, Byte: 1},
		{Op: ADDReg, X: 1, Y: 1},
		{Op: ADDIVx, X: 2},
		{Op: OR, X: 0, Y: 1},
		{Op: AND, X: 0, Y: 1},
		{Op: XOR, X: 0, Y: 1},
		{Op: SUB, X: 0, Y: 1},
		{Op: SUBN, X: 0, Y: 1},
		{Op: SHR, X: 0},
		{Op: SHL, X: 0},
		{Op: RND, X: 0, Byte: 0x0F},
		{Op: DRW, X: 0, Y: 1, Nibble: 5},
		{Op: SKP, X: 0},
		{Op: SKNP, X: 0},
	}
	for _, want := range cases {
		w := Encode(want)
		got := Decode(w)
		if got != want {
			t.Errorf("Decode(Encode(%+v)) = %+v, want %+v", want, got, want)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	// 5xy1 is not a defined opcode (only 5xy0 is SE Vx,Vy).
	instr := Decode(0x5001)
	if instr.Op != Unknown {
		t.Fatalf("expected Unknown, got %+v", instr)
	}
	if instr.Raw != 0x5001 {
		t.Fatalf("expected Raw=0x5001, got %04X", instr.Raw)
	}
}

func TestInstructionString(t *testing.T) {
	cases := []struct {
		instr Instruction
		want  string
	}{
		{Instruction{Op: CLS}, "CLS"},
		{Instruction{Op: JP, Addr: 0x200}, "JP 200"},
		{Instruction{Op: SEImm, X: 0, Byte: 0x0A}, "SE V0, 0A"},
		{Instruction{Op: ADDReg, X: 0, Y: 1}, "ADD V0, V1"},
		{Instruction{Op: DRW, X: 0, Y: 1, Nibble: 5}, "DRW V0, V1, 5"},
		{Instruction{Op: LDFVx, X: 3}, "LD F, V3"},
	}
	for _, c := range cases {
		if got := c.instr.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}
