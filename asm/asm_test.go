// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"encoding/hex"
	"strings"
	"testing"
)

func checkASM(t *testing.T, src string, expected string) {
	t.Helper()
	a := NewAssembler()
	rom, _, err := a.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	got := strings.ToUpper(hex.EncodeToString(rom))
	if got != expected {
		t.Errorf("code doesn't match expected\ngot: %s\nexp: %s", got, expected)
	}
}

func checkASMError(t *testing.T, src string, wantKind ErrorKind) {
	t.Helper()
	a := NewAssembler()
	_, _, err := a.Assemble(src)
	if err == nil {
		t.Fatalf("Assemble(%q): expected error, got none", src)
	}
	asmErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Assemble(%q): expected *Error, got %T (%v)", src, err, err)
	}
	if asmErr.Kind != wantKind {
		t.Errorf("Assemble(%q): got kind %s, want %s", src, asmErr.Kind, wantKind)
	}
}

func TestAssembleSimple(t *testing.T) {
	checkASM(t, "CLS", "00E0")
	checkASM(t, "RET", "00EE")
	checkASM(t, "JP 0x300", "1300")
	checkASM(t, "CALL 0x300", "2300")
}

func TestAssembleSEAndSNE(t *testing.T) {
	checkASM(t, "SE V0, 0x42", "3042")
	checkASM(t, "SE V0, V1", "5010")
	checkASM(t, "SNE V2, 0x0A", "420A")
	checkASM(t, "SNE V2, V3", "9230")
}

func TestAssembleAddDisambiguation(t *testing.T) {
	checkASM(t, "ADD V0, 0x10", "7010")
	checkASM(t, "ADD V0, V1", "8014")
	checkASM(t, "ADD I, V2", "F21E")
}

func TestAssembleArithmetic(t *testing.T) {
	checkASM(t, "OR V0, V1", "8011")
	checkASM(t, "AND V0, V1", "8012")
	checkASM(t, "XOR V0, V1", "8013")
	checkASM(t, "SUB V0, V1", "8015")
	checkASM(t, "SHR V0", "8006")
	checkASM(t, "SUBN V0, V1", "8017")
	checkASM(t, "SHL V0", "800E")
}

func TestAssembleRndAndDrw(t *testing.T) {
	checkASM(t, "RND V0, 0xFF", "C0FF")
	checkASM(t, "DRW V0, V1, 5", "D015")
}

func TestAssembleSkipFamily(t *testing.T) {
	checkASM(t, "SKP V3", "E39E")
	checkASM(t, "SKNP V3", "E3A1")
}

func TestAssembleLDVariants(t *testing.T) {
	checkASM(t, "LD V0, 0x12", "6012")
	checkASM(t, "LD V0, V1", "8010")
	checkASM(t, "LD I, 0x300", "A300")
	checkASM(t, "LD V0, DT", "F007")
	checkASM(t, "LD V0, K", "F00A")
	checkASM(t, "LD DT, V0", "F015")
	checkASM(t, "LD ST, V0", "F018")
	checkASM(t, "LD F, V0", "F029")
	checkASM(t, "LD B, V0", "F033")
	checkASM(t, "LD [I], V3", "F355")
	checkASM(t, "LD V3, [I]", "F365")
}

func TestAssembleJPV0(t *testing.T) {
	checkASM(t, "JP V0, 0x300", "B300")
}

func TestAssembleLabels(t *testing.T) {
	src := `
start:
	JP start
`
	checkASM(t, src, "1200")
}

func TestAssembleForwardLabel(t *testing.T) {
	src := `
	JP skip
	CLS
skip:
	RET
`
	checkASM(t, src, "1204" + "00E0" + "00EE")
}

func TestAssembleRegisterLiteralDecimalVsHex(t *testing.T) {
	checkASM(t, "LD V10, 0x01", "6A01")
	checkASM(t, "LD VA, 0x01", "6A01")
	checkASM(t, "LD V15, 0x01", "6F01")
	checkASM(t, "LD VF, 0x01", "6F01")
}

func TestAssembleComments(t *testing.T) {
	src := "CLS # clear the screen\nRET # return\n"
	checkASM(t, src, "00E000EE")
}

func TestAssembleErrors(t *testing.T) {
	checkASMError(t, "JP", WrongArgCount)
	checkASMError(t, "JP V1, 0x300", InvalidArgShape)
	checkASMError(t, "SYS 0x300", UnsupportedMnemonic)
	checkASMError(t, "JP nosuchlabel", UndefinedLabel)
	checkASMError(t, "LD V16, 0x01", RegOutOfRange)
	checkASMError(t, "RND V0, 0x100", ConstOutOfRange)
	checkASMError(t, "DRW V0, V1, 16", NibbleOutOfRange)
	checkASMError(t, "JP 0x1000", AddrOutOfRange)
	checkASMError(t, "FOO V0", InvalidArgShape)
	checkASMError(t, "start: JP start\nstart: JP start", DuplicateLabel)
}

func TestAssembleDuplicateLabel(t *testing.T) {
	src := `
a: CLS
a: RET
`
	checkASMError(t, src, DuplicateLabel)
}

func TestAssembleSourceMap(t *testing.T) {
	src := `
	JP skip
	CLS
skip:
	RET
`
	a := NewAssembler()
	_, sm, err := a.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	name, ok := sm.Lookup(0x204)
	if !ok || name != "skip" {
		t.Fatalf("Lookup(0x204) = %q, %v, want %q, true", name, ok, "skip")
	}
	if _, ok := sm.Lookup(0x200); ok {
		t.Fatalf("Lookup(0x200) should not resolve to a label")
	}
	if len(sm.Labels()) != 1 {
		t.Fatalf("Labels() = %v, want exactly one entry", sm.Labels())
	}
}
