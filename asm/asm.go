// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"

	"github.com/chip8vm/chip8/chip8"
)

// Verbose, when set on an Assembler, causes Assemble to call Log for every
// label collected in pass 1 and every line encoded in pass 2.
type Assembler struct {
	Verbose bool
	Log     func(format string, args ...interface{})
}

// NewAssembler returns an Assembler with tracing disabled.
func NewAssembler() *Assembler {
	return &Assembler{}
}

func (a *Assembler) logf(format string, args ...interface{}) {
	if a.Verbose && a.Log != nil {
		a.Log(format, args...)
	}
}

// Assemble compiles source text into a raw, big-endian CHIP-8 machine-code
// byte stream, performing label collection (pass 1) and mnemonic encoding
// (pass 2) as described in the package documentation. The returned
// SourceMap associates every defined label with its resolved address.
func (a *Assembler) Assemble(src string) ([]byte, *SourceMap, error) {
	lines := lex(src)

	labels := make(map[string]uint16, len(lines))
	for i, l := range lines {
		if l.label == "" {
			continue
		}
		addr := uint32(chip8.ProgramStart) + uint32(2*i)
		if addr > 0xFFF {
			return nil, nil, newError(AddrOutOfRange, l.row, l.label, "label address exceeds 12 bits")
		}
		if _, exists := labels[l.label]; exists {
			return nil, nil, newError(DuplicateLabel, l.row, l.label, "label already defined")
		}
		labels[l.label] = uint16(addr)
		a.logf("pass1: %s = %03X", l.label, addr)
	}

	out := make([]byte, 0, len(lines)*2)
	for i, l := range lines {
		instr, err := encodeLine(l, labels)
		if err != nil {
			return nil, nil, err
		}
		w := chip8.Encode(instr)
		out = append(out, byte(w>>8), byte(w))
		a.logf("pass2: %03X: %s -> %04X", chip8.ProgramStart+2*i, l.tokens[0].text, w)
	}

	srcMap := &SourceMap{labels: make(map[uint16]string, len(labels))}
	for name, addr := range labels {
		srcMap.labels[addr] = name
	}
	return out, srcMap, nil
}

func argCountError(l line, want int) error {
	return newError(WrongArgCount, l.row, l.tokens[0].text, argCountMsg(len(l.tokens)-1, want))
}

func argCountMsg(got, want int) string {
	return "got " + itoa(got) + " argument(s), need " + itoa(want)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// encodeLine identifies the mnemonic for l and dispatches to the matching
// instruction builder, disambiguating overloaded mnemonics by argument
// shape per the codec's documented rules.
func encodeLine(l line, labels map[string]uint16) (chip8.Instruction, error) {
	mnemonic := strings.ToUpper(l.tokens[0].text)
	args := l.tokens[1:]

	switch mnemonic {
	case "CLS":
		return requireNoArgs(l, args, chip8.Instruction{Op: chip8.CLS})
	case "RET":
		return requireNoArgs(l, args, chip8.Instruction{Op: chip8.RET})
	case "SYS":
		return chip8.Instruction{}, newError(UnsupportedMnemonic, l.row, mnemonic, "SYS is not supported by the assembler")
	case "JP":
		return encodeJP(l, args, labels)
	case "CALL":
		if len(args) != 1 {
			return chip8.Instruction{}, argCountError(l, 1)
		}
		addr, err := parseAddr(args[0], labels)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.CALL, Addr: addr}, nil
	case "SE":
		return encodeSExx(l, args, labels, chip8.SEImm, chip8.SEReg)
	case "SNE":
		return encodeSExx(l, args, labels, chip8.SNEImm, chip8.SNEReg)
	case "ADD":
		return encodeADD(l, args, labels)
	case "OR":
		return encodeRegReg(l, args, chip8.OR)
	case "AND":
		return encodeRegReg(l, args, chip8.AND)
	case "XOR":
		return encodeRegReg(l, args, chip8.XOR)
	case "SUB":
		return encodeRegReg(l, args, chip8.SUB)
	case "SUBN":
		return encodeRegReg(l, args, chip8.SUBN)
	case "SHR":
		return encodeShift(l, args, chip8.SHR)
	case "SHL":
		return encodeShift(l, args, chip8.SHL)
	case "RND":
		if len(args) != 2 {
			return chip8.Instruction{}, argCountError(l, 2)
		}
		x, isReg, err := parseRegister(args[0])
		if err != nil {
			return chip8.Instruction{}, err
		}
		if !isReg {
			return chip8.Instruction{}, newError(InvalidArgShape, l.row, args[0].text, "RND's first argument must be a register")
		}
		kk, err := parseByteConst(args[1])
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.RND, X: x, Byte: kk}, nil
	case "DRW":
		if len(args) != 3 {
			return chip8.Instruction{}, argCountError(l, 3)
		}
		x, xIsReg, err := parseRegister(args[0])
		if err != nil {
			return chip8.Instruction{}, err
		}
		y, yIsReg, err := parseRegister(args[1])
		if err != nil {
			return chip8.Instruction{}, err
		}
		if !xIsReg || !yIsReg {
			return chip8.Instruction{}, newError(InvalidArgShape, l.row, mnemonic, "DRW needs two register arguments")
		}
		n, err := parseNibbleConst(args[2])
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.DRW, X: x, Y: y, Nibble: n}, nil
	case "SKP":
		x, err := requireOneRegister(l, args)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.SKP, X: x}, nil
	case "SKNP":
		x, err := requireOneRegister(l, args)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.SKNP, X: x}, nil
	case "LD":
		return encodeLD(l, args, labels)
	}

	return chip8.Instruction{}, newError(InvalidArgShape, l.row, mnemonic, "unrecognized mnemonic")
}

func requireNoArgs(l line, args []token, instr chip8.Instruction) (chip8.Instruction, error) {
	if len(args) != 0 {
		return chip8.Instruction{}, argCountError(l, 0)
	}
	return instr, nil
}

func requireOneRegister(l line, args []token) (byte, error) {
	if len(args) != 1 {
		return 0, argCountError(l, 1)
	}
	x, isReg, err := parseRegister(args[0])
	if err != nil {
		return 0, err
	}
	if !isReg {
		return 0, newError(InvalidArgShape, l.row, args[0].text, "expected a register argument")
	}
	return x, nil
}

func encodeJP(l line, args []token, labels map[string]uint16) (chip8.Instruction, error) {
	switch len(args) {
	case 1:
		addr, err := parseAddr(args[0], labels)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.JP, Addr: addr}, nil
	case 2:
		if !isWord(args[0], "V0") {
			return chip8.Instruction{}, newError(InvalidArgShape, l.row, args[0].text, "JP with two arguments requires V0 as the first")
		}
		addr, err := parseAddr(args[1], labels)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.JPV0, Addr: addr}, nil
	default:
		return chip8.Instruction{}, argCountError(l, 1)
	}
}

func encodeSExx(l line, args []token, labels map[string]uint16, immOp, regOp chip8.Op) (chip8.Instruction, error) {
	if len(args) != 2 {
		return chip8.Instruction{}, argCountError(l, 2)
	}
	x, isReg, err := parseRegister(args[0])
	if err != nil {
		return chip8.Instruction{}, err
	}
	if !isReg {
		return chip8.Instruction{}, newError(InvalidArgShape, l.row, args[0].text, "first argument must be a register")
	}
	if y, isReg, err := parseRegister(args[1]); err != nil {
		return chip8.Instruction{}, err
	} else if isReg {
		return chip8.Instruction{Op: regOp, X: x, Y: y}, nil
	}
	kk, err := parseByteConst(args[1])
	if err != nil {
		return chip8.Instruction{}, err
	}
	return chip8.Instruction{Op: immOp, X: x, Byte: kk}, nil
}

func encodeADD(l line, args []token, labels map[string]uint16) (chip8.Instruction, error) {
	if len(args) != 2 {
		return chip8.Instruction{}, argCountError(l, 2)
	}
	if isWord(args[0], "I") {
		x, isReg, err := parseRegister(args[1])
		if err != nil {
			return chip8.Instruction{}, err
		}
		if !isReg {
			return chip8.Instruction{}, newError(InvalidArgShape, l.row, args[1].text, "ADD I requires a register second argument")
		}
		return chip8.Instruction{Op: chip8.ADDIVx, X: x}, nil
	}
	x, isReg, err := parseRegister(args[0])
	if err != nil {
		return chip8.Instruction{}, err
	}
	if !isReg {
		return chip8.Instruction{}, newError(InvalidArgShape, l.row, args[0].text, "ADD's first argument must be a register or I")
	}
	if y, isReg, err := parseRegister(args[1]); err != nil {
		return chip8.Instruction{}, err
	} else if isReg {
		return chip8.Instruction{Op: chip8.ADDReg, X: x, Y: y}, nil
	}
	kk, err := parseByteConst(args[1])
	if err != nil {
		return chip8.Instruction{}, err
	}
	return chip8.Instruction{Op: chip8.ADDImm, X: x, Byte: kk}, nil
}

func encodeRegReg(l line, args []token, op chip8.Op) (chip8.Instruction, error) {
	if len(args) != 2 {
		return chip8.Instruction{}, argCountError(l, 2)
	}
	x, xIsReg, err := parseRegister(args[0])
	if err != nil {
		return chip8.Instruction{}, err
	}
	y, yIsReg, err := parseRegister(args[1])
	if err != nil {
		return chip8.Instruction{}, err
	}
	if !xIsReg || !yIsReg {
		return chip8.Instruction{}, newError(InvalidArgShape, l.row, l.tokens[0].text, "both arguments must be registers")
	}
	return chip8.Instruction{Op: op, X: x, Y: y}, nil
}

func encodeShift(l line, args []token, op chip8.Op) (chip8.Instruction, error) {
	if len(args) != 1 {
		return chip8.Instruction{}, argCountError(l, 1)
	}
	x, isReg, err := parseRegister(args[0])
	if err != nil {
		return chip8.Instruction{}, err
	}
	if !isReg {
		return chip8.Instruction{}, newError(InvalidArgShape, l.row, args[0].text, "expected a register argument")
	}
	return chip8.Instruction{Op: op, X: x}, nil
}

// encodeLD dispatches the eleven LD variants by inspecting both operand
// shapes, per the codec's LD disambiguation table.
func encodeLD(l line, args []token, labels map[string]uint16) (chip8.Instruction, error) {
	if len(args) != 2 {
		return chip8.Instruction{}, argCountError(l, 2)
	}
	dst, src := args[0], args[1]

	if isWord(dst, "I") {
		addr, err := parseAddr(src, labels)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.LDIAddr, Addr: addr}, nil
	}
	if isWord(dst, "DT") {
		x, err := requireRegisterArg(l, src)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.LDDTVx, X: x}, nil
	}
	if isWord(dst, "ST") {
		x, err := requireRegisterArg(l, src)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.LDSTVx, X: x}, nil
	}
	if isWord(dst, "[I]") {
		x, err := requireRegisterArg(l, src)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.LDIArrVx, X: x}, nil
	}
	if isWord(dst, "F") {
		x, err := requireRegisterArg(l, src)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.LDFVx, X: x}, nil
	}
	if isWord(dst, "B") {
		x, err := requireRegisterArg(l, src)
		if err != nil {
			return chip8.Instruction{}, err
		}
		return chip8.Instruction{Op: chip8.LDBVx, X: x}, nil
	}

	// Remaining forms all have a register destination: LD Vx, <src>.
	x, isReg, err := parseRegister(dst)
	if err != nil {
		return chip8.Instruction{}, err
	}
	if !isReg {
		return chip8.Instruction{}, newError(InvalidArgShape, l.row, dst.text, "LD destination must be a register, I, DT, ST, F, B, or [I]")
	}

	switch {
	case isWord(src, "DT"):
		return chip8.Instruction{Op: chip8.LDVxDT, X: x}, nil
	case isWord(src, "K"):
		return chip8.Instruction{Op: chip8.LDVxK, X: x}, nil
	case isWord(src, "[I]"):
		return chip8.Instruction{Op: chip8.LDVxIArr, X: x}, nil
	}
	if y, isReg, err := parseRegister(src); err != nil {
		return chip8.Instruction{}, err
	} else if isReg {
		return chip8.Instruction{Op: chip8.LDReg, X: x, Y: y}, nil
	}
	kk, err := parseByteConst(src)
	if err != nil {
		return chip8.Instruction{}, err
	}
	return chip8.Instruction{Op: chip8.LDImm, X: x, Byte: kk}, nil
}

func requireRegisterArg(l line, t token) (byte, error) {
	x, isReg, err := parseRegister(t)
	if err != nil {
		return 0, err
	}
	if !isReg {
		return 0, newError(InvalidArgShape, l.row, t.text, "expected a register argument")
	}
	return x, nil
}
