// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

// ErrorKind classifies an assembly-time failure.
type ErrorKind int

const (
	AddrOutOfRange ErrorKind = iota
	RegOutOfRange
	ConstOutOfRange
	NibbleOutOfRange
	InvalidRegisterLiteral
	InvalidIntegerLiteral
	WrongArgCount
	InvalidArgShape
	UndefinedLabel
	UnsupportedMnemonic
	DuplicateLabel
)

var kindNames = [...]string{
	AddrOutOfRange:          "address out of range",
	RegOutOfRange:           "register out of range",
	ConstOutOfRange:         "constant out of range",
	NibbleOutOfRange:        "nibble out of range",
	InvalidRegisterLiteral:  "invalid register literal",
	InvalidIntegerLiteral:   "invalid integer literal",
	WrongArgCount:           "wrong argument count",
	InvalidArgShape:         "argument shape does not match any variant",
	UndefinedLabel:          "undefined label",
	UnsupportedMnemonic:     "unsupported mnemonic",
	DuplicateLabel:          "duplicate label",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown error"
}

// Error is a fatal assembly error, carrying the source line number at which
// it was detected. The assembler does not fill in Col; it stays zero.
type Error struct {
	Kind ErrorKind
	Row  int
	Col  int
	Text string // the offending token, label or mnemonic, for display
	Msg  string
}

func (e *Error) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%s at line %d: %s (%q)", e.Kind, e.Row, e.Msg, e.Text)
	}
	return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Row, e.Msg)
}

func newError(kind ErrorKind, row int, text, msg string) *Error {
	return &Error{Kind: kind, Row: row, Text: text, Msg: msg}
}
