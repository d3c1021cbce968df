// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "errors"

// Fatal errors that stop the interpreter.
var (
	ErrPcOutOfBounds  = errors.New("program counter out of bounds")
	ErrMemOutOfBounds = errors.New("memory access out of bounds")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrBreak          = errors.New("execution stopped by external request")
)
