// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chip8 implements the CHIP-8 instruction set: a bidirectional
// opcode codec and an interpreter that executes decoded instructions
// against a simulated 4K machine.
package chip8
