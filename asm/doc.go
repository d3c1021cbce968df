// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass assembler for CHIP-8 source text,
// producing a machine-code byte stream via the chip8 package's instruction
// codec.
package asm
