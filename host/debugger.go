// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/chip8vm/chip8/chip8"

// debugHandler implements chip8.DebuggerHandler, stopping the host's run
// loop and printing a notice whenever a breakpoint fires.
type debugHandler struct {
	host *Host
}

func newDebugHandler(h *Host) *debugHandler {
	return &debugHandler{host: h}
}

func (d *debugHandler) OnBreakpoint(m *chip8.Machine, b *chip8.Breakpoint) {
	d.host.state = stateProcessingCommands
	d.host.printf("Breakpoint hit at $%03X.\n", b.Address)
}

func (d *debugHandler) OnDataBreakpoint(m *chip8.Machine, b *chip8.DataBreakpoint) {
	d.host.state = stateProcessingCommands
	d.host.printf("Data breakpoint hit at $%03X.\n", b.Address)
}
