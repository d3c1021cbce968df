// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "sort"

// Debugger intercepts fetch (by address) and memory-store events so a host
// can implement breakpoints around Machine without the interpreter itself
// knowing about breakpoints.
type Debugger struct {
	Handler         DebuggerHandler
	breakpoints     map[uint16]*Breakpoint
	dataBreakpoints map[uint16]*DataBreakpoint
}

// DebuggerHandler receives breakpoint notifications from a Debugger.
type DebuggerHandler interface {
	OnBreakpoint(m *Machine, b *Breakpoint)
	OnDataBreakpoint(m *Machine, b *DataBreakpoint)
}

// Breakpoint stops execution when the program counter reaches Address.
type Breakpoint struct {
	Address  uint16
	Disabled bool
}

// DataBreakpoint stops execution when a byte is stored to Address.
type DataBreakpoint struct {
	Address     uint16
	Disabled    bool
	Conditional bool
	Value       byte
}

// NewDebugger creates a Debugger that reports breakpoint hits to handler.
func NewDebugger(handler DebuggerHandler) *Debugger {
	return &Debugger{
		Handler:         handler,
		breakpoints:     make(map[uint16]*Breakpoint),
		dataBreakpoints: make(map[uint16]*DataBreakpoint),
	}
}

type byAddr []*Breakpoint

func (a byAddr) Len() int           { return len(a) }
func (a byAddr) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byAddr) Less(i, j int) bool { return a[i].Address < a[j].Address }

// GetBreakpoint looks up a breakpoint by address.
func (d *Debugger) GetBreakpoint(addr uint16) *Breakpoint {
	return d.breakpoints[addr]
}

// GetBreakpoints returns all breakpoints, sorted by address.
func (d *Debugger) GetBreakpoints() []*Breakpoint {
	var bps []*Breakpoint
	for _, b := range d.breakpoints {
		bps = append(bps, b)
	}
	sort.Sort(byAddr(bps))
	return bps
}

// AddBreakpoint adds an enabled breakpoint at addr.
func (d *Debugger) AddBreakpoint(addr uint16) *Breakpoint {
	b := &Breakpoint{Address: addr}
	d.breakpoints[addr] = b
	return b
}

// RemoveBreakpoint removes the breakpoint at addr, if any.
func (d *Debugger) RemoveBreakpoint(addr uint16) {
	delete(d.breakpoints, addr)
}

type byDataAddr []*DataBreakpoint

func (a byDataAddr) Len() int           { return len(a) }
func (a byDataAddr) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byDataAddr) Less(i, j int) bool { return a[i].Address < a[j].Address }

// GetDataBreakpoint looks up a data breakpoint by address.
func (d *Debugger) GetDataBreakpoint(addr uint16) *DataBreakpoint {
	return d.dataBreakpoints[addr]
}

// GetDataBreakpoints returns all data breakpoints, sorted by address.
func (d *Debugger) GetDataBreakpoints() []*DataBreakpoint {
	var bps []*DataBreakpoint
	for _, b := range d.dataBreakpoints {
		bps = append(bps, b)
	}
	sort.Sort(byDataAddr(bps))
	return bps
}

// AddDataBreakpoint adds an unconditional data breakpoint at addr.
func (d *Debugger) AddDataBreakpoint(addr uint16) *DataBreakpoint {
	b := &DataBreakpoint{Address: addr}
	d.dataBreakpoints[addr] = b
	return b
}

// AddConditionalDataBreakpoint adds a data breakpoint at addr that only
// fires when value is stored.
func (d *Debugger) AddConditionalDataBreakpoint(addr uint16, value byte) *DataBreakpoint {
	b := &DataBreakpoint{Address: addr, Conditional: true, Value: value}
	d.dataBreakpoints[addr] = b
	return b
}

// RemoveDataBreakpoint removes the data breakpoint at addr, if any.
func (d *Debugger) RemoveDataBreakpoint(addr uint16) {
	delete(d.dataBreakpoints, addr)
}

func (d *Debugger) onFetch(m *Machine, addr uint16) {
	if d == nil || d.Handler == nil {
		return
	}
	if b, ok := d.breakpoints[addr]; ok && !b.Disabled {
		d.Handler.OnBreakpoint(m, b)
	}
}

func (d *Debugger) onStore(m *Machine, addr uint16, v byte) {
	if d == nil || d.Handler == nil {
		return
	}
	if b, ok := d.dataBreakpoints[addr]; ok && !b.Disabled {
		if !b.Conditional || b.Value == v {
			d.Handler.OnDataBreakpoint(m, b)
		}
	}
}
