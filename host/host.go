// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive command shell around a chip8
// Machine: step/run/break controls, register and memory inspection, and
// breakpoint management.
package host

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/cmd"

	"github.com/chip8vm/chip8/asm"
	"github.com/chip8vm/chip8/chip8"
)

var cmds *cmd.Tree

func init() {
	cmds = cmd.NewTree("chip8", []cmd.Command{
		{
			Name:     "help",
			Shortcut: "?",
			Data:     (*Host).cmdHelp,
		},
		{
			Name:     "registers",
			Shortcut: "r",
			Brief:    "Display register contents",
			HelpText: "registers",
			Data:     (*Host).cmdRegisters,
		},
		{
			Name:  "memory",
			Brief: "Memory commands",
			Subcommands: cmd.NewTree("Memory", []cmd.Command{
				{
					Name:     "dump",
					Brief:    "Dump memory",
					HelpText: "memory dump [<cols>]",
					Data:     (*Host).cmdMemoryDump,
				},
				{
					Name:     "rom",
					Brief:    "Dump the loaded ROM region",
					HelpText: "memory rom [<cols>]",
					Data:     (*Host).cmdMemoryROM,
				},
			}),
		},
		{
			Name:  "breakpoint",
			Shortcut: "b",
			Brief: "Breakpoint commands",
			Subcommands: cmd.NewTree("Breakpoint", []cmd.Command{
				{
					Name:     "list",
					Brief:    "List breakpoints",
					HelpText: "breakpoint list",
					Data:     (*Host).cmdBreakpointList,
				},
				{
					Name:     "add",
					Brief:    "Add a breakpoint",
					HelpText: "breakpoint add <address>",
					Data:     (*Host).cmdBreakpointAdd,
				},
				{
					Name:     "remove",
					Brief:    "Remove a breakpoint",
					HelpText: "breakpoint remove <address>",
					Data:     (*Host).cmdBreakpointRemove,
				},
			}),
		},
		{
			Name:     "databreakpoint",
			Shortcut: "db",
			Brief:    "Data breakpoint commands",
			Subcommands: cmd.NewTree("Data breakpoint", []cmd.Command{
				{
					Name:     "list",
					Brief:    "List data breakpoints",
					HelpText: "databreakpoint list",
					Data:     (*Host).cmdDataBreakpointList,
				},
				{
					Name:     "add",
					Brief:    "Add a data breakpoint",
					HelpText: "databreakpoint add <address> [<value>]",
					Data:     (*Host).cmdDataBreakpointAdd,
				},
				{
					Name:     "remove",
					Brief:    "Remove a data breakpoint",
					HelpText: "databreakpoint remove <address>",
					Data:     (*Host).cmdDataBreakpointRemove,
				},
			}),
		},
		{
			Name:     "run",
			Brief:    "Run until a breakpoint or stop condition",
			HelpText: "run",
			Data:     (*Host).cmdRun,
		},
		{
			Name:  "step",
			Shortcut: "s",
			Brief: "Step one or more instructions",
			HelpText: "step [<count>]",
			Data:  (*Host).cmdStep,
		},
		{
			Name:  "set",
			Brief: "Set a configuration variable",
			HelpText: "set <var> <value>",
			Data:  (*Host).cmdSet,
		},
		{
			Name:     "quit",
			Shortcut: "q",
			Brief:    "Quit the program",
			HelpText: "quit",
			Data:     (*Host).cmdQuit,
		},
		{Name: "m", Alias: "memory dump"},
		{Name: "si", Alias: "step"},
		{Name: "dbl", Alias: "databreakpoint list"},
		{Name: "dba", Alias: "databreakpoint add"},
		{Name: "dbr", Alias: "databreakpoint remove"},
	})
}

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
)

// Host wraps a chip8.Machine with an interactive command shell: stepping,
// running, breakpoints, register and memory inspection.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool

	machine   *chip8.Machine
	debugger  *chip8.Debugger
	settings  *settings
	romLen    int
	sourceMap *asm.SourceMap

	state   state
	lastCmd *cmd.Selection
}

// New creates a Host wrapping machine. romLen is the number of ROM bytes
// loaded, used by the "memory rom" command to bound its dump.
func New(machine *chip8.Machine, romLen int) *Host {
	h := &Host{
		state:    stateProcessingCommands,
		settings: newSettings(),
		machine:  machine,
		romLen:   romLen,
	}
	h.debugger = chip8.NewDebugger(newDebugHandler(h))
	machine.AttachDebugger(h.debugger)
	machine.OnWarning = func(msg string) { h.printf("WARNING: %s\n", msg) }
	return h
}

// SetSourceMap attaches label information produced by asm.Assemble so
// displayPC can annotate addresses with their symbolic label, when the ROM
// being run was assembled from source in the same session.
func (h *Host) SetSourceMap(sm *asm.SourceMap) {
	h.sourceMap = sm
}

// RunCommands reads commands from r and writes output to w. When
// interactive is true, a prompt is displayed between commands.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}
	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case err == cmd.ErrNotFound:
				h.println("Command not found.")
				continue
			case err == cmd.ErrAmbiguous:
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		if err := handler(h, c); err != nil {
			break
		}
	}
	h.output.Flush()
}

// Break stops a running machine, called from a Ctrl-C handler running on
// another goroutine.
func (h *Host) Break() {
	h.machine.Stop(chip8.ErrBreak)
	h.println()
	if h.state == stateRunning {
		h.displayPC()
	}
	if h.state == stateProcessingCommands {
		h.prompt()
	}
	h.state = stateProcessingCommands
}

func (h *Host) getLine() (string, error) {
	if !h.input.Scan() {
		if err := h.input.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(h.input.Text()), nil
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
		h.output.Flush()
	}
}

func (h *Host) println(args ...interface{}) {
	fmt.Fprintln(h.output, args...)
}

func (h *Host) printf(format string, args ...interface{}) {
	fmt.Fprintf(h.output, format, args...)
}

func (h *Host) displayPC() {
	_, instr, err := chip8.Peek(h.machine)
	if err != nil {
		return
	}
	if name, ok := h.sourceMap.Lookup(h.machine.PC); ok {
		h.printf("%03X <%s>: %s\n", h.machine.PC, name, instr.String())
		return
	}
	h.printf("%03X: %s\n", h.machine.PC, instr.String())
}

func (h *Host) step() {
	if err := h.machine.Step(); err != nil {
		h.printf("%v\n", err)
		h.state = stateProcessingCommands
	}
	if !h.machine.Running {
		h.state = stateProcessingCommands
	}
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	h.println("Commands:")
	for _, cm := range cmds.Commands {
		h.printf("  %-24s %s\n", cm.Name, cm.Brief)
	}
	return nil
}

func (h *Host) cmdRegisters(c cmd.Selection) error {
	h.println(h.machine.DumpRegisters())
	h.displayPC()
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	cols := h.settings.MemDumpCols
	if len(c.Args) > 0 {
		if n, err := strconv.Atoi(c.Args[0]); err == nil {
			cols = n
		}
	}
	h.println(h.machine.DumpMemory(cols))
	return nil
}

func (h *Host) cmdMemoryROM(c cmd.Selection) error {
	cols := h.settings.MemDumpCols
	if len(c.Args) > 0 {
		if n, err := strconv.Atoi(c.Args[0]); err == nil {
			cols = n
		}
	}
	h.println(h.machine.DumpROM(h.romLen, cols))
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%03X %-5v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}
	addr, err := parseAddrArg(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%03X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}
	addr, err := parseAddrArg(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%03X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%03X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%03X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}
	addr, err := parseAddrArg(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if len(c.Args) > 1 {
		value, err := strconv.ParseUint(c.Args[1], 0, 8)
		if err != nil {
			h.printf("invalid value %q\n", c.Args[1])
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%03X for value $%02X.\n", addr, value)
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%03X.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayHelpText(c.Command)
		return nil
	}
	addr, err := parseAddrArg(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%03X removed.\n", addr)
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	h.printf("Running from $%03X. Press ctrl-C to break.\n", h.machine.PC)
	h.state = stateRunning
	for h.state == stateRunning && h.machine.Running {
		h.step()
	}
	h.state = stateProcessingCommands
	return nil
}

func (h *Host) cmdStep(c cmd.Selection) error {
	count := 1
	if len(c.Args) > 0 {
		if n, err := strconv.Atoi(c.Args[0]); err == nil {
			count = n
		}
	}
	h.state = stateRunning
	for i := 0; i < count && h.state == stateRunning && h.machine.Running; i++ {
		h.step()
		h.displayPC()
		if h.settings.StepTrace {
			h.println(h.machine.DumpRegisters())
		}
	}
	h.state = stateProcessingCommands
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
	case 1:
		h.displayHelpText(c.Command)
	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")
		if err := h.settings.SetString(key, value); err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.println("Setting updated.")
	}
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return io.EOF
}

func (h *Host) displayHelpText(c *cmd.Command) {
	h.println(c.HelpText)
}

func parseAddrArg(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "$"), "0x")
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	if n >= chip8.MemSize {
		return 0, fmt.Errorf("address %03X out of range", n)
	}
	return uint16(n), nil
}
