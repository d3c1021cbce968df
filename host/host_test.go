// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chip8vm/chip8/asm"
	"github.com/chip8vm/chip8/chip8"
)

func newTestHost(t *testing.T, rom []byte) *Host {
	t.Helper()
	m := chip8.New(chip8.NullPeripherals{}, nil)
	if err := m.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	return New(m, len(rom))
}

func TestRunCommandsStepAndRegisters(t *testing.T) {
	rom := []byte{0x60, 0x0A, 0x61, 0x05}
	h := newTestHost(t, rom)

	var out bytes.Buffer
	in := strings.NewReader("step\nregisters\nquit\n")
	h.RunCommands(in, &out, false)

	got := out.String()
	if !strings.Contains(got, "200: LD V0, 0A") {
		t.Errorf("missing initial PC display: %s", got)
	}
	if !strings.Contains(got, "202: LD V1, 05") {
		t.Errorf("missing post-step PC display: %s", got)
	}
	if !strings.Contains(got, "V0=0A") {
		t.Errorf("missing register dump: %s", got)
	}
}

func TestRunCommandsStepRepeatsOnEmptyLine(t *testing.T) {
	rom := []byte{0x60, 0x01, 0x60, 0x02, 0x60, 0x03}
	h := newTestHost(t, rom)

	var out bytes.Buffer
	in := strings.NewReader("step\n\n\nquit\n")
	h.RunCommands(in, &out, false)

	got := out.String()
	if !strings.Contains(got, "206:") {
		t.Errorf("expected three steps to reach PC=206, got: %s", got)
	}
}

func TestRunCommandsUnknownCommand(t *testing.T) {
	h := newTestHost(t, []byte{0x00, 0xE0})
	var out bytes.Buffer
	in := strings.NewReader("bogus\nquit\n")
	h.RunCommands(in, &out, false)
	if !strings.Contains(out.String(), "Command not found.") {
		t.Errorf("expected 'Command not found.', got: %s", out.String())
	}
}

func TestRunCommandsBreakpointAddAndList(t *testing.T) {
	h := newTestHost(t, []byte{0x00, 0xE0})
	var out bytes.Buffer
	in := strings.NewReader("breakpoint add 0x200\nbreakpoint list\nquit\n")
	h.RunCommands(in, &out, false)
	got := out.String()
	if !strings.Contains(got, "Breakpoint added at $200.") {
		t.Errorf("missing add confirmation: %s", got)
	}
	if !strings.Contains(got, "$200") {
		t.Errorf("missing breakpoint in list: %s", got)
	}
}

func TestRunCommandsSetAndDisplay(t *testing.T) {
	h := newTestHost(t, []byte{0x00, 0xE0})
	var out bytes.Buffer
	in := strings.NewReader("set memdumpcols 8\nset\nquit\n")
	h.RunCommands(in, &out, false)
	got := out.String()
	if !strings.Contains(got, "Setting updated.") {
		t.Errorf("missing update confirmation: %s", got)
	}
	if !strings.Contains(got, "MemDumpCols") {
		t.Errorf("missing settings display: %s", got)
	}
}

func TestRunCommandsStepTraceDumpsRegisters(t *testing.T) {
	rom := []byte{0x60, 0x0A}
	h := newTestHost(t, rom)
	var out bytes.Buffer
	in := strings.NewReader("set steptrace true\nstep\nquit\n")
	h.RunCommands(in, &out, false)

	got := out.String()
	if !strings.Contains(got, "V0=0A") {
		t.Errorf("expected register dump after step with StepTrace enabled, got: %s", got)
	}
}

func TestRunCommandsDataBreakpointAddAndHit(t *testing.T) {
	// 0x200: LD I, 0x400; LD [I], V0  -> stores V0 at address 0x400, which
	// a data breakpoint there observes and which also stops "run"'s loop
	// (OnDataBreakpoint leaves stateRunning before the next fetch).
	rom := []byte{0xA4, 0x00, 0xF0, 0x55}
	h := newTestHost(t, rom)
	var out bytes.Buffer
	in := strings.NewReader("databreakpoint add 0x400\ndatabreakpoint list\nrun\nquit\n")
	h.RunCommands(in, &out, false)

	got := out.String()
	if !strings.Contains(got, "Data breakpoint added at $400.") {
		t.Errorf("missing add confirmation: %s", got)
	}
	if !strings.Contains(got, "$400") {
		t.Errorf("missing data breakpoint in list: %s", got)
	}
	if !strings.Contains(got, "Data breakpoint hit at $400.") {
		t.Errorf("expected data breakpoint to fire, got: %s", got)
	}
}

func TestRunCommandsDisplaysSourceMapLabel(t *testing.T) {
	a := asm.NewAssembler()
	rom, sm, err := a.Assemble(`
	JP skip
	CLS
skip:
	RET
`)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	h := newTestHost(t, rom)
	h.SetSourceMap(sm)

	var out bytes.Buffer
	in := strings.NewReader("step\nquit\n")
	h.RunCommands(in, &out, false)

	got := out.String()
	if !strings.Contains(got, "204 <skip>: RET") {
		t.Errorf("expected symbolic label annotation, got: %s", got)
	}
}

func TestParseAddrArg(t *testing.T) {
	cases := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"0x200", 0x200, false},
		{"$200", 0x200, false},
		{"200", 0x200, false},
		{"zzz", 0, true},
		{"FFFF", 0, true},
	}
	for _, c := range cases {
		got, err := parseAddrArg(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseAddrArg(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAddrArg(%q): unexpected error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("parseAddrArg(%q) = %03X, want %03X", c.in, got, c.want)
		}
	}
}
