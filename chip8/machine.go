// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "fmt"

const (
	// MemSize is the size of CHIP-8 addressable memory.
	MemSize = 4096

	// ProgramStart is the address at which loaded ROMs begin execution.
	ProgramStart = 0x200

	// MaxROMSize is the largest ROM that fits between ProgramStart and the
	// top of memory.
	MaxROMSize = MemSize - ProgramStart

	// NumRegisters is the number of general-purpose V registers.
	NumRegisters = 16

	// FlagRegister is the index of VF, used implicitly as the
	// carry/borrow/collision flag.
	FlagRegister = 0xF

	// StackSize is the number of nested CALL return addresses supported.
	StackSize = 16

	// fontBase is the memory address at which the built-in hex digit font
	// is loaded during init. The interpreter data region [0x000,0x200) is
	// reserved for this; the original source never loaded a font, leaving
	// font placement an init responsibility, per spec.
	fontBase = 0x050
)

// font is the standard CHIP-8 hex digit font, 5 bytes per glyph (0-F), each
// byte a row of an 8x5 sprite.
var font = [16 * 5]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Rand supplies the byte source consumed by the RND instruction. It is the
// external collaborator spec.md §1 requires the core to take as a hook
// rather than own.
type Rand interface {
	// Byte returns a pseudo-random value in [0,255].
	Byte() byte
}

// Peripherals bundles the hooks the interpreter calls out to for display
// and keyboard concerns. Each method is invoked synchronously from the
// interpreter's goroutine and must not mutate Machine directly; Draw
// returns whether any pixel was erased so the interpreter can set VF itself.
type Peripherals interface {
	// Clear clears the display.
	Clear()

	// Draw XOR-blits an n-byte sprite (read from Machine memory by the
	// caller) at (x, y) and reports whether any pixel was erased.
	Draw(x, y byte, sprite []byte) (collision bool)

	// KeyDown reports whether the given CHIP-8 key (0-F) is currently held.
	KeyDown(key byte) bool

	// AwaitKey blocks until a key is pressed and returns it, or returns
	// ok == false if the wait was cancelled (e.g. the machine was stopped
	// from another goroutine).
	AwaitKey() (key byte, ok bool)
}

// NullPeripherals is a no-op Peripherals implementation: Clear and Draw do
// nothing, no key is ever down, and AwaitKey reports cancellation
// immediately. It is suitable for the disassembler (which never executes
// instructions) and for headless runs of the emulator.
type NullPeripherals struct{}

// Clear implements Peripherals.
func (NullPeripherals) Clear() {}

// Draw implements Peripherals.
func (NullPeripherals) Draw(x, y byte, sprite []byte) bool { return false }

// KeyDown implements Peripherals.
func (NullPeripherals) KeyDown(key byte) bool { return false }

// AwaitKey implements Peripherals.
func (NullPeripherals) AwaitKey() (byte, bool) { return 0, false }

// Machine holds the complete state of a CHIP-8 virtual machine: memory,
// registers, timers, and the stop/run state of the interpreter that
// operates on it. Machine is owned by exactly one interpreter goroutine;
// Peripherals hooks are called synchronously from that goroutine.
type Machine struct {
	Memory [MemSize]byte
	V      [NumRegisters]byte
	I      uint16
	PC     uint16
	SP     byte
	Stack  [StackSize]uint16
	DT     byte
	ST     byte
	Cycles uint64

	Running    bool
	StopReason error

	Peripherals Peripherals
	Rand        Rand

	// OnWarning, if set, receives non-fatal diagnostic messages (an
	// unsupported SYS call, an undecodable opcode). Nil is a valid no-op.
	OnWarning func(message string)

	debugger *Debugger
}

// New creates a Machine wired to the given peripheral hooks and random
// source, initialized and ready to load a ROM. A nil peripherals or rand
// argument is replaced with a no-op/default implementation.
func New(p Peripherals, r Rand) *Machine {
	m := &Machine{}
	m.Peripherals = p
	if m.Peripherals == nil {
		m.Peripherals = NullPeripherals{}
	}
	m.Rand = r
	if m.Rand == nil {
		m.Rand = defaultRand{}
	}
	m.Init()
	return m
}

// Init resets the machine to its power-on state: memory, registers, stack,
// and timers are zeroed, the font table is loaded at fontBase, PC is set to
// ProgramStart, and Running is set to true.
func (m *Machine) Init() {
	m.Memory = [MemSize]byte{}
	m.V = [NumRegisters]byte{}
	m.I = 0
	m.PC = ProgramStart
	m.SP = 0
	m.Stack = [StackSize]uint16{}
	m.DT = 0
	m.ST = 0
	m.Cycles = 0
	m.Running = true
	m.StopReason = nil
	copy(m.Memory[fontBase:], font[:])
}

// LoadROM copies rom into memory starting at ProgramStart. It returns an
// error if the ROM is too large to fit before the top of memory.
func (m *Machine) LoadROM(rom []byte) error {
	if len(rom) > MaxROMSize {
		return fmt.Errorf("ROM of %d bytes exceeds maximum size %d", len(rom), MaxROMSize)
	}
	copy(m.Memory[ProgramStart:], rom)
	return nil
}

// AttachDebugger attaches a breakpoint-aware debugger to the machine. Pass
// nil to detach.
func (m *Machine) AttachDebugger(d *Debugger) {
	m.debugger = d
}

// Stop marks the machine as no longer running, recording reason as the
// cause. It is safe to call from a goroutine other than the one driving
// fetch/execute (e.g. a Ctrl-C handler); the interpreter observes Running
// at the top of the next fetch.
func (m *Machine) Stop(reason error) {
	m.Running = false
	m.StopReason = reason
}

// TickTimers decrements DT and ST by one if they are nonzero. It is meant
// to be invoked by an external 60Hz ticker; the interpreter never calls it
// itself, matching spec.md's "external tick hook" framing.
func (m *Machine) TickTimers() {
	if m.DT > 0 {
		m.DT--
	}
	if m.ST > 0 {
		m.ST--
	}
}

// DumpRegisters formats the CPU registers for display, grounded on
// original_source's print_registers.
func (m *Machine) DumpRegisters() string {
	s := fmt.Sprintf("PC=%03X I=%03X SP=%02X DT=%02X ST=%02X\n", m.PC, m.I, m.SP, m.DT, m.ST)
	for i := 0; i < NumRegisters; i += 4 {
		s += fmt.Sprintf("V%X=%02X V%X=%02X V%X=%02X V%X=%02X\n",
			i, m.V[i], i+1, m.V[i+1], i+2, m.V[i+2], i+3, m.V[i+3])
	}
	return s
}

// DumpMemory formats the entire memory space as a hex grid with cols bytes
// per row, grounded on original_source's print_memory_map.
func (m *Machine) DumpMemory(cols int) string {
	return dumpBytes(m.Memory[:], 0, cols)
}

// DumpROM formats the loaded ROM region (ProgramStart, romLen bytes) as a
// hex grid with cols bytes per row, grounded on original_source's
// print_ROM.
func (m *Machine) DumpROM(romLen, cols int) string {
	end := ProgramStart + romLen
	if end > MemSize {
		end = MemSize
	}
	return dumpBytes(m.Memory[ProgramStart:end], ProgramStart, cols)
}

func dumpBytes(b []byte, base, cols int) string {
	if cols <= 0 {
		cols = 16
	}
	s := ""
	for row := 0; row < len(b); row += cols {
		s += fmt.Sprintf("0x%03x:", base+row)
		end := row + cols
		if end > len(b) {
			end = len(b)
		}
		for _, v := range b[row:end] {
			s += fmt.Sprintf(" %02x", v)
		}
		s += "\n"
	}
	return s
}

// defaultRand is used when no Rand source is supplied to New. Callers that
// need deterministic output (tests, --seed flags) should supply their own
// Rand instead.
type defaultRand struct{}

func (defaultRand) Byte() byte {
	return byte(xorshift())
}

// xorshift is a minimal, dependency-free PRNG used only as the package's
// zero-configuration default; it is not cryptographically meaningful and
// callers that care about the quality or seeding of randomness should
// supply their own Rand.
var rngState uint32 = 0x2545F491

func xorshift() uint32 {
	rngState ^= rngState << 13
	rngState ^= rngState >> 17
	rngState ^= rngState << 5
	return rngState
}
