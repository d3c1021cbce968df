// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chip8

import "fmt"

// Fetch reads the 16-bit instruction word at PC, advances PC by two, and
// returns the address the instruction was fetched from. It fails and stops
// the machine if PC is 0xFFE or higher.
func (m *Machine) Fetch() (addr uint16, instr Instruction, err error) {
	if m.PC >= 0xFFE {
		m.Stop(ErrPcOutOfBounds)
		return m.PC, Instruction{}, ErrPcOutOfBounds
	}
	addr = m.PC
	word := uint16(m.Memory[m.PC])<<8 | uint16(m.Memory[m.PC+1])
	m.PC += 2
	m.debugger.onFetch(m, addr)
	return addr, Decode(word), nil
}

// Step fetches and executes a single instruction. It is the unit of work
// driven by both the batch emulator loop and the interactive host's "step"
// command.
func (m *Machine) Step() error {
	if !m.Running {
		return m.StopReason
	}
	_, instr, err := m.Fetch()
	if err != nil {
		return err
	}
	m.Cycles++
	return m.Execute(instr)
}

// Peek decodes the instruction at the machine's current PC without
// mutating any state, for use by callers that want to display the next
// instruction before it executes (a debugger prompt, a step-mode trace).
func Peek(m *Machine) (addr uint16, instr Instruction, err error) {
	if m.PC >= 0xFFE {
		return m.PC, Instruction{}, ErrPcOutOfBounds
	}
	word := uint16(m.Memory[m.PC])<<8 | uint16(m.Memory[m.PC+1])
	return m.PC, Decode(word), nil
}

// warn reports a non-fatal condition (an unsupported SYS call or an
// undecodable opcode) through OnWarning. It does nothing when OnWarning is
// nil; assign to that field to route warnings to a diagnostic stream.
func (m *Machine) warn(format string, args ...interface{}) {
	if m.OnWarning != nil {
		m.OnWarning(fmt.Sprintf(format, args...))
	}
}

// Execute performs the effect of a single decoded instruction. Fatal
// conditions (out-of-bounds memory access, stack over/underflow) stop the
// machine and return a non-nil error; an Unknown opcode or an unsupported
// SYS call is a warning only and never stops the machine.
func (m *Machine) Execute(instr Instruction) error {
	x, y := instr.X, instr.Y
	switch instr.Op {
	case CLS:
		m.Peripherals.Clear()

	case RET:
		if m.SP == 0 {
			m.Stop(ErrStackUnderflow)
			return ErrStackUnderflow
		}
		m.SP--
		m.PC = m.Stack[m.SP]

	case SYS:
		m.warn("SYS %03X ignored (unsupported)", instr.Addr)

	case JP:
		m.PC = instr.Addr

	case JPV0:
		m.PC = (uint16(m.V[0]) + instr.Addr) & 0x0FFF

	case CALL:
		if m.SP == StackSize {
			m.Stop(ErrStackOverflow)
			return ErrStackOverflow
		}
		m.Stack[m.SP] = m.PC
		m.SP++
		m.PC = instr.Addr

	case SEImm:
		if m.V[x] == instr.Byte {
			m.PC += 2
		}

	case SNEImm:
		if m.V[x] != instr.Byte {
			m.PC += 2
		}

	case SEReg:
		if m.V[x] == m.V[y] {
			m.PC += 2
		}

	case SNEReg:
		if m.V[x] != m.V[y] {
			m.PC += 2
		}

	case LDImm:
		m.V[x] = instr.Byte

	case ADDImm:
		m.V[x] = m.V[x] + instr.Byte

	case LDReg:
		m.V[x] = m.V[y]

	case OR:
		m.V[x] |= m.V[y]

	case AND:
		m.V[x] &= m.V[y]

	case XOR:
		m.V[x] ^= m.V[y]

	case ADDReg:
		sum := int(m.V[x]) + int(m.V[y])
		m.V[x] = byte(sum)
		if sum > 0xFF {
			m.V[FlagRegister] = 1
		} else {
			m.V[FlagRegister] = 0
		}

	case SUB:
		oldVx, oldVy := m.V[x], m.V[y]
		borrow := byte(0)
		if oldVx > oldVy {
			borrow = 1
		}
		m.V[FlagRegister] = borrow
		m.V[x] = oldVx - oldVy

	case SUBN:
		oldVx, oldVy := m.V[x], m.V[y]
		borrow := byte(0)
		if oldVy > oldVx {
			borrow = 1
		}
		m.V[FlagRegister] = borrow
		m.V[x] = oldVy - oldVx

	case SHR:
		oldVx := m.V[x]
		m.V[FlagRegister] = oldVx & 1
		m.V[x] = oldVx >> 1

	case SHL:
		oldVx := m.V[x]
		m.V[FlagRegister] = (oldVx >> 7) & 1
		m.V[x] = oldVx << 1

	case LDIAddr:
		m.I = instr.Addr

	case RND:
		m.V[x] = m.Rand.Byte() & instr.Byte

	case DRW:
		n := int(instr.Nibble)
		end := int(m.I) + n
		if end > MemSize {
			end = MemSize
		}
		sprite := m.Memory[m.I:end]
		if m.Peripherals.Draw(m.V[x], m.V[y], sprite) {
			m.V[FlagRegister] = 1
		} else {
			m.V[FlagRegister] = 0
		}

	case SKP:
		if m.Peripherals.KeyDown(m.V[x] & 0xF) {
			m.PC += 2
		}

	case SKNP:
		if !m.Peripherals.KeyDown(m.V[x] & 0xF) {
			m.PC += 2
		}

	case LDVxDT:
		m.V[x] = m.DT

	case LDVxK:
		key, ok := m.Peripherals.AwaitKey()
		if !ok {
			m.Stop(ErrBreak)
			return ErrBreak
		}
		m.V[x] = key

	case LDDTVx:
		m.DT = m.V[x]

	case LDSTVx:
		m.ST = m.V[x]

	case ADDIVx:
		m.I = m.I + uint16(m.V[x])

	case LDFVx:
		m.I = fontBase + uint16(m.V[x]&0xF)*5

	case LDBVx:
		if int(m.I)+2 >= MemSize {
			m.Stop(ErrMemOutOfBounds)
			return ErrMemOutOfBounds
		}
		v := m.V[x]
		m.Memory[m.I] = v / 100
		m.Memory[m.I+1] = (v / 10) % 10
		m.Memory[m.I+2] = v % 10
		m.debugger.onStore(m, m.I, m.Memory[m.I])
		m.debugger.onStore(m, m.I+1, m.Memory[m.I+1])
		m.debugger.onStore(m, m.I+2, m.Memory[m.I+2])

	case LDIArrVx:
		if int(m.I)+int(x) >= MemSize {
			m.Stop(ErrMemOutOfBounds)
			return ErrMemOutOfBounds
		}
		for i := byte(0); i <= x; i++ {
			addr := m.I + uint16(i)
			m.Memory[addr] = m.V[i]
			m.debugger.onStore(m, addr, m.V[i])
		}

	case LDVxIArr:
		if int(m.I)+int(x) >= MemSize {
			m.Stop(ErrMemOutOfBounds)
			return ErrMemOutOfBounds
		}
		for i := byte(0); i <= x; i++ {
			m.V[i] = m.Memory[m.I+uint16(i)]
		}

	case Unknown:
		m.warn("unknown opcode %04X at PC=%03X", instr.Raw, m.PC-2)

	default:
		m.warn("unhandled instruction %v", instr)
	}

	return nil
}
