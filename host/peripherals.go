// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"os"
	"sync"
	"time"

	"github.com/beevik/term"

	"github.com/chip8vm/chip8/chip8"
)

// DisplayWidth and DisplayHeight are the CHIP-8 framebuffer dimensions.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// keymap is the conventional mapping from a CHIP-8 hex keypad layout
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   <-   q w e r
//	7 8 9 E        a s d f
//	A 0 B F        z x c v
//
// onto a QWERTY keyboard.
var keymap = map[byte]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// TerminalPeripherals implements chip8.Peripherals by rendering the display
// as a block-character grid on the controlling terminal and reading the
// keypad from raw stdin input.
type TerminalPeripherals struct {
	mu      sync.Mutex
	fb      [DisplayHeight][DisplayWidth]bool
	held    map[byte]time.Time
	keyHold time.Duration

	rawState *term.State
	cancel   chan struct{}
	keyCh    chan byte
}

// NewTerminalPeripherals puts stdin into raw input mode (if it is a
// terminal) and starts a background reader that tracks which CHIP-8 keys
// are currently considered "held". Call Close to restore terminal state.
func NewTerminalPeripherals() *TerminalPeripherals {
	p := &TerminalPeripherals{
		held:    make(map[byte]time.Time),
		keyHold: 150 * time.Millisecond,
		cancel:  make(chan struct{}),
		keyCh:   make(chan byte, 16),
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		if state, err := term.MakeRawInput(fd); err == nil {
			p.rawState = state
			go p.readLoop(fd)
		}
	}
	return p
}

// Close restores the terminal to its state prior to NewTerminalPeripherals.
func (p *TerminalPeripherals) Close() {
	close(p.cancel)
	if p.rawState != nil {
		term.Restore(int(os.Stdin.Fd()), p.rawState)
	}
}

func (p *TerminalPeripherals) readLoop(fd int) {
	buf := make([]byte, 1)
	for {
		select {
		case <-p.cancel:
			return
		default:
		}
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}
		c := buf[0]
		if c == 3 { // Ctrl-C
			return
		}
		if key, ok := keymap[c]; ok {
			p.mu.Lock()
			p.held[key] = time.Now().Add(p.keyHold)
			p.mu.Unlock()
			select {
			case p.keyCh <- key:
			default:
			}
		}
	}
}

// Clear implements chip8.Peripherals.
func (p *TerminalPeripherals) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fb = [DisplayHeight][DisplayWidth]bool{}
}

// Draw implements chip8.Peripherals: it XORs an 8-pixel-wide sprite onto
// the framebuffer at (x, y), wrapping at the display edges, and reports
// whether any pixel was erased.
func (p *TerminalPeripherals) Draw(x, y byte, sprite []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	collision := false
	for row, bits := range sprite {
		py := (int(y) + row) % DisplayHeight
		for col := 0; col < 8; col++ {
			if bits&(0x80>>uint(col)) == 0 {
				continue
			}
			px := (int(x) + col) % DisplayWidth
			if p.fb[py][px] {
				collision = true
			}
			p.fb[py][px] = !p.fb[py][px]
		}
	}
	return collision
}

// KeyDown implements chip8.Peripherals.
func (p *TerminalPeripherals) KeyDown(key byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	until, ok := p.held[key&0xF]
	return ok && time.Now().Before(until)
}

// AwaitKey implements chip8.Peripherals, blocking until a mapped key is
// read or the peripherals are closed.
func (p *TerminalPeripherals) AwaitKey() (byte, bool) {
	select {
	case key := <-p.keyCh:
		return key, true
	case <-p.cancel:
		return 0, false
	}
}

// Render returns the framebuffer as a grid of '#'/' ' characters, one row
// per display line.
func (p *TerminalPeripherals) Render() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := ""
	for _, row := range p.fb {
		for _, on := range row {
			if on {
				s += "#"
			} else {
				s += " "
			}
		}
		s += "\n"
	}
	return s
}

var _ chip8.Peripherals = (*TerminalPeripherals)(nil)
