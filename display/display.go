// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display implements a graphical chip8.Peripherals backend using
// ebiten for video and oto for the sound-timer buzzer, grounded on the
// IntuitionEngine example's ebiten/oto-based retro-system frontend. It is
// an alternative to host.TerminalPeripherals for callers that want a real
// window instead of a terminal render.
package display

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/chip8vm/chip8/chip8"
)

const (
	displayWidth  = 64
	displayHeight = 32
	pixelScale    = 10
	sampleRate    = 44100
)

// keymap mirrors host.keymap: the conventional CHIP-8 hex keypad laid out
// over the left side of a QWERTY keyboard.
var keymap = map[ebiten.Key]byte{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

// Peripherals implements chip8.Peripherals as an ebiten.Game: Draw paints
// the XOR'd framebuffer into an ebiten image, KeyDown/AwaitKey poll ebiten's
// input state, and a Buzzer (see buzzer.go) sounds while ST is nonzero.
type Peripherals struct {
	mu     sync.Mutex
	fb     [displayHeight][displayWidth]bool
	image  *ebiten.Image
	buzzer *buzzer
	keyCh  chan byte
	done   chan struct{}
}

// New creates a windowed Peripherals backend. Run must be called (on the
// main goroutine, per ebiten's requirement) to actually open the window.
func New() *Peripherals {
	p := &Peripherals{
		image: ebiten.NewImage(displayWidth, displayHeight),
		keyCh: make(chan byte, 16),
		done:  make(chan struct{}),
	}
	p.buzzer = newBuzzer(sampleRate)
	return p
}

// Run opens the window and blocks until it is closed. Call it from a
// goroutine separate from the one driving the interpreter's Step loop,
// since ebiten.RunGame owns the calling goroutine until the window closes.
func (p *Peripherals) Run(title string) error {
	ebiten.SetWindowSize(displayWidth*pixelScale, displayHeight*pixelScale)
	ebiten.SetWindowTitle(title)
	defer close(p.done)
	return ebiten.RunGame(p)
}

// SetSoundActive starts or stops the buzzer tone, driven by the caller
// observing ST > 0 after each timer tick.
func (p *Peripherals) SetSoundActive(active bool) {
	p.buzzer.setActive(active)
}

// Update implements ebiten.Game. It captures mapped keys newly pressed
// since the previous update and forwards them to AwaitKey's channel.
func (p *Peripherals) Update() error {
	for ek, key := range keymap {
		if inpututil.IsKeyJustPressed(ek) {
			select {
			case p.keyCh <- key:
			default:
			}
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (p *Peripherals) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.image.Clear()
	for y, row := range p.fb {
		for x, on := range row {
			if on {
				p.image.Set(x, y, color.White)
			}
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(pixelScale, pixelScale)
	screen.DrawImage(p.image, op)
	ebitenutil.DebugPrint(screen, "")
}

// Layout implements ebiten.Game.
func (p *Peripherals) Layout(outsideWidth, outsideHeight int) (int, int) {
	return displayWidth * pixelScale, displayHeight * pixelScale
}

// Clear implements chip8.Peripherals.
func (p *Peripherals) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fb = [displayHeight][displayWidth]bool{}
}

// DrawSprite implements chip8.Peripherals's Draw method (renamed to avoid
// colliding with ebiten.Game's Draw).
func (p *Peripherals) DrawSprite(x, y byte, sprite []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	collision := false
	for row, bits := range sprite {
		py := (int(y) + row) % displayHeight
		for col := 0; col < 8; col++ {
			if bits&(0x80>>uint(col)) == 0 {
				continue
			}
			px := (int(x) + col) % displayWidth
			if p.fb[py][px] {
				collision = true
			}
			p.fb[py][px] = !p.fb[py][px]
		}
	}
	return collision
}

// KeyDown implements chip8.Peripherals.
func (p *Peripherals) KeyDown(key byte) bool {
	for ek, k := range keymap {
		if k == key&0xF && ebiten.IsKeyPressed(ek) {
			return true
		}
	}
	return false
}

// AwaitKey implements chip8.Peripherals.
func (p *Peripherals) AwaitKey() (byte, bool) {
	select {
	case key := <-p.keyCh:
		return key, true
	case <-p.done:
		return 0, false
	}
}

var _ chip8.Peripherals = drawAdapter{}

// drawAdapter adapts Peripherals.DrawSprite to the chip8.Peripherals.Draw
// method name, since ebiten.Game itself already defines Draw.
type drawAdapter struct{ *Peripherals }

func (d drawAdapter) Draw(x, y byte, sprite []byte) bool { return d.DrawSprite(x, y, sprite) }

// Adapter returns a chip8.Peripherals view of p.
func (p *Peripherals) Adapter() chip8.Peripherals { return drawAdapter{p} }
