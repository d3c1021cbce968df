// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package display

import (
	"math"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
)

// buzzer plays a square-wave tone while active, driven by Peripherals from
// the sound timer (ST). It is a minimal player of oto.Context grounded on
// the IntuitionEngine example's OtoPlayer: a single streaming Player reading
// from an io.Reader that synthesizes samples on demand.
type buzzer struct {
	ctx    *oto.Context
	player *oto.Player
	active atomic.Bool
	phase  float64
	rate   int
}

const buzzerFreq = 440.0

func newBuzzer(sampleRate int) *buzzer {
	b := &buzzer{rate: sampleRate}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		// No audio device available; the buzzer becomes a silent no-op.
		return b
	}
	<-ready
	b.ctx = ctx
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b
}

func (b *buzzer) setActive(active bool) {
	b.active.Store(active)
}

// Read implements io.Reader, synthesizing a square wave while active.
func (b *buzzer) Read(p []byte) (int, error) {
	n := len(p) / 4
	if !b.active.Load() {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	step := buzzerFreq / float64(b.rate)
	for i := 0; i < n; i++ {
		b.phase += step
		if b.phase >= 1 {
			b.phase -= math.Trunc(b.phase)
		}
		v := float32(0.2)
		if b.phase >= 0.5 {
			v = -0.2
		}
		bits := math.Float32bits(v)
		p[i*4+0] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	return len(p), nil
}
