// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command chip8run loads a CHIP-8 ROM and executes it, either as a batch
// run to completion or, with -s, as an interactive stepping session.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"flag"

	"github.com/chip8vm/chip8/asm"
	"github.com/chip8vm/chip8/chip8"
	"github.com/chip8vm/chip8/display"
	"github.com/chip8vm/chip8/host"
)

func main() {
	input := flag.String("i", "", "input ROM file")
	cols := flag.Int("c", 16, "memory dump columns")
	step := flag.Bool("s", false, "interactive step mode")
	verbose := flag.Bool("v", false, "enable verbose logging")
	gui := flag.Bool("g", false, "use a windowed display backend instead of the terminal")
	flag.Usage = usage
	flag.Parse()

	if *input == "" {
		usage()
		os.Exit(1)
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		exitOnError(err)
	}

	var rom []byte
	var sourceMap *asm.SourceMap
	if strings.EqualFold(filepath.Ext(*input), ".asm") {
		a := asm.NewAssembler()
		a.Verbose = *verbose
		a.Log = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
		rom, sourceMap, err = a.Assemble(string(raw))
		if err != nil {
			exitOnError(err)
		}
	} else {
		rom = raw
	}

	var peripherals chip8.Peripherals
	var term *host.TerminalPeripherals
	var win *display.Peripherals
	if *gui {
		win = display.New()
		peripherals = win.Adapter()
	} else {
		term = host.NewTerminalPeripherals()
		defer term.Close()
		peripherals = term
	}

	m := chip8.New(peripherals, nil)
	if err := m.LoadROM(rom); err != nil {
		exitOnError(err)
	}
	m.OnWarning = func(msg string) {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", msg)
	}

	go tickTimers(m, win)

	if !*step {
		fmt.Println(m.DumpMemory(*cols))
		fmt.Println(m.DumpROM(len(rom), *cols))
		fmt.Println("######## START EMULATION ########")
		if term != nil {
			go renderLoop(term)
		}
	}

	run := func() {
		if *step {
			h := host.New(m, len(rom))
			h.SetSourceMap(sourceMap)
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			go func() {
				for range c {
					h.Break()
				}
			}()
			h.RunCommands(os.Stdin, os.Stdout, true)
			return
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			<-c
			m.Stop(chip8.ErrBreak)
		}()

		for m.Running {
			if *verbose {
				_, instr, err := chip8.Peek(m)
				if err == nil {
					fmt.Fprintf(os.Stderr, "%03X: %s\n", m.PC, instr.String())
				}
			}
			if err := m.Step(); err != nil && err != chip8.ErrBreak {
				fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			}
		}
		fmt.Println(m.DumpRegisters())
	}

	if win != nil {
		// ebiten.RunGame must be called on the main goroutine; the
		// interpreter loop runs alongside it.
		go run()
		if err := win.Run("chip8run"); err != nil {
			exitOnError(err)
		}
		return
	}

	run()
}

// tickTimers decrements DT/ST at 60 Hz, matching the external-tick-hook
// contract the interpreter relies on for timer behaviour. When win is
// non-nil, the buzzer tracks ST so the window backend sounds while ST > 0.
func tickTimers(m *chip8.Machine, win *display.Peripherals) {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	for range ticker.C {
		m.TickTimers()
		if win != nil {
			win.SetSoundActive(m.ST > 0)
		}
	}
}

// renderLoop redraws the terminal framebuffer at 30Hz in batch mode, since
// nothing else in the fetch/execute loop ever prints the display.
func renderLoop(p *host.TerminalPeripherals) {
	ticker := time.NewTicker(time.Second / 30)
	defer ticker.Stop()
	for range ticker.C {
		fmt.Print("\x1b[H\x1b[2J")
		fmt.Print(p.Render())
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: chip8run -i <rom-or-asm> [-c <cols>] [-s] [-g] [-v]")
	fmt.Fprintln(os.Stderr, "  an input file with a .asm extension is assembled in-place before running")
	fmt.Fprintln(os.Stderr, "  -g opens a window instead of rendering to the terminal")
	flag.PrintDefaults()
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
