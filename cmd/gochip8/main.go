// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/lassandro/gochip8/pkg/assembler"
	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/driver"
	"github.com/lassandro/gochip8/pkg/ebitendisplay"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/lassandro/gochip8/pkg/sdldisplay"
	"github.com/lassandro/gochip8/pkg/termdisplay"
)

var helpvar bool
var debugvar bool
var tracevar bool
var displayvar string
var scalevar int
var cyclesvar int

var shouldexit atomic.Bool

const usage = "gochip8 [-debug] [-display sdl|ebiten|term] filename"

const title = "CHIP-8 Emulator"

const defaultWindowScale = 10

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(
		&tracevar, "trace", false,
		"Logs every instruction to stderr before it executes",
	)
	flag.StringVar(
		&displayvar, "display", "sdl",
		"Selects the presentation surface: sdl, ebiten or term",
	)
	flag.IntVar(
		&scalevar, "scale", 0,
		"Size of one pixel, in screen pixels for windows (default 10) "+
			"or in characters for the terminal (default 1)",
	)
	flag.IntVar(
		&cyclesvar, "cycles", 1,
		"Instructions executed per frame; timers always tick once per frame",
	)
}

func newLoop(mc *machine.Machine, display machine.Display) *driver.Loop {
	loop := driver.New(mc, display)
	loop.Cycles = cyclesvar
	loop.Trace = tracevar

	if debugvar {
		// Show draws immediately while single stepping
		mc.Devices = &machine.DeviceHandler{Display: display}
	}

	return loop
}

// debugStart opens the debugger before the first instruction runs, once the
// display exists. It reports whether execution should go ahead.
func debugStart(dbg *debugger.Debugger, mc *machine.Machine) bool {
	if dbg == nil {
		return true
	}

	debugREPL(dbg, mc)

	return !shouldexit.Load()
}

func runSDL(mc *machine.Machine, dbg *debugger.Debugger) int {
	if scalevar < 1 {
		scalevar = defaultWindowScale
	}

	display, err := sdldisplay.New(title, scalevar)

	if err != nil {
		log.Println(err)
		return 1
	}

	defer display.Destroy()

	loop := newLoop(mc, display)
	loop.Quit = func() bool {
		return display.Quit() || shouldexit.Load()
	}

	if !debugStart(dbg, mc) {
		return 0
	}

	if err := loop.Run(); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func runEbiten(mc *machine.Machine, dbg *debugger.Debugger) int {
	if scalevar < 1 {
		scalevar = defaultWindowScale
	}

	display := ebitendisplay.New(scalevar)

	loop := newLoop(mc, display)
	display.Quit = shouldexit.Load

	// The window only exists once ebiten calls back, so the debugger
	// opens on the first frame
	started := false
	display.Frame = func() error {
		if !started {
			started = true

			if !debugStart(dbg, mc) {
				return nil
			}
		}

		return loop.Frame()
	}

	if err := display.Run(title); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func runTerm(mc *machine.Machine, dbg *debugger.Debugger) int {
	if scalevar < 1 {
		scalevar = 1
	}

	if err := termdisplay.Fits(int(os.Stdout.Fd()), scalevar); err != nil {
		log.Println(err)
		return 1
	}

	display := termdisplay.New(os.Stdout, scalevar)

	enterRawTerm()
	defer exitRawTerm()

	if err := display.Hide(); err != nil {
		log.Println(err)
		return 1
	}

	defer display.Clear()

	loop := newLoop(mc, display)
	loop.Quit = func() bool {
		return shouldexit.Load() || pollQuitKey()
	}

	if !debugStart(dbg, mc) {
		return 0
	}

	if err := loop.Run(); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func loadSymbols(dbg *debugger.Debugger, romPath string) {
	filename := strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".c8db"

	file, err := os.Open(filename)

	if err != nil {
		log.Println("Error loading symbol file")
		log.Println(err)
		return
	}

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err == nil {
		dbg.SymTable = &symtable
	} else {
		log.Println("Error loading symbol file")
		log.Println(err)
	}

	file.Close()
}

func gochip8() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	switch displayvar {
	case "sdl", "ebiten", "term":
	default:
		log.Printf("'%s' is not a valid display", displayvar)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	var mc machine.Machine
	var dbg *debugger.Debugger

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)

	if debugvar {
		dbg = &debugger.Debugger{
			Binary:      file,
			HandleBreak: handleBreak,
			HandleRead:  handleRead,
		}
		mc.Debugger = dbg

		loadSymbols(dbg, args[0])

		if dbg.SymTable != nil && dbg.SymTable.Source != "" {
			if source, err := os.Open(dbg.SymTable.Source); err == nil {
				dbg.Source = source
				defer source.Close()
			} else {
				log.Println("Error loading source file")
				log.Println(err)
			}
		}

		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()
	} else {
		go func() {
			for range c {
				shouldexit.Store(true)
			}
		}()
	}

	n, err := mc.LoadBin(file)

	if err != nil {
		log.Printf("%s: %v", args[0], err)
		return 1
	}

	log.Printf("Loaded %d bytes from %s", n, args[0])

	switch displayvar {
	case "sdl":
		return runSDL(&mc, dbg)
	case "ebiten":
		return runEbiten(&mc, dbg)
	default:
		return runTerm(&mc, dbg)
	}
}

func main() {
	flag.Parse()
	os.Exit(gochip8())
}
