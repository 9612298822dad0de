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
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/machine"
)

// withStdio swaps stdin and stdout for pipes for the duration of a test.
// Writing to the returned writer feeds stdin.
func withStdio(t *testing.T) *os.File {
	t.Helper()

	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}

	go io.Copy(io.Discard, stdoutR)

	stdin, stdout := os.Stdin, os.Stdout
	os.Stdin, os.Stdout = stdinR, stdoutW

	log.SetOutput(io.Discard)

	t.Cleanup(func() {
		os.Stdin, os.Stdout = stdin, stdout
		log.SetOutput(os.Stderr)
		stdinR.Close()
		stdinW.Close()
		stdoutW.Close()
		stdoutR.Close()
	})

	return stdinW
}

func TestPollQuitKeyOutsideRawMode(t *testing.T) {
	withStdio(t)

	done := make(chan bool)
	go func() { done <- pollQuitKey() }()

	select {
	case quit := <-done:
		if quit {
			t.Error("want no quit without input")
		}
	case <-time.After(time.Second):
		t.Fatal("pollQuitKey blocked on idle stdin")
	}
}

func TestDisplayFailsBeforeDebugger(t *testing.T) {
	stdin := withStdio(t)

	// The debugger would read this and quit if it were entered
	stdin.Write([]byte("quit\n"))
	stdin.Close()

	shouldexit.Store(false)
	defer shouldexit.Store(false)

	var mc machine.Machine
	mc.State.Reset()

	dbg := &debugger.Debugger{
		HandleBreak: handleBreak,
		HandleRead:  handleRead,
	}
	mc.Debugger = dbg

	// stdout is a pipe, so the terminal display cannot be created
	if status := runTerm(&mc, dbg); status != 1 {
		t.Fatalf("want exit status 1, have %d", status)
	}

	if shouldexit.Load() {
		t.Error("debugger ran before the display was created")
	}

	if mc.State.Program != machine.MEMSPACE_PROGRAM {
		t.Errorf("want PC=%#04x, have %#04x", machine.MEMSPACE_PROGRAM, mc.State.Program)
	}
}

func TestDebugRegStackPointer(t *testing.T) {
	withStdio(t)

	var dbg debugger.Debugger
	var state machine.MachineState
	dbg.Output = io.Discard

	debugReg(&dbg, &state, []string{"SP", "0xF"})

	if state.StackPtr != machine.STACK_SIZE-1 {
		t.Fatalf("want SP=%d, have %d", machine.STACK_SIZE-1, state.StackPtr)
	}

	debugReg(&dbg, &state, []string{"SP", "0x10"})

	if state.StackPtr != machine.STACK_SIZE-1 {
		t.Errorf("SP=%#x accepted", machine.STACK_SIZE)
	}
}
