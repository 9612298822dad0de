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

package debugger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/assembler"
	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/machine"
)

const source = "start: CLS\n" +
	"       LD V0, 5\n" +
	"       DRW V0, V1, 1\n" +
	"loop:  JP loop\n"

func newMachine(t *testing.T, dbg *debugger.Debugger) *machine.Machine {
	var symtable assembler.SymTable

	image, errs := assembler.AssembleSource(strings.NewReader(source), &symtable)
	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	dbg.SymTable = &symtable

	var mc machine.Machine
	if _, err := mc.LoadBin(bytes.NewReader(image)); err != nil {
		t.Fatal(err)
	}
	mc.Debugger = dbg

	return &mc
}

func TestBreakpoint(t *testing.T) {
	var hits []uint16
	var dbg debugger.Debugger

	dbg.HandleBreak = func(dbg *debugger.Debugger, mc *machine.Machine) {
		hits = append(hits, mc.State.Program)
	}
	dbg.HandleRead = func(uint16, *debugger.Debugger, *machine.Machine) {}

	mc := newMachine(t, &dbg)

	addr, ok := dbg.LabelAddr("loop")
	if !ok || addr != 0x206 {
		t.Fatalf("want loop at 0x206, have %#04x (%v)", addr, ok)
	}

	if !dbg.AddBreakpoint(addr) {
		t.Fatal("Breakpoint not added")
	}

	if dbg.AddBreakpoint(addr) {
		t.Fatal("Duplicate breakpoint added")
	}

	for i := 0; i < 5; i++ {
		if err := mc.Step(); err != nil {
			t.Fatal(err)
		}
	}

	// DRW lands on loop, then each JP loop lands on it again
	if len(hits) != 3 {
		t.Fatalf("want 3 breaks, have %v", hits)
	}

	for _, hit := range hits {
		if hit != 0x206 {
			t.Fatalf("break at %#04x", hit)
		}
	}
}

func TestBreakFlag(t *testing.T) {
	var count int
	var dbg debugger.Debugger

	dbg.Break = true
	dbg.HandleBreak = func(dbg *debugger.Debugger, mc *machine.Machine) {
		count++
		dbg.Break = false
	}

	mc := newMachine(t, &dbg)

	for i := 0; i < 3; i++ {
		if err := mc.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if count != 1 {
		t.Fatalf("want 1 break, have %d", count)
	}
}

func TestWatchpoint(t *testing.T) {
	var reads []uint16
	var dbg debugger.Debugger

	dbg.HandleBreak = func(*debugger.Debugger, *machine.Machine) {}
	dbg.HandleRead = func(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
		reads = append(reads, addr)
	}

	mc := newMachine(t, &dbg)
	mc.State.Index = 0x000

	// First row of the "0" glyph, read by DRW
	dbg.AddWatchpoint(0x000)

	for i := 0; i < 3; i++ {
		if err := mc.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if len(reads) != 1 || reads[0] != 0x000 {
		t.Fatalf("want one read of 0x000, have %v", reads)
	}
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	var dbg debugger.Debugger
	dbg.Output = &out

	mc := newMachine(t, &dbg)

	dbg.PrintDisasm(&mc.State, 0x200, 4)

	for _, want := range []string{"=>", "CLS", "LD V0, 0x05", "DRW V0, V1, 1", "JP 0x206", "(loop)"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Disassembly missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	dbg.Source = strings.NewReader(source)
	dbg.PrintSource(&mc.State, 0x202, 2)

	if !strings.Contains(out.String(), "LD V0, 5") ||
		!strings.Contains(out.String(), "DRW V0, V1, 1") {
		t.Errorf("Source listing mismatch:\n%s", out.String())
	}

	out.Reset()
	mc.State.Screen[0][0] = 1
	mc.State.Screen[31][63] = 1
	dbg.PrintScreen(&mc.State)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != machine.SCREEN_HEIGHT {
		t.Fatalf("want %d lines, have %d", machine.SCREEN_HEIGHT, len(lines))
	}

	if lines[0][0] != '#' || lines[31][63] != '#' || lines[0][1] != '.' {
		t.Errorf("Screen dump mismatch:\n%s", out.String())
	}

	out.Reset()
	dbg.PrintMem(&mc.State, 0x200, 2)

	if !strings.Contains(out.String(), "0xe0") {
		t.Errorf("Memory dump mismatch:\n%s", out.String())
	}
}
