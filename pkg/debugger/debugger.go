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

package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

// AddBreakpoint reports whether addr was not already a breakpoint
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

// AddWatchpoint reports whether addr was not already watched
func (dbg *Debugger) AddWatchpoint(addr uint16) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr})
	return true
}

// LabelAddr looks a label up in the symbol table, if one is loaded
func (dbg *Debugger) LabelAddr(label string) (uint16, bool) {
	if dbg.SymTable == nil {
		return 0, false
	}

	for addr, name := range dbg.SymTable.Labels {
		if name == label {
			return addr, true
		}
	}

	return 0, false
}

// PrintSource prints count source lines starting at the line that assembled
// to addr, falling back to disassembly when no source is loaded.
func (dbg *Debugger) PrintSource(mc *machine.MachineState, addr, count uint16) {
	w := dbg.out()

	if dbg.Source == nil || dbg.SymTable == nil {
		dbg.PrintDisasm(mc, addr, count)
		return
	}

	if offset, exists := dbg.SymTable.Symbols[addr]; exists {
		if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
			fmt.Fprintln(w, err)
			return
		}

		scanner := bufio.NewScanner(dbg.Source)
		scanner.Split(bufio.ScanLines)

		for i := uint16(0); i < count; i++ {
			if !scanner.Scan() {
				break
			}

			line := scanner.Text()

			foundaddr := false
			for lineaddr, linebyte := range dbg.SymTable.Symbols {
				if linebyte == offset {
					fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", lineaddr)
					foundaddr = true
					break
				}
			}

			if !foundaddr {
				fmt.Fprint(w, "\033[1;30m~~~~~~~~\033[0m ")
			}

			fmt.Fprintln(w, line)

			offset += int64(len(line) + 1)
		}

		if err := scanner.Err(); err != nil {
			fmt.Fprintln(w, err)
		}
	} else {
		fmt.Fprintf(w, "No instruction found at %#04x\n", addr)
	}
}

func (dbg *Debugger) PrintDisasm(mc *machine.MachineState, addr, count uint16) {
	w := dbg.out()

	for i := uint16(0); i < count; i++ {
		at := (addr + i*2) % machine.MEMORY_SIZE
		word := encoding.Word(
			mc.Memory[at], mc.Memory[(at+1)%machine.MEMORY_SIZE],
		)

		marker := "  "
		if at == mc.Program {
			marker = "=>"
		}

		label := ""
		if dbg.SymTable != nil {
			if name, ok := dbg.SymTable.Labels[at]; ok {
				label = fmt.Sprintf(" \033[1;30m(%s)\033[0m", name)
			}
		}

		fmt.Fprintf(
			w, "%s \033[1m[%#04x]\033[0m %#04x  %s%s\n",
			marker, at, word, machine.Decode(word), label,
		)
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	w := dbg.out()

	for i := addr; i < addr+count; i++ {
		at := i % machine.MEMORY_SIZE

		if i == addr {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		} else if (i-addr)%8 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", at)
		}

		result := mc.Memory[at]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#02x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#02x ", result)
		}
	}

	fmt.Fprintln(w)
}

func (dbg *Debugger) PrintRegs(mc *machine.MachineState) {
	w := dbg.out()

	for i, register := range mc.Registers {
		fmt.Fprintf(w, "\033[1mV%X:\033[0m %#02x\t", i, register)
		if i == (len(mc.Registers)-1)/2 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(
		w,
		"\033[1mPC:\033[0m %#04x\t\033[1mI:\033[0m %#04x\t"+
			"\033[1mSP:\033[0m %d\t\033[1mDT:\033[0m %d\t\033[1mST:\033[0m %d\n",
		mc.Program,
		mc.Index,
		mc.StackPtr,
		mc.Delay,
		mc.Sound,
	)

	for i := uint8(0); i < mc.StackPtr; i++ {
		fmt.Fprintf(w, "\033[1m#%02d:\033[0m %#04x\n", i, mc.Stack[i])
	}
}

// PrintScreen dumps the framebuffer as text, one character per cell
func (dbg *Debugger) PrintScreen(mc *machine.MachineState) {
	w := bufio.NewWriter(dbg.out())

	for _, row := range mc.Screen {
		for _, cell := range row {
			if cell != 0 {
				w.WriteByte('#')
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('\n')
	}

	w.Flush()
}
