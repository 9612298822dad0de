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
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

var lastcmd []string

// parseAddr accepts a hex literal or, when a symbol table is loaded, a label
func parseAddr(dbg *debugger.Debugger, arg string) (uint16, error) {
	if addr, ok := dbg.LabelAddr(arg); ok {
		return addr, nil
	}

	addr, err := encoding.DecodeHex(arg)

	if err != nil {
		return 0, err
	}

	if addr >= machine.MEMORY_SIZE {
		return 0, fmt.Errorf("address %#04x is out of range", addr)
	}

	return addr, nil
}

// pointList lets breakpoints and watchpoints share one set of subcommands
type pointList struct {
	name   string
	add    func(addr uint16) bool
	addrs  func() []uint16
	remove func(i int)
	clear  func()
}

func breakpointList(dbg *debugger.Debugger) pointList {
	return pointList{
		name: "Breakpoint",
		add:  dbg.AddBreakpoint,
		addrs: func() []uint16 {
			addrs := make([]uint16, len(dbg.Breakpoints))
			for i, breakpoint := range dbg.Breakpoints {
				addrs[i] = breakpoint.Addr
			}
			return addrs
		},
		remove: func(i int) {
			dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
			dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		},
		clear: func() {
			dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		},
	}
}

func watchpointList(dbg *debugger.Debugger) pointList {
	return pointList{
		name: "Watchpoint",
		add:  dbg.AddWatchpoint,
		addrs: func() []uint16 {
			addrs := make([]uint16, len(dbg.Watchpoints))
			for i, watchpoint := range dbg.Watchpoints {
				addrs[i] = watchpoint.Addr
			}
			return addrs
		},
		remove: func(i int) {
			dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
			dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		},
		clear: func() {
			dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		},
	}
}

func debugPoints(
	dbg *debugger.Debugger, points pointList, cmdname string, args []string,
) {
	usage := cmdname + " [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		if len(args) != 1 {
			log.Println(cmdname + " add [0x####|label]")
			return
		}

		addr, err := parseAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if points.add(addr) {
			fmt.Printf("%s added [%#04x]\n", points.name, addr)
		}

	case "l", "ls", "list":
		addrs := points.addrs()

		digits := math.Floor(math.Log10(float64(len(addrs) + 1)))
		fmtstring := fmt.Sprintf("#%%0%dd: %%#04x\n", int64(digits)+1)

		for i, addr := range addrs {
			fmt.Printf(fmtstring, i, addr)
		}

	case "r", "rm", "remove":
		if len(args) != 1 {
			log.Println(cmdname + " remove [#]")
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= len(points.addrs()) {
			log.Printf("Invalid %s number", strings.ToLower(points.name))
			return
		}

		points.remove(i)
		fmt.Printf("%s removed [%d]\n", points.name, i)

	case "clear":
		points.clear()
		fmt.Printf("%ss reset\n", points.name)

	default:
		log.Printf("%s: '%s' is not a valid command\n", cmdname, cmd)
		log.Println(usage)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "register [V#|PC|I|SP|DT|ST] [0x####]"

	if len(args) == 0 {
		dbg.PrintRegs(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	name := strings.ToUpper(args[0])

	switch name {
	case "PC":
		mc.Program = value % machine.MEMORY_SIZE
	case "I":
		mc.Index = value
	case "SP":
		if value >= machine.STACK_SIZE {
			log.Println("Stack pointer out of range")
			return
		}
		mc.StackPtr = uint8(value)
	case "DT":
		mc.Delay = uint8(value)
	case "ST":
		mc.Sound = uint8(value)
	default:
		if len(name) != 2 || name[0] != 'V' {
			log.Println("Invalid register")
			return
		}

		reg, err := strconv.ParseUint(name[1:], 16, 8)

		if err != nil {
			log.Println("Invalid register")
			return
		}

		mc.Registers[reg] = uint8(value)
	}

	fmt.Printf("\033[1m%s:\033[0m %#04x\n", name, value)
}

func debugSource(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "source [0x####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var addr uint16 = mc.Program
	var size uint16 = 3

	if len(args) > 0 {
		var err error

		if addr, err = parseAddr(dbg, args[0]); err != nil {
			value, err := strconv.ParseInt(args[0], 10, 16)

			if err != nil {
				log.Println(err)
				return
			}

			addr = mc.Program
			size = uint16(value)
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return
		}

		size = uint16(value)
	}

	dbg.PrintSource(mc, addr, size)
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	const usage = "labels"

	if len(args) > 0 {
		log.Println(usage)
		return
	}

	if dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Printf(
			"\033[1m[%#04x]\033[0m %s\n", addr, dbg.SymTable.Labels[addr],
		)
	}
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [0x####|label]"

	if len(args) != 1 {
		log.Println(usage)
		return
	}

	addr, err := parseAddr(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	mc.Program = addr

	if dbg.SymTable != nil {
		if label, ok := dbg.SymTable.Labels[addr]; ok {
			fmt.Printf(
				"\033[1mPC:\033[0m %#04x \033[1;30m(%s)\033[0m\n",
				addr,
				label,
			)
			return
		}
	}

	fmt.Printf("\033[1mPC:\033[0m %#04x\n", addr)
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [0x####|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var size uint16 = 1
	var addr uint16 = mc.Program

	if len(args) > 0 {
		var err error

		if addr, err = parseAddr(dbg, args[0]); err != nil {
			value, err := strconv.ParseInt(args[0], 10, 16)

			if err != nil {
				log.Println(err)
				return
			}

			addr = mc.Program
			size = uint16(value)
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return
		}

		size = uint16(value)
	}

	dbg.PrintMem(mc, addr, size)
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [0x####|label] [0x##]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := parseAddr(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if value > 0xFF {
		log.Println("Value exceeds one byte")
		return
	}

	mc.Memory[addr] = uint8(value)
	dbg.PrintMem(mc, addr, 1)
}

func debugReset(dbg *debugger.Debugger, mc *machine.Machine) {
	if dbg.Binary == nil {
		log.Println("No program loaded")
		return
	}

	if _, err := dbg.Binary.Seek(0, io.SeekStart); err != nil {
		log.Println(err)
		return
	}

	if _, err := mc.LoadBin(dbg.Binary); err != nil {
		log.Println(err)
		return
	}

	fmt.Println("Machine reset")
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	if inRawTerm() {
		exitRawTerm()
		defer enterRawTerm()
	}

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit.Store(true)
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugPoints(dbg, breakpointList(dbg), "break", args)

		case "w", "wp", "watch", "watchpoint":
			debugPoints(dbg, watchpointList(dbg), "watch", args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "s", "src", "source":
			debugSource(dbg, &mc.State, args)

		case "l", "label", "labels":
			debugLabels(dbg, args)

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "scr", "screen":
			dbg.PrintScreen(&mc.State)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit.Store(true)
			dbg.Break = false
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			debugReset(dbg, mc)

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit.Load() {
		return
	}

	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintSource(&mc.State, mc.State.Program, 8)
	} else {
		dbg.PrintDisasm(&mc.State, mc.State.Program, 1)
	}

	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit.Load() {
		return
	}

	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
