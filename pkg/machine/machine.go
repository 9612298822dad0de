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

package machine

import (
	"fmt"
	"io"

	"github.com/lassandro/gochip8/pkg/encoding"
)

func (mc *MachineState) Reset() {
	*mc = MachineState{}

	copy(mc.Memory[MEMSPACE_FONT:], FontData[:])

	mc.Program = MEMSPACE_PROGRAM
	mc.Index = MEMSPACE_PROGRAM
}

// LoadBin resets the machine and copies a program image into the program
// memory space, returning the number of bytes loaded. Images larger than the
// space are truncated.
func (mc *Machine) LoadBin(reader io.Reader) (int, error) {
	mc.State.Reset()

	n, err := io.ReadFull(reader, mc.State.Memory[MEMSPACE_PROGRAM:])

	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return n, err
	}

	if n == 0 {
		return 0, ErrEmptyProgram
	}

	return n, nil
}

// Tick counts the delay and sound timers down by one. It is meant to be
// called at 60Hz regardless of how many instructions run in between.
func (mc *Machine) Tick() {
	if mc.State.Delay > 0 {
		mc.State.Delay--
	}

	if mc.State.Sound > 0 {
		mc.State.Sound--
	}
}

func (mc *Machine) read(addr uint16) byte {
	addr %= MEMORY_SIZE

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

func (mc *Machine) fetch() uint16 {
	hi := mc.read(mc.State.Program)
	lo := mc.read(mc.State.Program + 1)

	return encoding.Word(hi, lo)
}

// advance moves the program counter to the instruction after addr,
// wrapping at the top of memory
func (mc *Machine) advance(addr uint16) {
	mc.State.Program = (addr + 2) % MEMORY_SIZE
}

func (mc *Machine) render() error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	return mc.Devices.Display.Render(&mc.State.Screen)
}

func (mc *Machine) clear() {
	for y := range mc.State.Screen {
		for x := range mc.State.Screen[y] {
			mc.State.Screen[y][x] = 0
		}
	}
}

func (mc *Machine) draw(vx, vy, height uint8) {
	x := int(mc.State.Registers[vx])
	y := int(mc.State.Registers[vy])

	mc.State.Registers[REG_FLAG] = 0

	for row := 0; row < int(height); row++ {
		sprite := mc.read(mc.State.Index + uint16(row))

		for col := 0; col < SPRITE_WIDTH; col++ {
			if sprite&(0x80>>col) == 0 {
				continue
			}

			pixel := &mc.State.Screen[(y+row)%SCREEN_HEIGHT][(x+col)%SCREEN_WIDTH]

			if *pixel == 1 {
				mc.State.Registers[REG_FLAG] = 1
			}

			*pixel ^= 1
		}
	}
}

// Step executes the instruction at the program counter. A non-nil error
// leaves the machine state exactly as it was, except for render errors,
// which are reported after the instruction has been applied.
func (mc *Machine) Step() error {
	word := mc.fetch()
	ins := Decode(word)

	var err error

	switch ins.Op {
	case OP_CLS:
		mc.clear()
		mc.advance(mc.State.Program)
		err = mc.render()

	case OP_RET:
		if mc.State.StackPtr == 0 {
			err = fmt.Errorf("%w at %#04x", ErrStackUnderflow, mc.State.Program)
			break
		}

		mc.State.StackPtr--
		mc.advance(mc.State.Stack[mc.State.StackPtr])

	case OP_JP:
		mc.State.Program = ins.NNN

	case OP_CALL:
		// SP never reaches STACK_SIZE
		if mc.State.StackPtr >= STACK_SIZE-1 {
			err = fmt.Errorf("%w at %#04x", ErrStackOverflow, mc.State.Program)
			break
		}

		mc.State.Stack[mc.State.StackPtr] = mc.State.Program
		mc.State.StackPtr++
		mc.State.Program = ins.NNN

	case OP_LD:
		mc.State.Registers[ins.X] = ins.NN
		mc.advance(mc.State.Program)

	case OP_ADD:
		mc.State.Registers[ins.X] += ins.NN
		mc.advance(mc.State.Program)

	case OP_LDI:
		mc.State.Index = ins.NNN
		mc.advance(mc.State.Program)

	case OP_DRW:
		mc.draw(ins.X, ins.Y, ins.N)
		mc.advance(mc.State.Program)
		err = mc.render()

	default:
		err = fmt.Errorf(
			"%w %#04x at %#04x", ErrUnknownOpcode, word, mc.State.Program,
		)
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return err
}

// Lit calls fn with the column and row of every set cell, row by row.
func (fb *Framebuffer) Lit(fn func(x, y int)) {
	for y := range fb {
		for x, cell := range fb[y] {
			if cell != 0 {
				fn(x, y)
			}
		}
	}
}
