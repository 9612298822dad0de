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
	"errors"
)

var (
	ErrEmptyProgram   = errors.New("program image is empty")
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")
)

type Op uint8

// Instruction is a decoded opcode word. Only the operand fields meaningful
// for Op are populated.
type Instruction struct {
	Op  Op
	X   uint8
	Y   uint8
	N   uint8
	NN  uint8
	NNN uint16
}

// Framebuffer is indexed [row][column]; every cell is 0 or 1.
type Framebuffer [SCREEN_HEIGHT][SCREEN_WIDTH]uint8

type Display interface {
	Render(fb *Framebuffer) error
}

type DeviceHandler struct {
	Display Display
}

type MachineState struct {
	Registers [REGISTER_SIZE]uint8
	Index     uint16
	Program   uint16
	Stack     [STACK_SIZE]uint16
	StackPtr  uint8
	Delay     uint8
	Sound     uint8
	Memory    [MEMORY_SIZE]byte
	Screen    Framebuffer
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
}

type Machine struct {
	Devices  *DeviceHandler
	State    MachineState
	Debugger MachineDebugger
}
