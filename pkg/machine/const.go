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

const (
	MEMORY_SIZE   = 4096
	REGISTER_SIZE = 16
	STACK_SIZE    = 16

	SCREEN_WIDTH  = 64
	SCREEN_HEIGHT = 32

	SPRITE_WIDTH = 8
)

const (
	MEMSPACE_FONT    uint16 = 0x0000
	MEMSPACE_PROGRAM uint16 = 0x0200

	PROGRAM_SIZE = MEMORY_SIZE - int(MEMSPACE_PROGRAM)
)

// VF doubles as the collision flag for DRW
const REG_FLAG = 0xF

// Instruction kinds. The numeric values carry no encoding meaning, the
// encoding lives in Decode/Encode.
const (
	OP_INVALID Op = iota
	OP_CLS
	OP_RET
	OP_JP
	OP_CALL
	OP_LD
	OP_ADD
	OP_LDI
	OP_DRW
)

// Opcode family masks as they appear in the high nibble of the word
const (
	FAMILY_SYS  uint16 = 0x0000
	FAMILY_JP   uint16 = 0x1000
	FAMILY_CALL uint16 = 0x2000
	FAMILY_LD   uint16 = 0x6000
	FAMILY_ADD  uint16 = 0x7000
	FAMILY_LDI  uint16 = 0xA000
	FAMILY_DRW  uint16 = 0xD000

	WORD_CLS uint16 = 0x00E0
	WORD_RET uint16 = 0x00EE
)

var FontData = [80]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
