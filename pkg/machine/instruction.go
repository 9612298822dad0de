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
)

// Decode splits an opcode word into its instruction kind and operands.
// Words outside the supported families decode to OP_INVALID.
func Decode(word uint16) Instruction {
	x := uint8((word >> 8) & 0xF)
	y := uint8((word >> 4) & 0xF)
	n := uint8(word & 0xF)
	nn := uint8(word & 0xFF)
	nnn := word & 0xFFF

	switch word & 0xF000 {
	// CLS  |0000 0000 1110 0000| Clear screen
	// RET  |0000 0000 1110 1110| Return from subroutine
	case FAMILY_SYS:
		switch word {
		case WORD_CLS:
			return Instruction{Op: OP_CLS}
		case WORD_RET:
			return Instruction{Op: OP_RET}
		}

	// JP   |0001|NNN           | Jump
	case FAMILY_JP:
		return Instruction{Op: OP_JP, NNN: nnn}

	// CALL |0010|NNN           | Call subroutine
	case FAMILY_CALL:
		return Instruction{Op: OP_CALL, NNN: nnn}

	// LD   |0110|X   |NN       | Set register
	case FAMILY_LD:
		return Instruction{Op: OP_LD, X: x, NN: nn}

	// ADD  |0111|X   |NN       | Add to register
	case FAMILY_ADD:
		return Instruction{Op: OP_ADD, X: x, NN: nn}

	// LDI  |1010|NNN           | Set index
	case FAMILY_LDI:
		return Instruction{Op: OP_LDI, NNN: nnn}

	// DRW  |1101|X   |Y   |N   | Draw sprite
	case FAMILY_DRW:
		return Instruction{Op: OP_DRW, X: x, Y: y, N: n}
	}

	return Instruction{Op: OP_INVALID}
}

// Encode is the inverse of Decode. Operands wider than their field are
// truncated.
func (ins Instruction) Encode() (uint16, bool) {
	switch ins.Op {
	case OP_CLS:
		return WORD_CLS, true
	case OP_RET:
		return WORD_RET, true
	case OP_JP:
		return FAMILY_JP | ins.NNN&0xFFF, true
	case OP_CALL:
		return FAMILY_CALL | ins.NNN&0xFFF, true
	case OP_LD:
		return FAMILY_LD | uint16(ins.X&0xF)<<8 | uint16(ins.NN), true
	case OP_ADD:
		return FAMILY_ADD | uint16(ins.X&0xF)<<8 | uint16(ins.NN), true
	case OP_LDI:
		return FAMILY_LDI | ins.NNN&0xFFF, true
	case OP_DRW:
		return FAMILY_DRW |
			uint16(ins.X&0xF)<<8 |
			uint16(ins.Y&0xF)<<4 |
			uint16(ins.N&0xF), true
	}

	return 0, false
}

func (ins Instruction) String() string {
	switch ins.Op {
	case OP_CLS:
		return "CLS"
	case OP_RET:
		return "RET"
	case OP_JP:
		return fmt.Sprintf("JP %#03x", ins.NNN)
	case OP_CALL:
		return fmt.Sprintf("CALL %#03x", ins.NNN)
	case OP_LD:
		return fmt.Sprintf("LD V%X, %#02x", ins.X, ins.NN)
	case OP_ADD:
		return fmt.Sprintf("ADD V%X, %#02x", ins.X, ins.NN)
	case OP_LDI:
		return fmt.Sprintf("LD I, %#03x", ins.NNN)
	case OP_DRW:
		return fmt.Sprintf("DRW V%X, V%X, %d", ins.X, ins.Y, ins.N)
	}

	return "???"
}
