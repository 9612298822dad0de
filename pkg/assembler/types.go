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

package assembler

type LiteralType uint
type TokenType uint
type InstructionType uint
type DirectiveType uint

type Cursor struct {
	Line     int
	Column   int
	Byte     int64
	Size     int64
	LineByte int64
}

type Token struct {
	Type     TokenType
	Position Cursor
	Value    string
}

// SymTable maps assembled addresses back to the source that produced them.
// Symbols holds the byte offset of the source line for each instruction.
type SymTable struct {
	Source  string
	Symbols map[uint16]int64
	Labels  map[uint16]string
}

type TokenError interface {
	GetPosition() Cursor
}

func (cursor Cursor) GetPosition() Cursor {
	return cursor
}
