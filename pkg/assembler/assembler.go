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

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

func parseDirective(ident string) DirectiveType {
	if strings.EqualFold(ident, ".DB") {
		return DIRECTIVE_DB
	} else if strings.EqualFold(ident, ".DW") {
		return DIRECTIVE_DW
	} else if strings.EqualFold(ident, ".END") {
		return DIRECTIVE_END
	}

	return DIRECTIVE_INVALID
}

func parseInstruction(ident string) InstructionType {
	if strings.EqualFold(ident, "CLS") {
		return INSTRUCTION_CLS
	} else if strings.EqualFold(ident, "RET") {
		return INSTRUCTION_RET
	} else if strings.EqualFold(ident, "JP") {
		return INSTRUCTION_JP
	} else if strings.EqualFold(ident, "CALL") {
		return INSTRUCTION_CALL
	} else if strings.EqualFold(ident, "LD") {
		return INSTRUCTION_LD
	} else if strings.EqualFold(ident, "ADD") {
		return INSTRUCTION_ADD
	} else if strings.EqualFold(ident, "DRW") {
		return INSTRUCTION_DRW
	}

	return INSTRUCTION_INVALID
}

func parseLiteral(token *Token, bits LiteralType) (uint16, error) {
	var value uint32

	if strings.ContainsAny(token.Value, "xX") {
		result, err := encoding.DecodeHex(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		value = uint32(result)
	} else {
		result, err := encoding.DecodeUint(token.Value)

		if err != nil {
			return 0, &InvalidLiteralError{token.Position}
		}

		value = uint32(result)
	}

	if limit := uint32(1) << bits; value >= limit {
		return 0, &OversizedLiteralError{token.Position, limit, value}
	}

	return uint16(value), nil
}

// parseRegister accepts V0-VF and I, the latter as REGISTER_INDEX
func parseRegister(ident string) (uint8, bool) {
	if strings.EqualFold(ident, "I") {
		return REGISTER_INDEX, true
	}

	if len(ident) != 2 || (ident[0] != 'V' && ident[0] != 'v') {
		return 0, false
	}

	value, err := encoding.DecodeHex("x" + ident[1:])

	if err != nil {
		return 0, false
	}

	return uint8(value), true
}

func tokenizeLine(line string, cursor Cursor) (tokens []Token, errs []error) {
	var builder strings.Builder
	var tokenStart int = 0
	var tokenType TokenType = TOKEN_NONE

	flush := func() {
		if builder.Len() == 0 {
			tokenType = TOKEN_NONE
			return
		}

		token := Token{
			Type:  tokenType,
			Value: builder.String(),
			Position: Cursor{
				Line:     cursor.Line,
				Column:   tokenStart,
				Byte:     cursor.LineByte + int64(tokenStart-1),
				Size:     int64(builder.Len()),
				LineByte: cursor.LineByte,
			},
		}

		if token.Type == TOKEN_IDENT {
			if _, ok := parseRegister(token.Value); ok {
				token.Type = TOKEN_REGISTER
			}
		}

		tokens = append(tokens, token)
		builder.Reset()
		tokenType = TOKEN_NONE
	}

	for index, char := range line {
		cursor.Column = index + 1

		if tokenType == TOKEN_NONE {
			tokenStart = cursor.Column
		}

		switch {
		case unicode.IsSpace(char), char == ',':
			flush()
			continue

		// Comments
		case char == ';':
			flush()
			return tokens, errs

		// Label terminator
		case char == ':':
			if tokenType != TOKEN_IDENT || len(tokens) != 0 {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}
			flush()
			continue

		// Assembler directives
		case char == '.':
			if tokenType != TOKEN_NONE {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}
			tokenType = TOKEN_DIRECTIVE

		// Base 10 literal (i.e. #42)
		case char == '#':
			if tokenType != TOKEN_NONE {
				errs = append(errs, &UnexpectedCharacterError{cursor, char})
			}
			tokenType = TOKEN_LITERAL

		case unicode.IsDigit(char):
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_LITERAL
			}

		case char == '_' || (char <= unicode.MaxASCII && unicode.IsLetter(char)):
			if tokenType == TOKEN_NONE {
				tokenType = TOKEN_IDENT
			}

		default:
			errs = append(errs, &UnexpectedCharacterError{cursor, char})
		}

		builder.WriteRune(char)
	}

	flush()

	return tokens, errs
}

// AssembleSource assembles CHIP-8 source into a program image meant to be
// loaded at machine.MEMSPACE_PROGRAM. When symtable is non-nil it is filled
// with the source offsets and labels of the program.
func AssembleSource(input io.Reader, symtable *SymTable) (result []byte, errs []error) {
	type LabelRef struct {
		Label    string
		Addr     uint16
		Word     bool
		Position Cursor
	}

	var labels = make(map[string]uint16)
	var labelRefs []LabelRef

	var memory [machine.MEMORY_SIZE]byte
	var program = uint32(machine.MEMSPACE_PROGRAM)
	var overflow = 0

	var scanner = bufio.NewScanner(input)
	var cursor = Cursor{Line: 1}

	errs = make([]error, 0)

	if symtable != nil {
		if symtable.Symbols == nil {
			symtable.Symbols = make(map[uint16]int64)
		}

		if symtable.Labels == nil {
			symtable.Labels = make(map[uint16]string)
		}
	}

	emit := func(value uint16, size int) {
		for i := size - 1; i >= 0; i-- {
			if program >= machine.MEMORY_SIZE {
				overflow++
				continue
			}

			memory[program] = byte(value >> (8 * i))
			program++
		}
	}

	// Address operands are either literals or labels resolved once the
	// whole source has been read
	address := func(token *Token, word bool) uint16 {
		switch token.Type {
		case TOKEN_LITERAL:
			bits := LiteralType(LITERAL_ADDR)
			if word {
				bits = LITERAL_WORD
			}

			literal, err := parseLiteral(token, bits)

			if err != nil {
				errs = append(errs, err)
			}

			return literal

		case TOKEN_IDENT:
			labelRefs = append(labelRefs, LabelRef{
				token.Value, uint16(program), word, token.Position,
			})

		default:
			errs = append(errs, &InvalidOperandError{
				token.Position,
				[]TokenType{TOKEN_LITERAL, TOKEN_IDENT},
				token.Type,
			})
		}

		return 0
	}

	register := func(token *Token, allowIndex bool) uint8 {
		if token.Type == TOKEN_REGISTER {
			reg, _ := parseRegister(token.Value)

			if reg != REGISTER_INDEX || allowIndex {
				return reg
			}
		}

		errs = append(errs, &InvalidOperandError{
			token.Position, []TokenType{TOKEN_REGISTER}, token.Type,
		})

		return 0
	}

	literal := func(token *Token, bits LiteralType) uint8 {
		if token.Type != TOKEN_LITERAL {
			errs = append(errs, &InvalidOperandError{
				token.Position, []TokenType{TOKEN_LITERAL}, token.Type,
			})

			return 0
		}

		value, err := parseLiteral(token, bits)

		if err != nil {
			errs = append(errs, err)
		}

		return uint8(value)
	}

	for scanner.Scan() {
		line := scanner.Text()

		cursor.Byte = cursor.LineByte
		cursor.Size = int64(len(line))

		tokens, lineErrs := tokenizeLine(line, cursor)

		next := func() {
			cursor.Line++
			cursor.LineByte += int64(len(line) + 1)
		}

		if len(lineErrs) > 0 {
			errs = append(errs, lineErrs...)
			next()
			continue
		}

		if len(tokens) == 0 {
			next()
			continue
		}

		var label *Token = nil
		var directive DirectiveType
		var instruction InstructionType
		var keyword *Token = nil
		var operands []Token

		for i := range tokens {
			if instruction = parseInstruction(tokens[i].Value); instruction != INSTRUCTION_INVALID {
				keyword = &tokens[i]
			} else if directive = parseDirective(tokens[i].Value); directive != DIRECTIVE_INVALID {
				keyword = &tokens[i]
			} else if i == 0 && tokens[i].Type == TOKEN_IDENT {
				label = &tokens[i]
				continue
			}

			operands = tokens[i+1:]
			break
		}

		if label != nil {
			if _, exists := labels[label.Value]; !exists {
				labels[label.Value] = uint16(program)

				if symtable != nil {
					symtable.Labels[uint16(program)] = label.Value
				}
			} else {
				errs = append(
					errs, &RedeclaredLabelError{label.Position, label.Value},
				)
			}

			if len(tokens) == 1 {
				next()
				continue
			}
		}

		if keyword == nil {
			unknown := &tokens[0]
			if label != nil {
				unknown = &tokens[1]
			}

			errs = append(
				errs, &UnknownIdentifierError{unknown.Position, unknown.Value},
			)

			next()
			continue
		}

		if directive == DIRECTIVE_END {
			if count := len(operands); count != 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 0, count},
				)
			}

			break
		}

		if symtable != nil && program < machine.MEMORY_SIZE {
			symtable.Symbols[uint16(program)] = cursor.LineByte
		}

		switch directive {
		// .DB byte[, byte...]
		case DIRECTIVE_DB:
			if len(operands) == 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, 0},
				)
			}

			for i := range operands {
				emit(uint16(literal(&operands[i], LITERAL_BYTE)), 1)
			}

		// .DW word|label[, word|label...]
		case DIRECTIVE_DW:
			if len(operands) == 0 {
				errs = append(
					errs, &InvalidNumArgumentsError{keyword.Position, 1, 0},
				)
			}

			for i := range operands {
				emit(address(&operands[i], true), 2)
			}
		}

		if instruction == INSTRUCTION_INVALID {
			next()
			continue
		}

		var ins machine.Instruction
		var required int

		switch instruction {
		case INSTRUCTION_CLS, INSTRUCTION_RET:
			required = 0
		case INSTRUCTION_JP, INSTRUCTION_CALL:
			required = 1
		case INSTRUCTION_LD, INSTRUCTION_ADD:
			required = 2
		case INSTRUCTION_DRW:
			required = 3
		}

		if count := len(operands); count != required {
			errs = append(
				errs,
				&InvalidNumArgumentsError{keyword.Position, required, count},
			)

			next()
			continue
		}

		switch instruction {
		// CLS
		case INSTRUCTION_CLS:
			ins.Op = machine.OP_CLS

		// RET
		case INSTRUCTION_RET:
			ins.Op = machine.OP_RET

		// JP addr
		case INSTRUCTION_JP:
			ins.Op = machine.OP_JP
			ins.NNN = address(&operands[0], false)

		// CALL addr
		case INSTRUCTION_CALL:
			ins.Op = machine.OP_CALL
			ins.NNN = address(&operands[0], false)

		// LD Vx, byte
		// LD I, addr
		case INSTRUCTION_LD:
			if reg := register(&operands[0], true); reg == REGISTER_INDEX {
				ins.Op = machine.OP_LDI
				ins.NNN = address(&operands[1], false)
			} else {
				ins.Op = machine.OP_LD
				ins.X = reg
				ins.NN = literal(&operands[1], LITERAL_BYTE)
			}

		// ADD Vx, byte
		case INSTRUCTION_ADD:
			ins.Op = machine.OP_ADD
			ins.X = register(&operands[0], false)
			ins.NN = literal(&operands[1], LITERAL_BYTE)

		// DRW Vx, Vy, nibble
		case INSTRUCTION_DRW:
			ins.Op = machine.OP_DRW
			ins.X = register(&operands[0], false)
			ins.Y = register(&operands[1], false)
			ins.N = literal(&operands[2], LITERAL_NIBBLE)
		}

		word, _ := ins.Encode()
		emit(word, 2)

		next()
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	for _, ref := range labelRefs {
		addr, exists := labels[ref.Label]

		if !exists {
			errs = append(errs, &UnknownLabelError{ref.Position, ref.Label})
			continue
		}

		if ref.Addr+1 >= machine.MEMORY_SIZE {
			continue
		}

		current := encoding.Word(memory[ref.Addr], memory[ref.Addr+1])

		if ref.Word {
			current = addr
		} else {
			current |= addr & 0xFFF
		}

		memory[ref.Addr], memory[ref.Addr+1] = encoding.SplitWord(current)
	}

	if overflow > 0 {
		errs = append(errs, &OversizedBinaryError{
			machine.PROGRAM_SIZE + overflow,
		})
	}

	return memory[machine.MEMSPACE_PROGRAM:program], errs
}
