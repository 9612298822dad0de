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
	"fmt"
	"strings"

	"github.com/lassandro/gochip8/pkg/machine"
)

// Every positional error embeds the Cursor of the offending token, which
// makes it a TokenError.

func locate(cursor Cursor, message string) string {
	return fmt.Sprintf("%02d:%02d: %s", cursor.Line, cursor.Column, message)
}

func wantHave(want, have interface{}) string {
	return fmt.Sprintf("\n\twant:%v\n\thave:%v", want, have)
}

func tokenTypeName(tokenType TokenType) string {
	switch tokenType {
	case TOKEN_IDENT:
		return "Identifier"
	case TOKEN_DIRECTIVE:
		return "Directive"
	case TOKEN_LITERAL:
		return "Literal"
	case TOKEN_REGISTER:
		return "Register"
	}

	return "<invalid>"
}

// joinAlternatives renders a list as "a", "a or b", or "a, b, or c"
func joinAlternatives(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	}

	last := len(names) - 1
	return strings.Join(names[:last], ", ") + ", or " + names[last]
}

type InvalidOperandError struct {
	Cursor
	Required []TokenType
	Received TokenType
}

func (err *InvalidOperandError) Error() string {
	names := make([]string, 0, len(err.Required))

	for _, tokenType := range err.Required {
		names = append(names, tokenTypeName(tokenType))
	}

	return locate(err.Cursor, "Invalid operands") + wantHave(
		joinAlternatives(names), tokenTypeName(err.Received),
	)
}

type InvalidNumArgumentsError struct {
	Cursor
	Required int
	Received int
}

func (err *InvalidNumArgumentsError) Error() string {
	return locate(err.Cursor, "Invalid number of arguments") +
		wantHave(err.Required, err.Received)
}

type InvalidLiteralError struct {
	Cursor
}

func (err *InvalidLiteralError) Error() string {
	return locate(err.Cursor, "Invalid numeric literal")
}

// OversizedLiteralError reports a literal that does not fit its operand.
// Required is the exclusive upper bound.
type OversizedLiteralError struct {
	Cursor
	Required uint32
	Received uint32
}

func (err *OversizedLiteralError) Error() string {
	return locate(err.Cursor, "Literal exceeds allowed size") + wantHave(
		fmt.Sprintf("<%#x", err.Required), fmt.Sprintf("%#x", err.Received),
	)
}

type UnexpectedCharacterError struct {
	Cursor
	Received rune
}

func (err *UnexpectedCharacterError) Error() string {
	return locate(err.Cursor, fmt.Sprintf("Unexpected character %c", err.Received))
}

type RedeclaredLabelError struct {
	Cursor
	Received string
}

func (err *RedeclaredLabelError) Error() string {
	return locate(
		err.Cursor, fmt.Sprintf("Redeclaration of label '%s'", err.Received),
	)
}

type UnknownLabelError struct {
	Cursor
	Received string
}

func (err *UnknownLabelError) Error() string {
	return locate(err.Cursor, fmt.Sprintf("Unknown label '%s'", err.Received))
}

type UnknownIdentifierError struct {
	Cursor
	Received string
}

func (err *UnknownIdentifierError) Error() string {
	return locate(
		err.Cursor, fmt.Sprintf("Unknown identifier '%s'", err.Received),
	)
}

// OversizedBinaryError is not positional: it is reported once, after the
// whole source has been assembled.
type OversizedBinaryError struct {
	Size int
}

func (err *OversizedBinaryError) Error() string {
	return "Binary exceeds allowed size" + wantHave(
		fmt.Sprintf("<=%d bytes", machine.PROGRAM_SIZE),
		fmt.Sprintf("%d bytes", err.Size),
	)
}
