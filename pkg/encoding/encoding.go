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

// Package encoding parses the numeric literals shared by the assembler and
// the debugger, and packs CHIP-8 words.
package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidHex = errors.New("invalid hex literal")
var ErrInvalidDecimal = errors.New("invalid decimal literal")

// DecodeHex accepts 0xFFF and xFFF, in either case
func DecodeHex(s string) (uint16, error) {
	var digits string

	switch {
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		digits = s[2:]
	case len(s) > 1 && (s[0] == 'x' || s[0] == 'X'):
		digits = s[1:]
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	result, err := strconv.ParseUint(digits, 16, 16)

	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	return uint16(result), nil
}

// DecodeUint accepts #123 and 123
func DecodeUint(s string) (uint16, error) {
	result, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 16)

	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}

	return uint16(result), nil
}

// Word joins two bytes in CHIP-8 (big-endian) order
func Word(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func SplitWord(value uint16) (hi, lo byte) {
	return byte(value >> 8), byte(value)
}
