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

package encoding_test

import (
	"errors"
	"testing"

	"github.com/lassandro/gochip8/pkg/encoding"
)

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		Input string
		Want  uint16
		Error bool
	}{
		{"0x2A0", 0x2A0, false},
		{"x2A0", 0x2A0, false},
		{"X2a0", 0x2A0, false},
		{"0xFF", 0xFF, false},
		{"0xFFFF", 0xFFFF, false},
		{"0x10000", 0, true},
		{"2A0", 0, true},
		{"00x2A0", 0, true},
		{"0xZZ", 0, true},
	}

	for _, test := range tests {
		have, err := encoding.DecodeHex(test.Input)

		if test.Error {
			if !errors.Is(err, encoding.ErrInvalidHex) {
				t.Errorf("%q: expected error, have %#04x", test.Input, have)
			}
			continue
		}

		if err != nil {
			t.Errorf("%q: %v", test.Input, err)
		} else if have != test.Want {
			t.Errorf("%q: want %#04x have %#04x", test.Input, test.Want, have)
		}
	}
}

func TestDecodeUint(t *testing.T) {
	tests := []struct {
		Input string
		Want  uint16
		Error bool
	}{
		{"#5", 5, false},
		{"42", 42, false},
		{"#65535", 0xFFFF, false},
		{"65536", 0, true},
		{"#-1", 0, true},
		{"#", 0, true},
		{"4x", 0, true},
	}

	for _, test := range tests {
		have, err := encoding.DecodeUint(test.Input)

		if test.Error {
			if !errors.Is(err, encoding.ErrInvalidDecimal) {
				t.Errorf("%q: expected error, have %d", test.Input, have)
			}
			continue
		}

		if err != nil {
			t.Errorf("%q: %v", test.Input, err)
		} else if have != test.Want {
			t.Errorf("%q: want %d have %d", test.Input, test.Want, have)
		}
	}
}

func TestWord(t *testing.T) {
	if have := encoding.Word(0xD0, 0x11); have != 0xD011 {
		t.Errorf("want 0xd011 have %#04x", have)
	}

	if hi, lo := encoding.SplitWord(0x12A0); hi != 0x12 || lo != 0xA0 {
		t.Errorf("want 0x12 0xa0 have %#02x %#02x", hi, lo)
	}
}
